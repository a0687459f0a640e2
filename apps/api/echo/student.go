package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/wilsonXeem/school-results-management-system-server/core"
	"github.com/wilsonXeem/school-results-management-system-server/core/result"
	"github.com/wilsonXeem/school-results-management-system-server/core/student"
)

type studentApi struct {
	students student.Service
	results  result.Service
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := studentApi{
		students: deps.StudentSvc,
		results:  deps.ResultSvc,
		validate: deps.Validate,
	}

	sg := g.Group("/students", jwt)
	sg.GET("", api.query)
	sg.GET("/top", api.topByCGPA)
	sg.PUT("/name", api.updateName)
	sg.PUT("/moe", api.updateMOE)
	sg.PUT("/moe/bulk", api.bulkUpdateMOE)
	sg.PUT("/level", api.updateLevel)
	sg.DELETE("/courses", api.removeCourse)

	dg := sg.Group("/:regno")
	dg.GET("", api.retrieve)
	dg.GET("/results", api.resultsByStudent)
	dg.GET("/summary/:session", api.sessionSummary)
	dg.DELETE("", api.destroy, adminMiddleware())
	dg.DELETE("/results/:session", api.removeSession, adminMiddleware())
	dg.DELETE("/results/:session/:semester", api.removeSemester, adminMiddleware())
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	students, err := api.students.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) topByCGPA(ctx echo.Context) error {
	n, _ := strconv.Atoi(ctx.QueryParam("n"))
	students, err := api.students.TopByCGPA(n)
	if err != nil {
		return errors.Wrap(err, "querying top students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	st, err := api.students.GetByRegNo(ctx.Param("regno"))
	if err != nil {
		return errors.Wrap(err, "finding student")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) updateName(ctx echo.Context) error {
	var data student.UpdateName
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateName")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	st, err := api.students.UpdateName(data)
	if err != nil {
		return errors.Wrap(err, "updating student name")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) updateMOE(ctx echo.Context) error {
	var data student.UpdateMOE
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMOE")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	st, err := api.students.UpdateMOE(data)
	if err != nil {
		return errors.Wrap(err, "updating student mode of entry")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) bulkUpdateMOE(ctx echo.Context) error {
	var data student.BulkMOE
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BulkMOE")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	report, err := api.students.BulkUpdateMOE(data)
	if err != nil {
		return errors.Wrap(err, "bulk updating mode of entry")
	}
	return ctx.JSON(http.StatusOK, report)
}

type updateLevelRequest struct {
	RegNo    string `json:"reg_no" validate:"required"`
	Session  string `json:"session" validate:"required,sessionname"`
	Semester int    `json:"semester" validate:"semester"`
	Level    int    `json:"level" validate:"level"`
}

func (ul *updateLevelRequest) Validate(validate *validator.Validate) error {
	ul.RegNo = core.CleanString(ul.RegNo)
	ul.Session = core.CleanString(ul.Session)
	return validate.Struct(ul)
}

func (api *studentApi) updateLevel(ctx echo.Context) error {
	var data updateLevelRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to updateLevelRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sr, err := api.results.UpdateLevel(data.RegNo, data.Session, data.Semester, data.Level)
	if err != nil {
		return errors.Wrap(err, "updating result level")
	}
	return ctx.JSON(http.StatusOK, sr)
}

func (api *studentApi) removeCourse(ctx echo.Context) error {
	var data result.RemoveCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RemoveCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sr, err := api.results.RemoveCourse(data)
	if err != nil {
		return errors.Wrap(err, "removing course")
	}
	return ctx.JSON(http.StatusOK, sr)
}

func (api *studentApi) resultsByStudent(ctx echo.Context) error {
	results, err := api.results.ResultsByStudent(ctx.Param("regno"))
	if err != nil {
		return errors.Wrap(err, "querying student results")
	}
	return ctx.JSON(http.StatusOK, results)
}

func (api *studentApi) sessionSummary(ctx echo.Context) error {
	summary, err := api.results.SessionSummary(ctx.Param("regno"), ctx.Param("session"))
	if err != nil {
		return errors.Wrap(err, "assembling session summary")
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (api *studentApi) removeSession(ctx echo.Context) error {
	if err := api.results.RemoveSession(ctx.Param("regno"), ctx.Param("session")); err != nil {
		return errors.Wrap(err, "removing session results")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) removeSemester(ctx echo.Context) error {
	semester, err := strconv.Atoi(ctx.Param("semester"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid semester")
	}
	if err = api.results.RemoveSemester(ctx.Param("regno"), ctx.Param("session"), semester); err != nil {
		return errors.Wrap(err, "removing semester result")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.students.Delete(ctx.Param("regno")); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}
