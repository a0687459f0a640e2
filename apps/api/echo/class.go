package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/wilsonXeem/school-results-management-system-server/core/probation"
	"github.com/wilsonXeem/school-results-management-system-server/core/result"
)

type classApi struct {
	results   result.Service
	probation probation.Service
	validate  *validator.Validate
}

func registerClassAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := classApi{
		results:   deps.ResultSvc,
		probation: deps.ProbationSvc,
		validate:  deps.Validate,
	}

	cg := g.Group("/class", jwt)
	cg.POST("/register", api.register)
	cg.POST("/register-external", api.registerExternal)
	cg.POST("/scores", api.recordScores)
	cg.POST("/scores/total", api.recordTotals)
	cg.POST("/roster", api.roster)
	cg.GET("/course/:session/:semester/:code", api.studentsByCourse)
	cg.POST("/publish", api.publish)
	cg.POST("/probation", api.probationList)
	cg.POST("/errors", api.errorStudents)
}

// Handlers

func (api *classApi) register(ctx echo.Context) error {
	var data result.RegisterCourses
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RegisterCourses")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	report, err := api.results.RegisterStudents(data)
	if err != nil {
		return errors.Wrap(err, "registering students")
	}
	return ctx.JSON(http.StatusCreated, report)
}

func (api *classApi) registerExternal(ctx echo.Context) error {
	var data result.RegisterExternal
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RegisterExternal")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sr, err := api.results.RegisterExternal(data)
	if err != nil {
		return errors.Wrap(err, "registering external course")
	}
	return ctx.JSON(http.StatusCreated, sr)
}

func (api *classApi) recordScores(ctx echo.Context) error {
	var data result.AddScores
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddScores")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	report, err := api.results.RecordScores(data)
	if err != nil {
		return errors.Wrap(err, "recording scores")
	}
	return ctx.JSON(http.StatusOK, report)
}

func (api *classApi) recordTotals(ctx echo.Context) error {
	var data result.AddTotals
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddTotals")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	report, err := api.results.RecordTotals(data)
	if err != nil {
		return errors.Wrap(err, "recording totals")
	}
	return ctx.JSON(http.StatusOK, report)
}

func (api *classApi) roster(ctx echo.Context) error {
	var data RosterRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RosterRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	roster, err := api.results.ClassRoster(data.ClassID, data.Session, data.Semester, data.Level)
	if err != nil {
		return errors.Wrap(err, "resolving class roster")
	}
	return ctx.JSON(http.StatusOK, roster)
}

func (api *classApi) studentsByCourse(ctx echo.Context) error {
	semester, err := strconv.Atoi(ctx.Param("semester"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid semester")
	}

	rows, err := api.results.StudentsByCourse(ctx.Param("session"), semester, ctx.Param("code"))
	if err != nil {
		return errors.Wrap(err, "querying students by course")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *classApi) publish(ctx echo.Context) error {
	var data SessionRef
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SessionRef")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	report, err := api.results.Publish(data.Session, data.Semester)
	if err != nil {
		return errors.Wrap(err, "publishing results")
	}
	return ctx.JSON(http.StatusOK, report)
}

func (api *classApi) probationList(ctx echo.Context) error {
	var data ProbationRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProbationRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	entries, err := api.probation.ProbationList(data.Session, data.Level)
	if err != nil {
		return errors.Wrap(err, "computing probation list")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *classApi) errorStudents(ctx echo.Context) error {
	errored, err := api.probation.ErrorStudents()
	if err != nil {
		return errors.Wrap(err, "detecting error students")
	}
	return ctx.JSON(http.StatusOK, errored)
}
