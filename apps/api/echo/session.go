package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/wilsonXeem/school-results-management-system-server/core/session"
)

type sessionApi struct {
	svc      session.Service
	validate *validator.Validate
}

func registerSessionAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := sessionApi{
		svc:      deps.SessionSvc,
		validate: deps.Validate,
	}

	sg := g.Group("/sessions", jwt)
	sg.POST("", api.create)
	sg.GET("", api.query)
	sg.GET("/:name", api.retrieve)
	sg.PUT("/:name/current", api.setCurrent)
	sg.DELETE("/:id", api.destroy, adminMiddleware())
	sg.POST("/externals", api.addExternalCourse)
}

// Handlers

func (api *sessionApi) create(ctx echo.Context) error {
	var data session.NewSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Register(data)
	if err != nil {
		return errors.Wrap(err, "registering session")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *sessionApi) query(ctx echo.Context) error {
	sessions, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying sessions")
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *sessionApi) retrieve(ctx echo.Context) error {
	s, err := api.svc.Get(ctx.Param("name"))
	if err != nil {
		return errors.Wrap(err, "finding session")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *sessionApi) setCurrent(ctx echo.Context) error {
	s, err := api.svc.SetCurrent(ctx.Param("name"))
	if err != nil {
		return errors.Wrap(err, "setting current session")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *sessionApi) destroy(ctx echo.Context) error {
	if err := api.svc.Remove(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sessionApi) addExternalCourse(ctx echo.Context) error {
	var data session.NewExternalCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExternalCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ec, err := api.svc.AddExternalCourse(data)
	if err != nil {
		return errors.Wrap(err, "adding external course")
	}
	return ctx.JSON(http.StatusCreated, ec)
}
