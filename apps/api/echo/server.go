package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/wilsonXeem/school-results-management-system-server/core"
	"github.com/wilsonXeem/school-results-management-system-server/core/probation"
	"github.com/wilsonXeem/school-results-management-system-server/core/result"
	"github.com/wilsonXeem/school-results-management-system-server/core/session"
	"github.com/wilsonXeem/school-results-management-system-server/core/staff"
	"github.com/wilsonXeem/school-results-management-system-server/core/student"
)

type (
	// ServerDeps is everything the API server needs to operate.
	ServerDeps struct {
		Conf         *core.Config
		Logger       core.Logger
		StaffSvc     staff.Service
		StudentSvc   student.Service
		SessionSvc   session.Service
		ResultSvc    result.Service
		ProbationSvc probation.Service
		Validate     *validator.Validate
		Translator   ut.Translator
	}

	Server struct {
		deps       ServerDeps
		app        *echo.Echo
		jwtConf    middleware.JWTConfig
		errCh      chan error
		shutdownCh chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:       deps,
		app:        echo.New(),
		jwtConf:    newJWTConfig(deps.Conf),
		errCh:      make(chan error, 1),
		shutdownCh: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdownCh, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(s.jwtConf)

	registerStaffAPI(v1, jwt, s.deps)
	registerSessionAPI(v1, jwt, s.deps)
	registerClassAPI(v1, jwt, s.deps)
	registerStudentAPI(v1, jwt, s.deps)
}

func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Host); err != nil && err != http.ErrServerClosed {
		s.errCh <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errCh }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdownCh }

func (s *Server) signalShutdown() {
	s.shutdownCh <- syscall.SIGTERM
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the School Results API!")
}
