package echoapi

import (
	"context"
	"net/http"
	"os"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/sesiones/core"
	"github.com/trezcool/sesiones/core/auth"
	"github.com/trezcool/sesiones/core/notice"
	"github.com/trezcool/sesiones/core/session"
	"github.com/trezcool/sesiones/core/user"
)

type (
	// Deps holds the services the API is built on.
	Deps struct {
		SessionSvc *session.Service
		UserSvc    *user.Service
		Identity   auth.Provider
		Notices    *notice.Catalog
		Validate   *validator.Validate
		Translator ut.Translator
		Logger     core.Logger
		Clock      core.Clock
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		conf     *core.Config
		deps     *Deps
		app      *echo.Echo
		shutdown chan<- os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(conf *core.Config, shutdown chan<- os.Signal, deps *Deps) Server {
	if deps.Clock == nil {
		deps.Clock = core.RealClock{}
	}
	s := &server{
		conf:     conf,
		deps:     deps,
		app:      echo.New(),
		shutdown: shutdown,
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.conf.Debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{s.conf.FrontendBaseURL},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, echo.HeaderAcceptEncoding, "Accept-Language"},
	}))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = s.conf.Debug

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	jwt := newJWTMiddleware([]byte(s.conf.Identity.JWTSecret), s.deps.Identity)

	registerAuthAPI(v1, jwt, s.deps, s.conf.FrontendBaseURL)
	registerSessionAPI(v1, jwt, s.deps)
	registerCalendarAPI(v1, jwt, s.deps, s.conf.AppName)
	registerUserAPI(v1, jwt, s.deps, s.conf.AppName, s.conf.FrontendBaseURL)
}

func (s *server) Start() error {
	return s.app.Start(s.conf.Server.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) signalShutdown() {
	if s.shutdown != nil {
		s.shutdown <- syscall.SIGTERM
	}
}

func (s *server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Bienvenido a la API de "+s.conf.AppName)
}
