package echoapi

import (
	"context"
	"net/http"
	"os"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/hesabu/core"
	"github.com/trezcool/hesabu/core/attempt"
	"github.com/trezcool/hesabu/core/catalog"
	"github.com/trezcool/hesabu/core/problem"
	"github.com/trezcool/hesabu/core/user"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool

		Conf       *core.Config
		Logger     core.Logger
		Catalog    *catalog.Catalog
		UserSvc    *user.Service
		ProblemSvc *problem.Service
		AttemptSvc *attempt.Service

		// Shutdown receives a SIGTERM when an unrecoverable error is caught.
		Shutdown chan<- os.Signal
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	validate, translator := core.NewValidator()
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	if conf.Server.PublicDir != "" {
		s.app.Static("/", conf.Server.PublicDir)
	}

	appJWTConfig.SigningKey = []byte(conf.SecretKey)
	jwt := middleware.JWTWithConfig(appJWTConfig)

	g := s.app.Group("/api")
	registerUserAPI(g, s.opts.UserSvc, validate, conf)
	registerCatalogAPI(g, s.opts.Catalog)
	registerProblemAPI(g, jwt, s.opts.ProblemSvc, validate)
	registerAttemptAPI(g, jwt, s.opts.AttemptSvc, validate)
}

// signalShutdown gracefully shuts the app down whenever an unrecoverable
// error is caught by the error handler.
func (s *server) signalShutdown() {
	if s.opts.Shutdown != nil {
		s.opts.Shutdown <- syscall.SIGTERM
	}
}

func (s *server) Start() {
	if err := s.app.Start(s.opts.Addr); err != nil && err != http.ErrServerClosed {
		s.app.Logger.Fatal(err)
	}
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
