package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/elskow/legoset/internal/api"
	"github.com/elskow/legoset/internal/auth"
	"github.com/elskow/legoset/internal/catalog"
	"github.com/elskow/legoset/internal/config"
	"github.com/elskow/legoset/internal/database"
	"github.com/elskow/legoset/internal/web"
)

const healthTimeout = 2 * time.Second

// RouteRegistrar is implemented by every module that serves HTTP routes.
type RouteRegistrar interface {
	RegisterRoutes(e *echo.Echo)
}

// HealthCheck pings one backing store.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

type Server struct {
	config *config.AppConfig
	log    *zap.Logger
	echo   *echo.Echo
	checks []HealthCheck
}

type Params struct {
	fx.In

	Config         *config.AppConfig
	Logger         *zap.Logger
	Renderer       *web.Renderer
	Pages          *web.Pages
	Sessions       *auth.SessionManager
	AuthHandler    *auth.Handler
	CatalogHandler *catalog.Handler
	Database       *database.Manager
	Mongo          *database.MongoManager
	Redis          *redis.Client
}

func NewServer(p Params) *Server {
	checks := []HealthCheck{
		{Name: "postgres", Ping: p.Database.Ping},
		{Name: "mongo", Ping: p.Mongo.Ping},
	}
	if p.Redis != nil {
		checks = append(checks, HealthCheck{
			Name: "redis",
			Ping: func(ctx context.Context) error { return p.Redis.Ping(ctx).Err() },
		})
	}

	return New(p.Config, p.Logger, p.Renderer, p.Sessions, checks,
		p.Pages, p.AuthHandler, p.CatalogHandler)
}

// New assembles the router: request logging, panic recovery, session loading
// and the guard for protected routes run before every handler.
func New(
	cfg *config.AppConfig,
	log *zap.Logger,
	renderer echo.Renderer,
	sessions *auth.SessionManager,
	checks []HealthCheck,
	registrars ...RouteRegistrar,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer

	s := &Server{
		config: cfg,
		log:    log,
		echo:   e,
		checks: checks,
	}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method),
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("user_agent", v.UserAgent),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(sessions.LoadSession())
	e.Use(auth.RequireSession(api.ProtectedRoutes, api.RouteLogin))

	e.GET(api.RouteHealth, s.health)
	for _, r := range registrars {
		r.RegisterRoutes(e)
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	result := make(map[string]string, len(s.checks))
	for _, check := range s.checks {
		if err := check.Ping(ctx); err != nil {
			s.log.Warn("health check failed", zap.String("store", check.Name), zap.Error(err))
			result[check.Name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		result[check.Name] = "ok"
	}

	return c.JSON(status, result)
}

// handleError renders routing misses as the not-found view and everything
// else as the error view.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = fmt.Sprint(he.Message)
	}

	var renderErr error
	switch code {
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		renderErr = web.NotFound(c, web.MsgNoRoute)
	default:
		s.log.Error("unhandled request error",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", code),
			zap.Error(err))
		renderErr = web.ServerError(c, fmt.Sprintf("Internal Server Error: %s", message))
	}

	if renderErr != nil {
		s.log.Error("failed to render error view", zap.Error(renderErr))
		if !c.Response().Committed {
			_ = c.NoContent(code)
		}
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port)

	s.log.Info("server listening",
		zap.String("address", addr),
		zap.String("environment", s.config.Env),
	)

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
