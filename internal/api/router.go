package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/inkpost/blog-api/docs"
	"github.com/inkpost/blog-api/internal/api/handler"
	"github.com/inkpost/blog-api/internal/api/middleware"
	"github.com/inkpost/blog-api/internal/core/ports"
)

// Dependencies carries everything NewRouter wires into handlers.
type Dependencies struct {
	AuthService    ports.AuthService
	PostService    ports.PostService
	CommentService ports.CommentService

	// Readiness lists the dependencies probed by /health/ready.
	Readiness map[string]handler.Pinger

	// Registerer and Gatherer enable HTTP metrics and /metrics when both are set.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Logger zerolog.Logger
}

// versionMounts maps URL prefixes to presentation versions. The bare root
// is an alias of v1.
var versionMounts = []struct {
	prefix  string
	version handler.Version
}{
	{"", handler.V1},
	{"/v1", handler.V1},
	{"/v2", handler.V2},
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// Resource routes are registered with a trailing slash; accept both forms.
	e.Pre(echomiddleware.AddTrailingSlashWithConfig(echomiddleware.TrailingSlashConfig{
		Skipper: isInfraPath,
	}))

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))

	if deps.Registerer != nil && deps.Gatherer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "http",
			Registerer: deps.Registerer,
			Skipper:    isInfraPath,
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: deps.Gatherer,
		}))
	}

	// --- Health probes (no auth required) ---
	health := handler.NewHealthHandler(deps.Readiness)
	e.GET("/health", health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness – are dependencies up?

	// --- API docs ---
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Versioned API ---
	tokenAuth := middleware.TokenAuth(deps.AuthService)
	authHandler := handler.NewAuthHandler(deps.AuthService)
	for _, m := range versionMounts {
		g := e.Group(m.prefix)

		g.POST("/signup/", authHandler.Signup)
		g.POST("/login/", authHandler.Login)

		posts := handler.NewPostHandler(deps.PostService, deps.CommentService, m.version)
		g.GET("/posts/", posts.List, tokenAuth)
		g.POST("/posts/", posts.Create, tokenAuth)
		g.GET("/posts/:id/", posts.Get, tokenAuth)
		g.PUT("/posts/:id/", posts.Update, tokenAuth)
		g.PATCH("/posts/:id/", posts.Patch, tokenAuth)
		g.DELETE("/posts/:id/", posts.Delete, tokenAuth)

		comments := handler.NewCommentHandler(deps.CommentService, m.version)
		g.GET("/comments/", comments.List, tokenAuth)
		g.POST("/comments/", comments.Create, tokenAuth)
		g.GET("/comments/:id/", comments.Get, tokenAuth)
		g.GET("/comments/:id/post_comments/", comments.ForPost, tokenAuth)
		g.PUT("/comments/:id/", comments.Update, tokenAuth)
		g.PATCH("/comments/:id/", comments.Patch, tokenAuth)
		g.DELETE("/comments/:id/", comments.Delete, tokenAuth)
	}

	return e
}

// isInfraPath reports whether path belongs to an operational endpoint that
// is neither slash-normalised nor counted in HTTP metrics.
func isInfraPath(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
}
