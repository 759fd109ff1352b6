package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/99minutos/identity-service/internal/api/handler"
	"github.com/99minutos/identity-service/internal/api/middleware"
	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Log    zerolog.Logger
	Auth   ports.AuthService
	Users  ports.UserService
	Guard  ports.AccessGuard
	Health map[string]handler.Pinger
	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// Prometheus default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "identity",
		Registerer: registerer,
	}))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler(deps.Health)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))

	v1 := e.Group("/api/v1")
	authenticated := middleware.Auth(deps.Guard)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/refresh-token", authHandler.Refresh, authenticated, middleware.RBAC(deps.Guard))

	// --- User routes ---
	userHandler := handler.NewUserHandler(deps.Users)
	users := v1.Group("/users", authenticated)
	adminOnly := middleware.RBAC(deps.Guard, domain.RoleAdmin)
	anyRole := middleware.RBAC(deps.Guard, domain.RoleAdmin, domain.RoleUser)

	users.POST("", userHandler.Create, adminOnly)
	users.GET("", userHandler.List, adminOnly)
	users.GET("/:id", userHandler.FindOne, anyRole)
	users.GET("/email/:email", userHandler.FindOne, anyRole)
	users.PATCH("/:id", userHandler.Update, anyRole)
	users.PATCH("/email/:email", userHandler.Update, anyRole)
	users.DELETE("/:id", userHandler.Remove, anyRole)
	users.DELETE("/email/:email", userHandler.Remove, anyRole)

	return e
}
