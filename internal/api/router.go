package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/satamkundu/itwiz-student-crud-assignment-backend/docs"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/api/handler"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/api/metrics"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/api/middleware"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/ports"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/infrastructure/http/handlers"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	AuthService    ports.AuthService
	StudentService ports.StudentService
	HealthChecks   []handlers.DependencyCheck
	Logger         zerolog.Logger
	// Debug adds diagnostic error text to 5xx responses.
	Debug bool
	// Registry receives the HTTP and business metrics and backs /metrics.
	// Defaults to the global Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger, deps.Debug)

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
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "students_api",
		Subsystem:  "http",
		Registerer: registerer,
	}))

	// --- Dependencies ---
	m := metrics.New(registerer)
	authHandler := handler.NewAuthHandler(deps.AuthService, m)
	studentHandler := handler.NewStudentHandler(deps.StudentService, m)
	requireAuth := middleware.Auth(deps.AuthService)

	// --- Auth routes ---
	e.POST("/login", authHandler.Login)
	e.POST("/register", authHandler.Register)
	e.POST("/logout", authHandler.Logout, requireAuth)

	// --- Student routes (bearer token required) ---
	students := e.Group("/students", requireAuth)
	students.GET("", studentHandler.List)
	students.POST("", studentHandler.Create)
	students.GET("/:id", studentHandler.Get)
	students.PUT("/:id", studentHandler.Update)
	students.PATCH("/:id", studentHandler.Update)
	students.DELETE("/:id", studentHandler.Delete)

	// --- Health checks (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.HealthChecks...)

	e.GET("/health", healthHandler.Liveness)            // is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
