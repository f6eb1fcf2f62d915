package api

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/companydev/user-identity-service/docs"
	"github.com/companydev/user-identity-service/internal/api/handler"
	"github.com/companydev/user-identity-service/internal/api/middleware"
	"github.com/companydev/user-identity-service/internal/core/ports"
)

// RouterDeps carries everything the router wires together. Construction of
// services and adapters happens in main; the router only binds routes.
type RouterDeps struct {
	UserService ports.UserService
	AuthService ports.AuthService

	Pool   *pgxpool.Pool
	Redis  *redis.Client
	Broker handler.Pinger

	TokenSecret     string
	RateLimit       int
	RateLimitWindow time.Duration

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	userHandler := handler.NewUserHandler(deps.UserService)
	authHandler := handler.NewAuthHandler(deps.AuthService)
	authMW := middleware.Auth(deps.TokenSecret)
	limitMW := middleware.RateLimit(deps.Redis, deps.RateLimit, deps.RateLimitWindow)

	// --- User routes ---
	// Registration is public (rate-limited); everything else needs a token.
	users := e.Group("/v1/users")
	users.POST("", userHandler.Register, limitMW)
	users.GET("", userHandler.List, authMW)
	users.GET("/:id", userHandler.Get, authMW)
	users.GET("/by-email/:email", userHandler.GetByEmail, authMW)
	users.PATCH("/:id", userHandler.Update, authMW)
	users.POST("/:id/activate", userHandler.Activate, authMW)
	users.POST("/:id/deactivate", userHandler.Deactivate, authMW)

	// --- Auth routes (public, rate-limited) ---
	auth := e.Group("/v1/auth", limitMW)
	auth.POST("/login", authHandler.Login)
	auth.POST("/challenge", authHandler.CompleteChallenge)
	auth.POST("/refresh", authHandler.Refresh)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Pool, deps.Redis, deps.Broker)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- API docs ---
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
