package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/companydev/user-identity-service/internal/api"
	"github.com/companydev/user-identity-service/internal/core/service"
	"github.com/companydev/user-identity-service/internal/infrastructure/config"
	"github.com/companydev/user-identity-service/internal/infrastructure/db/postgres"
	"github.com/companydev/user-identity-service/internal/infrastructure/db/redis"
	"github.com/companydev/user-identity-service/internal/infrastructure/identity"
	"github.com/companydev/user-identity-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/companydev/user-identity-service/pkg/logger"
)

// @title           User Identity Service API
// @version         1.0
// @description     User lifecycle and authentication API coordinating a relational store, an identity provider and an event bus.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "user-identity-service",
	})

	if cfg.Auth.TokenSecret == "" {
		log.Fatal().Msg("TOKEN_SECRET is required")
	}

	ctx := context.Background()

	pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer func() { _ = rdb.Close() }()

	publisher, err := rabbitmq.NewPublisher(cfg.Rabbit.URL, cfg.Rabbit.Queue, log)
	if err != nil {
		log.Fatal().Err(err).Msg("rabbitmq connect failed")
	}
	defer publisher.Close()

	tokens := identity.NewTokenIssuer(
		cfg.Auth.TokenSecret,
		cfg.Auth.Issuer,
		cfg.Auth.AccessTTL,
		cfg.Auth.RefreshTTL,
		cfg.Auth.SessionTTL,
	)
	provider := identity.NewProvider(pool, tokens, log)
	store := postgres.NewUserStore(pool)

	userService := service.NewUserService(provider, store, store, store, log)
	authService := service.NewAuthService(store, provider, publisher, log)

	consumer, err := rabbitmq.NewConsumer(cfg.Rabbit.URL, cfg.Rabbit.Queue, userService, log)
	if err != nil {
		log.Fatal().Err(err).Msg("rabbitmq consumer setup failed")
	}
	defer consumer.Close()

	if err := consumer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("rabbitmq consume failed")
	}

	e := api.NewRouter(api.RouterDeps{
		UserService:     userService,
		AuthService:     authService,
		Pool:            pool,
		Redis:           rdb,
		Broker:          publisher,
		TokenSecret:     cfg.Auth.TokenSecret,
		RateLimit:       cfg.Auth.RateLimit,
		RateLimitWindow: cfg.Auth.RateLimitWindow,
		Log:             log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
