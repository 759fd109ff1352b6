package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/99minutos/identity-service/internal/api"
	"github.com/99minutos/identity-service/internal/api/handler"
	"github.com/99minutos/identity-service/internal/core/service"
	"github.com/99minutos/identity-service/internal/infrastructure/crypto"
	"github.com/99minutos/identity-service/internal/pkg/config"
	"github.com/99minutos/identity-service/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "identity-service",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	hasher := crypto.NewBcryptHasher(crypto.DefaultCost)
	tokens, err := crypto.NewJWTCodec(cfg.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build token codec")
	}

	created, err := service.EnsureAdmin(ctx, repo, hasher, service.AdminSeed{
		Name:     cfg.Seed.AdminName,
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin")
	}
	if created {
		log.Info().Str("email", cfg.Seed.AdminEmail).Msg("seeded admin account")
	}

	e := api.NewRouter(api.Dependencies{
		Log:    logger.For("http"),
		Auth:   service.NewAuthService(repo, hasher, tokens, logger.For("auth")),
		Users:  service.NewUserService(repo, hasher, logger.For("users")),
		Guard:  service.NewAccessGuard(tokens, repo, logger.For("guard")),
		Health: map[string]handler.Pinger{cfg.StoreDriver: repo},
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.StoreDriver).Msg("identity service listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
