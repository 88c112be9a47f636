package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/niyam-ai/compliance-os-backend/api/routes"
	"github.com/niyam-ai/compliance-os-backend/internal/auth"
	"github.com/niyam-ai/compliance-os-backend/internal/records"
	"github.com/niyam-ai/compliance-os-backend/pkg/config"
	"github.com/niyam-ai/compliance-os-backend/pkg/env"
	"github.com/niyam-ai/compliance-os-backend/pkg/logger"
	"github.com/niyam-ai/compliance-os-backend/pkg/metrics"
	"github.com/niyam-ai/compliance-os-backend/pkg/redis"
	"github.com/niyam-ai/compliance-os-backend/pkg/supabase"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	// The storage mode is decided once, here. A hosted backend that cannot
	// be reached at startup demotes the process to the flat-file fallback
	// store rather than failing the boot.
	backend := selectBackend(cfg, logg)

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Warn(context.Background(), "redis unavailable, auth rate limiting disabled")
			redisClient = nil
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logg.Error(context.Background(), "error closing redis", err)
				}
			}()
		}
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Backend: backend,
		JWT:     cfg.JWT,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics()

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": backend.Name(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, authService, redisClient, httpMetrics),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func selectBackend(cfg *config.Config, logg *logger.Logger) auth.Backend {
	if cfg.Supabase.Configured() {
		pair, err := supabase.NewPair(context.Background(), cfg.Supabase, logg)
		if err == nil {
			backend, err := auth.NewSupabaseBackend(pair)
			if err == nil {
				return backend
			}
			logg.Warn(context.Background(), "supabase backend rejected, falling back to record store")
		} else {
			logg.Warn(context.Background(), "supabase unavailable, falling back to record store")
		}
	} else {
		logg.Warn(context.Background(), "supabase not configured, using record store")
	}

	store, err := records.NewFileStore(cfg.Records.Dir)
	if err != nil {
		logg.Error(context.Background(), "failed to open record store", err)
		os.Exit(1)
	}
	backend, err := auth.NewFileBackend(store, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create fallback backend", err)
		os.Exit(1)
	}
	return backend
}
