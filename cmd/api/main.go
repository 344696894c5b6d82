// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Anime HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the configured store (PostgreSQL, SQLite or memory) and migrate it.
//  4. Decorate the anime store with retries and the read-through cache.
//  5. Ensure the bootstrap admin account.
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/taibuivan/animes/internal/api"
	"github.com/taibuivan/animes/internal/core/anime"
	"github.com/taibuivan/animes/internal/platform/cache"
	"github.com/taibuivan/animes/internal/platform/config"
	"github.com/taibuivan/animes/internal/platform/constants"
	"github.com/taibuivan/animes/internal/platform/metrics"
	"github.com/taibuivan/animes/internal/platform/sec"
	"github.com/taibuivan/animes/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("store_driver", cfg.StoreDriver),
		slog.String("cache_provider", cfg.CacheProvider),
	)

	// Misconfiguration fails fast instead of hanging on an unreachable store.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer startupCancel()

	// ── 3. Storage ────────────────────────────────────────────────────────
	store, err := openStorage(startupCtx, cfg, log)
	must(log, err, "open storage")
	defer store.close()

	// ── 4. Anime Repository Decorators ────────────────────────────────────
	animeRepository := store.animes
	if cfg.StoreRetryAttempts > 0 && cfg.StoreDriver == config.DriverPostgres {
		animeRepository = anime.NewRetryingRepository(animeRepository, cfg.StoreRetryAttempts, cfg.StoreRetryBackoff, log)
	}

	var animeCache cache.Cache
	if cfg.CacheProvider != config.CacheNone {
		animeCache, err = cache.New(cfg.CacheProvider, cache.ProviderConfig{
			Size:     cfg.CacheSize,
			TTL:      cfg.CacheTTL,
			Logger:   log,
			RedisURL: cfg.RedisURL,
			Group:    constants.CacheGroupAnime,
		})
		must(log, err, "create anime cache")
		defer func() {
			if cerr := animeCache.Close(); cerr != nil {
				log.Error("cache_close_failed", slog.Any("error", cerr))
			}
		}()
		animeRepository = anime.NewCachedRepository(animeRepository, animeCache, log)
	}

	// ── 5. Auth ───────────────────────────────────────────────────────────
	authService := auth.NewService(store.users, log)

	if cfg.BootstrapAdminUsername != "" {
		must(log, authService.EnsureUser(startupCtx, auth.CreateUserInput{
			Username: cfg.BootstrapAdminUsername,
			Password: cfg.BootstrapAdminPassword,
			Role:     string(sec.RoleAdmin),
		}), "ensure bootstrap admin")
	}

	security := api.Security{Credentials: authService}
	if cfg.JWTPubKeyPath != "" {
		verifier, err := sec.NewTokenVerifier(cfg.JWTPubKeyPath, cfg.JWTIssuer)
		must(log, err, "load jwt public key")
		security.Verifier = verifier
		log.Info("bearer_authentication_enabled", slog.String("issuer", cfg.JWTIssuer))
	}

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	health := api.HealthDependencies{
		DatabaseName:  cfg.StoreDriver,
		CheckDatabase: store.ping,
	}
	if animeCache != nil {
		health.CheckCache = func(ctx context.Context) error {
			return cache.Ping(ctx, animeCache)
		}
	}
	liveness, readiness := api.NewHealthHandlers(health, log)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   metrics.Handler(prometheus.DefaultGatherer),
		Anime:     anime.NewHandler(anime.NewService(animeRepository, log)),
	}

	server := api.NewServer(serverCtx, cfg, log, security, metrics.NewHTTP(prometheus.DefaultRegisterer), handlers)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("server_shutting_down", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

// newLogger builds the JSON root logger tagged with the application name.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
