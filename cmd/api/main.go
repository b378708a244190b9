// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

// Command api is the entry point for the Komiko HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Connect to RabbitMQ.
//  6. Run database migrations (idempotent).
//  7. Wire blob storage, notifications, and domain handlers.
//  8. Start the retention scheduler and the HTTP server with graceful shutdown.
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
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hoangbui/komiko/internal/api"
	"github.com/hoangbui/komiko/internal/core/comic"
	"github.com/hoangbui/komiko/internal/core/series"
	"github.com/hoangbui/komiko/internal/platform/blob"
	"github.com/hoangbui/komiko/internal/platform/config"
	"github.com/hoangbui/komiko/internal/platform/constants"
	"github.com/hoangbui/komiko/internal/platform/migration"
	"github.com/hoangbui/komiko/internal/platform/notify"
	pgstore "github.com/hoangbui/komiko/internal/platform/postgres"
	redisstore "github.com/hoangbui/komiko/internal/platform/redis"
	"github.com/hoangbui/komiko/internal/platform/sec"
	"github.com/hoangbui/komiko/internal/users/account"
	"github.com/hoangbui/komiko/internal/users/creator"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Komiko] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. RabbitMQ ───────────────────────────────────────────────────────
	amqpConn, err := amqp.Dial(cfg.AMQPURL)
	must(log, err, "connect to rabbitmq")
	defer func() {
		log.Info("closing amqp connection")
		if cerr := amqpConn.Close(); cerr != nil {
			log.Error("amqp close error", slog.Any("error", cerr))
		}
	}()

	// ── 6. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 7. Platform Services ──────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	blobStore, err := blob.NewFileStore(cfg.BlobRoot, cfg.BlobBaseURL, cfg.BlobURLSecret, log)
	must(log, err, "initialize blob storage")

	notifier, err := notify.NewAMQPNotifier(amqpConn, cfg.NotifyQueue, log)
	must(log, err, "initialize notifier")
	defer notifier.Close()

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckBroker: func() error {
			if amqpConn.IsClosed() {
				return errors.New("amqp connection closed")
			}
			return nil
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	userRepository := account.NewUserRepository(pool)
	sessionRepository := account.NewSessionRepository(rdb)
	accountService := account.NewService(userRepository, sessionRepository, jwtSvc, log)
	accountHandler := account.NewHandler(accountService)

	flagRepository := creator.NewFlagRepository(pool)
	profileRepository := creator.NewProfileRepository(pool)
	creatorService := creator.NewService(flagRepository, profileRepository, notifier, log)
	creatorHandler := creator.NewHandler(creatorService)

	comicRepository := comic.NewComicRepository(pool)
	comicService := comic.NewService(comicRepository, blobStore, notifier, log)
	comicHandler := comic.NewHandler(comicService)

	seriesRepository := series.NewSeriesRepository(pool)
	seriesService := series.NewService(seriesRepository, log)
	seriesHandler := series.NewHandler(seriesService)

	// ── 10. Retention Scheduler ───────────────────────────────────────────
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	defer schedulerCancel()

	if cfg.RetentionSweepEnabled {
		scheduler := creator.NewScheduler(creatorService, constants.CreatorSweepInterval, log)
		go scheduler.Run(schedulerCtx)
	} else {
		log.Info("retention_scheduler_disabled")
	}

	// ── 11. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Account:   accountHandler,
		Creator:   creatorHandler,
		Comic:     comicHandler,
		Series:    seriesHandler,
	}

	server := api.NewServer(schedulerCtx, cfg, log, jwtSvc, handlers)

	// ── 12. Graceful Shutdown ─────────────────────────────────────────────
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
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Stop the sweep before the stores it depends on go away.
	schedulerCancel()

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
