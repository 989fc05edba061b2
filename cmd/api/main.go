// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

// Command api is the entry point for the Cinemateca HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Build the object-storage client and upload coordinator.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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

	"github.com/dramirezb/cinemateca/internal/api"
	"github.com/dramirezb/cinemateca/internal/catalog/episode"
	"github.com/dramirezb/cinemateca/internal/catalog/genre"
	"github.com/dramirezb/cinemateca/internal/catalog/genrelink"
	"github.com/dramirezb/cinemateca/internal/catalog/movie"
	"github.com/dramirezb/cinemateca/internal/catalog/season"
	"github.com/dramirezb/cinemateca/internal/catalog/serie"
	"github.com/dramirezb/cinemateca/internal/platform/config"
	"github.com/dramirezb/cinemateca/internal/platform/constants"
	"github.com/dramirezb/cinemateca/internal/platform/database/schema"
	"github.com/dramirezb/cinemateca/internal/platform/migration"
	pgstore "github.com/dramirezb/cinemateca/internal/platform/postgres"
	redisstore "github.com/dramirezb/cinemateca/internal/platform/redis"
	"github.com/dramirezb/cinemateca/internal/platform/sec"
	"github.com/dramirezb/cinemateca/internal/storage"
	"github.com/dramirezb/cinemateca/internal/upload"
	"github.com/dramirezb/cinemateca/internal/users/account"
	"github.com/dramirezb/cinemateca/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "cinemateca"))
	slog.SetDefault(log)

	log.Info("[Cinemateca] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "cinemateca"))
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

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Object Storage ─────────────────────────────────────────────────
	blobClient, err := storage.NewS3Client(startupCtx, storage.S3Config{
		BaseURL:   cfg.StorageBaseURL,
		Endpoint:  cfg.StorageS3Endpoint,
		Region:    cfg.StorageRegion,
		Bucket:    cfg.StorageBucket,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
	}, log)
	must(log, err, "initialize object storage")

	uploads := upload.NewCoordinator(blobClient, log)

	// ── 7. Auth Service ───────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckStorage: func() error {
			return blobClient.Healthcheck(context.Background())
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	// One user repository backs both the auth and account services.
	userRepository := account.NewPostgresRepository(pool)
	sessionRepository := auth.NewRedisSessionRepository(rdb)
	authService := auth.NewService(userRepository, sessionRepository, jwtSvc, uploads, log)
	authHandler := auth.NewHandler(authService)
	accountService := account.NewService(userRepository, sessionRepository, uploads, log)
	accountHandler := account.NewHandler(accountService)

	genreRepository := genre.NewPostgresRepository(pool)
	genreService := genre.NewService(genreRepository, log)
	genreHandler := genre.NewHandler(genreService)

	movieLinks := genrelink.NewManager(pool, schema.MovieGenre, schema.CatalogMovie.Table, schema.CatalogMovie.ID, "Movie", log)
	movieRepository := movie.NewPostgresRepository(pool, movieLinks)
	movieService := movie.NewService(movieRepository, movieLinks, uploads, log)
	movieHandler := movie.NewHandler(movieService, movieLinks)

	serieLinks := genrelink.NewManager(pool, schema.SerieGenre, schema.CatalogSerie.Table, schema.CatalogSerie.ID, "Serie", log)
	serieRepository := serie.NewPostgresRepository(pool, serieLinks)
	serieService := serie.NewService(serieRepository, serieLinks, uploads, log)
	serieHandler := serie.NewHandler(serieService, serieLinks)

	seasonRepository := season.NewPostgresRepository(pool)
	seasonService := season.NewService(seasonRepository, uploads, log)
	seasonHandler := season.NewHandler(seasonService)

	episodeRepository := episode.NewPostgresRepository(pool)
	episodeService := episode.NewService(episodeRepository, uploads, log)
	episodeHandler := episode.NewHandler(episodeService)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Account:   accountHandler,
		Genre:     genreHandler,
		Movie:     movieHandler,
		Serie:     serieHandler,
		Season:    seasonHandler,
		Episode:   episodeHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
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
