package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"coursecatalog/api/internal/config"
	"coursecatalog/api/internal/database"
	"coursecatalog/api/internal/events"
	"coursecatalog/api/internal/handlers"
	"coursecatalog/api/internal/jobs"
	"coursecatalog/api/internal/log"
	"coursecatalog/api/internal/metrics"
	"coursecatalog/api/internal/middleware"
	"coursecatalog/api/internal/repository"
	"coursecatalog/api/internal/security"
	"coursecatalog/api/internal/server"
	"coursecatalog/api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, "api", cfg.LogLevel)

	ctx := context.Background()

	if cfg.Postgres.MigrateOnStart {
		if err := database.RunMigrations(cfg.Postgres.DSN); err != nil {
			logger.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres, "coursecatalog-api")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	redisClient, err := events.NewRedisClient(ctx, cfg.Redis, "coursecatalog-api")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	publisher := events.NewPublisher(redisClient, cfg.Events.Stream)
	issuer := security.NewTokenIssuer(cfg.Security.JWTSecret, cfg.Security.TokenTTL)

	authService := service.NewAuthService(repository.NewStudentRepository(dbPool), issuer, cfg, logger)
	courseService := service.NewCourseService(repository.NewCourseRepository(dbPool), publisher, logger)

	authLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		PerMinute: cfg.Security.AuthRatePerMinute,
		Burst:     cfg.Security.AuthRateBurst,
	})
	defer authLimiter.Stop()

	handlerSet := handlers.NewHandlerSet(handlers.Options{
		Log:         logger,
		Config:      cfg,
		Auth:        authService,
		Courses:     courseService,
		Verifier:    issuer,
		AuthLimiter: authLimiter,
		Metrics:     collector,
		Database:    dbPool,
		Events:      publisher,
	})
	httpServer, err := server.NewHTTPServer(cfg, logger, handlerSet, collector, registry)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build http server")
	}

	scheduler := jobs.NewScheduler(publisher, cfg.Jobs.SnapshotSchedule, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	if scheduler != nil {
		select {
		case <-scheduler.Stop().Done():
		case <-shutdownCtx.Done():
			logger.Warn().Msg("scheduler did not stop in time")
		}
	}

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
