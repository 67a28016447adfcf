package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"coursecatalog/api/internal/config"
	"coursecatalog/api/internal/database"
	"coursecatalog/api/internal/events"
	"coursecatalog/api/internal/log"
	"coursecatalog/api/internal/queue"
	"coursecatalog/api/internal/repository"
	"coursecatalog/api/internal/storage"
	"coursecatalog/api/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, "worker", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres, "coursecatalog-worker")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	client, err := events.NewRedisClient(ctx, cfg.Redis, "coursecatalog-worker")
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer client.Close()

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	if err := objectStore.EnsureBuckets(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure buckets failed")
	}

	dirty := events.NewDirtyFlag(client, cfg.Events.Stream+":dirty")
	processor := tasks.NewProcessor(repository.NewCourseRepository(dbPool), objectStore, dirty, logger)
	consumer := queue.NewConsumer(client, cfg.Events, logger, processor)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Fatal().Err(err).Msg("consumer stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		logger.Warn().Msg("consumer did not stop in time")
	}
	logger.Info().Msg("worker exited cleanly")
}
