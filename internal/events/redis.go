package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"coursecatalog/api/internal/config"
)

const connectBackoff = 500 * time.Millisecond

// NewRedisClient connects and pings, retrying the ping up to
// cfg.ConnectAttempts times with linear backoff. name is reported to the
// server as the connection's client name.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, name string) (*redis.Client, error) {
	opts, err := redisOptions(cfg, name)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	if err := pingWithRetry(ctx, cfg.ConnectAttempts, connectBackoff, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

func redisOptions(cfg config.RedisConfig, name string) (*redis.Options, error) {
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts.ClientName = name
		return opts, nil
	}
	return &redis.Options{
		Addr:       cfg.Addr,
		Password:   cfg.Password,
		DB:         cfg.DB,
		ClientName: name,
	}, nil
}

func pingWithRetry(ctx context.Context, attempts int, backoff time.Duration, ping func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 1; i <= attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = ping(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		if i == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i) * backoff):
		}
	}
	return fmt.Errorf("after %d attempts: %w", attempts, err)
}
