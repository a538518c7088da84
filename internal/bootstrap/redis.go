package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/Daniel-Kats256/simulations/config"
	"github.com/redis/go-redis/v9"
)

// OpenRedis connects to Redis for lifecycle event publishing. Redis is
// optional: an empty address returns a nil client and the publisher
// degrades to a no-op.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
