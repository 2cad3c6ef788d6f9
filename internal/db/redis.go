package db

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"ctchen222/tictactoe/internal/config"
)

// NewRedisClient creates a Redis client and pings the server to make sure the
// connection is established.
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr(), err)
	}

	return client, nil
}
