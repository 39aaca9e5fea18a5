package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/elskow/legoset/internal/config"
)

// NewRedis returns nil without error when no URL is configured.
func NewRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}

	return rdb, nil
}
