package cache

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/techcorp/supportbot/internal/logger"
	"github.com/redis/go-redis/v9"
)

// parses redisURL, connects and pings
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close() //nolint:errcheck,gosec
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("connected to redis", "addr", opts.Addr, "db", opts.DB)

	return client, nil
}
