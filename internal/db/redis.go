package db

import (
	"context"
	"time"

	"github.com/KevinDKao/running-diary/internal/config"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns nil, nil when no address is configured. A configured
// but unreachable server is an error; the client is closed before returning.
func ConnectRedis(cfg config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
