package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"myCourseCompass/pkg/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the token store / catalog cache and pings it once.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:         net.JoinHostPort(cfg.Redis.RedisHost, cfg.Redis.RedisPort),
		DB:           cfg.Redis.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	}
	if cfg.Redis.RedisPassword != "" {
		opts.Username = "default"
		opts.Password = cfg.Redis.RedisPassword
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

func CloseRedisClient(client *redis.Client) error {
	if client == nil {
		return nil
	}
	return client.Close()
}
