package database

import (
	"fmt"

	"github.com/go-redis/redis"

	"github.com/xpanvictor/voxqa/internal/config"
)

// NewRedis connects the event bus client and checks the server answers.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Pass, // Add via env if needed
		DB:       0,
	})
	if err := client.Ping().Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}
