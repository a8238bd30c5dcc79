package common

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"il2-rankmod/light/internal/logging"
)

// RedisOptions is the subset of connection settings the promotion feed needs.
type RedisOptions struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func NewRedisClient(opts RedisOptions) *redis.Client {
	if opts.Host == "" {
		opts.Host = "localhost"
	}
	if opts.Port == "" {
		opts.Port = "6379"
	}

	addr := fmt.Sprintf("%s:%s", opts.Host, opts.Port)
	logging.Info("[Redis] Initializing Redis client", "addr", addr, "db", opts.DB)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     2,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Warn("[Redis] Failed to ping Redis, feed will retry on publish", "error", err.Error())
		return client
	}

	logging.Info("[Redis] Successfully connected to Redis")
	return client
}
