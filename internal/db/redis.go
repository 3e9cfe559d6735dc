package db

import (
	"context"
	"log"
	"time"

	"backend-ridetrack/internal/config"

	"github.com/redis/go-redis/v9"
)

const redisDialTimeout = 2 * time.Second

// ConnectRedis returns nil when no address is configured. An unreachable
// server is only logged: the live stream falls back to local delivery and
// the ride store choice is made by the caller.
func ConnectRedis(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DialTimeout: redisDialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis %s unreachable: %v", cfg.RedisAddr, err)
	}
	return client
}
