// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"bloodlink/config"

	"github.com/go-redis/redis/v8"
)

// RedisClients bundles the per-concern Redis clients. Constructed once in main
// and injected into the components that need them; nothing hangs onto
// process-global client state.
type RedisClients struct {
	// Cache backs directory match caching.
	Cache *redis.Client
	// Session backs scheduling workflow sessions.
	Session *redis.Client
}

// NewRedisClients connects the per-concern clients and pings each.
func NewRedisClients() *RedisClients {
	return &RedisClients{
		Cache:   newRedisClient(config.AppConfig.RedisCacheDB),
		Session: newRedisClient(config.AppConfig.RedisSessionDB),
	}
}

func newRedisClient(db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (db %d): %v", db, err)
	}
	return client
}
