// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"habittracker/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the Redis client backing the streak report cache. It stays
// nil when REDIS_ADDR is empty.
var CacheClient *redis.Client

// InitCache connects to Redis when an address is configured.
func InitCache() error {
	if config.AppConfig.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return fmt.Errorf("connecting to Redis (cache): %w", err)
	}
	CacheClient = client
	return nil
}

// GetCacheClient returns the Redis cache client, or nil if Redis is disabled.
func GetCacheClient() *redis.Client {
	return CacheClient
}
