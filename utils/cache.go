// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"neighborly/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient backs the backend response cache and geocoding cache.
	CacheClient *redis.Client
	// DraftClient holds availability calendar drafts.
	DraftClient *redis.Client
)

func newRedisClient(db int, name string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
	return client
}

// InitRedis connects both Redis clients.
func InitRedis() {
	GetCacheClient()
	GetDraftClient()
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		CacheClient = newRedisClient(config.AppConfig.RedisCacheDB, "Cache")
	}
	return CacheClient
}

// GetDraftClient returns the Redis client for calendar drafts.
func GetDraftClient() *redis.Client {
	if DraftClient == nil {
		DraftClient = newRedisClient(config.AppConfig.RedisDraftDB, "Draft")
	}
	return DraftClient
}
