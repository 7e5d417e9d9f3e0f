// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"appointly/config"
)

// CacheClient is the generic cache client.
var CacheClient *redis.Client

// NewRedisClient connects to the configured Redis on db and pings it.
func NewRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis db %d: %w", db, err)
	}
	return client, nil
}

// InitCache initializes the slot cache client.
func InitCache() error {
	client, err := NewRedisClient(config.AppConfig.RedisCacheDB)
	if err != nil {
		return err
	}
	CacheClient = client
	return nil
}

// SlotCacheKey is the Redis hash holding generated slots for a provider,
// one field per date.
func SlotCacheKey(providerID string) string {
	return SlotCachePrefix + providerID
}

// SlotGenerationKey is the invalidation counter for a provider's slot hash.
func SlotGenerationKey(providerID string) string {
	return SlotGenerationPrefix + providerID
}
