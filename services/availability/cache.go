package availability

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"appointly/models"
	"appointly/utils"
)

// SlotCache is a read-through cache of generated slot lists. Cache failures
// are never surfaced; a failed read is a miss.
//
// Readers take a Generation before loading the record and pass it to Set.
// Invalidate bumps the generation, so a list computed from a record read
// before a claim committed is dropped instead of cached.
type SlotCache interface {
	Get(ctx context.Context, providerID, date string) ([]models.Slot, bool)
	Generation(ctx context.Context, providerID string) (int64, bool)
	Set(ctx context.Context, providerID, date string, gen int64, slots []models.Slot)
	Invalidate(ctx context.Context, providerID string, dates ...string)
}

type NoopSlotCache struct{}

func (NoopSlotCache) Get(context.Context, string, string) ([]models.Slot, bool) { return nil, false }
func (NoopSlotCache) Generation(context.Context, string) (int64, bool)          { return 0, false }
func (NoopSlotCache) Set(context.Context, string, string, int64, []models.Slot) {}
func (NoopSlotCache) Invalidate(context.Context, string, ...string)             {}

// generationTTL outlives any slot hash so a counter never resets under a
// reader that is still computing.
const generationTTL = 24 * time.Hour

var errStaleGeneration = errors.New("slot cache generation moved")

// RedisSlotCache keeps one hash per provider with a field per date, plus an
// invalidation counter per provider.
type RedisSlotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisSlotCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSlotCache {
	return &RedisSlotCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisSlotCache) Get(ctx context.Context, providerID, date string) ([]models.Slot, bool) {
	raw, err := c.client.HGet(ctx, utils.SlotCacheKey(providerID), date).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("slot cache read failed", zap.String("providerID", providerID), zap.Error(err))
		}
		return nil, false
	}
	var slots []models.Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		c.logger.Warn("slot cache entry corrupt", zap.String("providerID", providerID), zap.String("date", date), zap.Error(err))
		return nil, false
	}
	return slots, true
}

func (c *RedisSlotCache) Generation(ctx context.Context, providerID string) (int64, bool) {
	gen, err := c.client.Get(ctx, utils.SlotGenerationKey(providerID)).Int64()
	if err != nil && err != redis.Nil {
		c.logger.Warn("slot cache generation read failed", zap.String("providerID", providerID), zap.Error(err))
		return 0, false
	}
	return gen, true
}

// Set stores slots only while the provider's generation still equals gen.
// WATCH aborts the write if an invalidation lands between the check and EXEC.
func (c *RedisSlotCache) Set(ctx context.Context, providerID, date string, gen int64, slots []models.Slot) {
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	key := utils.SlotCacheKey(providerID)
	genKey := utils.SlotGenerationKey(providerID)

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if cur != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, date, raw)
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		c.logger.Debug("stale slot list not cached", zap.String("providerID", providerID), zap.String("date", date))
	default:
		c.logger.Warn("slot cache write failed", zap.String("providerID", providerID), zap.Error(err))
	}
}

func (c *RedisSlotCache) Invalidate(ctx context.Context, providerID string, dates ...string) {
	key := utils.SlotCacheKey(providerID)
	genKey := utils.SlotGenerationKey(providerID)

	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, genKey)
	pipe.Expire(ctx, genKey, generationTTL)
	if len(dates) == 0 {
		pipe.Del(ctx, key)
	} else {
		pipe.HDel(ctx, key, dates...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("slot cache invalidation failed", zap.String("providerID", providerID), zap.Error(err))
	}
}
