package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"equipment-hire/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is a small JSON read-through cache over redis. Misses and redis
// failures are both reported as a miss so callers can fall back to the
// database.
type Cache struct {
	rdb *redis.Client
	log *zap.Logger
}

func New(config utils.RedisConfig, log *zap.Logger) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Cache{
		rdb: rdb,
		log: log.With(zap.String("component", "cache")),
	}, nil
}

// GetJSON loads and unmarshals the value under key into dest. Returns false
// on a miss or any redis error.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.log.Warn("Cache read failed", zap.Error(err), zap.String("key", key))
		return false
	}

	if err := json.Unmarshal(b, dest); err != nil {
		c.log.Warn("Cache entry corrupt", zap.Error(err), zap.String("key", key))
		return false
	}

	return true
}

// SetJSON stores the value under key with the given TTL. Best effort; a
// failed write only logs.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	b, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("Cache marshal failed", zap.Error(err), zap.String("key", key))
		return
	}

	if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		c.log.Warn("Cache write failed", zap.Error(err), zap.String("key", key))
	}
}

// Delete removes keys, typically on writes that invalidate cached lists.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("Cache invalidation failed", zap.Error(err), zap.Strings("keys", keys))
	}
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}
