package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisCache backs ResultCache with a shared Redis instance so results
// survive process restarts and are shared across replicas. Failures degrade
// to cache misses; the engine recomputes rather than erroring.
type RedisCache struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewRedisCache(client *redis.Client, logger *logrus.Logger) *RedisCache {
	return &RedisCache{client: client, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, key string, dest any) bool {
	cached, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).WithField("key", key).Warn("Result cache read failed")
		}
		return false
	}

	if err := json.Unmarshal([]byte(cached), dest); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Result cache entry malformed")
		return false
	}

	return true
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Result cache marshal failed")
		return
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Result cache write failed")
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, prefix string) {
	keys, err := c.client.Keys(ctx, prefix+"*").Result()
	if err != nil {
		c.logger.WithError(err).WithField("prefix", prefix).Warn("Result cache scan failed")
		return
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			c.logger.WithError(err).WithField("prefix", prefix).Warn("Result cache invalidation failed")
		}
	}
}
