package featureflags

import (
	"context"
	"encoding/json"
	"time"

	"madfam_site_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "flags:"

// Cache is a short-TTL redis cache in front of flag reads. Every redis
// failure degrades to a miss so flag evaluation keeps working off postgres
// when redis is down.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewCache creates a flag cache. A nil client disables caching entirely.
func NewCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, log: log}
}

// Get returns the cached flag and whether it was present.
func (c *Cache) Get(ctx context.Context, key string) (Flag, bool) {
	if c.client == nil {
		return Flag{}, false
	}
	data, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("flag cache read failed", "key", key, "error", err)
		}
		return Flag{}, false
	}
	var f Flag
	if err := json.Unmarshal(data, &f); err != nil {
		c.log.Warn("flag cache entry corrupt", "key", key, "error", err)
		return Flag{}, false
	}
	return f, true
}

// Set stores a flag for the cache TTL.
func (c *Cache) Set(ctx context.Context, f Flag) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(f)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+f.Key, data, c.ttl).Err(); err != nil {
		c.log.Warn("flag cache write failed", "key", f.Key, "error", err)
	}
}

// Invalidate drops a cache entry after a flag write.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, cacheKeyPrefix+key).Err(); err != nil {
		c.log.Warn("flag cache invalidation failed", "key", key, "error", err)
	}
}
