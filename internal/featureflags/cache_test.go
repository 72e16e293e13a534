package featureflags

import (
	"context"
	"testing"
	"time"

	"madfam_site_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCache(client, ttl, logger.New("development")), mr
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t, 30*time.Second)
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "missing"); ok {
		t.Fatal("Get on empty cache reported a hit")
	}

	rollout := 25
	flag := Flag{
		Key:               "new-pricing-page",
		Description:       "redesigned pricing",
		Environments:      map[string]bool{EnvProduction: true, EnvStaging: false},
		RolloutPercentage: &rollout,
	}
	cache.Set(ctx, flag)

	got, ok := cache.Get(ctx, flag.Key)
	if !ok {
		t.Fatal("Get after Set reported a miss")
	}
	if got.Key != flag.Key || got.RolloutPercentage == nil || *got.RolloutPercentage != 25 {
		t.Errorf("cached flag = %+v, want %+v", got, flag)
	}
	if !got.Environments[EnvProduction] || got.Environments[EnvStaging] {
		t.Errorf("environments round-tripped wrong: %v", got.Environments)
	}
}

func TestCacheEntryExpires(t *testing.T) {
	cache, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()

	cache.Set(ctx, Flag{Key: "short-lived"})
	if _, ok := cache.Get(ctx, "short-lived"); !ok {
		t.Fatal("entry missing before TTL")
	}

	mr.FastForward(31 * time.Second)
	if _, ok := cache.Get(ctx, "short-lived"); ok {
		t.Error("entry survived past its TTL")
	}
}

func TestCacheInvalidate(t *testing.T) {
	cache, _ := newTestCache(t, 30*time.Second)
	ctx := context.Background()

	cache.Set(ctx, Flag{Key: "doomed"})
	cache.Invalidate(ctx, "doomed")

	if _, ok := cache.Get(ctx, "doomed"); ok {
		t.Error("entry survived invalidation")
	}
}

func TestCacheRedisDownDegradesToMiss(t *testing.T) {
	cache, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()

	cache.Set(ctx, Flag{Key: "resilient"})
	mr.Close()

	if _, ok := cache.Get(ctx, "resilient"); ok {
		t.Error("Get reported a hit with redis down")
	}
	// Writes must not panic either.
	cache.Set(ctx, Flag{Key: "resilient"})
	cache.Invalidate(ctx, "resilient")
}

func TestCacheNilClientDisabled(t *testing.T) {
	cache := NewCache(nil, 30*time.Second, logger.New("development"))
	ctx := context.Background()

	cache.Set(ctx, Flag{Key: "noop"})
	if _, ok := cache.Get(ctx, "noop"); ok {
		t.Error("nil-client cache reported a hit")
	}
	cache.Invalidate(ctx, "noop")
}
