// Package cache provides a key/value facade over Redis with TTLs,
// glob-pattern bulk deletion, and a get-or-compute helper.
//
// The facade is best-effort: when Redis is unconfigured or unreachable it
// degrades to a no-op (reads miss, writes succeed without effect), and
// per-operation failures are logged and swallowed. Correctness never
// depends on cache availability.
package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Cache is the facade consumed by resource repositories.
type Cache interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool)
	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration)
	// Del removes a single key.
	Del(ctx context.Context, key string)
	// DelPattern removes all keys matching a glob-style pattern.
	DelPattern(ctx context.Context, pattern string)
	// GetOrSet returns the cached value for key, or calls compute on a
	// miss, stores the result with the given TTL, and returns it.
	// Whatever compute returns is stored verbatim, so callers may cache
	// a sentinel value for "not found" if they choose to.
	GetOrSet(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) (string, error)) (string, error)
	// Close releases the underlying client.
	Close() error
}

// New connects to Redis at redisURL and returns a Redis-backed cache.
// An empty URL or a failed initial ping yields the no-op cache instead of
// an error: the service runs fine without a cache, just slower.
func New(ctx context.Context, redisURL string, log *zap.Logger) Cache {
	if redisURL == "" {
		log.Info("cache disabled (no redis url)")
		return Noop()
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn("cache disabled (bad redis url)", zap.Error(err))
		return Noop()
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolTimeout = 4 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("cache disabled (redis unreachable)", zap.Error(err))
		_ = client.Close()
		return Noop()
	}

	return &redisCache{client: client, log: log}
}

type redisCache struct {
	client *redis.Client
	log    *zap.Logger
}

func (c *redisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return val, true
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *redisCache) Del(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Warn("cache del failed", zap.String("key", key), zap.Error(err))
	}
}

// DelPattern scans for matching keys instead of using KEYS, which blocks
// the Redis server on large keyspaces.
func (c *redisCache) DelPattern(ctx context.Context, pattern string) {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.Warn("cache del failed", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("cache scan failed", zap.String("pattern", pattern), zap.Error(err))
	}
}

func (c *redisCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) (string, error)) (string, error) {
	if val, ok := c.Get(ctx, key); ok {
		return val, nil
	}
	val, err := compute(ctx)
	if err != nil {
		return "", err
	}
	c.Set(ctx, key, val, ttl)
	return val, nil
}

func (c *redisCache) Close() error { return c.client.Close() }
