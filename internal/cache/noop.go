package cache

import (
	"context"
	"time"
)

// Noop returns a cache on which every read misses and every write succeeds
// without effect. Used when Redis is unconfigured or unreachable.
func Noop() Cache { return noopCache{} }

type noopCache struct{}

func (noopCache) Get(context.Context, string) (string, bool) { return "", false }

func (noopCache) Set(context.Context, string, string, time.Duration) {}

func (noopCache) Del(context.Context, string) {}

func (noopCache) DelPattern(context.Context, string) {}

func (noopCache) GetOrSet(ctx context.Context, _ string, _ time.Duration, compute func(ctx context.Context) (string, error)) (string, error) {
	return compute(ctx)
}

func (noopCache) Close() error { return nil }
