// Package cache keeps dashboard aggregates between requests.
package cache

import (
	"context"
	"time"
)

// StatsCache stores JSON-encodable values under string keys. Invalidate drops
// every key the cache has written.
type StatsCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// NoopStatsCache never hits; used when Redis is not configured.
type NoopStatsCache struct{}

func (NoopStatsCache) Get(_ context.Context, _ string, _ any) (bool, error) {
	return false, nil
}

func (NoopStatsCache) Set(_ context.Context, _ string, _ any, _ time.Duration) error {
	return nil
}

func (NoopStatsCache) Invalidate(_ context.Context) error {
	return nil
}
