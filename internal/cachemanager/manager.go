// Package cachemanager provides TTL caches behind a small generic interface.
// The relex coordinator uses it to memoize line scans.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is a TTL cache. Implementations must be safe for concurrent
// use, since one cache may back the coordinators of several documents.
type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}
