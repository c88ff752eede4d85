package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache loads values into a CacheManager on a miss. Every lookup
// restarts the ttl of the value it returns, so lines that keep being
// rescanned stay cached while edited lines expire. It is not safe for
// concurrent use.
type ReadThroughCache[K comparable, V any, I any] struct {
	cache CacheManager[K, V]
	load  func(ctx context.Context, input I) (V, error)
	ttl   time.Duration

	hits, loads int
}

func NewReadThroughCache[K comparable, V any, I any](
	cache CacheManager[K, V],
	load func(ctx context.Context, input I) (V, error),
	ttl time.Duration,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache: cache,
		load:  load,
		ttl:   ttl,
	}
}

// Get returns the cached value for key, loading it from input on a miss.
// A failed load stores nothing.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I) (V, error) {
	if value, ok := r.cache.GetWithRefresh(ctx, key, r.ttl); ok {
		r.hits++
		return value, nil
	}
	r.loads++
	value, err := r.load(ctx, input)
	if err != nil {
		return value, err
	}
	r.cache.Set(ctx, key, value, r.ttl)
	return value, nil
}

// Counts returns how many lookups were served from the cache and how many
// called load.
func (r *ReadThroughCache[K, V, I]) Counts() (hits, loads int) {
	return r.hits, r.loads
}
