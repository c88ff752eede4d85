package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type lineKey string

type scanned struct {
	Tokens   []string
	EndState int
}

func newTestCache() *InMemoryCacheManager[lineKey, scanned] {
	return NewInMemoryCacheManager[lineKey, scanned]("scan-test", DefaultExpiration, DefaultCleanupInterval)
}

func TestInMemoryCacheManager_GetExistingValue(t *testing.T) {
	cache := newTestCache()
	want := scanned{Tokens: []string{"int", "x"}}
	cache.Set(context.Background(), "0:int x", want, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "0:int x")
	require.True(t, ok)
	require.Equal(t, want, got)
	require.Equal(t, Stats{Hits: 1, Items: 1}, cache.Stats())
}

func TestInMemoryCacheManager_GetMissing(t *testing.T) {
	cache := newTestCache()

	got, ok := cache.Get(context.Background(), "0:missing")
	require.False(t, ok)
	require.Empty(t, got)
	require.Equal(t, uint64(1), cache.Stats().Misses)
}

func TestInMemoryCacheManager_WrongTypeIsMiss(t *testing.T) {
	cache := newTestCache()
	cache.cache.Set("0:x", 123, DefaultExpiration)

	_, ok := cache.Get(context.Background(), "0:x")
	require.False(t, ok)
}

func TestInMemoryCacheManager_GetWithRefreshExtendsTTL(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache()
	cache.Set(ctx, "0:a", scanned{}, 20*time.Millisecond)

	_, ok := cache.GetWithRefresh(ctx, "0:a", time.Hour)
	require.True(t, ok)

	time.Sleep(40 * time.Millisecond)
	_, ok = cache.Get(ctx, "0:a")
	require.True(t, ok, "refreshed entry outlives its original ttl")

	_, ok = cache.GetWithRefresh(ctx, "0:none", time.Hour)
	require.False(t, ok)
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache()
	cache.Set(ctx, "0:a", scanned{}, DefaultExpiration)
	cache.Set(ctx, "0:b", scanned{}, DefaultExpiration)
	cache.Set(ctx, "0:c", scanned{}, DefaultExpiration)

	require.NoError(t, cache.Delete(ctx, "0:a", "0:b"))
	_, ok := cache.Get(ctx, "0:a")
	require.False(t, ok)
	require.Equal(t, 1, cache.Stats().Items)

	require.NoError(t, cache.Flush(ctx))
	require.Equal(t, Stats{}, cache.Stats())
}
