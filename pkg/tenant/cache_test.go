package tenant_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlane/shopcore/pkg/tenant"
)

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	t.Run("set then get", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCache()
		defer cache.Close()

		want := newTestTenant("acme", tenant.StatusActive)
		cache.Set(context.Background(), "acme", want, time.Minute)

		got, ok := cache.Get(context.Background(), "acme")
		require.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("miss on unknown key", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCache()
		defer cache.Close()

		_, ok := cache.Get(context.Background(), "missing")
		assert.False(t, ok)
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCache()
		defer cache.Close()

		cache.Set(context.Background(), "acme", newTestTenant("acme", tenant.StatusActive), -time.Second)

		_, ok := cache.Get(context.Background(), "acme")
		assert.False(t, ok)
	})

	t.Run("delete evicts", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCache()
		defer cache.Close()

		cache.Set(context.Background(), "acme", newTestTenant("acme", tenant.StatusActive), time.Minute)
		cache.Delete(context.Background(), "acme")

		_, ok := cache.Get(context.Background(), "acme")
		assert.False(t, ok)
	})

	t.Run("evicts least recently used at capacity", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCacheWithSize(2)
		defer cache.Close()

		ctx := context.Background()
		cache.Set(ctx, "a", newTestTenant("a", tenant.StatusActive), time.Minute)
		cache.Set(ctx, "b", newTestTenant("b", tenant.StatusActive), time.Minute)

		// Touch "a" so "b" becomes the eviction candidate.
		_, ok := cache.Get(ctx, "a")
		require.True(t, ok)

		cache.Set(ctx, "c", newTestTenant("c", tenant.StatusActive), time.Minute)

		_, ok = cache.Get(ctx, "b")
		assert.False(t, ok, "lru entry should have been evicted")
		_, ok = cache.Get(ctx, "a")
		assert.True(t, ok)
		_, ok = cache.Get(ctx, "c")
		assert.True(t, ok)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCache()
		require.NoError(t, cache.Close())
		require.NoError(t, cache.Close())
	})
}

func TestNopCache(t *testing.T) {
	t.Parallel()

	cache := tenant.NewNopCache()
	cache.Set(context.Background(), "acme", newTestTenant("acme", tenant.StatusActive), time.Minute)

	_, ok := cache.Get(context.Background(), "acme")
	assert.False(t, ok)
	assert.NoError(t, cache.Close())
}
