package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func TestTokenBlacklist(t *testing.T) {
	mr, c := setupMiniredis(t)
	SetClient(c)
	t.Cleanup(func() { SetClient(nil) })

	ctx := context.Background()

	blacklisted, err := IsTokenBlacklisted(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, blacklisted)

	require.NoError(t, BlacklistToken(ctx, "token-a", time.Minute))

	blacklisted, err = IsTokenBlacklisted(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, blacklisted)

	mr.FastForward(2 * time.Minute)

	blacklisted, err = IsTokenBlacklisted(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestIsTokenBlacklistedWithoutClient(t *testing.T) {
	SetClient(nil)

	blacklisted, err := IsTokenBlacklisted(context.Background(), "any")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestSummaryCache(t *testing.T) {
	mr, c := setupMiniredis(t)
	cache := NewSummaryCache(c, 5*time.Minute)
	ctx := context.Background()

	t.Run("Miss", func(t *testing.T) {
		val, ok, err := cache.Get(ctx, "living:1")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, val)
	})

	t.Run("Set and get", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "living:1", []byte(`{"rating":4}`)))

		val, ok, err := cache.Get(ctx, "living:1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"rating":4}`, string(val))
		assert.True(t, mr.Exists("review:summary:living:1"))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Delete(ctx, "living:1"))

		_, ok, err := cache.Get(ctx, "living:1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Expires after ttl", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "cosmetic:2", []byte("x")))
		mr.FastForward(6 * time.Minute)

		_, ok, err := cache.Get(ctx, "cosmetic:2")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
