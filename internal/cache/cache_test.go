package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(maxKeys int) *memoryCache {
	c := NewMemoryCache(&Config{MaxKeys: maxKeys, TTL: time.Minute}, zap.NewNop()).(*memoryCache)
	return c
}

func TestMemoryCacheSetGetExpire(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(10)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Second))
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", string(got))

	now = now.Add(2 * time.Second)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCacheDeletePattern(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(10)

	require.NoError(t, c.Set(ctx, "leaderboard:10", []byte("a"), 0))
	require.NoError(t, c.Set(ctx, "leaderboard:20", []byte("b"), 0))
	require.NoError(t, c.Set(ctx, "tips", []byte("c"), 0))

	require.NoError(t, c.DeletePattern(ctx, "leaderboard:*"))
	_, ok := c.Get(ctx, "leaderboard:10")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "tips")
	assert.True(t, ok)
}

func TestMemoryCacheIncrementWindow(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(10)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	n, err := c.Increment(ctx, "rl", 1, time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, _ = c.Increment(ctx, "rl", 1, time.Minute)
	assert.EqualValues(t, 2, n)

	now = now.Add(61 * time.Second)
	n, _ = c.Increment(ctx, "rl", 1, time.Minute)
	assert.EqualValues(t, 1, n)
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(2)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { now = now.Add(time.Millisecond); return now }

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	_, _ = c.Get(ctx, "a")
	require.NoError(t, c.Set(ctx, "c", []byte("3"), 0))

	_, ok := c.Get(ctx, "b")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "a")
	assert.True(t, ok)
}

func TestRememberCachesResult(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(10)
	calls := 0
	fn := func() ([]string, error) {
		calls++
		return []string{"focus"}, nil
	}

	first, err := Remember(ctx, c, zap.NewNop(), "tips", time.Minute, fn)
	require.NoError(t, err)
	second, err := Remember(ctx, c, zap.NewNop(), "tips", time.Minute, fn)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(10)
	boom := errors.New("boom")

	_, err := Remember(ctx, c, zap.NewNop(), "k", time.Minute, func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestNewCacheRejectsUnknownProvider(t *testing.T) {
	_, err := NewCache(&Config{Provider: "memcached"}, zap.NewNop())
	assert.Error(t, err)
}
