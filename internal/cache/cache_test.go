package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "recommend:u1:10", []int64{1, 2, 3}, time.Minute)

	var got []int64
	require.True(t, c.Get(ctx, "recommend:u1:10", &got))
	assert.Equal(t, []int64{1, 2, 3}, got)

	assert.False(t, c.Get(ctx, "recommend:u2:10", &got), "unrelated key must miss")
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCacheWithClock(func() time.Time { return now })
	ctx := context.Background()

	c.Set(ctx, "similar:42:5", []int64{7}, 30*time.Minute)

	var got []int64
	require.True(t, c.Get(ctx, "similar:42:5", &got))

	now = now.Add(29 * time.Minute)
	require.True(t, c.Get(ctx, "similar:42:5", &got), "entry must survive within TTL")

	now = now.Add(2 * time.Minute)
	assert.False(t, c.Get(ctx, "similar:42:5", &got), "entry must expire after TTL")
}

func TestMemoryCache_Invalidate(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "recommend:u1:10", []int64{1}, time.Minute)
	c.Set(ctx, "recommend:u1:20", []int64{2}, time.Minute)
	c.Set(ctx, "recommend:u2:10", []int64{3}, time.Minute)

	c.Invalidate(ctx, "recommend:u1:")

	var got []int64
	assert.False(t, c.Get(ctx, "recommend:u1:10", &got))
	assert.False(t, c.Get(ctx, "recommend:u1:20", &got))
	assert.True(t, c.Get(ctx, "recommend:u2:10", &got), "other users' entries must survive")
}

func TestMemoryCache_DifferentLimitsDoNotCollide(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "recommend:u1:5", []int64{1, 2, 3, 4, 5}, time.Minute)
	c.Set(ctx, "recommend:u1:2", []int64{1, 2}, time.Minute)

	var got []int64
	require.True(t, c.Get(ctx, "recommend:u1:2", &got))
	assert.Len(t, got, 2)
}

func TestMemoryCache_ZeroTTLNotStored(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "recommend:u1:10", []int64{1}, 0)

	var got []int64
	assert.False(t, c.Get(ctx, "recommend:u1:10", &got))
}

func TestNopCache(t *testing.T) {
	c := NopCache{}
	ctx := context.Background()

	c.Set(ctx, "k", 1, time.Minute)

	var got int
	assert.False(t, c.Get(ctx, "k", &got))
}
