package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type row struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisCache(client, "test", zap.NewNop()), mr
}

func TestRedisCache_MissThenHit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	key, err := c.Key(ctx, "tracker", "u-1", "42")
	require.NoError(t, err)
	assert.Equal(t, "test:tracker:0:u-1:42", key)

	var got []row
	found, err := c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, found)

	want := []row{{ID: 42, Title: "Soil Study"}}
	require.NoError(t, c.Set(ctx, key, want, time.Minute))

	found, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}

func TestRedisCache_InvalidateChangesKeys(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	before, err := c.Key(ctx, "proposals", "u-1")
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, before, []row{{ID: 1}}, time.Minute))

	require.NoError(t, c.Invalidate(ctx, "proposals"))

	after, err := c.Key(ctx, "proposals", "u-1")
	require.NoError(t, err)
	assert.NotEqual(t, before, after)

	var got []row
	found, err := c.Get(ctx, after, &got)
	require.NoError(t, err)
	assert.False(t, found)

	other, err := c.Key(ctx, "lookups")
	require.NoError(t, err)
	assert.Equal(t, "test:lookups:0", other)
}

func TestRedisCache_TTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", row{ID: 1}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var got row
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "zero", row{ID: 2}, 0))
	assert.False(t, mr.Exists("zero"))
}

func TestRedisCache_CorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("bad", "{not json"))

	var got row
	found, err := c.Get(ctx, "bad", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, mr.Exists("bad"))
}

func TestRedisCache_ServerDown(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()
	ctx := context.Background()

	_, err := c.Key(ctx, "tracker")
	assert.Error(t, err)
	assert.Error(t, c.Ping(ctx))
}

func TestRedisCache_KeyPartsAreEscaped(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	a, err := c.Key(ctx, "proposals", "u-1", "rnd", "a:b", "")
	require.NoError(t, err)
	b, err := c.Key(ctx, "proposals", "u-1", "rnd", "a", "b:")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, "test:proposals:0:u-1:rnd:a%3Ab:", a)

	spaced, err := c.Key(ctx, "proposals", "u-1", "rice yield")
	require.NoError(t, err)
	assert.Equal(t, "test:proposals:0:u-1:rice+yield", spaced)
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var c Noop

	key, err := c.Key(ctx, "tracker", "a")
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, key, 1, time.Minute))

	var v int
	found, err := c.Get(ctx, key, &v)
	require.NoError(t, err)
	assert.False(t, found)
}
