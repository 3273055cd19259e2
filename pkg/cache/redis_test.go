package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T, prefix string) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(context.Background(), RedisOptions{Addr: mr.Addr(), Prefix: prefix})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCacheGetSetDelete(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t, "timeruler:")

	_, hit, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Hour))
	assert.True(t, mr.Exists("timeruler:key"), "key should be stored under the prefix")

	data, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte("value"), data)

	require.NoError(t, c.Delete(ctx, "key"))
	_, hit, err = c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCacheTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t, "t:")

	require.NoError(t, c.Set(ctx, "short", []byte("x"), time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("t:short"))

	mr.FastForward(2 * time.Minute)
	_, hit, err := c.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, hit, "entry should expire")
}

func TestRedisCacheClear(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t, "timeruler:")

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), 0))
	}
	require.NoError(t, mr.Set("other:key", "keep"))

	n, err := c.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.False(t, mr.Exists("timeruler:a"))
	assert.True(t, mr.Exists("other:key"), "keys outside the prefix must survive")
}

func TestRedisCacheClearRequiresPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	defer c.Close()

	_, err := c.Clear(context.Background())
	assert.ErrorIs(t, err, ErrNoPrefix)
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	retryDelay = time.Millisecond
	defer func() { retryDelay = 200 * time.Millisecond }()

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisCache(context.Background(), RedisOptions{Addr: addr})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, IsRetryable(err))
}

func TestNewRedisCacheBadPassword(t *testing.T) {
	retryDelay = time.Hour
	defer func() { retryDelay = 200 * time.Millisecond }()

	mr := miniredis.RunT(t)
	mr.RequireAuth("secret")

	start := time.Now()
	_, err := NewRedisCache(context.Background(), RedisOptions{Addr: mr.Addr()})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)
	assert.False(t, IsRetryable(err))
	assert.Less(t, time.Since(start), time.Minute, "auth failures must not back off")
}

func TestRedisCacheServerGone(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t, "t:")
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Hour))

	mr.Close()
	err := c.Set(ctx, "k", []byte("v"), time.Hour)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, IsRetryable(err))
}

func TestRedisCacheWrongType(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t, "t:")
	mr.HSet("t:h", "field", "value")

	_, hit, err := c.Get(ctx, "h")
	require.Error(t, err)
	assert.False(t, hit)
	assert.ErrorIs(t, err, ErrRejected)
	assert.False(t, IsRetryable(err))
}

func TestRedisCacheClosed(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "t:")
	require.NoError(t, c.Close())

	_, _, err := c.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.False(t, IsRetryable(err))
}
