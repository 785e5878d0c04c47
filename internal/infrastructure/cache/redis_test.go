package cache

import (
	"bytes"
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summary struct {
	Open  int    `json:"open"`
	Total string `json:"total"`
}

func newCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, zerolog.Nop()), mr
}

func TestRedisCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	var got summary
	ok, err := c.Get(ctx, "dashboard", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "dashboard", summary{Open: 3, Total: "10.50"}, time.Minute))
	ok, err = c.Get(ctx, "dashboard", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, summary{Open: 3, Total: "10.50"}, got)
}

func TestRedisCache_BumpInvalida(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	require.NoError(t, c.Set(ctx, "dashboard", summary{Open: 1}, time.Minute))
	require.NoError(t, c.Bump(ctx))

	var got summary
	ok, err := c.Get(ctx, "dashboard", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_TTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	require.NoError(t, c.Set(ctx, "dashboard", summary{Open: 1}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var got summary
	ok, err := c.Get(ctx, "dashboard", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_FallosSeRegistran(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	var buf bytes.Buffer
	c := NewRedisCache(client, zerolog.New(&buf).With().Str("component", "cache").Logger())

	mr.Close()

	require.Error(t, c.Bump(ctx))
	assert.Error(t, c.Set(ctx, "dashboard", summary{Open: 1}, time.Minute))
	var got summary
	ok, err := c.Get(ctx, "dashboard", &got)
	assert.Error(t, err)
	assert.False(t, ok)

	logs := buf.String()
	assert.Contains(t, logs, `"component":"cache"`)
	assert.Contains(t, logs, "invalidación de caché fallida")
	assert.Contains(t, logs, "escritura de caché fallida")
	assert.Contains(t, logs, "lectura de caché fallida")
	assert.Contains(t, logs, `"level":"warn"`)
}
