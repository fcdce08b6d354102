package cache

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*APICache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewAPICache(client, time.Minute), mr
}

func TestAPICache_Timestamp(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return zero before any mutation", func(t *testing.T) {
		c, _ := newTestCache(t)
		assert.Equal(t, "0", c.Timestamp(ctx))
	})

	t.Run("Should change after a bump", func(t *testing.T) {
		c, _ := newTestCache(t)
		require.NoError(t, c.Bump(ctx))
		first := c.Timestamp(ctx)
		assert.NotEqual(t, "0", first)

		require.NoError(t, c.Bump(ctx))
		assert.NotEqual(t, first, c.Timestamp(ctx))
	})

	t.Run("Should degrade to zero when redis is unreachable", func(t *testing.T) {
		c, mr := newTestCache(t)
		require.NoError(t, c.Bump(ctx))
		mr.Close()
		assert.Equal(t, "0", c.Timestamp(ctx))
	})
}

func TestAPICache_ResponseKey(t *testing.T) {
	c, _ := newTestCache(t)

	t.Run("Should be stable for the same request", func(t *testing.T) {
		a := c.ResponseKey("1", "/api/v1/courses", "page=1")
		b := c.ResponseKey("1", "/api/v1/courses", "page=1")
		assert.Equal(t, a, b)
	})

	t.Run("Should differ by timestamp, path and query", func(t *testing.T) {
		base := c.ResponseKey("1", "/api/v1/courses", "page=1")
		assert.NotEqual(t, base, c.ResponseKey("2", "/api/v1/courses", "page=1"))
		assert.NotEqual(t, base, c.ResponseKey("1", "/api/v1/programs", "page=1"))
		assert.NotEqual(t, base, c.ResponseKey("1", "/api/v1/courses", "page=2"))
	})
}

func TestAPICache_Responses(t *testing.T) {
	ctx := context.Background()

	t.Run("Should round-trip a stored response", func(t *testing.T) {
		c, _ := newTestCache(t)
		key := c.ResponseKey("1", "/api/v1/courses", "")
		stored := &CachedResponse{
			Status:      http.StatusOK,
			ContentType: "application/json",
			Body:        []byte(`{"data":[]}`),
		}
		c.SetResponse(ctx, key, stored)

		got, ok := c.GetResponse(ctx, key)
		require.True(t, ok)
		assert.Equal(t, stored, got)
	})

	t.Run("Should miss on unknown keys", func(t *testing.T) {
		c, _ := newTestCache(t)
		_, ok := c.GetResponse(ctx, c.ResponseKey("1", "/nope", ""))
		assert.False(t, ok)
	})

	t.Run("Should expire responses after the TTL", func(t *testing.T) {
		c, mr := newTestCache(t)
		key := c.ResponseKey("1", "/api/v1/courses", "")
		c.SetResponse(ctx, key, &CachedResponse{Status: http.StatusOK, Body: []byte("x")})

		mr.FastForward(2 * time.Minute)

		_, ok := c.GetResponse(ctx, key)
		assert.False(t, ok)
	})

	t.Run("Should miss when redis is unreachable", func(t *testing.T) {
		c, mr := newTestCache(t)
		key := c.ResponseKey("1", "/api/v1/courses", "")
		c.SetResponse(ctx, key, &CachedResponse{Status: http.StatusOK, Body: []byte("x")})
		mr.Close()

		_, ok := c.GetResponse(ctx, key)
		assert.False(t, ok)
	})
}
