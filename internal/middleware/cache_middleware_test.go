package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencourse/discovery/internal/pkg/cache"
)

func newCachedRouter(t *testing.T) (*gin.Engine, *cache.APICache, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	apiCache := cache.NewAPICache(client, time.Minute)

	hits := 0
	router := gin.New()
	router.Use(ResponseCache(apiCache))
	router.GET("/courses", func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"hits": hits})
	})
	router.GET("/missing", func(c *gin.Context) {
		hits++
		c.JSON(http.StatusNotFound, gin.H{"error": "nope"})
	})
	router.GET("/plain", func(c *gin.Context) {
		hits++
		c.String(http.StatusOK, "pong")
	})
	router.GET("/created", func(c *gin.Context) {
		hits++
		c.JSON(http.StatusCreated, gin.H{"hits": hits})
	})
	router.POST("/courses", func(c *gin.Context) {
		hits++
		c.Status(http.StatusCreated)
	})
	return router, apiCache, &hits
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestResponseCache(t *testing.T) {
	t.Run("Should serve the second GET from the cache", func(t *testing.T) {
		router, _, hits := newCachedRouter(t)

		first := get(router, "/courses")
		assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

		second := get(router, "/courses")
		assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
		assert.Equal(t, first.Body.String(), second.Body.String())
		assert.Equal(t, 1, *hits)
	})

	t.Run("Should key the cache by query string", func(t *testing.T) {
		router, _, hits := newCachedRouter(t)

		get(router, "/courses?page=1")
		get(router, "/courses?page=2")

		assert.Equal(t, 2, *hits)
	})

	t.Run("Should not cache non-2xx responses", func(t *testing.T) {
		router, _, hits := newCachedRouter(t)

		get(router, "/missing")
		get(router, "/missing")

		assert.Equal(t, 2, *hits)
	})

	t.Run("Should only cache 200 responses", func(t *testing.T) {
		router, _, hits := newCachedRouter(t)

		get(router, "/created")
		get(router, "/created")

		assert.Equal(t, 2, *hits)
	})

	t.Run("Should not cache non-JSON responses", func(t *testing.T) {
		router, _, hits := newCachedRouter(t)

		get(router, "/plain")
		w := get(router, "/plain")

		assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
		assert.Equal(t, 2, *hits)
	})

	t.Run("Should not touch non-GET requests", func(t *testing.T) {
		router, _, _ := newCachedRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/courses", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Empty(t, w.Header().Get("X-Cache"))
	})

	t.Run("Should miss again after a timestamp bump", func(t *testing.T) {
		router, apiCache, hits := newCachedRouter(t)

		get(router, "/courses")
		require.NoError(t, apiCache.Bump(context.Background()))
		w := get(router, "/courses")

		assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
		assert.Equal(t, 2, *hits)
	})

}
