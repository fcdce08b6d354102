package middleware

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opencourse/discovery/internal/pkg/cache"
)

// bodyCaptureWriter tees the response body so it can be stored after the
// handler runs.
type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache serves GET responses from the API cache. Keys are scoped to
// the catalog invalidation timestamp, so any catalog mutation makes every
// cached entry unreachable without explicit deletes.
func ResponseCache(apiCache *cache.APICache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiCache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		timestamp := apiCache.Timestamp(ctx)
		key := apiCache.ResponseKey(timestamp, c.Request.URL.Path, c.Request.URL.RawQuery)

		if cached, ok := apiCache.GetResponse(ctx, key); ok {
			c.Header("X-Cache", "HIT")
			c.Data(cached.Status, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		writer := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Header("X-Cache", "MISS")

		c.Next()

		// Only successful JSON payloads are worth keeping.
		contentType := writer.Header().Get("Content-Type")
		if writer.Status() == http.StatusOK && strings.HasPrefix(contentType, "application/json") {
			apiCache.SetResponse(ctx, key, &cache.CachedResponse{
				Status:      http.StatusOK,
				ContentType: contentType,
				Body:        writer.body.Bytes(),
			})
		}
	}
}
