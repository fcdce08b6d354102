package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/opencourse/discovery/internal/pkg/logger"
)

const (
	timestampKey      = "api:timestamp"
	responseKeyPrefix = "api:response:"
)

// APICache holds the catalog-wide invalidation timestamp and the cached API
// responses scoped to it. Bumping the timestamp orphans every cached
// response at once; the orphans expire via TTL.
type APICache struct {
	client      *redis.Client
	responseTTL time.Duration
}

// NewAPICache creates an APICache on top of an existing Redis client.
func NewAPICache(client *redis.Client, responseTTL time.Duration) *APICache {
	return &APICache{
		client:      client,
		responseTTL: responseTTL,
	}
}

// Bump records that the catalog changed. Every cached API response becomes
// stale immediately.
func (c *APICache) Bump(ctx context.Context) error {
	now := strconv.FormatInt(time.Now().UnixNano(), 10)
	if err := c.client.Set(ctx, timestampKey, now, 0).Err(); err != nil {
		return err
	}
	return nil
}

// Timestamp returns the current invalidation timestamp, or "0" if no
// mutation has been recorded yet.
func (c *APICache) Timestamp(ctx context.Context) string {
	val, err := c.client.Get(ctx, timestampKey).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn().Err(err).Msg("Failed to read API cache timestamp, bypassing cache")
		}
		return "0"
	}
	return val
}

// CachedResponse is a stored API response.
type CachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// ResponseKey derives the cache key for a request, scoped by the current
// invalidation timestamp.
func (c *APICache) ResponseKey(timestamp, path, rawQuery string) string {
	sum := sha256.Sum256([]byte(path + "?" + rawQuery))
	return responseKeyPrefix + timestamp + ":" + hex.EncodeToString(sum[:])
}

// GetResponse looks up a cached response. Redis errors degrade to a miss.
func (c *APICache) GetResponse(ctx context.Context, key string) (*CachedResponse, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn().Err(err).Msg("Failed to read cached API response")
		}
		return nil, false
	}

	var resp CachedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Dropping undecodable cached API response")
		return nil, false
	}
	return &resp, true
}

// SetResponse stores a response under the given key with the configured TTL.
func (c *APICache) SetResponse(ctx context.Context, key string, resp *CachedResponse) {
	raw, err := json.Marshal(resp)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to encode API response for caching")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.responseTTL).Err(); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to store cached API response")
	}
}
