package geo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/outreach-engine/internal/domain"
	"github.com/ignite/outreach-engine/internal/pkg/logger"
)

// CachedResolver layers a Redis cache over another resolver. Cache
// failures degrade to the inner resolver; they never fail a lookup.
type CachedResolver struct {
	inner  Resolver
	client *redis.Client
	ttl    time.Duration
}

// NewCachedResolver wraps inner with a Redis cache. ttl <= 0 defaults to
// 24 hours; gazetteer data moves slowly.
func NewCachedResolver(inner Resolver, client *redis.Client, ttl time.Duration) *CachedResolver {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedResolver{inner: inner, client: client, ttl: ttl}
}

// ResolveLocation returns the best cached candidate, consulting the inner
// resolver on a miss.
func (c *CachedResolver) ResolveLocation(ctx context.Context, text string) (*domain.LocationInfo, error) {
	candidates, err := c.ExtractLocations(ctx, text)
	if err != nil || len(candidates) == 0 {
		return nil, err
	}
	return &candidates[0], nil
}

// ExtractLocations serves from cache when possible.
func (c *CachedResolver) ExtractLocations(ctx context.Context, text string) ([]domain.LocationInfo, error) {
	key := cacheKey(text)

	if cached, err := c.client.Get(ctx, key).Result(); err == nil {
		var out []domain.LocationInfo
		if jsonErr := json.Unmarshal([]byte(cached), &out); jsonErr == nil {
			return out, nil
		}
		// Corrupt entry: fall through and overwrite.
	} else if err != redis.Nil {
		logger.Warn("geo: cache read failed", "error", err.Error())
	}

	out, err := c.inner.ExtractLocations(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, jsonErr := json.Marshal(out); jsonErr == nil {
		if setErr := c.client.Set(ctx, key, data, c.ttl).Err(); setErr != nil {
			logger.Warn("geo: cache write failed", "error", setErr.Error())
		}
	}
	return out, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "geo:locations:" + hex.EncodeToString(sum[:16])
}
