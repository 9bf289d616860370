package geocode

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"tripplanner-backend/internal/metrics"
	"tripplanner-backend/internal/models"
	"tripplanner-backend/pkg/cache"
)

const cacheKeyPrefix = "geocode:"

// Cached decorates a Geocoder with a result cache. Only successful lookups are
// cached; cache failures are logged and the lookup falls through.
type Cached struct {
	next   Geocoder
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCached wraps next with c.
func NewCached(next Geocoder, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{next: next, cache: c, ttl: ttl, logger: logger}
}

// Geocode serves place from the cache when possible.
func (g *Cached) Geocode(ctx context.Context, place string) Result {
	place = strings.TrimSpace(place)
	if place == "" {
		return Result{}
	}
	key := cacheKey(place)

	raw, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		g.logger.Warn("Geocode cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var coords models.Coordinates
		if err := json.Unmarshal([]byte(raw), &coords); err == nil {
			metrics.GeocodeCacheHits.Inc()
			return Result{Coordinates: coords, Found: true}
		}
		g.logger.Warn("Discarding malformed geocode cache entry", zap.String("key", key))
	}
	metrics.GeocodeCacheMisses.Inc()

	res := g.next.Geocode(ctx, place)
	if !res.Found {
		return res
	}
	encoded, err := json.Marshal(res.Coordinates)
	if err != nil {
		return res
	}
	if err := g.cache.Set(ctx, key, string(encoded), g.ttl); err != nil {
		g.logger.Warn("Geocode cache write failed", zap.String("key", key), zap.Error(err))
	}
	return res
}

func cacheKey(place string) string {
	return cacheKeyPrefix + strings.ToLower(strings.Join(strings.Fields(place), " "))
}
