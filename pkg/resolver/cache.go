package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/curbwise/curbwise/pkg/redis_client"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
)

// Cache keeps resolved matches for a short period. Geometry partitions
// only change on re-import so a low TTL is purely to bound staleness of
// the ban-status enrichment.
type Cache struct {
	Cache *cache.Cache[string]
}

func (c *Cache) Setup() {
	redisStore := redisstore.NewRedis(redis_client.Client, store.WithExpiration(2*time.Minute))

	c.Cache = cache.New[string](redisStore)
}

func cacheKey(city string, coord cpdf.Location, opts *Options) string {
	// Round to ~1m so nearby repeat queries share an entry
	return fmt.Sprintf("resolve/%s/%.5f/%.5f/%v/%.0f/%d",
		city, coord.Latitude(), coord.Longitude(), opts.Datasets, opts.ThresholdMeters, opts.MaxResults)
}

func (c *Cache) Get(ctx context.Context, city string, coord cpdf.Location, opts *Options) ([]cpdf.RestrictionMatch, bool) {
	value, err := c.Cache.Get(ctx, cacheKey(city, coord, opts))
	if err != nil {
		return nil, false
	}

	var matches []cpdf.RestrictionMatch
	if err := json.Unmarshal([]byte(value), &matches); err != nil {
		return nil, false
	}

	return matches, true
}

func (c *Cache) Set(ctx context.Context, city string, coord cpdf.Location, opts *Options, matches []cpdf.RestrictionMatch) {
	encoded, err := json.Marshal(matches)
	if err != nil {
		return
	}

	c.Cache.Set(ctx, cacheKey(city, coord, opts), string(encoded))
}
