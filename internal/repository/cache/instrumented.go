package cache

import (
	"context"
	"time"

	"github.com/jaennil/guide_helper/backend/featurecache/pkg/metrics"
	"github.com/paulmach/orb/geojson"
)

// InstrumentedCache records operation latency and errors for a backend.
type InstrumentedCache struct {
	next    TileCache
	backend string
}

func NewInstrumentedCache(next TileCache, backend string) *InstrumentedCache {
	return &InstrumentedCache{next: next, backend: backend}
}

var _ TileCache = (*InstrumentedCache)(nil)

func (c *InstrumentedCache) Get(ctx context.Context, k TileCacheKey) (*geojson.FeatureCollection, bool, error) {
	start := time.Now()
	v, exists, err := c.next.Get(ctx, k)
	c.observe("get", start, err)
	return v, exists, err
}

func (c *InstrumentedCache) Set(ctx context.Context, k TileCacheKey, v *geojson.FeatureCollection) error {
	start := time.Now()
	err := c.next.Set(ctx, k, v)
	c.observe("set", start, err)
	return err
}

func (c *InstrumentedCache) observe(op string, start time.Time, err error) {
	metrics.StoreOperationDuration.WithLabelValues(c.backend, op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StoreErrors.WithLabelValues(c.backend, op).Inc()
	}
}
