package cache

import (
	"context"
	"time"

	"github.com/jaennil/guide_helper/backend/featurecache/pkg/metrics"
	"github.com/karlseguin/ccache/v3"
	"github.com/paulmach/orb/geojson"
)

// LRUCache fronts a slower TileCache with an in-process ccache. Writes go
// through to the backend first, so dropping an LRU entry never loses data.
type LRUCache struct {
	next  TileCache
	items *ccache.Cache[*geojson.FeatureCollection]
	ttl   time.Duration
}

type LRUConfig struct {
	MaxSize      int64
	ItemsToPrune uint32
	TTL          time.Duration
}

func NewLRUCache(next TileCache, cfg LRUConfig) *LRUCache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	itemsToPrune := cfg.ItemsToPrune
	if itemsToPrune == 0 {
		itemsToPrune = 100
	}

	return &LRUCache{
		next:  next,
		items: ccache.New(ccache.Configure[*geojson.FeatureCollection]().MaxSize(cfg.MaxSize).ItemsToPrune(itemsToPrune)),
		ttl:   ttl,
	}
}

var _ TileCache = (*LRUCache)(nil)

func (c *LRUCache) Get(ctx context.Context, k TileCacheKey) (*geojson.FeatureCollection, bool, error) {
	key := k.String()
	if item := c.items.Get(key); item != nil && !item.Expired() {
		metrics.LRUHits.Inc()
		return clone(item.Value()), true, nil
	}

	v, exists, err := c.next.Get(ctx, k)
	if err != nil || !exists {
		return nil, exists, err
	}
	c.items.Set(key, clone(v), c.ttl)
	return v, true, nil
}

func (c *LRUCache) Set(ctx context.Context, k TileCacheKey, v *geojson.FeatureCollection) error {
	if err := c.next.Set(ctx, k, v); err != nil {
		c.items.Delete(k.String())
		return err
	}
	c.items.Set(k.String(), clone(v), c.ttl)
	return nil
}

// Stop releases the ccache worker goroutine.
func (c *LRUCache) Stop() {
	c.items.Stop()
}
