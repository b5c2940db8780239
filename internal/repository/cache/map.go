package cache

import (
	"context"
	"sync"

	"github.com/paulmach/orb/geojson"
)

type plane struct {
	layer string
	z     int
}

// MapCache keeps tiles in memory as x -> y -> collection per layer and zoom.
// Collections are copied on the way in and out.
type MapCache struct {
	mu     sync.RWMutex
	planes map[plane]map[int]map[int]*geojson.FeatureCollection
}

func NewMapCache() *MapCache {
	return &MapCache{
		planes: make(map[plane]map[int]map[int]*geojson.FeatureCollection),
	}
}

var _ TileCache = (*MapCache)(nil)

func (c *MapCache) Get(_ context.Context, k TileCacheKey) (*geojson.FeatureCollection, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	column, ok := c.planes[plane{k.Layer, k.Z}][k.X]
	if !ok {
		return nil, false, nil
	}
	v, ok := column[k.Y]
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

func (c *MapCache) Set(_ context.Context, k TileCacheKey, v *geojson.FeatureCollection) error {
	if v == nil {
		return ErrNilCollection
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := plane{k.Layer, k.Z}
	columns, ok := c.planes[p]
	if !ok {
		columns = make(map[int]map[int]*geojson.FeatureCollection)
		c.planes[p] = columns
	}
	column, ok := columns[k.X]
	if !ok {
		column = make(map[int]*geojson.FeatureCollection)
		columns[k.X] = column
	}
	column[k.Y] = clone(v)
	return nil
}

// Len returns the number of stored tiles.
func (c *MapCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, columns := range c.planes {
		for _, column := range columns {
			n += len(column)
		}
	}
	return n
}
