package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// TileCacheKey addresses one stored reference tile. Layer separates cache
// instances sharing a backend.
type TileCacheKey struct {
	Layer string
	X     int
	Y     int
	Z     int
}

func (k TileCacheKey) String() string {
	if k.Layer == "" {
		return fmt.Sprintf("%d/%d/%d", k.Z, k.X, k.Y)
	}
	return fmt.Sprintf("%s/%d/%d/%d", k.Layer, k.Z, k.X, k.Y)
}

// TileCache is the storage surface of the feature cache. Get reports an
// absent tile as (nil, false, nil).
type TileCache interface {
	Get(context.Context, TileCacheKey) (*geojson.FeatureCollection, bool, error)
	Set(context.Context, TileCacheKey, *geojson.FeatureCollection) error
}

var ErrNilCollection = errors.New("nil feature collection")

func encode(fc *geojson.FeatureCollection) ([]byte, error) {
	if fc == nil {
		return nil, ErrNilCollection
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode feature collection: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode feature collection: %w", err)
	}
	return fc, nil
}

// clone deep copies the features and geometries of fc. Stores that keep
// collections in memory clone on Set and Get so callers never share them.
func clone(fc *geojson.FeatureCollection) *geojson.FeatureCollection {
	if fc == nil {
		return nil
	}

	out := geojson.NewFeatureCollection()
	out.Type = fc.Type
	out.BBox = append(geojson.BBox(nil), fc.BBox...)
	if fc.ExtraMembers != nil {
		out.ExtraMembers = fc.ExtraMembers.Clone()
	}

	out.Features = make([]*geojson.Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f == nil {
			out.Features = append(out.Features, nil)
			continue
		}
		c := *f
		c.Geometry = orb.Clone(f.Geometry)
		c.BBox = append(geojson.BBox(nil), f.BBox...)
		if f.Properties != nil {
			c.Properties = f.Properties.Clone()
		}
		out.Features = append(out.Features, &c)
	}
	return out
}
