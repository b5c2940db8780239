// Package geo adapts orb for the feature cache: tile bounding boxes and
// clipping of feature collections to a box.
package geo

import (
	"github.com/jaennil/guide_helper/backend/featurecache/internal/tile"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
)

// BoundsFunc maps a tile address to its geographic bounding box.
type BoundsFunc func(tile.Tile) orb.Bound

// BoundsOf returns the lon/lat bounding box of a web mercator tile. t must be
// valid; coordinates outside the grid wrap.
func BoundsOf(t tile.Tile) orb.Bound {
	return maptile.New(uint32(t.X), uint32(t.Y), maptile.Zoom(t.Z)).Bound()
}

// Clipper returns the part of a collection that falls inside bound.
type Clipper interface {
	Clip(fc *geojson.FeatureCollection, bound orb.Bound) *geojson.FeatureCollection
}

type ClipperFunc func(*geojson.FeatureCollection, orb.Bound) *geojson.FeatureCollection

func (f ClipperFunc) Clip(fc *geojson.FeatureCollection, bound orb.Bound) *geojson.FeatureCollection {
	return f(fc, bound)
}

// OrbClipper clips every feature geometry with orb/clip. Features that end
// up empty are dropped; ids and properties are carried over.
type OrbClipper struct{}

var _ Clipper = OrbClipper{}

func (OrbClipper) Clip(fc *geojson.FeatureCollection, bound orb.Bound) *geojson.FeatureCollection {
	out := geojson.NewFeatureCollection()
	if fc == nil {
		return out
	}

	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		if !f.Geometry.Bound().Intersects(bound) {
			continue
		}

		g := clip.Geometry(bound, orb.Clone(f.Geometry))
		if g == nil || isEmpty(g) {
			continue
		}

		clipped := geojson.NewFeature(g)
		clipped.ID = f.ID
		clipped.Properties = f.Properties.Clone()
		out.Append(clipped)
	}

	return out
}

func isEmpty(g orb.Geometry) bool {
	switch v := g.(type) {
	case orb.MultiPoint:
		return len(v) == 0
	case orb.LineString:
		return len(v) == 0
	case orb.MultiLineString:
		return len(v) == 0
	case orb.Ring:
		return len(v) == 0
	case orb.Polygon:
		return len(v) == 0
	case orb.MultiPolygon:
		return len(v) == 0
	case orb.Collection:
		return len(v) == 0
	}
	return false
}
