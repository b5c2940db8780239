package usecase

import (
	"github.com/jaennil/guide_helper/backend/featurecache/internal/geo"
	"github.com/jaennil/guide_helper/backend/featurecache/internal/repository/cache"
	"github.com/jaennil/guide_helper/backend/featurecache/pkg/logger"
)

const (
	DefaultRefZoom       = 13
	DefaultMaxSplitDelta = 10
)

type options struct {
	layer         string
	refZoom       int
	maxSplitDelta int
	limits        *Limits
	store         cache.TileCache
	clipper       geo.Clipper
	bounds        geo.BoundsFunc
	logger        logger.Logger
}

type Option func(*options)

func defaultOptions() options {
	return options{
		refZoom:       DefaultRefZoom,
		maxSplitDelta: DefaultMaxSplitDelta,
		clipper:       geo.OrbClipper{},
		bounds:        geo.BoundsOf,
		logger:        logger.NewNop(),
	}
}

// WithLayer names the cache instance; it prefixes every storage key.
func WithLayer(layer string) Option {
	return func(o *options) { o.layer = layer }
}

func WithRefZoom(z int) Option {
	return func(o *options) { o.refZoom = z }
}

// WithMaxSplitDelta caps how many zoom levels a single add may split across.
func WithMaxSplitDelta(delta int) Option {
	return func(o *options) {
		if delta > 0 {
			o.maxSplitDelta = delta
		}
	}
}

func WithLimits(l *Limits) Option {
	return func(o *options) { o.limits = l }
}

// WithStore replaces the default in-memory store.
func WithStore(s cache.TileCache) Option {
	return func(o *options) { o.store = s }
}

func WithClipper(c geo.Clipper) Option {
	return func(o *options) { o.clipper = c }
}

func WithBounds(b geo.BoundsFunc) Option {
	return func(o *options) { o.bounds = b }
}

func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.logger = l }
}
