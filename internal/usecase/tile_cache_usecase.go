package usecase

import (
	"context"

	"github.com/jaennil/guide_helper/backend/featurecache/internal/geo"
	"github.com/jaennil/guide_helper/backend/featurecache/internal/repository/cache"
	"github.com/jaennil/guide_helper/backend/featurecache/internal/tile"
	"github.com/jaennil/guide_helper/backend/featurecache/pkg/logger"
	"github.com/jaennil/guide_helper/backend/featurecache/pkg/metrics"
	"github.com/paulmach/orb/geojson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/jaennil/guide_helper/backend/featurecache/internal/usecase"

// TileCacheUseCase stores feature collections at a single reference zoom and
// answers queries at any zoom from the reference tiles covering them.
//
// A tile coarser than the reference zoom is split down and its data clipped
// into every descendant; a tile finer than the reference zoom is merged up
// on lookup. Adding a finer tile directly is rejected, because its data only
// covers part of the reference tile it would be stored in.
type TileCacheUseCase struct {
	layer      string
	normalizer Normalizer
	limits     *Limits
	store      cache.TileCache
	clipper    geo.Clipper
	bounds     geo.BoundsFunc
	logger     logger.Logger
	tracer     trace.Tracer
}

func NewTileCacheUseCase(opts ...Option) *TileCacheUseCase {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = cache.NewMapCache()
	}

	normalizer := NewNormalizer(o.refZoom, o.maxSplitDelta)
	if normalizer.RefZoom() != o.refZoom || normalizer.MaxSplitDelta() != o.maxSplitDelta {
		o.logger.Warn("normalizer parameters out of range, clamped",
			"layer", o.layer,
			"ref_zoom", o.refZoom, "clamped_ref_zoom", normalizer.RefZoom(),
			"max_split_delta", o.maxSplitDelta, "clamped_max_split_delta", normalizer.MaxSplitDelta())
	}

	return &TileCacheUseCase{
		layer:      o.layer,
		normalizer: normalizer,
		limits:     o.limits,
		store:      o.store,
		clipper:    o.clipper,
		bounds:     o.bounds,
		logger:     o.logger,
		tracer:     otel.Tracer(tracerName),
	}
}

func (uc *TileCacheUseCase) Layer() string {
	return uc.layer
}

func (uc *TileCacheUseCase) RefZoom() int {
	return uc.normalizer.RefZoom()
}

// Add stores data for t. It returns false when data is nil, when t is not a
// valid grid address, when t is finer than the reference zoom, or when a
// direct store fails. For a coarser tile
// the result only reflects that validation; failures of single descendants
// are logged, not reported.
func (uc *TileCacheUseCase) Add(ctx context.Context, t tile.Tile, data *geojson.FeatureCollection) bool {
	ctx, span := uc.tracer.Start(ctx, "TileCacheUseCase.Add", trace.WithAttributes(tileAttributes(uc.layer, t)...))
	defer span.End()

	ok := uc.add(ctx, t, data)
	span.SetAttributes(attribute.Bool("featurecache.added", ok))
	if ok {
		metrics.CacheAdds.WithLabelValues("ok").Inc()
	} else {
		metrics.CacheAdds.WithLabelValues("rejected").Inc()
	}
	return ok
}

func (uc *TileCacheUseCase) add(ctx context.Context, t tile.Tile, data *geojson.FeatureCollection) bool {
	if data == nil {
		return false
	}
	if !t.Valid {
		uc.logger.Error("tile to add is outside the grid", "layer", uc.layer, "tile", t.String())
		return false
	}

	refZoom := uc.normalizer.RefZoom()
	switch {
	case t.Z > refZoom:
		uc.logger.Error("tile to add is finer than the reference zoom",
			"layer", uc.layer, "tile", t.String(), "z", t.Z, "ref_zoom", refZoom)
		return false
	case t.Z == refZoom:
		return uc.put(ctx, t, data)
	}

	descendants, err := uc.normalizer.Split(t)
	if err != nil {
		uc.logger.Error("failed to split tile",
			"layer", uc.layer, "tile", t.String(), "z", t.Z, "ref_zoom", refZoom, "error", err)
		return false
	}
	metrics.SplitTiles.Observe(float64(len(descendants)))

	return uc.fillTiles(ctx, descendants, data)
}

// fillTiles distributes data over reference tiles, each receiving the part
// clipped to its own bounds. Tiles outside the limits are skipped.
func (uc *TileCacheUseCase) fillTiles(ctx context.Context, tiles []tile.Tile, data *geojson.FeatureCollection) bool {
	if data == nil {
		return false
	}

	var stored, skipped, failed int
	for _, t := range tiles {
		if t.Z != uc.normalizer.RefZoom() || !uc.limits.InBounds(t) {
			skipped++
			continue
		}
		if uc.add(ctx, t, uc.clipper.Clip(data, uc.bounds(t))) {
			stored++
		} else {
			failed++
		}
	}

	uc.logger.Debug("filled reference tiles",
		"layer", uc.layer, "tiles", len(tiles), "stored", stored, "skipped", skipped, "failed", failed)
	return true
}

func (uc *TileCacheUseCase) put(ctx context.Context, t tile.Tile, data *geojson.FeatureCollection) bool {
	if err := uc.store.Set(ctx, uc.key(t), data); err != nil {
		uc.logger.Error("failed to store tile", "layer", uc.layer, "tile", t.String(), "error", err)
		return false
	}
	metrics.CacheStores.Inc()
	return true
}

// ReferenceTiles returns the reference tiles covering t regardless of what is
// stored.
func (uc *TileCacheUseCase) ReferenceTiles(t tile.Tile) ([]tile.Tile, error) {
	return uc.normalizer.ReferenceTiles(t)
}

// SplitCount returns how many reference tiles an add of t would write.
func (uc *TileCacheUseCase) SplitCount(t tile.Tile) (int, error) {
	if t.Z >= uc.normalizer.RefZoom() {
		return 1, nil
	}
	return uc.normalizer.SplitCount(t)
}

// CoverTiles returns the reference tiles of t when every one of them is
// stored, and an empty slice otherwise.
func (uc *TileCacheUseCase) CoverTiles(ctx context.Context, t tile.Tile) []tile.Tile {
	tiles, _ := uc.cover(ctx, t)
	return tiles
}

// Has is an alias of CoverTiles.
func (uc *TileCacheUseCase) Has(ctx context.Context, t tile.Tile) []tile.Tile {
	return uc.CoverTiles(ctx, t)
}

// Get assembles the features of t from its reference tiles, in cover order.
// Incomplete coverage yields an empty collection.
func (uc *TileCacheUseCase) Get(ctx context.Context, t tile.Tile) *geojson.FeatureCollection {
	ctx, span := uc.tracer.Start(ctx, "TileCacheUseCase.Get", trace.WithAttributes(tileAttributes(uc.layer, t)...))
	defer span.End()

	result := geojson.NewFeatureCollection()

	tiles, collections := uc.cover(ctx, t)
	if len(tiles) == 0 {
		metrics.CacheMisses.Inc()
		span.SetAttributes(attribute.Bool("featurecache.hit", false))
		return result
	}

	for _, fc := range collections {
		result.Features = append(result.Features, fc.Features...)
	}

	metrics.CacheHits.Inc()
	span.SetAttributes(
		attribute.Bool("featurecache.hit", true),
		attribute.Int("featurecache.features", len(result.Features)),
	)
	return result
}

// cover looks up every reference tile of t and stops at the first one that is
// missing. A store error counts as missing.
func (uc *TileCacheUseCase) cover(ctx context.Context, t tile.Tile) ([]tile.Tile, []*geojson.FeatureCollection) {
	refs, err := uc.normalizer.ReferenceTiles(t)
	if err != nil {
		uc.logger.Warn("no reference tiles for lookup", "layer", uc.layer, "tile", t.String(), "error", err)
		return []tile.Tile{}, nil
	}

	collections := make([]*geojson.FeatureCollection, 0, len(refs))
	for _, ref := range refs {
		fc, exists, err := uc.store.Get(ctx, uc.key(ref))
		if err != nil {
			uc.logger.Error("failed to read tile", "layer", uc.layer, "tile", ref.String(), "error", err)
			return []tile.Tile{}, nil
		}
		if !exists || fc == nil {
			uc.logger.Debug("reference tile missing", "layer", uc.layer, "tile", t.String(), "missing", ref.String())
			return []tile.Tile{}, nil
		}
		collections = append(collections, fc)
	}

	return refs, collections
}

func (uc *TileCacheUseCase) key(t tile.Tile) cache.TileCacheKey {
	return cache.TileCacheKey{
		Layer: uc.layer,
		X:     t.X,
		Y:     t.Y,
		Z:     t.Z,
	}
}

func tileAttributes(layer string, t tile.Tile) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("featurecache.layer", layer),
		attribute.Int("tile.z", t.Z),
		attribute.Int("tile.x", t.X),
		attribute.Int("tile.y", t.Y),
	}
}
