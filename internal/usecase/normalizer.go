package usecase

import (
	"errors"
	"fmt"

	"github.com/jaennil/guide_helper/backend/featurecache/internal/tile"
)

var (
	// ErrWrongZoomSide is returned when a split is asked for a tile finer than
	// the reference zoom, or a merge for a coarser one.
	ErrWrongZoomSide = errors.New("tile is on the wrong side of the reference zoom")

	// ErrSplitTooDeep guards the 4^n growth of a split.
	ErrSplitTooDeep = errors.New("split exceeds the maximum zoom delta")
)

// MaxSplitDelta bounds how many zoom levels one split may cross; 4^15 tiles
// still fit an int slice length on every platform Go supports.
const MaxSplitDelta = 15

// Normalizer maps tiles of any zoom onto the reference zoom.
type Normalizer struct {
	refZoom       int
	maxSplitDelta int
}

// NewNormalizer clamps refZoom to [0, tile.MaxZoom] and maxSplitDelta to
// [1, MaxSplitDelta].
func NewNormalizer(refZoom, maxSplitDelta int) Normalizer {
	return Normalizer{
		refZoom:       min(max(refZoom, 0), tile.MaxZoom),
		maxSplitDelta: min(max(maxSplitDelta, 1), MaxSplitDelta),
	}
}

func (n Normalizer) MaxSplitDelta() int {
	return n.maxSplitDelta
}

func (n Normalizer) RefZoom() int {
	return n.refZoom
}

// SplitCount returns how many reference tiles Split(t) yields, without
// computing them.
func (n Normalizer) SplitCount(t tile.Tile) (int, error) {
	delta := n.refZoom - t.Z
	if delta <= 0 {
		return 0, nil
	}
	if delta > n.maxSplitDelta || delta > MaxSplitDelta {
		return 0, fmt.Errorf("%w: delta %d, max %d", ErrSplitTooDeep, delta, n.maxSplitDelta)
	}
	return 1 << (2 * delta), nil
}

// Split subdivides t breadth-first down to the reference zoom. A tile already
// at the reference zoom yields no tiles.
func (n Normalizer) Split(t tile.Tile) ([]tile.Tile, error) {
	if t.Z > n.refZoom {
		return nil, fmt.Errorf("%w: split of %s, reference zoom %d", ErrWrongZoomSide, t, n.refZoom)
	}

	count, err := n.SplitCount(t)
	if err != nil || count == 0 {
		return nil, err
	}

	level := make([]tile.Tile, 0, count)
	next := make([]tile.Tile, 0, count)
	level = append(level, t)
	for z := t.Z; z < n.refZoom; z++ {
		next = next[:0]
		for _, parent := range level {
			children := parent.Children()
			next = append(next, children[:]...)
		}
		level, next = next, level
	}

	return level, nil
}

// Merge walks t up to its ancestor at the reference zoom.
func (n Normalizer) Merge(t tile.Tile) (tile.Tile, error) {
	if t.Z < n.refZoom {
		return tile.Tile{}, fmt.Errorf("%w: merge of %s, reference zoom %d", ErrWrongZoomSide, t, n.refZoom)
	}

	for steps := t.Z - n.refZoom; steps > 0; steps-- {
		t = t.Parent()
	}
	return t, nil
}

// ReferenceTiles returns the reference-zoom tiles whose union is exactly t.
func (n Normalizer) ReferenceTiles(t tile.Tile) ([]tile.Tile, error) {
	switch {
	case t.Z == n.refZoom:
		return []tile.Tile{t}, nil
	case t.Z < n.refZoom:
		return n.Split(t)
	default:
		ancestor, err := n.Merge(t)
		if err != nil {
			return nil, err
		}
		return []tile.Tile{ancestor}, nil
	}
}
