package usecase

import (
	"github.com/jaennil/guide_helper/backend/featurecache/internal/tile"
	"github.com/jaennil/guide_helper/backend/featurecache/pkg/config"
)

// Limits is an inclusive rectangle in reference-zoom tile space. A nil bound
// is unconstrained.
type Limits struct {
	XMin *int
	XMax *int
	YMin *int
	YMax *int
}

// LimitsFromConfig returns nil when no bound is configured.
func LimitsFromConfig(cfg config.Limits) *Limits {
	if !cfg.IsSet() {
		return nil
	}
	return &Limits{
		XMin: cfg.XMin,
		XMax: cfg.XMax,
		YMin: cfg.YMin,
		YMax: cfg.YMax,
	}
}

// InBounds reports whether t lies inside the limits. A nil receiver accepts
// every tile.
func (l *Limits) InBounds(t tile.Tile) bool {
	if l == nil {
		return true
	}
	if l.XMin != nil && t.X < *l.XMin {
		return false
	}
	if l.XMax != nil && t.X > *l.XMax {
		return false
	}
	if l.YMin != nil && t.Y < *l.YMin {
		return false
	}
	if l.YMax != nil && t.Y > *l.YMax {
		return false
	}
	return true
}
