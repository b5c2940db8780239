package usecase

import (
	"sort"
	"sync"

	"github.com/jaennil/guide_helper/backend/featurecache/pkg/metrics"
)

// Registry hands out one TileCacheUseCase per id. The options of the first
// Get for an id win; later calls return the existing instance unchanged.
type Registry struct {
	mu       sync.Mutex
	caches   map[string]*TileCacheUseCase
	defaults []Option
}

// NewRegistry returns a registry whose caches are built from defaults
// followed by the options passed to Get.
func NewRegistry(defaults ...Option) *Registry {
	return &Registry{
		caches:   make(map[string]*TileCacheUseCase),
		defaults: defaults,
	}
}

func (r *Registry) Get(id string, opts ...Option) *TileCacheUseCase {
	r.mu.Lock()
	defer r.mu.Unlock()

	if uc, ok := r.caches[id]; ok {
		return uc
	}

	all := make([]Option, 0, len(r.defaults)+len(opts)+1)
	all = append(all, r.defaults...)
	all = append(all, WithLayer(id))
	all = append(all, opts...)

	uc := NewTileCacheUseCase(all...)
	r.caches[id] = uc
	metrics.Layers.Set(float64(len(r.caches)))
	return uc
}

// View returns the cache for id when it exists, and otherwise an unregistered
// one built from the defaults. Reads through View never create a layer.
func (r *Registry) View(id string) *TileCacheUseCase {
	r.mu.Lock()
	defer r.mu.Unlock()

	if uc, ok := r.caches[id]; ok {
		return uc
	}

	all := make([]Option, 0, len(r.defaults)+1)
	all = append(all, r.defaults...)
	all = append(all, WithLayer(id))
	return NewTileCacheUseCase(all...)
}

// Lookup returns the cache for id without creating it.
func (r *Registry) Lookup(id string) (*TileCacheUseCase, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	uc, ok := r.caches[id]
	return uc, ok
}

// Remove forgets the cache for id. Stored tiles stay in the backend.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.caches[id]; !ok {
		return false
	}
	delete(r.caches, id)
	metrics.Layers.Set(float64(len(r.caches)))
	return true
}

func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.caches))
	for id := range r.caches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
