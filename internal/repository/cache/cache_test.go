package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jaennil/guide_helper/backend/featurecache/pkg/config"
	"github.com/jaennil/guide_helper/backend/featurecache/pkg/logger"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func collection(names ...string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, name := range names {
		f := geojson.NewFeature(orb.Point{float64(i), float64(i)})
		f.Properties["name"] = name
		fc.Append(f)
	}
	return fc
}

func names(fc *geojson.FeatureCollection) []string {
	out := make([]string, 0, len(fc.Features))
	for _, f := range fc.Features {
		out = append(out, f.Properties.MustString("name"))
	}
	return out
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func newSQLite(t *testing.T) TileCache {
	t.Helper()
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "test.db"), logger.NewNop())
	if err != nil {
		t.Fatalf("failed to create sqlite cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func newRedis(t *testing.T) TileCache {
	t.Helper()
	srv := miniredis.RunT(t)
	c, err := NewRedisCache(RedisConfig{Addr: srv.Addr()})
	if err != nil {
		t.Fatalf("failed to create redis cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func newFilesystem(t *testing.T) TileCache {
	t.Helper()
	c, err := NewFilesystemCache(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create filesystem cache: %v", err)
	}
	return c
}

func newLRU(t *testing.T) TileCache {
	t.Helper()
	c := NewLRUCache(NewMapCache(), LRUConfig{MaxSize: 16})
	t.Cleanup(c.Stop)
	return c
}

func newLRUOverSQLite(t *testing.T) TileCache {
	t.Helper()
	c := NewLRUCache(newSQLite(t), LRUConfig{MaxSize: 16})
	t.Cleanup(c.Stop)
	return c
}

func backends() map[string]func(t *testing.T) TileCache {
	return map[string]func(t *testing.T) TileCache{
		"map":             func(*testing.T) TileCache { return NewMapCache() },
		"sqlite":          newSQLite,
		"redis":           newRedis,
		"filesystem":      newFilesystem,
		"lru":             newLRU,
		"lru over sqlite": newLRUOverSQLite,
		"instrumented":    func(*testing.T) TileCache { return NewInstrumentedCache(NewMapCache(), "map") },
	}
}

func TestTileCacheContract(t *testing.T) {
	ctx := context.Background()

	for name, newCache := range backends() {
		t.Run(name, func(t *testing.T) {
			c := newCache(t)
			key := TileCacheKey{Layer: "roads", X: 4100, Y: 2700, Z: 13}

			if _, exists, err := c.Get(ctx, key); err != nil || exists {
				t.Fatalf("Get on empty cache = (exists %v, err %v), want absent", exists, err)
			}

			if err := c.Set(ctx, key, collection("a", "b")); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			got, exists, err := c.Get(ctx, key)
			if err != nil || !exists {
				t.Fatalf("Get after Set = (exists %v, err %v)", exists, err)
			}
			if !equalNames(names(got), []string{"a", "b"}) {
				t.Errorf("Get = %v, want [a b]", names(got))
			}

			// last write wins
			if err := c.Set(ctx, key, collection("c")); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}
			got, _, _ = c.Get(ctx, key)
			if !equalNames(names(got), []string{"c"}) {
				t.Errorf("Get after overwrite = %v, want [c]", names(got))
			}

			// same x/y in another layer or zoom is a different tile
			for _, other := range []TileCacheKey{
				{Layer: "rivers", X: key.X, Y: key.Y, Z: key.Z},
				{Layer: key.Layer, X: key.X, Y: key.Y, Z: 12},
				{Layer: key.Layer, X: key.X, Y: key.Y + 1, Z: key.Z},
			} {
				if _, exists, err := c.Get(ctx, other); err != nil || exists {
					t.Errorf("Get(%s) = (exists %v, err %v), want absent", other, exists, err)
				}
			}
		})
	}
}

func TestEmptyCollectionIsStored(t *testing.T) {
	ctx := context.Background()

	for name, newCache := range backends() {
		t.Run(name, func(t *testing.T) {
			c := newCache(t)
			key := TileCacheKey{Layer: "roads", X: 1, Y: 1, Z: 3}

			if err := c.Set(ctx, key, geojson.NewFeatureCollection()); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			got, exists, err := c.Get(ctx, key)
			if err != nil || !exists {
				t.Fatalf("Get = (exists %v, err %v), want present", exists, err)
			}
			if len(got.Features) != 0 {
				t.Errorf("got %d features, want 0", len(got.Features))
			}
		})
	}
}

func TestStoredCollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	key := TileCacheKey{Layer: "roads", X: 3, Y: 4, Z: 13}

	for name, newCache := range backends() {
		t.Run(name, func(t *testing.T) {
			c := newCache(t)

			in := collection("a", "b")
			if err := c.Set(ctx, key, in); err != nil {
				t.Fatalf("Set error = %v", err)
			}
			in.Features[0].Properties["name"] = "mutated-input"
			in.Features[1].Geometry = orb.Point{42, 42}
			in.Features = in.Features[:1]

			out, _, err := c.Get(ctx, key)
			if err != nil {
				t.Fatalf("Get error = %v", err)
			}
			out.Features[0].Properties["name"] = "mutated-output"
			out.Features = append(out.Features, geojson.NewFeature(orb.Point{7, 7}))

			got, exists, err := c.Get(ctx, key)
			if err != nil || !exists {
				t.Fatalf("Get = (exists %v, %v)", exists, err)
			}
			if n := names(got); !equalNames(n, []string{"a", "b"}) {
				t.Errorf("names = %v, want [a b]", n)
			}
			if p, ok := got.Features[1].Geometry.(orb.Point); !ok || !p.Equal(orb.Point{1, 1}) {
				t.Errorf("geometry = %v, want POINT(1 1)", got.Features[1].Geometry)
			}
		})
	}
}

func TestSetRejectsNil(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{"map", "sqlite", "filesystem"} {
		t.Run(name, func(t *testing.T) {
			c := backends()[name](t)
			if err := c.Set(ctx, TileCacheKey{X: 1, Y: 1, Z: 1}, nil); err == nil {
				t.Fatal("Set(nil) should fail")
			}
		})
	}
}

func TestMapCacheLen(t *testing.T) {
	ctx := context.Background()
	c := NewMapCache()
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			c.Set(ctx, TileCacheKey{X: x, Y: y, Z: 2}, collection())
		}
	}
	c.Set(ctx, TileCacheKey{X: 0, Y: 0, Z: 2}, collection("again"))

	if got := c.Len(); got != 16 {
		t.Errorf("Len() = %d, want 16", got)
	}
}

func TestLRUServesFromBackendAfterEviction(t *testing.T) {
	ctx := context.Background()
	backend := NewMapCache()
	c := NewLRUCache(backend, LRUConfig{MaxSize: 1, ItemsToPrune: 1})
	defer c.Stop()

	key := TileCacheKey{Layer: "l", X: 7, Y: 8, Z: 9}
	if err := c.Set(ctx, key, collection("kept")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	c.items.Clear()

	got, exists, err := c.Get(ctx, key)
	if err != nil || !exists {
		t.Fatalf("Get = (exists %v, err %v), want present from backend", exists, err)
	}
	if !equalNames(names(got), []string{"kept"}) {
		t.Errorf("Get = %v, want [kept]", names(got))
	}
}

func TestNewFactory(t *testing.T) {
	l := logger.NewNop()

	testCases := []struct {
		name    string
		cfg     config.Cache
		wantErr bool
	}{
		{name: "default map", cfg: config.Cache{}},
		{name: "filesystem", cfg: config.Cache{Backend: BackendFilesystem, FilesystemRoot: t.TempDir()}},
		{name: "sqlite with lru", cfg: config.Cache{Backend: BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "f.db"), LRUSize: 8}},
		{name: "unknown", cfg: config.Cache{Backend: "memcached"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store, closeFn, err := New(tc.cfg, config.Redis{}, l)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			defer closeFn()

			key := TileCacheKey{Layer: "x", X: 1, Y: 2, Z: 3}
			if err := store.Set(context.Background(), key, collection("one")); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if _, exists, err := store.Get(context.Background(), key); err != nil || !exists {
				t.Fatalf("Get = (exists %v, err %v)", exists, err)
			}
		})
	}
}
