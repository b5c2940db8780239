package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/paulmach/orb/geojson"
)

// FilesystemCache stores each tile as root/layer/z/x/y.geojson.
type FilesystemCache struct {
	root string
}

func NewFilesystemCache(root string) (*FilesystemCache, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache root %q: %w", root, err)
	}
	return &FilesystemCache{root: root}, nil
}

var _ TileCache = (*FilesystemCache)(nil)

func (c *FilesystemCache) Get(_ context.Context, k TileCacheKey) (*geojson.FeatureCollection, bool, error) {
	content, err := os.ReadFile(c.pathFor(k))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}

	fc, err := decode(content)
	if err != nil {
		return nil, false, err
	}
	return fc, true, nil
}

func (c *FilesystemCache) Set(_ context.Context, k TileCacheKey, v *geojson.FeatureCollection) error {
	data, err := encode(v)
	if err != nil {
		return err
	}

	path := c.pathFor(k)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	// write through a temp file so readers never see a partial tile
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tile-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (c *FilesystemCache) pathFor(k TileCacheKey) string {
	layer := k.Layer
	if layer == "" {
		layer = "_"
	}
	return filepath.Join(c.root, layer, strconv.Itoa(k.Z), strconv.Itoa(k.X), strconv.Itoa(k.Y)+".geojson")
}
