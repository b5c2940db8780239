package cache

import (
	"fmt"

	"github.com/jaennil/guide_helper/backend/featurecache/pkg/config"
	"github.com/jaennil/guide_helper/backend/featurecache/pkg/logger"
)

const (
	BackendMap        = "map"
	BackendSQLite     = "sqlite"
	BackendRedis      = "redis"
	BackendFilesystem = "filesystem"
)

// New builds the configured backend wrapped with metrics and, for external
// backends, an optional LRU front. The returned close func releases it.
func New(cfg config.Cache, redisCfg config.Redis, l logger.Logger) (TileCache, func() error, error) {
	var (
		store   TileCache
		closeFn = func() error { return nil }
	)

	switch cfg.Backend {
	case BackendMap, "":
		l.Info("using in-memory tile store")
		return NewInstrumentedCache(NewMapCache(), BackendMap), closeFn, nil
	case BackendSQLite:
		l.Info("using sqlite tile store", "path", cfg.SQLitePath)
		c, err := NewSQLiteCache(cfg.SQLitePath, l)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize sqlite store: %w", err)
		}
		store, closeFn = c, c.Close
	case BackendRedis:
		l.Info("using redis tile store", "addr", redisCfg.Addr, "db", redisCfg.DB)
		c, err := NewRedisCache(RedisConfig{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize redis store: %w", err)
		}
		store, closeFn = c, c.Close
	case BackendFilesystem:
		l.Info("using filesystem tile store", "root", cfg.FilesystemRoot)
		c, err := NewFilesystemCache(cfg.FilesystemRoot)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize filesystem store: %w", err)
		}
		store = c
	default:
		return nil, nil, fmt.Errorf("unknown cache backend: %s (supported: map, sqlite, redis, filesystem)", cfg.Backend)
	}

	store = NewInstrumentedCache(store, cfg.Backend)

	if cfg.LRUSize > 0 {
		l.Info("enabling lru front", "max_size", cfg.LRUSize)
		lru := NewLRUCache(store, LRUConfig{
			MaxSize:      cfg.LRUSize,
			ItemsToPrune: cfg.LRUItemsToPrune,
		})
		backendClose := closeFn
		store = lru
		closeFn = func() error {
			lru.Stop()
			return backendClose()
		}
	}

	return store, closeFn, nil
}
