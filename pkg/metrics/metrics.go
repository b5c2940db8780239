package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "featurecache_hits_total",
		Help: "Total number of lookups answered with full reference coverage",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "featurecache_misses_total",
		Help: "Total number of lookups with incomplete reference coverage",
	})

	CacheStores = promauto.NewCounter(prometheus.CounterOpts{
		Name: "featurecache_stores_total",
		Help: "Total number of reference tiles written",
	})

	CacheAdds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "featurecache_adds_total",
		Help: "Total number of add calls by outcome",
	}, []string{"result"})

	SplitTiles = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "featurecache_split_tiles",
		Help:    "Number of reference tiles produced per split",
		Buckets: prometheus.ExponentialBuckets(4, 4, 10),
	})

	Layers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "featurecache_layers",
		Help: "Number of cache instances held by the registry",
	})

	StoreOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "featurecache_store_operation_duration_seconds",
		Help:    "Duration of storage backend operations in seconds",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"backend", "operation"})

	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "featurecache_store_errors_total",
		Help: "Total number of storage backend errors",
	}, []string{"backend", "operation"})

	LRUHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "featurecache_lru_hits_total",
		Help: "Total number of reads served by the in-process LRU front",
	})
)
