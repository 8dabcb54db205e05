package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by backend
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brogw_series_cache_hits_total",
			Help: "Total number of series cache hits",
		},
		[]string{"backend"}, // "redis", "file", "memory"
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brogw_series_cache_misses_total",
			Help: "Total number of series cache misses",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brogw_series_cache_errors_total",
			Help: "Total number of series cache operation errors",
		},
		[]string{"operation"},
	)
)
