package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts registry requests by operation and HTTP status
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brogw_registry_requests_total",
			Help: "Total number of registry requests",
		},
		[]string{"operation", "status"},
	)

	// RequestDuration tracks registry request latency
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "brogw_registry_request_duration_seconds",
			Help:    "Registry request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// ErrorsTotal counts failed registry requests by class
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brogw_registry_errors_total",
			Help: "Total number of registry errors by class",
		},
		[]string{"class"}, // "client", "server", "network", "decode"
	)
)
