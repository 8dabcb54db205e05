// Package metrics exposes Prometheus collectors for download batches.
//
// Collectors defined elsewhere:
//
// Registry client (internal/registry):
//   - brogw_registry_requests_total{operation, status} (Counter)
//   - brogw_registry_request_duration_seconds{operation} (Histogram)
//   - brogw_registry_errors_total{class} (Counter)
//
// Series cache (internal/cache):
//   - brogw_series_cache_hits_total{backend} (Counter)
//   - brogw_series_cache_misses_total (Counter)
//   - brogw_series_cache_errors_total{operation} (Counter)
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aryankumar/brogw/internal/executor"
)

var (
	// BatchesStarted counts download batches
	BatchesStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brogw_batches_started_total",
			Help: "Total number of download batches started",
		},
	)

	// BatchesCancelled counts batches cancelled before all jobs started
	BatchesCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brogw_batches_cancelled_total",
			Help: "Total number of download batches cancelled",
		},
	)

	// JobsStarted counts started jobs
	JobsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brogw_jobs_started_total",
			Help: "Total number of download jobs started",
		},
	)

	// JobsFinished counts finished jobs by result
	JobsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brogw_jobs_finished_total",
			Help: "Total number of download jobs finished",
		},
		[]string{"result"}, // "success", "failure"
	)

	// JobsInFlight is the number of jobs currently running
	JobsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "brogw_jobs_in_flight",
			Help: "Number of download jobs currently running",
		},
	)

	// JobDuration tracks how long jobs take
	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "brogw_job_duration_seconds",
			Help:    "Download job duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"result"},
	)
)

// Observer records job lifecycle events from a batch
type Observer struct{}

var _ executor.Observer = Observer{}

// JobStarted implements executor.Observer
func (Observer) JobStarted(string, executor.Job) {
	JobsStarted.Inc()
	JobsInFlight.Inc()
}

// JobFinished implements executor.Observer
func (Observer) JobFinished(_ string, outcome executor.Outcome) {
	JobsInFlight.Dec()

	result := "success"
	if !outcome.Success {
		result = "failure"
	}
	JobsFinished.WithLabelValues(result).Inc()
	JobDuration.WithLabelValues(result).Observe(outcome.Duration.Seconds())
}
