// Package download runs bounded, cancellable downloads of well measurement series
// on top of the executor coordinator and stores the results in the series cache.
package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/aryankumar/brogw/internal/cache"
	"github.com/aryankumar/brogw/internal/executor"
	"github.com/aryankumar/brogw/internal/metrics"
	"github.com/aryankumar/brogw/internal/registry"
)

const (
	// LargeDownloadThreshold is the number of jobs above which a download needs confirmation
	LargeDownloadThreshold = 20

	// DefaultParallel is the default number of simultaneous fetches
	DefaultParallel = 8

	// DefaultPollInterval is how often the batch is polled for progress
	DefaultPollInterval = 200 * time.Millisecond
)

// ErrNothingToDownload is returned when every requested well is already cached
var ErrNothingToDownload = errors.New("nothing to download")

// SeriesFetcher retrieves one tube's series from the registry
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, gmwID string, tubeNr int) (*registry.Series, error)
}

// ProgressFunc receives progress after every poll that delivered outcomes
type ProgressFunc func(completed, total int)

// Option configures a Manager
type Option func(*Manager)

// WithParallel sets the concurrency cap
func WithParallel(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.parallel = n
		}
	}
}

// WithJobTimeout sets the per-job deadline
func WithJobTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.jobTimeout = d
	}
}

// WithPollInterval sets how often progress is collected
func WithPollInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.pollInterval = d
		}
	}
}

// WithLogger sets the manager logger
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Manager downloads series for wells that are not cached yet
type Manager struct {
	fetcher      SeriesFetcher
	store        cache.Store
	parallel     int
	jobTimeout   time.Duration
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewManager creates a download manager
func NewManager(fetcher SeriesFetcher, store cache.Store, opts ...Option) *Manager {
	m := &Manager{
		fetcher:      fetcher,
		store:        store,
		parallel:     DefaultParallel,
		pollInterval: DefaultPollInterval,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Plan is the set of jobs a download would run
type Plan struct {
	Jobs    []executor.Job
	Skipped []string
}

// NeedsConfirmation reports whether the plan exceeds LargeDownloadThreshold
func (p Plan) NeedsConfirmation() bool {
	return len(p.Jobs) > LargeDownloadThreshold
}

// Plan builds one job per well, skipping wells already in the cache and duplicate keys
func (m *Manager) Plan(ctx context.Context, wells []registry.Well) (Plan, error) {
	cached, err := m.store.Keys(ctx)
	if err != nil {
		return Plan{}, fmt.Errorf("listing cached series: %w", err)
	}
	have := sets.New(cached...)
	planned := sets.New[string]()

	var p Plan
	for _, w := range wells {
		key := w.Key()
		switch {
		case have.Has(key):
			p.Skipped = append(p.Skipped, key)
		case planned.Has(key):
			// listed twice; one job is enough
		default:
			planned.Insert(key)
			p.Jobs = append(p.Jobs, executor.Job{Key: key, Request: w})
		}
	}
	return p, nil
}

// Run downloads the planned jobs, storing each successful series as soon as it is polled.
// Cancelling ctx stops new jobs from starting; in-flight jobs drain and are still reported.
func (m *Manager) Run(ctx context.Context, plan Plan, progress ProgressFunc) (*Report, error) {
	report := &Report{
		Requested: len(plan.Jobs) + len(plan.Skipped),
		Skipped:   plan.Skipped,
	}
	if len(plan.Jobs) == 0 {
		return report, ErrNothingToDownload
	}

	start := time.Now()
	batch, err := executor.StartBatch(plan.Jobs, m.parallel, m.fetch,
		executor.WithContext(ctx),
		executor.WithJobTimeout(m.jobTimeout),
		executor.WithLogger(m.logger),
		executor.WithObserver(metrics.Observer{}),
	)
	if err != nil {
		return report, err
	}
	metrics.BatchesStarted.Inc()
	report.BatchID = batch.ID()

	m.logger.Info("download started",
		"batch_id", batch.ID(),
		"jobs", len(plan.Jobs),
		"skipped", len(plan.Skipped),
		"parallel", m.parallel)

	// results are stored even after ctx is cancelled
	storeCtx := context.WithoutCancel(ctx)

	var last executor.Snapshot
	pollErr := wait.PollUntilContextCancel(storeCtx, m.pollInterval, true, func(context.Context) (bool, error) {
		last = batch.Poll()
		if len(last.NewlyCompleted) > 0 {
			m.collect(storeCtx, report, last.NewlyCompleted)
			if progress != nil {
				progress(last.Completed, last.Total)
			}
		}
		return last.Done, nil
	})
	if pollErr != nil {
		return report, fmt.Errorf("polling batch %s: %w", batch.ID(), pollErr)
	}

	report.Cancelled = last.Cancelled
	report.Duration = time.Since(start)
	if report.Cancelled {
		metrics.BatchesCancelled.Inc()
		report.NotStarted = last.Total - last.Started
	}

	m.logger.Info("download finished",
		"batch_id", batch.ID(),
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"cancelled", report.Cancelled,
		"duration", report.Duration)

	return report, nil
}

// collect stores successful series and tallies outcomes
func (m *Manager) collect(ctx context.Context, report *Report, outcomes []executor.Outcome) {
	for _, o := range outcomes {
		if o.Success {
			series, ok := o.Payload.(*registry.Series)
			if !ok {
				o = executor.NewFailure(o.Key, fmt.Errorf("unexpected payload %T", o.Payload))
			} else if err := m.store.Put(ctx, o.Key, series); err != nil {
				o = executor.Outcome{Key: o.Key, Error: fmt.Sprintf("caching series: %v", err), Duration: o.Duration}
			}
		}

		if o.Success {
			report.Succeeded++
		} else {
			report.Failed++
			m.logger.Warn("download failed", "key", o.Key, "error", o.Error)
		}
		report.Outcomes = append(report.Outcomes, o)
	}
}

// fetch resolves the GMW id of a well and downloads its series
func (m *Manager) fetch(ctx context.Context, job executor.Job) executor.Outcome {
	well, ok := job.Request.(registry.Well)
	if !ok {
		return executor.NewFailure(job.Key, fmt.Errorf("unexpected request %T", job.Request))
	}

	gmwID, ok := registry.ExtractGMWID(well.BroID, well.Name)
	if !ok {
		return executor.NewFailure(job.Key, registry.ErrNoGMWID)
	}

	tube := well.TubeNr
	if tube < 1 {
		tube = 1
	}

	series, err := m.fetcher.FetchSeries(ctx, gmwID, tube)
	if err != nil {
		return executor.NewFailure(job.Key, err)
	}
	if series.Len() == 0 {
		return executor.NewFailure(job.Key, registry.ErrNoData)
	}

	enrich(series, well, gmwID)
	return executor.NewSuccess(job.Key, series)
}

// enrich fills well attributes the series response left out
func enrich(s *registry.Series, w registry.Well, gmwID string) {
	s.GMWID = gmwID
	s.BroID = w.BroID
	s.Name = w.Name
	if s.TubeNr == 0 {
		s.TubeNr = w.TubeNr
	}

	md := &s.Metadata
	if md.X == nil {
		md.X = &w.X
	}
	if md.Y == nil {
		md.Y = &w.Y
	}
	if md.GroundLevel == nil {
		md.GroundLevel = w.GroundLevel
	}
	if md.ScreenTop == nil {
		md.ScreenTop = w.ScreenTop
	}
	if md.ScreenBottom == nil {
		md.ScreenBottom = w.ScreenBottom
	}
	if md.TubeTop == nil {
		md.TubeTop = w.TubeTop
	}
	if md.Source == "" {
		md.Source = "BRO"
	}
	if md.Unit == "" {
		md.Unit = "m NAP"
	}
}
