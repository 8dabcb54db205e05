package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidRequest is returned synchronously by StartBatch when its preconditions are violated
	ErrInvalidRequest = errors.New("invalid batch request")

	// ErrJobFailed marks the error of a failed outcome
	ErrJobFailed = errors.New("job failed")

	// ErrBatchCancelled is returned by Wait when the batch was cancelled before all jobs started
	ErrBatchCancelled = errors.New("batch cancelled")
)

// Job identifies one unit of work in a batch
type Job struct {
	// Key identifies the job and must be unique within a batch
	Key string

	// Request carries whatever the fetch function needs for this job
	Request any
}

// Outcome is the result of running one job
type Outcome struct {
	// Key is the key of the job this outcome belongs to
	Key string

	// Success reports whether the fetch succeeded
	Success bool

	// Payload holds the fetched data (nil on failure)
	Payload any

	// Error is a human-readable failure description (empty on success)
	Error string

	// Duration is how long the fetch took
	Duration time.Duration
}

// Err returns the outcome's failure as an error wrapping ErrJobFailed, or nil on success
func (o Outcome) Err() error {
	if o.Success {
		return nil
	}
	return fmt.Errorf("%w: %s: %s", ErrJobFailed, o.Key, o.Error)
}

// NewSuccess builds a successful outcome
func NewSuccess(key string, payload any) Outcome {
	return Outcome{Key: key, Success: true, Payload: payload}
}

// NewFailure builds a failed outcome from an error
func NewFailure(key string, err error) Outcome {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Outcome{Key: key, Success: false, Error: msg}
}

// FetchFunc performs one unit of retrieval. It should report failures through the
// returned outcome; panics are recovered and turned into failed outcomes.
type FetchFunc func(ctx context.Context, job Job) Outcome

// Observer receives job lifecycle notifications. Calls happen on worker goroutines.
type Observer interface {
	JobStarted(batchID string, job Job)
	JobFinished(batchID string, outcome Outcome)
}

// Snapshot is a point-in-time view of a batch returned by Poll
type Snapshot struct {
	Total     int
	Started   int
	InFlight  int
	Completed int
	Succeeded int
	Failed    int
	Cancelled bool
	Done      bool

	// NewlyCompleted holds outcomes not delivered by any earlier Poll
	NewlyCompleted []Outcome
}

// Option configures a batch
type Option func(*Batch)

// WithLogger sets the batch logger
func WithLogger(logger *slog.Logger) Option {
	return func(b *Batch) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithJobTimeout gives every job a context deadline. Zero disables it.
func WithJobTimeout(d time.Duration) Option {
	return func(b *Batch) {
		if d > 0 {
			b.jobTimeout = d
		}
	}
}

// WithContext sets the parent context of all jobs.
// Cancelling it has the same effect as calling Cancel.
func WithContext(ctx context.Context) Option {
	return func(b *Batch) {
		if ctx != nil {
			b.ctx = ctx
		}
	}
}

// WithObserver registers an observer for job lifecycle events
func WithObserver(o Observer) Option {
	return func(b *Batch) {
		b.observer = o
	}
}

// Batch is one in-flight run of the coordinator over a fixed set of jobs
type Batch struct {
	id         string
	jobs       []Job
	fetch      FetchFunc
	workers    int
	jobTimeout time.Duration
	logger     *slog.Logger
	observer   Observer
	ctx        context.Context
	startTime  time.Time

	// mu guards everything below
	mu        sync.Mutex
	next      int
	inFlight  int
	succeeded int
	failed    int
	pending   []Outcome
	cancelled bool
	finished  bool
	done      chan struct{}
}

// StartBatch validates the request and begins executing jobs in the background,
// never running more than maxConcurrency fetches at once. It returns immediately.
func StartBatch(jobs []Job, maxConcurrency int, fetch FetchFunc, opts ...Option) (*Batch, error) {
	if err := validate(jobs, maxConcurrency, fetch); err != nil {
		return nil, err
	}

	b := &Batch{
		id:        uuid.NewString(),
		jobs:      append([]Job(nil), jobs...),
		fetch:     fetch,
		workers:   min(maxConcurrency, len(jobs)),
		logger:    slog.Default(),
		ctx:       context.Background(),
		startTime: time.Now(),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.logger.Info("starting batch",
		"batch_id", b.id,
		"jobs", len(b.jobs),
		"max_concurrency", maxConcurrency,
		"workers", b.workers)

	for i := 0; i < b.workers; i++ {
		go b.worker(i)
	}

	if b.ctx.Done() != nil {
		go b.watchContext()
	}

	return b, nil
}

func validate(jobs []Job, maxConcurrency int, fetch FetchFunc) error {
	if len(jobs) == 0 {
		return fmt.Errorf("%w: no jobs", ErrInvalidRequest)
	}
	if maxConcurrency < 1 {
		return fmt.Errorf("%w: max concurrency must be at least 1, got %d", ErrInvalidRequest, maxConcurrency)
	}
	if fetch == nil {
		return fmt.Errorf("%w: fetch function is required", ErrInvalidRequest)
	}

	seen := make(map[string]struct{}, len(jobs))
	for i, job := range jobs {
		if job.Key == "" {
			return fmt.Errorf("%w: job %d has an empty key", ErrInvalidRequest, i)
		}
		if _, dup := seen[job.Key]; dup {
			return fmt.Errorf("%w: duplicate job key %q", ErrInvalidRequest, job.Key)
		}
		seen[job.Key] = struct{}{}
	}
	return nil
}

// ID returns the batch identifier
func (b *Batch) ID() string {
	return b.id
}

// Total returns the number of submitted jobs
func (b *Batch) Total() int {
	return len(b.jobs)
}

// Done returns a channel that is closed once the batch is done
func (b *Batch) Done() <-chan struct{} {
	return b.done
}

// Poll returns the current counters and the outcomes completed since the previous Poll.
// It never blocks on running jobs.
func (b *Batch) Poll() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := Snapshot{
		Total:          len(b.jobs),
		Started:        b.next,
		InFlight:       b.inFlight,
		Completed:      b.succeeded + b.failed,
		Succeeded:      b.succeeded,
		Failed:         b.failed,
		Cancelled:      b.cancelled,
		Done:           b.finished,
		NewlyCompleted: b.pending,
	}
	b.pending = nil

	return snap
}

// Cancel stops the batch from starting any further job. Jobs already running finish
// and their outcomes are still delivered by Poll. Calling Cancel more than once is a no-op.
func (b *Batch) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cancelLocked()
}

// cancelLocked sets the cancellation flag. Caller must hold b.mu.
func (b *Batch) cancelLocked() {
	if b.cancelled || b.finished {
		return
	}
	b.cancelled = true

	b.logger.Info("batch cancelled",
		"batch_id", b.id,
		"started", b.next,
		"dropped", len(b.jobs)-b.next,
		"in_flight", b.inFlight)

	b.checkDoneLocked()
}

// Wait blocks until the batch is done or ctx ends and returns the outcomes not yet
// delivered by Poll. If the batch was cancelled the error is ErrBatchCancelled.
func (b *Batch) Wait(ctx context.Context) ([]Outcome, error) {
	select {
	case <-b.done:
	case <-ctx.Done():
		return b.Poll().NewlyCompleted, fmt.Errorf("waiting for batch %s: %w", b.id, ctx.Err())
	}

	snap := b.Poll()
	if snap.Cancelled {
		return snap.NewlyCompleted, ErrBatchCancelled
	}
	return snap.NewlyCompleted, nil
}

// watchContext cancels the batch when its parent context ends
func (b *Batch) watchContext() {
	select {
	case <-b.ctx.Done():
		b.logger.Warn("batch context ended", "batch_id", b.id, "error", b.ctx.Err())
		b.Cancel()
	case <-b.done:
	}
}

// worker runs jobs one at a time until the queue is empty or the batch is cancelled
func (b *Batch) worker(workerID int) {
	b.logger.Debug("worker started", "batch_id", b.id, "worker_id", workerID)

	for {
		job, ok := b.claim()
		if !ok {
			b.logger.Debug("worker finished", "batch_id", b.id, "worker_id", workerID)
			return
		}

		if b.observer != nil {
			b.observer.JobStarted(b.id, job)
		}

		outcome := b.run(job)

		if b.observer != nil {
			b.observer.JobFinished(b.id, outcome)
		}

		b.complete(outcome)
	}
}

// claim reserves the next job. It is the only place a job is started,
// so checking the cancellation flag here guarantees nothing starts after Cancel.
func (b *Batch) claim() (Job, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// the parent context may end before watchContext gets to run
	if b.ctx.Err() != nil {
		b.cancelLocked()
	}
	if b.cancelled || b.next >= len(b.jobs) {
		return Job{}, false
	}

	job := b.jobs[b.next]
	b.next++
	b.inFlight++
	return job, true
}

// complete records an outcome
func (b *Batch) complete(outcome Outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.inFlight--
	if outcome.Success {
		b.succeeded++
	} else {
		b.failed++
	}
	b.pending = append(b.pending, outcome)

	completed := b.succeeded + b.failed
	if outcome.Success {
		b.logger.Debug("job succeeded",
			"batch_id", b.id,
			"key", outcome.Key,
			"duration", outcome.Duration,
			"progress", fmt.Sprintf("%d/%d", completed, len(b.jobs)))
	} else {
		b.logger.Warn("job failed",
			"batch_id", b.id,
			"key", outcome.Key,
			"error", outcome.Error,
			"duration", outcome.Duration,
			"progress", fmt.Sprintf("%d/%d", completed, len(b.jobs)))
	}

	b.checkDoneLocked()
}

// checkDoneLocked marks the batch done when no job is running and none may start.
// Caller must hold b.mu.
func (b *Batch) checkDoneLocked() {
	if b.finished || b.inFlight > 0 {
		return
	}
	if !b.cancelled && b.next < len(b.jobs) {
		return
	}

	b.finished = true
	close(b.done)

	b.logger.Info("batch completed",
		"batch_id", b.id,
		"total", len(b.jobs),
		"started", b.next,
		"succeeded", b.succeeded,
		"failed", b.failed,
		"cancelled", b.cancelled,
		"duration", time.Since(b.startTime))
}

// run executes the fetch function for one job and normalises its outcome
func (b *Batch) run(job Job) (outcome Outcome) {
	start := time.Now()

	ctx := b.ctx
	if b.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.jobTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("fetch panicked", "batch_id", b.id, "key", job.Key, "panic", r)
			outcome = Outcome{
				Key:   job.Key,
				Error: fmt.Sprintf("fetch panicked: %v", r),
			}
		}
		outcome.Duration = time.Since(start)
	}()

	outcome = b.fetch(ctx, job)

	switch {
	case outcome.Key == "":
		outcome.Key = job.Key
	case outcome.Key != job.Key:
		return Outcome{
			Key:   job.Key,
			Error: fmt.Sprintf("fetch returned outcome for %q", outcome.Key),
		}
	}

	if outcome.Success {
		outcome.Error = ""
		return outcome
	}

	outcome.Payload = nil
	if outcome.Error == "" {
		outcome.Error = "fetch failed without a reason"
	}
	if b.jobTimeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		outcome.Error = fmt.Sprintf("timed out after %s: %s", b.jobTimeout, outcome.Error)
	}
	return outcome
}
