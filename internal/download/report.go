package download

import (
	"fmt"
	"time"

	"github.com/aryankumar/brogw/internal/executor"
)

// Report summarises a download run
type Report struct {
	BatchID    string
	Requested  int
	Skipped    []string
	Succeeded  int
	Failed     int
	NotStarted int
	Cancelled  bool
	Duration   time.Duration
	Outcomes   []executor.Outcome
}

// String renders the status line shown after a download
func (r *Report) String() string {
	if r.Succeeded == 0 && r.Failed == 0 && len(r.Skipped) > 0 {
		return fmt.Sprintf("All %d wells already downloaded", len(r.Skipped))
	}

	msg := fmt.Sprintf("Downloaded %d wells", r.Succeeded)
	if r.Failed > 0 {
		msg += fmt.Sprintf(" (%d failed)", r.Failed)
	}
	if r.Cancelled {
		msg += fmt.Sprintf(", cancelled with %d not started", r.NotStarted)
	}
	return msg
}

// FailedOutcomes returns the failures in the order they were polled
func (r *Report) FailedOutcomes() []executor.Outcome {
	return executor.FilterFailed(r.Outcomes)
}
