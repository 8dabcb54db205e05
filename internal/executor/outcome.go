package executor

import (
	"fmt"
	"strings"
	"time"
)

// CountSucceeded returns the number of successful outcomes
func CountSucceeded(outcomes []Outcome) int {
	count := 0
	for _, o := range outcomes {
		if o.Success {
			count++
		}
	}
	return count
}

// CountFailed returns the number of failed outcomes
func CountFailed(outcomes []Outcome) int {
	return len(outcomes) - CountSucceeded(outcomes)
}

// FilterSucceeded returns only the successful outcomes
func FilterSucceeded(outcomes []Outcome) []Outcome {
	filtered := make([]Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Success {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// FilterFailed returns only the failed outcomes
func FilterFailed(outcomes []Outcome) []Outcome {
	filtered := make([]Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.Success {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// FindByKey returns the outcome for a job key
func FindByKey(outcomes []Outcome, key string) (Outcome, bool) {
	for _, o := range outcomes {
		if o.Key == key {
			return o, true
		}
	}
	return Outcome{}, false
}

// Errors returns the errors of all failed outcomes
func Errors(outcomes []Outcome) []error {
	errs := make([]error, 0)
	for _, o := range outcomes {
		if err := o.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// AverageDuration calculates the average duration of all outcomes
func AverageDuration(outcomes []Outcome) time.Duration {
	if len(outcomes) == 0 {
		return 0
	}

	var total time.Duration
	for _, o := range outcomes {
		total += o.Duration
	}

	return total / time.Duration(len(outcomes))
}

// MaxDuration returns the maximum duration among all outcomes
func MaxDuration(outcomes []Outcome) time.Duration {
	var max time.Duration
	for _, o := range outcomes {
		if o.Duration > max {
			max = o.Duration
		}
	}
	return max
}

// MinDuration returns the minimum duration among all outcomes
func MinDuration(outcomes []Outcome) time.Duration {
	if len(outcomes) == 0 {
		return 0
	}

	min := outcomes[0].Duration
	for _, o := range outcomes {
		if o.Duration < min {
			min = o.Duration
		}
	}
	return min
}

// Summary provides a summary of a set of outcomes
type Summary struct {
	Total       int
	Succeeded   int
	Failed      int
	AvgDuration time.Duration
	MaxDuration time.Duration
	MinDuration time.Duration
}

// Summarize creates a summary of the outcomes
func Summarize(outcomes []Outcome) Summary {
	return Summary{
		Total:       len(outcomes),
		Succeeded:   CountSucceeded(outcomes),
		Failed:      CountFailed(outcomes),
		AvgDuration: AverageDuration(outcomes),
		MaxDuration: MaxDuration(outcomes),
		MinDuration: MinDuration(outcomes),
	}
}

// String returns a human-readable "X succeeded, Y failed" line
func (s Summary) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%d succeeded, %d failed", s.Succeeded, s.Failed))

	if s.Total > 0 {
		sb.WriteString(fmt.Sprintf(" (avg %s, max %s, min %s)",
			s.AvgDuration.Round(time.Millisecond),
			s.MaxDuration.Round(time.Millisecond),
			s.MinDuration.Round(time.Millisecond)))
	}

	return sb.String()
}

// SuccessRate returns the success rate as a percentage (0.0 to 100.0)
func SuccessRate(outcomes []Outcome) float64 {
	if len(outcomes) == 0 {
		return 0.0
	}
	return float64(CountSucceeded(outcomes)) / float64(len(outcomes)) * 100.0
}
