package wellstore

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmpty is returned when the workspace holds no retrieval yet
	ErrEmpty = errors.New("workspace has no wells; run 'brogw wells retrieve' first")

	// ErrUnknownWell is returned when a requested key is not in the workspace
	ErrUnknownWell = errors.New("unknown well")
)

// DepthFilter selects wells by filter top (m NAP). A nil bound is open.
type DepthFilter struct {
	Min *float64
	Max *float64
}

// Validate rejects inverted ranges
func (f DepthFilter) Validate() error {
	if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
		return fmt.Errorf("minimum depth %.2f is above maximum depth %.2f", *f.Min, *f.Max)
	}
	return nil
}

// Active reports whether the filter restricts anything
func (f DepthFilter) Active() bool {
	return f.Min != nil || f.Max != nil
}

// String describes the filter for logs and prompts
func (f DepthFilter) String() string {
	switch {
	case f.Min != nil && f.Max != nil:
		return fmt.Sprintf("%.2f <= top_filter <= %.2f", *f.Min, *f.Max)
	case f.Min != nil:
		return fmt.Sprintf("top_filter >= %.2f", *f.Min)
	case f.Max != nil:
		return fmt.Sprintf("top_filter <= %.2f", *f.Max)
	default:
		return "all wells"
	}
}

func (f DepthFilter) clause() (string, []any) {
	switch {
	case f.Min != nil && f.Max != nil:
		return " WHERE top_filter >= ? AND top_filter <= ?", []any{*f.Min, *f.Max}
	case f.Min != nil:
		return " WHERE top_filter >= ?", []any{*f.Min}
	case f.Max != nil:
		return " WHERE top_filter <= ?", []any{*f.Max}
	default:
		return "", nil
	}
}

// DefaultBins is the histogram bin count used when none is given
const DefaultBins = 20

// Bin is one histogram bucket covering [Low, High)
type Bin struct {
	Low   float64
	High  float64
	Count int
}

// BinValues buckets values into equal-width bins spanning their range.
// The last bin includes its upper edge.
func BinValues(values []float64, bins int) []Bin {
	if len(values) == 0 {
		return nil
	}
	if bins < 1 {
		bins = DefaultBins
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []Bin{{Low: lo, High: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Low = lo + float64(i)*width
		out[i].High = lo + float64(i+1)*width
	}
	out[bins-1].High = hi

	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out
}
