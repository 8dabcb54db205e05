package output

import (
	"io"

	"github.com/aryankumar/brogw/internal/executor"
	"github.com/aryankumar/brogw/internal/registry"
	"github.com/aryankumar/brogw/internal/wellstore"
)

// Format represents the output format type
type Format string

const (
	// FormatTable outputs data in a table format
	FormatTable Format = "table"
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name, defaulting to table when empty
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case "", FormatTable:
		return FormatTable, true
	case FormatJSON, FormatYAML:
		return Format(s), true
	default:
		return "", false
	}
}

// Formatter defines the interface for output formatting
type Formatter interface {
	// Format outputs a single data item to the writer
	Format(w io.Writer, data interface{}) error

	// FormatWells outputs workspace wells
	FormatWells(w io.Writer, wells []registry.Well) error

	// FormatHistogram outputs filter-top histogram bins
	FormatHistogram(w io.Writer, bins []wellstore.Bin) error

	// FormatOutcomes outputs the outcomes of a download batch
	FormatOutcomes(w io.Writer, outcomes []executor.Outcome) error
}

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for formatters
type Options struct {
	// NoColor disables color output
	NoColor bool

	// NoHeaders disables table headers
	NoHeaders bool

	// Wide enables wide output with additional columns
	Wide bool
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithNoHeaders disables table headers
func WithNoHeaders(noHeaders bool) Option {
	return func(o *Options) {
		o.NoHeaders = noHeaders
	}
}

// WithWide enables wide output
func WithWide(wide bool) Option {
	return func(o *Options) {
		o.Wide = wide
	}
}

// NewFormatter creates a new formatter based on the specified format
func NewFormatter(format Format, opts ...Option) Formatter {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(options)
	}
}

// wellRecord is the structured representation of a well for json and yaml
type wellRecord struct {
	Key          string   `json:"key" yaml:"key"`
	BroID        string   `json:"bro_id" yaml:"broId"`
	Name         string   `json:"name" yaml:"name"`
	TubeNr       int      `json:"tube_nr" yaml:"tubeNr"`
	X            float64  `json:"x" yaml:"x"`
	Y            float64  `json:"y" yaml:"y"`
	GroundLevel  *float64 `json:"ground_level,omitempty" yaml:"groundLevel,omitempty"`
	TopFilter    *float64 `json:"top_filter,omitempty" yaml:"topFilter,omitempty"`
	BottomFilter *float64 `json:"bottom_filter,omitempty" yaml:"bottomFilter,omitempty"`
	TubeTop      *float64 `json:"tube_top,omitempty" yaml:"tubeTop,omitempty"`
}

func wellRecords(wells []registry.Well) []wellRecord {
	out := make([]wellRecord, len(wells))
	for i, w := range wells {
		out[i] = wellRecord{
			Key:          w.Key(),
			BroID:        w.BroID,
			Name:         w.Name,
			TubeNr:       w.TubeNr,
			X:            w.X,
			Y:            w.Y,
			GroundLevel:  w.GroundLevel,
			TopFilter:    w.ScreenTop,
			BottomFilter: w.ScreenBottom,
			TubeTop:      w.TubeTop,
		}
	}
	return out
}

// outcomeRecord is the structured representation of an outcome for json and yaml
type outcomeRecord struct {
	Key      string `json:"key" yaml:"key"`
	Status   string `json:"status" yaml:"status"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
	Duration string `json:"duration" yaml:"duration"`
}

func outcomeRecords(outcomes []executor.Outcome) []outcomeRecord {
	out := make([]outcomeRecord, len(outcomes))
	for i, o := range outcomes {
		status := "success"
		if !o.Success {
			status = "failed"
		}
		out[i] = outcomeRecord{Key: o.Key, Status: status, Error: o.Error, Duration: o.Duration.String()}
	}
	return out
}

type binRecord struct {
	Low   float64 `json:"low" yaml:"low"`
	High  float64 `json:"high" yaml:"high"`
	Count int     `json:"count" yaml:"count"`
}

func binRecords(bins []wellstore.Bin) []binRecord {
	out := make([]binRecord, len(bins))
	for i, b := range bins {
		out[i] = binRecord{Low: b.Low, High: b.High, Count: b.Count}
	}
	return out
}
