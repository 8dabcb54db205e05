package output

import (
	"encoding/json"
	"io"

	"github.com/aryankumar/brogw/internal/executor"
	"github.com/aryankumar/brogw/internal/registry"
	"github.com/aryankumar/brogw/internal/wellstore"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	options *Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(opts *Options) *JSONFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &JSONFormatter{
		options: opts,
	}
}

// Format outputs a single data item as JSON
func (f *JSONFormatter) Format(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// FormatWells outputs wells as a JSON array
func (f *JSONFormatter) FormatWells(w io.Writer, wells []registry.Well) error {
	return f.Format(w, wellRecords(wells))
}

// FormatHistogram outputs histogram bins as a JSON array
func (f *JSONFormatter) FormatHistogram(w io.Writer, bins []wellstore.Bin) error {
	return f.Format(w, binRecords(bins))
}

// FormatOutcomes outputs download outcomes as a JSON array
func (f *JSONFormatter) FormatOutcomes(w io.Writer, outcomes []executor.Outcome) error {
	return f.Format(w, outcomeRecords(outcomes))
}
