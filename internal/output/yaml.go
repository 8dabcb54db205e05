package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aryankumar/brogw/internal/executor"
	"github.com/aryankumar/brogw/internal/registry"
	"github.com/aryankumar/brogw/internal/wellstore"
)

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	options *Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(opts *Options) *YAMLFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &YAMLFormatter{
		options: opts,
	}
}

// Format outputs a single data item as YAML
func (f *YAMLFormatter) Format(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(data)
}

// FormatWells outputs wells as a YAML sequence
func (f *YAMLFormatter) FormatWells(w io.Writer, wells []registry.Well) error {
	return f.Format(w, wellRecords(wells))
}

// FormatHistogram outputs histogram bins as a YAML sequence
func (f *YAMLFormatter) FormatHistogram(w io.Writer, bins []wellstore.Bin) error {
	return f.Format(w, binRecords(bins))
}

// FormatOutcomes outputs download outcomes as a YAML sequence
func (f *YAMLFormatter) FormatOutcomes(w io.Writer, outcomes []executor.Outcome) error {
	return f.Format(w, outcomeRecords(outcomes))
}
