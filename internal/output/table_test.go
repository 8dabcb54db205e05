package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/aryankumar/brogw/internal/executor"
	"github.com/aryankumar/brogw/internal/registry"
)

func TestNewTableFormatter(t *testing.T) {
	tests := []struct {
		name string
		opts *Options
	}{
		{
			name: "nil options",
			opts: nil,
		},
		{
			name: "with options",
			opts: &Options{NoColor: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := NewTableFormatter(tt.opts)
			if formatter == nil {
				t.Fatal("NewTableFormatter returned nil")
			}
			if formatter.options == nil {
				t.Error("formatter.options is nil")
			}
		})
	}
}

func TestTableFormatter_Format(t *testing.T) {
	tests := []struct {
		name     string
		data     interface{}
		contains []string
	}{
		{
			name:     "map data",
			data:     map[string]interface{}{"version": "1.0.0", "commit": "abc"},
			contains: []string{"version", "1.0.0", "commit", "abc"},
		},
		{
			name:     "string data",
			data:     "simple string",
			contains: []string{"simple string"},
		},
		{
			name:     "nil data",
			data:     nil,
			contains: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := NewTableFormatter(&Options{NoColor: true})
			var buf bytes.Buffer

			if err := formatter.Format(&buf, tt.data); err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			output := buf.String()
			for _, substr := range tt.contains {
				if !strings.Contains(output, substr) {
					t.Errorf("Format() output missing %q\nGot: %s", substr, output)
				}
			}
		})
	}
}

func TestTableFormatter_FormatMapSorted(t *testing.T) {
	formatter := NewTableFormatter(&Options{NoColor: true, NoHeaders: true})
	var buf bytes.Buffer

	if err := formatter.Format(&buf, map[string]interface{}{"b": 2, "a": 1, "c": 3}); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !(strings.Index(out, "a") < strings.Index(out, "b") && strings.Index(out, "b") < strings.Index(out, "c")) {
		t.Errorf("keys should be sorted\nGot: %s", out)
	}
}

func TestTableFormatter_FormatWells(t *testing.T) {
	tests := []struct {
		name        string
		wells       []registry.Well
		opts        *Options
		contains    []string
		notContains []string
	}{
		{
			name:     "empty",
			wells:    nil,
			opts:     &Options{NoColor: true},
			contains: []string{"No wells"},
		},
		{
			name:        "default columns",
			wells:       sampleWells(),
			opts:        &Options{NoColor: true},
			contains:    []string{"KEY", "TOP FILTER", "GMW000000041262_2_B31H0542", "-2.50", "122000.25", "2 wells"},
			notContains: []string{"BOTTOM FILTER", "-3.50"},
		},
		{
			name:     "wide",
			wells:    sampleWells(),
			opts:     &Options{NoColor: true, Wide: true},
			contains: []string{"BOTTOM FILTER", "SURFACE", "-3.50"},
		},
		{
			name:        "no headers",
			wells:       sampleWells(),
			opts:        &Options{NoColor: true, NoHeaders: true},
			contains:    []string{"GMW000000041261_1_B31H0541"},
			notContains: []string{"KEY"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := NewTableFormatter(tt.opts)
			var buf bytes.Buffer

			if err := formatter.FormatWells(&buf, tt.wells); err != nil {
				t.Fatalf("FormatWells() error = %v", err)
			}

			output := buf.String()
			for _, substr := range tt.contains {
				if !strings.Contains(output, substr) {
					t.Errorf("output missing %q\nGot: %s", substr, output)
				}
			}
			for _, substr := range tt.notContains {
				if strings.Contains(output, substr) {
					t.Errorf("output should not contain %q\nGot: %s", substr, output)
				}
			}
		})
	}
}

func TestTableFormatter_FormatOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []executor.Outcome
		opts     *Options
		contains []string
	}{
		{
			name:     "empty",
			outcomes: nil,
			opts:     &Options{NoColor: true},
			contains: []string{"No results"},
		},
		{
			name:     "mixed",
			outcomes: sampleOutcomes(),
			opts:     &Options{NoColor: true},
			contains: []string{"WELL", "STATUS", "Success", "Failed", "Summary: 1 succeeded, 1 failed, avg=100ms"},
		},
		{
			name:     "wide shows errors",
			outcomes: sampleOutcomes(),
			opts:     &Options{NoColor: true, Wide: true},
			contains: []string{"ERROR", "registry server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := NewTableFormatter(tt.opts)
			var buf bytes.Buffer

			if err := formatter.FormatOutcomes(&buf, tt.outcomes); err != nil {
				t.Fatalf("FormatOutcomes() error = %v", err)
			}

			output := buf.String()
			for _, substr := range tt.contains {
				if !strings.Contains(output, substr) {
					t.Errorf("output missing %q\nGot: %s", substr, output)
				}
			}
		})
	}
}

func TestTableFormatter_FormatOutcomesSortedByKey(t *testing.T) {
	formatter := NewTableFormatter(&Options{NoColor: true})
	var buf bytes.Buffer

	if err := formatter.FormatOutcomes(&buf, sampleOutcomes()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Index(out, "a_1_one") > strings.Index(out, "b_1_two") {
		t.Errorf("rows should be sorted by key\nGot: %s", out)
	}
}

func TestTableFormatter_FormatHistogram(t *testing.T) {
	formatter := NewTableFormatter(&Options{NoColor: true})
	var buf bytes.Buffer

	if err := formatter.FormatHistogram(&buf, sampleBins()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "-10.00") || !strings.Contains(out, strings.Repeat("#", maxBarWidth)) {
		t.Errorf("peak bin should get a full bar\nGot: %s", out)
	}
	if !strings.Contains(out, strings.Repeat("#", maxBarWidth/4)) {
		t.Errorf("smaller bin should get a proportional bar\nGot: %s", out)
	}

	buf.Reset()
	_ = formatter.FormatHistogram(&buf, nil)
	if !strings.Contains(buf.String(), "No filter depths") {
		t.Errorf("unexpected empty output %q", buf.String())
	}
}

func TestTableFormatter_FormatOutcomeRow(t *testing.T) {
	formatter := NewTableFormatter(&Options{NoColor: true, Wide: true})
	colors := NewColorScheme(&bytes.Buffer{}, true)

	row := formatter.formatOutcomeRow(executor.Outcome{
		Key:      "k",
		Error:    strings.Repeat("x", 80),
		Duration: 1500 * time.Microsecond,
	}, colors)

	if len(row) != 4 {
		t.Fatalf("expected 4 columns, got %d", len(row))
	}
	if row[1] != "Failed" {
		t.Errorf("status = %q", row[1])
	}
	if row[2] != "1.5ms" {
		t.Errorf("duration = %q", row[2])
	}
	if len(row[3]) != 50 || !strings.HasSuffix(row[3], "...") {
		t.Errorf("error should be truncated to 50 characters, got %q", row[3])
	}
}
