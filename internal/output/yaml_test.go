package output

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestNewYAMLFormatter(t *testing.T) {
	formatter := NewYAMLFormatter(nil)
	if formatter == nil {
		t.Fatal("NewYAMLFormatter returned nil")
	}
	if formatter.options == nil {
		t.Error("formatter.options is nil")
	}
}

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := NewYAMLFormatter(nil).Format(&buf, map[string]interface{}{"version": "1.0.0"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "version: 1.0.0" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestYAMLFormatter_FormatWells(t *testing.T) {
	var buf bytes.Buffer
	if err := NewYAMLFormatter(nil).FormatWells(&buf, sampleWells()); err != nil {
		t.Fatalf("FormatWells() error = %v", err)
	}

	var got []map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, buf.String())
	}
	if len(got) != 2 || got[1]["tubeNr"] != 2 {
		t.Errorf("unexpected wells %v", got)
	}
	if !strings.Contains(buf.String(), "topFilter: -2.5") {
		t.Errorf("expected camelCase keys\nGot: %s", buf.String())
	}
}

func TestYAMLFormatter_FormatOutcomes(t *testing.T) {
	var buf bytes.Buffer
	if err := NewYAMLFormatter(nil).FormatOutcomes(&buf, sampleOutcomes()); err != nil {
		t.Fatalf("FormatOutcomes() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"key: b_1_two", "status: success", "status: failed", "duration: 50ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\nGot: %s", want, out)
		}
	}
}

func TestYAMLFormatter_CompareWithJSON(t *testing.T) {
	var jsonBuf, yamlBuf bytes.Buffer
	if err := NewJSONFormatter(nil).FormatHistogram(&jsonBuf, sampleBins()); err != nil {
		t.Fatal(err)
	}
	if err := NewYAMLFormatter(nil).FormatHistogram(&yamlBuf, sampleBins()); err != nil {
		t.Fatal(err)
	}

	// YAML is a superset of JSON, so both decode to the same structure
	var fromJSON, fromYAML []map[string]interface{}
	if err := yaml.Unmarshal(jsonBuf.Bytes(), &fromJSON); err != nil {
		t.Fatal(err)
	}
	if err := yaml.Unmarshal(yamlBuf.Bytes(), &fromYAML); err != nil {
		t.Fatal(err)
	}
	if len(fromJSON) != len(fromYAML) || fromJSON[0]["count"] != fromYAML[0]["count"] {
		t.Errorf("json %v and yaml %v differ", fromJSON, fromYAML)
	}
}
