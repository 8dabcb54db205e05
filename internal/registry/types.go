package registry

import (
	"time"

	"github.com/aryankumar/brogw/internal/util"
)

// Well is one monitoring tube of a groundwater monitoring well as listed by the registry
type Well struct {
	BroID        string   `json:"bro_id" yaml:"broId"`
	Name         string   `json:"name" yaml:"name"`
	X            float64  `json:"x" yaml:"x"`
	Y            float64  `json:"y" yaml:"y"`
	GroundLevel  *float64 `json:"ground_level,omitempty" yaml:"groundLevel,omitempty"`
	ScreenTop    *float64 `json:"screen_top,omitempty" yaml:"screenTop,omitempty"`
	ScreenBottom *float64 `json:"screen_bottom,omitempty" yaml:"screenBottom,omitempty"`
	TubeTop      *float64 `json:"tube_top,omitempty" yaml:"tubeTop,omitempty"`
	TubeNr       int      `json:"tube_nr" yaml:"tubeNr"`
}

// Key identifies the well tube across the workspace, the cache and download batches
func (w Well) Key() string {
	return util.WellKey(w.BroID, w.TubeNr, w.Name)
}

// Metadata describes the tube a series was measured in
type Metadata struct {
	TubeNr       int      `json:"tube_nr"`
	X            *float64 `json:"x,omitempty"`
	Y            *float64 `json:"y,omitempty"`
	GroundLevel  *float64 `json:"ground_level,omitempty"`
	ScreenTop    *float64 `json:"screen_top,omitempty"`
	ScreenBottom *float64 `json:"screen_bottom,omitempty"`
	TubeTop      *float64 `json:"tube_top,omitempty"`
	Source       string   `json:"source,omitempty"`
	Unit         string   `json:"unit,omitempty"`
}

// Measurement is one groundwater head reading
type Measurement struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Series is the measurement history of one well tube
type Series struct {
	GMWID        string        `json:"gmw_id"`
	BroID        string        `json:"bro_id"`
	Name         string        `json:"name"`
	TubeNr       int           `json:"tube_nr"`
	Metadata     Metadata      `json:"metadata"`
	Measurements []Measurement `json:"measurements"`
}

// Len returns the number of measurements
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Measurements)
}

// Span returns the first and last measurement times
func (s *Series) Span() (first, last time.Time) {
	for i, m := range s.Measurements {
		if i == 0 || m.Time.Before(first) {
			first = m.Time
		}
		if i == 0 || m.Time.After(last) {
			last = m.Time
		}
	}
	return first, last
}

// Label returns the name used for the series in plots and spreadsheets
func (s *Series) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.GMWID
}
