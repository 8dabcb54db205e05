// Package testutil provides a fake registry gateway for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockWell is a well as served by the mock gateway
type MockWell struct {
	BroID        string   `json:"bro_id"`
	Name         string   `json:"name"`
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	GroundLevel  *float64 `json:"ground_level,omitempty"`
	ScreenTop    *float64 `json:"screen_top,omitempty"`
	ScreenBottom *float64 `json:"screen_bottom,omitempty"`
	TubeTop      *float64 `json:"tube_top,omitempty"`
	TubeNr       int      `json:"tube_nr"`
}

// MockResponse is a canned response for one series
type MockResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// MockRegistry is a configurable registry gateway backed by httptest
type MockRegistry struct {
	server *httptest.Server

	mu        sync.Mutex
	wells     []MockWell
	series    map[string]MockResponse
	delay     time.Duration
	requests  int
	inFlight  int
	maxFlight int
	lastQuery string
	paths     []string
}

// NewMockRegistry starts a mock gateway
func NewMockRegistry() *MockRegistry {
	m := &MockRegistry{series: make(map[string]MockResponse)}
	m.server = httptest.NewServer(http.HandlerFunc(m.serve))
	return m
}

// URL returns the base URL of the mock gateway
func (m *MockRegistry) URL() string {
	return m.server.URL
}

// Close shuts the server down
func (m *MockRegistry) Close() {
	m.server.Close()
}

// SetWells sets the wells returned by the listing endpoint
func (m *MockRegistry) SetWells(wells ...MockWell) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wells = wells
}

// SetSeriesDelay delays every series response
func (m *MockRegistry) SetSeriesDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// SetSeries configures the response for one tube
func (m *MockRegistry) SetSeries(gmwID string, tube int, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.series[seriesKey(gmwID, tube)] = resp
}

// SetMeasurements serves a series with one daily measurement per value starting at start
func (m *MockRegistry) SetMeasurements(gmwID string, tube int, start time.Time, values ...float64) {
	m.SetSeries(gmwID, tube, MockResponse{StatusCode: http.StatusOK, Body: SeriesBody(tube, start, values...)})
}

// Requests returns the number of requests served
func (m *MockRegistry) Requests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests
}

// MaxConcurrent returns the highest number of simultaneous series requests seen
func (m *MockRegistry) MaxConcurrent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxFlight
}

// LastQuery returns the raw query of the last listing request
func (m *MockRegistry) LastQuery() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastQuery
}

// Paths returns every requested path in arrival order
func (m *MockRegistry) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}

func (m *MockRegistry) serve(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.requests++
	m.paths = append(m.paths, r.URL.Path)
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if r.URL.Path == "/gmw" {
		m.mu.Lock()
		m.lastQuery = r.URL.RawQuery
		wells := m.wells
		m.mu.Unlock()
		if wells == nil {
			wells = []MockWell{}
		}
		_ = json.NewEncoder(w).Encode(wells)
		return
	}

	// /gmw/{id}/tubes/{tube}/series
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 5 || parts[0] != "gmw" || parts[2] != "tubes" || parts[4] != "series" {
		http.Error(w, `{"error":"unknown endpoint"}`, http.StatusNotFound)
		return
	}
	tube, err := strconv.Atoi(parts[3])
	if err != nil {
		http.Error(w, `{"error":"invalid tube"}`, http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.inFlight++
	if m.inFlight > m.maxFlight {
		m.maxFlight = m.inFlight
	}
	resp, ok := m.series[seriesKey(parts[1], tube)]
	delay := m.delay
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if delay+resp.Delay > 0 {
		select {
		case <-time.After(delay + resp.Delay):
		case <-r.Context().Done():
			return
		}
	}

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"well not found"}`))
		return
	}

	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write([]byte(resp.Body))
}

func seriesKey(gmwID string, tube int) string {
	return fmt.Sprintf("%s/%d", gmwID, tube)
}

// SeriesBody renders a series response with daily measurements
func SeriesBody(tube int, start time.Time, values ...float64) string {
	type measurement struct {
		Time  string  `json:"time"`
		Value float64 `json:"value"`
	}
	ms := make([]measurement, len(values))
	for i, v := range values {
		ms[i] = measurement{Time: start.AddDate(0, 0, i).UTC().Format(time.RFC3339), Value: v}
	}

	body, _ := json.Marshal(map[string]any{
		"metadata": map[string]any{
			"tube_nr": tube,
			"source":  "BRO",
			"unit":    "m NAP",
		},
		"measurements": ms,
	})
	return string(body)
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}
