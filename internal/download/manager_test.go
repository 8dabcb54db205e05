package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aryankumar/brogw/internal/cache"
	"github.com/aryankumar/brogw/internal/registry"
	"github.com/aryankumar/brogw/internal/testutil"
)

var day0 = time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newClient(t *testing.T, mock *testutil.MockRegistry) *registry.Client {
	t.Helper()
	c, err := registry.NewClient(mock.URL(), registry.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func makeWells(n int) []registry.Well {
	wells := make([]registry.Well, n)
	for i := range wells {
		wells[i] = registry.Well{
			BroID:  fmt.Sprintf("GMW%012d", i+1),
			Name:   fmt.Sprintf("W%02d", i+1),
			X:      120000 + float64(i),
			Y:      480000,
			TubeNr: 1,
		}
	}
	return wells
}

func TestManager_Plan(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	wells := makeWells(3)
	_ = store.Put(ctx, wells[1].Key(), &registry.Series{GMWID: "x"})

	m := NewManager(nil, store, WithLogger(quietLogger()))
	plan, err := m.Plan(ctx, append(wells, wells[0]))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if len(plan.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(plan.Jobs))
	}
	if plan.Jobs[0].Key != wells[0].Key() || plan.Jobs[1].Key != wells[2].Key() {
		t.Errorf("unexpected job order %v", plan.Jobs)
	}
	if len(plan.Skipped) != 1 || plan.Skipped[0] != wells[1].Key() {
		t.Errorf("unexpected skipped %v", plan.Skipped)
	}
	if plan.NeedsConfirmation() {
		t.Error("2 jobs should not need confirmation")
	}

	big, _ := m.Plan(ctx, makeWells(LargeDownloadThreshold+1))
	if !big.NeedsConfirmation() {
		t.Errorf("%d jobs should need confirmation", len(big.Jobs))
	}
	exact, _ := m.Plan(ctx, makeWells(LargeDownloadThreshold))
	if exact.NeedsConfirmation() {
		t.Errorf("%d jobs should not need confirmation", len(exact.Jobs))
	}
}

func TestManager_Run(t *testing.T) {
	mock := testutil.NewMockRegistry()
	defer mock.Close()

	wells := makeWells(10)
	for _, w := range wells {
		mock.SetMeasurements(w.BroID, 1, day0, 1.0, 1.1, 1.2)
	}
	mock.SetSeriesDelay(20 * time.Millisecond)

	ctx := context.Background()
	store := cache.NewMemoryStore()
	m := NewManager(newClient(t, mock), store,
		WithParallel(3),
		WithPollInterval(10*time.Millisecond),
		WithLogger(quietLogger()))

	plan, err := m.Plan(ctx, wells)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	var (
		mu       sync.Mutex
		progress []int
	)
	report, err := m.Run(ctx, plan, func(completed, total int) {
		mu.Lock()
		defer mu.Unlock()
		if total != 10 {
			t.Errorf("expected total 10, got %d", total)
		}
		progress = append(progress, completed)
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Succeeded != 10 || report.Failed != 0 || report.Cancelled {
		t.Errorf("unexpected report %+v", report)
	}
	if len(report.Outcomes) != 10 {
		t.Errorf("expected 10 outcomes, got %d", len(report.Outcomes))
	}
	if got := mock.MaxConcurrent(); got > 3 {
		t.Errorf("concurrency cap exceeded: %d", got)
	}
	if len(progress) == 0 || progress[len(progress)-1] != 10 {
		t.Errorf("progress should end at 10, got %v", progress)
	}
	if report.String() != "Downloaded 10 wells" {
		t.Errorf("unexpected summary %q", report.String())
	}

	series, err := store.Get(ctx, wells[4].Key())
	if err != nil {
		t.Fatalf("series not cached: %v", err)
	}
	if series.Name != "W05" || series.BroID != wells[4].BroID || series.Len() != 3 {
		t.Errorf("unexpected cached series %+v", series)
	}
	if series.Metadata.X == nil || *series.Metadata.X != wells[4].X {
		t.Errorf("well coordinates should be copied into metadata")
	}

	// a second run finds everything cached
	plan, _ = m.Plan(ctx, wells)
	report, err = m.Run(ctx, plan, nil)
	if !errors.Is(err, ErrNothingToDownload) {
		t.Errorf("expected ErrNothingToDownload, got %v", err)
	}
	if report.String() != "All 10 wells already downloaded" {
		t.Errorf("unexpected summary %q", report.String())
	}
}

func TestManager_RunFailures(t *testing.T) {
	mock := testutil.NewMockRegistry()
	defer mock.Close()

	wells := []registry.Well{
		{BroID: "GMW000000000001", Name: "ok", TubeNr: 1},
		{BroID: "DINO-123", Name: "no id", TubeNr: 1},
		{BroID: "GMW000000000003", Name: "broken", TubeNr: 1},
		{BroID: "GMW000000000004", Name: "empty", TubeNr: 1},
		{BroID: "unknown", Name: "GMW000000000005", TubeNr: 0},
	}
	mock.SetMeasurements("GMW000000000001", 1, day0, 2.0)
	mock.SetSeries("GMW000000000003", 1, testutil.MockResponse{StatusCode: http.StatusInternalServerError, Body: `{"error":"boom"}`})
	mock.SetSeries("GMW000000000004", 1, testutil.MockResponse{StatusCode: http.StatusOK, Body: `{"metadata":{},"measurements":[]}`})
	mock.SetMeasurements("GMW000000000005", 1, day0, 3.0)

	ctx := context.Background()
	store := cache.NewMemoryStore()
	m := NewManager(newClient(t, mock), store, WithPollInterval(5*time.Millisecond), WithLogger(quietLogger()))

	plan, _ := m.Plan(ctx, wells)
	report, err := m.Run(ctx, plan, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Succeeded != 2 || report.Failed != 3 {
		t.Fatalf("expected 2 succeeded and 3 failed, got %+v", report)
	}
	if report.String() != "Downloaded 2 wells (3 failed)" {
		t.Errorf("unexpected summary %q", report.String())
	}

	errs := map[string]string{}
	for _, o := range report.FailedOutcomes() {
		errs[o.Key] = o.Error
	}
	if !strings.Contains(errs[wells[1].Key()], "no GMW ID found") {
		t.Errorf("unexpected error for well without id: %q", errs[wells[1].Key()])
	}
	if !strings.Contains(errs[wells[2].Key()], "boom") {
		t.Errorf("unexpected error for server failure: %q", errs[wells[2].Key()])
	}
	if !strings.Contains(errs[wells[3].Key()], "no data returned") {
		t.Errorf("unexpected error for empty series: %q", errs[wells[3].Key()])
	}

	if ok, _ := store.Has(ctx, wells[4].Key()); !ok {
		t.Error("GMW id from the name with default tube should have been downloaded")
	}
	if ok, _ := store.Has(ctx, wells[2].Key()); ok {
		t.Error("failed downloads must not be cached")
	}
}

func TestManager_RunCancelled(t *testing.T) {
	mock := testutil.NewMockRegistry()
	defer mock.Close()

	wells := makeWells(6)
	for _, w := range wells {
		mock.SetMeasurements(w.BroID, 1, day0, 1.0)
	}
	mock.SetSeriesDelay(300 * time.Millisecond)

	store := cache.NewMemoryStore()
	m := NewManager(newClient(t, mock), store,
		WithParallel(2),
		WithPollInterval(10*time.Millisecond),
		WithLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	plan, _ := m.Plan(ctx, wells)

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	report, err := m.Run(ctx, plan, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !report.Cancelled {
		t.Fatal("expected cancelled report")
	}
	if got := report.Succeeded + report.Failed; got != 2 {
		t.Errorf("only the 2 in-flight jobs should report, got %d", got)
	}
	if report.NotStarted != 4 {
		t.Errorf("expected 4 jobs not started, got %d", report.NotStarted)
	}
	if !strings.Contains(report.String(), "cancelled with 4 not started") {
		t.Errorf("unexpected summary %q", report.String())
	}
}

type fakeFetcher struct {
	series *registry.Series
	err    error
}

func (f fakeFetcher) FetchSeries(context.Context, string, int) (*registry.Series, error) {
	return f.series, f.err
}

type failingStore struct {
	*cache.MemoryStore
}

func (failingStore) Put(context.Context, string, *registry.Series) error {
	return errors.New("disk full")
}

func TestManager_RunStoreFailure(t *testing.T) {
	fetcher := fakeFetcher{series: &registry.Series{Measurements: []registry.Measurement{{Time: day0, Value: 1}}}}
	m := NewManager(fetcher, failingStore{cache.NewMemoryStore()}, WithPollInterval(5*time.Millisecond), WithLogger(quietLogger()))

	ctx := context.Background()
	plan, _ := m.Plan(ctx, makeWells(1))
	report, err := m.Run(ctx, plan, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Failed != 1 || !strings.Contains(report.Outcomes[0].Error, "disk full") {
		t.Errorf("cache failure should fail the outcome: %+v", report.Outcomes)
	}
}
