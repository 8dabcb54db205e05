package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/aryankumar/brogw/internal/executor"
)

func TestObserver(t *testing.T) {
	startedBefore := testutil.ToFloat64(JobsStarted)
	successBefore := testutil.ToFloat64(JobsFinished.WithLabelValues("success"))
	failureBefore := testutil.ToFloat64(JobsFinished.WithLabelValues("failure"))
	inFlightBefore := testutil.ToFloat64(JobsInFlight)

	var o Observer
	o.JobStarted("b", executor.Job{Key: "a"})
	o.JobStarted("b", executor.Job{Key: "c"})

	if got := testutil.ToFloat64(JobsInFlight) - inFlightBefore; got != 2 {
		t.Errorf("expected 2 in flight, got %v", got)
	}

	o.JobFinished("b", executor.Outcome{Key: "a", Success: true, Duration: 10 * time.Millisecond})
	o.JobFinished("b", executor.Outcome{Key: "c", Error: "boom", Duration: 5 * time.Millisecond})

	if got := testutil.ToFloat64(JobsStarted) - startedBefore; got != 2 {
		t.Errorf("expected 2 started, got %v", got)
	}
	if got := testutil.ToFloat64(JobsFinished.WithLabelValues("success")) - successBefore; got != 1 {
		t.Errorf("expected 1 success, got %v", got)
	}
	if got := testutil.ToFloat64(JobsFinished.WithLabelValues("failure")) - failureBefore; got != 1 {
		t.Errorf("expected 1 failure, got %v", got)
	}
	if got := testutil.ToFloat64(JobsInFlight) - inFlightBefore; got != 0 {
		t.Errorf("expected in-flight gauge back to baseline, got %v", got)
	}
}

func TestHandler(t *testing.T) {
	BatchesStarted.Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "brogw_batches_started_total") {
		t.Error("expected metrics output to contain brogw_batches_started_total")
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Errorf("unexpected health response %d %q", w.Code, w.Body.String())
	}
}

func TestServe_Disabled(t *testing.T) {
	if err := Serve(context.Background(), "", nil); err != nil {
		t.Errorf("empty address should be a no-op, got %v", err)
	}
}

func TestServe_Shutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- Serve(ctx, "127.0.0.1:0", nil) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("unexpected error on shutdown: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after context cancellation")
	}
}
