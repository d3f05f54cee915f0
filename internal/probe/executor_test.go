package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestExecutor_StatusCheck_ResultCountMatchesInputCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	urls := []string{srv.URL + "/a", srv.URL + "/b", srv.URL + "/c", srv.URL + "/d"}
	cfg := Config{Concurrency: 2, DelayMs: 1, TimeoutMs: 2000, RetryAttempts: 1}
	exec := NewExecutor(cfg)

	results := exec.StatusCheck(context.Background(), urls)
	if len(results) != len(urls) {
		t.Fatalf("expected %d results, got %d", len(urls), len(results))
	}
}

func TestExecutor_StatusCheck_ProgressNeverOverlapsAndIsMonotonic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	urls := []string{srv.URL + "/1", srv.URL + "/2", srv.URL + "/3", srv.URL + "/4", srv.URL + "/5"}

	var inCallback int32
	var lastCompleted int
	cfg := Config{Concurrency: 3, DelayMs: 1, TimeoutMs: 2000, RetryAttempts: 1}
	cfg.OnProgress = func(ev ProgressEvent) {
		if atomic.AddInt32(&inCallback, 1) != 1 {
			t.Fatalf("progress callback invoked concurrently")
		}
		defer atomic.AddInt32(&inCallback, -1)

		if ev.Completed < lastCompleted {
			t.Fatalf("completed went backwards: %d after %d", ev.Completed, lastCompleted)
		}
		lastCompleted = ev.Completed
		if ev.Total != len(urls) {
			t.Fatalf("expected total %d, got %d", len(urls), ev.Total)
		}
	}

	exec := NewExecutor(cfg)
	results := exec.StatusCheck(context.Background(), urls)
	if len(results) != len(urls) {
		t.Fatalf("expected %d results, got %d", len(urls), len(results))
	}
	if lastCompleted != len(urls) {
		t.Fatalf("expected final completed %d, got %d", len(urls), lastCompleted)
	}
}

func TestExecutor_StatusCheck_RespectsDispatchDelay(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	urls := []string{srv.URL + "/a", srv.URL + "/b", srv.URL + "/c"}
	cfg := Config{Concurrency: 10, DelayMs: 50, TimeoutMs: 2000, RetryAttempts: 1}
	exec := NewExecutor(cfg)

	start := time.Now()
	exec.StatusCheck(context.Background(), urls)
	elapsed := time.Since(start)

	// 3 dispatches with 50ms spacing between the 2nd and 3rd (and 1st
	// and 2nd) means at least 100ms elapses before the last dispatch.
	if elapsed < 90*time.Millisecond {
		t.Fatalf("expected dispatch spacing to accumulate at least ~100ms, got %s", elapsed)
	}
}

func TestExecutor_StatusCheck_EmptyInput(t *testing.T) {
	exec := NewExecutor(DefaultConfig())
	results := exec.StatusCheck(context.Background(), nil)
	if len(results) != 0 {
		t.Fatalf("expected no results for empty input, got %d", len(results))
	}
}
