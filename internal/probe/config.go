// Package probe implements C4, the bounded-concurrency probe executor:
// HTTP status checks and single-page content fetches with retry,
// progress reporting, and categorization. Concurrency is bounded with
// a weighted semaphore (golang.org/x/sync/semaphore) the way
// theRebelliousNerd-codenerd and jordigilh-kubernaut gate concurrent
// work, rather than the teacher's hand-rolled worker pool — a batch of
// probes is a flat fan-out over a fixed URL list, not a long-lived
// task queue, so semaphore-gated goroutines joined by a sync.WaitGroup
// are the simpler fit while
// keeping the teacher's "bounded fan-out, serialized progress" shape.
package probe

import "time"

// ProgressEvent is delivered to a Config.OnProgress callback exactly
// once per completed URL, in the order completions are serialized by
// the executor (never concurrently).
type ProgressEvent struct {
	Completed  int
	Total      int
	Percentage int
	CurrentURL string
}

// Config tunes a single probe batch.
type Config struct {
	Concurrency     int // default 5
	DelayMs         int // spacing between dispatches, default 100-200
	TimeoutMs       int // default 10000
	FollowRedirects bool
	MaxRedirectHops int // default 10
	RetryAttempts   int // default 3
	OnProgress      func(ProgressEvent)
}

// DefaultConfig returns the spec's documented defaults (§4.4).
func DefaultConfig() Config {
	return Config{
		Concurrency:     5,
		DelayMs:         150,
		TimeoutMs:       10000,
		FollowRedirects: true,
		MaxRedirectHops: 10,
		RetryAttempts:   3,
	}
}

func (c Config) timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (c Config) delay() time.Duration {
	return time.Duration(c.DelayMs) * time.Millisecond
}
