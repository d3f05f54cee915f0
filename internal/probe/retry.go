package probe

import (
	"context"
	"time"

	"migaudit/internal/model"
)

// withRetry runs a single URL's probe(s) sequentially, retrying only on
// transport failure (statusCode == 0) or 5xx, never on 4xx. Backoff is
// linear: delayMs * attemptNumber. Exhaustion yields the last observed
// result. Retry attempts for a URL are strictly sequential before any
// result is emitted (spec §5 ordering guarantee (c)).
func withRetry(ctx context.Context, cfg Config, prober *httpProber, targetURL string) model.ProbeResult {
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var result model.ProbeResult
	for attempt := 1; attempt <= attempts; attempt++ {
		result = prober.probeOnce(ctx, targetURL)

		if !isRetryable(result) {
			return result
		}
		if attempt == attempts {
			break
		}

		backoff := cfg.delay() * time.Duration(attempt)
		select {
		case <-ctx.Done():
			return result
		case <-time.After(backoff):
		}
	}
	return result
}

func isRetryable(r model.ProbeResult) bool {
	if r.StatusCode == 0 {
		return true
	}
	return r.StatusCode >= 500
}
