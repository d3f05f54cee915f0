package probe

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"migaudit/internal/model"
	"migaudit/pkg/logger"
)

// Executor runs bounded-concurrency probe batches against a list of
// URLs, dispatching at most Config.Concurrency in flight at once and
// invoking Config.OnProgress exactly once per completed URL, serialized
// so no two callbacks overlap (spec §4.4, §5).
type Executor struct {
	cfg Config
	log *logger.Logger
}

func NewExecutor(cfg Config) *Executor {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	return &Executor{
		cfg: cfg,
		log: logger.GetLogger().WithField("component", "probe_executor"),
	}
}

// StatusCheck runs a status-check batch: one GET per URL with retry,
// no content parsing. The order of results is completion order, not
// input order (spec §5); callers pair results by URL. |results| always
// equals |urls| (P4).
func (e *Executor) StatusCheck(ctx context.Context, urls []string) []model.ProbeResult {
	prober := newHTTPProber(e.cfg)
	return e.run(ctx, urls, func(ctx context.Context, u string) model.ProbeResult {
		return withRetry(ctx, e.cfg, prober, u)
	})
}

func (e *Executor) run(ctx context.Context, urls []string, probeFn func(context.Context, string) model.ProbeResult) []model.ProbeResult {
	total := len(urls)
	results := make([]model.ProbeResult, 0, total)

	if total == 0 {
		return results
	}

	sem := semaphore.NewWeighted(int64(e.cfg.Concurrency))
	resultsCh := make(chan model.ProbeResult, total)

	var wg sync.WaitGroup
	for i, u := range urls {
		if i > 0 {
			time.Sleep(e.cfg.delay())
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			// context cancelled; stop dispatching further probes.
			break
		}
		wg.Add(1)
		go func(targetURL string) {
			defer wg.Done()
			defer sem.Release(1)

			resultsCh <- probeFn(ctx, targetURL)
		}(u)
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	completed := 0
	for r := range resultsCh {
		results = append(results, r)
		completed++
		if e.cfg.OnProgress != nil {
			e.cfg.OnProgress(ProgressEvent{
				Completed:  completed,
				Total:      total,
				Percentage: completed * 100 / total,
				CurrentURL: r.URL,
			})
		}
	}

	e.log.WithFields(map[string]interface{}{"total": total, "completed": completed}).Info("Probe batch complete")
	return results
}
