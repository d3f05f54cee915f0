package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"migaudit/internal/compare"
	"migaudit/internal/headless"
	"migaudit/internal/model"
)

// stageTestingPerformance is stage 9 (92%): run a headless Core Web
// Vitals audit over up to PerfSampleBudget selected pairs and compare
// each pair's metrics (C6).
func (c *Controller) stageTestingPerformance(ctx context.Context, project *model.Project, st *runState) error {
	pairs := selectPairs(st.report, st.analytics, c.budgets.PerfSampleBudget)
	st.perfPairs = pairs
	if len(pairs) == 0 {
		return nil
	}

	browser, err := headless.Launch(ctx)
	if err != nil {
		return fmt.Errorf("launching headless browser: %w", err)
	}
	defer browser.Close()

	auditor := headless.NewPerformanceAuditor(browser, c.perfDelayMs)
	oldURLs, newURLs := splitPairs(pairs)
	oldMetrics := auditor.AuditBatch(ctx, oldURLs)
	newMetrics := auditor.AuditBatch(ctx, newURLs)

	comparisons := make([]model.PerformanceComparison, 0, len(pairs))
	for _, p := range pairs {
		oldM, oldOK := oldMetrics[p.OldURL]
		newM, newOK := newMetrics[p.NewURL]
		if !oldOK || !newOK {
			continue
		}
		comparisons = append(comparisons, compare.Performance(compare.PerfPair{
			OldURL:   p.OldURL,
			NewURL:   p.NewURL,
			OldScore: oldM.PerformanceScore,
			NewScore: newM.PerformanceScore,
			Old:      oldM,
			New:      newM,
		}))
	}
	summary := compare.PerformanceBatch(comparisons)
	project.Results.Performance = &summary
	return nil
}

// stageTestingMobile is stage 10 (96%): run a headless mobile-layout
// audit over up to MobileSampleBudget of the same selected pairs and
// compare issue counts (C6).
func (c *Controller) stageTestingMobile(ctx context.Context, project *model.Project, st *runState) error {
	pairs := st.perfPairs
	if len(pairs) > c.budgets.MobileSampleBudget {
		pairs = pairs[:c.budgets.MobileSampleBudget]
	}
	if len(pairs) == 0 {
		return nil
	}

	browser, err := headless.Launch(ctx)
	if err != nil {
		return fmt.Errorf("launching headless browser: %w", err)
	}
	defer browser.Close()

	screenshotDir := c.screenshotDir
	if screenshotDir != "" {
		screenshotDir = filepath.Join(screenshotDir, project.ID)
	}
	auditor := headless.NewMobileAuditor(browser, c.mobileDelayMs, screenshotDir)
	oldURLs, newURLs := splitPairs(pairs)
	oldResults := auditor.AuditBatch(ctx, oldURLs, "old")
	newResults := auditor.AuditBatch(ctx, newURLs, "new")

	comparisons := make([]model.MobileComparison, 0, len(pairs))
	for i := range pairs {
		if i >= len(oldResults) || i >= len(newResults) {
			break
		}
		comparisons = append(comparisons, compare.Mobile(oldResults[i], newResults[i]))
	}
	summary := compare.MobileBatch(comparisons)
	project.Results.Mobile = &summary
	return nil
}

func splitPairs(pairs []urlPair) (oldURLs, newURLs []string) {
	oldURLs = make([]string, len(pairs))
	newURLs = make([]string, len(pairs))
	for i, p := range pairs {
		oldURLs[i] = p.OldURL
		newURLs[i] = p.NewURL
	}
	return oldURLs, newURLs
}
