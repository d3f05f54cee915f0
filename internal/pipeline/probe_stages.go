package pipeline

import (
	"context"

	"migaudit/internal/model"
	"migaudit/internal/probe"
)

// stageCheckingOldURLs is stage 5 (60%): status-check the first
// StatusCheckBudget old URLs, in iteration order.
func (c *Controller) stageCheckingOldURLs(ctx context.Context, project *model.Project, st *runState) error {
	sample := sampleURLs(st.oldURLs, c.budgets.StatusCheckBudget)
	results := probe.NewExecutor(c.probeCfg).StatusCheck(ctx, sample)
	st.oldResults = results

	summary := probe.Categorize(results)
	project.Results.OldStatusChecks = &summary
	return nil
}

// stageCheckingNewURLs is stage 6 (75%): status-check up to
// StatusCheckBudget new URLs.
func (c *Controller) stageCheckingNewURLs(ctx context.Context, project *model.Project, st *runState) error {
	sample := sampleURLs(st.newURLs, c.budgets.StatusCheckBudget)
	results := probe.NewExecutor(c.probeCfg).StatusCheck(ctx, sample)
	st.newResults = results

	summary := probe.Categorize(results)
	project.Results.NewStatusChecks = &summary
	return nil
}

// sampleURLs truncates urls to at most budget entries, preserving
// iteration order. A non-positive budget yields an empty sample.
func sampleURLs(urls []string, budget int) []string {
	if budget <= 0 {
		return nil
	}
	if len(urls) <= budget {
		return urls
	}
	return urls[:budget]
}
