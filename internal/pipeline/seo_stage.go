package pipeline

import (
	"context"

	"migaudit/internal/compare"
	"migaudit/internal/model"
	"migaudit/internal/probe"
)

// stageValidatingSEO is stage 7 (85%): content-fetch up to
// SEOSampleBudget matched/redirected pairs, taken in iteration order
// (matched first, then redirected), and run the weighted-field SEO
// comparison (C6) over each one. Static mode only: ContentFetch is
// called with a nil Renderer, and the controller has no way to supply
// a headless one.
func (c *Controller) stageValidatingSEO(ctx context.Context, project *model.Project, st *runState) error {
	var pairs []urlPair
	for _, m := range st.report.Matched {
		pairs = append(pairs, urlPair{OldURL: m.OldURL, NewURL: m.NewURL})
	}
	for _, m := range st.report.Redirected {
		pairs = append(pairs, urlPair{OldURL: m.OldURL, NewURL: m.NewURL})
	}
	if c.budgets.SEOSampleBudget <= 0 {
		pairs = nil
	} else if len(pairs) > c.budgets.SEOSampleBudget {
		pairs = pairs[:c.budgets.SEOSampleBudget]
	}
	if len(pairs) == 0 {
		project.Results.SEOComparisons = nil
		return nil
	}

	oldURLs := make([]string, len(pairs))
	newURLs := make([]string, len(pairs))
	for i, p := range pairs {
		oldURLs[i] = p.OldURL
		newURLs[i] = p.NewURL
	}

	executor := probe.NewExecutor(c.probeCfg)
	_, oldContent := executor.ContentFetch(ctx, oldURLs, nil)
	_, newContent := executor.ContentFetch(ctx, newURLs, nil)

	comparisons := make([]model.SEOComparison, 0, len(pairs))
	for _, p := range pairs {
		oldPage, oldOK := oldContent[p.OldURL]
		newPage, newOK := newContent[p.NewURL]
		if !oldOK && !newOK {
			continue
		}
		comparisons = append(comparisons, compare.SEO(p.OldURL, p.NewURL, oldPage, newPage))
	}
	project.Results.SEOComparisons = comparisons
	return nil
}
