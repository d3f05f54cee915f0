package pipeline

import (
	"context"

	"migaudit/internal/model"
	"migaudit/internal/probe"
)

// stageFinalizing is stage 8 (90%): derive broken-link and
// redirect-chain findings from the status checks already gathered in
// stages 5 and 6.
func (c *Controller) stageFinalizing(ctx context.Context, project *model.Project, st *runState) error {
	var broken []model.ProbeResult
	if project.Results.OldStatusChecks != nil {
		broken = append(broken, probe.BrokenLinks(*project.Results.OldStatusChecks)...)
	}
	if project.Results.NewStatusChecks != nil {
		broken = append(broken, probe.BrokenLinks(*project.Results.NewStatusChecks)...)
	}
	project.Results.BrokenLinks = broken

	allResults := make([]model.ProbeResult, 0, len(st.oldResults)+len(st.newResults))
	allResults = append(allResults, st.oldResults...)
	allResults = append(allResults, st.newResults...)
	analysis := probe.AnalyzeRedirects(allResults)
	project.Results.RedirectAnalysis = &analysis
	return nil
}
