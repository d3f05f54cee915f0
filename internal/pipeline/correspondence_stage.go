package pipeline

import (
	"context"

	"migaudit/internal/correspond"
	"migaudit/internal/model"
)

// stageComparingURLs is stage 4 (50%): resolve old-to-new URL
// correspondence, producing matched/redirected/missing/new-only
// buckets plus pattern-rename detections.
func (c *Controller) stageComparingURLs(ctx context.Context, project *model.Project, st *runState) error {
	resolver := correspond.NewResolver(c.resolverCfg)
	report := resolver.Resolve(st.oldURLs, st.newURLs, st.redirectMap)
	st.report = report
	project.Results.Correspondence = &report
	return nil
}
