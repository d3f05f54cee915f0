package pipeline

import (
	"context"
	"fmt"

	"migaudit/internal/ingest"
	"migaudit/internal/model"
)

// stageParsingSitemaps is stage 1 (10%): parse both sitemaps into flat
// URL lists, recursing through sitemap indexes.
func (c *Controller) stageParsingSitemaps(ctx context.Context, project *model.Project, st *runState) error {
	reader := ingest.NewSitemapReader(c.files)

	oldEntries, err := reader.Parse(ctx, project.Inputs.OldSitemap)
	if err != nil {
		return fmt.Errorf("parsing old sitemap: %w", err)
	}
	newEntries, err := reader.Parse(ctx, project.Inputs.NewSitemap)
	if err != nil {
		return fmt.Errorf("parsing new sitemap: %w", err)
	}

	st.oldURLs = make([]string, 0, len(oldEntries))
	for _, e := range oldEntries {
		st.oldURLs = append(st.oldURLs, e.URL)
	}
	st.newURLs = make([]string, 0, len(newEntries))
	for _, e := range newEntries {
		st.newURLs = append(st.newURLs, e.URL)
	}
	return nil
}

// stageParsingAnalytics is stage 2 (25%): parse the search-analytics
// export, used later as the URL-selection weighting for audit
// sampling. Its URLs are unioned into
// oldURLs so pages that only ever showed up in analytics (never in the
// old sitemap) still go through correspondence resolution.
func (c *Controller) stageParsingAnalytics(ctx context.Context, project *model.Project, st *runState) error {
	if project.Inputs.AnalyticsExport == "" {
		return nil
	}

	reader := ingest.NewAnalyticsReader(c.files)
	entries, err := reader.Parse(ctx, project.Inputs.AnalyticsExport)
	if err != nil {
		return fmt.Errorf("parsing analytics export: %w", err)
	}
	st.analytics = entries

	seen := make(map[string]struct{}, len(st.oldURLs))
	for _, u := range st.oldURLs {
		seen[u] = struct{}{}
	}
	for _, e := range entries {
		if _, ok := seen[e.URL]; ok {
			continue
		}
		seen[e.URL] = struct{}{}
		st.oldURLs = append(st.oldURLs, e.URL)
	}
	return nil
}

// stageParsingRedirects is stage 3 (35%): parse the existing redirect
// map so stage 4's correspondence resolution can short-circuit old
// URLs that are already accounted for.
func (c *Controller) stageParsingRedirects(ctx context.Context, project *model.Project, st *runState) error {
	if project.Inputs.RedirectMap == "" {
		st.redirectMap = model.RedirectMap{}
		return nil
	}

	reader := ingest.NewRedirectReader(c.files)
	redirectMap, err := reader.Parse(ctx, project.Inputs.RedirectMap)
	if err != nil {
		return fmt.Errorf("parsing redirect map: %w", err)
	}
	st.redirectMap = redirectMap
	return nil
}
