package pipeline

import (
	"net/url"
	"sort"

	"migaudit/internal/model"
)

// urlPair is an old/new URL pair drawn from a correspondence report's
// matched+redirected buckets, the unit the performance/mobile audit
// stages sample from.
type urlPair struct {
	OldURL string
	NewURL string
}

// selectPairs implements the spec's URL-selection heuristic (§4.7):
// root-path pairs first, then analytics-ranked pairs (by
// clicks+impressions descending), then remaining pairs in iteration
// order, truncated to budget. budget <= 0 yields an empty list; a
// budget larger than the available pairs yields all of them (B3).
func selectPairs(report model.CorrespondenceReport, analytics []model.AnalyticsEntry, budget int) []urlPair {
	if budget <= 0 {
		return nil
	}

	all := make([]urlPair, 0, len(report.Matched)+len(report.Redirected))
	for _, m := range report.Matched {
		all = append(all, urlPair{OldURL: m.OldURL, NewURL: m.NewURL})
	}
	for _, m := range report.Redirected {
		all = append(all, urlPair{OldURL: m.OldURL, NewURL: m.NewURL})
	}

	weight := make(map[string]int, len(analytics))
	for _, a := range analytics {
		weight[a.URL] += a.Clicks + a.Impressions
	}

	used := make(map[urlPair]bool, len(all))
	var ordered []urlPair

	for _, p := range all {
		if isRootPath(p.OldURL) || isRootPath(p.NewURL) {
			ordered = append(ordered, p)
			used[p] = true
		}
	}

	var weighted []urlPair
	for _, p := range all {
		if used[p] {
			continue
		}
		if _, ok := weight[p.OldURL]; ok {
			weighted = append(weighted, p)
		}
	}
	sort.SliceStable(weighted, func(i, j int) bool {
		return weight[weighted[i].OldURL] > weight[weighted[j].OldURL]
	})
	for _, p := range weighted {
		ordered = append(ordered, p)
		used[p] = true
	}

	for _, p := range all {
		if !used[p] {
			ordered = append(ordered, p)
			used[p] = true
		}
	}

	if len(ordered) > budget {
		ordered = ordered[:budget]
	}
	return ordered
}

func isRootPath(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Path == "/" || u.Path == ""
}
