// Package correspond implements C3, the correspondence resolver:
// classification of old URLs into matched/redirected/missing, new URLs
// with no old-side counterpart into newOnly, and inference of
// path-prefix pattern renames.
package correspond

import (
	"math"
	"net/url"

	"migaudit/internal/model"
	"migaudit/internal/stringsim"
	"migaudit/internal/urlnorm"
	"migaudit/pkg/logger"
)

// suggestionThreshold is the minimum path similarity a new URL must
// clear to be offered as a "did you mean" suggestion for a missing old
// URL (spec §4.3).
const suggestionThreshold = 0.5

// Config tunes resolver behavior for the Open Questions the spec leaves
// unresolved (see SPEC_FULL.md §9).
type Config struct {
	// FullURLSuggestions switches missing-URL suggestion similarity from
	// path-only (the spec's default, consistent with its normalization
	// rationale) to full-URL strings, for strict parity with the source
	// system if ever required. Defaults to false.
	FullURLSuggestions bool
}

// Resolver runs C3 over an old/new URL set plus an optional redirect map.
type Resolver struct {
	cfg Config
	log *logger.Logger
}

func NewResolver(cfg Config) *Resolver {
	return &Resolver{
		cfg: cfg,
		log: logger.GetLogger().WithField("component", "correspondence_resolver"),
	}
}

// Resolve classifies oldURLs against newURLs and redirectMap per spec
// §4.3. redirectMap may be nil.
func (r *Resolver) Resolve(oldURLs, newURLs []string, redirectMap model.RedirectMap) model.CorrespondenceReport {
	newNormSet := make(map[string]string, len(newURLs))
	for _, u := range newURLs {
		if _, exists := newNormSet[urlnorm.Normalize(u)]; !exists {
			newNormSet[urlnorm.Normalize(u)] = u
		}
	}

	oldNormMap := make(map[string]string, len(oldURLs))
	for _, u := range oldURLs {
		oldNormMap[urlnorm.Normalize(u)] = u
	}

	// redirectTargetNorms collects the normalization of every redirect
	// target, used below to decide whether a new-site URL is "newOnly".
	redirectTargetNorms := make(map[string]bool, len(redirectMap))
	for _, target := range redirectMap {
		redirectTargetNorms[urlnorm.Normalize(target)] = true
	}

	report := model.CorrespondenceReport{}

	for _, oldURL := range oldURLs {
		n := urlnorm.Normalize(oldURL)

		if matchedNewURL, ok := newNormSet[n]; ok {
			report.Matched = append(report.Matched, model.MatchedPair{
				OldURL:    oldURL,
				NewURL:    matchedNewURL,
				MatchType: model.MatchDirect,
			})
			continue
		}

		if redirectMap != nil {
			if target, ok := redirectMap[oldURL]; ok {
				if _, ok := newNormSet[urlnorm.Normalize(target)]; ok {
					report.Redirected = append(report.Redirected, model.MatchedPair{
						OldURL:    oldURL,
						NewURL:    target,
						MatchType: model.MatchMapped,
					})
					continue
				}
			}
		}

		suggestion := r.suggest(oldURL, newURLs)
		report.Missing = append(report.Missing, model.MissingEntry{
			OldURL:     oldURL,
			Suggestion: suggestion,
		})
	}

	for _, newURL := range newURLs {
		m := urlnorm.Normalize(newURL)
		if oldNormMap[m] != "" {
			continue
		}
		if redirectTargetNorms[m] {
			continue
		}
		report.NewOnly = append(report.NewOnly, model.NewOnlyEntry{
			NewURL: newURL,
			Type:   model.NewOnlyTypeNewContent,
		})
	}

	report.Summary = summarize(len(oldURLs), len(report.Matched), len(report.Redirected), len(report.Missing), len(report.NewOnly))
	report.Patterns = detectPatternRenames(oldURLs, newURLs)

	r.log.WithFields(map[string]interface{}{
		"matched":    len(report.Matched),
		"redirected": len(report.Redirected),
		"missing":    len(report.Missing),
		"new_only":   len(report.NewOnly),
	}).Info("Correspondence resolved")

	return report
}

// suggest finds the new URL whose path (or full URL, per cfg) is most
// similar to oldURL's path, returning "" if nothing clears the
// threshold.
func (r *Resolver) suggest(oldURL string, newURLs []string) string {
	oldKey := comparisonKey(oldURL, r.cfg.FullURLSuggestions)

	best := ""
	bestSim := 0.0
	for _, candidate := range newURLs {
		candKey := comparisonKey(candidate, r.cfg.FullURLSuggestions)
		sim := stringsim.Ratio(oldKey, candKey)
		if sim > bestSim {
			bestSim = sim
			best = candidate
		}
	}
	if bestSim > suggestionThreshold {
		return best
	}
	return ""
}

func comparisonKey(rawURL string, fullURL bool) string {
	if fullURL {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}

func summarize(oldCount, matched, redirected, missing, newOnly int) model.CorrespondenceSummary {
	var rate float64
	if oldCount > 0 {
		rate = math.Round(float64(matched+redirected)/float64(oldCount)*10000) / 100
	}
	return model.CorrespondenceSummary{
		MatchedCount:    matched,
		RedirectedCount: redirected,
		MissingCount:    missing,
		NewOnlyCount:    newOnly,
		MatchRate:       rate,
	}
}
