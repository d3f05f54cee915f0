package correspond

import (
	"net/url"
	"strings"

	"migaudit/internal/model"
	"migaudit/internal/stringsim"
)

// patternSimilarityThreshold is the minimum similarity a candidate new
// pattern must clear to be reported as a rename of an old pattern.
const patternSimilarityThreshold = 0.6

// pathPattern takes the first non-empty path segment, prefixed with
// "/.../" the way spec §4.3 describes, as a URL's pattern.
func pathPattern(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for _, seg := range segments {
		if seg != "" {
			return "/" + seg + "/"
		}
	}
	return ""
}

func patternFrequencies(urls []string) map[string]int {
	freq := make(map[string]int)
	for _, u := range urls {
		p := pathPattern(u)
		if p == "" {
			continue
		}
		freq[p]++
	}
	return freq
}

// detectPatternRenames compares pattern frequencies across the old and
// new URL sets and, for each old pattern, finds the most similar
// distinct new pattern above patternSimilarityThreshold (spec §4.3).
// The result is stored on the CorrespondenceReport for the external
// report layer; the pipeline controller does not consume it.
func detectPatternRenames(oldURLs, newURLs []string) []model.PatternRename {
	oldFreq := patternFrequencies(oldURLs)
	newFreq := patternFrequencies(newURLs)

	var renames []model.PatternRename
	for oldPattern, oldCount := range oldFreq {
		bestPattern := ""
		bestSim := 0.0
		for newPattern := range newFreq {
			if newPattern == oldPattern {
				continue
			}
			sim := stringsim.Ratio(oldPattern, newPattern)
			if sim > bestSim {
				bestSim = sim
				bestPattern = newPattern
			}
		}
		if bestPattern != "" && bestSim > patternSimilarityThreshold {
			renames = append(renames, model.PatternRename{
				OldPattern: oldPattern,
				NewPattern: bestPattern,
				OldCount:   oldCount,
				NewCount:   newFreq[bestPattern],
				Confidence: bestSim,
			})
		}
	}
	return renames
}
