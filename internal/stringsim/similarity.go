// Package stringsim provides the normalized string-similarity measure
// used throughout the correspondence resolver (C3) and comparison
// engine (C6): a Levenshtein edit distance scaled into a 0-1 ratio.
package stringsim

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Ratio computes sim(a,b) = (|longer| - edit(longer,shorter)) / |longer|,
// per the spec's similarity function. Two empty strings are a perfect
// match (1.0); an empty string against a non-empty one is governed by
// the same formula (edit distance equals the longer string's length,
// giving 0).
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}

	longer, shorter := a, b
	if len([]rune(shorter)) > len([]rune(longer)) {
		longer, shorter = shorter, longer
	}

	longerLen := len([]rune(longer))
	if longerLen == 0 {
		return 1.0
	}

	dist := levenshtein.ComputeDistance(longer, shorter)
	return float64(longerLen-dist) / float64(longerLen)
}

// RatioFold is Ratio computed case-insensitively, used for SEO field
// comparisons (title/description) where case differences should not
// count as a change.
func RatioFold(a, b string) float64 {
	return Ratio(strings.ToLower(a), strings.ToLower(b))
}
