// Package compare implements C6, the comparison engine: SEO metadata
// diffing, performance regression/improvement classification, and
// mobile-issue comparison between old and new page audits.
package compare

import (
	"fmt"
	"strings"

	"migaudit/internal/model"
	"migaudit/internal/stringsim"
)

const (
	titleWeight       = 30.0
	descriptionWeight = 25.0
	h1Weight          = 25.0
	canonicalWeight   = 20.0

	matchThreshold              = 0.8
	significantlyChangedBelow   = 0.5
	titleLengthDeltaThreshold   = 20
	descLengthDeltaThreshold    = 30
	perfectMatchScore           = 95.0
)

// SEO compares an old and new page's metadata per spec §4.6.
func SEO(oldURL, newURL string, oldPage, newPage model.PageContent) model.SEOComparison {
	cmp := model.SEOComparison{OldURL: oldURL, NewURL: newURL}

	var issues []string

	cmp.Title, issues = compareTextField("Title", oldPage.Title, newPage.Title, titleLengthDeltaThreshold, issues)
	cmp.Description, issues = compareTextField("Description", oldPage.Description, newPage.Description, descLengthDeltaThreshold, issues)
	cmp.H1, issues = compareH1(oldPage, newPage, issues)
	cmp.Canonical, issues = compareCanonical(oldPage.CanonicalURL, newPage.CanonicalURL, newURL, issues)

	score := titleWeight*cmp.Title.Similarity + descriptionWeight*cmp.Description.Similarity + h1Score(oldPage, newPage, cmp.H1)
	if cmp.Canonical.Match {
		score += canonicalWeight
	}

	cmp.MatchScore = score
	cmp.Severity = severityFor(score)
	cmp.Issues = issues
	return cmp
}

func compareTextField(label, oldVal, newVal string, lengthDeltaThreshold int, issues []string) (model.FieldComparison, []string) {
	fc := model.FieldComparison{OldValue: oldVal, NewValue: newVal}

	if oldVal == "" || newVal == "" {
		issues = append(issues, fmt.Sprintf("%s page missing %s", sideFor(oldVal, newVal, label), strings.ToLower(label)))
		return fc, issues
	}

	fc.Similarity = stringsim.RatioFold(oldVal, newVal)
	fc.Match = fc.Similarity >= matchThreshold

	if abs(len(oldVal)-len(newVal)) > lengthDeltaThreshold {
		issues = append(issues, fmt.Sprintf("%s length differs significantly", label))
	}

	switch {
	case fc.Similarity < significantlyChangedBelow:
		issues = append(issues, fmt.Sprintf("%s significantly changed", label))
	case fc.Similarity < matchThreshold:
		issues = append(issues, fmt.Sprintf("%s partially changed", label))
	}

	return fc, issues
}

func sideFor(oldVal, newVal, label string) string {
	if oldVal == "" {
		return "Old"
	}
	return "New"
}

func compareH1(oldPage, newPage model.PageContent, issues []string) (model.FieldComparison, []string) {
	fc := model.FieldComparison{}

	if oldPage.H1Count == 0 {
		issues = append(issues, "Old page missing H1 tag")
	} else if oldPage.H1Count > 1 {
		issues = append(issues, fmt.Sprintf("Multiple H1 tags found (%d)", oldPage.H1Count))
	}
	if newPage.H1Count == 0 {
		issues = append(issues, "New page missing H1 tag")
	} else if newPage.H1Count > 1 {
		issues = append(issues, fmt.Sprintf("Multiple H1 tags found (%d)", newPage.H1Count))
	}

	oldH1 := firstOrEmpty(oldPage.H1Text)
	newH1 := firstOrEmpty(newPage.H1Text)
	fc.OldValue = oldH1
	fc.NewValue = newH1

	if oldH1 == "" || newH1 == "" {
		return fc, issues
	}

	fc.Similarity = stringsim.RatioFold(oldH1, newH1)
	fc.Match = fc.Similarity >= matchThreshold

	switch {
	case fc.Similarity < significantlyChangedBelow:
		issues = append(issues, "H1 significantly changed")
	case fc.Similarity < matchThreshold:
		issues = append(issues, "H1 partially changed")
	}

	return fc, issues
}

// h1Score implements the H1 partial-credit rule: similarity*weight if
// both sides have a valid H1, half credit if only one side does, none
// otherwise.
func h1Score(oldPage, newPage model.PageContent, fc model.FieldComparison) float64 {
	oldValid := oldPage.H1Count > 0
	newValid := newPage.H1Count > 0

	switch {
	case oldValid && newValid:
		return fc.Similarity * h1Weight
	case oldValid || newValid:
		return h1Weight / 2
	default:
		return 0
	}
}

func compareCanonical(oldCanonical, newCanonical, newURL string, issues []string) (model.FieldComparison, []string) {
	fc := model.FieldComparison{OldValue: oldCanonical, NewValue: newCanonical}

	if oldCanonical == "" {
		issues = append(issues, "Old page missing canonical")
	}
	if newCanonical == "" {
		issues = append(issues, "New page missing canonical")
	}
	if oldCanonical == "" || newCanonical == "" {
		return fc, issues
	}

	fc.Match = strings.TrimSuffix(newCanonical, "/") == strings.TrimSuffix(newURL, "/")
	return fc, issues
}

func severityFor(score float64) model.SEOSeverity {
	switch {
	case score >= 90:
		return model.SeverityNone
	case score >= 75:
		return model.SeverityMinor
	case score >= 50:
		return model.SeverityModerate
	default:
		return model.SeverityMajor
	}
}

// IsPerfectMatch reports whether an SEO comparison's score clears the
// perfect-match threshold for batch summaries.
func IsPerfectMatch(cmp model.SEOComparison) bool {
	return cmp.MatchScore >= perfectMatchScore
}

func firstOrEmpty(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
