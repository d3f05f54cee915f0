package model

// MatchType identifies how an old URL's correspondence to the new site
// was established.
type MatchType string

const (
	MatchDirect MatchType = "direct"
	MatchMapped MatchType = "mapped"
)

// NewOnlyType tags a new-site URL with no old-site counterpart.
const NewOnlyTypeNewContent = "new_content"

// MatchedPair is an old URL classified as matched (direct normalization
// equality) or redirected (found via the supplied redirect map).
type MatchedPair struct {
	OldURL    string
	NewURL    string
	MatchType MatchType
}

// MissingEntry is an old URL with no correspondence on the new site.
// Suggestion is the best-guess replacement on the new site, or empty if
// no candidate cleared the similarity threshold.
type MissingEntry struct {
	OldURL     string
	Suggestion string
}

// NewOnlyEntry is a new-site URL with no old-site counterpart.
type NewOnlyEntry struct {
	NewURL string
	Type   string
}

// CorrespondenceSummary holds the bucket counts and match rate for a
// CorrespondenceReport.
type CorrespondenceSummary struct {
	MatchedCount    int
	RedirectedCount int
	MissingCount    int
	NewOnlyCount    int
	MatchRate       float64 // rounded to 2 decimals, e.g. 66.67
}

// PatternRename is a candidate path-prefix rename inferred by comparing
// pattern frequencies across the old and new URL sets.
type PatternRename struct {
	OldPattern string
	NewPattern string
	OldCount   int
	NewCount   int
	Confidence float64
}

// CorrespondenceReport is C3's output: the classification of every old
// URL into matched/redirected/missing, every new URL with no old-side
// counterpart into newOnly, plus summary counts and inferred pattern
// renames. Invariant (P1): len(Matched)+len(Redirected)+len(Missing)
// == len(old URLs supplied to the resolver).
type CorrespondenceReport struct {
	Matched    []MatchedPair
	Redirected []MatchedPair
	Missing    []MissingEntry
	NewOnly    []NewOnlyEntry
	Summary    CorrespondenceSummary
	Patterns   []PatternRename
}
