package model

import "time"

// RedirectHop is one entry in a ProbeResult's redirect chain, recorded
// in the order the hops were followed.
type RedirectHop struct {
	URL        string
	StatusCode int
	Index      int
}

// ProbeResult is the outcome of a single outbound HTTP probe. A
// StatusCode of 0 signals a transport-level failure rather than any
// HTTP response; Error is populated in that case.
type ProbeResult struct {
	URL            string
	StatusCode     int
	StatusText     string
	ResponseTimeMs int64
	FinalURL       string
	IsRedirect     bool
	RedirectChain  []RedirectHop
	ContentType    string
	ContentLength  int64
	Server         string
	Timestamp      time.Time
	Error          string
}

// ProbeBatchSummary is the categorization C4 computes over a batch of
// ProbeResults: partitions by status class plus aggregate timing.
type ProbeBatchSummary struct {
	Total              int
	OK                 []ProbeResult // 200
	Redirects          []ProbeResult // 300-399
	ClientErrors       []ProbeResult // 400-499 (== broken links)
	ServerErrors       []ProbeResult // 500+
	NetworkErrors      []ProbeResult // 0
	AverageResponseMs  float64
}

// RedirectAnalysis summarizes the redirect population of a probe batch:
// counts by status code and the subset of chains considered "long".
type RedirectAnalysis struct {
	ByStatusCode map[int]int
	ChainLengths []int
	LongChains   []ProbeResult // chainLength > 2
}

// PageContent is what the probe executor's content-fetch mode extracts
// from a rendered (or statically parsed) HTML document.
type PageContent struct {
	Title             string
	Description       string
	CanonicalURL      string
	OGTags            map[string]string
	H1Count           int
	H2Count           int
	H3Count           int
	H1Text            []string
	StructuredData    bool
	InternalLinkCount int
	ExternalLinkCount int
}
