// Package model holds the value records shared by every pipeline
// component: Project, the input records C1 produces, and the
// per-stage result shapes C3-C6 emit. These are plain structs — the
// teacher's storage layer (pkg/storage) and service interfaces
// (internal/service) follow the same "data lives in structs, behavior
// lives in packages that operate on them" split, and this repo keeps
// that split rather than growing methods onto the records themselves.
package model

import "time"

// ProjectStatus is the lifecycle state of a migration-audit Project.
type ProjectStatus string

const (
	StatusPending    ProjectStatus = "pending"
	StatusProcessing ProjectStatus = "processing"
	StatusCompleted  ProjectStatus = "completed"
	StatusFailed     ProjectStatus = "failed"
)

// StageTag identifies one step of the pipeline's linear stage graph.
type StageTag string

const (
	StageParsingSitemaps    StageTag = "parsing_sitemaps"
	StageParsingAnalytics   StageTag = "parsing_analytics"
	StageParsingRedirects   StageTag = "parsing_redirects"
	StageComparingURLs      StageTag = "comparing_urls"
	StageCheckingOldURLs    StageTag = "checking_old_urls"
	StageCheckingNewURLs    StageTag = "checking_new_urls"
	StageValidatingSEO      StageTag = "validating_seo"
	StageFinalizing         StageTag = "finalizing"
	StageTestingPerformance StageTag = "testing_performance"
	StageTestingMobile      StageTag = "testing_mobile"
	StageCompleted          StageTag = "completed"
	StageFailed             StageTag = "failed"
)

// stagePercent is the fixed percentage assigned to each stage tag by
// the pipeline controller's stage graph (spec §4.7).
var stagePercent = map[StageTag]int{
	StageParsingSitemaps:    10,
	StageParsingAnalytics:   25,
	StageParsingRedirects:   35,
	StageComparingURLs:      50,
	StageCheckingOldURLs:    60,
	StageCheckingNewURLs:    75,
	StageValidatingSEO:      85,
	StageFinalizing:         90,
	StageTestingPerformance: 92,
	StageTestingMobile:      96,
	StageCompleted:          100,
}

// PercentFor returns the fixed percentage for a stage tag, or -1 if the
// tag is not part of the linear stage graph (e.g. StageFailed, which
// preserves whatever percentage had last been reached).
func PercentFor(tag StageTag) int {
	if p, ok := stagePercent[tag]; ok {
		return p
	}
	return -1
}

// InputFiles names the optional uploaded input handles a Project may
// carry. A zero-value field means that input was not provided.
type InputFiles struct {
	OldSitemap       string
	NewSitemap       string
	AnalyticsExport  string
	RedirectMap      string
}

// Progress is the controller-owned progress record embedded on a
// Project. Invariant: Project.Status == StatusCompleted iff
// Stage == StageCompleted && Percentage == 100.
type Progress struct {
	Stage       StageTag
	Percentage  int
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string
}

// Results is the controller-owned aggregate result record, filled in
// incrementally as stages complete.
type Results struct {
	Correspondence   *CorrespondenceReport
	OldStatusChecks  *ProbeBatchSummary
	NewStatusChecks  *ProbeBatchSummary
	SEOComparisons   []SEOComparison
	BrokenLinks      []ProbeResult
	RedirectAnalysis *RedirectAnalysis
	Performance      *PerformanceBatchSummary
	Mobile           *MobileBatchSummary
}

// Project is the stateful aggregate the pipeline controller owns.
// Identity, OldBaseURL, NewBaseURL and Inputs are fixed at creation;
// only Status, Progress, and Results are mutated, and only by the
// controller between stages (never concurrently — see the
// concurrency model in SPEC_FULL.md §5).
type Project struct {
	ID         string
	OldBaseURL string
	NewBaseURL string
	Inputs     InputFiles

	Status   ProjectStatus
	Progress Progress
	Results  Results
}

// NewProject constructs a Project in its initial pending state.
func NewProject(id, oldBaseURL, newBaseURL string, inputs InputFiles) *Project {
	return &Project{
		ID:         id,
		OldBaseURL: oldBaseURL,
		NewBaseURL: newBaseURL,
		Inputs:     inputs,
		Status:     StatusPending,
		Progress:   Progress{Stage: "", Percentage: 0},
	}
}
