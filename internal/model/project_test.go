package model

import "testing"

func TestPercentForKnownStages(t *testing.T) {
	cases := map[StageTag]int{
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
	for tag, want := range cases {
		if got := PercentFor(tag); got != want {
			t.Errorf("PercentFor(%s) = %d, want %d", tag, got, want)
		}
	}
}

func TestPercentForFailedStageIsUndefined(t *testing.T) {
	if got := PercentFor(StageFailed); got != -1 {
		t.Errorf("PercentFor(StageFailed) = %d, want -1", got)
	}
}

func TestNewProjectStartsPending(t *testing.T) {
	p := NewProject("proj-1", "https://old.example.com", "https://new.example.com", InputFiles{})
	if p.Status != StatusPending {
		t.Errorf("NewProject status = %v, want %v", p.Status, StatusPending)
	}
	if p.Progress.Percentage != 0 {
		t.Errorf("NewProject progress.percentage = %d, want 0", p.Progress.Percentage)
	}
}
