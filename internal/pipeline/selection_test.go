package pipeline

import (
	"testing"

	"migaudit/internal/model"
)

func matchedReport(pairs ...[2]string) model.CorrespondenceReport {
	var report model.CorrespondenceReport
	for _, p := range pairs {
		report.Matched = append(report.Matched, model.MatchedPair{OldURL: p[0], NewURL: p[1]})
	}
	return report
}

func TestSelectPairsBudgetZeroYieldsEmpty(t *testing.T) {
	report := matchedReport([2]string{"https://old.example.com/a", "https://new.example.com/a"})
	pairs := selectPairs(report, nil, 0)
	if len(pairs) != 0 {
		t.Fatalf("expected empty selection for budget 0, got %d", len(pairs))
	}
}

func TestSelectPairsBudgetExceedsAvailableYieldsAll(t *testing.T) {
	report := matchedReport(
		[2]string{"https://old.example.com/a", "https://new.example.com/a"},
		[2]string{"https://old.example.com/b", "https://new.example.com/b"},
	)
	pairs := selectPairs(report, nil, 10)
	if len(pairs) != 2 {
		t.Fatalf("expected all 2 pairs, got %d", len(pairs))
	}
}

func TestSelectPairsPrioritizesRootPath(t *testing.T) {
	report := matchedReport(
		[2]string{"https://old.example.com/deep/page", "https://new.example.com/deep/page"},
		[2]string{"https://old.example.com/", "https://new.example.com/"},
	)
	pairs := selectPairs(report, nil, 1)
	if len(pairs) != 1 || pairs[0].OldURL != "https://old.example.com/" {
		t.Fatalf("expected root-path pair selected first, got %+v", pairs)
	}
}

func TestSelectPairsRanksByAnalyticsWeight(t *testing.T) {
	report := matchedReport(
		[2]string{"https://old.example.com/low", "https://new.example.com/low"},
		[2]string{"https://old.example.com/high", "https://new.example.com/high"},
	)
	analytics := []model.AnalyticsEntry{
		{URL: "https://old.example.com/low", Clicks: 1, Impressions: 1},
		{URL: "https://old.example.com/high", Clicks: 500, Impressions: 500},
	}
	pairs := selectPairs(report, analytics, 1)
	if len(pairs) != 1 || pairs[0].OldURL != "https://old.example.com/high" {
		t.Fatalf("expected the higher-weighted pair first, got %+v", pairs)
	}
}

func TestSelectPairsFallsBackToIterationOrder(t *testing.T) {
	report := matchedReport(
		[2]string{"https://old.example.com/x", "https://new.example.com/x"},
		[2]string{"https://old.example.com/y", "https://new.example.com/y"},
	)
	pairs := selectPairs(report, nil, 2)
	if len(pairs) != 2 || pairs[0].OldURL != "https://old.example.com/x" || pairs[1].OldURL != "https://old.example.com/y" {
		t.Fatalf("expected original iteration order when no weighting applies, got %+v", pairs)
	}
}

func TestIsRootPath(t *testing.T) {
	cases := map[string]bool{
		"https://example.com/":     true,
		"https://example.com":      true,
		"https://example.com/a":    false,
		"://not a url":             false,
	}
	for u, want := range cases {
		if got := isRootPath(u); got != want {
			t.Errorf("isRootPath(%q) = %v, want %v", u, got, want)
		}
	}
}
