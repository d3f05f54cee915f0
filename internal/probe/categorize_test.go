package probe

import (
	"testing"

	"migaudit/internal/model"
)

func TestCategorize_PartitionsByStatusClass(t *testing.T) {
	results := []model.ProbeResult{
		{URL: "a", StatusCode: 200, ResponseTimeMs: 100},
		{URL: "b", StatusCode: 301, ResponseTimeMs: 50},
		{URL: "c", StatusCode: 404, ResponseTimeMs: 30},
		{URL: "d", StatusCode: 500, ResponseTimeMs: 20},
		{URL: "e", StatusCode: 0, ResponseTimeMs: 0},
	}

	summary := Categorize(results)

	if summary.Total != 5 {
		t.Fatalf("expected total 5, got %d", summary.Total)
	}
	if len(summary.OK) != 1 || summary.OK[0].URL != "a" {
		t.Fatalf("expected OK=[a], got %+v", summary.OK)
	}
	if len(summary.Redirects) != 1 || summary.Redirects[0].URL != "b" {
		t.Fatalf("expected Redirects=[b], got %+v", summary.Redirects)
	}
	if len(summary.ClientErrors) != 1 || summary.ClientErrors[0].URL != "c" {
		t.Fatalf("expected ClientErrors=[c], got %+v", summary.ClientErrors)
	}
	if len(summary.ServerErrors) != 1 || summary.ServerErrors[0].URL != "d" {
		t.Fatalf("expected ServerErrors=[d], got %+v", summary.ServerErrors)
	}
	if len(summary.NetworkErrors) != 1 || summary.NetworkErrors[0].URL != "e" {
		t.Fatalf("expected NetworkErrors=[e], got %+v", summary.NetworkErrors)
	}

	wantAvg := float64(100+50+30+20+0) / 5
	if summary.AverageResponseMs != wantAvg {
		t.Fatalf("expected average %v, got %v", wantAvg, summary.AverageResponseMs)
	}
}

func TestCategorize_EmptyBatch(t *testing.T) {
	summary := Categorize(nil)
	if summary.Total != 0 || summary.AverageResponseMs != 0 {
		t.Fatalf("expected zero-value summary for empty batch, got %+v", summary)
	}
}

func TestBrokenLinks_IsClientErrorPartition(t *testing.T) {
	summary := Categorize([]model.ProbeResult{
		{URL: "a", StatusCode: 404},
		{URL: "b", StatusCode: 410},
		{URL: "c", StatusCode: 200},
	})
	broken := BrokenLinks(summary)
	if len(broken) != 2 {
		t.Fatalf("expected 2 broken links, got %d", len(broken))
	}
}

func TestAnalyzeRedirects_CountsAndLongChains(t *testing.T) {
	results := []model.ProbeResult{
		{URL: "a", StatusCode: 301, RedirectChain: []model.RedirectHop{{Index: 0}}},
		{URL: "b", StatusCode: 302, RedirectChain: []model.RedirectHop{{Index: 0}, {Index: 1}, {Index: 2}}},
		{URL: "c", StatusCode: 200},
	}

	analysis := AnalyzeRedirects(results)

	if analysis.ByStatusCode[301] != 1 || analysis.ByStatusCode[302] != 1 {
		t.Fatalf("unexpected status code counts: %+v", analysis.ByStatusCode)
	}
	if len(analysis.ChainLengths) != 2 {
		t.Fatalf("expected 2 chain lengths recorded, got %d", len(analysis.ChainLengths))
	}
	if len(analysis.LongChains) != 1 || analysis.LongChains[0].URL != "b" {
		t.Fatalf("expected b to be flagged as a long chain, got %+v", analysis.LongChains)
	}
}
