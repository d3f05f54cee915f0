package compare

import (
	"math"
	"testing"

	"migaudit/internal/model"
)

func TestSEO_S3_TitleChangedRestIdentical(t *testing.T) {
	oldPage := model.PageContent{
		Title:        "About Us",
		Description:  "Learn about our company history.",
		CanonicalURL: "https://new.site/about",
		H1Count:      1,
		H1Text:       []string{"About Us"},
	}
	newPage := model.PageContent{
		Title:        "About Our Company",
		Description:  "Learn about our company history.",
		CanonicalURL: "https://new.site/about",
		H1Count:      1,
		H1Text:       []string{"About Us"},
	}

	cmp := SEO("https://old.site/about", "https://new.site/about", oldPage, newPage)

	if cmp.Title.Match {
		t.Fatalf("expected title match=false")
	}
	if math.Abs(cmp.Title.Similarity-0.47) > 0.05 {
		t.Fatalf("expected title similarity ~0.47, got %v", cmp.Title.Similarity)
	}
	foundIssue := false
	for _, issue := range cmp.Issues {
		if issue == "Title significantly changed" {
			foundIssue = true
		}
	}
	if !foundIssue {
		t.Fatalf("expected 'Title significantly changed' issue, got %v", cmp.Issues)
	}

	if math.Abs(cmp.MatchScore-84) > 2 {
		t.Fatalf("expected score ~84, got %v", cmp.MatchScore)
	}
	if cmp.Severity != model.SeverityMinor {
		t.Fatalf("expected severity minor, got %v", cmp.Severity)
	}
}

func TestSEO_IdenticalPagesScorePerfectMatch(t *testing.T) {
	page := model.PageContent{
		Title:        "Widgets",
		Description:  "Buy widgets",
		CanonicalURL: "https://new.site/widgets",
		H1Count:      1,
		H1Text:       []string{"Widgets"},
	}
	cmp := SEO("https://old.site/widgets", "https://new.site/widgets", page, page)

	if cmp.MatchScore != 100 {
		t.Fatalf("expected score 100 for identical pages, got %v", cmp.MatchScore)
	}
	if cmp.Severity != model.SeverityNone {
		t.Fatalf("expected severity none, got %v", cmp.Severity)
	}
	if !IsPerfectMatch(cmp) {
		t.Fatalf("expected perfect match")
	}
}

func TestSEO_MissingFieldsProduceZeroSimilarityIssues(t *testing.T) {
	oldPage := model.PageContent{}
	newPage := model.PageContent{Title: "New Title", Description: "New desc", CanonicalURL: "https://new.site/x"}

	cmp := SEO("https://old.site/x", "https://new.site/x", oldPage, newPage)

	if cmp.Title.Match || cmp.Title.Similarity != 0 {
		t.Fatalf("expected zero similarity for missing old title, got %+v", cmp.Title)
	}
	hasMissingTitleIssue := false
	for _, issue := range cmp.Issues {
		if issue == "Old page missing title" {
			hasMissingTitleIssue = true
		}
	}
	if !hasMissingTitleIssue {
		t.Fatalf("expected missing-title issue, got %v", cmp.Issues)
	}
}

func TestSEO_CanonicalMatchIgnoresTrailingSlash(t *testing.T) {
	oldPage := model.PageContent{CanonicalURL: "https://new.site/page/"}
	newPage := model.PageContent{CanonicalURL: "https://new.site/page"}

	cmp := SEO("https://old.site/page", "https://new.site/page", oldPage, newPage)
	if !cmp.Canonical.Match {
		t.Fatalf("expected canonical match ignoring trailing slash")
	}
}

func TestSEO_MultipleH1sFlagged(t *testing.T) {
	oldPage := model.PageContent{H1Count: 2, H1Text: []string{"First", "Second"}}
	newPage := model.PageContent{H1Count: 1, H1Text: []string{"First"}}

	cmp := SEO("https://old.site/x", "https://new.site/x", oldPage, newPage)
	found := false
	for _, issue := range cmp.Issues {
		if issue == "Multiple H1 tags found (2)" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected multiple-H1 issue, got %v", cmp.Issues)
	}
}
