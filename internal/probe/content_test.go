package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
	<title>Widgets | Example</title>
	<meta name="description" content="Buy the best widgets online.">
	<link rel="canonical" href="/widgets">
	<meta property="og:title" content="Widgets">
	<script type="application/ld+json">{"@type":"Product"}</script>
</head>
<body>
	<h1>Our Widgets</h1>
	<h2>Featured</h2>
	<h2>Clearance</h2>
	<a href="/about">About</a>
	<a href="https://external.example.com/partner">Partner</a>
	<a href="#top">Top</a>
</body>
</html>`

func TestExecutor_ContentFetch_ExtractsSEOMetadataStatically(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	exec := NewExecutor(Config{Concurrency: 1, DelayMs: 1, TimeoutMs: 2000, RetryAttempts: 1})
	results, content := exec.ContentFetch(context.Background(), []string{srv.URL + "/widgets"}, nil)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	page, ok := content[srv.URL+"/widgets"]
	if !ok {
		t.Fatalf("expected content extracted for %s, have %d entries", srv.URL+"/widgets", len(content))
	}
	if page.Title != "Widgets | Example" {
		t.Fatalf("unexpected title: %q", page.Title)
	}
	if page.Description != "Buy the best widgets online." {
		t.Fatalf("unexpected description: %q", page.Description)
	}
	if page.CanonicalURL != "/widgets" {
		t.Fatalf("unexpected canonical: %q", page.CanonicalURL)
	}
	if page.OGTags["og:title"] != "Widgets" {
		t.Fatalf("unexpected og:title: %q", page.OGTags["og:title"])
	}
	if page.H1Count != 1 || len(page.H1Text) != 1 || page.H1Text[0] != "Our Widgets" {
		t.Fatalf("unexpected H1 extraction: count=%d text=%v", page.H1Count, page.H1Text)
	}
	if page.H2Count != 2 {
		t.Fatalf("expected 2 h2s, got %d", page.H2Count)
	}
	if !page.StructuredData {
		t.Fatalf("expected structured data to be detected")
	}
	if page.InternalLinkCount != 1 {
		t.Fatalf("expected 1 internal link, got %d", page.InternalLinkCount)
	}
	if page.ExternalLinkCount != 1 {
		t.Fatalf("expected 1 external link, got %d", page.ExternalLinkCount)
	}
}

func TestExecutor_ContentFetch_SkipsNonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	exec := NewExecutor(Config{Concurrency: 1, DelayMs: 1, TimeoutMs: 2000, RetryAttempts: 1})
	_, content := exec.ContentFetch(context.Background(), []string{srv.URL}, nil)

	if len(content) != 0 {
		t.Fatalf("expected no content extracted for a JSON response, got %v", content)
	}
}
