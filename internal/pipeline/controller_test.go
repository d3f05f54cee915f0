package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"migaudit/internal/correspond"
	"migaudit/internal/model"
	"migaudit/internal/notify"
	"migaudit/internal/probe"
	"migaudit/internal/store"
)

// fakeFileReader serves handles from an in-memory map, so tests never
// touch the local filesystem.
type fakeFileReader struct {
	content map[string]string
}

func (f *fakeFileReader) Open(ctx context.Context, handle string) (io.ReadCloser, error) {
	c, ok := f.content[handle]
	if !ok {
		return nil, fmt.Errorf("no such handle: %s", handle)
	}
	return io.NopCloser(strings.NewReader(c)), nil
}

// trackingStore wraps MemoryStore and records every Percentage seen at
// a Save call, so tests can assert progress is monotonically
// non-decreasing (P5).
type trackingStore struct {
	*store.MemoryStore
	mu          sync.Mutex
	percentages []int
}

func newTrackingStore() *trackingStore {
	return &trackingStore{MemoryStore: store.NewMemoryStore()}
}

func (s *trackingStore) Save(ctx context.Context, project *model.Project) error {
	s.mu.Lock()
	s.percentages = append(s.percentages, project.Progress.Percentage)
	s.mu.Unlock()
	return s.MemoryStore.Save(ctx, project)
}

func sitemapXML(urls ...string) string {
	var b strings.Builder
	b.WriteString("<urlset>")
	for _, u := range urls {
		b.WriteString("<url><loc>" + u + "</loc></url>")
	}
	b.WriteString("</urlset>")
	return b.String()
}

func TestControllerRunCompletesSuccessfully(t *testing.T) {
	oldSite := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
	}))
	defer oldSite.Close()
	newSite := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
	}))
	defer newSite.Close()

	files := &fakeFileReader{content: map[string]string{
		"old_sitemap": sitemapXML(oldSite.URL+"/a", oldSite.URL+"/b"),
		"new_sitemap": sitemapXML(newSite.URL+"/a", newSite.URL+"/b"),
	}}

	st := newTrackingStore()
	controller := NewController(
		files,
		st,
		notify.NoopNotifier{},
		probe.Config{Concurrency: 2, DelayMs: 0, TimeoutMs: 5000, RetryAttempts: 1, MaxRedirectHops: 5},
		2000, 2000,
		t.TempDir(),
		Budgets{StatusCheckBudget: 10, SEOSampleBudget: 0, PerfSampleBudget: 0, MobileSampleBudget: 0},
		correspond.Config{},
	)

	project := model.NewProject("proj-1", oldSite.URL, newSite.URL, model.InputFiles{
		OldSitemap: "old_sitemap",
		NewSitemap: "new_sitemap",
	})

	if err := controller.Run(context.Background(), project); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if project.Status != model.StatusCompleted {
		t.Errorf("expected StatusCompleted, got %s", project.Status)
	}
	if project.Progress.Stage != model.StageCompleted {
		t.Errorf("expected StageCompleted, got %s", project.Progress.Stage)
	}
	if project.Progress.Percentage != 100 {
		t.Errorf("expected final percentage 100, got %d", project.Progress.Percentage)
	}
	if project.Progress.CompletedAt == nil {
		t.Error("expected CompletedAt to be stamped")
	}
	if project.Results.Correspondence == nil {
		t.Error("expected a correspondence report")
	}
	if project.Results.OldStatusChecks == nil || project.Results.NewStatusChecks == nil {
		t.Error("expected old and new status check summaries")
	}
	if project.Results.RedirectAnalysis == nil {
		t.Error("expected a redirect analysis")
	}
	if project.Results.SEOComparisons != nil {
		t.Errorf("expected no SEO comparisons with a zero sample budget, got %v", project.Results.SEOComparisons)
	}
	if project.Results.Performance != nil {
		t.Error("expected no performance summary with a zero sample budget")
	}
	if project.Results.Mobile != nil {
		t.Error("expected no mobile summary with a zero sample budget")
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	for i := 1; i < len(st.percentages); i++ {
		if st.percentages[i] < st.percentages[i-1] {
			t.Fatalf("percentage regressed across checkpoints: %v", st.percentages)
		}
	}
	if st.percentages[len(st.percentages)-1] != 100 {
		t.Errorf("expected last checkpoint at 100%%, got %d", st.percentages[len(st.percentages)-1])
	}
}

func TestControllerRunUnionsAnalyticsURLsIntoOldURLs(t *testing.T) {
	oldSite := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
	}))
	defer oldSite.Close()
	newSite := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
	}))
	defer newSite.Close()

	analyticsOnlyURL := oldSite.URL + "/analytics-only"
	analyticsCSV := "url,clicks,impressions,ctr,position\n" +
		analyticsOnlyURL + ",10,100,0.1,3\n"

	files := &fakeFileReader{content: map[string]string{
		"old_sitemap": sitemapXML(oldSite.URL + "/a"),
		"new_sitemap": sitemapXML(newSite.URL + "/a"),
		"analytics":   analyticsCSV,
	}}

	st := newTrackingStore()
	controller := NewController(
		files,
		st,
		notify.NoopNotifier{},
		probe.Config{Concurrency: 2, DelayMs: 0, TimeoutMs: 5000, RetryAttempts: 1, MaxRedirectHops: 5},
		2000, 2000,
		t.TempDir(),
		Budgets{StatusCheckBudget: 10},
		correspond.Config{},
	)

	project := model.NewProject("proj-analytics", oldSite.URL, newSite.URL, model.InputFiles{
		OldSitemap:      "old_sitemap",
		NewSitemap:      "new_sitemap",
		AnalyticsExport: "analytics",
	})

	if err := controller.Run(context.Background(), project); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if project.Results.Correspondence == nil {
		t.Fatal("expected a correspondence report")
	}

	found := false
	for _, m := range project.Results.Correspondence.Missing {
		if m.OldURL == analyticsOnlyURL {
			found = true
		}
	}
	for _, m := range project.Results.Correspondence.Matched {
		if m.OldURL == analyticsOnlyURL {
			found = true
		}
	}
	for _, m := range project.Results.Correspondence.Redirected {
		if m.OldURL == analyticsOnlyURL {
			found = true
		}
	}
	if !found {
		t.Errorf("expected analytics-only URL %q to appear in correspondence resolution, it was dropped", analyticsOnlyURL)
	}
}

func TestControllerRunFailsOnBadSitemapHandle(t *testing.T) {
	files := &fakeFileReader{content: map[string]string{}}

	st := newTrackingStore()
	controller := NewController(
		files,
		st,
		notify.NoopNotifier{},
		probe.Config{Concurrency: 2},
		2000, 2000,
		t.TempDir(),
		Budgets{StatusCheckBudget: 10},
		correspond.Config{},
	)

	project := model.NewProject("proj-2", "https://old.example.com", "https://new.example.com", model.InputFiles{
		OldSitemap: "missing_handle",
		NewSitemap: "also_missing",
	})

	err := controller.Run(context.Background(), project)
	if err == nil {
		t.Fatal("expected Run to return an error for an unreadable sitemap handle")
	}
	if project.Status != model.StatusFailed {
		t.Errorf("expected StatusFailed, got %s", project.Status)
	}
	if project.Progress.Stage != model.StageFailed {
		t.Errorf("expected StageFailed, got %s", project.Progress.Stage)
	}
	if project.Progress.Error == "" {
		t.Error("expected a non-empty error message recorded on the project")
	}
}
