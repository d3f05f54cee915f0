package ingest

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

// memFileReader serves fixed content for tests without touching disk or
// network, mirroring the teacher's in-memory storage test doubles.
type memFileReader struct {
	content map[string]string
}

func (m *memFileReader) Open(ctx context.Context, handle string) (io.ReadCloser, error) {
	c, ok := m.content[handle]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(strings.NewReader(c)), nil
}

func TestSitemapReader_URLSet(t *testing.T) {
	xml := `<?xml version="1.0"?>
<urlset>
  <url><loc>https://example.com/a</loc><lastmod>2024-01-01</lastmod></url>
  <url><loc>https://example.com/b</loc></url>
  <url><loc>https://example.com/a</loc></url>
</urlset>`
	reader := NewSitemapReader(&memFileReader{content: map[string]string{"sitemap.xml": xml}})
	entries, err := reader.Parse(context.Background(), "sitemap.xml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 deduped entries, got %d", len(entries))
	}
}

func TestSitemapReader_IndexRecursion(t *testing.T) {
	index := `<?xml version="1.0"?>
<sitemapindex>
  <sitemap><loc>child1.xml</loc></sitemap>
  <sitemap><loc>child2.xml</loc></sitemap>
</sitemapindex>`
	child1 := `<urlset><url><loc>https://example.com/1</loc></url></urlset>`
	child2 := `<urlset><url><loc>https://example.com/2</loc></url></urlset>`

	reader := NewSitemapReader(&memFileReader{content: map[string]string{
		"index.xml":  index,
		"child1.xml": child1,
		"child2.xml": child2,
	}})
	entries, err := reader.Parse(context.Background(), "index.xml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries from recursed index, got %d", len(entries))
	}
}

func TestSitemapReader_SelfReferencingIndexDoesNotHang(t *testing.T) {
	index := `<?xml version="1.0"?>
<sitemapindex>
  <sitemap><loc>index.xml</loc></sitemap>
</sitemapindex>`
	reader := NewSitemapReader(&memFileReader{content: map[string]string{"index.xml": index}})

	done := make(chan struct{})
	go func() {
		_, _ = reader.Parse(context.Background(), "index.xml")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Parse did not terminate on self-referencing sitemap index")
	}
}

func TestSitemapReader_InvalidRootSurfaces(t *testing.T) {
	reader := NewSitemapReader(&memFileReader{content: map[string]string{"bad.xml": "<notasitemap/>"}})
	_, err := reader.Parse(context.Background(), "bad.xml")
	if err == nil {
		t.Fatal("expected error for unrecognized root element")
	}
}

func TestAnalyticsReader_ColumnTolerance(t *testing.T) {
	csv := "Page,Clicks,Impressions,CTR,Avg. Position\n" +
		"https://example.com/a,10,100,10%,3.5\n" +
		"https://example.com/a,99,99,99%,9.9\n" + // duplicate: first wins
		"https://example.com/b,,,, \n"
	reader := NewAnalyticsReader(&memFileReader{content: map[string]string{"a.csv": csv}})
	entries, err := reader.Parse(context.Background(), "a.csv")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries (dedup by URL), got %d", len(entries))
	}
	if entries[0].Clicks != 10 {
		t.Errorf("expected first occurrence to win, got clicks=%d", entries[0].Clicks)
	}
	if entries[1].Clicks != 0 {
		t.Errorf("expected missing numeric field to default to 0, got %d", entries[1].Clicks)
	}
}

func TestRedirectReader_ColumnVariantsAndLastWriteWins(t *testing.T) {
	csv := "old_url,new_url\n" +
		"https://old.site/a, https://new.site/a \n" +
		"https://old.site/a,https://new.site/a-v2\n"
	reader := NewRedirectReader(&memFileReader{content: map[string]string{"r.csv": csv}})
	m, err := reader.Parse(context.Background(), "r.csv")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := m["https://old.site/a"]; got != "https://new.site/a-v2" {
		t.Errorf("expected last write to win, got %q", got)
	}
}

func TestURLListReader_FirstAbsoluteURLPerRow(t *testing.T) {
	csv := "note,url,extra\n" +
		"ignored,https://example.com/a,tail\n" +
		"not a url,also not a url,\n"
	reader := NewURLListReader(&memFileReader{content: map[string]string{"l.csv": csv}})
	urls, err := reader.Parse(context.Background(), "l.csv")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(urls) != 1 || urls[0] != "https://example.com/a" {
		t.Errorf("unexpected urls: %v", urls)
	}
}
