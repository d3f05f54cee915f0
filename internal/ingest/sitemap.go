package ingest

import (
	"compress/gzip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"sync"

	"migaudit/internal/errkind"
	"migaudit/internal/model"
	"migaudit/pkg/logger"
)

type xmlURLEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type xmlURLSet struct {
	XMLName xml.Name      `xml:"urlset"`
	URLs    []xmlURLEntry `xml:"url"`
}

type xmlSitemapRef struct {
	Loc string `xml:"loc"`
}

type xmlSitemapIndex struct {
	XMLName  xml.Name        `xml:"sitemapindex"`
	Sitemaps []xmlSitemapRef `xml:"sitemap"`
}

// maxSitemapIndexDepth caps recursive sitemap-index fetches. Adversarial
// self-referencing indices are guarded by this cap plus the visited set
// tracked per SitemapReader.Parse call (spec §4.1, §9 "Cyclic sitemap
// indices" — the teacher's xml_parser.go lacks this guard).
const maxSitemapIndexDepth = 4

// SitemapReader parses sitemap.org XML (urlset or sitemapindex),
// recursing into nested indices up to maxSitemapIndexDepth, grounded on
// the teacher's pkg/parser/xml_parser.go concurrent sub-sitemap fetch.
type SitemapReader struct {
	files           FileReader
	log             *logger.Logger
	concurrentLimit int
}

// NewSitemapReader builds a SitemapReader that reads inputs through
// files.
func NewSitemapReader(files FileReader) *SitemapReader {
	return &SitemapReader{
		files:           files,
		log:             logger.GetLogger().WithField("component", "sitemap_reader"),
		concurrentLimit: 5,
	}
}

// Parse reads the sitemap at handle and returns its deduplicated
// SitemapEntry list. A sitemapindex root recurses into each referenced
// sitemap concurrently (bounded by concurrentLimit); a urlset root is
// converted directly. Neither root element present is an InputFormat
// error that surfaces to the caller.
func (r *SitemapReader) Parse(ctx context.Context, handle string) ([]model.SitemapEntry, error) {
	visited := make(map[string]bool)
	entries, err := r.parseAt(ctx, handle, 0, visited, &sync.Mutex{})
	if err != nil {
		return nil, err
	}
	return dedupeEntries(entries), nil
}

func (r *SitemapReader) parseAt(ctx context.Context, handle string, depth int, visited map[string]bool, visitedMu *sync.Mutex) ([]model.SitemapEntry, error) {
	visitedMu.Lock()
	if visited[handle] || depth > maxSitemapIndexDepth {
		visitedMu.Unlock()
		return nil, nil
	}
	visited[handle] = true
	visitedMu.Unlock()

	body, err := r.open(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("failed to download sitemap %s: %w", handle, err)
	}
	raw, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read sitemap %s: %w", handle, err)
	}

	var index xmlSitemapIndex
	if err := xml.Unmarshal(raw, &index); err == nil && index.XMLName.Local == "sitemapindex" {
		r.log.WithField("count", len(index.Sitemaps)).Info("Processing sitemap index")
		return r.processIndexConcurrently(ctx, index.Sitemaps, depth+1, visited, visitedMu), nil
	}

	var set xmlURLSet
	if err := xml.Unmarshal(raw, &set); err != nil || set.XMLName.Local != "urlset" {
		return nil, errkind.Tag(errkind.InputFormat, fmt.Errorf("unrecognized sitemap root in %s", handle))
	}

	entries := make([]model.SitemapEntry, 0, len(set.URLs))
	for _, u := range set.URLs {
		if u.Loc == "" {
			r.log.Debug("Skipping sitemap entry with empty loc")
			continue
		}
		entries = append(entries, model.SitemapEntry{
			URL:        u.Loc,
			LastMod:    u.LastMod,
			ChangeFreq: u.ChangeFreq,
			Priority:   u.Priority,
		})
	}
	return entries, nil
}

func (r *SitemapReader) processIndexConcurrently(ctx context.Context, refs []xmlSitemapRef, depth int, visited map[string]bool, visitedMu *sync.Mutex) []model.SitemapEntry {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		all     []model.SitemapEntry
		sem     = make(chan struct{}, r.concurrentLimit)
	)

	for _, ref := range refs {
		if ref.Loc == "" {
			continue
		}
		wg.Add(1)
		go func(loc string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			select {
			case <-ctx.Done():
				return
			default:
			}

			sub, err := r.parseAt(ctx, loc, depth, visited, visitedMu)
			if err != nil {
				r.log.WithError(err).WithField("url", loc).Warn("Failed to parse sub-sitemap, skipping")
				return
			}

			mu.Lock()
			all = append(all, sub...)
			mu.Unlock()
		}(ref.Loc)
	}

	wg.Wait()
	return all
}

func (r *SitemapReader) open(ctx context.Context, handle string) (io.ReadCloser, error) {
	body, err := r.files.Open(ctx, handle)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(strings.ToLower(handle), ".gz") {
		gz, err := gzip.NewReader(body)
		if err != nil {
			body.Close()
			return nil, err
		}
		return gz, nil
	}
	return body, nil
}

// dedupeEntries keeps the first occurrence of each URL, matching the
// spec's "URLs may repeat across nested sitemaps; deduplication happens
// in C1" note.
func dedupeEntries(entries []model.SitemapEntry) []model.SitemapEntry {
	seen := make(map[string]bool, len(entries))
	out := make([]model.SitemapEntry, 0, len(entries))
	for _, e := range entries {
		if seen[e.URL] {
			continue
		}
		seen[e.URL] = true
		out = append(out, e)
	}
	return out
}
