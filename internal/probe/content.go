package probe

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"migaudit/internal/model"
)

// Renderer fetches and extracts PageContent for a single URL using a
// controlled browser. internal/headless implements this for the
// "headless mode" content-fetch path (spec §4.4); static mode is
// handled directly by this package via goquery.
type Renderer interface {
	Render(ctx context.Context, targetURL string) (model.PageContent, error)
}

// ContentFetch runs a content-fetch batch: a status check per URL plus,
// for any 2xx HTML response, SEO metadata extraction. When render is
// non-nil, HTML pages are delegated to it (headless mode) instead of
// being parsed statically.
func (e *Executor) ContentFetch(ctx context.Context, urls []string, render Renderer) ([]model.ProbeResult, map[string]model.PageContent) {
	prober := newHTTPProber(e.cfg)
	content := make(map[string]model.PageContent)
	var mu sync.Mutex

	results := e.run(ctx, urls, func(ctx context.Context, u string) model.ProbeResult {
		result := withRetry(ctx, e.cfg, prober, u)
		if result.StatusCode != 200 || !isHTML(result.ContentType) {
			return result
		}

		var (
			page model.PageContent
			err  error
		)
		if render != nil {
			page, err = render.Render(ctx, u)
		} else {
			page, err = fetchStatic(ctx, u)
		}
		if err == nil {
			mu.Lock()
			content[u] = page
			mu.Unlock()
		}
		return result
	})

	return results, content
}

func isHTML(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "text/html")
}

var staticFetchClient = &http.Client{}

// fetchStatic parses a page's HTML with goquery and extracts the SEO
// metadata fields the comparison engine (C6) needs: title, description,
// canonical URL, Open Graph tags, heading counts/text, presence of
// structured data, and internal/external link counts.
func fetchStatic(ctx context.Context, targetURL string) (model.PageContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return model.PageContent{}, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := staticFetchClient.Do(req)
	if err != nil {
		return model.PageContent{}, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return model.PageContent{}, err
	}

	return extractPageContent(doc, targetURL), nil
}

func extractPageContent(doc *goquery.Document, pageURL string) model.PageContent {
	page := model.PageContent{OGTags: make(map[string]string)}

	page.Title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		property, _ := s.Attr("property")
		content, _ := s.Attr("content")

		switch strings.ToLower(name) {
		case "description":
			page.Description = content
		}
		if strings.HasPrefix(strings.ToLower(property), "og:") {
			page.OGTags[strings.ToLower(property)] = content
		}
	})

	if href, ok := doc.Find("link[rel='canonical']").First().Attr("href"); ok {
		page.CanonicalURL = href
	}

	page.H1Count = doc.Find("h1").Length()
	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		page.H1Text = append(page.H1Text, strings.TrimSpace(s.Text()))
	})
	page.H2Count = doc.Find("h2").Length()
	page.H3Count = doc.Find("h3").Length()

	page.StructuredData = doc.Find("script[type='application/ld+json']").Length() > 0

	base, baseErr := url.Parse(pageURL)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
			return
		}
		if baseErr != nil {
			return
		}
		linkURL, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(linkURL)
		if resolved.Host == base.Host {
			page.InternalLinkCount++
		} else {
			page.ExternalLinkCount++
		}
	})

	return page
}
