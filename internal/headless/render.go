package headless

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"

	"migaudit/internal/model"
)

// networkQuiesceDelay approximates "no more than 2 in-flight requests
// for 500ms" (spec §4.4) with a fixed settle window after WaitReady;
// chromedp has no built-in network-idle wait comparable to Puppeteer's.
const networkQuiesceDelay = 500 * time.Millisecond

const seoExtractScript = `
(() => {
	const title = document.title || "";
	const descEl = document.querySelector('meta[name="description" i]');
	const description = descEl ? descEl.getAttribute('content') || "" : "";
	const canonicalEl = document.querySelector('link[rel="canonical"]');
	const canonical = canonicalEl ? canonicalEl.getAttribute('href') || "" : "";

	const ogTags = {};
	document.querySelectorAll('meta[property^="og:"]').forEach(el => {
		ogTags[el.getAttribute('property').toLowerCase()] = el.getAttribute('content') || "";
	});

	const h1s = Array.from(document.querySelectorAll('h1')).map(el => el.textContent.trim());
	const h2Count = document.querySelectorAll('h2').length;
	const h3Count = document.querySelectorAll('h3').length;
	const structuredData = document.querySelectorAll('script[type="application/ld+json"]').length > 0;

	let internalLinks = 0, externalLinks = 0;
	const host = window.location.host;
	document.querySelectorAll('a[href]').forEach(el => {
		const href = el.getAttribute('href');
		if (!href || href.startsWith('#') || href.startsWith('mailto:') || href.startsWith('tel:')) return;
		try {
			const resolved = new URL(href, window.location.href);
			if (resolved.host === host) internalLinks++; else externalLinks++;
		} catch (e) {}
	});

	return {
		title: title,
		description: description,
		canonicalUrl: canonical,
		ogTags: ogTags,
		h1Count: h1s.length,
		h1Text: h1s,
		h2Count: h2Count,
		h3Count: h3Count,
		structuredData: structuredData,
		internalLinkCount: internalLinks,
		externalLinkCount: externalLinks
	};
})()
`

type rawPageContent struct {
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	CanonicalURL      string            `json:"canonicalUrl"`
	OGTags            map[string]string `json:"ogTags"`
	H1Count           int               `json:"h1Count"`
	H1Text            []string          `json:"h1Text"`
	H2Count           int               `json:"h2Count"`
	H3Count           int               `json:"h3Count"`
	StructuredData    bool              `json:"structuredData"`
	InternalLinkCount int               `json:"internalLinkCount"`
	ExternalLinkCount int               `json:"externalLinkCount"`
}

// ContentRenderer implements probe.Renderer for the "headless mode"
// content-fetch path: navigate a controlled browser, wait a fixed
// settle window after the body is ready, then extract via DOM queries.
type ContentRenderer struct {
	browser *Browser
}

func NewContentRenderer(browser *Browser) *ContentRenderer {
	return &ContentRenderer{browser: browser}
}

// Render navigates to targetURL, waits for the body to be ready and
// then sleeps networkQuiesceDelay (500ms), and extracts SEO metadata
// via DOM queries. In-flight network requests are not counted, so the
// page may still be loading resources when extraction runs. The whole
// navigation is capped by the tab's navigationTimeout.
func (r *ContentRenderer) Render(ctx context.Context, targetURL string) (model.PageContent, error) {
	tabCtx, cancel := r.browser.newTab()
	defer cancel()

	var raw rawPageContent
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(networkQuiesceDelay),
		chromedp.Evaluate(seoExtractScript, &raw),
	)
	if err != nil {
		return model.PageContent{}, err
	}

	return model.PageContent{
		Title:             raw.Title,
		Description:       raw.Description,
		CanonicalURL:      raw.CanonicalURL,
		OGTags:            raw.OGTags,
		H1Count:           raw.H1Count,
		H2Count:           raw.H2Count,
		H3Count:           raw.H3Count,
		H1Text:            raw.H1Text,
		StructuredData:    raw.StructuredData,
		InternalLinkCount: raw.InternalLinkCount,
		ExternalLinkCount: raw.ExternalLinkCount,
	}, nil
}
