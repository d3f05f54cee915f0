// Package headless implements C5, the headless auditor: Core Web
// Vitals extraction and mobile-viewport layout audits via a controlled
// browser. Grounded on EdgeComet's chromedp-based render farm
// (internal/render/chrome-renderer.go) for tab lifecycle and
// navigation/metrics extraction, but trimmed to the audit's two
// concerns instead of a general render API.
package headless

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"

	"migaudit/pkg/logger"
)

// navigationTimeout is the hard cap on a single page navigation
// (spec §6): "per-navigation timeout at 30s for headless".
const navigationTimeout = 30 * time.Second

// Browser owns one headless Chrome instance. It is not safe for
// concurrent use: both audits require serial execution per browser
// (spec §4.5), and the pipeline controller owns exactly one Browser
// per audit stage, tearing it down on stage exit.
type Browser struct {
	allocCtx   context.Context
	allocClose context.CancelFunc
	browserCtx context.Context
	browserClose context.CancelFunc
	log        *logger.Logger
}

// Launch starts a new headless Chrome process with sandboxing, GPU,
// and shared-memory constraints disabled so it can run inside
// restricted containers (spec §6).
func Launch(ctx context.Context) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
	)

	allocCtx, allocClose := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserClose := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		browserClose()
		allocClose()
		return nil, err
	}

	return &Browser{
		allocCtx:     allocCtx,
		allocClose:   allocClose,
		browserCtx:   browserCtx,
		browserClose: browserClose,
		log:          logger.GetLogger().WithField("component", "headless_browser"),
	}, nil
}

// Close tears down the browser and its allocator. Safe to call once;
// the pipeline controller closes it on every stage exit path.
func (b *Browser) Close() {
	b.browserClose()
	b.allocClose()
}

// newTab creates a timeout-bounded tab context for a single
// navigation, derived from the shared browser context so the tab
// reuses the same Chrome process.
func (b *Browser) newTab() (context.Context, context.CancelFunc) {
	tabCtx, tabCancel := chromedp.NewContext(b.browserCtx)
	timeoutCtx, timeoutCancel := context.WithTimeout(tabCtx, navigationTimeout)
	return timeoutCtx, func() {
		timeoutCancel()
		tabCancel()
	}
}
