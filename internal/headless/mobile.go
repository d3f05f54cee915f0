package headless

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"

	"migaudit/internal/model"
	"migaudit/pkg/logger"
)

// viewport is one of the three fixed device profiles the mobile audit
// visits every URL under (spec §4.5).
type viewport struct {
	name          string
	width, height int64
	mobile        bool
}

var viewports = []viewport{
	{name: "mobile", width: 375, height: 667, mobile: true},
	{name: "tablet", width: 768, height: 1024, mobile: true},
	{name: "desktop", width: 1920, height: 1080, mobile: false},
}

const mobileInPageChecksScript = `
(() => {
	const issues = [];
	const hasOverflow = document.documentElement.scrollWidth > window.innerWidth;
	if (hasOverflow) issues.push("horizontal scrollbar detected");

	if (__CHECK_TOUCH_TARGETS__) {
		let small = 0;
		document.querySelectorAll('a,button,input,select,textarea,[role="button"]').forEach(el => {
			const r = el.getBoundingClientRect();
			if ((r.width > 0 && r.width < 44) || (r.height > 0 && r.height < 44)) small++;
		});
		if (small > 0) issues.push(small + " touch targets smaller than 44x44px");
	}

	let tinyFonts = 0;
	document.querySelectorAll('*').forEach(el => {
		if (!el.textContent || !el.textContent.trim()) return;
		const size = parseFloat(getComputedStyle(el).fontSize);
		if (size > 0 && size < 12) tinyFonts++;
	});
	if (tinyFonts > 0) issues.push(tinyFonts + " elements with font size smaller than 12px");

	if (__CHECK_FIXED_BARS__) {
		let fixedBars = 0;
		document.querySelectorAll('*').forEach(el => {
			const style = getComputedStyle(el);
			if (style.position === 'fixed') {
				const r = el.getBoundingClientRect();
				if (r.width > window.innerWidth * 0.9) fixedBars++;
			}
		});
		if (fixedBars > 0) issues.push(fixedBars + " full-width fixed bars detected");
	}

	return {issues: issues, hasOverflow: hasOverflow};
})()
`

type mobileCheckResult struct {
	Issues      []string `json:"issues"`
	HasOverflow bool     `json:"hasOverflow"`
}

// MobileAuditor runs the per-viewport layout audit and screenshot
// capture described in spec §4.5.
type MobileAuditor struct {
	browser       *Browser
	delay         time.Duration
	screenshotDir string
	log           *logger.Logger
}

func NewMobileAuditor(browser *Browser, delayMs int, screenshotDir string) *MobileAuditor {
	if delayMs <= 0 {
		delayMs = 2000
	}
	return &MobileAuditor{
		browser:       browser,
		delay:         time.Duration(delayMs) * time.Millisecond,
		screenshotDir: screenshotDir,
		log:           logger.GetLogger().WithField("component", "headless_mobile"),
	}
}

// AuditBatch runs the mobile audit for each URL serially, sleeping
// delay between dispatches.
func (a *MobileAuditor) AuditBatch(ctx context.Context, urls []string, side string) []model.MobileTestResult {
	results := make([]model.MobileTestResult, 0, len(urls))
	for i, u := range urls {
		if i > 0 {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(a.delay):
			}
		}
		results = append(results, a.Audit(ctx, u, side))
	}
	return results
}

// Audit visits targetURL under every viewport, capturing a full-page
// screenshot and running the four in-page checks per viewport. Any
// viewport failure is isolated: it records {error, device} and the
// remaining viewports still proceed (spec §4.5 failure handling).
func (a *MobileAuditor) Audit(ctx context.Context, targetURL, side string) model.MobileTestResult {
	result := model.MobileTestResult{URL: targetURL}
	overallSeen := make(map[string]bool)

	for _, vp := range viewports {
		vr, err := a.auditViewport(ctx, targetURL, side, vp)
		if err != nil {
			result.Viewports = append(result.Viewports, model.ViewportResult{
				Viewport: vp.name,
				Error:    err.Error(),
			})
			continue
		}
		result.Viewports = append(result.Viewports, vr)
		for _, issue := range vr.Issues {
			if !overallSeen[issue] {
				overallSeen[issue] = true
				result.OverallIssues = append(result.OverallIssues, issue)
			}
		}
	}

	result.Responsive = len(result.OverallIssues) == 0
	return result
}

func (a *MobileAuditor) auditViewport(ctx context.Context, targetURL, side string, vp viewport) (model.ViewportResult, error) {
	tabCtx, cancel := a.browser.newTab()
	defer cancel()

	script := mobileInPageChecksScript
	checkTouchTargets := "false"
	if vp.mobile {
		checkTouchTargets = "true"
	}
	checkFixedBars := "false"
	if vp.name == "mobile" {
		checkFixedBars = "true"
	}
	script = strings.ReplaceAll(script, "__CHECK_TOUCH_TARGETS__", checkTouchTargets)
	script = strings.ReplaceAll(script, "__CHECK_FIXED_BARS__", checkFixedBars)

	var check mobileCheckResult
	var screenshot []byte

	err := chromedp.Run(tabCtx,
		emulation.SetDeviceMetricsOverride(vp.width, vp.height, 1.0, vp.mobile),
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(script, &check),
		chromedp.FullScreenshot(&screenshot, 90),
	)
	if err != nil {
		return model.ViewportResult{}, err
	}

	ref, saveErr := a.saveScreenshot(side, vp.name, screenshot)
	if saveErr != nil {
		a.log.WithError(saveErr).Warn("failed to persist screenshot")
	}

	return model.ViewportResult{
		Viewport:      vp.name,
		ScreenshotRef: ref,
		Issues:        check.Issues,
		HasOverflow:   check.HasOverflow,
	}, nil
}

// saveScreenshot writes a PNG under <screenshotDir>/<side>/, with the
// viewport tag and a millisecond timestamp in the filename to avoid
// collisions (spec §6), creating parent directories idempotently.
func (a *MobileAuditor) saveScreenshot(side, viewportName string, data []byte) (string, error) {
	if a.screenshotDir == "" {
		return "", nil
	}
	dir := filepath.Join(a.screenshotDir, side)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%s-%d.png", viewportName, time.Now().UnixMilli())
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
