package headless

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"

	"migaudit/internal/model"
	"migaudit/pkg/logger"
)

// performanceTimingScript pulls Core Web Vitals and ancillary timing
// out of the page via the Navigation Timing / Paint Timing / Layout
// Instability APIs already exposed to page JS, avoiding a dependency
// on Chrome's separate Lighthouse pipeline for a single-page audit.
const performanceTimingScript = `
(() => {
	const nav = performance.getEntriesByType('navigation')[0] || {};
	const paints = performance.getEntriesByType('paint');
	const fcpEntry = paints.find(p => p.name === 'first-contentful-paint');
	const resources = performance.getEntriesByType('resource');
	let totalBytes = 0;
	for (const r of resources) totalBytes += (r.transferSize || 0);

	let lcp = 0;
	if (window.__lcpValue) lcp = window.__lcpValue;

	let cls = 0;
	if (window.__clsValue) cls = window.__clsValue;

	return {
		lcp: lcp,
		cls: cls,
		inp: window.__inpValue || 0,
		fcp: fcpEntry ? fcpEntry.startTime : 0,
		ttfb: nav.responseStart || 0,
		tti: nav.domInteractive || 0,
		tbt: 0,
		speedIndex: 0,
		totalBytes: totalBytes,
		requestCount: resources.length
	};
})()
`

// observerInstallScript wires PerformanceObservers for LCP/CLS/INP
// before navigation so their values are available by the time
// performanceTimingScript runs post-load.
const observerInstallScript = `
window.__lcpValue = 0;
window.__clsValue = 0;
window.__inpValue = 0;
try {
	new PerformanceObserver((list) => {
		const entries = list.getEntries();
		const last = entries[entries.length - 1];
		if (last) window.__lcpValue = last.renderTime || last.loadTime || 0;
	}).observe({type: 'largest-contentful-paint', buffered: true});
} catch (e) {}
try {
	new PerformanceObserver((list) => {
		for (const entry of list.getEntries()) {
			if (!entry.hadRecentInput) window.__clsValue += entry.value;
		}
	}).observe({type: 'layout-shift', buffered: true});
} catch (e) {}
try {
	new PerformanceObserver((list) => {
		for (const entry of list.getEntries()) {
			if (entry.duration > window.__inpValue) window.__inpValue = entry.duration;
		}
	}).observe({type: 'event', buffered: true, durationThreshold: 16});
} catch (e) {}
`

type rawTiming struct {
	LCP          float64 `json:"lcp"`
	CLS          float64 `json:"cls"`
	INP          float64 `json:"inp"`
	FCP          float64 `json:"fcp"`
	TTFB         float64 `json:"ttfb"`
	TTI          float64 `json:"tti"`
	TBT          float64 `json:"tbt"`
	SpeedIndex   float64 `json:"speedIndex"`
	TotalBytes   int64   `json:"totalBytes"`
	RequestCount int     `json:"requestCount"`
}

// PerformanceAuditor runs the Core-Web-Vitals-producing audit against
// a shared Browser, enforcing the inter-URL delay the spec requires to
// avoid thermal/CPU contention across a serial batch.
type PerformanceAuditor struct {
	browser *Browser
	delay   time.Duration
	log     *logger.Logger
}

func NewPerformanceAuditor(browser *Browser, delayMs int) *PerformanceAuditor {
	if delayMs <= 0 {
		delayMs = 2000
	}
	return &PerformanceAuditor{
		browser: browser,
		delay:   time.Duration(delayMs) * time.Millisecond,
		log:     logger.GetLogger().WithField("component", "headless_performance"),
	}
}

// AuditBatch runs the performance audit for each URL in order, serially,
// sleeping delay between dispatches (not after the last one).
func (a *PerformanceAuditor) AuditBatch(ctx context.Context, urls []string) map[string]model.PerfMetrics {
	out := make(map[string]model.PerfMetrics, len(urls))
	for i, u := range urls {
		if i > 0 {
			select {
			case <-ctx.Done():
				return out
			case <-time.After(a.delay):
			}
		}
		metrics, err := a.Audit(ctx, u)
		if err != nil {
			logger.GetSecurityLogger().WarnWithURL("performance audit failed", u, map[string]interface{}{"error": err.Error()})
			continue
		}
		out[u] = metrics
	}
	return out
}

// Audit navigates to targetURL and extracts PerfMetrics.
func (a *PerformanceAuditor) Audit(ctx context.Context, targetURL string) (model.PerfMetrics, error) {
	tabCtx, cancel := a.browser.newTab()
	defer cancel()

	var raw rawTiming
	err := chromedp.Run(tabCtx,
		chromedp.Evaluate(observerInstallScript, nil),
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(500*time.Millisecond), // let LCP/CLS observers settle
		chromedp.Evaluate(performanceTimingScript, &raw),
	)
	if err != nil {
		return model.PerfMetrics{}, err
	}

	metrics := model.PerfMetrics{
		LCP:          raw.LCP,
		CLS:          raw.CLS,
		INP:          raw.INP,
		FCP:          raw.FCP,
		TTFB:         raw.TTFB,
		TTI:          raw.TTI,
		TBT:          raw.TBT,
		SpeedIndex:   raw.SpeedIndex,
		TotalBytes:   raw.TotalBytes,
		RequestCount: raw.RequestCount,
	}
	metrics.PerformanceScore = scorePerformance(metrics)
	return metrics, nil
}

// AssessVital buckets a single Core Web Vital measurement per the
// spec's good/needs-improvement/poor thresholds (§4.5).
func AssessVital(metric string, value float64) model.VitalAssessment {
	thresholds := vitalThresholds[metric]
	if thresholds == (vitalBand{}) {
		return model.VitalGood
	}
	switch {
	case value <= thresholds.good:
		return model.VitalGood
	case value <= thresholds.needsImprovement:
		return model.VitalNeedsImprovement
	default:
		return model.VitalPoor
	}
}

type vitalBand struct {
	good             float64
	needsImprovement float64
}

var vitalThresholds = map[string]vitalBand{
	"lcp": {good: 2500, needsImprovement: 4000},
	"inp": {good: 200, needsImprovement: 500},
	"cls": {good: 0.10, needsImprovement: 0.25},
	"fid": {good: 100, needsImprovement: 300},
}

// scorePerformance rolls PerfMetrics' three captured vitals (LCP, INP,
// CLS — FID is legacy and superseded by INP in PerfMetrics) into a
// single 0-100 score: each contributes up to 33 points, full credit
// for "good", half credit for "needs-improvement", none for "poor".
func scorePerformance(m model.PerfMetrics) int {
	weights := []struct {
		metric string
		value  float64
	}{
		{"lcp", m.LCP},
		{"inp", m.INP},
		{"cls", m.CLS},
	}

	score := 0.0
	for _, w := range weights {
		switch AssessVital(w.metric, w.value) {
		case model.VitalGood:
			score += 100.0 / 3.0
		case model.VitalNeedsImprovement:
			score += 50.0 / 3.0
		}
	}
	return int(score)
}
