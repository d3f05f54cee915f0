package compare

import (
	"net/url"

	"migaudit/internal/model"
)

// lowerIsBetter lists the Core Web Vitals where a smaller value is an
// improvement; their improvement-percentage sign is inverted relative
// to a naive (new-old)/old computation (spec §4.6).
var lowerIsBetter = map[string]bool{
	"lcp":        true,
	"cls":        true,
	"inp":        true,
	"fcp":        true,
	"ttfb":       true,
	"tti":        true,
	"tbt":        true,
	"speedIndex": true,
}

// PerfPair pairs an old and new PerfMetrics by URL, alongside the
// 0-100 scores the pipeline attaches to each side.
type PerfPair struct {
	OldURL   string
	NewURL   string
	OldScore int
	NewScore int
	Old      model.PerfMetrics
	New      model.PerfMetrics
}

// PathAndQuery strips host/scheme so old/new results can be paired
// regardless of domain (spec §4.6: "Pair old/new results by URL path
// + query, host/scheme ignored").
func PathAndQuery(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if u.RawQuery == "" {
		return u.Path
	}
	return u.Path + "?" + u.RawQuery
}

// Performance computes the per-pair metric deltas and roll-up score
// delta for one old/new performance pair.
func Performance(pair PerfPair) model.PerformanceComparison {
	cmp := model.PerformanceComparison{
		OldURL:     pair.OldURL,
		NewURL:     pair.NewURL,
		OldScore:   pair.OldScore,
		NewScore:   pair.NewScore,
		ScoreDelta: pair.NewScore - pair.OldScore,
	}
	cmp.Improved = cmp.ScoreDelta > 0

	metrics := []struct {
		name     string
		oldValue float64
		newValue float64
	}{
		{"lcp", pair.Old.LCP, pair.New.LCP},
		{"cls", pair.Old.CLS, pair.New.CLS},
		{"inp", pair.Old.INP, pair.New.INP},
		{"fcp", pair.Old.FCP, pair.New.FCP},
		{"ttfb", pair.Old.TTFB, pair.New.TTFB},
		{"tti", pair.Old.TTI, pair.New.TTI},
		{"tbt", pair.Old.TBT, pair.New.TBT},
		{"speedIndex", pair.Old.SpeedIndex, pair.New.SpeedIndex},
	}

	for _, m := range metrics {
		if m.oldValue == 0 && m.newValue == 0 {
			continue
		}
		cmp.Deltas = append(cmp.Deltas, metricDelta(m.name, m.oldValue, m.newValue))
	}

	return cmp
}

func metricDelta(name string, oldValue, newValue float64) model.MetricDelta {
	var improvementPct float64
	if oldValue != 0 {
		raw := (newValue - oldValue) / oldValue * 100
		if lowerIsBetter[name] {
			raw = -raw
		}
		improvementPct = raw
	}

	return model.MetricDelta{
		Metric:         name,
		OldValue:       oldValue,
		NewValue:       newValue,
		ImprovementPct: improvementPct,
		Classification: classifyImprovement(improvementPct),
	}
}

func classifyImprovement(pct float64) string {
	switch {
	case pct >= 10:
		return "significant improvement"
	case pct >= 5:
		return "moderate improvement"
	case pct > -5:
		return "minimal change"
	case pct > -10:
		return "moderate regression"
	default:
		return "significant regression"
	}
}

// PerformanceBatch aggregates a set of per-pair comparisons into the
// batch summary the pipeline attaches to a project's results.
func PerformanceBatch(pairs []model.PerformanceComparison) model.PerformanceBatchSummary {
	summary := model.PerformanceBatchSummary{
		Pairs:             pairs,
		VitalImproveCount: make(map[string]int),
		VitalImprovePct:   make(map[string]float64),
	}
	if len(pairs) == 0 {
		return summary
	}

	var totalDelta float64
	vitalTotals := make(map[string]float64)
	vitalCounts := make(map[string]int)

	for _, p := range pairs {
		switch {
		case p.ScoreDelta > 5:
			summary.ImprovedCount++
		case p.ScoreDelta < -5:
			summary.RegressedCount++
		default:
			summary.UnchangedCount++
		}
		totalDelta += float64(p.ScoreDelta)

		for _, d := range p.Deltas {
			vitalTotals[d.Metric] += d.ImprovementPct
			vitalCounts[d.Metric]++
			if d.ImprovementPct > 0 {
				summary.VitalImproveCount[d.Metric]++
			}
		}
	}

	summary.AverageScoreDelta = totalDelta / float64(len(pairs))
	for metric, count := range vitalCounts {
		summary.VitalImprovePct[metric] = float64(summary.VitalImproveCount[metric]) / float64(count) * 100
	}

	return summary
}
