package probe

import "migaudit/internal/model"

// Categorize partitions a batch of ProbeResults into ok/redirects/
// clientErrors/serverErrors/networkErrors and computes the average
// response time (spec §4.4). ClientErrors is also the broken-link set.
func Categorize(results []model.ProbeResult) model.ProbeBatchSummary {
	summary := model.ProbeBatchSummary{Total: len(results)}

	var totalMs int64
	for _, r := range results {
		totalMs += r.ResponseTimeMs
		switch {
		case r.StatusCode == 0:
			summary.NetworkErrors = append(summary.NetworkErrors, r)
		case r.StatusCode == 200:
			summary.OK = append(summary.OK, r)
		case r.StatusCode >= 300 && r.StatusCode < 400:
			summary.Redirects = append(summary.Redirects, r)
		case r.StatusCode >= 400 && r.StatusCode < 500:
			summary.ClientErrors = append(summary.ClientErrors, r)
		case r.StatusCode >= 500:
			summary.ServerErrors = append(summary.ServerErrors, r)
		}
	}

	if len(results) > 0 {
		summary.AverageResponseMs = float64(totalMs) / float64(len(results))
	}
	return summary
}

// BrokenLinks extracts the client-error partition from a batch summary.
func BrokenLinks(summary model.ProbeBatchSummary) []model.ProbeResult {
	return summary.ClientErrors
}

// longChainThreshold is the redirect-chain length above which a chain
// is flagged as "long" (spec §4.4).
const longChainThreshold = 2

// AnalyzeRedirects summarizes the redirect population of a probe batch:
// counts by status code, chain lengths, and chains longer than
// longChainThreshold.
func AnalyzeRedirects(results []model.ProbeResult) model.RedirectAnalysis {
	analysis := model.RedirectAnalysis{ByStatusCode: make(map[int]int)}

	for _, r := range results {
		if r.StatusCode < 300 || r.StatusCode >= 400 {
			continue
		}
		analysis.ByStatusCode[r.StatusCode]++
		chainLen := len(r.RedirectChain)
		analysis.ChainLengths = append(analysis.ChainLengths, chainLen)
		if chainLen > longChainThreshold {
			analysis.LongChains = append(analysis.LongChains, r)
		}
	}
	return analysis
}
