package compare

import "migaudit/internal/model"

// Mobile compares an old and new mobile audit result by overallIssues
// count, and computes the issue-text intersection (spec §4.6).
func Mobile(old, new model.MobileTestResult) model.MobileComparison {
	cmp := model.MobileComparison{
		OldURL:        old.URL,
		NewURL:        new.URL,
		OldIssueCount: len(old.OverallIssues),
		NewIssueCount: len(new.OverallIssues),
	}

	switch {
	case cmp.NewIssueCount < cmp.OldIssueCount:
		cmp.Classification = "improved"
	case cmp.NewIssueCount > cmp.OldIssueCount:
		cmp.Classification = "regressed"
	default:
		cmp.Classification = "unchanged"
	}

	oldSet := make(map[string]bool, len(old.OverallIssues))
	for _, issue := range old.OverallIssues {
		oldSet[issue] = true
	}
	for _, issue := range new.OverallIssues {
		if oldSet[issue] {
			cmp.CommonIssues = append(cmp.CommonIssues, issue)
		}
	}

	return cmp
}

// MobileBatch aggregates per-pair mobile comparisons into a batch
// summary.
func MobileBatch(pairs []model.MobileComparison) model.MobileBatchSummary {
	summary := model.MobileBatchSummary{Pairs: pairs}
	for _, p := range pairs {
		switch p.Classification {
		case "improved":
			summary.ImprovedCount++
		case "regressed":
			summary.RegressedCount++
		default:
			summary.UnchangedCount++
		}
	}
	return summary
}
