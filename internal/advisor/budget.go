package advisor

import "fmt"

// Anomaly thresholds. Ratios are spent/limit; the absolute threshold applies
// to categories with no budget at all.
const (
	noBudgetSpendThreshold = 100.0
	severeOverspendRatio   = 1.5
	overBudgetRatio        = 1.1
	nearBudgetRatio        = 0.9
)

// compareToBudgets joins per-category spend against budget limits. Output
// order follows the spend accumulator's first-seen order; budgeted categories
// with zero spend are not enumerated. PctOfBudget is only computed for
// positive limits.
func compareToBudgets(spend *CategoryTotals, budgets map[string]float64) []CategoryComparison {
	comparisons := make([]CategoryComparison, 0, spend.Len())
	for _, category := range spend.Categories() {
		spent, _ := spend.Get(category)
		entry := CategoryComparison{
			Category: category,
			Spent:    spent,
		}
		if limit, ok := budgets[category]; ok {
			entry.Limit = ptr(limit)
			if limit > 0 {
				entry.PctOfBudget = ptr(round1(spent / limit * 100))
			}
		}
		comparisons = append(comparisons, entry)
	}
	return comparisons
}

// detectAnomalies produces at most one warning per category, evaluated
// against fixed threshold bands. The bands are mutually exclusive, so a
// category never triggers more than one message.
func detectAnomalies(spend *CategoryTotals, budgets map[string]float64) []string {
	var messages []string
	for _, category := range spend.Categories() {
		spent, _ := spend.Get(category)
		limit, hasBudget := budgets[category]
		if !hasBudget || limit == 0 {
			if spent >= noBudgetSpendThreshold {
				messages = append(messages, fmt.Sprintf(
					"High spend in '%s' ($%.2f) but no budget set. Consider creating a budget here.",
					category, spent))
			}
			continue
		}

		pct := spent / limit
		switch {
		case pct >= severeOverspendRatio:
			messages = append(messages, fmt.Sprintf(
				"Severe overspend in '%s' ($%.2f vs $%.2f, %.0f%% of budget).",
				category, spent, limit, pct*100))
		case pct >= overBudgetRatio:
			messages = append(messages, fmt.Sprintf(
				"You're over budget in '%s' ($%.2f vs $%.2f, %.0f%% of budget).",
				category, spent, limit, pct*100))
		case pct >= nearBudgetRatio:
			messages = append(messages, fmt.Sprintf(
				"'%s' is right at the edge of your budget (%.0f%% used).",
				category, pct*100))
		}
	}
	return messages
}
