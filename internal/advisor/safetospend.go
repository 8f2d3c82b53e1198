package advisor

import "time"

// safeToSpend estimates a sustainable daily spend for the rest of the
// current calendar month. monthDaysTotal overrides the computed month
// length when positive.
//
// Known approximation: days elapsed is clamped to the analysis window, which
// may not align with the calendar month. This mirrors the product's original
// behavior and is intentional.
func safeToSpend(stats SpendingStats, monthDaysTotal int, now time.Time) SafeToSpend {
	if monthDaysTotal <= 0 {
		monthDaysTotal = daysInMonth(now)
	}

	daysElapsed := stats.WindowDays
	if now.Day() < daysElapsed {
		daysElapsed = now.Day()
	}
	daysLeft := monthDaysTotal - daysElapsed
	if daysLeft < 0 {
		daysLeft = 0
	}

	var budgetTotal float64
	for _, limit := range stats.Budgets {
		budgetTotal += limit
	}

	remaining := budgetTotal - stats.TotalSpent
	if remaining < 0 {
		remaining = 0
	}

	var perDay float64
	if daysLeft > 0 && remaining > 0 {
		perDay = remaining / float64(daysLeft)
	}

	return SafeToSpend{
		MonthDaysTotal:      monthDaysTotal,
		DaysElapsed:         daysElapsed,
		DaysLeft:            daysLeft,
		BudgetTotal:         round2(budgetTotal),
		SpentSoFar:          round2(stats.TotalSpent),
		RemainingBudget:     round2(remaining),
		SuggestedSafePerDay: round2(perDay),
	}
}

// daysInMonth returns the number of days in now's calendar month. Advancing
// from the 28th by four days always lands in the next month, for every month
// length including leap Februaries.
func daysInMonth(now time.Time) int {
	nextMonth := time.Date(now.Year(), now.Month(), 28, 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, 4)
	return nextMonth.AddDate(0, 0, -nextMonth.Day()).Day()
}
