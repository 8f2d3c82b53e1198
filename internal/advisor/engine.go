package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/locksum/locksum/internal/model"
	"github.com/locksum/locksum/internal/service"
)

// coreCategories are the budget areas every user is nudged to cover.
var coreCategories = []string{"Rent", "Housing", "Groceries", "Utilities", "Savings"}

// Deps contains all dependencies required by the advisory engine.
type Deps struct {
	// Storage provides access to the persistence layer.
	Storage service.Storage
	// Clock returns the current time; defaults to time.Now.
	Clock func() time.Time
}

// Validate ensures all required dependencies are provided.
func (d *Deps) Validate() error {
	if d.Storage == nil {
		return fmt.Errorf("storage dependency is required")
	}
	return nil
}

// Engine orchestrates aggregation, budget comparison, anomaly detection and
// projection into a single advisory response. All computation is synchronous
// and stateless; concurrent invocations are independent.
type Engine struct {
	deps Deps
}

// NewEngine creates a new advisory engine with the provided dependencies.
func NewEngine(deps Deps) (*Engine, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Engine{deps: deps}, nil
}

// ComputeInsights aggregates the user's trailing spending window, compares it
// against budgets, and composes narrative advice plus a safe-to-spend
// projection. windowDays of zero is a defined degenerate input, not an error.
func (e *Engine) ComputeInsights(ctx context.Context, userID int64, windowDays int, goals *model.Goals) (*InsightsReport, error) {
	now := e.deps.Clock()
	// Cutoff is a whole calendar date so a transaction stored at midnight on
	// the boundary day still falls inside the window.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	since := today.AddDate(0, 0, -windowDays)

	transactions, err := e.deps.Storage.GetTransactionsSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	budgets, err := e.deps.Storage.GetBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets: %w", err)
	}

	stats := Aggregate(transactions, windowDays)
	stats.Budgets = make(map[string]float64, len(budgets))
	for _, b := range budgets {
		stats.Budgets[b.Category] = b.LimitAmount
	}

	advice := composeAdvice(stats, goals)

	slog.Debug("Computed insights",
		"user_id", userID,
		"window_days", windowDays,
		"transactions", stats.TransactionCount,
		"warnings", len(advice.Warnings))

	return &InsightsReport{
		Stats:       stats,
		Advice:      advice,
		SafeToSpend: safeToSpend(stats, 0, now),
	}, nil
}

// ComputeDebtPlan estimates a debt payoff schedule. It has no dependency on
// the spending pipeline.
func (e *Engine) ComputeDebtPlan(totalDebt, monthlyExtra float64, risk RiskLevel) DebtPlan {
	return EstimateDebtPayoff(totalDebt, monthlyExtra, risk)
}

// composeAdvice converts stats and optional goals into narrative insights,
// warnings and suggested actions.
func composeAdvice(stats SpendingStats, goals *model.Goals) AdvisoryResult {
	insights := []string{fmt.Sprintf(
		"You spent about $%.2f in the last %d days (~$%.2f per day).",
		stats.TotalSpent, stats.WindowDays, stats.AvgPerDay)}

	if stats.PeakDay != nil {
		insights = append(insights, fmt.Sprintf(
			"Your highest spending day was %s with about $%.2f.",
			stats.PeakDay, stats.PeakDayAmount))
	}

	var warnings, actions []string

	if stats.TransactionCount == 0 {
		warnings = append(warnings,
			"I didn't see any transactions for this period. Make sure your bank connections are syncing correctly.")
		actions = append(actions,
			"Connect at least one bank or card and import transactions so I can analyze your spending.")
		return AdvisoryResult{
			Summary:          insights,
			Warnings:         warnings,
			SuggestedActions: actions,
		}
	}

	comparisons := compareToBudgets(stats.SpendByCategory, stats.Budgets)
	warnings = append(warnings, detectAnomalies(stats.SpendByCategory, stats.Budgets)...)

	var missing []string
	for _, category := range coreCategories {
		if _, ok := stats.Budgets[category]; !ok {
			missing = append(missing, category)
		}
	}
	if len(missing) > 0 {
		actions = append(actions,
			"You don't have budgets for some important areas: "+
				strings.Join(missing, ", ")+
				". Add budgets so I can help you stay on track.")
	}

	if goals != nil && goals.MonthlySavingsTarget != nil {
		target := *goals.MonthlySavingsTarget
		var budgetTotal float64
		for _, limit := range stats.Budgets {
			budgetTotal += limit
		}
		// Savings are inferred as the gap between total budget and total spend.
		inferredSavings := budgetTotal - stats.TotalSpent
		if inferredSavings < 0 {
			inferredSavings = 0
		}
		if inferredSavings >= target {
			insights = append(insights, fmt.Sprintf(
				"Based on your budgets vs. spending, you're on track to save around $%.2f this month (target: $%.2f).",
				inferredSavings, target))
		} else {
			warnings = append(warnings, fmt.Sprintf(
				"You're currently behind your savings target of $%.2f this month. Consider trimming some flexible categories.",
				target))
		}
	}

	if stats.TotalSpent > 0 {
		actions = append(actions, fmt.Sprintf(
			"If possible, try to move around $%.2f from this period into savings or debt payoff.",
			stats.TotalSpent*0.10))
	}

	return AdvisoryResult{
		Summary:          insights,
		Warnings:         warnings,
		SuggestedActions: actions,
		Categories:       comparisons,
	}
}
