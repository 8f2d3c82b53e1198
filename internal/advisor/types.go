// Package advisor implements the spending analytics and rule-based advisory
// engine: window aggregation, budget comparison, anomaly detection, a
// safe-to-spend projection, and a debt payoff estimator.
package advisor

import (
	"bytes"
	"encoding/json"
	"math"
	"time"
)

// RiskLevel scales how aggressive a debt payoff estimate is.
type RiskLevel string

// Valid risk levels.
const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// riskFactors maps a risk level to a scalar applied to the extra payment.
var riskFactors = map[RiskLevel]float64{
	RiskLow:    0.8,
	RiskMedium: 1.0,
	RiskHigh:   1.2,
}

// ParseRiskLevel normalizes a user-supplied risk string, substituting
// medium for anything unrecognized.
func ParseRiskLevel(s string) RiskLevel {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return RiskLevel(s)
	default:
		return RiskMedium
	}
}

// ISODate is a calendar date that marshals as a bare YYYY-MM-DD string.
type ISODate time.Time

// MarshalJSON renders the date in ISO 8601 date-only form.
func (d ISODate) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format("2006-01-02"))
}

// String returns the date in YYYY-MM-DD form.
func (d ISODate) String() string {
	return time.Time(d).Format("2006-01-02")
}

// CategoryTotals is an order-preserving category → amount accumulator.
// Iteration and JSON output follow the order categories were first added,
// which for aggregation means the order categories first appear among
// transactions.
type CategoryTotals struct {
	totals map[string]float64
	order  []string
}

// NewCategoryTotals creates an empty accumulator.
func NewCategoryTotals() *CategoryTotals {
	return &CategoryTotals{totals: make(map[string]float64)}
}

// Add accumulates amount under category, registering first-seen order.
func (c *CategoryTotals) Add(category string, amount float64) {
	if _, ok := c.totals[category]; !ok {
		c.order = append(c.order, category)
	}
	c.totals[category] += amount
}

// Get returns the accumulated amount for category.
func (c *CategoryTotals) Get(category string) (float64, bool) {
	v, ok := c.totals[category]
	return v, ok
}

// Categories returns category labels in first-seen order.
func (c *CategoryTotals) Categories() []string {
	return c.order
}

// Len returns the number of distinct categories.
func (c *CategoryTotals) Len() int {
	return len(c.order)
}

// Sum returns the total across all categories.
func (c *CategoryTotals) Sum() float64 {
	var sum float64
	for _, v := range c.totals {
		sum += v
	}
	return sum
}

// Rounded returns a copy with every amount rounded to 2 decimal places.
func (c *CategoryTotals) Rounded() *CategoryTotals {
	out := NewCategoryTotals()
	for _, cat := range c.order {
		out.Add(cat, round2(c.totals[cat]))
	}
	return out
}

// MarshalJSON emits a JSON object whose keys follow insertion order.
func (c *CategoryTotals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cat)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(c.totals[cat])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SpendingStats holds aggregated spending figures for a trailing window.
// Computed fresh on every request; never persisted.
type SpendingStats struct {
	SpendByCategory *CategoryTotals    `json:"spend_by_category"`
	Budgets         map[string]float64 `json:"budgets"`
	PeakDay         *ISODate           `json:"peak_day"`
	WindowDays      int                `json:"days"`
	TransactionCount int               `json:"transaction_count"`
	TotalSpent      float64            `json:"total_spent"`
	AvgPerDay       float64            `json:"avg_per_day"`
	PeakDayAmount   float64            `json:"peak_day_amount"`
}

// CategoryComparison joins spend against the budget limit for one category.
// Limit and PctOfBudget are nil when no budget exists for the category.
type CategoryComparison struct {
	Limit       *float64 `json:"limit"`
	PctOfBudget *float64 `json:"pct_of_budget"`
	Category    string   `json:"category"`
	Spent       float64  `json:"spent"`
}

// AdvisoryResult bundles the narrative output of the advisory engine.
type AdvisoryResult struct {
	Summary          []string             `json:"summary"`
	Warnings         []string             `json:"warnings"`
	SuggestedActions []string             `json:"suggested_actions"`
	Categories       []CategoryComparison `json:"categories,omitempty"`
}

// SafeToSpend is a heuristic daily allowance for the rest of the month.
type SafeToSpend struct {
	MonthDaysTotal      int     `json:"month_days_total"`
	DaysElapsed         int     `json:"days_elapsed"`
	DaysLeft            int     `json:"days_left"`
	BudgetTotal         float64 `json:"budget_total"`
	SpentSoFar          float64 `json:"spent_so_far"`
	RemainingBudget     float64 `json:"remaining_budget"`
	SuggestedSafePerDay float64 `json:"suggested_safe_per_day"`
}

// DebtPlan estimates months to pay off a debt at a given extra payment.
// EstimatedMonths is nil when the inputs do not permit an estimate.
type DebtPlan struct {
	EffectivePayment *float64  `json:"effective_payment,omitempty"`
	EstimatedMonths  *float64  `json:"estimated_months"`
	RiskStyle        RiskLevel `json:"style"`
	Note             string    `json:"note"`
	TotalDebt        float64   `json:"total_debt"`
	MonthlyExtra     float64   `json:"monthly_extra"`
}

// InsightsReport is the composite response of ComputeInsights.
type InsightsReport struct {
	Stats       SpendingStats  `json:"stats"`
	Advice      AdvisoryResult `json:"advice"`
	SafeToSpend SafeToSpend    `json:"safe_to_spend"`
}

// round2 rounds to 2 decimal places; used only at output boundaries.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 rounds to 1 decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func ptr(v float64) *float64 {
	return &v
}
