package advisor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func totalsFrom(pairs ...any) *CategoryTotals {
	totals := NewCategoryTotals()
	for i := 0; i < len(pairs); i += 2 {
		totals.Add(pairs[i].(string), pairs[i+1].(float64))
	}
	return totals
}

func TestCompareToBudgets(t *testing.T) {
	spend := totalsFrom("Groceries", 150.0, "Dining", 80.0, "Travel", 300.0)
	budgets := map[string]float64{
		"Groceries": 200.0,
		"Dining":    0.0,
	}

	comparisons := compareToBudgets(spend, budgets)
	require.Len(t, comparisons, 3)

	groceries := comparisons[0]
	assert.Equal(t, "Groceries", groceries.Category)
	require.NotNil(t, groceries.Limit)
	assert.InDelta(t, 200.0, *groceries.Limit, 0.001)
	require.NotNil(t, groceries.PctOfBudget)
	assert.InDelta(t, 75.0, *groceries.PctOfBudget, 0.001)

	// Zero limit: reported but no percentage.
	dining := comparisons[1]
	assert.Equal(t, "Dining", dining.Category)
	require.NotNil(t, dining.Limit)
	assert.Nil(t, dining.PctOfBudget)

	// No budget entry at all.
	travel := comparisons[2]
	assert.Equal(t, "Travel", travel.Category)
	assert.Nil(t, travel.Limit)
	assert.Nil(t, travel.PctOfBudget)
}

func TestCompareToBudgets_SkipsBudgetedCategoriesWithoutSpend(t *testing.T) {
	spend := totalsFrom("Dining", 40.0)
	budgets := map[string]float64{"Dining": 100.0, "Rent": 2000.0}

	comparisons := compareToBudgets(spend, budgets)

	require.Len(t, comparisons, 1)
	assert.Equal(t, "Dining", comparisons[0].Category)
}

func TestCompareToBudgets_PctRoundedToOneDecimal(t *testing.T) {
	spend := totalsFrom("Dining", 100.0)
	budgets := map[string]float64{"Dining": 300.0}

	comparisons := compareToBudgets(spend, budgets)

	require.NotNil(t, comparisons[0].PctOfBudget)
	assert.InDelta(t, 33.3, *comparisons[0].PctOfBudget, 0.001)
}

func TestDetectAnomalies_ThresholdBands(t *testing.T) {
	tests := []struct {
		name        string
		spent       float64
		limit       float64
		wantMessage string
	}{
		{
			name:        "severe overspend at 150 percent",
			spent:       150,
			limit:       100,
			wantMessage: "Severe overspend in 'Dining' ($150.00 vs $100.00, 150% of budget).",
		},
		{
			name:        "over budget at 105 percent",
			spent:       105,
			limit:       100,
			wantMessage: "You're over budget in 'Dining' ($105.00 vs $100.00, 105% of budget).",
		},
		{
			name:        "at the edge at 95 percent",
			spent:       95,
			limit:       100,
			wantMessage: "'Dining' is right at the edge of your budget (95% used).",
		},
		{
			name:  "under 90 percent produces no warning",
			spent: 50,
			limit: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spend := totalsFrom("Dining", tt.spent)
			budgets := map[string]float64{"Dining": tt.limit}

			messages := detectAnomalies(spend, budgets)

			if tt.wantMessage == "" {
				assert.Empty(t, messages)
				return
			}
			require.Len(t, messages, 1)
			assert.Equal(t, tt.wantMessage, messages[0])
		})
	}
}

func TestDetectAnomalies_NoBudget(t *testing.T) {
	spend := totalsFrom("Gadgets", 120.0, "Coffee", 42.0)

	messages := detectAnomalies(spend, map[string]float64{})

	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "High spend in 'Gadgets' ($120.00) but no budget set.")
}

func TestDetectAnomalies_ZeroLimitTreatedAsNoBudget(t *testing.T) {
	spend := totalsFrom("Gadgets", 120.0)
	budgets := map[string]float64{"Gadgets": 0}

	messages := detectAnomalies(spend, budgets)

	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "no budget set")
}

func TestDetectAnomalies_AtMostOneWarningPerCategory(t *testing.T) {
	// Spend values across every band; each category must emit at most once.
	spend := totalsFrom(
		"A", 200.0, // severe (limit 100)
		"B", 115.0, // over (limit 100)
		"C", 99.0, // edge (limit 100)
		"D", 10.0, // under (limit 100)
		"E", 500.0, // no budget
	)
	budgets := map[string]float64{"A": 100, "B": 100, "C": 100, "D": 100}

	messages := detectAnomalies(spend, budgets)

	assert.Len(t, messages, 4)
	seen := make(map[string]int)
	for _, category := range []string{"A", "B", "C", "D", "E"} {
		for _, msg := range messages {
			if strings.Contains(msg, "'"+category+"'") {
				seen[category]++
			}
		}
		assert.LessOrEqual(t, seen[category], 1, "category %s warned more than once", category)
	}
}

func TestDetectAnomalies_OrderFollowsSpendInsertionOrder(t *testing.T) {
	spend := totalsFrom("Z", 200.0, "A", 200.0)
	budgets := map[string]float64{"Z": 100, "A": 100}

	messages := detectAnomalies(spend, budgets)

	require.Len(t, messages, 2)
	assert.Contains(t, messages[0], "'Z'")
	assert.Contains(t, messages[1], "'A'")
}
