package advisor

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locksum/locksum/internal/model"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func txn(d int, amount float64, category string) model.Transaction {
	return model.Transaction{
		Date:     day(d),
		Name:     "test",
		Category: category,
		Amount:   amount,
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	stats := Aggregate(nil, 30)

	assert.Equal(t, 30, stats.WindowDays)
	assert.Zero(t, stats.TotalSpent)
	assert.Zero(t, stats.AvgPerDay)
	assert.Zero(t, stats.TransactionCount)
	assert.Zero(t, stats.SpendByCategory.Len())
	assert.Nil(t, stats.PeakDay)
	assert.Zero(t, stats.PeakDayAmount)
}

func TestAggregate_Totals(t *testing.T) {
	txns := []model.Transaction{
		txn(1, 10.50, "Groceries"),
		txn(2, 20.25, "Dining"),
		txn(3, 5.25, "Groceries"),
	}

	stats := Aggregate(txns, 30)

	assert.InDelta(t, 36.00, stats.TotalSpent, 0.001)
	assert.InDelta(t, 1.20, stats.AvgPerDay, 0.001)
	assert.Equal(t, 3, stats.TransactionCount)

	groceries, ok := stats.SpendByCategory.Get("Groceries")
	require.True(t, ok)
	assert.InDelta(t, 15.75, groceries, 0.001)

	dining, ok := stats.SpendByCategory.Get("Dining")
	require.True(t, ok)
	assert.InDelta(t, 20.25, dining, 0.001)
}

func TestAggregate_CategoryTotalsMatchHeadlineTotal(t *testing.T) {
	// Fractional amounts that do not round cleanly per transaction.
	txns := []model.Transaction{
		txn(1, 10.333, "A"),
		txn(2, 10.333, "A"),
		txn(3, 10.334, "B"),
		txn(4, 0.005, "C"),
	}

	stats := Aggregate(txns, 30)

	var sum float64
	for _, cat := range stats.SpendByCategory.Categories() {
		v, _ := stats.SpendByCategory.Get(cat)
		sum += v
	}
	assert.InDelta(t, stats.TotalSpent, sum, 0.01,
		"per-category totals must sum to the headline total within rounding")
}

func TestAggregate_AvgPerDayTimesWindowApproximatesTotal(t *testing.T) {
	txns := []model.Transaction{
		txn(1, 300, "A"),
		txn(5, 150, "B"),
	}

	stats := Aggregate(txns, 30)

	assert.InDelta(t, stats.TotalSpent, stats.AvgPerDay*float64(stats.WindowDays), 0.30)
}

func TestAggregate_ZeroWindowDays(t *testing.T) {
	stats := Aggregate([]model.Transaction{txn(1, 100, "A")}, 0)

	assert.Zero(t, stats.AvgPerDay, "zero window must not divide by zero")
	assert.InDelta(t, 100.0, stats.TotalSpent, 0.001)
}

func TestAggregate_PeakDay(t *testing.T) {
	txns := []model.Transaction{
		txn(1, 10, "A"),
		txn(2, 50, "B"),
		txn(2, 25, "A"),
		txn(3, 60, "C"),
	}

	stats := Aggregate(txns, 30)

	require.NotNil(t, stats.PeakDay)
	assert.Equal(t, "2024-03-02", stats.PeakDay.String())
	assert.InDelta(t, 75.0, stats.PeakDayAmount, 0.001)
}

func TestAggregate_PeakDayTieKeepsFirstSeen(t *testing.T) {
	txns := []model.Transaction{
		txn(5, 40, "A"),
		txn(9, 40, "B"),
	}

	stats := Aggregate(txns, 30)

	require.NotNil(t, stats.PeakDay)
	assert.Equal(t, "2024-03-05", stats.PeakDay.String())
}

func TestAggregate_CategoryOrderFollowsFirstAppearance(t *testing.T) {
	txns := []model.Transaction{
		txn(1, 10, "Zeta"),
		txn(2, 10, "Alpha"),
		txn(3, 10, "Zeta"),
		txn(4, 10, "Mid"),
	}

	stats := Aggregate(txns, 30)

	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, stats.SpendByCategory.Categories())
}

func TestAggregate_UncategorizedFallback(t *testing.T) {
	stats := Aggregate([]model.Transaction{txn(1, 12, "")}, 30)

	v, ok := stats.SpendByCategory.Get(model.DefaultCategory)
	require.True(t, ok)
	assert.InDelta(t, 12.0, v, 0.001)
}

func TestAggregate_NegativeAmountsNetOut(t *testing.T) {
	// Refunds are stored as negative amounts and net against spend.
	txns := []model.Transaction{
		txn(1, 100, "Shopping"),
		txn(2, -40, "Shopping"),
	}

	stats := Aggregate(txns, 30)

	assert.InDelta(t, 60.0, stats.TotalSpent, 0.001)
	shopping, _ := stats.SpendByCategory.Get("Shopping")
	assert.InDelta(t, 60.0, shopping, 0.001)
}

func TestCategoryTotals_MarshalPreservesInsertionOrder(t *testing.T) {
	totals := NewCategoryTotals()
	totals.Add("Zed", 1)
	totals.Add("Apple", 2)
	totals.Add("Mango", 3)

	data, err := totals.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"Zed":1,"Apple":2,"Mango":3}`, string(data))
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 1.23, round2(1.234), 1e-9)
	assert.InDelta(t, 1.24, round2(1.236), 1e-9)
	assert.True(t, math.Abs(round2(0)) < 1e-9)
}
