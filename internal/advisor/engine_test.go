package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/locksum/locksum/internal/model"
	"github.com/locksum/locksum/internal/service"
)

// engineMockStorage implements the subset of service.Storage the advisory
// engine touches.
type engineMockStorage struct {
	service.Storage
	mock.Mock
}

func (m *engineMockStorage) GetTransactionsSince(ctx context.Context, userID int64, since time.Time) ([]model.Transaction, error) {
	args := m.Called(ctx, userID, since)
	if txns, ok := args.Get(0).([]model.Transaction); ok {
		return txns, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *engineMockStorage) GetBudgets(ctx context.Context, userID int64) ([]model.Budget, error) {
	args := m.Called(ctx, userID)
	if budgets, ok := args.Get(0).([]model.Budget); ok {
		return budgets, args.Error(1)
	}
	return nil, args.Error(1)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestEngine(t *testing.T, storage service.Storage, now time.Time) *Engine {
	t.Helper()
	engine, err := NewEngine(Deps{Storage: storage, Clock: fixedClock(now)})
	require.NoError(t, err)
	return engine
}

func TestNewEngine_RequiresStorage(t *testing.T) {
	_, err := NewEngine(Deps{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage")
}

func TestComputeInsights_NoTransactions(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	storage := &engineMockStorage{}
	storage.On("GetTransactionsSince", mock.Anything, int64(1), mock.Anything).
		Return([]model.Transaction{}, nil)
	storage.On("GetBudgets", mock.Anything, int64(1)).
		Return([]model.Budget{}, nil)

	engine := newTestEngine(t, storage, now)
	report, err := engine.ComputeInsights(context.Background(), 1, 30, nil)
	require.NoError(t, err)

	require.Len(t, report.Advice.Warnings, 1)
	assert.Contains(t, report.Advice.Warnings[0], "didn't see any transactions")
	require.Len(t, report.Advice.SuggestedActions, 1)
	assert.Contains(t, report.Advice.SuggestedActions[0], "Connect at least one bank")
	assert.Nil(t, report.Advice.Categories)
	assert.Zero(t, report.Stats.TransactionCount)
}

func TestComputeInsights_FullPipeline(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		{Date: now.AddDate(0, 0, -2), Name: "Whole Foods", Category: "Groceries", Amount: 320},
		{Date: now.AddDate(0, 0, -5), Name: "Pasta Palace", Category: "Dining", Amount: 180},
		{Date: now.AddDate(0, 0, -1), Name: "Rent March", Category: "Rent", Amount: 1500},
	}
	budgets := []model.Budget{
		{Category: "Groceries", LimitAmount: 300},
		{Category: "Rent", LimitAmount: 1500},
	}

	storage := &engineMockStorage{}
	storage.On("GetTransactionsSince", mock.Anything, int64(7), mock.Anything).
		Return(txns, nil)
	storage.On("GetBudgets", mock.Anything, int64(7)).
		Return(budgets, nil)

	engine := newTestEngine(t, storage, now)
	report, err := engine.ComputeInsights(context.Background(), 7, 30, nil)
	require.NoError(t, err)

	// Stats merged with budgets.
	assert.InDelta(t, 2000.0, report.Stats.TotalSpent, 0.001)
	assert.InDelta(t, 300.0, report.Stats.Budgets["Groceries"], 0.001)

	// Summary always leads with the headline spend.
	require.NotEmpty(t, report.Advice.Summary)
	assert.Contains(t, report.Advice.Summary[0], "You spent about $2000.00 in the last 30 days")

	// Groceries (107%) and Rent (100%) are both in the edge band; Dining has
	// spend >= 100 with no budget.
	assert.Len(t, report.Advice.Categories, 3)
	warningText := ""
	for _, w := range report.Advice.Warnings {
		warningText += w + "\n"
	}
	assert.Contains(t, warningText, "'Groceries' is right at the edge")
	assert.Contains(t, warningText, "'Rent' is right at the edge")
	assert.Contains(t, warningText, "High spend in 'Dining'")

	// Missing core budgets are combined into a single action.
	actionText := ""
	for _, a := range report.Advice.SuggestedActions {
		actionText += a + "\n"
	}
	assert.Contains(t, actionText, "Housing, Utilities, Savings")
	assert.NotContains(t, actionText, "Rent,")

	// Generic savings nudge: 10% of total spend.
	assert.Contains(t, actionText, "$200.00")

	// Safe-to-spend is computed from the same stats.
	assert.Equal(t, 31, report.SafeToSpend.MonthDaysTotal)
	assert.InDelta(t, 1800.0, report.SafeToSpend.BudgetTotal, 0.001)
}

func TestComputeInsights_MissingAllCoreBudgets(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	storage := &engineMockStorage{}
	storage.On("GetTransactionsSince", mock.Anything, int64(1), mock.Anything).
		Return([]model.Transaction{
			{Date: now.AddDate(0, 0, -1), Name: "Coffee", Category: "Coffee", Amount: 4.50},
		}, nil)
	storage.On("GetBudgets", mock.Anything, int64(1)).
		Return([]model.Budget{}, nil)

	engine := newTestEngine(t, storage, now)
	report, err := engine.ComputeInsights(context.Background(), 1, 30, nil)
	require.NoError(t, err)

	var budgetAction string
	for _, a := range report.Advice.SuggestedActions {
		if strings.Contains(a, "important areas") {
			budgetAction = a
		}
	}
	require.NotEmpty(t, budgetAction)
	for _, category := range []string{"Rent", "Housing", "Groceries", "Utilities", "Savings"} {
		assert.Contains(t, budgetAction, category)
	}
}

func TestComputeInsights_SavingsGoal(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		{Date: now.AddDate(0, 0, -1), Name: "Groceries run", Category: "Groceries", Amount: 400},
	}
	budgets := []model.Budget{{Category: "Groceries", LimitAmount: 1000}}

	storage := &engineMockStorage{}
	storage.On("GetTransactionsSince", mock.Anything, int64(1), mock.Anything).Return(txns, nil)
	storage.On("GetBudgets", mock.Anything, int64(1)).Return(budgets, nil)
	engine := newTestEngine(t, storage, now)

	// On track: inferred savings 600 >= target 500.
	target := 500.0
	report, err := engine.ComputeInsights(context.Background(), 1, 30, &model.Goals{MonthlySavingsTarget: &target})
	require.NoError(t, err)
	summaryText := ""
	for _, s := range report.Advice.Summary {
		summaryText += s + "\n"
	}
	assert.Contains(t, summaryText, "on track to save around $600.00")

	// Behind: inferred savings 600 < target 800.
	target = 800.0
	report, err = engine.ComputeInsights(context.Background(), 1, 30, &model.Goals{MonthlySavingsTarget: &target})
	require.NoError(t, err)
	warningText := ""
	for _, w := range report.Advice.Warnings {
		warningText += w + "\n"
	}
	assert.Contains(t, warningText, "behind your savings target of $800.00")
}

func TestComputeInsights_WindowIncludesBoundaryDay(t *testing.T) {
	// Clock mid-day; the cutoff must still be the whole calendar date so a
	// transaction stored at midnight exactly window_days ago is included.
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	boundary := time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)

	storage := &engineMockStorage{}
	storage.On("GetTransactionsSince", mock.Anything, int64(1), boundary).
		Return([]model.Transaction{
			{Date: boundary, Name: "Boundary", Category: "Groceries", Amount: 50},
		}, nil)
	storage.On("GetBudgets", mock.Anything, int64(1)).
		Return([]model.Budget{}, nil)

	engine := newTestEngine(t, storage, now)
	report, err := engine.ComputeInsights(context.Background(), 1, 30, nil)
	require.NoError(t, err)

	storage.AssertExpectations(t)
	assert.Equal(t, 1, report.Stats.TransactionCount)
}

func TestComputeInsights_StorageError(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	storage := &engineMockStorage{}
	storage.On("GetTransactionsSince", mock.Anything, int64(1), mock.Anything).
		Return(nil, errors.New("db locked"))

	engine := newTestEngine(t, storage, now)
	_, err := engine.ComputeInsights(context.Background(), 1, 30, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load transactions")
}

func TestComputeDebtPlan_Delegates(t *testing.T) {
	storage := &engineMockStorage{}
	engine := newTestEngine(t, storage, time.Now())

	plan := engine.ComputeDebtPlan(1200, 100, RiskMedium)

	require.NotNil(t, plan.EstimatedMonths)
	assert.InDelta(t, 12.0, *plan.EstimatedMonths, 0.001)
}
