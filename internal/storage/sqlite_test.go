package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locksum/locksum/internal/common"
	"github.com/locksum/locksum/internal/model"
	"github.com/locksum/locksum/internal/service"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestUser(t *testing.T, store *SQLiteStorage, email string) *model.User {
	t.Helper()

	user := &model.User{
		Email:        email,
		PasswordHash: "hashed-password",
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	require.NotZero(t, user.ID)
	return user
}

func testTxn(userID int64, date time.Time, name, category string, amount float64) model.Transaction {
	txn := model.Transaction{
		ID:       name + date.Format("20060102"),
		UserID:   userID,
		Date:     date,
		Name:     name,
		Category: category,
		Amount:   amount,
	}
	txn.Hash = txn.GenerateHash()
	return txn
}

func TestSQLiteStorage_UserLifecycle(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	user := newTestUser(t, store, "alice@example.com")
	assert.Equal(t, model.PlanFree, user.Plan)

	byID, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = store.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorage_DuplicateEmailRejected(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	newTestUser(t, store, "bob@example.com")

	dup := &model.User{Email: "bob@example.com", PasswordHash: "other"}
	err := store.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestSQLiteStorage_UpdateUserBilling(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	user := newTestUser(t, store, "carol@example.com")

	err := store.UpdateUserBilling(ctx, user.ID, "cus_123", "active", model.PlanPlus)
	require.NoError(t, err)

	updated, err := store.GetUserByStripeCustomerID(ctx, "cus_123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, updated.ID)
	assert.Equal(t, "active", updated.SubscriptionStatus)
	assert.Equal(t, model.PlanPlus, updated.Plan)
	assert.True(t, updated.HasActiveSubscription())

	err = store.UpdateUserBilling(ctx, 9999, "cus_x", "active", model.PlanPlus)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorage_TransactionDeduplication(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	user := newTestUser(t, store, "dave@example.com")
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	txn := testTxn(user.ID, date, "STARBUCKS", "Coffee", 5.25)

	require.NoError(t, store.SaveTransactions(ctx, []model.Transaction{txn}))
	// Saving the same hash again is a no-op.
	require.NoError(t, store.SaveTransactions(ctx, []model.Transaction{txn}))

	count, err := store.GetTransactionCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLiteStorage_GetTransactionsSince(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	user := newTestUser(t, store, "erin@example.com")
	other := newTestUser(t, store, "other@example.com")

	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveTransactions(ctx, []model.Transaction{
		testTxn(user.ID, old, "OLD PURCHASE", "Misc", 10),
		testTxn(user.ID, recent, "NEW PURCHASE", "Misc", 20),
		testTxn(other.ID, recent, "OTHER USER", "Misc", 30),
	}))

	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	txns, err := store.GetTransactionsSince(ctx, user.ID, since)
	require.NoError(t, err)

	require.Len(t, txns, 1)
	assert.Equal(t, "NEW PURCHASE", txns[0].Name)
	assert.Equal(t, user.ID, txns[0].UserID)
}

func TestSQLiteStorage_GetTransactionsFilter(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	user := newTestUser(t, store, "frank@example.com")
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	var txns []model.Transaction
	for i := 0; i < 5; i++ {
		category := "Groceries"
		if i%2 == 1 {
			category = "Dining"
		}
		txns = append(txns, testTxn(user.ID, base.AddDate(0, 0, i), "PURCHASE", category, float64(10+i)))
	}
	require.NoError(t, store.SaveTransactions(ctx, txns))

	byCategory, err := store.GetTransactions(ctx, user.ID, service.TransactionFilter{Category: "Dining"})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	limited, err := store.GetTransactions(ctx, user.ID, service.TransactionFilter{Limit: 3})
	require.NoError(t, err)
	require.Len(t, limited, 3)
	// Most recent first.
	assert.Equal(t, base.AddDate(0, 0, 4).Format("2006-01-02"), limited[0].Date.Format("2006-01-02"))
}

func TestSQLiteStorage_BudgetUpsert(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	user := newTestUser(t, store, "grace@example.com")

	budget := &model.Budget{UserID: user.ID, Category: "Groceries", LimitAmount: 300}
	require.NoError(t, store.UpsertBudget(ctx, budget))

	// Upserting the same category replaces the limit instead of duplicating.
	budget2 := &model.Budget{UserID: user.ID, Category: "Groceries", LimitAmount: 450}
	require.NoError(t, store.UpsertBudget(ctx, budget2))

	budgets, err := store.GetBudgets(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.InDelta(t, 450.0, budgets[0].LimitAmount, 0.001)
}

func TestSQLiteStorage_DeleteBudget(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	user := newTestUser(t, store, "heidi@example.com")
	require.NoError(t, store.UpsertBudget(ctx, &model.Budget{UserID: user.ID, Category: "Dining", LimitAmount: 100}))

	require.NoError(t, store.DeleteBudget(ctx, user.ID, "Dining"))
	err := store.DeleteBudget(ctx, user.ID, "Dining")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorage_BankItems(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	user := newTestUser(t, store, "ivan@example.com")

	item := &model.BankItem{
		UserID:          user.ID,
		ItemID:          "item-1",
		AccessToken:     "access-token-1",
		InstitutionName: "First Bank",
	}
	require.NoError(t, store.SaveBankItem(ctx, item))

	// Re-linking the same item refreshes the token.
	refreshed := &model.BankItem{
		UserID:      user.ID,
		ItemID:      "item-1",
		AccessToken: "access-token-2",
	}
	require.NoError(t, store.SaveBankItem(ctx, refreshed))

	items, err := store.GetBankItems(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "access-token-2", items[0].AccessToken)
	assert.Equal(t, "First Bank", items[0].InstitutionName)
}

func TestSQLiteStorage_ValidationErrors(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	err := store.CreateUser(ctx, &model.User{Email: ""})
	assert.ErrorIs(t, err, ErrInvalidUser)

	err = store.SaveTransactions(ctx, []model.Transaction{})
	assert.ErrorIs(t, err, ErrEmptySlice)

	err = store.UpsertBudget(ctx, &model.Budget{UserID: 1, Category: "X", LimitAmount: -5})
	assert.ErrorIs(t, err, ErrInvalidBudget)
}
