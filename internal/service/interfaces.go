// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/locksum/locksum/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  string
	Limit     int
	Offset    int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByStripeCustomerID(ctx context.Context, customerID string) (*model.User, error)
	UpdateUserBilling(ctx context.Context, userID int64, stripeCustomerID, subscriptionStatus string, plan model.Plan) error

	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactions(ctx context.Context, userID int64, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionsSince(ctx context.Context, userID int64, since time.Time) ([]model.Transaction, error)
	GetTransactionCount(ctx context.Context, userID int64) (int, error)

	// Budget operations
	UpsertBudget(ctx context.Context, budget *model.Budget) error
	GetBudgets(ctx context.Context, userID int64) ([]model.Budget, error)
	DeleteBudget(ctx context.Context, userID int64, category string) error

	// Bank item operations
	SaveBankItem(ctx context.Context, item *model.BankItem) error
	GetBankItems(ctx context.Context, userID int64) ([]model.BankItem, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
