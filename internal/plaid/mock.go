package plaid

import (
	"context"
	"time"

	"github.com/locksum/locksum/internal/model"
)

// MockGateway is a mock implementation of BankGateway for testing.
type MockGateway struct {
	// Functions that can be set by tests to control behavior
	CreateLinkTokenFn     func(ctx context.Context, userID int64) (string, error)
	ExchangePublicTokenFn func(ctx context.Context, publicToken string) (string, string, error)
	GetTransactionsFn     func(ctx context.Context, accessToken string, startDate, endDate time.Time) ([]model.Transaction, error)

	// Call tracking
	CreateLinkTokenCalls     int
	ExchangePublicTokenCalls int
	GetTransactionsCalls     []GetTransactionsCall
}

// GetTransactionsCall records the parameters of a GetTransactions call.
type GetTransactionsCall struct {
	StartDate   time.Time
	EndDate     time.Time
	AccessToken string
}

// NewMockGateway creates a new mock bank gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// CreateLinkToken implements BankGateway.CreateLinkToken.
func (m *MockGateway) CreateLinkToken(ctx context.Context, userID int64) (string, error) {
	m.CreateLinkTokenCalls++
	if m.CreateLinkTokenFn != nil {
		return m.CreateLinkTokenFn(ctx, userID)
	}
	return "link-sandbox-token", nil
}

// ExchangePublicToken implements BankGateway.ExchangePublicToken.
func (m *MockGateway) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	m.ExchangePublicTokenCalls++
	if m.ExchangePublicTokenFn != nil {
		return m.ExchangePublicTokenFn(ctx, publicToken)
	}
	return "access-sandbox-token", "item-sandbox", nil
}

// GetTransactions implements BankGateway.GetTransactions.
func (m *MockGateway) GetTransactions(ctx context.Context, accessToken string, startDate, endDate time.Time) ([]model.Transaction, error) {
	m.GetTransactionsCalls = append(m.GetTransactionsCalls, GetTransactionsCall{
		StartDate:   startDate,
		EndDate:     endDate,
		AccessToken: accessToken,
	})
	if m.GetTransactionsFn != nil {
		return m.GetTransactionsFn(ctx, accessToken, startDate, endDate)
	}
	return []model.Transaction{}, nil
}

// Ensure MockGateway implements BankGateway interface.
var _ BankGateway = (*MockGateway)(nil)
