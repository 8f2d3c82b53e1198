package plaid

import (
	"context"
	"time"

	"github.com/locksum/locksum/internal/model"
)

// BankGateway defines the contract for the bank-data aggregator. It allows
// handlers to be tested without real Plaid credentials.
type BankGateway interface {
	CreateLinkToken(ctx context.Context, userID int64) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (accessToken, itemID string, err error)
	GetTransactions(ctx context.Context, accessToken string, startDate, endDate time.Time) ([]model.Transaction, error)
}
