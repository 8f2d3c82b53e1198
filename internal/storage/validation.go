// Package storage provides the data persistence layer for the locksum backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/locksum/locksum/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidUser        = errors.New("invalid user")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidBudget      = errors.New("invalid budget")
	ErrInvalidBankItem    = errors.New("invalid bank item")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateUser validates a user.
func validateUser(user *model.User) error {
	if user == nil {
		return fmt.Errorf("%w: user", ErrNilParameter)
	}
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("%w: missing email", ErrInvalidUser)
	}
	if user.PasswordHash == "" {
		return fmt.Errorf("%w: missing password hash", ErrInvalidUser)
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i, txn := range transactions {
		if err := validateTransaction(&txn); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.UserID <= 0 {
		return fmt.Errorf("%w: missing user ID", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if txn.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidTransaction)
	}
	return nil
}

// validateBudget validates a budget.
func validateBudget(budget *model.Budget) error {
	if budget == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}
	if budget.UserID <= 0 {
		return fmt.Errorf("%w: missing user ID", ErrInvalidBudget)
	}
	if strings.TrimSpace(budget.Category) == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidBudget)
	}
	if budget.LimitAmount < 0 {
		return fmt.Errorf("%w: limit must be non-negative", ErrInvalidBudget)
	}
	return nil
}

// validateBankItem validates a bank item.
func validateBankItem(item *model.BankItem) error {
	if item == nil {
		return fmt.Errorf("%w: bank item", ErrNilParameter)
	}
	if item.UserID <= 0 {
		return fmt.Errorf("%w: missing user ID", ErrInvalidBankItem)
	}
	if strings.TrimSpace(item.ItemID) == "" {
		return fmt.Errorf("%w: missing item ID", ErrInvalidBankItem)
	}
	if strings.TrimSpace(item.AccessToken) == "" {
		return fmt.Errorf("%w: missing access token", ErrInvalidBankItem)
	}
	return nil
}
