package storage

import (
	"context"
	"fmt"

	"github.com/locksum/locksum/internal/common"
	"github.com/locksum/locksum/internal/model"
)

// UpsertBudget inserts or updates a budget. The (user, category) pair is the
// natural key, so setting a limit for an existing category replaces it.
func (s *SQLiteStorage) UpsertBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (user_id, category, limit_amount)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, category) DO UPDATE SET limit_amount = excluded.limit_amount
	`, budget.UserID, budget.Category, budget.LimitAmount)
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		budget.ID = id
	}

	return nil
}

// GetBudgets returns all budgets for a user, ordered by category.
func (s *SQLiteStorage) GetBudgets(ctx context.Context, userID int64) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, category, limit_amount
		FROM budgets
		WHERE user_id = ?
		ORDER BY category
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	for rows.Next() {
		var budget model.Budget
		if err := rows.Scan(&budget.ID, &budget.UserID, &budget.Category, &budget.LimitAmount); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}
	return budgets, nil
}

// DeleteBudget removes a user's budget for a category.
func (s *SQLiteStorage) DeleteBudget(ctx context.Context, userID int64, category string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(category, "category"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		"DELETE FROM budgets WHERE user_id = ? AND category = ?", userID, category)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: budget for %s", common.ErrNotFound, category)
	}

	return nil
}
