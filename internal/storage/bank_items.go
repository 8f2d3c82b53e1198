package storage

import (
	"context"
	"fmt"

	"github.com/locksum/locksum/internal/model"
)

// SaveBankItem inserts a bank item, or refreshes the access token if the
// user already linked this Plaid item.
func (s *SQLiteStorage) SaveBankItem(ctx context.Context, item *model.BankItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBankItem(item); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO bank_items (user_id, item_id, access_token, institution_name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, item_id) DO UPDATE SET access_token = excluded.access_token
	`, item.UserID, item.ItemID, item.AccessToken, item.InstitutionName)
	if err != nil {
		return fmt.Errorf("failed to save bank item: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		item.ID = id
	}

	return nil
}

// GetBankItems returns all linked bank connections for a user.
func (s *SQLiteStorage) GetBankItems(ctx context.Context, userID int64) ([]model.BankItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, item_id, access_token, institution_name
		FROM bank_items
		WHERE user_id = ?
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.BankItem
	for rows.Next() {
		var item model.BankItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.ItemID, &item.AccessToken, &item.InstitutionName); err != nil {
			return nil, fmt.Errorf("failed to scan bank item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bank items: %w", err)
	}
	return items, nil
}
