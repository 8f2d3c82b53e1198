package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/locksum/locksum/internal/model"
	"github.com/locksum/locksum/internal/service"
)

// SaveTransactions saves multiple transactions to the database, ignoring
// duplicates by hash.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveTransactionsTx(ctx, tx, transactions); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) saveTransactionsTx(ctx context.Context, tx *sql.Tx, transactions []model.Transaction) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			id, user_id, hash, date, name, amount, category
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range transactions {
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}
		category := txn.Category
		if category == "" {
			category = model.DefaultCategory
		}

		_, err = stmt.ExecContext(ctx,
			txn.ID,
			txn.UserID,
			txn.Hash,
			txn.Date,
			txn.Name,
			txn.Amount,
			category,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}

	return nil
}

// GetTransactionsSince retrieves all of a user's transactions on or after the
// given date, ordered by date then insertion order.
func (s *SQLiteStorage) GetTransactionsSince(ctx context.Context, userID int64, since time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, hash, date, name, amount, category
		FROM transactions
		WHERE user_id = ? AND date >= ?
		ORDER BY date, rowid
	`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// GetTransactions retrieves a user's transactions with optional filtering.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, userID int64, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, hash, date, name, amount, category
		FROM transactions
		WHERE user_id = ?
	`
	args := []any{userID}

	if filter.StartDate != nil {
		query += " AND date >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += " AND date <= ?"
		args = append(args, *filter.EndDate)
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}

	query += " ORDER BY date DESC, rowid DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// GetTransactionCount returns the number of transactions stored for a user.
func (s *SQLiteStorage) GetTransactionCount(ctx context.Context, userID int64) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM transactions WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		if err := rows.Scan(
			&txn.ID,
			&txn.UserID,
			&txn.Hash,
			&txn.Date,
			&txn.Name,
			&txn.Amount,
			&txn.Category,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}
