package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/locksum/locksum/internal/common"
	"github.com/locksum/locksum/internal/model"
)

// CreateUser inserts a new user and populates its ID.
func (s *SQLiteStorage) CreateUser(ctx context.Context, user *model.User) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateUser(user); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.createUserTx(ctx, tx, user); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) createUserTx(ctx context.Context, tx *sql.Tx, user *model.User) error {
	var exists int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM users WHERE email = ?", user.Email).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check existing email: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: email %s", common.ErrDuplicateEntry, user.Email)
	}

	plan := user.Plan
	if plan == "" {
		plan = model.PlanFree
	}
	status := user.SubscriptionStatus
	if status == "" {
		status = "free"
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, stripe_customer_id, subscription_status, plan)
		VALUES (?, ?, ?, ?, ?)
	`, user.Email, user.PasswordHash, user.StripeCustomerID, status, plan)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user ID: %w", err)
	}
	user.ID = id
	user.Plan = plan
	user.SubscriptionStatus = status

	return nil
}

const userColumns = `id, email, password_hash, stripe_customer_id, subscription_status, plan, created_at`

func scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.StripeCustomerID,
		&user.SubscriptionStatus,
		&user.Plan,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by primary key.
func (s *SQLiteStorage) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email address.
func (s *SQLiteStorage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(email, "email"); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

// GetUserByStripeCustomerID retrieves a user by their Stripe customer ID.
func (s *SQLiteStorage) GetUserByStripeCustomerID(ctx context.Context, customerID string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(customerID, "customerID"); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE stripe_customer_id = ?", customerID)
	return scanUser(row)
}

// UpdateUserBilling updates the billing-related columns for a user.
func (s *SQLiteStorage) UpdateUserBilling(ctx context.Context, userID int64, stripeCustomerID, subscriptionStatus string, plan model.Plan) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET stripe_customer_id = ?, subscription_status = ?, plan = ?
		WHERE id = ?
	`, stripeCustomerID, subscriptionStatus, plan, userID)
	if err != nil {
		return fmt.Errorf("failed to update user billing: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: user %d", common.ErrNotFound, userID)
	}

	return nil
}
