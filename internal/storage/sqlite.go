package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/locksum/locksum/internal/model"
	"github.com/locksum/locksum/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTransaction{
		tx:      tx,
		storage: s,
	}, nil
}

// sqliteTransaction wraps sql.Tx to implement service.Transaction.
type sqliteTransaction struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTransaction) Rollback() error {
	return t.tx.Rollback()
}

// Transaction methods delegate to the main storage with the transaction.
func (t *sqliteTransaction) CreateUser(ctx context.Context, user *model.User) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateUser(user); err != nil {
		return err
	}
	return t.storage.createUserTx(ctx, t.tx, user)
}

func (t *sqliteTransaction) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return t.storage.GetUserByID(ctx, id)
}

func (t *sqliteTransaction) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return t.storage.GetUserByEmail(ctx, email)
}

func (t *sqliteTransaction) GetUserByStripeCustomerID(ctx context.Context, customerID string) (*model.User, error) {
	return t.storage.GetUserByStripeCustomerID(ctx, customerID)
}

func (t *sqliteTransaction) UpdateUserBilling(ctx context.Context, userID int64, stripeCustomerID, subscriptionStatus string, plan model.Plan) error {
	return t.storage.UpdateUserBilling(ctx, userID, stripeCustomerID, subscriptionStatus, plan)
}

func (t *sqliteTransaction) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}
	return t.storage.saveTransactionsTx(ctx, t.tx, transactions)
}

func (t *sqliteTransaction) GetTransactions(ctx context.Context, userID int64, filter service.TransactionFilter) ([]model.Transaction, error) {
	return t.storage.GetTransactions(ctx, userID, filter)
}

func (t *sqliteTransaction) GetTransactionsSince(ctx context.Context, userID int64, since time.Time) ([]model.Transaction, error) {
	return t.storage.GetTransactionsSince(ctx, userID, since)
}

func (t *sqliteTransaction) GetTransactionCount(ctx context.Context, userID int64) (int, error) {
	return t.storage.GetTransactionCount(ctx, userID)
}

func (t *sqliteTransaction) UpsertBudget(ctx context.Context, budget *model.Budget) error {
	return t.storage.UpsertBudget(ctx, budget)
}

func (t *sqliteTransaction) GetBudgets(ctx context.Context, userID int64) ([]model.Budget, error) {
	return t.storage.GetBudgets(ctx, userID)
}

func (t *sqliteTransaction) DeleteBudget(ctx context.Context, userID int64, category string) error {
	return t.storage.DeleteBudget(ctx, userID, category)
}

func (t *sqliteTransaction) SaveBankItem(ctx context.Context, item *model.BankItem) error {
	return t.storage.SaveBankItem(ctx, item)
}

func (t *sqliteTransaction) GetBankItems(ctx context.Context, userID int64) ([]model.BankItem, error) {
	return t.storage.GetBankItems(ctx, userID)
}

func (t *sqliteTransaction) Migrate(_ context.Context) error {
	// Migrations should not be run within a transaction
	return fmt.Errorf("migrations cannot be run within a transaction")
}

func (t *sqliteTransaction) BeginTx(_ context.Context) (service.Transaction, error) {
	// Nested transactions not supported
	return nil, fmt.Errorf("nested transactions not supported")
}

func (t *sqliteTransaction) Close() error {
	// Transactions should be committed or rolled back, not closed
	return fmt.Errorf("transactions must be committed or rolled back, not closed")
}
