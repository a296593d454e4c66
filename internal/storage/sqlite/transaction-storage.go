package sqlite

import (
	"context"
	"fmt"

	"github.com/iamvkosarev/fintrack/internal/model"
	"github.com/jmoiron/sqlx"
)

const (
	createTransactionsTable = `
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		owner_email TEXT NOT NULL,
		date TEXT NOT NULL,
		description TEXT NOT NULL,
		amount REAL NOT NULL,
		category TEXT NOT NULL,
		type TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS transactions_owner_email ON transactions (owner_email);
	`
	insertTransaction = `
	INSERT INTO transactions (id, owner_email, date, description, amount, category, type, created_at)
	VALUES (:id, :owner_email, :date, :description, :amount, :category, :type, :created_at)
	`
	selectOwnerTransactions = `
	SELECT id, owner_email, date, description, amount, category, type, created_at
	FROM transactions WHERE owner_email = ? ORDER BY rowid ASC
	`
)

type TransactionStorage struct {
	db *sqlx.DB
}

func NewTransactionStorage(db *sqlx.DB) (*TransactionStorage, error) {
	if _, err := db.Exec(createTransactionsTable); err != nil {
		return nil, fmt.Errorf("failed to create transactions table: %w", err)
	}
	return &TransactionStorage{db: db}, nil
}

// AddTransactions inserts all transactions in one database transaction.
func (t *TransactionStorage) AddTransactions(ctx context.Context, transactions ...model.Transaction) error {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, transaction := range transactions {
		if _, err = tx.NamedExecContext(ctx, insertTransaction, transaction); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", transaction.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}
	return nil
}

func (t *TransactionStorage) ListTransactions(ctx context.Context, ownerEmail string) ([]model.Transaction, error) {
	transactions := make([]model.Transaction, 0)
	if err := t.db.SelectContext(ctx, &transactions, selectOwnerTransactions, ownerEmail); err != nil {
		return nil, fmt.Errorf("failed to get transactions of %s: %w", ownerEmail, err)
	}
	return transactions, nil
}
