package key_value

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iamvkosarev/fintrack/internal/model"
	"github.com/redis/go-redis/v9"
)

// transactionInternal is model.Transaction without the owner, which is part of the key.
type transactionInternal struct {
	ID          uuid.UUID             `json:"id"`
	OwnerEmail  string                `json:"-"`
	Date        string                `json:"date"`
	Description string                `json:"description"`
	Amount      float64               `json:"amount"`
	Category    string                `json:"category"`
	Type        model.TransactionType `json:"type"`
	CreatedAt   time.Time             `json:"created_at"`
}

type TransactionStorage struct {
	rdb *redis.Client
}

func NewTransactionStorage(rdb *redis.Client) *TransactionStorage {
	return &TransactionStorage{
		rdb: rdb,
	}
}

func (t *TransactionStorage) AddTransactions(ctx context.Context, transactions ...model.Transaction) error {
	byOwner := make(map[string][]any)
	for _, transaction := range transactions {
		transactionJSON, err := json.Marshal(transactionInternal(transaction))
		if err != nil {
			return fmt.Errorf("failed to marshal transaction %s: %w", transaction.ID, err)
		}
		byOwner[transaction.OwnerEmail] = append(byOwner[transaction.OwnerEmail], transactionJSON)
	}
	_, err := t.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for ownerEmail, values := range byOwner {
			pipe.RPush(ctx, getOwnerTransactionsKey(ownerEmail), values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	return nil
}

func (t *TransactionStorage) ListTransactions(ctx context.Context, ownerEmail string) ([]model.Transaction, error) {
	transactionsRaw, err := t.rdb.LRange(ctx, getOwnerTransactionsKey(ownerEmail), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions of %s: %w", ownerEmail, err)
	}
	transactions := make([]model.Transaction, 0, len(transactionsRaw))
	for _, transactionRaw := range transactionsRaw {
		var transactionInt transactionInternal
		if err = json.Unmarshal([]byte(transactionRaw), &transactionInt); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
		}
		transaction := model.Transaction(transactionInt)
		transaction.OwnerEmail = ownerEmail
		transactions = append(transactions, transaction)
	}
	return transactions, nil
}

func getOwnerTransactionsKey(ownerEmail string) string {
	return fmt.Sprintf("transactions_%v", ownerEmail)
}
