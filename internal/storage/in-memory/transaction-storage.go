package in_memory

import (
	"context"
	"slices"
	"sync"

	"github.com/iamvkosarev/fintrack/internal/model"
)

type TransactionStorage struct {
	mu           sync.RWMutex
	transactions map[string][]model.Transaction
}

func NewTransactionStorage() *TransactionStorage {
	return &TransactionStorage{
		transactions: make(map[string][]model.Transaction),
	}
}

func (t *TransactionStorage) AddTransactions(_ context.Context, transactions ...model.Transaction) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, transaction := range transactions {
		t.transactions[transaction.OwnerEmail] = append(t.transactions[transaction.OwnerEmail], transaction)
	}
	return nil
}

// ListTransactions returns the owner's transactions in insertion order.
func (t *TransactionStorage) ListTransactions(_ context.Context, ownerEmail string) ([]model.Transaction, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	transactions := slices.Clone(t.transactions[ownerEmail])
	if transactions == nil {
		transactions = make([]model.Transaction, 0)
	}
	return transactions, nil
}
