package model

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypeDebit  = TransactionType("debit")
	TransactionTypeCredit = TransactionType("credit")
)

type Transaction struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	OwnerEmail  string          `db:"owner_email" json:"-"`
	Date        string          `db:"date" json:"date"`
	Description string          `db:"description" json:"description"`
	Amount      float64         `db:"amount" json:"amount"`
	Category    string          `db:"category" json:"category"`
	Type        TransactionType `db:"type" json:"type"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

type Wallets struct {
	Normal    float64 `json:"normal"`
	Cashback  float64 `json:"cashback"`
	Emergency float64 `json:"emergency"`
}

func (w Wallets) Total() float64 {
	return w.Normal + w.Cashback + w.Emergency
}
