package domain

import (
	"context"
	"time"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid reports whether t is income or expense
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a read-only snapshot of a remote transaction
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      Money           `json:"amount"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	OccurredAt  time.Time       `json:"occurredAt"`
}

// SignedAmount is the amount with income positive and expense negative
func (t *Transaction) SignedAmount() Money {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// TransactionDraft is a validated transaction ready to be submitted to the remote store
type TransactionDraft struct {
	Type        TransactionType
	Amount      Money
	Description string
	Category    Category
	OccurredAt  *time.Time
	// IdempotencyKey lets the remote store drop duplicate submissions
	IdempotencyKey string
}

// TransactionRepository is the remote store of transactions.
// Start and end are optional inclusive bounds.
type TransactionRepository interface {
	List(ctx context.Context, start, end *time.Time) ([]*Transaction, error)
	Create(ctx context.Context, draft *TransactionDraft) (*Transaction, error)
	Delete(ctx context.Context, id string) error
}
