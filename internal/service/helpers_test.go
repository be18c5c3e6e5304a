package service

import (
	"fmt"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
)

func brl(minor int64) domain.Money {
	return domain.NewMoney(minor, "BRL")
}

func newTx(id string, txType domain.TransactionType, minor int64, category string, occurredAt time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:          id,
		Type:        txType,
		Amount:      brl(minor),
		Description: "tx " + id,
		Category:    domain.Category{Name: category},
		OccurredAt:  occurredAt,
	}
}

// sequentialTxs returns n expenses one day apart, t1 oldest
func sequentialTxs(n int) []*domain.Transaction {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	txs := make([]*domain.Transaction, 0, n)
	for i := 1; i <= n; i++ {
		txs = append(txs, newTx(fmt.Sprintf("t%d", i), domain.TransactionTypeExpense, int64(i*100), "Food", base.AddDate(0, 0, i-1)))
	}
	return txs
}

func ids(txs []*domain.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, tx := range txs {
		out = append(out, tx.ID)
	}
	return out
}
