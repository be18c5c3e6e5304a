package service

import (
	"fmt"
	"slices"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
)

// FilterByPeriod keeps the transactions inside r, preserving their order
func FilterByPeriod(transactions []*domain.Transaction, r domain.DateRange) []*domain.Transaction {
	filtered := make([]*domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if Matches(tx.OccurredAt, r.Start, r.End) {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}

// ComputeTotals sums income and expense. The running totals start at zero in
// currency; an empty currency is taken from the first transaction. Any
// transaction in another currency fails with ErrMixedCurrency.
func ComputeTotals(currency string, transactions []*domain.Transaction) (domain.Totals, error) {
	if currency == "" && len(transactions) > 0 {
		currency = transactions[0].Amount.Currency()
	}

	income := domain.Zero(currency)
	expense := domain.Zero(currency)

	for _, tx := range transactions {
		var err error
		switch tx.Type {
		case domain.TransactionTypeIncome:
			income, err = income.Add(tx.Amount)
		case domain.TransactionTypeExpense:
			expense, err = expense.Add(tx.Amount)
		default:
			err = domain.ErrInvalidTransactionType
		}
		if err != nil {
			return domain.Totals{}, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
	}

	// balance = income - expense
	balance, err := income.Sub(expense)
	if err != nil {
		return domain.Totals{}, err
	}

	return domain.Totals{
		Income:  income,
		Expense: expense,
		Balance: balance,
	}, nil
}

// RecentN returns the n most recent transactions, most recent first.
// Among equal timestamps the later entry in the input counts as more recent.
func RecentN(transactions []*domain.Transaction, n int) []*domain.Transaction {
	if n <= 0 {
		return []*domain.Transaction{}
	}

	ordered := append(make([]*domain.Transaction, 0, len(transactions)), transactions...)
	slices.SortStableFunc(ordered, func(a, b *domain.Transaction) int {
		return a.OccurredAt.Compare(b.OccurredAt)
	})

	if len(ordered) > n {
		ordered = ordered[len(ordered)-n:]
	}
	slices.Reverse(ordered)

	return ordered
}
