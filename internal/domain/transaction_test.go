package domain

import (
	"testing"
)

func TestTransactionTypeIsValid(t *testing.T) {
	tests := []struct {
		txType   TransactionType
		expected bool
	}{
		{TransactionTypeIncome, true},
		{TransactionTypeExpense, true},
		{"INCOME", false},
		{"transfer", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.txType), func(t *testing.T) {
			if got := tt.txType.IsValid(); got != tt.expected {
				t.Errorf("TransactionType(%q).IsValid() = %v, want %v", tt.txType, got, tt.expected)
			}
		})
	}
}

func TestSignedAmount(t *testing.T) {
	income := &Transaction{Type: TransactionTypeIncome, Amount: NewMoney(1500, "BRL")}
	expense := &Transaction{Type: TransactionTypeExpense, Amount: NewMoney(1500, "BRL")}

	if got := income.SignedAmount(); !got.Equal(NewMoney(1500, "BRL")) {
		t.Errorf("income signed amount = %s, want 15.00", got)
	}
	if got := expense.SignedAmount(); !got.Equal(NewMoney(-1500, "BRL")) {
		t.Errorf("expense signed amount = %s, want -15.00", got)
	}
}

func TestCategoryAccepts(t *testing.T) {
	untyped := Category{Name: "Misc"}
	food := Category{Name: "Food", Type: TransactionTypeExpense}

	if !untyped.Accepts(TransactionTypeIncome) || !untyped.Accepts(TransactionTypeExpense) {
		t.Error("untyped category should accept both types")
	}
	if !food.Accepts(TransactionTypeExpense) {
		t.Error("expense category should accept expenses")
	}
	if food.Accepts(TransactionTypeIncome) {
		t.Error("expense category should reject income")
	}
}
