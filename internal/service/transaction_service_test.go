package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransactionService(f *snapshotFixture) *TransactionService {
	svc := NewTransactionService(f.transactions, f.service, NewPeriodFilter(time.UTC, false), "BRL", "pt-BR")
	svc.SetEventPublisher(f.publisher)
	return svc
}

func TestCreateTransaction_Success(t *testing.T) {
	f := newSnapshotFixture(time.Hour)
	svc := newTransactionService(f)
	occurred := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)

	tx, err := svc.CreateTransaction(context.Background(), "tok:alice", CreateTransactionInput{
		Type:        domain.TransactionTypeExpense,
		Amount:      "150.00",
		Description: "  Groceries ",
		Category:    "Food",
		OccurredAt:  &occurred,
	})
	require.NoError(t, err)

	assert.Equal(t, "Groceries", tx.Description)
	assert.True(t, tx.Amount.Equal(brl(15000)))
	assert.Equal(t, domain.TransactionTypeExpense, tx.Type)

	require.Len(t, f.transactions.Drafts, 1)
	assert.NotEmpty(t, f.transactions.Drafts[0].IdempotencyKey, "an idempotency key is generated when missing")

	snap, ok := f.store.Get("tok:alice")
	require.True(t, ok, "snapshot is replaced after create")
	assert.Len(t, snap.Transactions, 1)

	assert.Equal(t, []string{"snapshot.replaced", "snapshot.replaced", "transaction.created"}, f.publisher.Types())
}

func TestCreateTransaction_LocaleFormattedAmount(t *testing.T) {
	f := newSnapshotFixture(time.Hour)
	svc := newTransactionService(f)

	tx, err := svc.CreateTransaction(context.Background(), "tok:alice", CreateTransactionInput{
		Type:        domain.TransactionTypeIncome,
		Amount:      "R$ 1.234,50",
		Description: "Freelance",
		Category:    "Work",
	})
	require.NoError(t, err)
	assert.True(t, tx.Amount.Equal(brl(123450)))
}

func TestCreateTransaction_KeepsIdempotencyKey(t *testing.T) {
	f := newSnapshotFixture(time.Hour)
	svc := newTransactionService(f)

	_, err := svc.CreateTransaction(context.Background(), "tok:alice", CreateTransactionInput{
		Type:           domain.TransactionTypeIncome,
		Amount:         "10",
		Description:    "Gift",
		Category:       "Other",
		IdempotencyKey: "client-key",
	})
	require.NoError(t, err)
	assert.Equal(t, "client-key", f.transactions.Drafts[0].IdempotencyKey)
}

func TestCreateTransaction_Validation(t *testing.T) {
	valid := CreateTransactionInput{
		Type:        domain.TransactionTypeExpense,
		Amount:      "10.00",
		Description: "Lunch",
		Category:    "Food",
	}

	tests := []struct {
		name    string
		modify  func(in *CreateTransactionInput)
		wantErr error
	}{
		{"invalid type", func(in *CreateTransactionInput) { in.Type = "transfer" }, domain.ErrInvalidTransactionType},
		{"empty description", func(in *CreateTransactionInput) { in.Description = "   " }, domain.ErrDescriptionRequired},
		{"long description", func(in *CreateTransactionInput) { in.Description = strings.Repeat("a", domain.MaxDescriptionLength+1) }, domain.ErrDescriptionTooLong},
		{"empty category", func(in *CreateTransactionInput) { in.Category = "" }, domain.ErrCategoryRequired},
		{"zero amount", func(in *CreateTransactionInput) { in.Amount = "0" }, domain.ErrInvalidAmount},
		{"negative amount", func(in *CreateTransactionInput) { in.Amount = "-5" }, domain.ErrInvalidAmount},
		{"garbage amount", func(in *CreateTransactionInput) { in.Amount = "ten" }, domain.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSnapshotFixture(time.Hour)
			svc := newTransactionService(f)

			input := valid
			tt.modify(&input)

			_, err := svc.CreateTransaction(context.Background(), "tok:alice", input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			assert.Empty(t, f.transactions.Drafts, "nothing is submitted on validation failure")
		})
	}
}

func TestCreateTransaction_CategoryTypeMismatch(t *testing.T) {
	f := newSnapshotFixture(time.Hour)
	salary := newTx("1", domain.TransactionTypeIncome, 500000, "Salary", time.Now())
	salary.Category.Type = domain.TransactionTypeIncome
	f.transactions.AddTransaction(salary)
	svc := newTransactionService(f)

	_, err := svc.CreateTransaction(context.Background(), "tok:alice", CreateTransactionInput{
		Type:        domain.TransactionTypeExpense,
		Amount:      "10",
		Description: "Oops",
		Category:    "salary",
	})
	assert.ErrorIs(t, err, domain.ErrCategoryTypeMismatch)
}

func TestCreateTransaction_RemoteFailure(t *testing.T) {
	f := newSnapshotFixture(time.Hour)
	f.transactions.CreateFn = func(ctx context.Context, draft *domain.TransactionDraft) (*domain.Transaction, error) {
		return nil, domain.ErrRemoteUnavailable
	}
	svc := newTransactionService(f)

	_, err := svc.CreateTransaction(context.Background(), "tok:alice", CreateTransactionInput{
		Type:        domain.TransactionTypeExpense,
		Amount:      "10",
		Description: "Lunch",
		Category:    "Food",
	})
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	assert.NotContains(t, f.publisher.Types(), "transaction.created")
}

func TestCreateTransaction_RefreshFailureInvalidates(t *testing.T) {
	f := newSnapshotFixture(time.Hour)
	svc := newTransactionService(f)

	// prime the snapshot, then make refetches fail
	_, err := f.service.Current(context.Background(), "tok:alice")
	require.NoError(t, err)
	f.investments.ListFn = func(ctx context.Context) ([]*domain.Investment, error) {
		return nil, domain.ErrRemoteUnavailable
	}

	tx, err := svc.CreateTransaction(context.Background(), "tok:alice", CreateTransactionInput{
		Type:        domain.TransactionTypeExpense,
		Amount:      "10",
		Description: "Lunch",
		Category:    "Food",
	})
	require.NoError(t, err)
	assert.NotNil(t, tx)

	_, ok := f.store.Get("tok:alice")
	assert.False(t, ok, "stale snapshot must be dropped")
}

func TestDeleteTransaction(t *testing.T) {
	f := newSnapshotFixture(time.Hour)
	for _, tx := range sampleTxs() {
		f.transactions.AddTransaction(tx)
	}
	svc := newTransactionService(f)

	require.NoError(t, svc.DeleteTransaction(context.Background(), "tok:alice", "2"))

	snap, ok := f.store.Get("tok:alice")
	require.True(t, ok)
	assert.Len(t, snap.Transactions, 4)

	types := f.publisher.Types()
	assert.Equal(t, "transaction.deleted", types[len(types)-1])

	err := svc.DeleteTransaction(context.Background(), "tok:alice", "missing")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)

	err = svc.DeleteTransaction(context.Background(), "tok:alice", " ")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestListTransactions(t *testing.T) {
	f := newSnapshotFixture(time.Hour)
	for _, tx := range sampleTxs() {
		f.transactions.AddTransaction(tx)
	}
	svc := newTransactionService(f)
	now := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)

	txs, err := svc.ListTransactions(context.Background(), "tok:alice", domain.MonthToDate(), now)
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "4", "3"}, ids(txs))

	all, err := svc.ListTransactions(context.Background(), "tok:alice", domain.AllTime(), now)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, "5", all[0].ID)

	_, err = svc.ListTransactions(context.Background(), "tok:alice", domain.LastNDays(-1), now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListCategories(t *testing.T) {
	f := newSnapshotFixture(time.Hour)
	for _, tx := range sampleTxs() {
		f.transactions.AddTransaction(tx)
	}
	refund := newTx("9", domain.TransactionTypeIncome, 1000, "Food", time.Now())
	f.transactions.AddTransaction(refund)
	svc := newTransactionService(f)

	categories, err := svc.ListCategories(context.Background(), "tok:alice")
	require.NoError(t, err)

	assert.Equal(t, []domain.Category{
		{Name: "Food", Type: domain.TransactionTypeExpense},
		{Name: "Rent", Type: domain.TransactionTypeExpense},
		{Name: "Food", Type: domain.TransactionTypeIncome},
		{Name: "Salary", Type: domain.TransactionTypeIncome},
	}, categories)
}
