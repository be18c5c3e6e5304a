package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository over the finance API
type TransactionRepository struct {
	client *Client
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(client *Client) *TransactionRepository {
	return &TransactionRepository{client: client}
}

// List fetches transactions. Bounds are sent as calendar dates so the remote
// result may include a few transactions outside [start, end] on the edge days.
func (r *TransactionRepository) List(ctx context.Context, start, end *time.Time) ([]*domain.Transaction, error) {
	query := url.Values{}
	if start != nil {
		query.Set("start_date", start.Format(queryDateLayout))
	}
	if end != nil {
		query.Set("end_date", end.Format(queryDateLayout))
	}

	var dtos []transactionDTO
	if err := r.client.do(ctx, request{method: http.MethodGet, path: "/api/transactions", query: query}, &dtos); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	transactions := make([]*domain.Transaction, 0, len(dtos))
	for i := range dtos {
		tx, err := dtos[i].toDomain(r.client.currency)
		if err != nil {
			return nil, fmt.Errorf("list transactions: %w", err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// Create submits a draft and returns the stored transaction
func (r *TransactionRepository) Create(ctx context.Context, draft *domain.TransactionDraft) (*domain.Transaction, error) {
	req := request{
		method: http.MethodPost,
		path:   "/api/transactions",
		body:   newCreateTransactionRequest(draft),
	}
	if draft.IdempotencyKey != "" {
		req.headers = map[string]string{"Idempotency-Key": draft.IdempotencyKey}
	}

	var dto transactionDTO
	if err := r.client.do(ctx, req, &dto); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	tx, err := dto.toDomain(r.client.currency)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return tx, nil
}

// Delete removes a transaction by id
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	err := r.client.do(ctx, request{method: http.MethodDelete, path: "/api/transactions/" + url.PathEscape(id)}, nil)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("delete transaction %s: %w", id, domain.ErrTransactionNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return nil
}
