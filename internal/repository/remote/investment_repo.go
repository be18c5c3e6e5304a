package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
)

// InvestmentRepository implements domain.InvestmentRepository over the finance API
type InvestmentRepository struct {
	client *Client
}

// NewInvestmentRepository creates a new InvestmentRepository
func NewInvestmentRepository(client *Client) *InvestmentRepository {
	return &InvestmentRepository{client: client}
}

// List fetches every investment of the caller
func (r *InvestmentRepository) List(ctx context.Context) ([]*domain.Investment, error) {
	var dtos []investmentDTO
	if err := r.client.do(ctx, request{method: http.MethodGet, path: "/api/investments"}, &dtos); err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}

	investments := make([]*domain.Investment, 0, len(dtos))
	for i := range dtos {
		inv, err := dtos[i].toDomain(r.client.currency)
		if err != nil {
			return nil, fmt.Errorf("list investments: %w", err)
		}
		investments = append(investments, inv)
	}
	return investments, nil
}
