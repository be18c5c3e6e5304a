package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
)

// Layouts the finance API uses for timestamps. Naive timestamps are UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

const (
	queryDateLayout  = "2006-01-02"
	submitTimeLayout = "2006-01-02T15:04:05"
)

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// amountDTO accepts {"amount": "10.00", "currency": "BRL"} as well as a bare number or string
type amountDTO struct {
	Amount   json.RawMessage `json:"amount"`
	Currency string          `json:"currency,omitempty"`
}

func (a *amountDTO) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		type plain amountDTO
		var p plain
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return err
		}
		*a = amountDTO(p)
		return nil
	}
	a.Amount = append(json.RawMessage(nil), trimmed...)
	return nil
}

func (a amountDTO) toMoney(fallbackCurrency string) (domain.Money, error) {
	amount, err := domain.DecimalFromJSON(a.Amount)
	if err != nil {
		return domain.Money{}, err
	}
	code := a.Currency
	if code == "" {
		code = fallbackCurrency
	}
	return domain.FromDecimal(amount, code)
}

// categoryDTO accepts {"name": "Food"} or a bare "Food"
type categoryDTO struct {
	ID   json.RawMessage `json:"id,omitempty"`
	Name string          `json:"name"`
	Type string          `json:"type,omitempty"`
}

func (c *categoryDTO) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &c.Name)
	}
	type plain categoryDTO
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*c = categoryDTO(p)
	return nil
}

type transactionDTO struct {
	ID          json.RawMessage `json:"id"`
	Type        string          `json:"type"`
	Amount      amountDTO       `json:"amount"`
	Description string          `json:"description"`
	Category    categoryDTO     `json:"category"`
	OccurredAt  string          `json:"occurred_at"`
}

func (dto *transactionDTO) toDomain(fallbackCurrency string) (*domain.Transaction, error) {
	id := rawID(dto.ID)

	txType := domain.TransactionType(strings.ToLower(dto.Type))
	if !txType.IsValid() {
		return nil, fmt.Errorf("transaction %s: %w: %q", id, domain.ErrInvalidTransactionType, dto.Type)
	}

	amount, err := dto.Amount.toMoney(fallbackCurrency)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", id, err)
	}

	occurredAt, err := parseTimestamp(dto.OccurredAt)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", id, err)
	}

	return &domain.Transaction{
		ID:          id,
		Type:        txType,
		Amount:      amount,
		Description: dto.Description,
		Category: domain.Category{
			ID:   rawID(dto.Category.ID),
			Name: dto.Category.Name,
			Type: domain.TransactionType(strings.ToLower(dto.Category.Type)),
		},
		OccurredAt: occurredAt,
	}, nil
}

// createTransactionRequest is the body POSTed to /api/transactions
type createTransactionRequest struct {
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	Category    string `json:"category"`
	OccurredAt  string `json:"occurred_at,omitempty"`
}

func newCreateTransactionRequest(draft *domain.TransactionDraft) createTransactionRequest {
	req := createTransactionRequest{
		Type:        string(draft.Type),
		Amount:      draft.Amount.String(),
		Currency:    draft.Amount.Currency(),
		Description: draft.Description,
		Category:    draft.Category.Name,
	}
	if draft.OccurredAt != nil {
		req.OccurredAt = draft.OccurredAt.UTC().Format(submitTimeLayout)
	}
	return req
}

// Remote investment type names
var investmentTypes = map[string]domain.InvestmentType{
	"renda_fixa":     domain.InvestmentTypeFixedIncome,
	"renda_variavel": domain.InvestmentTypeEquity,
	"fundo":          domain.InvestmentTypeFund,
	"criptomoeda":    domain.InvestmentTypeCrypto,
	"outro":          domain.InvestmentTypeOther,
}

type investmentDTO struct {
	ID            json.RawMessage `json:"id"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	InitialAmount amountDTO       `json:"initial_amount"`
	MonthlyRate   json.RawMessage `json:"monthly_rate"`
	StartDate     string          `json:"start_date"`
	CreatedAt     string          `json:"created_at"`
}

func (dto *investmentDTO) toDomain(fallbackCurrency string) (*domain.Investment, error) {
	id := rawID(dto.ID)

	invType, ok := investmentTypes[strings.ToLower(dto.Type)]
	if !ok {
		invType = domain.InvestmentType(strings.ToLower(dto.Type))
		switch invType {
		case domain.InvestmentTypeFixedIncome, domain.InvestmentTypeEquity, domain.InvestmentTypeFund,
			domain.InvestmentTypeCrypto:
		default:
			invType = domain.InvestmentTypeOther
		}
	}

	initial, err := dto.InitialAmount.toMoney(fallbackCurrency)
	if err != nil {
		return nil, fmt.Errorf("investment %s: %w", id, err)
	}

	rate, err := domain.DecimalFromJSON(dto.MonthlyRate)
	if err != nil {
		return nil, fmt.Errorf("investment %s: monthly rate: %w", id, err)
	}

	started := dto.StartDate
	if started == "" {
		started = dto.CreatedAt
	}
	createdAt, err := parseTimestamp(started)
	if err != nil {
		return nil, fmt.Errorf("investment %s: %w", id, err)
	}

	return &domain.Investment{
		ID:            id,
		Name:          dto.Name,
		Type:          invType,
		InitialAmount: initial,
		MonthlyRate:   rate,
		CreatedAt:     createdAt,
	}, nil
}

// rawID renders a JSON id that may be a number or a string
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
