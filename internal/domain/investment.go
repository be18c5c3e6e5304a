package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type InvestmentType string

const (
	InvestmentTypeFixedIncome InvestmentType = "fixed_income"
	InvestmentTypeEquity      InvestmentType = "equity"
	InvestmentTypeFund        InvestmentType = "fund"
	InvestmentTypeCrypto      InvestmentType = "crypto"
	InvestmentTypeOther       InvestmentType = "other"
)

// Investment is a read-only snapshot of a remote investment.
// MonthlyRate is a fraction: 0.008 means 0.8% per month.
type Investment struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Type          InvestmentType  `json:"type"`
	InitialAmount Money           `json:"initialAmount"`
	MonthlyRate   decimal.Decimal `json:"monthlyRate"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type InvestmentRepository interface {
	List(ctx context.Context) ([]*Investment, error)
}
