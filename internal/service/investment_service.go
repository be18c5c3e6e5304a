package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/charts"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// InvestmentService values the session's investments and runs simulations
type InvestmentService struct {
	snapshots *SnapshotService
	currency  string
}

// NewInvestmentService creates a new InvestmentService
func NewInvestmentService(snapshots *SnapshotService, currency string) *InvestmentService {
	return &InvestmentService{
		snapshots: snapshots,
		currency:  currency,
	}
}

// SimulationInput describes a fixed-contribution projection.
// Amounts are decimal strings in the service currency.
type SimulationInput struct {
	InitialAmount       string
	MonthlyContribution string
	MonthlyRate         decimal.Decimal
	Months              int
}

// VariableSimulationInput describes a projection with one contribution per month
type VariableSimulationInput struct {
	InitialAmount string
	Contributions []string
	MonthlyRate   decimal.Decimal
}

// CompareInput describes one projection per contribution value
type CompareInput struct {
	InitialAmount string
	Contributions []string
	MonthlyRate   decimal.Decimal
	Months        int
}

// Portfolio is every valuation plus their totals
type Portfolio struct {
	Valuations []*domain.Valuation      `json:"valuations"`
	Summary    *domain.PortfolioSummary `json:"summary"`
}

// GetPortfolio values every investment of the session at now, oldest first
func (s *InvestmentService) GetPortfolio(ctx context.Context, sessionKey string, now time.Time) (*Portfolio, error) {
	snap, err := s.snapshots.Current(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	return s.portfolioOf(snap.Investments, now)
}

// portfolioOf values every investment it can. An investment in another currency
// or with remote data that cannot be compounded is skipped and reported rather
// than failing the whole portfolio.
func (s *InvestmentService) portfolioOf(investments []*domain.Investment, now time.Time) (*Portfolio, error) {
	valuations := make([]*domain.Valuation, 0, len(investments))
	skipped := make([]domain.SkippedInvestment, 0)
	for _, inv := range investments {
		v, err := s.valuate(inv, now)
		if err != nil {
			log.Warn().Err(err).Str("investment_id", inv.ID).Msg("Skipping investment")
			skipped = append(skipped, domain.SkippedInvestment{ID: inv.ID, Name: inv.Name, Reason: err.Error()})
			continue
		}
		valuations = append(valuations, v)
	}
	sort.SliceStable(valuations, func(i, j int) bool {
		return valuations[i].Investment.CreatedAt.Before(valuations[j].Investment.CreatedAt)
	})

	summary, err := SummarizePortfolio(s.currency, valuations)
	if err != nil {
		return nil, err
	}
	summary.Skipped = skipped
	return &Portfolio{Valuations: valuations, Summary: summary}, nil
}

func (s *InvestmentService) valuate(inv *domain.Investment, now time.Time) (*domain.Valuation, error) {
	if c := inv.InitialAmount.Currency(); c != s.currency {
		return nil, fmt.Errorf("%w: %s and %s", domain.ErrMixedCurrency, c, s.currency)
	}
	return Valuate(inv, now)
}

// Simulate runs a fixed-contribution projection
func (s *InvestmentService) Simulate(input SimulationInput) (*domain.Projection, error) {
	initial, err := s.parseAmount("initial amount", input.InitialAmount)
	if err != nil {
		return nil, err
	}
	contribution, err := s.parseAmount("monthly contribution", input.MonthlyContribution)
	if err != nil {
		return nil, err
	}
	return Project(initial, contribution, input.MonthlyRate, input.Months)
}

// SimulateVariable runs a projection with one contribution per month
func (s *InvestmentService) SimulateVariable(input VariableSimulationInput) (*domain.Projection, error) {
	initial, err := s.parseAmount("initial amount", input.InitialAmount)
	if err != nil {
		return nil, err
	}
	contributions, err := s.parseAmounts(input.Contributions)
	if err != nil {
		return nil, err
	}
	return ProjectVariable(initial, contributions, input.MonthlyRate)
}

// Compare runs one fixed-contribution projection per contribution value
func (s *InvestmentService) Compare(input CompareInput) (map[string]*domain.Projection, error) {
	initial, err := s.parseAmount("initial amount", input.InitialAmount)
	if err != nil {
		return nil, err
	}
	contributions, err := s.parseAmounts(input.Contributions)
	if err != nil {
		return nil, err
	}
	return CompareScenarios(initial, contributions, input.MonthlyRate, input.Months)
}

// SimulationChart runs Simulate and renders the result as a PNG line chart
func (s *InvestmentService) SimulationChart(input SimulationInput) ([]byte, error) {
	projection, err := s.Simulate(input)
	if err != nil {
		return nil, err
	}
	return charts.RenderProjection(projection)
}

// parseAmount reads a simulation amount; empty means zero
func (s *InvestmentService) parseAmount(field, raw string) (domain.Money, error) {
	if raw == "" {
		return domain.Zero(s.currency), nil
	}
	m, err := domain.ParseMoney(raw, s.currency)
	if err != nil {
		return domain.Money{}, fmt.Errorf("%w: %s: %v", domain.ErrInvalidSimulationInput, field, err)
	}
	return m, nil
}

func (s *InvestmentService) parseAmounts(raw []string) ([]domain.Money, error) {
	amounts := make([]domain.Money, 0, len(raw))
	for i, r := range raw {
		m, err := s.parseAmount(fmt.Sprintf("contribution %d", i+1), r)
		if err != nil {
			return nil, err
		}
		amounts = append(amounts, m)
	}
	return amounts, nil
}
