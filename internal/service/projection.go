package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/util"
	"github.com/shopspring/decimal"
)

var minusOne = decimal.NewFromInt(-1)

// Project simulates compound growth with a fixed monthly contribution.
// Each month the prior balance grows by monthlyRate (rounded half-to-even to the
// minor unit) and only then is the contribution added.
func Project(initial, contribution domain.Money, monthlyRate decimal.Decimal, months int) (*domain.Projection, error) {
	if months <= 0 || months > domain.MaxSimulationMonths {
		return nil, fmt.Errorf("%w: months must be between 1 and %d", domain.ErrInvalidSimulationInput, domain.MaxSimulationMonths)
	}

	contributions := make([]domain.Money, months)
	for i := range contributions {
		contributions[i] = contribution
	}
	return simulate(initial, contributions, monthlyRate)
}

// ProjectVariable simulates compound growth with one contribution per month
func ProjectVariable(initial domain.Money, contributions []domain.Money, monthlyRate decimal.Decimal) (*domain.Projection, error) {
	if len(contributions) == 0 || len(contributions) > domain.MaxSimulationMonths {
		return nil, fmt.Errorf("%w: between 1 and %d contributions required", domain.ErrInvalidSimulationInput, domain.MaxSimulationMonths)
	}
	return simulate(initial, contributions, monthlyRate)
}

// CompareScenarios runs one fixed-contribution projection per contribution value,
// keyed "contribution_<amount>"
func CompareScenarios(initial domain.Money, contributions []domain.Money, monthlyRate decimal.Decimal, months int) (map[string]*domain.Projection, error) {
	if len(contributions) == 0 {
		return nil, fmt.Errorf("%w: at least one contribution required", domain.ErrInvalidSimulationInput)
	}

	scenarios := make(map[string]*domain.Projection, len(contributions))
	for _, contribution := range contributions {
		projection, err := Project(initial, contribution, monthlyRate, months)
		if err != nil {
			return nil, err
		}
		scenarios["contribution_"+contribution.String()] = projection
	}
	return scenarios, nil
}

func simulate(initial domain.Money, contributions []domain.Money, monthlyRate decimal.Decimal) (*domain.Projection, error) {
	if monthlyRate.LessThanOrEqual(minusOne) {
		return nil, fmt.Errorf("%w: monthly rate must be greater than -100%%", domain.ErrInvalidSimulationInput)
	}
	if initial.IsNegative() {
		return nil, fmt.Errorf("%w: initial amount must not be negative", domain.ErrInvalidSimulationInput)
	}

	growth := decimal.NewFromInt(1).Add(monthlyRate)
	balance := initial
	contributed := domain.Zero(initial.Currency())
	schedule := make([]domain.ProjectionRow, 0, len(contributions))

	for i, contribution := range contributions {
		if contribution.IsNegative() {
			return nil, fmt.Errorf("%w: contribution must not be negative", domain.ErrInvalidSimulationInput)
		}

		grown, err := balance.MulFraction(growth)
		if err != nil {
			return nil, fmt.Errorf("month %d: %w", i+1, err)
		}
		if balance, err = grown.Add(contribution); err != nil {
			return nil, fmt.Errorf("month %d: %w", i+1, err)
		}
		if contributed, err = contributed.Add(contribution); err != nil {
			return nil, fmt.Errorf("month %d: %w", i+1, err)
		}

		profit, err := profitOf(balance, initial, contributed)
		if err != nil {
			return nil, fmt.Errorf("month %d: %w", i+1, err)
		}

		schedule = append(schedule, domain.ProjectionRow{
			Month:              i + 1,
			Contribution:       contribution,
			AccumulatedBalance: balance,
			Profit:             profit,
		})
	}

	totalProfit, err := profitOf(balance, initial, contributed)
	if err != nil {
		return nil, err
	}

	return &domain.Projection{
		InitialAmount:    initial,
		MonthlyRate:      monthlyRate,
		Months:           len(contributions),
		TotalContributed: contributed,
		FinalBalance:     balance,
		TotalProfit:      totalProfit,
		Schedule:         schedule,
	}, nil
}

// profitOf returns balance - initial - contributed
func profitOf(balance, initial, contributed domain.Money) (domain.Money, error) {
	profit, err := balance.Sub(initial)
	if err != nil {
		return domain.Money{}, err
	}
	return profit.Sub(contributed)
}

// ProfitPercentage returns profit / base as a fraction rounded to 4 decimal places.
// A zero base yields 0 together with ErrDivisionByZero.
func ProfitPercentage(profit, base domain.Money) (decimal.Decimal, error) {
	if base.IsZero() {
		return decimal.Zero, domain.ErrDivisionByZero
	}
	if profit.Currency() != base.Currency() {
		return decimal.Zero, fmt.Errorf("%w: %s and %s", domain.ErrMixedCurrency, profit.Currency(), base.Currency())
	}
	return profit.Decimal().Div(base.Decimal()).Round(4), nil
}

// Valuate compounds an investment's initial amount over the whole months elapsed
// since it was created. No contributions are assumed and, unlike a simulation,
// the horizon is unbounded. Remote data that cannot be compounded yields
// ErrInvalidInvestment.
func Valuate(investment *domain.Investment, now time.Time) (*domain.Valuation, error) {
	switch {
	case investment.CreatedAt.IsZero():
		return nil, fmt.Errorf("%w: missing creation date", domain.ErrInvalidInvestment)
	case investment.InitialAmount.IsNegative():
		return nil, fmt.Errorf("%w: negative initial amount", domain.ErrInvalidInvestment)
	case investment.MonthlyRate.LessThanOrEqual(minusOne):
		return nil, fmt.Errorf("%w: monthly rate must be greater than -100%%", domain.ErrInvalidInvestment)
	}

	elapsed := util.ElapsedMonths(investment.CreatedAt, now)
	current, err := compound(investment.InitialAmount, decimal.NewFromInt(1).Add(investment.MonthlyRate), elapsed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInvestment, err)
	}

	profit, err := current.Sub(investment.InitialAmount)
	if err != nil {
		return nil, err
	}

	percentage, err := ProfitPercentage(profit, investment.InitialAmount)
	if err != nil && !errors.Is(err, domain.ErrDivisionByZero) {
		return nil, err
	}

	return &domain.Valuation{
		Investment:       investment,
		ElapsedMonths:    elapsed,
		CurrentAmount:    current,
		Profit:           profit,
		ProfitPercentage: percentage,
	}, nil
}

// compound applies growth month by month with the same rounding as a simulation.
// Once rounding stops moving the balance every later month is identical.
func compound(balance domain.Money, growth decimal.Decimal, months int) (domain.Money, error) {
	for month := 1; month <= months; month++ {
		next, err := balance.MulFraction(growth)
		if err != nil {
			return domain.Money{}, fmt.Errorf("month %d: %w", month, err)
		}
		if next.Equal(balance) {
			break
		}
		balance = next
	}
	return balance, nil
}

// SummarizePortfolio totals valuations. Every valuation must be in currency.
func SummarizePortfolio(currency string, valuations []*domain.Valuation) (*domain.PortfolioSummary, error) {
	summary := &domain.PortfolioSummary{
		Count:             len(valuations),
		TotalInvested:     domain.Zero(currency),
		TotalCurrentValue: domain.Zero(currency),
		TotalProfit:       domain.Zero(currency),
	}

	for _, v := range valuations {
		var err error
		if summary.TotalInvested, err = summary.TotalInvested.Add(v.Investment.InitialAmount); err != nil {
			return nil, fmt.Errorf("investment %s: %w", v.Investment.ID, err)
		}
		if summary.TotalCurrentValue, err = summary.TotalCurrentValue.Add(v.CurrentAmount); err != nil {
			return nil, fmt.Errorf("investment %s: %w", v.Investment.ID, err)
		}
	}

	profit, err := summary.TotalCurrentValue.Sub(summary.TotalInvested)
	if err != nil {
		return nil, err
	}
	summary.TotalProfit = profit

	return summary, nil
}
