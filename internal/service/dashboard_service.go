package service

import (
	"context"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
)

// DashboardService assembles the dashboard figures for a period
type DashboardService struct {
	snapshots   *SnapshotService
	periods     *PeriodFilter
	investments *InvestmentService
	currency    string
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	snapshots *SnapshotService,
	periods *PeriodFilter,
	investments *InvestmentService,
	currency string,
) *DashboardService {
	return &DashboardService{
		snapshots:   snapshots,
		periods:     periods,
		investments: investments,
		currency:    currency,
	}
}

// GetSummary returns totals, recent activity and category nets for the
// selected period, plus the portfolio valued at now
func (s *DashboardService) GetSummary(ctx context.Context, sessionKey string, selection domain.PeriodSelection, now time.Time) (*domain.DashboardSummary, error) {
	// 1. Resolve the period before touching the remote API
	r, err := s.periods.Resolve(selection, now)
	if err != nil {
		return nil, err
	}

	// 2. One snapshot serves every figure below
	snap, err := s.snapshots.Current(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	filtered := FilterByPeriod(snap.Transactions, r)

	// 3. Totals (balance = income - expense)
	totals, err := ComputeTotals(s.currency, filtered)
	if err != nil {
		return nil, err
	}

	// 4. Category nets
	byCategory, err := GroupByCategory(filtered)
	if err != nil {
		return nil, err
	}

	// 5. Portfolio is valued over all investments regardless of period
	portfolio, err := s.investments.portfolioOf(snap.Investments, now)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardSummary{
		Period:     r,
		Totals:     totals,
		Recent:     RecentN(filtered, domain.RecentTransactionsLimit),
		ByCategory: byCategory,
		Portfolio:  portfolio.Summary,
		FetchedAt:  snap.FetchedAt,
	}, nil
}
