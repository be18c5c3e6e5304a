package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/charts"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
)

// ReportService groups a session's transactions for the report endpoints
type ReportService struct {
	snapshots *SnapshotService
	periods   *PeriodFilter
	currency  string
}

// NewReportService creates a new ReportService
func NewReportService(snapshots *SnapshotService, periods *PeriodFilter, currency string) *ReportService {
	return &ReportService{
		snapshots: snapshots,
		periods:   periods,
		currency:  currency,
	}
}

// ReportQuery selects the transactions a report covers. An empty Type keeps
// both incomes and expenses.
type ReportQuery struct {
	Period domain.PeriodSelection
	Type   domain.TransactionType
}

// transactions returns the session's transactions matching q
func (s *ReportService) transactions(ctx context.Context, sessionKey string, q ReportQuery, now time.Time) ([]*domain.Transaction, error) {
	if q.Type != "" && !q.Type.IsValid() {
		return nil, domain.ErrInvalidTransactionType
	}
	r, err := s.periods.Resolve(q.Period, now)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshots.Current(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	return FilterByType(FilterByPeriod(snap.Transactions, r), q.Type), nil
}

// ByCategory returns the signed net per category
func (s *ReportService) ByCategory(ctx context.Context, sessionKey string, q ReportQuery, now time.Time) (map[string]domain.Money, error) {
	txs, err := s.transactions(ctx, sessionKey, q, now)
	if err != nil {
		return nil, err
	}
	return GroupByCategory(txs)
}

// ByMonth returns the signed net per month
func (s *ReportService) ByMonth(ctx context.Context, sessionKey string, q ReportQuery, now time.Time) (map[string]domain.Money, error) {
	txs, err := s.transactions(ctx, sessionKey, q, now)
	if err != nil {
		return nil, err
	}
	return GroupByMonth(txs, s.periods.Location())
}

// MonthlyByCategory returns category nets nested under their month
func (s *ReportService) MonthlyByCategory(ctx context.Context, sessionKey string, q ReportQuery, now time.Time) (map[string]map[string]domain.Money, error) {
	txs, err := s.transactions(ctx, sessionKey, q, now)
	if err != nil {
		return nil, err
	}
	return MonthlyByCategory(txs, s.periods.Location())
}

// CategoryByMonth returns the monthly nets of one category
func (s *ReportService) CategoryByMonth(ctx context.Context, sessionKey string, category string, q ReportQuery, now time.Time) (map[string]domain.Money, error) {
	txs, err := s.transactions(ctx, sessionKey, q, now)
	if err != nil {
		return nil, err
	}
	return CategoryByMonth(txs, category, s.periods.Location())
}

// AvailableMonths lists the months that have transactions, oldest first
func (s *ReportService) AvailableMonths(ctx context.Context, sessionKey string) ([]string, error) {
	snap, err := s.snapshots.Current(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	return AvailableMonths(snap.Transactions, s.periods.Location()), nil
}

// SummaryByMonth returns income, expense and balance per month
func (s *ReportService) SummaryByMonth(ctx context.Context, sessionKey string, q ReportQuery, now time.Time) (map[string]domain.Totals, error) {
	txs, err := s.transactions(ctx, sessionKey, q, now)
	if err != nil {
		return nil, err
	}
	return SummaryByMonth(s.currency, txs, s.periods.Location())
}

// TopCategories ranks the categories moving the most money, at most limit of them
func (s *ReportService) TopCategories(ctx context.Context, sessionKey string, q ReportQuery, limit int, now time.Time) ([]domain.CategoryTotal, error) {
	if limit < 1 || limit > domain.MaxTopCategories {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidInput, domain.MaxTopCategories)
	}
	txs, err := s.transactions(ctx, sessionKey, q, now)
	if err != nil {
		return nil, err
	}
	return TopCategories(txs, limit)
}

// YearlySummary returns the monthly and yearly totals of year. A zero year
// means the current year in the report timezone.
func (s *ReportService) YearlySummary(ctx context.Context, sessionKey string, year int, now time.Time) (*domain.YearlySummary, error) {
	if year == 0 {
		year = now.In(s.location()).Year()
	}
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: year must be between 1 and 9999", domain.ErrInvalidInput)
	}
	snap, err := s.snapshots.Current(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	return SummarizeYear(s.currency, snap.Transactions, year, s.periods.Location())
}

// CategoryTrend returns the monthly nets of category over its last months active months
func (s *ReportService) CategoryTrend(ctx context.Context, sessionKey string, category string, months int) ([]domain.MonthNet, error) {
	if months < 1 || months > domain.MaxTrendMonths {
		return nil, fmt.Errorf("%w: months must be between 1 and %d", domain.ErrInvalidInput, domain.MaxTrendMonths)
	}
	snap, err := s.snapshots.Current(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	return CategoryTrend(snap.Transactions, category, months, s.periods.Location())
}

func (s *ReportService) location() *time.Location {
	if loc := s.periods.Location(); loc != nil {
		return loc
	}
	return time.UTC
}

// MonthChart renders the monthly nets as a PNG bar chart
func (s *ReportService) MonthChart(ctx context.Context, sessionKey string, q ReportQuery, now time.Time) ([]byte, error) {
	nets, err := s.ByMonth(ctx, sessionKey, q, now)
	if err != nil {
		return nil, err
	}
	if len(nets) == 0 {
		return nil, domain.ErrNotFound
	}
	return charts.RenderMonthlyNets(nets)
}
