package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportNow = time.Date(2024, 2, 20, 10, 0, 0, 0, time.UTC)

func newReportService(t *testing.T) (*ReportService, *snapshotFixture) {
	t.Helper()
	f := newSnapshotFixture(time.Hour)
	for _, tx := range sampleTxs() {
		f.transactions.AddTransaction(tx)
	}
	return NewReportService(f.service, NewPeriodFilter(time.UTC, false), "BRL"), f
}

func TestReportService_ByCategory(t *testing.T) {
	svc, _ := newReportService(t)

	groups, err := svc.ByCategory(context.Background(), "tok:alice", ReportQuery{Period: domain.AllTime()}, reportNow)
	require.NoError(t, err)

	require.Len(t, groups, 3)
	assert.True(t, groups["Salary"].Equal(brl(1000000)))
	assert.True(t, groups["Food"].Equal(brl(-16649)))
	assert.True(t, groups["Rent"].Equal(brl(-180000)))
}

func TestReportService_ByMonthRespectsPeriod(t *testing.T) {
	svc, _ := newReportService(t)

	groups, err := svc.ByMonth(context.Background(), "tok:alice", ReportQuery{Period: domain.MonthToDate()}, reportNow)
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.True(t, groups["2024-02"].Equal(brl(315401)))
}

func TestReportService_MonthlyByCategory(t *testing.T) {
	svc, _ := newReportService(t)

	report, err := svc.MonthlyByCategory(context.Background(), "tok:alice", ReportQuery{Period: domain.AllTime()}, reportNow)
	require.NoError(t, err)

	assert.True(t, report["2024-01"]["Food"].Equal(brl(-12050)))
	assert.True(t, report["2024-02"]["Rent"].Equal(brl(-180000)))
	assert.NotContains(t, report["2024-01"], "Rent")
}

func TestReportService_CategoryByMonth(t *testing.T) {
	svc, _ := newReportService(t)

	food, err := svc.CategoryByMonth(context.Background(), "tok:alice", "Food", ReportQuery{Period: domain.AllTime()}, reportNow)
	require.NoError(t, err)
	assert.True(t, food["2024-01"].Equal(brl(-12050)))
	assert.True(t, food["2024-02"].Equal(brl(-4599)))

	unknown, err := svc.CategoryByMonth(context.Background(), "tok:alice", "Travel", ReportQuery{Period: domain.AllTime()}, reportNow)
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestReportService_AvailableMonths(t *testing.T) {
	svc, _ := newReportService(t)

	months, err := svc.AvailableMonths(context.Background(), "tok:alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01", "2024-02"}, months)
}

func TestReportService_SummaryByMonth(t *testing.T) {
	svc, _ := newReportService(t)

	summary, err := svc.SummaryByMonth(context.Background(), "tok:alice", ReportQuery{Period: domain.AllTime()}, reportNow)
	require.NoError(t, err)

	jan := summary["2024-01"]
	assert.True(t, jan.Income.Equal(brl(500000)))
	assert.True(t, jan.Expense.Equal(brl(12050)))
	assert.True(t, jan.Balance.Equal(brl(487950)))

	feb := summary["2024-02"]
	assert.True(t, feb.Expense.Equal(brl(184599)))
	assert.True(t, feb.Balance.Equal(brl(315401)))
}

func TestReportService_InvalidPeriodSkipsFetch(t *testing.T) {
	svc, f := newReportService(t)

	_, err := svc.ByCategory(context.Background(), "tok:alice", ReportQuery{Period: domain.LastNDays(-3)}, reportNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.ByMonth(context.Background(), "tok:alice", ReportQuery{Period: domain.CustomPeriod(nil, nil)}, reportNow)
	assert.ErrorIs(t, err, domain.ErrEmptyRange)

	assert.Equal(t, 0, f.transactions.ListCallCount())
}

func TestReportService_RemoteFailure(t *testing.T) {
	svc, f := newReportService(t)
	f.transactions.ListFn = func(ctx context.Context, start, end *time.Time) ([]*domain.Transaction, error) {
		return nil, domain.ErrRemoteUnavailable
	}

	_, err := svc.ByMonth(context.Background(), "tok:alice", ReportQuery{Period: domain.AllTime()}, reportNow)
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
}

func TestReportService_MonthChart(t *testing.T) {
	svc, _ := newReportService(t)

	png, err := svc.MonthChart(context.Background(), "tok:alice", ReportQuery{Period: domain.AllTime()}, reportNow)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = svc.MonthChart(context.Background(), "tok:alice", ReportQuery{Period: domain.Today()}, reportNow)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReportService_FiltersByType(t *testing.T) {
	svc, _ := newReportService(t)

	groups, err := svc.ByCategory(context.Background(), "tok:alice", ReportQuery{Period: domain.AllTime(), Type: domain.TransactionTypeExpense}, reportNow)
	require.NoError(t, err)
	assert.Len(t, groups, 2)
	assert.NotContains(t, groups, "Salary")

	summary, err := svc.SummaryByMonth(context.Background(), "tok:alice", ReportQuery{Period: domain.AllTime(), Type: domain.TransactionTypeIncome}, reportNow)
	require.NoError(t, err)
	assert.True(t, summary["2024-02"].Expense.IsZero())
	assert.True(t, summary["2024-02"].Balance.Equal(brl(500000)))
}

func TestReportService_RejectsUnknownType(t *testing.T) {
	svc, f := newReportService(t)

	_, err := svc.ByCategory(context.Background(), "tok:alice", ReportQuery{Period: domain.AllTime(), Type: "transfer"}, reportNow)
	assert.ErrorIs(t, err, domain.ErrInvalidTransactionType)
	assert.Equal(t, 0, f.transactions.ListCallCount())
}

func TestReportService_TopCategories(t *testing.T) {
	svc, f := newReportService(t)

	top, err := svc.TopCategories(context.Background(), "tok:alice", ReportQuery{Period: domain.AllTime(), Type: domain.TransactionTypeExpense}, 1, reportNow)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Rent", top[0].Category)
	assert.True(t, top[0].Total.Equal(brl(180000)))

	for _, limit := range []int{0, domain.MaxTopCategories + 1} {
		_, err = svc.TopCategories(context.Background(), "tok:bob", ReportQuery{Period: domain.AllTime()}, limit, reportNow)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Equal(t, 1, f.transactions.ListCallCount())
}

func TestReportService_YearlySummary(t *testing.T) {
	svc, _ := newReportService(t)

	current, err := svc.YearlySummary(context.Background(), "tok:alice", 0, reportNow)
	require.NoError(t, err)
	assert.Equal(t, 2024, current.Year)
	require.Len(t, current.Months, 12)
	assert.True(t, current.Totals.Income.Equal(brl(1000000)))
	assert.True(t, current.Months[0].Totals.Balance.Equal(brl(487950)))

	past, err := svc.YearlySummary(context.Background(), "tok:alice", 2023, reportNow)
	require.NoError(t, err)
	assert.True(t, past.Totals.Balance.IsZero())

	_, err = svc.YearlySummary(context.Background(), "tok:alice", 10000, reportNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReportService_CategoryTrend(t *testing.T) {
	svc, _ := newReportService(t)

	trend, err := svc.CategoryTrend(context.Background(), "tok:alice", "Food", domain.DefaultTrendMonths)
	require.NoError(t, err)
	require.Len(t, trend, 2)
	assert.Equal(t, "2024-01", trend[0].Month)
	assert.True(t, trend[0].Net.Equal(brl(-12050)))

	_, err = svc.CategoryTrend(context.Background(), "tok:alice", "Food", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
