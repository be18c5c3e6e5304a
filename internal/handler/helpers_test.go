package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/repository/snapshot"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/service"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/testutil"
	"github.com/labstack/echo/v4"
)

const testToken = "opaque-test-token"

// testAPI is the full route table wired to in-memory repositories
type testAPI struct {
	echo         *echo.Echo
	transactions *testutil.MockTransactionRepository
	investments  *testutil.MockInvestmentRepository
	publisher    *testutil.MockEventPublisher
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	api := &testAPI{
		echo:         echo.New(),
		transactions: testutil.NewMockTransactionRepository(),
		investments:  testutil.NewMockInvestmentRepository(),
		publisher:    testutil.NewMockEventPublisher(),
	}

	periods := service.NewPeriodFilter(time.UTC, false)
	snapshots := service.NewSnapshotService(api.transactions, api.investments, snapshot.NewStore(), time.Minute)
	snapshots.SetEventPublisher(api.publisher)

	transactionService := service.NewTransactionService(api.transactions, snapshots, periods, "BRL", "pt-BR")
	transactionService.SetEventPublisher(api.publisher)
	investmentService := service.NewInvestmentService(snapshots, "BRL")
	reportService := service.NewReportService(snapshots, periods, "BRL")
	dashboardService := service.NewDashboardService(snapshots, periods, investmentService, "BRL")

	rateLimiter := middleware.NewRateLimiterWithConfig(6000, 1000)
	t.Cleanup(rateLimiter.Stop)

	RegisterRoutes(api.echo, rateLimiter, Handlers{
		Dashboard:   NewDashboardHandler(dashboardService, time.UTC, "pt-BR"),
		Transaction: NewTransactionHandler(transactionService, time.UTC, "pt-BR"),
		Report:      NewReportHandler(reportService, time.UTC, "pt-BR"),
		Investment:  NewInvestmentHandler(investmentService, "pt-BR"),
	})

	return api
}

// do sends an authenticated request through the router
func (a *testAPI) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+testToken)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return a.send(req)
}

// send serves a prepared request as is
func (a *testAPI) send(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) seed(txs ...*domain.Transaction) {
	for _, tx := range txs {
		a.transactions.AddTransaction(tx)
	}
}

func brl(minor int64) domain.Money {
	return domain.NewMoney(minor, "BRL")
}

func newTx(id string, txType domain.TransactionType, minor int64, category string, occurredAt time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:          id,
		Type:        txType,
		Amount:      brl(minor),
		Description: "tx " + id,
		Category:    domain.Category{Name: category},
		OccurredAt:  occurredAt,
	}
}

// recentTxs returns transactions relative to now so period filters always include them
func recentTxs() []*domain.Transaction {
	now := time.Now().UTC()
	return []*domain.Transaction{
		newTx("1", domain.TransactionTypeIncome, 500000, "Salary", now.Add(-3*time.Hour)),
		newTx("2", domain.TransactionTypeExpense, 12050, "Food", now.Add(-2*time.Hour)),
		newTx("3", domain.TransactionTypeExpense, 4599, "Food", now.Add(-time.Hour)),
	}
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("Expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
