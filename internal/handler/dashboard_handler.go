package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/service"
	"github.com/labstack/echo/v4"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
	location         *time.Location
	locale           string
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService, location *time.Location, locale string) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		location:         location,
		locale:           locale,
	}
}

// PeriodResponse is a resolved period; absent bounds are open
type PeriodResponse struct {
	Start *string `json:"start,omitempty"`
	End   *string `json:"end,omitempty"`
}

// TotalsResponse represents income, expense and balance
type TotalsResponse struct {
	Income  MoneyResponse `json:"income"`
	Expense MoneyResponse `json:"expense"`
	Balance MoneyResponse `json:"balance"`
}

// SkippedInvestmentResponse represents an investment left out of the totals
type SkippedInvestmentResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// PortfolioSummaryResponse represents the investment totals
type PortfolioSummaryResponse struct {
	Count             int                         `json:"count"`
	TotalInvested     MoneyResponse               `json:"totalInvested"`
	TotalCurrentValue MoneyResponse               `json:"totalCurrentValue"`
	TotalProfit       MoneyResponse               `json:"totalProfit"`
	Skipped           []SkippedInvestmentResponse `json:"skipped"`
}

// DashboardSummaryResponse represents the dashboard summary API response
type DashboardSummaryResponse struct {
	Period     PeriodResponse           `json:"period"`
	Totals     TotalsResponse           `json:"totals"`
	Recent     []TransactionResponse    `json:"recent"`
	ByCategory map[string]MoneyResponse `json:"byCategory"`
	Portfolio  PortfolioSummaryResponse `json:"portfolio"`
	FetchedAt  string                   `json:"fetchedAt"`
}

func formatBound(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func toPeriodResponse(r domain.DateRange) PeriodResponse {
	return PeriodResponse{Start: formatBound(r.Start), End: formatBound(r.End)}
}

func toTotalsResponse(t domain.Totals, locale string) TotalsResponse {
	return TotalsResponse{
		Income:  toMoneyResponse(t.Income, locale),
		Expense: toMoneyResponse(t.Expense, locale),
		Balance: toMoneyResponse(t.Balance, locale),
	}
}

func toPortfolioSummaryResponse(s *domain.PortfolioSummary, locale string) PortfolioSummaryResponse {
	skipped := make([]SkippedInvestmentResponse, 0, len(s.Skipped))
	for _, sk := range s.Skipped {
		skipped = append(skipped, SkippedInvestmentResponse{ID: sk.ID, Name: sk.Name, Reason: sk.Reason})
	}
	return PortfolioSummaryResponse{
		Count:             s.Count,
		TotalInvested:     toMoneyResponse(s.TotalInvested, locale),
		TotalCurrentValue: toMoneyResponse(s.TotalCurrentValue, locale),
		TotalProfit:       toMoneyResponse(s.TotalProfit, locale),
		Skipped:           skipped,
	}
}

// GetSummary godoc
// @Summary Dashboard summary
// @Description Totals, the five most recent transactions and category nets for a period, plus the portfolio
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param period query string false "all, today, last_7_days, last_30_days, last_n_days, month, custom"
// @Success 200 {object} DashboardSummaryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 502 {object} ProblemDetails
// @Router /dashboard [get]
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	sessionKey := middleware.GetSessionKey(c)
	if sessionKey == "" {
		return NewUnauthorizedError(c, "Session required")
	}

	selection, verrs := parsePeriod(c, h.location)
	if verrs != nil {
		return NewValidationError(c, "Invalid period", verrs)
	}

	summary, err := h.dashboardService.GetSummary(c.Request().Context(), sessionKey, selection, time.Now())
	if err != nil {
		return respondError(c, err, "get dashboard summary")
	}

	return c.JSON(http.StatusOK, DashboardSummaryResponse{
		Period:     toPeriodResponse(summary.Period),
		Totals:     toTotalsResponse(summary.Totals, h.locale),
		Recent:     toTransactionResponses(summary.Recent, h.locale),
		ByCategory: toMoneyMap(summary.ByCategory, h.locale),
		Portfolio:  toPortfolioSummaryResponse(summary.Portfolio, h.locale),
		FetchedAt:  summary.FetchedAt.UTC().Format(time.RFC3339),
	})
}
