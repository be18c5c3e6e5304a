package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/service"
	"github.com/labstack/echo/v4"
)

// ReportHandler serves the grouped views of a session's transactions
type ReportHandler struct {
	reportService *service.ReportService
	location      *time.Location
	locale        string
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService, location *time.Location, locale string) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		location:      location,
		locale:        locale,
	}
}

// AvailableMonthsResponse lists the months that have transactions
type AvailableMonthsResponse struct {
	Months []string `json:"months"`
}

// CategoryTotalResponse represents one ranked category
type CategoryTotalResponse struct {
	Category string        `json:"category"`
	Type     string        `json:"type,omitempty"`
	Total    MoneyResponse `json:"total"`
	Count    int           `json:"count"`
}

// MonthTotalsResponse represents one month of a yearly summary
type MonthTotalsResponse struct {
	Month  int            `json:"month"`
	Key    string         `json:"key"`
	Totals TotalsResponse `json:"totals"`
}

// YearlySummaryResponse represents the monthly rows and totals of a year
type YearlySummaryResponse struct {
	Year   int                   `json:"year"`
	Totals TotalsResponse        `json:"totals"`
	Months []MonthTotalsResponse `json:"months"`
}

// MonthNetResponse represents the net of one month
type MonthNetResponse struct {
	Month string        `json:"month"`
	Net   MoneyResponse `json:"net"`
}

// reportRequest holds what every period-filtered report needs
type reportRequest struct {
	sessionKey string
	query      service.ReportQuery
}

// bind reads the session, period and type, writing the error response itself when ok is false
func (h *ReportHandler) bind(c echo.Context) (req reportRequest, ok bool, err error) {
	req.sessionKey = middleware.GetSessionKey(c)
	if req.sessionKey == "" {
		return req, false, NewUnauthorizedError(c, "Session required")
	}

	selection, verrs := parsePeriod(c, h.location)
	if verrs != nil {
		return req, false, NewValidationError(c, "Invalid period", verrs)
	}
	req.query.Period = selection

	if raw := c.QueryParam("type"); raw != "" {
		t := domain.TransactionType(raw)
		if !t.IsValid() {
			return req, false, NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "type", Message: "Type must be one of: income, expense"},
			})
		}
		req.query.Type = t
	}
	return req, true, nil
}

// intParam reads an optional integer query parameter in [min, max]
func intParam(c echo.Context, name string, fallback, lo, hi int) (int, *ValidationError) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return 0, &ValidationError{Field: name, Message: fmt.Sprintf("Must be an integer between %d and %d", lo, hi)}
	}
	return n, nil
}

func requiredCategory(c echo.Context) (category string, ok bool, err error) {
	category = strings.TrimSpace(c.QueryParam("category"))
	if category == "" {
		return "", false, NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category is required"},
		})
	}
	return category, true, nil
}

// ByCategory godoc
// @Summary Net per category
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param period query string false "all, today, last_7_days, last_30_days, last_n_days, month, custom"
// @Param days query int false "Days for last_n_days"
// @Param start query string false "Custom start, YYYY-MM-DD or RFC 3339"
// @Param end query string false "Custom end, YYYY-MM-DD or RFC 3339"
// @Param type query string false "income or expense"
// @Success 200 {object} map[string]MoneyResponse
// @Failure 400 {object} ProblemDetails
// @Failure 502 {object} ProblemDetails
// @Router /reports/category [get]
func (h *ReportHandler) ByCategory(c echo.Context) error {
	req, ok, err := h.bind(c)
	if !ok {
		return err
	}

	groups, err := h.reportService.ByCategory(c.Request().Context(), req.sessionKey, req.query, time.Now())
	if err != nil {
		return respondError(c, err, "build category report")
	}
	return c.JSON(http.StatusOK, toMoneyMap(groups, h.locale))
}

// ByMonth godoc
// @Summary Net per month
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param period query string false "all, today, last_7_days, last_30_days, last_n_days, month, custom"
// @Param days query int false "Days for last_n_days"
// @Param start query string false "Custom start, YYYY-MM-DD or RFC 3339"
// @Param end query string false "Custom end, YYYY-MM-DD or RFC 3339"
// @Param type query string false "income or expense"
// @Success 200 {object} map[string]MoneyResponse
// @Failure 400 {object} ProblemDetails
// @Failure 502 {object} ProblemDetails
// @Router /reports/month [get]
func (h *ReportHandler) ByMonth(c echo.Context) error {
	req, ok, err := h.bind(c)
	if !ok {
		return err
	}

	groups, err := h.reportService.ByMonth(c.Request().Context(), req.sessionKey, req.query, time.Now())
	if err != nil {
		return respondError(c, err, "build month report")
	}
	return c.JSON(http.StatusOK, toMoneyMap(groups, h.locale))
}

// MonthlyByCategory godoc
// @Summary Category nets per month
// @Description Signed nets per category, nested under their YYYY-MM month
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param period query string false "all, today, last_7_days, last_30_days, last_n_days, month, custom"
// @Param days query int false "Days for last_n_days"
// @Param start query string false "Custom start, YYYY-MM-DD or RFC 3339"
// @Param end query string false "Custom end, YYYY-MM-DD or RFC 3339"
// @Param type query string false "income or expense"
// @Success 200 {object} map[string]map[string]MoneyResponse
// @Failure 400 {object} ProblemDetails
// @Failure 502 {object} ProblemDetails
// @Router /reports/monthly-by-category [get]
func (h *ReportHandler) MonthlyByCategory(c echo.Context) error {
	req, ok, err := h.bind(c)
	if !ok {
		return err
	}

	report, err := h.reportService.MonthlyByCategory(c.Request().Context(), req.sessionKey, req.query, time.Now())
	if err != nil {
		return respondError(c, err, "build monthly category report")
	}

	response := make(map[string]map[string]MoneyResponse, len(report))
	for month, groups := range report {
		response[month] = toMoneyMap(groups, h.locale)
	}
	return c.JSON(http.StatusOK, response)
}

// CategoryByMonth godoc
// @Summary Monthly nets of one category
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param category query string true "Category name"
// @Param period query string false "all, today, last_7_days, last_30_days, last_n_days, month, custom"
// @Param days query int false "Days for last_n_days"
// @Param start query string false "Custom start, YYYY-MM-DD or RFC 3339"
// @Param end query string false "Custom end, YYYY-MM-DD or RFC 3339"
// @Param type query string false "income or expense"
// @Success 200 {object} map[string]MoneyResponse
// @Failure 400 {object} ProblemDetails
// @Failure 502 {object} ProblemDetails
// @Router /reports/category-by-month [get]
func (h *ReportHandler) CategoryByMonth(c echo.Context) error {
	req, ok, err := h.bind(c)
	if !ok {
		return err
	}

	category, ok, err := requiredCategory(c)
	if !ok {
		return err
	}

	groups, err := h.reportService.CategoryByMonth(c.Request().Context(), req.sessionKey, category, req.query, time.Now())
	if err != nil {
		return respondError(c, err, "build category history")
	}
	return c.JSON(http.StatusOK, toMoneyMap(groups, h.locale))
}

// AvailableMonths godoc
// @Summary Months with transactions
// @Description YYYY-MM months that have at least one transaction, oldest first
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AvailableMonthsResponse
// @Failure 502 {object} ProblemDetails
// @Router /reports/available-months [get]
func (h *ReportHandler) AvailableMonths(c echo.Context) error {
	sessionKey := middleware.GetSessionKey(c)
	if sessionKey == "" {
		return NewUnauthorizedError(c, "Session required")
	}

	months, err := h.reportService.AvailableMonths(c.Request().Context(), sessionKey)
	if err != nil {
		return respondError(c, err, "list available months")
	}
	return c.JSON(http.StatusOK, AvailableMonthsResponse{Months: months})
}

// SummaryByMonth godoc
// @Summary Totals per month
// @Description Income, expense and balance per YYYY-MM month
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param period query string false "all, today, last_7_days, last_30_days, last_n_days, month, custom"
// @Param days query int false "Days for last_n_days"
// @Param start query string false "Custom start, YYYY-MM-DD or RFC 3339"
// @Param end query string false "Custom end, YYYY-MM-DD or RFC 3339"
// @Param type query string false "income or expense"
// @Success 200 {object} map[string]TotalsResponse
// @Failure 400 {object} ProblemDetails
// @Failure 502 {object} ProblemDetails
// @Router /reports/summary-by-month [get]
func (h *ReportHandler) SummaryByMonth(c echo.Context) error {
	req, ok, err := h.bind(c)
	if !ok {
		return err
	}

	summary, err := h.reportService.SummaryByMonth(c.Request().Context(), req.sessionKey, req.query, time.Now())
	if err != nil {
		return respondError(c, err, "build monthly summary")
	}

	response := make(map[string]TotalsResponse, len(summary))
	for month, totals := range summary {
		response[month] = toTotalsResponse(totals, h.locale)
	}
	return c.JSON(http.StatusOK, response)
}

// TopCategories godoc
// @Summary Categories moving the most money
// @Description Categories ranked by gross amount, largest first
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param limit query int false "How many categories, 1 to 100" default(5)
// @Param period query string false "all, today, last_7_days, last_30_days, last_n_days, month, custom"
// @Param days query int false "Days for last_n_days"
// @Param start query string false "Custom start, YYYY-MM-DD or RFC 3339"
// @Param end query string false "Custom end, YYYY-MM-DD or RFC 3339"
// @Param type query string false "income or expense"
// @Success 200 {array} CategoryTotalResponse
// @Failure 400 {object} ProblemDetails
// @Failure 502 {object} ProblemDetails
// @Router /reports/top-categories [get]
func (h *ReportHandler) TopCategories(c echo.Context) error {
	req, ok, err := h.bind(c)
	if !ok {
		return err
	}

	limit, verr := intParam(c, "limit", domain.DefaultTopCategories, 1, domain.MaxTopCategories)
	if verr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*verr})
	}

	top, err := h.reportService.TopCategories(c.Request().Context(), req.sessionKey, req.query, limit, time.Now())
	if err != nil {
		return respondError(c, err, "rank categories")
	}

	response := make([]CategoryTotalResponse, 0, len(top))
	for _, ct := range top {
		response = append(response, CategoryTotalResponse{
			Category: ct.Category,
			Type:     string(ct.Type),
			Total:    toMoneyResponse(ct.Total, h.locale),
			Count:    ct.Count,
		})
	}
	return c.JSON(http.StatusOK, response)
}

// YearlySummary godoc
// @Summary Yearly summary
// @Description Totals of each calendar month of a year plus the year's totals
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param year query int false "Calendar year, defaults to the current one"
// @Success 200 {object} YearlySummaryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 502 {object} ProblemDetails
// @Router /reports/yearly [get]
func (h *ReportHandler) YearlySummary(c echo.Context) error {
	sessionKey := middleware.GetSessionKey(c)
	if sessionKey == "" {
		return NewUnauthorizedError(c, "Session required")
	}

	year, verr := intParam(c, "year", 0, 1, 9999)
	if verr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*verr})
	}

	summary, err := h.reportService.YearlySummary(c.Request().Context(), sessionKey, year, time.Now())
	if err != nil {
		return respondError(c, err, "build yearly summary")
	}

	months := make([]MonthTotalsResponse, 0, len(summary.Months))
	for _, m := range summary.Months {
		months = append(months, MonthTotalsResponse{
			Month:  m.Month,
			Key:    m.Key,
			Totals: toTotalsResponse(m.Totals, h.locale),
		})
	}
	return c.JSON(http.StatusOK, YearlySummaryResponse{
		Year:   summary.Year,
		Totals: toTotalsResponse(summary.Totals, h.locale),
		Months: months,
	})
}

// CategoryTrend godoc
// @Summary Recent trend of one category
// @Description Monthly nets over the category's most recent active months, oldest first
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param category query string true "Category name"
// @Param months query int false "How many months, 1 to 120" default(12)
// @Success 200 {array} MonthNetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 502 {object} ProblemDetails
// @Router /reports/category-trend [get]
func (h *ReportHandler) CategoryTrend(c echo.Context) error {
	sessionKey := middleware.GetSessionKey(c)
	if sessionKey == "" {
		return NewUnauthorizedError(c, "Session required")
	}

	category, ok, err := requiredCategory(c)
	if !ok {
		return err
	}
	months, verr := intParam(c, "months", domain.DefaultTrendMonths, 1, domain.MaxTrendMonths)
	if verr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*verr})
	}

	trend, err := h.reportService.CategoryTrend(c.Request().Context(), sessionKey, category, months)
	if err != nil {
		return respondError(c, err, "build category trend")
	}

	response := make([]MonthNetResponse, 0, len(trend))
	for _, mn := range trend {
		response = append(response, MonthNetResponse{Month: mn.Month, Net: toMoneyResponse(mn.Net, h.locale)})
	}
	return c.JSON(http.StatusOK, response)
}

// MonthChart godoc
// @Summary Monthly net bar chart
// @Tags reports
// @Produce png
// @Security BearerAuth
// @Param period query string false "all, today, last_7_days, last_30_days, last_n_days, month, custom"
// @Param days query int false "Days for last_n_days"
// @Param start query string false "Custom start, YYYY-MM-DD or RFC 3339"
// @Param end query string false "Custom end, YYYY-MM-DD or RFC 3339"
// @Param type query string false "income or expense"
// @Success 200 {file} binary
// @Failure 404 {object} ProblemDetails
// @Router /reports/month/chart.png [get]
func (h *ReportHandler) MonthChart(c echo.Context) error {
	req, ok, err := h.bind(c)
	if !ok {
		return err
	}

	png, err := h.reportService.MonthChart(c.Request().Context(), req.sessionKey, req.query, time.Now())
	if err != nil {
		return respondError(c, err, "render month chart")
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
