package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// InvestmentHandler serves the portfolio and the compounding simulations
type InvestmentHandler struct {
	investmentService *service.InvestmentService
	locale            string
}

// NewInvestmentHandler creates a new InvestmentHandler
func NewInvestmentHandler(investmentService *service.InvestmentService, locale string) *InvestmentHandler {
	return &InvestmentHandler{
		investmentService: investmentService,
		locale:            locale,
	}
}

// ValuationResponse represents one investment valued today
type ValuationResponse struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Type             string        `json:"type"`
	InitialAmount    MoneyResponse `json:"initialAmount"`
	MonthlyRate      string        `json:"monthlyRate"`
	CreatedAt        string        `json:"createdAt"`
	ElapsedMonths    int           `json:"elapsedMonths"`
	CurrentAmount    MoneyResponse `json:"currentAmount"`
	Profit           MoneyResponse `json:"profit"`
	ProfitPercentage string        `json:"profitPercentage"`
}

// PortfolioResponse represents every valuation plus their totals
type PortfolioResponse struct {
	Investments []ValuationResponse      `json:"investments"`
	Summary     PortfolioSummaryResponse `json:"summary"`
}

// SimulationRequest is the body of a fixed-contribution simulation
type SimulationRequest struct {
	InitialAmount       string `json:"initialAmount"`
	MonthlyContribution string `json:"monthlyContribution"`
	MonthlyRate         string `json:"monthlyRate"`
	Months              int    `json:"months"`
}

// VariableSimulationRequest is the body of a simulation with one contribution per month
type VariableSimulationRequest struct {
	InitialAmount string   `json:"initialAmount"`
	Contributions []string `json:"contributions"`
	MonthlyRate   string   `json:"monthlyRate"`
}

// CompareRequest is the body of a scenario comparison
type CompareRequest struct {
	InitialAmount string   `json:"initialAmount"`
	Contributions []string `json:"contributions"`
	MonthlyRate   string   `json:"monthlyRate"`
	Months        int      `json:"months"`
}

// ProjectionRowResponse represents one simulated month
type ProjectionRowResponse struct {
	Month              int           `json:"month"`
	Contribution       MoneyResponse `json:"contribution"`
	AccumulatedBalance MoneyResponse `json:"accumulatedBalance"`
	Profit             MoneyResponse `json:"profit"`
}

// ProjectionResponse represents a simulation result
type ProjectionResponse struct {
	InitialAmount    MoneyResponse           `json:"initialAmount"`
	MonthlyRate      string                  `json:"monthlyRate"`
	Months           int                     `json:"months"`
	TotalContributed MoneyResponse           `json:"totalContributed"`
	FinalBalance     MoneyResponse           `json:"finalBalance"`
	TotalProfit      MoneyResponse           `json:"totalProfit"`
	Schedule         []ProjectionRowResponse `json:"schedule"`
}

func toValuationResponse(v *domain.Valuation, locale string) ValuationResponse {
	inv := v.Investment
	return ValuationResponse{
		ID:               inv.ID,
		Name:             inv.Name,
		Type:             string(inv.Type),
		InitialAmount:    toMoneyResponse(inv.InitialAmount, locale),
		MonthlyRate:      inv.MonthlyRate.String(),
		CreatedAt:        inv.CreatedAt.UTC().Format(time.RFC3339),
		ElapsedMonths:    v.ElapsedMonths,
		CurrentAmount:    toMoneyResponse(v.CurrentAmount, locale),
		Profit:           toMoneyResponse(v.Profit, locale),
		ProfitPercentage: v.ProfitPercentage.StringFixed(4),
	}
}

func toProjectionResponse(p *domain.Projection, locale string) ProjectionResponse {
	schedule := make([]ProjectionRowResponse, 0, len(p.Schedule))
	for _, row := range p.Schedule {
		schedule = append(schedule, ProjectionRowResponse{
			Month:              row.Month,
			Contribution:       toMoneyResponse(row.Contribution, locale),
			AccumulatedBalance: toMoneyResponse(row.AccumulatedBalance, locale),
			Profit:             toMoneyResponse(row.Profit, locale),
		})
	}
	return ProjectionResponse{
		InitialAmount:    toMoneyResponse(p.InitialAmount, locale),
		MonthlyRate:      p.MonthlyRate.String(),
		Months:           p.Months,
		TotalContributed: toMoneyResponse(p.TotalContributed, locale),
		FinalBalance:     toMoneyResponse(p.FinalBalance, locale),
		TotalProfit:      toMoneyResponse(p.TotalProfit, locale),
		Schedule:         schedule,
	}
}

// parseRate reads a monthly rate fraction ("0.008" is 0.8% a month)
func parseRate(c echo.Context, raw string) (decimal.Decimal, bool, error) {
	rate, err := domain.ParseRate(raw)
	if err != nil {
		return decimal.Decimal{}, false, NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "monthlyRate", Message: "Must be a decimal fraction, e.g. 0.008"},
		})
	}
	return rate, true, nil
}

// GetPortfolio godoc
// @Summary List investments
// @Description Every investment valued today, oldest first, plus portfolio totals
// @Tags investments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} PortfolioResponse
// @Failure 401 {object} ProblemDetails
// @Failure 502 {object} ProblemDetails
// @Router /investments [get]
func (h *InvestmentHandler) GetPortfolio(c echo.Context) error {
	sessionKey := middleware.GetSessionKey(c)
	if sessionKey == "" {
		return NewUnauthorizedError(c, "Session required")
	}

	portfolio, err := h.investmentService.GetPortfolio(c.Request().Context(), sessionKey, time.Now())
	if err != nil {
		return respondError(c, err, "get portfolio")
	}

	investments := make([]ValuationResponse, 0, len(portfolio.Valuations))
	for _, v := range portfolio.Valuations {
		investments = append(investments, toValuationResponse(v, h.locale))
	}

	return c.JSON(http.StatusOK, PortfolioResponse{
		Investments: investments,
		Summary:     toPortfolioSummaryResponse(portfolio.Summary, h.locale),
	})
}

func (h *InvestmentHandler) bindSimulation(c echo.Context) (service.SimulationInput, bool, error) {
	var req SimulationRequest
	if err := c.Bind(&req); err != nil {
		return service.SimulationInput{}, false, NewValidationError(c, "Invalid request body", nil)
	}

	rate, ok, err := parseRate(c, req.MonthlyRate)
	if !ok {
		return service.SimulationInput{}, false, err
	}

	return service.SimulationInput{
		InitialAmount:       req.InitialAmount,
		MonthlyContribution: req.MonthlyContribution,
		MonthlyRate:         rate,
		Months:              req.Months,
	}, true, nil
}

// Simulate godoc
// @Summary Simulate compound growth
// @Description Month-by-month balance with a fixed contribution
// @Tags simulations
// @Accept json
// @Produce json
// @Param request body SimulationRequest true "Simulation parameters"
// @Success 200 {object} ProjectionResponse
// @Failure 400 {object} ProblemDetails
// @Router /simulations [post]
func (h *InvestmentHandler) Simulate(c echo.Context) error {
	input, ok, err := h.bindSimulation(c)
	if !ok {
		return err
	}

	projection, err := h.investmentService.Simulate(input)
	if err != nil {
		return respondError(c, err, "run simulation")
	}
	return c.JSON(http.StatusOK, toProjectionResponse(projection, h.locale))
}

// SimulateVariable handles POST /api/v1/simulations/variable
func (h *InvestmentHandler) SimulateVariable(c echo.Context) error {
	var req VariableSimulationRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	rate, ok, err := parseRate(c, req.MonthlyRate)
	if !ok {
		return err
	}

	projection, err := h.investmentService.SimulateVariable(service.VariableSimulationInput{
		InitialAmount: req.InitialAmount,
		Contributions: req.Contributions,
		MonthlyRate:   rate,
	})
	if err != nil {
		return respondError(c, err, "run simulation")
	}
	return c.JSON(http.StatusOK, toProjectionResponse(projection, h.locale))
}

// Compare handles POST /api/v1/simulations/compare
func (h *InvestmentHandler) Compare(c echo.Context) error {
	var req CompareRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	rate, ok, err := parseRate(c, req.MonthlyRate)
	if !ok {
		return err
	}

	scenarios, err := h.investmentService.Compare(service.CompareInput{
		InitialAmount: req.InitialAmount,
		Contributions: req.Contributions,
		MonthlyRate:   rate,
		Months:        req.Months,
	})
	if err != nil {
		return respondError(c, err, "compare scenarios")
	}

	response := make(map[string]ProjectionResponse, len(scenarios))
	for key, projection := range scenarios {
		response[key] = toProjectionResponse(projection, h.locale)
	}
	return c.JSON(http.StatusOK, response)
}

// SimulationChart handles POST /api/v1/simulations/chart.png
func (h *InvestmentHandler) SimulationChart(c echo.Context) error {
	input, ok, err := h.bindSimulation(c)
	if !ok {
		return err
	}

	png, err := h.investmentService.SimulationChart(input)
	if err != nil {
		return respondError(c, err, "render simulation chart")
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
