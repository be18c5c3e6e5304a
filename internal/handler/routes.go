package handler

import (
	"github.com/dafibh/fortuna/fortuna-tracker/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Handlers groups every API handler for route registration
type Handlers struct {
	Dashboard   *DashboardHandler
	Transaction *TransactionHandler
	Report      *ReportHandler
	Investment  *InvestmentHandler
}

// RegisterRoutes sets up all API routes. Every route requires a bearer token,
// which is forwarded to the finance API.
func RegisterRoutes(e *echo.Echo, rateLimiter *middleware.RateLimiter, h Handlers) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(middleware.Session())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Dashboard
	api.GET("/dashboard", h.Dashboard.GetSummary)

	// Transactions
	transactions := api.Group("/transactions")
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)

	api.GET("/categories", h.Transaction.GetCategories)

	// Reports
	reports := api.Group("/reports")
	reports.GET("/category", h.Report.ByCategory)
	reports.GET("/month", h.Report.ByMonth)
	reports.GET("/month/chart.png", h.Report.MonthChart)
	reports.GET("/monthly-by-category", h.Report.MonthlyByCategory)
	reports.GET("/category-by-month", h.Report.CategoryByMonth)
	reports.GET("/available-months", h.Report.AvailableMonths)
	reports.GET("/summary-by-month", h.Report.SummaryByMonth)
	reports.GET("/top-categories", h.Report.TopCategories)
	reports.GET("/yearly", h.Report.YearlySummary)
	reports.GET("/category-trend", h.Report.CategoryTrend)

	// Investments and simulations
	api.GET("/investments", h.Investment.GetPortfolio)
	simulations := api.Group("/simulations")
	simulations.POST("", h.Investment.Simulate)
	simulations.POST("/variable", h.Investment.SimulateVariable)
	simulations.POST("/compare", h.Investment.Compare)
	simulations.POST("/chart.png", h.Investment.SimulationChart)
}
