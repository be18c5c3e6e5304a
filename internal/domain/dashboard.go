package domain

import "time"

// Totals holds income, expense and their difference for a set of transactions
type Totals struct {
	Income  Money `json:"income"`
	Expense Money `json:"expense"`
	Balance Money `json:"balance"`
}

// RecentTransactionsLimit is how many transactions the dashboard lists as recent activity
const RecentTransactionsLimit = 5

// DashboardSummary contains the main dashboard figures for a period
type DashboardSummary struct {
	Period     DateRange         `json:"period"`
	Totals     Totals            `json:"totals"`
	Recent     []*Transaction    `json:"recent"`
	ByCategory map[string]Money  `json:"byCategory"`
	Portfolio  *PortfolioSummary `json:"portfolio"`
	FetchedAt  time.Time         `json:"fetchedAt"`
}
