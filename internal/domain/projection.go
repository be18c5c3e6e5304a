package domain

import "github.com/shopspring/decimal"

// MaxSimulationMonths bounds how far a projection may run (50 years)
const MaxSimulationMonths = 600

// ProjectionRow is one month of a compounding simulation
type ProjectionRow struct {
	Month              int   `json:"month"`
	Contribution       Money `json:"contribution"`
	AccumulatedBalance Money `json:"accumulatedBalance"`
	Profit             Money `json:"profit"`
}

// Projection is the result of a compounding simulation
type Projection struct {
	InitialAmount    Money           `json:"initialAmount"`
	MonthlyRate      decimal.Decimal `json:"monthlyRate"`
	Months           int             `json:"months"`
	TotalContributed Money           `json:"totalContributed"`
	FinalBalance     Money           `json:"finalBalance"`
	TotalProfit      Money           `json:"totalProfit"`
	Schedule         []ProjectionRow `json:"schedule"`
}

// Valuation is the current value of an investment compounded since its creation.
// ProfitPercentage is a fraction of the initial amount (0.05 = 5%).
type Valuation struct {
	Investment       *Investment     `json:"investment"`
	ElapsedMonths    int             `json:"elapsedMonths"`
	CurrentAmount    Money           `json:"currentAmount"`
	Profit           Money           `json:"profit"`
	ProfitPercentage decimal.Decimal `json:"profitPercentage"`
}

// SkippedInvestment is a remote investment left out of the totals
type SkippedInvestment struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// PortfolioSummary aggregates valuations across investments.
// Skipped lists investments whose remote data could not be valued.
type PortfolioSummary struct {
	Count             int                 `json:"count"`
	TotalInvested     Money               `json:"totalInvested"`
	TotalCurrentValue Money               `json:"totalCurrentValue"`
	TotalProfit       Money               `json:"totalProfit"`
	Skipped           []SkippedInvestment `json:"skipped"`
}
