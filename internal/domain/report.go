package domain

// Report limits
const (
	DefaultTopCategories = 5
	MaxTopCategories     = 100
	DefaultTrendMonths   = 12
	MaxTrendMonths       = 120
)

// CategoryTotal is the gross amount moved through one category.
// Type is empty when an untyped category carries both incomes and expenses.
type CategoryTotal struct {
	Category string          `json:"category"`
	Type     TransactionType `json:"type,omitempty"`
	Total    Money           `json:"total"`
	Count    int             `json:"count"`
}

// MonthTotals is one calendar month of a yearly summary; Month runs 1 to 12
type MonthTotals struct {
	Month  int    `json:"month"`
	Key    string `json:"key"`
	Totals Totals `json:"totals"`
}

// YearlySummary holds twelve monthly rows plus the year's totals
type YearlySummary struct {
	Year   int           `json:"year"`
	Totals Totals        `json:"totals"`
	Months []MonthTotals `json:"months"`
}

// MonthNet is the signed net of a "YYYY-MM" month
type MonthNet struct {
	Month string `json:"month"`
	Net   Money  `json:"net"`
}
