package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/util"
)

// addNet adds the signed amount of tx to the bucket under key
func addNet(buckets map[string]domain.Money, key string, tx *domain.Transaction) error {
	current, ok := buckets[key]
	if !ok {
		current = domain.Zero(tx.Amount.Currency())
	}
	next, err := current.Add(tx.SignedAmount())
	if err != nil {
		return fmt.Errorf("transaction %s: %w", tx.ID, err)
	}
	buckets[key] = next
	return nil
}

// singleCurrency fails with ErrMixedCurrency when transactions span currencies
func singleCurrency(transactions []*domain.Transaction) error {
	for _, tx := range transactions {
		if tx.Amount.Currency() != transactions[0].Amount.Currency() {
			return fmt.Errorf("transaction %s: %w: %s and %s", tx.ID, domain.ErrMixedCurrency,
				transactions[0].Amount.Currency(), tx.Amount.Currency())
		}
	}
	return nil
}

// GroupByCategory returns the signed net (income positive, expense negative) per category name
func GroupByCategory(transactions []*domain.Transaction) (map[string]domain.Money, error) {
	if err := singleCurrency(transactions); err != nil {
		return nil, err
	}

	buckets := make(map[string]domain.Money)
	for _, tx := range transactions {
		if err := addNet(buckets, tx.Category.Name, tx); err != nil {
			return nil, err
		}
	}
	return buckets, nil
}

// GroupByMonth returns the signed net per "YYYY-MM" month of occurrence in loc (UTC when nil)
func GroupByMonth(transactions []*domain.Transaction, loc *time.Location) (map[string]domain.Money, error) {
	if err := singleCurrency(transactions); err != nil {
		return nil, err
	}

	buckets := make(map[string]domain.Money)
	for _, tx := range transactions {
		if err := addNet(buckets, util.MonthKey(tx.OccurredAt, loc), tx); err != nil {
			return nil, err
		}
	}
	return buckets, nil
}

// MonthlyByCategory nests category nets under their month
func MonthlyByCategory(transactions []*domain.Transaction, loc *time.Location) (map[string]map[string]domain.Money, error) {
	if err := singleCurrency(transactions); err != nil {
		return nil, err
	}

	report := make(map[string]map[string]domain.Money)
	for _, tx := range transactions {
		month := util.MonthKey(tx.OccurredAt, loc)
		if report[month] == nil {
			report[month] = make(map[string]domain.Money)
		}
		if err := addNet(report[month], tx.Category.Name, tx); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// CategoryByMonth returns the monthly nets of a single category
func CategoryByMonth(transactions []*domain.Transaction, category string, loc *time.Location) (map[string]domain.Money, error) {
	if err := singleCurrency(transactions); err != nil {
		return nil, err
	}

	buckets := make(map[string]domain.Money)
	for _, tx := range transactions {
		if tx.Category.Name != category {
			continue
		}
		if err := addNet(buckets, util.MonthKey(tx.OccurredAt, loc), tx); err != nil {
			return nil, err
		}
	}
	return buckets, nil
}

// AvailableMonths lists the months that have at least one transaction, oldest first
func AvailableMonths(transactions []*domain.Transaction, loc *time.Location) []string {
	seen := make(map[string]struct{})
	for _, tx := range transactions {
		seen[util.MonthKey(tx.OccurredAt, loc)] = struct{}{}
	}

	months := make([]string, 0, len(seen))
	for month := range seen {
		months = append(months, month)
	}
	sort.Strings(months)
	return months
}

// SummaryByMonth computes income, expense and balance per month
func SummaryByMonth(currency string, transactions []*domain.Transaction, loc *time.Location) (map[string]domain.Totals, error) {
	byMonth := make(map[string][]*domain.Transaction)
	for _, tx := range transactions {
		month := util.MonthKey(tx.OccurredAt, loc)
		byMonth[month] = append(byMonth[month], tx)
	}

	summary := make(map[string]domain.Totals, len(byMonth))
	for month, txs := range byMonth {
		totals, err := ComputeTotals(currency, txs)
		if err != nil {
			return nil, fmt.Errorf("month %s: %w", month, err)
		}
		summary[month] = totals
	}
	return summary, nil
}

// FilterByType keeps the transactions of type t; an empty t keeps all of them
func FilterByType(transactions []*domain.Transaction, t domain.TransactionType) []*domain.Transaction {
	if t == "" {
		return transactions
	}
	filtered := make([]*domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.Type == t {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}

// TopCategories ranks categories by the gross amount moved through them,
// largest first with ties broken by name, keeping at most limit entries
func TopCategories(transactions []*domain.Transaction, limit int) ([]domain.CategoryTotal, error) {
	if err := singleCurrency(transactions); err != nil {
		return nil, err
	}

	index := make(map[string]int)
	totals := make([]domain.CategoryTotal, 0)
	for _, tx := range transactions {
		i, ok := index[tx.Category.Name]
		if !ok {
			i = len(totals)
			index[tx.Category.Name] = i
			t := tx.Category.Type
			if t == "" {
				t = tx.Type
			}
			totals = append(totals, domain.CategoryTotal{
				Category: tx.Category.Name,
				Type:     t,
				Total:    domain.Zero(tx.Amount.Currency()),
			})
		}

		entry := &totals[i]
		if tx.Category.Type == "" && entry.Type != tx.Type {
			entry.Type = ""
		}
		total, err := entry.Total.Add(tx.Amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		entry.Total = total
		entry.Count++
	}

	sort.SliceStable(totals, func(i, j int) bool {
		a, b := totals[i].Total.MinorUnits(), totals[j].Total.MinorUnits()
		if a != b {
			return a > b
		}
		return totals[i].Category < totals[j].Category
	})
	if len(totals) > limit {
		totals = totals[:limit]
	}
	return totals, nil
}

// SummarizeYear computes the totals of each calendar month of year in loc (UTC when nil)
// and of the whole year. Months without transactions have zero totals.
func SummarizeYear(currency string, transactions []*domain.Transaction, year int, loc *time.Location) (*domain.YearlySummary, error) {
	if loc == nil {
		loc = time.UTC
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	byMonth := make([][]*domain.Transaction, 12)
	inYear := make([]*domain.Transaction, 0)
	for _, tx := range transactions {
		local := tx.OccurredAt.In(loc)
		if local.Year() != year {
			continue
		}
		m := int(local.Month()) - 1
		byMonth[m] = append(byMonth[m], tx)
		inYear = append(inYear, tx)
	}

	summary := &domain.YearlySummary{Year: year, Months: make([]domain.MonthTotals, 0, 12)}
	for m := 0; m < 12; m++ {
		totals, err := ComputeTotals(currency, byMonth[m])
		if err != nil {
			return nil, fmt.Errorf("month %d: %w", m+1, err)
		}
		summary.Months = append(summary.Months, domain.MonthTotals{
			Month:  m + 1,
			Key:    util.MonthKey(start.AddDate(0, m, 0), loc),
			Totals: totals,
		})
	}

	totals, err := ComputeTotals(currency, inYear)
	if err != nil {
		return nil, err
	}
	summary.Totals = totals
	return summary, nil
}

// CategoryTrend returns the monthly nets of category for the last months
// months that have any of its transactions, oldest first
func CategoryTrend(transactions []*domain.Transaction, category string, months int, loc *time.Location) ([]domain.MonthNet, error) {
	nets, err := CategoryByMonth(transactions, category, loc)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(nets))
	for month := range nets {
		keys = append(keys, month)
	}
	sort.Strings(keys)
	if len(keys) > months {
		keys = keys[len(keys)-months:]
	}

	trend := make([]domain.MonthNet, 0, len(keys))
	for _, month := range keys {
		trend = append(trend, domain.MonthNet{Month: month, Net: nets[month]})
	}
	return trend, nil
}
