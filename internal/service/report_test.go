package service

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
)

func TestGroupByCategory(t *testing.T) {
	groups, err := GroupByCategory(sampleTxs())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := map[string]domain.Money{
		"Salary": brl(1000000),
		"Food":   brl(-16649),
		"Rent":   brl(-180000),
	}
	if len(groups) != len(want) {
		t.Fatalf("Expected %d categories, got %d", len(want), len(groups))
	}
	for name, amount := range want {
		if !groups[name].Equal(amount) {
			t.Errorf("%s: expected %s, got %s", name, amount, groups[name])
		}
	}
}

func TestGroupByCategory_SumsToBalance(t *testing.T) {
	txs := sampleTxs()
	groups, err := GroupByCategory(txs)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	totals, err := ComputeTotals("BRL", txs)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	sum := domain.Zero("BRL")
	for _, net := range groups {
		if sum, err = sum.Add(net); err != nil {
			t.Fatal(err)
		}
	}
	if !sum.Equal(totals.Balance) {
		t.Errorf("Category nets sum to %s, balance is %s", sum, totals.Balance)
	}
}

func TestGroupByCategory_Empty(t *testing.T) {
	groups, err := GroupByCategory(nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if groups == nil || len(groups) != 0 {
		t.Errorf("Expected empty map, got %v", groups)
	}
}

func TestGroupByMonth(t *testing.T) {
	groups, err := GroupByMonth(sampleTxs(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !groups["2024-01"].Equal(brl(487950)) {
		t.Errorf("2024-01: expected 4879.50, got %s", groups["2024-01"])
	}
	if !groups["2024-02"].Equal(brl(315401)) {
		t.Errorf("2024-02: expected 3154.01, got %s", groups["2024-02"])
	}
}

func TestGroupByMonth_Location(t *testing.T) {
	// 01:00 UTC on March 1st is still February in São Paulo
	txs := []*domain.Transaction{
		newTx("1", domain.TransactionTypeExpense, 1000, "Food", time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)),
	}

	utc, err := GroupByMonth(txs, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := utc["2024-03"]; !ok {
		t.Errorf("Expected 2024-03 bucket in UTC, got %v", utc)
	}

	brt, err := GroupByMonth(txs, time.FixedZone("BRT", -3*60*60))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := brt["2024-02"]; !ok {
		t.Errorf("Expected 2024-02 bucket in BRT, got %v", brt)
	}
}

func TestGroupByMonth_MixedCurrency(t *testing.T) {
	txs := []*domain.Transaction{
		newTx("1", domain.TransactionTypeIncome, 1000, "A", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		{ID: "2", Type: domain.TransactionTypeIncome, Amount: domain.NewMoney(1000, "USD"), OccurredAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	if _, err := GroupByMonth(txs, nil); !errors.Is(err, domain.ErrMixedCurrency) {
		t.Errorf("Expected ErrMixedCurrency, got %v", err)
	}
}

func TestMonthlyByCategory(t *testing.T) {
	report, err := MonthlyByCategory(sampleTxs(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !report["2024-01"]["Food"].Equal(brl(-12050)) {
		t.Errorf("2024-01 Food: expected -120.50, got %s", report["2024-01"]["Food"])
	}
	if !report["2024-02"]["Rent"].Equal(brl(-180000)) {
		t.Errorf("2024-02 Rent: expected -1800.00, got %s", report["2024-02"]["Rent"])
	}
	if _, ok := report["2024-01"]["Rent"]; ok {
		t.Error("2024-01 should not have a Rent bucket")
	}
}

func TestCategoryByMonth(t *testing.T) {
	report, err := CategoryByMonth(sampleTxs(), "Food", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := map[string]domain.Money{
		"2024-01": brl(-12050),
		"2024-02": brl(-4599),
	}
	if !reflect.DeepEqual(report, want) {
		t.Errorf("Expected %v, got %v", want, report)
	}

	none, err := CategoryByMonth(sampleTxs(), "Travel", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no buckets, got %v", none)
	}
}

func TestAvailableMonths(t *testing.T) {
	txs := append(sampleTxs(), newTx("6", domain.TransactionTypeExpense, 100, "Food", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)))

	got := AvailableMonths(txs, nil)
	want := []string{"2023-12", "2024-01", "2024-02"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if empty := AvailableMonths(nil, nil); len(empty) != 0 {
		t.Errorf("Expected no months, got %v", empty)
	}
}

func TestSummaryByMonth(t *testing.T) {
	summary, err := SummaryByMonth("BRL", sampleTxs(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	feb := summary["2024-02"]
	if !feb.Income.Equal(brl(500000)) {
		t.Errorf("Expected February income 5000.00, got %s", feb.Income)
	}
	if !feb.Expense.Equal(brl(184599)) {
		t.Errorf("Expected February expense 1845.99, got %s", feb.Expense)
	}
	if !feb.Balance.Equal(brl(315401)) {
		t.Errorf("Expected February balance 3154.01, got %s", feb.Balance)
	}
}

func TestFilterByType(t *testing.T) {
	expenses := FilterByType(sampleTxs(), domain.TransactionTypeExpense)
	if len(expenses) != 3 {
		t.Fatalf("Expected 3 expenses, got %d", len(expenses))
	}
	for _, tx := range expenses {
		if tx.Type != domain.TransactionTypeExpense {
			t.Errorf("Expected only expenses, got %s", tx.Type)
		}
	}

	if all := FilterByType(sampleTxs(), ""); len(all) != 5 {
		t.Errorf("Expected every transaction without a type, got %d", len(all))
	}
}

func TestTopCategories(t *testing.T) {
	top, err := TopCategories(sampleTxs(), 2)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(top) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(top))
	}
	if top[0].Category != "Salary" || !top[0].Total.Equal(brl(1000000)) || top[0].Count != 2 {
		t.Errorf("Expected Salary 10000.00 over 2 transactions first, got %+v", top[0])
	}
	if top[0].Type != domain.TransactionTypeIncome {
		t.Errorf("Expected Salary to be income, got %q", top[0].Type)
	}
	if top[1].Category != "Rent" || top[1].Type != domain.TransactionTypeExpense {
		t.Errorf("Expected Rent expense second, got %+v", top[1])
	}
}

func TestTopCategories_UntypedCategoryWithBothTypes(t *testing.T) {
	txs := []*domain.Transaction{
		newTx("1", domain.TransactionTypeIncome, 1000, "Misc", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		newTx("2", domain.TransactionTypeExpense, 1000, "Misc", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
		newTx("3", domain.TransactionTypeExpense, 2000, "Books", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)),
	}

	top, err := TopCategories(txs, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(top))
	}
	// equal gross totals fall back to name order
	if top[0].Category != "Books" || top[1].Category != "Misc" {
		t.Errorf("Expected Books before Misc, got %s and %s", top[0].Category, top[1].Category)
	}
	if top[1].Type != "" {
		t.Errorf("Expected no type for a mixed category, got %q", top[1].Type)
	}
}

func TestSummarizeYear(t *testing.T) {
	summary, err := SummarizeYear("BRL", sampleTxs(), 2024, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(summary.Months) != 12 {
		t.Fatalf("Expected 12 months, got %d", len(summary.Months))
	}
	jan := summary.Months[0]
	if jan.Month != 1 || jan.Key != "2024-01" || !jan.Totals.Expense.Equal(brl(12050)) {
		t.Errorf("Unexpected January row %+v", jan)
	}
	if !summary.Months[1].Totals.Balance.Equal(brl(315401)) {
		t.Errorf("Expected February balance 3154.01, got %s", summary.Months[1].Totals.Balance)
	}
	dec := summary.Months[11]
	if dec.Key != "2024-12" || !dec.Totals.Income.IsZero() || dec.Totals.Income.Currency() != "BRL" {
		t.Errorf("Expected an empty BRL December, got %+v", dec)
	}
	if !summary.Totals.Balance.Equal(brl(803351)) {
		t.Errorf("Expected year balance 8033.51, got %s", summary.Totals.Balance)
	}

	empty, err := SummarizeYear("BRL", sampleTxs(), 2023, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !empty.Totals.Income.IsZero() || !empty.Totals.Expense.IsZero() {
		t.Errorf("Expected zero totals for 2023, got %+v", empty.Totals)
	}
}

func TestSummarizeYear_Location(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	txs := []*domain.Transaction{
		newTx("1", domain.TransactionTypeIncome, 1000, "Salary", time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)),
	}

	summary, err := SummarizeYear("BRL", txs, 2023, saoPaulo)
	if err != nil {
		t.Fatal(err)
	}
	if !summary.Months[11].Totals.Income.Equal(brl(1000)) {
		t.Errorf("Expected the transaction in local December 2023, got %+v", summary.Months[11])
	}
}

func TestCategoryTrend(t *testing.T) {
	trend, err := CategoryTrend(sampleTxs(), "Food", 12, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(trend) != 2 || trend[0].Month != "2024-01" || !trend[1].Net.Equal(brl(-4599)) {
		t.Errorf("Unexpected trend %+v", trend)
	}

	last, err := CategoryTrend(sampleTxs(), "Food", 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(last) != 1 || last[0].Month != "2024-02" {
		t.Errorf("Expected only the latest month, got %+v", last)
	}

	none, err := CategoryTrend(sampleTxs(), "Travel", 12, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no months, got %+v", none)
	}
}
