package core

import (
	"math"
	"testing"
	"time"
)

func tx(amount float64, category string, date time.Time) Transaction {
	return NewTransaction("test", amount, category, date)
}

func TestSpentIncomePartition(t *testing.T) {
	now := time.Now()
	l := Ledger{
		Budget: 50000,
		Transactions: []Transaction{
			tx(200, "Food", now),
			tx(1000, IncomeCategory, now),
			tx(350, "Transport", now),
			tx(50, IncomeCategory, now),
		},
	}

	spent := TotalSpent(l)
	income := TotalIncome(l)
	if spent != 550 {
		t.Fatalf("TotalSpent = %v, want 550", spent)
	}
	if income != 1050 {
		t.Fatalf("TotalIncome = %v, want 1050", income)
	}

	// Every transaction lands in exactly one of the two sums.
	var all float64
	for _, x := range l.Transactions {
		all += x.Amount
	}
	if spent+income != all {
		t.Fatalf("spent+income = %v, want %v", spent+income, all)
	}
}

func TestRemainingScenario(t *testing.T) {
	now := time.Now()
	l := Ledger{
		Budget: 50000,
		Transactions: []Transaction{
			tx(200, "Food", now),
			tx(1000, IncomeCategory, now),
		},
	}
	if got := TotalSpent(l); got != 200 {
		t.Fatalf("TotalSpent = %v, want 200", got)
	}
	if got := TotalIncome(l); got != 1000 {
		t.Fatalf("TotalIncome = %v, want 1000", got)
	}
	if got := Remaining(l); got != 50800 {
		t.Fatalf("Remaining = %v, want 50800", got)
	}
}

func TestRemainingCanGoNegative(t *testing.T) {
	l := Ledger{
		Budget:       100,
		Transactions: []Transaction{tx(500, "Food", time.Now())},
	}
	if got := Remaining(l); got != -400 {
		t.Fatalf("Remaining = %v, want -400", got)
	}
}

func TestDailyAverageFirstOfMonth(t *testing.T) {
	l := Ledger{
		Budget: 50000,
		Transactions: []Transaction{
			tx(123.45, "Food", time.Now()),
			tx(76.55, "Bills", time.Now()),
		},
	}
	first := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.Local)
	if got := DailyAverage(l, first); got != TotalSpent(l) {
		t.Fatalf("DailyAverage on day 1 = %v, want %v", got, TotalSpent(l))
	}

	tenth := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.Local)
	if got, want := DailyAverage(l, tenth), TotalSpent(l)/10; got != want {
		t.Fatalf("DailyAverage on day 10 = %v, want %v", got, want)
	}
}

func TestCategoriesPercentClamped(t *testing.T) {
	now := time.Now()
	l := Ledger{
		Budget: 1000,
		Transactions: []Transaction{
			tx(2500, "Food", now), // over budget
			tx(100, "Transport", now),
			tx(999, IncomeCategory, now),
		},
	}

	stats := Categories(l)
	if len(stats) != 2 {
		t.Fatalf("got %d categories, want 2 (income excluded)", len(stats))
	}
	for _, s := range stats {
		if s.Percent < 0 || s.Percent > 1 {
			t.Fatalf("category %s percent %v out of [0,1]", s.Name, s.Percent)
		}
	}
	if stats[0].Name != "Food" || stats[0].Percent != 1 {
		t.Fatalf("Food row = %+v, want percent clamped to 1", stats[0])
	}
	if stats[1].Name != "Transport" || stats[1].Percent != 0.1 {
		t.Fatalf("Transport row = %+v, want percent 0.1", stats[1])
	}
}

func TestCategoriesPresentationFromFirstTransaction(t *testing.T) {
	now := time.Now()
	first := tx(10, "Food", now)
	second := tx(20, "Food", now)
	second.Color = "overwritten-later"
	second.Icon = "x"

	l := Ledger{Budget: 100, Transactions: []Transaction{first, second}}
	stats := Categories(l)
	if len(stats) != 1 {
		t.Fatalf("got %d categories, want 1", len(stats))
	}
	if stats[0].Color != first.Color || stats[0].Icon != first.Icon {
		t.Fatalf("presentation hints %q/%q, want first transaction's %q/%q",
			stats[0].Color, stats[0].Icon, first.Color, first.Icon)
	}
	if stats[0].Spent != 30 {
		t.Fatalf("Spent = %v, want 30", stats[0].Spent)
	}
}

func TestEmptyLedgerAggregates(t *testing.T) {
	l := Ledger{Budget: 50000}
	if TotalSpent(l) != 0 || TotalIncome(l) != 0 {
		t.Fatal("expected zero totals on empty ledger")
	}
	if got := Remaining(l); got != 50000 {
		t.Fatalf("Remaining = %v, want budget", got)
	}
	if got := DailyAverage(l, time.Now()); got != 0 {
		t.Fatalf("DailyAverage = %v, want 0", got)
	}
	if stats := Categories(l); len(stats) != 0 {
		t.Fatalf("Categories = %v, want empty", stats)
	}
}

func TestFilterByDayComponentComparison(t *testing.T) {
	day := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.Local)
	lateNight := time.Date(2025, time.June, 15, 23, 30, 0, 0, time.Local)
	nextDay := time.Date(2025, time.June, 16, 0, 15, 0, 0, time.Local)

	l := Ledger{
		Budget: 50000,
		Transactions: []Transaction{
			tx(100, "Food", lateNight),
			tx(40, "Transport", day),
			tx(75, "Food", nextDay),
		},
	}

	got := FilterByDay(l, "2025-06-15")
	if len(got) != 2 {
		t.Fatalf("got %d transactions, want 2", len(got))
	}

	summary := SummarizeDay(got)
	if summary.Count != 2 {
		t.Fatalf("Count = %d, want 2", summary.Count)
	}
	if len(summary.ByCategory) != 2 {
		t.Fatalf("ByCategory keys = %d, want 2", len(summary.ByCategory))
	}
	var sum float64
	for _, v := range summary.ByCategory {
		sum += v
	}
	if sum != summary.Total || summary.Total != 140 {
		t.Fatalf("breakdown sums to %v, total %v, want 140", sum, summary.Total)
	}
}

func TestFilterByDaySkipsUnparseableDates(t *testing.T) {
	bad := Transaction{ID: "x", Amount: 10, Category: "Food", Date: "not-a-date"}
	l := Ledger{Transactions: []Transaction{bad}}
	if got := FilterByDay(l, time.Now().Local().Format("2006-01-02")); len(got) != 0 {
		t.Fatalf("got %d transactions, want 0", len(got))
	}
}

func TestSummarizeDayDefaultsCategory(t *testing.T) {
	uncategorized := Transaction{ID: "x", Amount: 10, Date: time.Now().Format(time.RFC3339)}
	summary := SummarizeDay([]Transaction{uncategorized})
	if _, ok := summary.ByCategory["Other"]; !ok {
		t.Fatalf("ByCategory = %v, want key \"Other\"", summary.ByCategory)
	}
}

func TestDailyAverageNeverDividesByZero(t *testing.T) {
	l := Ledger{Transactions: []Transaction{tx(31, "Food", time.Now())}}
	for day := 1; day <= 31; day++ {
		now := time.Date(2025, time.January, day, 12, 0, 0, 0, time.Local)
		got := DailyAverage(l, now)
		if math.IsInf(got, 0) || math.IsNaN(got) {
			t.Fatalf("day %d produced %v", day, got)
		}
	}
}
