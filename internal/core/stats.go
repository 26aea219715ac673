// Package core holds the ledger domain model and its derived statistics.
//
// Every selector in this file is a pure, single-pass fold over a Ledger
// snapshot. Nothing is cached or maintained incrementally: the input is a
// personal-finance-scale slice, so recomputing on every call is cheaper
// than any bookkeeping would be.
package core

import "time"

// CategoryStat is one row of the category breakdown: spending for a single
// non-income category measured against the whole monthly budget.
type CategoryStat struct {
	Name       string  `json:"name"`
	Spent      float64 `json:"spent"`
	Total      float64 `json:"total"`
	Color      string  `json:"color"`
	Background string  `json:"bg"`
	Icon       string  `json:"icon"`
	Percent    float64 `json:"percent"`
}

// DaySummary aggregates the transactions of a single calendar day.
type DaySummary struct {
	Total      float64            `json:"total"`
	Count      int                `json:"count"`
	ByCategory map[string]float64 `json:"categoryBreakdown"`
}

// TotalSpent sums the amounts of every transaction except income.
func TotalSpent(l Ledger) float64 {
	var total float64
	for _, t := range l.Transactions {
		if t.Category != IncomeCategory {
			total += t.Amount
		}
	}
	return total
}

// TotalIncome sums the amounts of the reserved income category.
func TotalIncome(l Ledger) float64 {
	var total float64
	for _, t := range l.Transactions {
		if t.Category == IncomeCategory {
			total += t.Amount
		}
	}
	return total
}

// Remaining is budget plus income minus spending. A negative result is a
// meaningful over-budget signal, not an error, so no floor is applied.
func Remaining(l Ledger) float64 {
	return l.Budget + TotalIncome(l) - TotalSpent(l)
}

// DailyAverage divides total spending by now's day-of-month. The divisor
// is anchored to the wall clock, not to the months the data spans, and is
// never zero (calendar days start at 1).
func DailyAverage(l Ledger, now time.Time) float64 {
	return TotalSpent(l) / float64(now.Day())
}

// Categories groups non-income transactions by category label, in first-
// encounter order. Each group's percent is its spend against the whole
// monthly budget (not a per-category sub-budget), clamped to 1 for
// display. Color and icon come from the first transaction seen in the
// group and are not recomputed per entry.
func Categories(l Ledger) []CategoryStat {
	index := make(map[string]int)
	var stats []CategoryStat
	for _, t := range l.Transactions {
		if t.Category == IncomeCategory {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			color := t.Color
			if color == "" {
				color = "#C4B5FD"
			}
			icon := t.Icon
			if icon == "" {
				icon = "📦"
			}
			i = len(stats)
			index[t.Category] = i
			stats = append(stats, CategoryStat{
				Name:       t.Category,
				Total:      l.Budget,
				Color:      color,
				Background: "#EDE9FE",
				Icon:       icon,
			})
		}
		stats[i].Spent += t.Amount
	}
	for i := range stats {
		percent := 0.0
		if stats[i].Total > 0 {
			percent = stats[i].Spent / stats[i].Total
		}
		if percent > 1 {
			percent = 1
		}
		stats[i].Percent = percent
	}
	return stats
}

// FilterByDay returns the transactions that occurred on the given local
// calendar day ("YYYY-MM-DD"). Membership is decided by comparing local
// year/month/day components, not by interval math, which keeps midnight-
// adjacent records from shifting across days when the zone offset changes.
// Records whose date fails to parse are skipped.
func FilterByDay(l Ledger, day string) []Transaction {
	var out []Transaction
	for _, t := range l.Transactions {
		ts, err := t.OccurredAt()
		if err != nil {
			continue
		}
		if ts.Local().Format("2006-01-02") == day {
			out = append(out, t)
		}
	}
	return out
}

// SummarizeDay folds a day's transactions into a total, a count, and a
// per-category breakdown. Transactions without a category land in "Other".
func SummarizeDay(transactions []Transaction) DaySummary {
	summary := DaySummary{ByCategory: make(map[string]float64)}
	for _, t := range transactions {
		category := t.Category
		if category == "" {
			category = "Other"
		}
		summary.Total += t.Amount
		summary.Count++
		summary.ByCategory[category] += t.Amount
	}
	return summary
}
