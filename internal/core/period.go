package core

import (
	"fmt"
	"sort"
	"time"
)

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Period is a reporting window ending now.
type Period string

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// Start is the first date inside the period: seven days back for a week,
// the first of the month, or the first of January. Unknown periods are
// treated as a month.
func (p Period) Start(now time.Time) Date {
	today := DateOf(now)
	switch p {
	case PeriodWeek:
		return today.AddDays(-7)
	case PeriodYear:
		return NewDate(today.Year(), 1, 1)
	default:
		first, _ := MonthBounds(now)
		return first
	}
}

// TransactionsByDateRange keeps transactions dated within [from, to].
func TransactionsByDateRange(transactions []Transaction, from, to Date) []Transaction {
	out := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.Date.Within(from, to) {
			out = append(out, t)
		}
	}
	return out
}

// TransactionsByPeriod keeps transactions dated on or after the period start.
func TransactionsByPeriod(transactions []Transaction, p Period, now time.Time) []Transaction {
	start := p.Start(now)
	out := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if !t.Date.Before(start.Time) {
			out = append(out, t)
		}
	}
	return out
}

// CategoryTotals sums one transaction type per category within a period,
// largest first.
func CategoryTotals(transactions []Transaction, typ TransactionType, p Period, now time.Time) []CategoryAmount {
	return totalsByCategory(FilterByType(TransactionsByPeriod(transactions, p, now), typ))
}

// TopExpenseCategories returns the n largest expense categories over the
// whole log with their share of total expenses.
func TopExpenseCategories(transactions []Transaction, n int) []CategoryShare {
	expenses := FilterByType(transactions, Expense)
	total := Total(expenses)
	totals := totalsByCategory(expenses)
	if n >= 0 && len(totals) > n {
		totals = totals[:n]
	}
	shares := make([]CategoryShare, len(totals))
	for i, ca := range totals {
		shares[i] = CategoryShare{
			CategoryAmount: ca,
			Percentage:     Percent(ca.Amount, total).InexactFloat64(),
		}
	}
	return shares
}

// RecentTransactions returns the first n entries of a most-recent-first log.
func RecentTransactions(transactions []Transaction, n int) []Transaction {
	if n < 0 || n > len(transactions) {
		n = len(transactions)
	}
	return append([]Transaction(nil), transactions[:n]...)
}

func totalsByCategory(transactions []Transaction) []CategoryAmount {
	sums := make(map[string]Money)
	for _, t := range transactions {
		sums[t.Category] = sums[t.Category].Add(t.Amount)
	}
	out := make([]CategoryAmount, 0, len(sums))
	for name, amount := range sums {
		out = append(out, CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}
