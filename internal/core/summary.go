package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget health levels, judged on the true (unclamped) utilization.
const (
	HealthOnTrack    BudgetHealth = "on_track"
	HealthModerate   BudgetHealth = "moderate"
	HealthNearLimit  BudgetHealth = "near_limit"
	HealthOverBudget BudgetHealth = "over_budget"
)

type BudgetHealth string

// BudgetStatus is the utilization of one budget over the current month.
// Percentage is clamped to 100 for progress bars; Spent and Limit are the
// true values and OverBy is always computed from them.
type BudgetStatus struct {
	Category   string  `json:"category"`
	Spent      Money   `json:"spent"`
	Limit      Money   `json:"limit"`
	Percentage float64 `json:"percentage"`
}

// FinancialSummary is derived from the transaction and budget collections
// and never stored.
type FinancialSummary struct {
	TotalIncome   Money          `json:"totalIncome"`
	TotalExpenses Money          `json:"totalExpenses"`
	Balance       Money          `json:"balance"`
	BudgetStatus  []BudgetStatus `json:"budgetStatus"`
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"category"`
	Amount Money  `json:"amount"`
}

// CategoryShare is a category total with its share of all expenses.
type CategoryShare struct {
	CategoryAmount
	Percentage float64 `json:"percentage"`
}

// BudgetOverview aggregates all budget statuses of the month.
type BudgetOverview struct {
	TotalLimit Money   `json:"totalLimit"`
	TotalSpent Money   `json:"totalSpent"`
	Percentage float64 `json:"percentage"`
}

// NewBudgetStatus computes utilization; a non-positive limit yields 0%.
func NewBudgetStatus(category string, spent, limit Money) BudgetStatus {
	pct := decimal.Min(Percent(spent, limit), hundred)
	return BudgetStatus{
		Category:   category,
		Spent:      spent,
		Limit:      limit,
		Percentage: pct.InexactFloat64(),
	}
}

// TruePercentage is the unclamped utilization.
func (s BudgetStatus) TruePercentage() float64 {
	return Percent(s.Spent, s.Limit).InexactFloat64()
}

func (s BudgetStatus) IsOverBudget() bool {
	return s.Spent.Cents > s.Limit.Cents
}

// OverBy is spent minus limit, or zero when within budget.
func (s BudgetStatus) OverBy() Money {
	if !s.IsOverBudget() {
		return Money{}
	}
	return s.Spent.Sub(s.Limit)
}

// Remaining is limit minus spent, or zero when over budget.
func (s BudgetStatus) Remaining() Money {
	if s.IsOverBudget() {
		return Money{}
	}
	return s.Limit.Sub(s.Spent)
}

func (s BudgetStatus) Health() BudgetHealth {
	if s.IsOverBudget() {
		return HealthOverBudget
	}
	pct := Percent(s.Spent, s.Limit)
	switch {
	case pct.GreaterThan(decimal.NewFromInt(80)):
		return HealthNearLimit
	case pct.GreaterThan(decimal.NewFromInt(50)):
		return HealthModerate
	default:
		return HealthOnTrack
	}
}

// CalculateSummary totals income and expenses. BudgetStatus is left empty.
func CalculateSummary(transactions []Transaction) FinancialSummary {
	var income, expenses Money
	for _, t := range transactions {
		switch t.Type {
		case Income:
			income = income.Add(t.Amount)
		case Expense:
			expenses = expenses.Add(t.Amount)
		}
	}
	return FinancialSummary{
		TotalIncome:   income,
		TotalExpenses: expenses,
		Balance:       income.Sub(expenses),
		BudgetStatus:  []BudgetStatus{},
	}
}

// CurrentMonthTransactions keeps transactions dated within the calendar
// month containing now, first and last day included.
func CurrentMonthTransactions(transactions []Transaction, now time.Time) []Transaction {
	first, last := MonthBounds(now)
	return TransactionsByDateRange(transactions, first, last)
}

// TransactionsByCategory groups transactions, keeping their relative order.
func TransactionsByCategory(transactions []Transaction) map[string][]Transaction {
	groups := make(map[string][]Transaction)
	for _, t := range transactions {
		groups[t.Category] = append(groups[t.Category], t)
	}
	return groups
}

func FilterByType(transactions []Transaction, typ TransactionType) []Transaction {
	out := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.Type == typ {
			out = append(out, t)
		}
	}
	return out
}

func Total(transactions []Transaction) Money {
	var sum Money
	for _, t := range transactions {
		sum = sum.Add(t.Amount)
	}
	return sum
}

// BudgetStatuses reports, for each budget in order, the current-month
// expenses recorded in its category.
func BudgetStatuses(transactions []Transaction, budgets []Budget, now time.Time) []BudgetStatus {
	expenses := TransactionsByCategory(FilterByType(CurrentMonthTransactions(transactions, now), Expense))
	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		statuses = append(statuses, NewBudgetStatus(b.Category, Total(expenses[b.Category]), b.Limit))
	}
	return statuses
}

// Summarize derives the full summary for the given snapshot.
func Summarize(transactions []Transaction, budgets []Budget, now time.Time) FinancialSummary {
	s := CalculateSummary(transactions)
	s.BudgetStatus = BudgetStatuses(transactions, budgets, now)
	return s
}

func Overview(statuses []BudgetStatus) BudgetOverview {
	var o BudgetOverview
	for _, s := range statuses {
		o.TotalLimit = o.TotalLimit.Add(s.Limit)
		o.TotalSpent = o.TotalSpent.Add(s.Spent)
	}
	o.Percentage = Percent(o.TotalSpent, o.TotalLimit).InexactFloat64()
	return o
}
