package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

type sampleTransaction struct {
	typ         core.TransactionType
	cents       int64
	category    string
	description string
	daysAgo     int
}

type sampleBudget struct {
	category string
	cents    int64
	color    string
}

// Most recent first, matching the stored order.
var sampleTransactions = []sampleTransaction{
	{core.Income, 500000, "Salary", "Monthly Salary", 0},
	{core.Expense, 120000, "Food & Dining", "Groceries and restaurants", 1},
	{core.Expense, 80000, "Transportation", "Gas and car maintenance", 2},
	{core.Expense, 50000, "Shopping", "Clothes and accessories", 3},
	{core.Income, 80000, "Freelance", "Web development project", 4},
	{core.Expense, 30000, "Entertainment", "Movies and games", 5},
}

var sampleBudgets = []sampleBudget{
	{"Food & Dining", 150000, "#FF6B6B"},
	{"Transportation", 100000, "#4ECDC4"},
	{"Entertainment", 40000, "#96CEB4"},
}

// SeedResult reports what a Seed call wrote.
type SeedResult struct {
	Transactions int
	Budgets      int
	// AlreadySeeded is set when the first-run flag was found.
	AlreadySeeded bool
}

// Seeder writes the sample data set on first run.
type Seeder struct {
	gw     Gateway
	now    func() time.Time
	newID  func() string
	logger *log.Logger
}

type SeederOption func(*Seeder)

func SeederClock(now func() time.Time) SeederOption {
	return func(s *Seeder) { s.now = now }
}

func SeederIDs(newID func() string) SeederOption {
	return func(s *Seeder) { s.newID = newID }
}

func SeederLogger(l *log.Logger) SeederOption {
	return func(s *Seeder) {
		if l != nil {
			s.logger = l.WithComponent(log.ComponentSeeder)
		}
	}
}

func NewSeeder(gw Gateway, opts ...SeederOption) *Seeder {
	s := &Seeder{
		gw:     gw,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: log.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed fills each empty collection with the sample set and then sets the
// first-run flag. Once the flag is set it never writes again, even if the
// collections are emptied later. A store holding data but no flag gets the
// flag and no samples.
func (s *Seeder) Seed(ctx context.Context) (SeedResult, error) {
	if s.gw.IsSeeded(ctx) {
		s.logger.DebugContext(ctx, "Store already seeded, skipping")
		return SeedResult{AlreadySeeded: true}, nil
	}

	now := s.now()
	var res SeedResult

	if len(s.gw.GetTransactions(ctx)) == 0 {
		txs := s.transactions(now)
		if err := s.gw.SaveTransactions(ctx, txs); err != nil {
			return res, fmt.Errorf("seed transactions: %w", err)
		}
		res.Transactions = len(txs)
	}

	if len(s.gw.GetBudgets(ctx)) == 0 {
		budgets := s.budgets(now)
		if err := s.gw.SaveBudgets(ctx, budgets); err != nil {
			return res, fmt.Errorf("seed budgets: %w", err)
		}
		res.Budgets = len(budgets)
	}

	if err := s.gw.MarkSeeded(ctx, now); err != nil {
		return res, err
	}

	s.logger.InfoContext(ctx, "Sample data seeded",
		"transactions", res.Transactions,
		"budgets", res.Budgets)
	return res, nil
}

func (s *Seeder) transactions(now time.Time) []core.Transaction {
	today := core.DateOf(now)
	createdAt := now.UTC()
	out := make([]core.Transaction, len(sampleTransactions))
	for i, st := range sampleTransactions {
		out[i] = core.Transaction{
			ID:          s.newID(),
			Type:        st.typ,
			Amount:      core.Money{Cents: st.cents},
			Category:    st.category,
			Description: st.description,
			Date:        today.AddDays(-st.daysAgo),
			CreatedAt:   createdAt,
		}
	}
	return out
}

func (s *Seeder) budgets(now time.Time) []core.Budget {
	createdAt := now.UTC()
	out := make([]core.Budget, len(sampleBudgets))
	for i, sb := range sampleBudgets {
		out[i] = core.Budget{
			ID:        s.newID(),
			Category:  sb.category,
			Limit:     core.Money{Cents: sb.cents},
			Period:    core.Monthly,
			Color:     sb.color,
			CreatedAt: createdAt,
		}
	}
	return out
}
