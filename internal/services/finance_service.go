package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/metrics"
	"fintrack/internal/persistence"
)

var (
	// ErrNotReady is returned by mutations before Start completes or after Close.
	ErrNotReady = errors.New("finance service not ready")

	ErrAlreadyStarted = errors.New("finance service already started")
)

// State is the service lifecycle stage.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Mutation names used for logs and metrics.
const (
	opAddTransaction    = "add_transaction"
	opDeleteTransaction = "delete_transaction"
	opAddBudget         = "add_budget"
	opDeleteBudget      = "delete_budget"
	opRefresh           = "refresh"
)

// Observer receives every recomputed summary. It runs synchronously inside
// the mutation that produced the summary and must not call back into the
// service's mutations or mutate the summary.
type Observer func(core.FinancialSummary)

// Recorder receives mutation outcomes and summary gauges.
// *metrics.Metrics implements it.
type Recorder interface {
	IncMutation(operation, status string)
	ObserveMutation(operation string, d time.Duration)
	ObserveSummary(s core.FinancialSummary, transactions, budgets int)
}

type Option func(*FinanceService)

func WithCatalog(c core.Catalog) Option {
	return func(s *FinanceService) { s.catalog = c }
}

func WithClock(now func() time.Time) Option {
	return func(s *FinanceService) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *FinanceService) { s.newID = newID }
}

func WithLogger(l *log.Logger) Option {
	return func(s *FinanceService) {
		if l != nil {
			s.logger = l.WithComponent(log.ComponentService)
		}
	}
}

func WithMetrics(r Recorder) Option {
	return func(s *FinanceService) { s.metrics = r }
}

// WithSeeder runs seeder during Start, before the initial load.
func WithSeeder(seeder *Seeder) Option {
	return func(s *FinanceService) { s.seeder = seeder }
}

// FinanceService owns the in-memory transaction and budget collections for a
// session. Every mutation is persisted first, then applied in memory, then
// the full summary is recomputed and handed to every observer before the
// call returns.
type FinanceService struct {
	gw      Gateway
	catalog core.Catalog
	now     func() time.Time
	newID   func() string
	logger  *log.Logger
	metrics Recorder
	seeder  *Seeder

	// opMu serializes mutations so memory order matches persisted order.
	opMu sync.Mutex

	mu           sync.RWMutex
	state        State
	transactions []core.Transaction
	budgets      []core.Budget
	summary      core.FinancialSummary
	observers    map[int]Observer
	nextObserver int

	ready chan struct{}
}

func NewFinanceService(gw Gateway, opts ...Option) *FinanceService {
	s := &FinanceService{
		gw:           gw,
		catalog:      core.DefaultCategories,
		now:          time.Now,
		newID:        uuid.NewString,
		logger:       log.Nop(),
		transactions: []core.Transaction{},
		budgets:      []core.Budget{},
		summary:      core.CalculateSummary(nil),
		observers:    make(map[int]Observer),
		ready:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start seeds (when configured), loads both collections and computes the
// first summary. It may be retried after a failed load.
func (s *FinanceService) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateUninitialized {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("start in state %s: %w", state, ErrAlreadyStarted)
	}
	s.state = StateLoading
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Loading ledger", log.FieldState, StateLoading.String())

	if s.seeder != nil {
		if _, err := s.seeder.Seed(ctx); err != nil {
			s.logger.WithFields(log.NewFields().
				WithOperation(log.OpSeed).
				WithError(err)).
				ErrorContext(ctx, "Seeding failed, continuing with stored data")
		}
	}

	snap, err := s.gw.LoadAll(ctx)
	if err != nil {
		s.mu.Lock()
		if s.state == StateLoading {
			s.state = StateUninitialized
		}
		s.mu.Unlock()
		return fmt.Errorf("load ledger: %w", err)
	}

	s.mu.Lock()
	if s.state == StateDisposed {
		s.mu.Unlock()
		return ErrNotReady
	}
	s.transactions = snap.Transactions
	s.budgets = snap.Budgets
	s.state = StateReady
	close(s.ready)
	s.mu.Unlock()

	summary := s.publish()
	s.logger.WithFields(log.NewFields().
		WithOperation(log.OpLoad).
		WithTotals(summary.TotalIncome.Cents, summary.TotalExpenses.Cents, summary.Balance.Cents)).
		InfoContext(ctx, "Ledger ready",
			"transactions", len(snap.Transactions),
			"budgets", len(snap.Budgets))
	return nil
}

// Ready is closed once Start has loaded the ledger.
func (s *FinanceService) Ready() <-chan struct{} {
	return s.ready
}

func (s *FinanceService) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Close disposes the service and drops every observer. Later mutations
// return ErrNotReady. Safe to call more than once.
func (s *FinanceService) Close() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateDisposed {
		s.state = StateDisposed
		s.observers = make(map[int]Observer)
		s.logger.Info("Finance service disposed")
	}
	return nil
}

// Subscribe registers obs for every future summary and returns a function
// removing it. Subscribing to a disposed service is a no-op.
func (s *FinanceService) Subscribe(obs Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDisposed || obs == nil {
		return func() {}
	}
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = obs

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.observers, id)
		})
	}
}

// AddTransaction validates in, persists the new transaction at the head of
// the log and publishes the recomputed summary. An empty date means today.
func (s *FinanceService) AddTransaction(ctx context.Context, in core.TransactionInput) (tx core.Transaction, err error) {
	defer s.track(opAddTransaction, time.Now(), &err)
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if !s.isReady() {
		return core.Transaction{}, ErrNotReady
	}

	in = in.Normalize()
	if in.Date.IsZero() {
		in.Date = core.DateOf(s.now())
	}
	if err := core.ValidateTransaction(in, s.catalog); err != nil {
		return core.Transaction{}, err
	}

	tx = core.NewTransaction(s.newID(), in, s.now().UTC())
	if err := s.gw.AddTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	s.mu.Lock()
	s.transactions = append([]core.Transaction{tx}, s.transactions...)
	s.mu.Unlock()
	s.publish()

	s.logger.WithFields(log.NewFields().
		WithOperation(log.OpAdd).
		WithTransaction(tx.ID, string(tx.Type), tx.Category, tx.Amount.Cents)).
		InfoContext(ctx, "Transaction added")
	return tx, nil
}

// DeleteTransaction removes a transaction. An unknown id changes nothing but
// still republishes the summary.
func (s *FinanceService) DeleteTransaction(ctx context.Context, id string) (err error) {
	defer s.track(opDeleteTransaction, time.Now(), &err)
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if !s.isReady() {
		return ErrNotReady
	}
	if err := s.gw.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.mu.Lock()
	s.transactions = removeByID(s.transactions, id, func(t core.Transaction) string { return t.ID })
	s.mu.Unlock()
	s.publish()

	s.logger.InfoContext(ctx, "Transaction deleted", log.FieldID, id)
	return nil
}

// AddBudget validates in against the catalog and the existing budgets and
// appends the new budget. An empty color takes the category's color.
func (s *FinanceService) AddBudget(ctx context.Context, in core.BudgetInput) (b core.Budget, err error) {
	defer s.track(opAddBudget, time.Now(), &err)
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if !s.isReady() {
		return core.Budget{}, ErrNotReady
	}

	in = in.Normalize()
	if err := core.ValidateBudget(in, s.catalog, s.Budgets()); err != nil {
		return core.Budget{}, err
	}
	if in.Color == "" {
		if cat, ok := s.catalog.Lookup(in.Category); ok {
			in.Color = cat.Color
		}
	}

	b = core.NewBudget(s.newID(), in, s.now().UTC())
	if err := s.gw.AddBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("add budget: %w", err)
	}

	s.mu.Lock()
	s.budgets = append(s.budgets, b)
	s.mu.Unlock()
	s.publish()

	s.logger.WithFields(log.NewFields().
		WithOperation(log.OpAdd).
		WithBudget(b.ID, b.Category, string(b.Period), b.Limit.Cents)).
		InfoContext(ctx, "Budget added")
	return b, nil
}

func (s *FinanceService) DeleteBudget(ctx context.Context, id string) (err error) {
	defer s.track(opDeleteBudget, time.Now(), &err)
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if !s.isReady() {
		return ErrNotReady
	}
	if err := s.gw.DeleteBudget(ctx, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}

	s.mu.Lock()
	s.budgets = removeByID(s.budgets, id, func(b core.Budget) string { return b.ID })
	s.mu.Unlock()
	s.publish()

	s.logger.InfoContext(ctx, "Budget deleted", log.FieldID, id)
	return nil
}

// Refresh replaces the in-memory collections with what is stored and
// republishes the summary.
func (s *FinanceService) Refresh(ctx context.Context) (err error) {
	defer s.track(opRefresh, time.Now(), &err)
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if !s.isReady() {
		return ErrNotReady
	}
	snap, err := s.gw.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	s.mu.Lock()
	s.transactions = snap.Transactions
	s.budgets = snap.Budgets
	s.mu.Unlock()
	s.publish()
	return nil
}

// LoadAll reads both collections straight from storage without touching
// the in-memory state.
func (s *FinanceService) LoadAll(ctx context.Context) (persistence.Snapshot, error) {
	return s.gw.LoadAll(ctx)
}

// Summary returns the latest summary.
func (s *FinanceService) Summary() core.FinancialSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSummary(s.summary)
}

// Transactions returns a copy of the log, most recent first.
func (s *FinanceService) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Transaction{}, s.transactions...)
}

// Budgets returns a copy of the budgets in insertion order.
func (s *FinanceService) Budgets() []core.Budget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Budget{}, s.budgets...)
}

func (s *FinanceService) Catalog() core.Catalog {
	return s.catalog
}

func (s *FinanceService) TransactionsByPeriod(p core.Period) []core.Transaction {
	return core.TransactionsByPeriod(s.Transactions(), p, s.now())
}

func (s *FinanceService) CategoryTotals(typ core.TransactionType, p core.Period) []core.CategoryAmount {
	return core.CategoryTotals(s.Transactions(), typ, p, s.now())
}

func (s *FinanceService) TopExpenseCategories(n int) []core.CategoryShare {
	return core.TopExpenseCategories(s.Transactions(), n)
}

func (s *FinanceService) RecentTransactions(n int) []core.Transaction {
	return core.RecentTransactions(s.Transactions(), n)
}

func (s *FinanceService) BudgetOverview() core.BudgetOverview {
	return core.Overview(s.Summary().BudgetStatus)
}

func (s *FinanceService) isReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateReady
}

// publish recomputes the summary from the current collections and hands it
// to every observer.
func (s *FinanceService) publish() core.FinancialSummary {
	s.mu.Lock()
	summary := core.Summarize(s.transactions, s.budgets, s.now())
	s.summary = summary
	txCount, budgetCount := len(s.transactions), len(s.budgets)
	observers := make([]Observer, 0, len(s.observers))
	for _, obs := range s.observers {
		observers = append(observers, obs)
	}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ObserveSummary(summary, txCount, budgetCount)
	}
	for _, obs := range observers {
		obs(cloneSummary(summary))
	}
	return summary
}

func (s *FinanceService) track(op string, start time.Time, errp *error) {
	err := *errp
	if err != nil {
		logger := s.logger.WithFields(log.NewFields().WithOperation(op).WithError(err))
		var verr *core.ValidationError
		switch {
		case errors.As(err, &verr):
			logger.Debug("Input rejected", log.FieldErrorType, log.ErrorTypeValidation)
		case errors.Is(err, ErrNotReady):
			logger.Warn("Mutation outside ready state", log.FieldErrorType, log.ErrorTypeNotReady)
		default:
			logger.Error("Mutation failed", log.FieldErrorType, log.ErrorTypeStorage)
		}
	}
	if s.metrics == nil {
		return
	}
	s.metrics.IncMutation(op, mutationStatus(err))
	s.metrics.ObserveMutation(op, time.Since(start))
}

func mutationStatus(err error) string {
	var verr *core.ValidationError
	switch {
	case err == nil:
		return metrics.StatusOK
	case errors.As(err, &verr):
		return metrics.StatusInvalid
	case errors.Is(err, ErrNotReady):
		return metrics.StatusNotReady
	default:
		return metrics.StatusFailed
	}
}

func cloneSummary(s core.FinancialSummary) core.FinancialSummary {
	s.BudgetStatus = append([]core.BudgetStatus{}, s.BudgetStatus...)
	return s
}

func removeByID[T any](items []T, id string, idOf func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if idOf(it) != id {
			out = append(out, it)
		}
	}
	return out
}

var _ Recorder = (*metrics.Metrics)(nil)
