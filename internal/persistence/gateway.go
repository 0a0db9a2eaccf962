// Package persistence stores the transaction and budget collections as JSON
// arrays in a key-value store.
//
// Each collection is one blob under a fixed key. Reads never fail: a missing
// key, a storage error or a corrupt blob all yield an empty collection and
// are logged. Writes replace the whole blob and their errors are logged and
// returned. Every read-modify-write holds the collection's mutex, so
// concurrent adds through one Gateway never lose updates.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/kv"
	"fintrack/internal/log"
)

// Storage keys.
const (
	TransactionsKey = "transactions"
	BudgetsKey      = "budgets"
	SeededKey       = "seeded_at"
)

// FailureRecorder counts recovered read failures and write failures per
// collection.
type FailureRecorder interface {
	IncReadFailure(collection string)
	IncWriteFailure(collection string)
}

type Option func(*Gateway)

func WithLogger(l *log.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l.WithComponent(log.ComponentPersistence)
		}
	}
}

func WithFailureRecorder(r FailureRecorder) Option {
	return func(g *Gateway) { g.recorder = r }
}

type Gateway struct {
	store    kv.Store
	logger   *log.Logger
	recorder FailureRecorder

	txMu     sync.Mutex
	budgetMu sync.Mutex
}

// Snapshot is both collections as read by LoadAll.
type Snapshot struct {
	Transactions []core.Transaction
	Budgets      []core.Budget
}

func New(store kv.Store, opts ...Option) *Gateway {
	g := &Gateway{
		store:  store,
		logger: log.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) GetTransactions(ctx context.Context) []core.Transaction {
	g.txMu.Lock()
	defer g.txMu.Unlock()
	return read[core.Transaction](ctx, g, TransactionsKey)
}

// SaveTransactions replaces the stored collection with all.
func (g *Gateway) SaveTransactions(ctx context.Context, all []core.Transaction) error {
	g.txMu.Lock()
	defer g.txMu.Unlock()
	return write(ctx, g, TransactionsKey, all)
}

// AddTransaction stores t at the head of the collection.
func (g *Gateway) AddTransaction(ctx context.Context, t core.Transaction) error {
	g.txMu.Lock()
	defer g.txMu.Unlock()
	current := read[core.Transaction](ctx, g, TransactionsKey)
	return write(ctx, g, TransactionsKey, append([]core.Transaction{t}, current...))
}

// DeleteTransaction removes the transaction with the given id. An unknown id
// writes nothing and is not an error.
func (g *Gateway) DeleteTransaction(ctx context.Context, id string) error {
	g.txMu.Lock()
	defer g.txMu.Unlock()
	current := read[core.Transaction](ctx, g, TransactionsKey)
	kept, removed := without(current, func(t core.Transaction) bool { return t.ID == id })
	if !removed {
		g.logger.DebugContext(ctx, "Transaction not found, nothing to delete", log.FieldID, id)
		return nil
	}
	return write(ctx, g, TransactionsKey, kept)
}

func (g *Gateway) GetBudgets(ctx context.Context) []core.Budget {
	g.budgetMu.Lock()
	defer g.budgetMu.Unlock()
	return read[core.Budget](ctx, g, BudgetsKey)
}

func (g *Gateway) SaveBudgets(ctx context.Context, all []core.Budget) error {
	g.budgetMu.Lock()
	defer g.budgetMu.Unlock()
	return write(ctx, g, BudgetsKey, all)
}

// AddBudget stores b at the tail of the collection. Category uniqueness is
// the caller's responsibility.
func (g *Gateway) AddBudget(ctx context.Context, b core.Budget) error {
	g.budgetMu.Lock()
	defer g.budgetMu.Unlock()
	current := read[core.Budget](ctx, g, BudgetsKey)
	return write(ctx, g, BudgetsKey, append(current, b))
}

func (g *Gateway) DeleteBudget(ctx context.Context, id string) error {
	g.budgetMu.Lock()
	defer g.budgetMu.Unlock()
	current := read[core.Budget](ctx, g, BudgetsKey)
	kept, removed := without(current, func(b core.Budget) bool { return b.ID == id })
	if !removed {
		g.logger.DebugContext(ctx, "Budget not found, nothing to delete", log.FieldID, id)
		return nil
	}
	return write(ctx, g, BudgetsKey, kept)
}

// LoadAll reads both collections concurrently. The returned error is only
// the context's; storage problems surface as empty collections.
func (g *Gateway) LoadAll(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		snap.Transactions = g.GetTransactions(egCtx)
		return nil
	})
	eg.Go(func() error {
		snap.Budgets = g.GetBudgets(egCtx)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("load collections: %w", err)
	}
	return snap, nil
}

// IsSeeded reports whether sample data was ever written to this store.
// A read error counts as not seeded.
func (g *Gateway) IsSeeded(ctx context.Context) bool {
	v, ok, err := g.store.Get(ctx, SeededKey)
	if err != nil {
		g.logger.WarnContext(ctx, "Failed to read first-run flag",
			log.FieldKey, SeededKey, log.FieldError, err)
		return false
	}
	return ok && v != ""
}

// MarkSeeded records the first-run flag with the given time.
func (g *Gateway) MarkSeeded(ctx context.Context, at time.Time) error {
	if err := g.store.Set(ctx, SeededKey, at.UTC().Format(time.RFC3339)); err != nil {
		g.logger.ErrorContext(ctx, "Failed to write first-run flag",
			log.FieldKey, SeededKey, log.FieldError, err)
		return fmt.Errorf("mark seeded: %w", err)
	}
	return nil
}

func read[T any](ctx context.Context, g *Gateway, key string) []T {
	raw, ok, err := g.store.Get(ctx, key)
	if err != nil {
		g.logger.WithFields(log.NewFields().
			WithOperation(log.OpRead).
			WithKey(key).
			WithErrorType(log.ErrorTypeStorage).
			WithError(err)).
			ErrorContext(ctx, "Failed to read collection, using empty")
		g.readFailed(key)
		return []T{}
	}
	if !ok || raw == "" {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		g.logger.WithFields(log.NewFields().
			WithOperation(log.OpRead).
			WithKey(key).
			WithErrorType(log.ErrorTypeDecode).
			WithError(err)).
			WarnContext(ctx, "Stored collection is corrupt, using empty")
		g.readFailed(key)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

func write[T any](ctx context.Context, g *Gateway, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := g.store.Set(ctx, key, string(data)); err != nil {
		g.logger.WithFields(log.NewFields().
			WithOperation(log.OpWrite).
			WithKey(key).
			WithErrorType(log.ErrorTypeStorage).
			WithError(err)).
			ErrorContext(ctx, "Failed to save collection")
		if g.recorder != nil {
			g.recorder.IncWriteFailure(key)
		}
		return fmt.Errorf("save %s: %w", key, err)
	}
	g.logger.DebugContext(ctx, "Collection saved", log.FieldKey, key, log.FieldCount, len(items))
	return nil
}

func (g *Gateway) readFailed(key string) {
	if g.recorder != nil {
		g.recorder.IncReadFailure(key)
	}
}

func without[T any](items []T, match func(T) bool) ([]T, bool) {
	kept := make([]T, 0, len(items))
	removed := false
	for _, it := range items {
		if match(it) {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	return kept, removed
}
