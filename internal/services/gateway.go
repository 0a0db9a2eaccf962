package services

import (
	"context"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/persistence"
)

// Gateway is the persistence surface used by the service and the seeder.
// *persistence.Gateway implements it.
type Gateway interface {
	GetTransactions(ctx context.Context) []core.Transaction
	SaveTransactions(ctx context.Context, all []core.Transaction) error
	AddTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	GetBudgets(ctx context.Context) []core.Budget
	SaveBudgets(ctx context.Context, all []core.Budget) error
	AddBudget(ctx context.Context, b core.Budget) error
	DeleteBudget(ctx context.Context, id string) error

	LoadAll(ctx context.Context) (persistence.Snapshot, error)
	IsSeeded(ctx context.Context) bool
	MarkSeeded(ctx context.Context, at time.Time) error
}

var _ Gateway = (*persistence.Gateway)(nil)
