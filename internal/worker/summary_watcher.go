// Package worker holds the consumers that react to summary events.
package worker

import (
	"context"
	"errors"
	"sync"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

var ErrEmptyMessage = errors.New("empty summary message")

// SummaryWatcher logs budget alerts carried by summary events and remembers
// the most recent summary it saw.
type SummaryWatcher struct {
	logger *log.Logger

	mu     sync.Mutex
	last   *amqp.SummaryMessage
	alerts int
}

func NewSummaryWatcher(logger *log.Logger) *SummaryWatcher {
	if logger == nil {
		logger = log.Nop()
	}
	return &SummaryWatcher{logger: logger.WithComponent(log.ComponentWorker)}
}

// HandleSummary processes a single summary message from AMQP. Out-of-order
// deliveries older than the last seen summary are logged and skipped.
func (w *SummaryWatcher) HandleSummary(ctx context.Context, msg *amqp.SummaryMessage) error {
	if msg == nil {
		return ErrEmptyMessage
	}

	w.mu.Lock()
	if w.last != nil && msg.Timestamp.Before(w.last.Timestamp) {
		w.mu.Unlock()
		w.logger.DebugContext(ctx, "Skipping stale summary", "timestamp", msg.Timestamp)
		return nil
	}
	w.last = msg
	alerts := msg.Alerts()
	w.alerts += len(alerts)
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "Summary received",
		log.NewFields().
			WithOperation(log.OpConsume).
			WithTotals(msg.TotalIncome.Cents, msg.TotalExpenses.Cents, msg.Balance.Cents).
			ToSlice()...)

	for _, a := range alerts {
		fields := log.LogFields{
			log.FieldCategory:    a.Category,
			log.FieldLimitCents:  a.Limit.Cents,
			log.FieldAmountCents: a.Spent.Cents,
			log.FieldPercentage:  a.Percentage,
		}

		switch a.Health {
		case core.HealthOverBudget:
			fields["over_by_cents"] = a.OverBy.Cents
			w.logger.WarnContext(ctx, "Budget over limit", fields.ToSlice()...)
		default:
			w.logger.WarnContext(ctx, "Budget near limit", fields.ToSlice()...)
		}
	}
	return nil
}

// Last returns the most recent summary handled, or nil.
func (w *SummaryWatcher) Last() *amqp.SummaryMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// AlertCount is the number of budget alerts raised since start.
func (w *SummaryWatcher) AlertCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.alerts
}
