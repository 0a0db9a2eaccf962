package amqp

import (
	"context"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// SummaryPublisher publishes summary events. *Client implements it.
type SummaryPublisher interface {
	PublishSummary(ctx context.Context, msg *SummaryMessage) error
}

// SummaryObserver adapts a publisher to a summary observer. Publish errors
// are logged and never reach the mutation that produced the summary.
func SummaryObserver(p SummaryPublisher, logger *log.Logger, now func() time.Time) func(core.FinancialSummary) {
	if logger == nil {
		logger = log.Nop()
	}
	logger = logger.WithComponent(log.ComponentAMQP)
	if now == nil {
		now = time.Now
	}
	return func(s core.FinancialSummary) {
		msg := NewSummaryMessage(s, now())
		if err := p.PublishSummary(context.Background(), msg); err != nil {
			logger.WithFields(log.NewFields().
				WithOperation(log.OpPublish).
				WithErrorType(log.ErrorTypeNetwork).
				WithError(err)).
				Warn("Failed to publish summary")
		}
	}
}
