package amqp

import (
	"encoding/json"
	"time"

	"fintrack/internal/core"
)

// SummaryMessage is the event published after every ledger change.
// Amounts are JSON numbers in currency units.
type SummaryMessage struct {
	TotalIncome   core.Money            `json:"totalIncome"`
	TotalExpenses core.Money            `json:"totalExpenses"`
	Balance       core.Money            `json:"balance"`
	BudgetStatus  []BudgetStatusMessage `json:"budgetStatus"`
	Timestamp     time.Time             `json:"timestamp"`
}

// BudgetStatusMessage carries the clamped percentage for display plus the
// true overage and health level.
type BudgetStatusMessage struct {
	Category   string            `json:"category"`
	Spent      core.Money        `json:"spent"`
	Limit      core.Money        `json:"limit"`
	Percentage float64           `json:"percentage"`
	OverBy     core.Money        `json:"overBy"`
	Health     core.BudgetHealth `json:"health"`
}

// NewSummaryMessage builds the event for a summary computed at the given time.
func NewSummaryMessage(s core.FinancialSummary, at time.Time) *SummaryMessage {
	statuses := make([]BudgetStatusMessage, len(s.BudgetStatus))
	for i, b := range s.BudgetStatus {
		statuses[i] = BudgetStatusMessage{
			Category:   b.Category,
			Spent:      b.Spent,
			Limit:      b.Limit,
			Percentage: b.Percentage,
			OverBy:     b.OverBy(),
			Health:     b.Health(),
		}
	}
	return &SummaryMessage{
		TotalIncome:   s.TotalIncome,
		TotalExpenses: s.TotalExpenses,
		Balance:       s.Balance,
		BudgetStatus:  statuses,
		Timestamp:     at.UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SummaryMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SummaryMessageFromJSON creates a message from JSON bytes
func SummaryMessageFromJSON(data []byte) (*SummaryMessage, error) {
	var msg SummaryMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Alerts returns the budgets that are over or near their limit.
func (m *SummaryMessage) Alerts() []BudgetStatusMessage {
	var out []BudgetStatusMessage
	for _, b := range m.BudgetStatus {
		if b.Health == core.HealthOverBudget || b.Health == core.HealthNearLimit {
			out = append(out, b)
		}
	}
	return out
}
