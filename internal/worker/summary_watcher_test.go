package worker

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

func bufferLogger(buf *bytes.Buffer) *log.Logger {
	return log.New(log.Config{
		Level:   slog.LevelDebug,
		Handler: slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func summaryAt(at time.Time, statuses ...core.BudgetStatus) *amqp.SummaryMessage {
	return amqp.NewSummaryMessage(core.FinancialSummary{
		TotalIncome:   core.Money{Cents: 500000},
		TotalExpenses: core.Money{Cents: 120000},
		Balance:       core.Money{Cents: 380000},
		BudgetStatus:  statuses,
	}, at)
}

func TestSummaryWatcher_HandleSummary(t *testing.T) {
	at := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		statuses   []core.BudgetStatus
		wantAlerts int
		wantLogs   []string
	}{
		{
			name:       "no budgets",
			wantAlerts: 0,
		},
		{
			name:       "moderate budget",
			statuses: []core.BudgetStatus{
				core.NewBudgetStatus("Food & Dining", core.Money{Cents: 120000}, core.Money{Cents: 150000}),
			},
			wantAlerts: 0,
		},
		{
			name: "near limit budget",
			statuses: []core.BudgetStatus{
				core.NewBudgetStatus("Transportation", core.Money{Cents: 90000}, core.Money{Cents: 100000}),
			},
			wantAlerts: 1,
			wantLogs:   []string{"Budget near limit", "category=Transportation"},
		},
		{
			name: "over budget",
			statuses: []core.BudgetStatus{
				core.NewBudgetStatus("Entertainment", core.Money{Cents: 50000}, core.Money{Cents: 40000}),
			},
			wantAlerts: 1,
			wantLogs:   []string{"Budget over limit", "over_by_cents=10000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewSummaryWatcher(bufferLogger(&buf))

			if err := w.HandleSummary(context.Background(), summaryAt(at, tt.statuses...)); err != nil {
				t.Fatalf("HandleSummary() error = %v", err)
			}
			if got := w.AlertCount(); got != tt.wantAlerts {
				t.Errorf("AlertCount() = %d, want %d", got, tt.wantAlerts)
			}
			out := buf.String()
			if !strings.Contains(out, "component=worker") {
				t.Errorf("log output missing component: %s", out)
			}
			for _, want := range tt.wantLogs {
				if !strings.Contains(out, want) {
					t.Errorf("log output missing %q: %s", want, out)
				}
			}
		})
	}
}

func TestSummaryWatcher_SkipsStaleSummaries(t *testing.T) {
	w := NewSummaryWatcher(nil)
	newer := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	over := core.NewBudgetStatus("Shopping", core.Money{Cents: 2}, core.Money{Cents: 1})

	if err := w.HandleSummary(context.Background(), summaryAt(newer)); err != nil {
		t.Fatal(err)
	}
	if err := w.HandleSummary(context.Background(), summaryAt(newer.Add(-time.Minute), over)); err != nil {
		t.Fatal(err)
	}

	if !w.Last().Timestamp.Equal(newer) {
		t.Errorf("Last().Timestamp = %v, want %v", w.Last().Timestamp, newer)
	}
	if w.AlertCount() != 0 {
		t.Errorf("stale summary raised %d alerts", w.AlertCount())
	}
}

func TestSummaryWatcher_EmptyMessage(t *testing.T) {
	w := NewSummaryWatcher(nil)
	if err := w.HandleSummary(context.Background(), nil); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("HandleSummary(nil) error = %v, want ErrEmptyMessage", err)
	}
	if w.Last() != nil {
		t.Error("Last() should be nil before any summary")
	}
}
