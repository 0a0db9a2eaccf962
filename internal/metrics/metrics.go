// Package metrics exposes ledger and persistence metrics on a private
// Prometheus registry. A nil *Metrics is valid and records nothing.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"fintrack/internal/core"
)

const namespace = "fintrack"

// Mutation outcomes.
const (
	StatusOK       = "ok"
	StatusInvalid  = "invalid"
	StatusFailed   = "failed"
	StatusNotReady = "not_ready"
)

type Metrics struct {
	// Registry owns every metric below.
	Registry *prometheus.Registry

	mutations         *prometheus.CounterVec
	mutationDuration  *prometheus.HistogramVec
	writeFailures     *prometheus.CounterVec
	readFailures      *prometheus.CounterVec
	balance           prometheus.Gauge
	income            prometheus.Gauge
	expenses          prometheus.Gauge
	transactions      prometheus.Gauge
	budgets           prometheus.Gauge
	budgetUtilization *prometheus.GaugeVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_total",
				Help:      "Ledger mutations by operation and outcome.",
			},
			[]string{"operation", "status"},
		),
		mutationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "mutation_duration_seconds",
				Help:      "Duration of ledger mutations including persistence.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"operation"},
		),
		writeFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "persistence_write_failures_total",
				Help:      "Failed collection writes.",
			},
			[]string{"collection"},
		),
		readFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "persistence_read_failures_total",
				Help:      "Collection reads recovered as empty because of a storage or decode error.",
			},
			[]string{"collection"},
		),
		balance: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "balance",
			Help:      "Total income minus total expenses.",
		}),
		income: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "income_total",
			Help:      "Sum of all income transactions.",
		}),
		expenses: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "expenses_total",
			Help:      "Sum of all expense transactions.",
		}),
		transactions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transactions",
			Help:      "Number of recorded transactions.",
		}),
		budgets: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "budgets",
			Help:      "Number of budgets.",
		}),
		budgetUtilization: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "budget_utilization_percent",
				Help:      "Current-month spending against each budget limit, unclamped.",
			},
			[]string{"category"},
		),
	}
}

func (m *Metrics) IncMutation(operation, status string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(operation, status).Inc()
}

func (m *Metrics) ObserveMutation(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.mutationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) IncWriteFailure(collection string) {
	if m == nil {
		return
	}
	m.writeFailures.WithLabelValues(collection).Inc()
}

func (m *Metrics) IncReadFailure(collection string) {
	if m == nil {
		return
	}
	m.readFailures.WithLabelValues(collection).Inc()
}

// ObserveSummary sets the ledger gauges from a freshly derived summary.
// Utilization series of removed budgets are dropped.
func (m *Metrics) ObserveSummary(s core.FinancialSummary, transactions, budgets int) {
	if m == nil {
		return
	}
	m.balance.Set(s.Balance.Float64())
	m.income.Set(s.TotalIncome.Float64())
	m.expenses.Set(s.TotalExpenses.Float64())
	m.transactions.Set(float64(transactions))
	m.budgets.Set(float64(budgets))

	m.budgetUtilization.Reset()
	for _, b := range s.BudgetStatus {
		m.budgetUtilization.WithLabelValues(b.Category).Set(b.TruePercentage())
	}
}

// WriteTextfile exports the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
