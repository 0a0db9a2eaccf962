package main

import (
	"context"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/metrics"
	"fintrack/internal/persistence"
	"fintrack/internal/services"
)

const startTimeout = 30 * time.Second

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting fintrack")

	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()

	store := cli.InitBackend(ctx, logger, cfg)
	defer func() {
		if err := store.Cleanup(); err != nil {
			logger.Error("Failed to release backend", "error", err)
		}
	}()

	m := metrics.New()
	gw := persistence.New(store.Store,
		persistence.WithLogger(logger),
		persistence.WithFailureRecorder(m))

	opts := []services.Option{
		services.WithLogger(logger),
		services.WithMetrics(m),
	}
	if cfg.SeedSampleData {
		opts = append(opts, services.WithSeeder(services.NewSeeder(gw, services.SeederLogger(logger))))
	}
	svc := services.NewFinanceService(gw, opts...)
	defer svc.Close()

	// Summary events are optional; a missing broker only disables them
	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("AMQP unavailable, summary events disabled", "error", err)
		} else {
			defer client.Close()
			unsubscribe := svc.Subscribe(amqp.SummaryObserver(client, logger, nil))
			defer unsubscribe()
			logger.Info("Publishing summary events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	if err := svc.Start(ctx); err != nil {
		logger.Error("Failed to start finance service", "error", err)
		os.Exit(1)
	}

	logger.Debug("Category catalog", "categories", svc.Catalog().Names())
	report(logger, svc)

	if cfg.MetricsTextfile != "" {
		if err := m.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("Failed to write metrics textfile", "error", err, "path", cfg.MetricsTextfile)
		} else {
			logger.Info("Metrics written", "path", cfg.MetricsTextfile)
		}
	}
}

// report logs the current summary, the monthly budget overview and the
// largest expense categories.
func report(logger *log.Logger, svc *services.FinanceService) {
	s := svc.Summary()
	logger.Info("Financial summary",
		"income", s.TotalIncome.String(),
		"expenses", s.TotalExpenses.String(),
		"balance", s.Balance.String(),
		"transactions", len(svc.Transactions()))

	for _, b := range s.BudgetStatus {
		attrs := []any{
			log.FieldCategory, b.Category,
			"spent", b.Spent.String(),
			"limit", b.Limit.String(),
			log.FieldPercentage, b.Percentage,
			"health", string(b.Health()),
		}
		if b.IsOverBudget() {
			logger.Warn("Budget exceeded", append(attrs, "over_by", b.OverBy().String())...)
			continue
		}
		logger.Info("Budget", append(attrs, "remaining", b.Remaining().String())...)
	}

	o := svc.BudgetOverview()
	logger.Info("Budget overview",
		"total_limit", o.TotalLimit.String(),
		"total_spent", o.TotalSpent.String(),
		log.FieldPercentage, o.Percentage)

	for _, c := range svc.TopExpenseCategories(3) {
		logger.Info("Top expense category",
			log.FieldCategory, c.Name,
			"amount", c.Amount.String(),
			log.FieldPercentage, c.Percentage)
	}

	for _, c := range svc.CategoryTotals(core.Income, core.PeriodMonth) {
		logger.Info("Income this month", log.FieldCategory, c.Name, "amount", c.Amount.String())
	}
}
