package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/raj-kalepu/SpendWise/internal/amqp"
	"github.com/raj-kalepu/SpendWise/internal/backend"
	"github.com/raj-kalepu/SpendWise/internal/config"
	"github.com/raj-kalepu/SpendWise/internal/core"
	applog "github.com/raj-kalepu/SpendWise/internal/log"
	"github.com/raj-kalepu/SpendWise/internal/store"
)

// The notifier consumes record change events, keeps its own snapshot fresh
// and logs budget and loan alerts as they appear.
func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentNotifier})
	applog.SetDefault(logger)

	logger.Info("Starting spendwise-notifier")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the notifier")
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Backend configuration failed", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	snap := store.New(result.Repository)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := snap.Refresh(ctx); err != nil {
		logger.Error("Initial snapshot load failed", "error", err)
		os.Exit(1)
	}
	logAlerts(logger, snap, cfg.NearLimitRatio)

	go func() {
		err := amqpClient.ConsumeRecordChanges(ctx, func(msg *amqp.RecordChangeMessage) error {
			if err := snap.Refresh(ctx); err != nil {
				return err
			}
			logAlerts(logger, snap, cfg.NearLimitRatio)
			return nil
		})
		if err != nil && err != context.Canceled {
			logger.Error("Message consumption failed", "error", err)
			cancel()
		}
	}()

	// Loans drift toward their due dates without any record changing, so
	// re-evaluate on a timer as well.
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := snap.Refresh(ctx); err != nil {
					logger.Error("Periodic refresh failed", "error", err)
					continue
				}
				logAlerts(logger, snap, cfg.NearLimitRatio)
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()
	logger.Info("Notifier stopped")
}

func logAlerts(logger *applog.Logger, snap *store.Store, nearLimitRatio float64) {
	s := snap.Snapshot()
	alerts := core.EvaluateAlerts(s.Budgets, s.Transactions, s.Loans, time.Now(), nearLimitRatio)

	for _, a := range alerts {
		switch a.Kind {
		case core.AlertOverrun:
			logger.Warn("Budget overrun",
				"category", a.Category,
				"spent", a.Spent.Decimal(),
				"limit", a.Limit.Decimal(),
				"overage", a.Overage.Decimal())
		case core.AlertNearLimit:
			logger.Warn("Budget near limit",
				"category", a.Category,
				"spent", a.Spent.Decimal(),
				"limit", a.Limit.Decimal())
		case core.AlertDueSoon:
			logger.Warn("Loan due soon",
				"lender", a.Lender,
				"amount", a.Amount.Decimal(),
				"due_date", a.DueDate.Storage())
		}
	}

	if len(alerts) == 0 {
		logger.Debug("No alerts")
	}
}
