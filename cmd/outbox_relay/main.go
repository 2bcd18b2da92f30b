package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/branchops/float_ledger/internal/adapters/notify"
	"github.com/branchops/float_ledger/internal/core/services"
	"github.com/branchops/float_ledger/internal/platform/config"
	"github.com/branchops/float_ledger/internal/platform/observability"
	"github.com/branchops/float_ledger/internal/repositories/database/pgsql"
	"github.com/branchops/float_ledger/pkg/database"
)

// outbox_relay re-posts ledger effects whose after-commit GL posting failed.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.OTLPEndpoint, "outbox_relay")
	if err != nil {
		logger.Error("Failed to initialize tracer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	container := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), services.Dependencies{
		Notifier: notify.NewLogNotifier(logger),
		Metrics:  observability.NewMetrics(),
	})

	logger.Info("Outbox relay started", slog.Duration("interval", cfg.RelayInterval), slog.Int("batch_size", cfg.RelayBatchSize))
	ticker := time.NewTicker(cfg.RelayInterval)
	defer ticker.Stop()

	for {
		report, err := container.Relay.RunOnce(ctx)
		if err != nil {
			logger.Error("Relay pass failed", slog.String("error", err.Error()))
		} else if report.Picked > 0 {
			logger.Info("Relay pass finished",
				slog.Int("picked", report.Picked),
				slog.Int("posted", report.Posted),
				slog.Int("failed", report.Failed))
		}

		select {
		case <-ctx.Done():
			logger.Info("Outbox relay stopped")
			return
		case <-ticker.C:
		}
	}
}
