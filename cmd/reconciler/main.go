/**
 * @description
 * This is the main entry point for the wallet reconciler. It is a non-HTTP, long-running
 * process that periodically compares wallet balances with their credit ledgers and logs
 * every drifted wallet.
 */
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/transfa/returns-service/internal/app"
	"github.com/transfa/returns-service/internal/config"
	"github.com/transfa/returns-service/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		logger.Error("database url must be configured", "env", "DATABASE_URL")
		os.Exit(1)
	}

	ctx := context.Background()

	dbpool, err := store.OpenPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	logger.Info("database connection established")

	reconciler := app.NewWalletReconciler(store.NewPostgresRepository(dbpool), logger)
	scheduler := app.NewScheduler(reconciler, logger, cfg.ReconcileSchedule)

	// Run once at boot so drift is reported without waiting a full interval.
	reconciler.RunReconciliation()

	if err := scheduler.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err, "schedule", cfg.ReconcileSchedule)
		os.Exit(1)
	}
	logger.Info("scheduler started", "schedule", cfg.ReconcileSchedule)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received, stopping scheduler")
	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	logger.Info("scheduler stopped gracefully")
}
