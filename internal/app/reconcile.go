/**
 * @description
 * Wallet reconciliation job. Each run compares every wallet balance with the sum of
 * the credits recorded for it and logs any wallet where the two differ. The job never
 * writes; fixing a drifted wallet is an operator decision.
 */
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/transfa/returns-service/internal/domain"
)

// DiscrepancyLister is the read-only storage the reconciler needs.
type DiscrepancyLister interface {
	ListWalletDiscrepancies(ctx context.Context) ([]domain.WalletDiscrepancy, error)
}

// WalletReconciler checks that wallet balances equal their credited totals.
type WalletReconciler struct {
	repo    DiscrepancyLister
	logger  *slog.Logger
	timeout time.Duration
}

func NewWalletReconciler(repo DiscrepancyLister, logger *slog.Logger) *WalletReconciler {
	return &WalletReconciler{repo: repo, logger: logger, timeout: 2 * time.Minute}
}

// Reconcile runs one pass and returns the wallets that drifted.
func (r *WalletReconciler) Reconcile(ctx context.Context) ([]domain.WalletDiscrepancy, error) {
	discrepancies, err := r.repo.ListWalletDiscrepancies(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range discrepancies {
		r.logger.Error("wallet balance does not match credited total",
			"customer_id", item.CustomerID,
			"balance", item.Balance.StringFixed(domain.MoneyScale),
			"credited_total", item.CreditedTotal.StringFixed(domain.MoneyScale),
			"difference", item.Balance.Sub(item.CreditedTotal).StringFixed(domain.MoneyScale),
		)
	}
	return discrepancies, nil
}

// RunReconciliation is the cron entry point.
func (r *WalletReconciler) RunReconciliation() {
	r.logger.Info("starting wallet reconciliation job")
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	discrepancies, err := r.Reconcile(ctx)
	if err != nil {
		r.logger.Error("failed to reconcile wallets", "error", err)
		return
	}
	if len(discrepancies) == 0 {
		r.logger.Info("wallet reconciliation job finished; all balances match")
		return
	}
	r.logger.Warn("wallet reconciliation job finished with discrepancies", "count", len(discrepancies))
}

// Scheduler manages the reconciliation cron job.
type Scheduler struct {
	cron       *cron.Cron
	reconciler *WalletReconciler
	logger     *slog.Logger
	schedule   string
}

func NewScheduler(reconciler *WalletReconciler, logger *slog.Logger, schedule string) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)))

	return &Scheduler{
		cron:       c,
		reconciler: reconciler,
		logger:     logger,
		schedule:   schedule,
	}
}

// Start registers the job and starts the cron scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.reconciler.RunReconciliation); err != nil {
		s.logger.Error("failed to schedule wallet reconciliation job", "error", err)
		return err
	}
	s.logger.Info("scheduled wallet reconciliation job", "schedule", s.schedule)
	s.cron.Start()
	return nil
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
