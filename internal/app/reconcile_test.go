package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/transfa/returns-service/internal/domain"
)

type discrepancyListerStub struct {
	items []domain.WalletDiscrepancy
	err   error
}

func (s discrepancyListerStub) ListWalletDiscrepancies(ctx context.Context) ([]domain.WalletDiscrepancy, error) {
	return s.items, s.err
}

func TestWalletReconciler_LogsEachDiscrepancy(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	customerID := uuid.New()
	reconciler := NewWalletReconciler(discrepancyListerStub{items: []domain.WalletDiscrepancy{{
		CustomerID:    customerID,
		Balance:       decimal.RequireFromString("110.00"),
		CreditedTotal: decimal.RequireFromString("100.00"),
	}}}, logger)

	got, err := reconciler.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one discrepancy, got %d", len(got))
	}
	out := buf.String()
	if !strings.Contains(out, customerID.String()) || !strings.Contains(out, "difference=10.00") {
		t.Fatalf("expected discrepancy log line, got %q", out)
	}
}

func TestWalletReconciler_RunReconciliationSurvivesErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	reconciler := NewWalletReconciler(discrepancyListerStub{err: errors.New("db down")}, logger)

	reconciler.RunReconciliation()

	if !strings.Contains(buf.String(), "failed to reconcile wallets") {
		t.Fatalf("expected failure log, got %q", buf.String())
	}
}

func TestWalletReconciler_CleanLedgerAgainstMemoryStore(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedCustomer(t, "Jane", "Doe")
	if _, err := env.svc.CreditWallet(context.Background(), customer.SubjectID, decimal.RequireFromString("5.00")); err != nil {
		t.Fatalf("CreditWallet returned error: %v", err)
	}

	reconciler := NewWalletReconciler(env.repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	got, err := reconciler.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no discrepancies, got %+v", got)
	}
}

func TestScheduler_RejectsInvalidSchedule(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scheduler := NewScheduler(NewWalletReconciler(discrepancyListerStub{}, logger), logger, "not a schedule")
	if err := scheduler.Start(); err == nil {
		t.Fatal("expected invalid schedule to fail")
	}
}
