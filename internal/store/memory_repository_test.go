package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/transfa/returns-service/internal/domain"
)

func seedMemoryCustomer(t *testing.T, repo *MemoryRepository, email string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	if err := repo.CreateCustomer(context.Background(), &domain.Customer{ID: id, FirstName: "Jane", LastName: "Doe", Email: email}); err != nil {
		t.Fatalf("CreateCustomer returned error: %v", err)
	}
	return id
}

func TestMemoryRepository_WithTxRestoresStateOnError(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	customerID := seedMemoryCustomer(t, repo, "jane@example.com")

	boom := errors.New("boom")
	err := repo.WithTx(ctx, func(tx Tx) error {
		if _, err := tx.CreditWallet(ctx, domain.WalletCredit{ID: uuid.New(), CustomerID: customerID, Amount: decimal.NewFromInt(10)}); err != nil {
			return err
		}
		if err := tx.CreateNotification(ctx, &domain.Notification{ID: uuid.New(), RecipientID: customerID, RecipientKind: domain.RecipientCustomer}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if _, err := repo.FindWalletByCustomerID(ctx, customerID); !errors.Is(err, ErrWalletNotFound) {
		t.Fatalf("expected wallet to be rolled back, got %v", err)
	}
	notes, err := repo.ListNotifications(ctx, customerID, domain.RecipientCustomer, 10)
	if err != nil {
		t.Fatalf("ListNotifications returned error: %v", err)
	}
	if len(notes) != 0 {
		t.Fatalf("expected notifications to be rolled back, got %d", len(notes))
	}
}

func TestMemoryRepository_UniqueConstraints(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	customerID := seedMemoryCustomer(t, repo, "jane@example.com")

	err := repo.CreateCustomer(ctx, &domain.Customer{ID: uuid.New(), Email: " JANE@example.com"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected duplicate email conflict, got %v", err)
	}

	orderID := uuid.New()
	err = repo.WithTx(ctx, func(tx Tx) error {
		if err := tx.CreateOrder(ctx, &domain.Order{ID: orderID, CustomerID: customerID, TotalAmount: decimal.NewFromInt(5)}); err != nil {
			return err
		}
		if err := tx.CreateReturnRequest(ctx, &domain.ReturnRequest{ID: uuid.New(), OrderID: orderID, CustomerID: customerID, Status: domain.ReturnStatusPending}); err != nil {
			return err
		}
		return tx.CreateReturnRequest(ctx, &domain.ReturnRequest{ID: uuid.New(), OrderID: orderID, CustomerID: customerID, Status: domain.ReturnStatusPending})
	})
	if !errors.Is(err, ErrReturnRequestExists) {
		t.Fatalf("expected ErrReturnRequestExists, got %v", err)
	}
}

func TestMemoryRepository_UpdateDecisionOnlyFromPending(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	customerID := seedMemoryCustomer(t, repo, "jane@example.com")
	requestID := uuid.New()
	orderID := uuid.New()

	err := repo.WithTx(ctx, func(tx Tx) error {
		if err := tx.CreateOrder(ctx, &domain.Order{ID: orderID, CustomerID: customerID, TotalAmount: decimal.NewFromInt(5)}); err != nil {
			return err
		}
		return tx.CreateReturnRequest(ctx, &domain.ReturnRequest{ID: requestID, OrderID: orderID, CustomerID: customerID, Status: domain.ReturnStatusPending})
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	decide := func(status domain.ReturnStatus) error {
		return repo.WithTx(ctx, func(tx Tx) error {
			return tx.UpdateReturnRequestDecision(ctx, requestID, status, time.Now())
		})
	}
	if err := decide(domain.ReturnStatusRejected); err != nil {
		t.Fatalf("first decision failed: %v", err)
	}
	if err := decide(domain.ReturnStatusApproved); !errors.Is(err, ErrReturnRequestProcessed) {
		t.Fatalf("expected ErrReturnRequestProcessed, got %v", err)
	}
}

func TestMemoryRepository_ListWalletDiscrepancies(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	customerID := seedMemoryCustomer(t, repo, "jane@example.com")

	err := repo.WithTx(ctx, func(tx Tx) error {
		_, err := tx.CreditWallet(ctx, domain.WalletCredit{ID: uuid.New(), CustomerID: customerID, Amount: decimal.RequireFromString("12.50")})
		return err
	})
	if err != nil {
		t.Fatalf("credit failed: %v", err)
	}

	items, err := repo.ListWalletDiscrepancies(ctx)
	if err != nil {
		t.Fatalf("ListWalletDiscrepancies returned error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no discrepancies, got %+v", items)
	}

	// Simulate drift that bypassed the ledger.
	repo.mu.Lock()
	wallet := repo.state.wallets[customerID]
	wallet.Balance = wallet.Balance.Add(decimal.NewFromInt(1))
	repo.state.wallets[customerID] = wallet
	repo.mu.Unlock()

	items, err = repo.ListWalletDiscrepancies(ctx)
	if err != nil {
		t.Fatalf("ListWalletDiscrepancies returned error: %v", err)
	}
	if len(items) != 1 || !items[0].CreditedTotal.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("expected one discrepancy with credited 12.50, got %+v", items)
	}
}

func TestMemoryRepository_WithTxHonoursCancelledContext(t *testing.T) {
	repo := NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := repo.WithTx(ctx, func(tx Tx) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) || called {
		t.Fatalf("expected cancelled context to skip fn, got err=%v called=%t", err, called)
	}
}
