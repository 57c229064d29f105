package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/transfa/returns-service/internal/domain"
	"github.com/transfa/returns-service/internal/metrics"
	"github.com/transfa/returns-service/internal/store"
)

const walletTopUpRateLimitScope = "wallet_topup"

func validateCreditAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrAmountNotPositive
	}
	if !amount.Equal(amount.Truncate(domain.MoneyScale)) {
		return fmt.Errorf("amount %s has more than %d decimal places: %w", amount, domain.MoneyScale, domain.ErrInvalidArgument)
	}
	return nil
}

// creditWallet adds a positive amount to the customer's wallet within tx and records the
// ledger entry. The wallet is created on first credit.
func creditWallet(ctx context.Context, tx store.Tx, customerID uuid.UUID, amount decimal.Decimal, source domain.CreditSource, referenceID *uuid.UUID, now time.Time) (decimal.Decimal, error) {
	if err := validateCreditAmount(amount); err != nil {
		return decimal.Zero, err
	}
	balance, err := tx.CreditWallet(ctx, domain.WalletCredit{
		ID:          uuid.New(),
		CustomerID:  customerID,
		Amount:      amount,
		Source:      source,
		ReferenceID: referenceID,
		CreatedAt:   now,
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// GetWallet returns the caller's wallet, creating an empty one on first access.
func (s *Service) GetWallet(ctx context.Context, principal domain.Principal) (*domain.Wallet, error) {
	if err := requireCustomer(principal); err != nil {
		return nil, err
	}
	return s.GetOrCreateWallet(ctx, principal.SubjectID)
}

// GetOrCreateWallet returns the customer's wallet, creating it with a zero balance when absent.
func (s *Service) GetOrCreateWallet(ctx context.Context, customerID uuid.UUID) (*domain.Wallet, error) {
	var wallet *domain.Wallet
	err := s.repo.WithTx(ctx, func(tx store.Tx) error {
		var err error
		wallet, err = tx.GetOrCreateWallet(ctx, customerID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}
	return wallet, nil
}

// CreditWallet adds amount to the customer's wallet and returns the new balance.
func (s *Service) CreditWallet(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := validateCreditAmount(amount); err != nil {
		return decimal.Zero, err
	}

	var balance decimal.Decimal
	err := s.repo.WithTx(ctx, func(tx store.Tx) error {
		var err error
		balance, err = creditWallet(ctx, tx, customerID, amount, domain.CreditSourceTopUp, nil, s.now())
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// TopUpWallet credits the caller's wallet and notifies them of the new balance.
func (s *Service) TopUpWallet(ctx context.Context, principal domain.Principal, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := requireCustomer(principal); err != nil {
		return decimal.Zero, err
	}
	if err := validateCreditAmount(amount); err != nil {
		return decimal.Zero, err
	}
	if err := s.consumeRateLimit(ctx, walletTopUpRateLimitScope, principal.SubjectID.String(), s.opts.TopUpRateLimitPerMinute); err != nil {
		return decimal.Zero, err
	}

	now := s.now()
	var balance decimal.Decimal
	err := s.repo.WithTx(ctx, func(tx store.Tx) error {
		var err error
		balance, err = creditWallet(ctx, tx, principal.SubjectID, amount, domain.CreditSourceTopUp, nil, now)
		if err != nil {
			return err
		}
		message := fmt.Sprintf("Your wallet has been topped up with $%s. New balance: $%s.",
			amount.StringFixed(domain.MoneyScale), balance.StringFixed(domain.MoneyScale))
		return newNotificationSink(tx, now).Notify(ctx, principal.SubjectID, domain.RecipientCustomer, message, domain.NotificationWalletTopUp)
	})
	if err != nil {
		log.Printf("level=error component=wallet msg=\"top-up failed\" customer_id=%s err=%v", principal.SubjectID, err)
		return decimal.Zero, err
	}

	s.observe(func(m *metrics.Metrics) { m.WalletTopUps.Inc() })
	log.Printf("level=info component=wallet msg=\"wallet topped up\" customer_id=%s amount=%s balance=%s",
		principal.SubjectID, amount.StringFixed(domain.MoneyScale), balance.StringFixed(domain.MoneyScale))
	s.publishEvent(ctx, domain.EventWalletToppedUp, domain.WalletEvent{
		CustomerID: principal.SubjectID,
		Amount:     amount.StringFixed(domain.MoneyScale),
		Balance:    balance.StringFixed(domain.MoneyScale),
		OccurredAt: now,
	})
	return balance, nil
}
