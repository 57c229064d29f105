package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet maps to the `wallets` table. Balances only ever grow: there is no debit.
type Wallet struct {
	ID         uuid.UUID       `json:"wallet_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Balance    decimal.Decimal `json:"balance"`
}

// CreditSource identifies what produced a wallet credit.
type CreditSource string

const (
	CreditSourceTopUp  CreditSource = "topup"
	CreditSourceRefund CreditSource = "refund"
)

// WalletCredit is one row of the append-only credit ledger backing a wallet balance.
type WalletCredit struct {
	ID          uuid.UUID       `json:"id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Amount      decimal.Decimal `json:"amount"`
	Source      CreditSource    `json:"source"`
	ReferenceID *uuid.UUID      `json:"reference_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// WalletDiscrepancy reports a wallet whose balance differs from its credit ledger.
type WalletDiscrepancy struct {
	CustomerID    uuid.UUID
	Balance       decimal.Decimal
	CreditedTotal decimal.Decimal
}
