package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus is shared by refunds and payment transactions.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "Pending"
	PaymentStatusProcessing PaymentStatus = "Processing"
	PaymentStatusCompleted  PaymentStatus = "Completed"
)

// DefaultPaymentMethod is used when an approval does not name a method.
const DefaultPaymentMethod = "Credit Card"

// Refund maps to the `refunds` table. One refund exists per approved return request.
type Refund struct {
	ID              uuid.UUID       `json:"refund_id"`
	ReturnRequestID uuid.UUID       `json:"return_request_id"`
	Amount          decimal.Decimal `json:"refund_amount"`
	RefundDate      time.Time       `json:"refund_date"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	PaymentMethod   string          `json:"payment_method"`
}

// PaymentTransaction is the audit record mirroring a refund's processing.
type PaymentTransaction struct {
	ID              uuid.UUID       `json:"transaction_id"`
	RefundID        uuid.UUID       `json:"refund_id"`
	TransactionDate time.Time       `json:"transaction_date"`
	Amount          decimal.Decimal `json:"amount"`
	Status          PaymentStatus   `json:"transaction_status"`
	PaymentMethod   string          `json:"payment_method"`
}
