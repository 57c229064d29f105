package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReturnStatus is the lifecycle state of a return request.
type ReturnStatus string

const (
	ReturnStatusPending  ReturnStatus = "Pending"
	ReturnStatusApproved ReturnStatus = "Approved"
	ReturnStatusRejected ReturnStatus = "Rejected"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s ReturnStatus) IsTerminal() bool {
	return s == ReturnStatusApproved || s == ReturnStatusRejected
}

// ReturnRequest maps to the `return_requests` table.
type ReturnRequest struct {
	ID           uuid.UUID    `json:"return_request_id"`
	OrderID      uuid.UUID    `json:"order_id"`
	CustomerID   uuid.UUID    `json:"customer_id"`
	Reason       string       `json:"return_reason"`
	RequestDate  time.Time    `json:"request_date"`
	Status       ReturnStatus `json:"status"`
	ApprovalDate *time.Time   `json:"approval_date,omitempty"`
	FraudScore   float64      `json:"fraud_score"`
}

// ReturnRequestView is a return request joined with the data listings show.
type ReturnRequestView struct {
	ReturnRequest
	CustomerName string
	OrderTotal   decimal.Decimal
}

// SubmitReturnRequest is the service input for a customer-initiated return.
type SubmitReturnRequest struct {
	OrderID uuid.UUID `json:"order_id"`
	Reason  string    `json:"return_reason"`
}

// SubmitReturnResult is returned after a return request has been created.
type SubmitReturnResult struct {
	ReturnRequestID uuid.UUID
	FraudScore      float64
}

// ApproveReturnResult is returned after a return request has been approved and refunded.
type ApproveReturnResult struct {
	ReturnRequestID uuid.UUID
	RefundID        uuid.UUID
	Amount          decimal.Decimal
	WalletBalance   decimal.Decimal
}
