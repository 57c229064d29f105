package domain

import (
	"time"

	"github.com/google/uuid"
)

// Routing keys for events published after a unit of work commits.
const (
	EventReturnSubmitted = "return.submitted"
	EventReturnApproved  = "return.approved"
	EventReturnRejected  = "return.rejected"
	EventWalletToppedUp  = "wallet.topped_up"
)

// ReturnEvent is the payload published for return lifecycle transitions.
type ReturnEvent struct {
	ReturnRequestID uuid.UUID    `json:"return_request_id"`
	OrderID         uuid.UUID    `json:"order_id"`
	CustomerID      uuid.UUID    `json:"customer_id"`
	Status          ReturnStatus `json:"status"`
	FraudScore      float64      `json:"fraud_score,omitempty"`
	RefundID        *uuid.UUID   `json:"refund_id,omitempty"`
	Amount          string       `json:"amount,omitempty"`
	Reason          string       `json:"reason,omitempty"`
	OccurredAt      time.Time    `json:"occurred_at"`
}

// WalletEvent is the payload published when a wallet is credited by a top-up.
type WalletEvent struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Amount     string    `json:"amount"`
	Balance    string    `json:"balance"`
	OccurredAt time.Time `json:"occurred_at"`
}
