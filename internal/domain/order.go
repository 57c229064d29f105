package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const OrderStatusCompleted = "Completed"

// Order maps to the `orders` table. Orders are immutable once created.
type Order struct {
	ID              uuid.UUID       `json:"order_id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	OrderDate       time.Time       `json:"order_date"`
	Status          string          `json:"order_status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ShippingAddress string          `json:"shipping_address"`
}

// CreateOrderRequest is the service input for placing an order.
type CreateOrderRequest struct {
	TotalAmount     decimal.Decimal
	ShippingAddress string
}
