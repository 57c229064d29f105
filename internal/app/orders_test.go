package app

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transfa/returns-service/internal/domain"
)

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.seedCustomer(t, "Jane", "Doe")

	order, err := env.svc.CreateOrder(ctx, customer, domain.CreateOrderRequest{
		TotalAmount:     decimal.RequireFromString("49.99"),
		ShippingAddress: " 221B Baker St ",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, order.Status)
	assert.Equal(t, "221B Baker St", order.ShippingAddress)
	assert.Equal(t, 0, order.OrderDate.Hour())
	assert.Equal(t, testNow.Day(), order.OrderDate.Day())

	orders, err := env.svc.ListOrders(ctx, customer)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	notes, err := env.svc.ListNotifications(ctx, customer)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Your order #"+order.ID.String()+" has been placed successfully.", notes[0].Message)
	assert.Equal(t, domain.NotificationOrderConfirmation, notes[0].Type)

	// A freshly placed order scores as a same-day purchase.
	result := env.submit(t, customer, order.ID)
	assert.Equal(t, 20.0, result.FraudScore)
}

func TestCreateOrder_Validation(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedCustomer(t, "Jane", "Doe")

	tests := []struct {
		name      string
		principal domain.Principal
		req       domain.CreateOrderRequest
		wantErr   error
	}{
		{name: "zero total", principal: customer, req: domain.CreateOrderRequest{TotalAmount: decimal.Zero, ShippingAddress: "x"}, wantErr: domain.ErrInvalidArgument},
		{name: "missing address", principal: customer, req: domain.CreateOrderRequest{TotalAmount: decimal.NewFromInt(5)}, wantErr: domain.ErrInvalidArgument},
		{name: "admin", principal: domain.Principal{SubjectID: uuid.New(), Role: domain.RoleAdmin}, req: domain.CreateOrderRequest{TotalAmount: decimal.NewFromInt(5), ShippingAddress: "x"}, wantErr: domain.ErrForbidden},
		{name: "unknown customer", principal: domain.Principal{SubjectID: uuid.New(), Role: domain.RoleCustomer}, req: domain.CreateOrderRequest{TotalAmount: decimal.NewFromInt(5), ShippingAddress: "x"}, wantErr: domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.CreateOrder(context.Background(), tt.principal, tt.req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
