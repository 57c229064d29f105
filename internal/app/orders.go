package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/transfa/returns-service/internal/domain"
	"github.com/transfa/returns-service/internal/store"
)

// CreateOrder places a completed order for the caller, dated today.
func (s *Service) CreateOrder(ctx context.Context, principal domain.Principal, req domain.CreateOrderRequest) (*domain.Order, error) {
	if err := requireCustomer(principal); err != nil {
		return nil, err
	}
	if err := validateCreditAmount(req.TotalAmount); err != nil {
		return nil, err
	}
	address := strings.TrimSpace(req.ShippingAddress)
	if address == "" {
		return nil, ErrShippingAddressRequired
	}

	now := s.now()
	order := &domain.Order{
		ID:              uuid.New(),
		CustomerID:      principal.SubjectID,
		// Order dates are UTC calendar days; fraud.AgeInDays counts in the same zone.
		OrderDate:       time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Status:          domain.OrderStatusCompleted,
		TotalAmount:     req.TotalAmount,
		ShippingAddress: address,
	}

	err := s.repo.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		return newNotificationSink(tx, now).Notify(ctx, principal.SubjectID, domain.RecipientCustomer,
			fmt.Sprintf("Your order #%s has been placed successfully.", order.ID),
			domain.NotificationOrderConfirmation)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("level=info component=orders msg=\"order placed\" order_id=%s customer_id=%s total=%s",
		order.ID, order.CustomerID, order.TotalAmount.StringFixed(domain.MoneyScale))
	return order, nil
}

// ListOrders returns the caller's orders, newest first.
func (s *Service) ListOrders(ctx context.Context, principal domain.Principal) ([]domain.Order, error) {
	if err := requireCustomer(principal); err != nil {
		return nil, err
	}
	return s.repo.ListOrdersByCustomer(ctx, principal.SubjectID)
}
