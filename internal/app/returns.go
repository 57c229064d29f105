package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/transfa/returns-service/internal/domain"
	"github.com/transfa/returns-service/internal/fraud"
	"github.com/transfa/returns-service/internal/metrics"
	"github.com/transfa/returns-service/internal/store"
)

const (
	returnSubmitRateLimitScope = "return_submit"
	defaultRejectionReason     = "Not specified"
)

// SubmitReturnRequest opens a Pending return request for one of the caller's orders,
// scores it and notifies the customer and every admin.
func (s *Service) SubmitReturnRequest(ctx context.Context, principal domain.Principal, req domain.SubmitReturnRequest) (*domain.SubmitReturnResult, error) {
	if err := requireCustomer(principal); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if req.OrderID == uuid.Nil {
		return nil, fmt.Errorf("order id is required: %w", domain.ErrInvalidArgument)
	}
	if err := s.consumeRateLimit(ctx, returnSubmitRateLimitScope, principal.SubjectID.String(), s.opts.SubmitRateLimitPerMinute); err != nil {
		return nil, err
	}

	now := s.now()
	request := &domain.ReturnRequest{
		ID:          uuid.New(),
		OrderID:     req.OrderID,
		CustomerID:  principal.SubjectID,
		Reason:      reason,
		RequestDate: now,
		Status:      domain.ReturnStatusPending,
	}

	err := s.repo.WithTx(ctx, func(tx store.Tx) error {
		order, err := tx.LockOrderForCustomer(ctx, req.OrderID, principal.SubjectID)
		if err != nil {
			return err
		}
		existing, err := tx.CountReturnRequestsByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if existing > 0 {
			return store.ErrReturnRequestExists
		}

		signals, err := s.gatherFraudSignals(ctx, tx, principal.SubjectID, order.ID)
		if err != nil {
			return err
		}
		request.FraudScore = fraud.Score(signals)

		if err := tx.CreateReturnRequest(ctx, request); err != nil {
			return err
		}

		customer, err := tx.FindCustomerByID(ctx, principal.SubjectID)
		if err != nil {
			return err
		}

		sink := newNotificationSink(tx, now)
		if err := sink.Notify(ctx, principal.SubjectID, domain.RecipientCustomer,
			fmt.Sprintf("Your return request #%s has been submitted and is under review.", request.ID),
			domain.NotificationReturnSubmitted); err != nil {
			return err
		}
		return sink.NotifyAllAdmins(ctx,
			fmt.Sprintf("New return request #%s from customer %s", request.ID, customer.FullName()),
			domain.NotificationNewReturnRequest)
	})
	if err != nil {
		log.Printf("level=warn component=returns msg=\"return submission failed\" customer_id=%s order_id=%s err=%v", principal.SubjectID, req.OrderID, err)
		return nil, err
	}

	s.observe(func(m *metrics.Metrics) {
		m.ReturnsSubmitted.Inc()
		m.FraudScores.Observe(request.FraudScore)
	})
	log.Printf("level=info component=returns msg=\"return request submitted\" return_request_id=%s order_id=%s fraud_score=%.1f", request.ID, request.OrderID, request.FraudScore)
	s.publishEvent(ctx, domain.EventReturnSubmitted, domain.ReturnEvent{
		ReturnRequestID: request.ID,
		OrderID:         request.OrderID,
		CustomerID:      request.CustomerID,
		Status:          request.Status,
		FraudScore:      request.FraudScore,
		Reason:          request.Reason,
		OccurredAt:      now,
	})

	return &domain.SubmitReturnResult{ReturnRequestID: request.ID, FraudScore: request.FraudScore}, nil
}

// gatherFraudSignals reads the history the score depends on. It runs before the new
// request is inserted, so counts exclude it.
func (s *Service) gatherFraudSignals(ctx context.Context, tx store.Tx, customerID uuid.UUID, orderID uuid.UUID) (fraud.Signals, error) {
	var signals fraud.Signals

	customerReturns, err := tx.CountReturnRequestsByCustomer(ctx, customerID)
	if err != nil {
		return signals, fmt.Errorf("failed to count customer returns: %w", err)
	}
	signals.CustomerReturnCount = customerReturns

	order, err := tx.FindOrderByID(ctx, orderID)
	switch {
	case err == nil:
		signals.OrderFound = true
		signals.OrderAgeDays = fraud.AgeInDays(order.OrderDate, s.now())
	case errors.Is(err, domain.ErrNotFound):
		signals.OrderFound = false
	default:
		return signals, fmt.Errorf("failed to load order for scoring: %w", err)
	}

	orderReturns, err := tx.CountReturnRequestsByOrder(ctx, orderID)
	if err != nil {
		return signals, fmt.Errorf("failed to count order returns: %w", err)
	}
	signals.OrderReturnCount = orderReturns

	return signals, nil
}

// ApproveReturnRequest approves a Pending request, simulates the refund payment and credits
// the customer's wallet. Every effect commits together or not at all.
func (s *Service) ApproveReturnRequest(ctx context.Context, principal domain.Principal, requestID uuid.UUID, paymentMethod string) (*domain.ApproveReturnResult, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		paymentMethod = domain.DefaultPaymentMethod
	}

	now := s.now()
	result := &domain.ApproveReturnResult{ReturnRequestID: requestID}
	var request *domain.ReturnRequest

	err := s.repo.WithTx(ctx, func(tx store.Tx) error {
		var err error
		request, err = tx.LockReturnRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if request.Status != domain.ReturnStatusPending {
			return store.ErrReturnRequestProcessed
		}

		order, err := tx.FindOrderByID(ctx, request.OrderID)
		if err != nil {
			return err
		}

		if err := tx.UpdateReturnRequestDecision(ctx, request.ID, domain.ReturnStatusApproved, now); err != nil {
			return err
		}

		refund := &domain.Refund{
			ID:              uuid.New(),
			ReturnRequestID: request.ID,
			Amount:          order.TotalAmount,
			RefundDate:      now,
			PaymentStatus:   domain.PaymentStatusPending,
			PaymentMethod:   paymentMethod,
		}
		if err := tx.CreateRefund(ctx, refund); err != nil {
			return err
		}

		payment := &domain.PaymentTransaction{
			ID:              uuid.New(),
			RefundID:        refund.ID,
			TransactionDate: now,
			Amount:          refund.Amount,
			Status:          domain.PaymentStatusProcessing,
			PaymentMethod:   paymentMethod,
		}
		if err := tx.CreatePaymentTransaction(ctx, payment); err != nil {
			return err
		}

		// The payment gateway is simulated and always succeeds.
		if err := tx.UpdatePaymentTransactionStatus(ctx, payment.ID, domain.PaymentStatusCompleted); err != nil {
			return err
		}
		if err := tx.UpdateRefundStatus(ctx, refund.ID, domain.PaymentStatusCompleted); err != nil {
			return err
		}

		balance, err := creditWallet(ctx, tx, request.CustomerID, refund.Amount, domain.CreditSourceRefund, &refund.ID, now)
		if err != nil {
			return fmt.Errorf("failed to credit refund to wallet: %w", err)
		}

		message := fmt.Sprintf("Your return request #%s has been approved. Refund of $%s has been processed and credited to your wallet.",
			request.ID, domain.FormatAmount(refund.Amount))
		if err := newNotificationSink(tx, now).Notify(ctx, request.CustomerID, domain.RecipientCustomer, message, domain.NotificationReturnApproved); err != nil {
			return err
		}

		result.RefundID = refund.ID
		result.Amount = refund.Amount
		result.WalletBalance = balance
		return nil
	})
	if err != nil {
		log.Printf("level=warn component=returns msg=\"return approval failed\" return_request_id=%s admin_id=%s err=%v", requestID, principal.SubjectID, err)
		return nil, err
	}

	s.observe(func(m *metrics.Metrics) {
		m.ReturnsDecided.WithLabelValues(string(domain.ReturnStatusApproved)).Inc()
		m.AddRefund(result.Amount)
	})
	log.Printf("level=info component=returns msg=\"return request approved\" return_request_id=%s refund_id=%s amount=%s",
		result.ReturnRequestID, result.RefundID, result.Amount.StringFixed(domain.MoneyScale))
	refundID := result.RefundID
	s.publishEvent(ctx, domain.EventReturnApproved, domain.ReturnEvent{
		ReturnRequestID: request.ID,
		OrderID:         request.OrderID,
		CustomerID:      request.CustomerID,
		Status:          domain.ReturnStatusApproved,
		FraudScore:      request.FraudScore,
		RefundID:        &refundID,
		Amount:          result.Amount.StringFixed(domain.MoneyScale),
		OccurredAt:      now,
	})

	return result, nil
}

// RejectReturnRequest rejects a Pending request and tells the customer why.
func (s *Service) RejectReturnRequest(ctx context.Context, principal domain.Principal, requestID uuid.UUID, reason string) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultRejectionReason
	}

	now := s.now()
	var request *domain.ReturnRequest
	err := s.repo.WithTx(ctx, func(tx store.Tx) error {
		var err error
		request, err = tx.LockReturnRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if request.Status != domain.ReturnStatusPending {
			return store.ErrReturnRequestProcessed
		}
		if err := tx.UpdateReturnRequestDecision(ctx, request.ID, domain.ReturnStatusRejected, now); err != nil {
			return err
		}

		message := fmt.Sprintf("Your return request #%s has been rejected. Reason: %s", request.ID, reason)
		return newNotificationSink(tx, now).Notify(ctx, request.CustomerID, domain.RecipientCustomer, message, domain.NotificationReturnRejected)
	})
	if err != nil {
		log.Printf("level=warn component=returns msg=\"return rejection failed\" return_request_id=%s admin_id=%s err=%v", requestID, principal.SubjectID, err)
		return err
	}

	s.observe(func(m *metrics.Metrics) {
		m.ReturnsDecided.WithLabelValues(string(domain.ReturnStatusRejected)).Inc()
	})
	log.Printf("level=info component=returns msg=\"return request rejected\" return_request_id=%s", requestID)
	s.publishEvent(ctx, domain.EventReturnRejected, domain.ReturnEvent{
		ReturnRequestID: request.ID,
		OrderID:         request.OrderID,
		CustomerID:      request.CustomerID,
		Status:          domain.ReturnStatusRejected,
		FraudScore:      request.FraudScore,
		Reason:          reason,
		OccurredAt:      now,
	})
	return nil
}

// ListReturnRequests returns every request for admins and the caller's own for customers.
func (s *Service) ListReturnRequests(ctx context.Context, principal domain.Principal) ([]domain.ReturnRequestView, error) {
	if principal.IsAdmin() {
		return s.repo.ListReturnRequests(ctx, nil)
	}
	customerID := principal.SubjectID
	return s.repo.ListReturnRequests(ctx, &customerID)
}

// ListRefunds is role-scoped the same way as ListReturnRequests.
func (s *Service) ListRefunds(ctx context.Context, principal domain.Principal) ([]domain.Refund, error) {
	if principal.IsAdmin() {
		return s.repo.ListRefunds(ctx, nil)
	}
	customerID := principal.SubjectID
	return s.repo.ListRefunds(ctx, &customerID)
}
