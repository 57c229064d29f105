/**
 * @description
 * This file defines the storage contracts for the returns-service. `Repository` is the
 * explicit storage handle passed into the application service; `Tx` is the view of the
 * same storage inside one atomic unit of work. Every multi-write operation (return
 * submission, approval, rejection, wallet credit, order placement) runs through
 * `Repository.WithTx` so that it either fully commits or fully rolls back.
 *
 * @dependencies
 * - github.com/google/uuid, github.com/shopspring/decimal
 * - internal/domain: domain models and error kinds.
 */

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/transfa/returns-service/internal/domain"
)

var (
	ErrCustomerNotFound      = fmt.Errorf("customer %w", domain.ErrNotFound)
	ErrAdminNotFound         = fmt.Errorf("admin %w", domain.ErrNotFound)
	ErrOrderNotFound         = fmt.Errorf("order %w", domain.ErrNotFound)
	ErrReturnRequestNotFound = fmt.Errorf("return request %w", domain.ErrNotFound)
	ErrRefundNotFound        = fmt.Errorf("refund %w", domain.ErrNotFound)
	ErrWalletNotFound        = fmt.Errorf("wallet %w", domain.ErrNotFound)
	ErrNotificationNotFound  = fmt.Errorf("notification %w", domain.ErrNotFound)

	ErrEmailTaken             = fmt.Errorf("email already registered: %w", domain.ErrConflict)
	ErrReturnRequestExists    = fmt.Errorf("return request already exists for this order: %w", domain.ErrConflict)
	ErrReturnRequestProcessed = fmt.Errorf("return request already processed: %w", domain.ErrConflict)
	ErrRefundExists           = fmt.Errorf("refund already exists for this return request: %w", domain.ErrConflict)
)

// Repository is the storage handle used by the application service.
type Repository interface {
	// WithTx runs fn inside one transaction. A non-nil error from fn, or from commit,
	// rolls back every write made through the Tx.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Accounts
	CreateCustomer(ctx context.Context, customer *domain.Customer) error
	FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error)
	CreateAdmin(ctx context.Context, admin *domain.Admin) error
	FindAdminByEmail(ctx context.Context, email string) (*domain.Admin, error)

	// Orders
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error)

	// Returns and refunds. A nil customer id lists every row.
	ListReturnRequests(ctx context.Context, customerID *uuid.UUID) ([]domain.ReturnRequestView, error)
	ListRefunds(ctx context.Context, customerID *uuid.UUID) ([]domain.Refund, error)

	// Wallets
	FindWalletByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.Wallet, error)
	ListWalletDiscrepancies(ctx context.Context) ([]domain.WalletDiscrepancy, error)

	// Notifications
	ListNotifications(ctx context.Context, recipientID uuid.UUID, kind domain.RecipientKind, limit int) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, recipientID uuid.UUID, kind domain.RecipientKind, notificationID uuid.UUID) (bool, error)

	// Analytics
	GetReturnAnalytics(ctx context.Context) (*domain.ReturnAnalytics, error)
	GetCustomerAnalytics(ctx context.Context) (*domain.CustomerAnalytics, error)
}

// Tx is the transactional view of the storage. Lock* methods take row locks that are
// held until the surrounding transaction ends.
type Tx interface {
	FindCustomerByID(ctx context.Context, customerID uuid.UUID) (*domain.Customer, error)
	ListAdminIDs(ctx context.Context) ([]uuid.UUID, error)

	CreateOrder(ctx context.Context, order *domain.Order) error
	FindOrderByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	LockOrderForCustomer(ctx context.Context, orderID uuid.UUID, customerID uuid.UUID) (*domain.Order, error)

	CountReturnRequestsByCustomer(ctx context.Context, customerID uuid.UUID) (int, error)
	CountReturnRequestsByOrder(ctx context.Context, orderID uuid.UUID) (int, error)
	CreateReturnRequest(ctx context.Context, request *domain.ReturnRequest) error
	LockReturnRequest(ctx context.Context, requestID uuid.UUID) (*domain.ReturnRequest, error)
	UpdateReturnRequestDecision(ctx context.Context, requestID uuid.UUID, status domain.ReturnStatus, decidedAt time.Time) error

	CreateRefund(ctx context.Context, refund *domain.Refund) error
	UpdateRefundStatus(ctx context.Context, refundID uuid.UUID, status domain.PaymentStatus) error
	CreatePaymentTransaction(ctx context.Context, paymentTx *domain.PaymentTransaction) error
	UpdatePaymentTransactionStatus(ctx context.Context, transactionID uuid.UUID, status domain.PaymentStatus) error

	GetOrCreateWallet(ctx context.Context, customerID uuid.UUID) (*domain.Wallet, error)
	// CreditWallet adds credit.Amount to the customer's wallet, creating the wallet if
	// needed, records the credit in the ledger and returns the new balance.
	CreditWallet(ctx context.Context, credit domain.WalletCredit) (decimal.Decimal, error)

	CreateNotification(ctx context.Context, notification *domain.Notification) error
}
