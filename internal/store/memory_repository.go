package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/transfa/returns-service/internal/domain"
)

// MemoryRepository keeps all rows in process memory. It serves local runs without a
// database and doubles as the storage used by the service tests.
//
// A single mutex is held for the whole of WithTx, so transactions are fully serialized.
// If fn fails, the state captured before the transaction is restored.
type MemoryRepository struct {
	mu    sync.Mutex
	state *memoryState
}

type memoryState struct {
	customers      map[uuid.UUID]domain.Customer
	admins         map[uuid.UUID]domain.Admin
	orders         map[uuid.UUID]domain.Order
	returnRequests map[uuid.UUID]domain.ReturnRequest
	refunds        map[uuid.UUID]domain.Refund
	paymentTxs     map[uuid.UUID]domain.PaymentTransaction
	wallets        map[uuid.UUID]domain.Wallet // keyed by customer id
	credits        []domain.WalletCredit
	notifications  []domain.Notification
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{state: newMemoryState()}
}

func newMemoryState() *memoryState {
	return &memoryState{
		customers:      make(map[uuid.UUID]domain.Customer),
		admins:         make(map[uuid.UUID]domain.Admin),
		orders:         make(map[uuid.UUID]domain.Order),
		returnRequests: make(map[uuid.UUID]domain.ReturnRequest),
		refunds:        make(map[uuid.UUID]domain.Refund),
		paymentTxs:     make(map[uuid.UUID]domain.PaymentTransaction),
		wallets:        make(map[uuid.UUID]domain.Wallet),
	}
}

func (s *memoryState) clone() *memoryState {
	out := newMemoryState()
	for k, v := range s.customers {
		out.customers[k] = v
	}
	for k, v := range s.admins {
		out.admins[k] = v
	}
	for k, v := range s.orders {
		out.orders[k] = v
	}
	for k, v := range s.returnRequests {
		out.returnRequests[k] = v
	}
	for k, v := range s.refunds {
		out.refunds[k] = v
	}
	for k, v := range s.paymentTxs {
		out.paymentTxs[k] = v
	}
	for k, v := range s.wallets {
		out.wallets[k] = v
	}
	out.credits = append([]domain.WalletCredit(nil), s.credits...)
	out.notifications = append([]domain.Notification(nil), s.notifications...)
	return out
}

func (r *MemoryRepository) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.state.clone()
	if err := fn(&memoryTx{s: r.state}); err != nil {
		r.state = snapshot
		return err
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *MemoryRepository) CreateCustomer(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := normalizeEmail(customer.Email)
	for _, existing := range r.state.customers {
		if existing.Email == email {
			return ErrEmailTaken
		}
	}
	stored := *customer
	stored.Email = email
	r.state.customers[stored.ID] = stored
	return nil
}

func (r *MemoryRepository) FindCustomerByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = normalizeEmail(email)
	for _, customer := range r.state.customers {
		if customer.Email == email {
			found := customer
			return &found, nil
		}
	}
	return nil, ErrCustomerNotFound
}

func (r *MemoryRepository) CreateAdmin(_ context.Context, admin *domain.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := normalizeEmail(admin.Email)
	for _, existing := range r.state.admins {
		if existing.Email == email {
			return ErrEmailTaken
		}
	}
	stored := *admin
	stored.Email = email
	r.state.admins[stored.ID] = stored
	return nil
}

func (r *MemoryRepository) FindAdminByEmail(_ context.Context, email string) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = normalizeEmail(email)
	for _, admin := range r.state.admins {
		if admin.Email == email {
			found := admin
			return &found, nil
		}
	}
	return nil, ErrAdminNotFound
}

func (r *MemoryRepository) ListOrdersByCustomer(_ context.Context, customerID uuid.UUID) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders := make([]domain.Order, 0)
	for _, order := range r.state.orders {
		if order.CustomerID == customerID {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
	return orders, nil
}

func (r *MemoryRepository) ListReturnRequests(_ context.Context, customerID *uuid.UUID) ([]domain.ReturnRequestView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	views := make([]domain.ReturnRequestView, 0)
	for _, request := range r.state.returnRequests {
		if customerID != nil && request.CustomerID != *customerID {
			continue
		}
		view := domain.ReturnRequestView{ReturnRequest: request, OrderTotal: decimal.Zero}
		if customer, ok := r.state.customers[request.CustomerID]; ok {
			view.CustomerName = customer.FullName()
		}
		if order, ok := r.state.orders[request.OrderID]; ok {
			view.OrderTotal = order.TotalAmount
		}
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].RequestDate.After(views[j].RequestDate)
	})
	return views, nil
}

func (r *MemoryRepository) ListRefunds(_ context.Context, customerID *uuid.UUID) ([]domain.Refund, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	refunds := make([]domain.Refund, 0)
	for _, refund := range r.state.refunds {
		if customerID != nil {
			request, ok := r.state.returnRequests[refund.ReturnRequestID]
			if !ok || request.CustomerID != *customerID {
				continue
			}
		}
		refunds = append(refunds, refund)
	}
	sort.Slice(refunds, func(i, j int) bool {
		return refunds[i].RefundDate.After(refunds[j].RefundDate)
	})
	return refunds, nil
}

func (r *MemoryRepository) FindWalletByCustomerID(_ context.Context, customerID uuid.UUID) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wallet, ok := r.state.wallets[customerID]
	if !ok {
		return nil, ErrWalletNotFound
	}
	return &wallet, nil
}

func (r *MemoryRepository) ListWalletDiscrepancies(_ context.Context) ([]domain.WalletDiscrepancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	credited := make(map[uuid.UUID]decimal.Decimal)
	for _, credit := range r.state.credits {
		credited[credit.CustomerID] = credited[credit.CustomerID].Add(credit.Amount)
	}

	results := make([]domain.WalletDiscrepancy, 0)
	for customerID, wallet := range r.state.wallets {
		total := credited[customerID]
		if !wallet.Balance.Equal(total) {
			results = append(results, domain.WalletDiscrepancy{
				CustomerID:    customerID,
				Balance:       wallet.Balance,
				CreditedTotal: total,
			})
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CustomerID.String() < results[j].CustomerID.String()
	})
	return results, nil
}

func (r *MemoryRepository) ListNotifications(_ context.Context, recipientID uuid.UUID, kind domain.RecipientKind, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > domain.NotificationListLimit {
		limit = domain.NotificationListLimit
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	results := make([]domain.Notification, 0)
	// Newest rows are appended last.
	for i := len(r.state.notifications) - 1; i >= 0 && len(results) < limit; i-- {
		item := r.state.notifications[i]
		if item.RecipientID == recipientID && item.RecipientKind == kind {
			results = append(results, item)
		}
	}
	return results, nil
}

func (r *MemoryRepository) MarkNotificationRead(_ context.Context, recipientID uuid.UUID, kind domain.RecipientKind, notificationID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.state.notifications {
		item := &r.state.notifications[i]
		if item.ID == notificationID && item.RecipientID == recipientID && item.RecipientKind == kind {
			item.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) GetReturnAnalytics(_ context.Context) (*domain.ReturnAnalytics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	analytics := domain.ReturnAnalytics{TotalRefundAmount: decimal.Zero}
	for _, request := range r.state.returnRequests {
		analytics.TotalReturns++
		switch request.Status {
		case domain.ReturnStatusPending:
			analytics.PendingReturns++
		case domain.ReturnStatusApproved:
			analytics.ApprovedReturns++
		case domain.ReturnStatusRejected:
			analytics.RejectedReturns++
		}
		if request.FraudScore > domain.HighFraudThreshold {
			analytics.HighFraudReturns++
		}
	}
	for _, refund := range r.state.refunds {
		analytics.TotalRefundAmount = analytics.TotalRefundAmount.Add(refund.Amount)
	}
	return &analytics, nil
}

func (r *MemoryRepository) GetCustomerAnalytics(_ context.Context) (*domain.CustomerAnalytics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	withReturns := make(map[uuid.UUID]struct{})
	for _, request := range r.state.returnRequests {
		withReturns[request.CustomerID] = struct{}{}
	}
	return &domain.CustomerAnalytics{
		TotalCustomers:       len(r.state.customers),
		CustomersWithReturns: len(withReturns),
	}, nil
}

// memoryTx operates on the live state. The repository mutex is already held by WithTx.
type memoryTx struct {
	s *memoryState
}

func (t *memoryTx) FindCustomerByID(_ context.Context, customerID uuid.UUID) (*domain.Customer, error) {
	customer, ok := t.s.customers[customerID]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	return &customer, nil
}

func (t *memoryTx) ListAdminIDs(_ context.Context) ([]uuid.UUID, error) {
	admins := make([]domain.Admin, 0, len(t.s.admins))
	for _, admin := range t.s.admins {
		admins = append(admins, admin)
	}
	sort.Slice(admins, func(i, j int) bool {
		return admins[i].CreatedAt.Before(admins[j].CreatedAt)
	})
	ids := make([]uuid.UUID, 0, len(admins))
	for _, admin := range admins {
		ids = append(ids, admin.ID)
	}
	return ids, nil
}

func (t *memoryTx) CreateOrder(_ context.Context, order *domain.Order) error {
	if _, ok := t.s.customers[order.CustomerID]; !ok {
		return ErrCustomerNotFound
	}
	t.s.orders[order.ID] = *order
	return nil
}

func (t *memoryTx) FindOrderByID(_ context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, ok := t.s.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

func (t *memoryTx) LockOrderForCustomer(_ context.Context, orderID uuid.UUID, customerID uuid.UUID) (*domain.Order, error) {
	order, ok := t.s.orders[orderID]
	if !ok || order.CustomerID != customerID {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

func (t *memoryTx) CountReturnRequestsByCustomer(_ context.Context, customerID uuid.UUID) (int, error) {
	count := 0
	for _, request := range t.s.returnRequests {
		if request.CustomerID == customerID {
			count++
		}
	}
	return count, nil
}

func (t *memoryTx) CountReturnRequestsByOrder(_ context.Context, orderID uuid.UUID) (int, error) {
	count := 0
	for _, request := range t.s.returnRequests {
		if request.OrderID == orderID {
			count++
		}
	}
	return count, nil
}

func (t *memoryTx) CreateReturnRequest(_ context.Context, request *domain.ReturnRequest) error {
	for _, existing := range t.s.returnRequests {
		if existing.OrderID == request.OrderID {
			return ErrReturnRequestExists
		}
	}
	t.s.returnRequests[request.ID] = *request
	return nil
}

func (t *memoryTx) LockReturnRequest(_ context.Context, requestID uuid.UUID) (*domain.ReturnRequest, error) {
	request, ok := t.s.returnRequests[requestID]
	if !ok {
		return nil, ErrReturnRequestNotFound
	}
	return &request, nil
}

func (t *memoryTx) UpdateReturnRequestDecision(_ context.Context, requestID uuid.UUID, status domain.ReturnStatus, decidedAt time.Time) error {
	request, ok := t.s.returnRequests[requestID]
	if !ok {
		return ErrReturnRequestNotFound
	}
	if request.Status != domain.ReturnStatusPending {
		return ErrReturnRequestProcessed
	}
	request.Status = status
	request.ApprovalDate = &decidedAt
	t.s.returnRequests[requestID] = request
	return nil
}

func (t *memoryTx) CreateRefund(_ context.Context, refund *domain.Refund) error {
	for _, existing := range t.s.refunds {
		if existing.ReturnRequestID == refund.ReturnRequestID {
			return ErrRefundExists
		}
	}
	t.s.refunds[refund.ID] = *refund
	return nil
}

func (t *memoryTx) UpdateRefundStatus(_ context.Context, refundID uuid.UUID, status domain.PaymentStatus) error {
	refund, ok := t.s.refunds[refundID]
	if !ok {
		return ErrRefundNotFound
	}
	refund.PaymentStatus = status
	t.s.refunds[refundID] = refund
	return nil
}

func (t *memoryTx) CreatePaymentTransaction(_ context.Context, paymentTx *domain.PaymentTransaction) error {
	if _, ok := t.s.refunds[paymentTx.RefundID]; !ok {
		return ErrRefundNotFound
	}
	t.s.paymentTxs[paymentTx.ID] = *paymentTx
	return nil
}

func (t *memoryTx) UpdatePaymentTransactionStatus(_ context.Context, transactionID uuid.UUID, status domain.PaymentStatus) error {
	paymentTx, ok := t.s.paymentTxs[transactionID]
	if !ok {
		return ErrRefundNotFound
	}
	paymentTx.Status = status
	t.s.paymentTxs[transactionID] = paymentTx
	return nil
}

func (t *memoryTx) GetOrCreateWallet(_ context.Context, customerID uuid.UUID) (*domain.Wallet, error) {
	wallet, ok := t.s.wallets[customerID]
	if !ok {
		wallet = domain.Wallet{ID: uuid.New(), CustomerID: customerID, Balance: decimal.Zero}
		t.s.wallets[customerID] = wallet
	}
	return &wallet, nil
}

func (t *memoryTx) CreditWallet(ctx context.Context, credit domain.WalletCredit) (decimal.Decimal, error) {
	wallet, err := t.GetOrCreateWallet(ctx, credit.CustomerID)
	if err != nil {
		return decimal.Zero, err
	}
	wallet.Balance = wallet.Balance.Add(credit.Amount)
	t.s.wallets[credit.CustomerID] = *wallet
	t.s.credits = append(t.s.credits, credit)
	return wallet.Balance, nil
}

func (t *memoryTx) CreateNotification(_ context.Context, notification *domain.Notification) error {
	t.s.notifications = append(t.s.notifications, *notification)
	return nil
}
