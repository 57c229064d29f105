/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository` and `Tx`
 * interfaces. Currency columns are NUMERIC(12,2); they are read as text and parsed into
 * decimals so no binary floating point is involved at any point.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - github.com/shopspring/decimal: Fixed-point currency arithmetic.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/transfa/returns-service/internal/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// WithTx runs fn in a read-committed transaction. Row locks taken through the Tx
// serialize concurrent operations on the same order or return request.
func (r *PostgresRepository) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&postgresTx{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

func parseNumeric(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid numeric value %q: %w", raw, err)
	}
	return value, nil
}

// CreateCustomer inserts a new customer. Emails are unique case-insensitively.
func (r *PostgresRepository) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (id, first_name, last_name, email, phone_number, address, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		customer.ID,
		customer.FirstName,
		customer.LastName,
		strings.ToLower(strings.TrimSpace(customer.Email)),
		customer.PhoneNumber,
		customer.Address,
		customer.PasswordHash,
		customer.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// FindCustomerByEmail retrieves a customer by login email.
func (r *PostgresRepository) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	query := `
		SELECT id, first_name, last_name, email, phone_number, address, password_hash, created_at
		FROM customers
		WHERE email = $1
	`
	customer, err := scanCustomer(r.db.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

// CreateAdmin inserts a new admin account.
func (r *PostgresRepository) CreateAdmin(ctx context.Context, admin *domain.Admin) error {
	query := `
		INSERT INTO admins (id, first_name, last_name, email, title, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		admin.ID,
		admin.FirstName,
		admin.LastName,
		strings.ToLower(strings.TrimSpace(admin.Email)),
		admin.Title,
		admin.PasswordHash,
		admin.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// FindAdminByEmail retrieves an admin by login email.
func (r *PostgresRepository) FindAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var admin domain.Admin
	query := `
		SELECT id, first_name, last_name, email, title, password_hash, created_at
		FROM admins
		WHERE email = $1
	`
	err := r.db.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))).Scan(
		&admin.ID,
		&admin.FirstName,
		&admin.LastName,
		&admin.Email,
		&admin.Title,
		&admin.PasswordHash,
		&admin.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// ListOrdersByCustomer lists a customer's orders, newest first.
func (r *PostgresRepository) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error) {
	query := `
		SELECT id, customer_id, order_date, order_status, total_amount::text, shipping_address
		FROM orders
		WHERE customer_id = $1
		ORDER BY order_date DESC, id
	`
	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

// ListReturnRequests lists return requests joined with the customer name and order total.
func (r *PostgresRepository) ListReturnRequests(ctx context.Context, customerID *uuid.UUID) ([]domain.ReturnRequestView, error) {
	query := `
		SELECT
			rr.id, rr.order_id, rr.customer_id, rr.return_reason, rr.request_date,
			rr.status, rr.approval_date, rr.fraud_score,
			COALESCE(btrim(c.first_name || ' ' || c.last_name), ''),
			COALESCE(o.total_amount, 0)::text
		FROM return_requests rr
		LEFT JOIN customers c ON c.id = rr.customer_id
		LEFT JOIN orders o ON o.id = rr.order_id
		WHERE ($1::uuid IS NULL OR rr.customer_id = $1)
		ORDER BY rr.request_date DESC
	`
	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.ReturnRequestView, 0)
	for rows.Next() {
		var view domain.ReturnRequestView
		var status string
		var orderTotal string
		if err := rows.Scan(
			&view.ID,
			&view.OrderID,
			&view.CustomerID,
			&view.Reason,
			&view.RequestDate,
			&status,
			&view.ApprovalDate,
			&view.FraudScore,
			&view.CustomerName,
			&orderTotal,
		); err != nil {
			return nil, err
		}
		view.Status = domain.ReturnStatus(status)
		if view.OrderTotal, err = parseNumeric(orderTotal); err != nil {
			return nil, err
		}
		results = append(results, view)
	}
	return results, rows.Err()
}

// ListRefunds lists refunds, optionally restricted to one customer's return requests.
func (r *PostgresRepository) ListRefunds(ctx context.Context, customerID *uuid.UUID) ([]domain.Refund, error) {
	query := `
		SELECT rf.id, rf.return_request_id, rf.refund_amount::text, rf.refund_date, rf.payment_status, rf.payment_method
		FROM refunds rf
		JOIN return_requests rr ON rr.id = rf.return_request_id
		WHERE ($1::uuid IS NULL OR rr.customer_id = $1)
		ORDER BY rf.refund_date DESC
	`
	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refunds := make([]domain.Refund, 0)
	for rows.Next() {
		var refund domain.Refund
		var amount, status string
		if err := rows.Scan(
			&refund.ID,
			&refund.ReturnRequestID,
			&amount,
			&refund.RefundDate,
			&status,
			&refund.PaymentMethod,
		); err != nil {
			return nil, err
		}
		refund.PaymentStatus = domain.PaymentStatus(status)
		if refund.Amount, err = parseNumeric(amount); err != nil {
			return nil, err
		}
		refunds = append(refunds, refund)
	}
	return refunds, rows.Err()
}

// FindWalletByCustomerID retrieves a wallet without creating it.
func (r *PostgresRepository) FindWalletByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.Wallet, error) {
	return findWallet(ctx, r.db, customerID)
}

// ListWalletDiscrepancies returns wallets whose balance differs from the sum of their credits.
func (r *PostgresRepository) ListWalletDiscrepancies(ctx context.Context) ([]domain.WalletDiscrepancy, error) {
	query := `
		SELECT w.customer_id, w.balance::text, COALESCE(SUM(c.amount), 0)::text
		FROM wallets w
		LEFT JOIN wallet_credits c ON c.customer_id = w.customer_id
		GROUP BY w.customer_id, w.balance
		HAVING w.balance <> COALESCE(SUM(c.amount), 0)
		ORDER BY w.customer_id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.WalletDiscrepancy, 0)
	for rows.Next() {
		var item domain.WalletDiscrepancy
		var balance, credited string
		if err := rows.Scan(&item.CustomerID, &balance, &credited); err != nil {
			return nil, err
		}
		if item.Balance, err = parseNumeric(balance); err != nil {
			return nil, err
		}
		if item.CreditedTotal, err = parseNumeric(credited); err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, rows.Err()
}

// ListNotifications retrieves the most recent notifications of one recipient.
func (r *PostgresRepository) ListNotifications(ctx context.Context, recipientID uuid.UUID, kind domain.RecipientKind, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > domain.NotificationListLimit {
		limit = domain.NotificationListLimit
	}
	query := `
		SELECT id, recipient_id, recipient_kind, message, notification_type, sent_at, is_read
		FROM notifications
		WHERE recipient_id = $1 AND recipient_kind = $2
		ORDER BY sent_at DESC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, recipientID, string(kind), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.Notification, 0, limit)
	for rows.Next() {
		var item domain.Notification
		var recipientKind string
		if err := rows.Scan(
			&item.ID,
			&item.RecipientID,
			&recipientKind,
			&item.Message,
			&item.Type,
			&item.SentAt,
			&item.IsRead,
		); err != nil {
			return nil, err
		}
		item.RecipientKind = domain.RecipientKind(recipientKind)
		results = append(results, item)
	}
	return results, rows.Err()
}

// MarkNotificationRead flags one of the recipient's notifications as read.
func (r *PostgresRepository) MarkNotificationRead(ctx context.Context, recipientID uuid.UUID, kind domain.RecipientKind, notificationID uuid.UUID) (bool, error) {
	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1 AND recipient_id = $2 AND recipient_kind = $3
	`
	tag, err := r.db.Exec(ctx, query, notificationID, recipientID, string(kind))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// GetReturnAnalytics aggregates return request and refund totals.
func (r *PostgresRepository) GetReturnAnalytics(ctx context.Context) (*domain.ReturnAnalytics, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'Pending'),
			COUNT(*) FILTER (WHERE status = 'Approved'),
			COUNT(*) FILTER (WHERE status = 'Rejected'),
			COUNT(*) FILTER (WHERE fraud_score > $1),
			(SELECT COALESCE(SUM(refund_amount), 0)::text FROM refunds)
		FROM return_requests
	`
	var analytics domain.ReturnAnalytics
	var refunded string
	if err := r.db.QueryRow(ctx, query, domain.HighFraudThreshold).Scan(
		&analytics.TotalReturns,
		&analytics.PendingReturns,
		&analytics.ApprovedReturns,
		&analytics.RejectedReturns,
		&analytics.HighFraudReturns,
		&refunded,
	); err != nil {
		return nil, err
	}
	total, err := parseNumeric(refunded)
	if err != nil {
		return nil, err
	}
	analytics.TotalRefundAmount = total
	return &analytics, nil
}

// GetCustomerAnalytics counts customers and customers that filed at least one return.
func (r *PostgresRepository) GetCustomerAnalytics(ctx context.Context) (*domain.CustomerAnalytics, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM customers),
			(SELECT COUNT(DISTINCT customer_id) FROM return_requests)
	`
	var analytics domain.CustomerAnalytics
	if err := r.db.QueryRow(ctx, query).Scan(&analytics.TotalCustomers, &analytics.CustomersWithReturns); err != nil {
		return nil, err
	}
	return &analytics, nil
}

// postgresTx implements Tx on top of a pgx transaction.
type postgresTx struct {
	q querier
}

func (t *postgresTx) FindCustomerByID(ctx context.Context, customerID uuid.UUID) (*domain.Customer, error) {
	query := `
		SELECT id, first_name, last_name, email, phone_number, address, password_hash, created_at
		FROM customers
		WHERE id = $1
	`
	customer, err := scanCustomer(t.q.QueryRow(ctx, query, customerID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (t *postgresTx) ListAdminIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := t.q.Query(ctx, `SELECT id FROM admins ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (t *postgresTx) CreateOrder(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, customer_id, order_date, order_status, total_amount, shipping_address)
		VALUES ($1, $2, $3, $4, $5::numeric, $6)
	`
	_, err := t.q.Exec(ctx, query,
		order.ID,
		order.CustomerID,
		order.OrderDate,
		order.Status,
		order.TotalAmount.StringFixed(domain.MoneyScale),
		order.ShippingAddress,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrCustomerNotFound
		}
		return err
	}
	return nil
}

func (t *postgresTx) FindOrderByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, customer_id, order_date, order_status, total_amount::text, shipping_address
		FROM orders
		WHERE id = $1
	`
	order, err := scanOrder(t.q.QueryRow(ctx, query, orderID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// LockOrderForCustomer locks the order row so that concurrent submissions against the
// same order queue behind this transaction.
func (t *postgresTx) LockOrderForCustomer(ctx context.Context, orderID uuid.UUID, customerID uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, customer_id, order_date, order_status, total_amount::text, shipping_address
		FROM orders
		WHERE id = $1 AND customer_id = $2
		FOR UPDATE
	`
	order, err := scanOrder(t.q.QueryRow(ctx, query, orderID, customerID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (t *postgresTx) CountReturnRequestsByCustomer(ctx context.Context, customerID uuid.UUID) (int, error) {
	var count int
	err := t.q.QueryRow(ctx, `SELECT COUNT(*) FROM return_requests WHERE customer_id = $1`, customerID).Scan(&count)
	return count, err
}

func (t *postgresTx) CountReturnRequestsByOrder(ctx context.Context, orderID uuid.UUID) (int, error) {
	var count int
	err := t.q.QueryRow(ctx, `SELECT COUNT(*) FROM return_requests WHERE order_id = $1`, orderID).Scan(&count)
	return count, err
}

func (t *postgresTx) CreateReturnRequest(ctx context.Context, request *domain.ReturnRequest) error {
	query := `
		INSERT INTO return_requests (
			id, order_id, customer_id, return_reason, request_date, status, approval_date, fraud_score
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := t.q.Exec(ctx, query,
		request.ID,
		request.OrderID,
		request.CustomerID,
		request.Reason,
		request.RequestDate,
		string(request.Status),
		request.ApprovalDate,
		request.FraudScore,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrReturnRequestExists
		}
		return err
	}
	return nil
}

// LockReturnRequest reads a return request under FOR UPDATE so that the status check and
// the decision write happen against the same locked row.
func (t *postgresTx) LockReturnRequest(ctx context.Context, requestID uuid.UUID) (*domain.ReturnRequest, error) {
	var request domain.ReturnRequest
	var status string
	query := `
		SELECT id, order_id, customer_id, return_reason, request_date, status, approval_date, fraud_score
		FROM return_requests
		WHERE id = $1
		FOR UPDATE
	`
	err := t.q.QueryRow(ctx, query, requestID).Scan(
		&request.ID,
		&request.OrderID,
		&request.CustomerID,
		&request.Reason,
		&request.RequestDate,
		&status,
		&request.ApprovalDate,
		&request.FraudScore,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrReturnRequestNotFound
		}
		return nil, err
	}
	request.Status = domain.ReturnStatus(status)
	return &request, nil
}

func (t *postgresTx) UpdateReturnRequestDecision(ctx context.Context, requestID uuid.UUID, status domain.ReturnStatus, decidedAt time.Time) error {
	query := `
		UPDATE return_requests
		SET status = $2, approval_date = $3
		WHERE id = $1 AND status = 'Pending'
	`
	tag, err := t.q.Exec(ctx, query, requestID, string(status), decidedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrReturnRequestProcessed
	}
	return nil
}

func (t *postgresTx) CreateRefund(ctx context.Context, refund *domain.Refund) error {
	query := `
		INSERT INTO refunds (id, return_request_id, refund_amount, refund_date, payment_status, payment_method)
		VALUES ($1, $2, $3::numeric, $4, $5, $6)
	`
	_, err := t.q.Exec(ctx, query,
		refund.ID,
		refund.ReturnRequestID,
		refund.Amount.StringFixed(domain.MoneyScale),
		refund.RefundDate,
		string(refund.PaymentStatus),
		refund.PaymentMethod,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrRefundExists
		}
		return err
	}
	return nil
}

func (t *postgresTx) UpdateRefundStatus(ctx context.Context, refundID uuid.UUID, status domain.PaymentStatus) error {
	tag, err := t.q.Exec(ctx, `UPDATE refunds SET payment_status = $2 WHERE id = $1`, refundID, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRefundNotFound
	}
	return nil
}

func (t *postgresTx) CreatePaymentTransaction(ctx context.Context, paymentTx *domain.PaymentTransaction) error {
	query := `
		INSERT INTO payment_transactions (id, refund_id, transaction_date, amount, transaction_status, payment_method)
		VALUES ($1, $2, $3, $4::numeric, $5, $6)
	`
	_, err := t.q.Exec(ctx, query,
		paymentTx.ID,
		paymentTx.RefundID,
		paymentTx.TransactionDate,
		paymentTx.Amount.StringFixed(domain.MoneyScale),
		string(paymentTx.Status),
		paymentTx.PaymentMethod,
	)
	return err
}

func (t *postgresTx) UpdatePaymentTransactionStatus(ctx context.Context, transactionID uuid.UUID, status domain.PaymentStatus) error {
	tag, err := t.q.Exec(ctx, `UPDATE payment_transactions SET transaction_status = $2 WHERE id = $1`, transactionID, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment transaction %s: %w", transactionID, domain.ErrNotFound)
	}
	return nil
}

func (t *postgresTx) GetOrCreateWallet(ctx context.Context, customerID uuid.UUID) (*domain.Wallet, error) {
	insert := `
		INSERT INTO wallets (id, customer_id, balance)
		VALUES ($1, $2, 0)
		ON CONFLICT (customer_id) DO NOTHING
	`
	if _, err := t.q.Exec(ctx, insert, uuid.New(), customerID); err != nil {
		return nil, err
	}
	return findWallet(ctx, t.q, customerID)
}

// CreditWallet upserts the wallet balance and appends the ledger row in the caller's transaction.
func (t *postgresTx) CreditWallet(ctx context.Context, credit domain.WalletCredit) (decimal.Decimal, error) {
	upsert := `
		INSERT INTO wallets (id, customer_id, balance)
		VALUES ($1, $2, $3::numeric)
		ON CONFLICT (customer_id) DO UPDATE
		SET balance = wallets.balance + EXCLUDED.balance, updated_at = NOW()
		RETURNING balance::text
	`
	var balance string
	amount := credit.Amount.StringFixed(domain.MoneyScale)
	if err := t.q.QueryRow(ctx, upsert, uuid.New(), credit.CustomerID, amount).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to credit wallet: %w", err)
	}

	ledger := `
		INSERT INTO wallet_credits (id, customer_id, amount, source, reference_id, created_at)
		VALUES ($1, $2, $3::numeric, $4, $5, $6)
	`
	if _, err := t.q.Exec(ctx, ledger,
		credit.ID,
		credit.CustomerID,
		amount,
		string(credit.Source),
		credit.ReferenceID,
		credit.CreatedAt,
	); err != nil {
		return decimal.Zero, fmt.Errorf("failed to record wallet credit: %w", err)
	}

	return parseNumeric(balance)
}

func (t *postgresTx) CreateNotification(ctx context.Context, notification *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, recipient_kind, message, notification_type, sent_at, is_read)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := t.q.Exec(ctx, query,
		notification.ID,
		notification.RecipientID,
		string(notification.RecipientKind),
		notification.Message,
		notification.Type,
		notification.SentAt,
		notification.IsRead,
	)
	return err
}

func findWallet(ctx context.Context, q querier, customerID uuid.UUID) (*domain.Wallet, error) {
	var wallet domain.Wallet
	var balance string
	err := q.QueryRow(ctx, `SELECT id, customer_id, balance::text FROM wallets WHERE customer_id = $1`, customerID).
		Scan(&wallet.ID, &wallet.CustomerID, &balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	if wallet.Balance, err = parseNumeric(balance); err != nil {
		return nil, err
	}
	return &wallet, nil
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var customer domain.Customer
	if err := row.Scan(
		&customer.ID,
		&customer.FirstName,
		&customer.LastName,
		&customer.Email,
		&customer.PhoneNumber,
		&customer.Address,
		&customer.PasswordHash,
		&customer.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &customer, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	var total string
	if err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.OrderDate,
		&order.Status,
		&total,
		&order.ShippingAddress,
	); err != nil {
		return nil, err
	}
	amount, err := parseNumeric(total)
	if err != nil {
		return nil, err
	}
	order.TotalAmount = amount
	return &order, nil
}
