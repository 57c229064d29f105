package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL creates every table the service needs. Statements are idempotent so the
// service can run them on each boot.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS customers (
    id UUID PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    phone_number TEXT,
    address TEXT,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS admins (
    id UUID PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS orders (
    id UUID PRIMARY KEY,
    customer_id UUID NOT NULL REFERENCES customers(id),
    order_date DATE NOT NULL,
    order_status TEXT NOT NULL,
    total_amount NUMERIC(12,2) NOT NULL CHECK (total_amount >= 0),
    shipping_address TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id, order_date DESC);

CREATE TABLE IF NOT EXISTS return_requests (
    id UUID PRIMARY KEY,
    order_id UUID NOT NULL UNIQUE REFERENCES orders(id),
    customer_id UUID NOT NULL REFERENCES customers(id),
    return_reason TEXT NOT NULL,
    request_date TIMESTAMPTZ NOT NULL,
    status TEXT NOT NULL DEFAULT 'Pending' CHECK (status IN ('Pending', 'Approved', 'Rejected')),
    approval_date TIMESTAMPTZ,
    fraud_score DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (fraud_score >= 0 AND fraud_score <= 100)
);
CREATE INDEX IF NOT EXISTS idx_return_requests_customer ON return_requests(customer_id, request_date DESC);

CREATE TABLE IF NOT EXISTS refunds (
    id UUID PRIMARY KEY,
    return_request_id UUID NOT NULL UNIQUE REFERENCES return_requests(id),
    refund_amount NUMERIC(12,2) NOT NULL,
    refund_date TIMESTAMPTZ NOT NULL,
    payment_status TEXT NOT NULL,
    payment_method TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS payment_transactions (
    id UUID PRIMARY KEY,
    refund_id UUID NOT NULL UNIQUE REFERENCES refunds(id),
    transaction_date TIMESTAMPTZ NOT NULL,
    amount NUMERIC(12,2) NOT NULL,
    transaction_status TEXT NOT NULL,
    payment_method TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS wallets (
    id UUID PRIMARY KEY,
    customer_id UUID NOT NULL UNIQUE REFERENCES customers(id),
    balance NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS wallet_credits (
    id UUID PRIMARY KEY,
    customer_id UUID NOT NULL REFERENCES customers(id),
    amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
    source TEXT NOT NULL CHECK (source IN ('topup', 'refund')),
    reference_id UUID,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_wallet_credits_customer ON wallet_credits(customer_id);

CREATE TABLE IF NOT EXISTS notifications (
    id UUID PRIMARY KEY,
    recipient_id UUID NOT NULL,
    recipient_kind TEXT NOT NULL CHECK (recipient_kind IN ('customer', 'admin')),
    message TEXT NOT NULL,
    notification_type TEXT NOT NULL,
    sent_at TIMESTAMPTZ NOT NULL,
    is_read BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, recipient_kind, sent_at DESC);
`

// EnsureSchema creates the service tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, schemaSQL)
	return err
}
