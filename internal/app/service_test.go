package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/transfa/returns-service/internal/domain"
	"github.com/transfa/returns-service/internal/store"
)

var testNow = time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	keys   []string
	bodies []interface{}
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	p.bodies = append(p.bodies, body)
	return p.err
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) routingKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

type fixedRateLimiter struct {
	count int
	err   error
}

func (l fixedRateLimiter) ConsumeRateLimit(ctx context.Context, scope string, subject string, limit int, window time.Duration) (int, int, error) {
	return l.count, 42, l.err
}

type testEnv struct {
	svc       *Service
	repo      *store.MemoryRepository
	publisher *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := store.NewMemoryRepository()
	return newTestEnvWithRepo(t, repo, repo)
}

func newTestEnvWithRepo(t *testing.T, memory *store.MemoryRepository, repo store.Repository) *testEnv {
	t.Helper()
	tokens, err := NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	svc := NewService(repo, publisher, nil, tokens, Options{EventExchange: "returns.events"})
	svc.now = func() time.Time { return testNow }
	return &testEnv{svc: svc, repo: memory, publisher: publisher}
}

func (e *testEnv) seedCustomer(t *testing.T, first, last string) domain.Principal {
	t.Helper()
	customer := &domain.Customer{
		ID:           uuid.New(),
		FirstName:    first,
		LastName:     last,
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		CreatedAt:    testNow,
	}
	require.NoError(t, e.repo.CreateCustomer(context.Background(), customer))
	return domain.Principal{SubjectID: customer.ID, Role: domain.RoleCustomer}
}

func (e *testEnv) seedAdmin(t *testing.T) domain.Principal {
	t.Helper()
	admin := &domain.Admin{
		ID:           uuid.New(),
		FirstName:    "Ada",
		LastName:     "Admin",
		Email:        uuid.NewString() + "@example.com",
		Title:        "Returns Manager",
		PasswordHash: "x",
		CreatedAt:    testNow,
	}
	require.NoError(t, e.repo.CreateAdmin(context.Background(), admin))
	return domain.Principal{SubjectID: admin.ID, Role: domain.RoleAdmin}
}

func (e *testEnv) seedOrder(t *testing.T, customer domain.Principal, total string, orderDate time.Time) uuid.UUID {
	t.Helper()
	order := &domain.Order{
		ID:              uuid.New(),
		CustomerID:      customer.SubjectID,
		OrderDate:       orderDate,
		Status:          domain.OrderStatusCompleted,
		TotalAmount:     decimal.RequireFromString(total),
		ShippingAddress: "1 Main St",
	}
	require.NoError(t, e.repo.WithTx(context.Background(), func(tx store.Tx) error {
		return tx.CreateOrder(context.Background(), order)
	}))
	return order.ID
}

func (e *testEnv) submit(t *testing.T, customer domain.Principal, orderID uuid.UUID) *domain.SubmitReturnResult {
	t.Helper()
	result, err := e.svc.SubmitReturnRequest(context.Background(), customer, domain.SubmitReturnRequest{
		OrderID: orderID,
		Reason:  "Damaged on arrival",
	})
	require.NoError(t, err)
	return result
}

func TestNewService_DefaultsToFallbackPublisher(t *testing.T) {
	svc := NewService(store.NewMemoryRepository(), nil, nil, nil, Options{})
	require.NotNil(t, svc.eventProducer)
	require.Equal(t, "returns.events", svc.opts.EventExchange)
}

func TestPublishEvent_FailureDoesNotAffectOperation(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.err = errors.New("broker down")
	customer := env.seedCustomer(t, "Jane", "Doe")

	balance, err := env.svc.TopUpWallet(context.Background(), customer, decimal.RequireFromString("10"))
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.RequireFromString("10")))
	require.Equal(t, []string{domain.EventWalletToppedUp}, env.publisher.routingKeys())
}

func TestConsumeRateLimit(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedCustomer(t, "Jane", "Doe")

	env.svc.opts.TopUpRateLimitPerMinute = 5
	env.svc.rateLimiter = fixedRateLimiter{count: 6}
	_, err := env.svc.TopUpWallet(context.Background(), customer, decimal.RequireFromString("10"))
	require.ErrorIs(t, err, domain.ErrRateLimited)
	var limitErr *RateLimitError
	require.ErrorAs(t, err, &limitErr)
	require.Equal(t, 42, limitErr.RetryAfterSeconds)

	// A limiter outage fails open.
	env.svc.rateLimiter = fixedRateLimiter{err: errors.New("redis unavailable")}
	_, err = env.svc.TopUpWallet(context.Background(), customer, decimal.RequireFromString("10"))
	require.NoError(t, err)
}
