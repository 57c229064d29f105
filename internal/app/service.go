/**
 * @description
 * This file contains the core wiring of the returns-service business logic. The `Service`
 * struct coordinates the storage handle, the event publisher, the rate limiter and the
 * token manager. Every operation that writes more than one row runs inside a single
 * `store.Repository.WithTx` unit of work, and events are published only after commit.
 *
 * @dependencies
 * - internal/domain, internal/store: domain models and data access.
 * - pkg/rabbitmq: lifecycle event publishing.
 */

package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/transfa/returns-service/internal/domain"
	"github.com/transfa/returns-service/internal/metrics"
	"github.com/transfa/returns-service/internal/store"
	"github.com/transfa/returns-service/pkg/rabbitmq"
)

var (
	ErrReasonRequired          = fmt.Errorf("return reason is required: %w", domain.ErrInvalidArgument)
	ErrAmountNotPositive       = fmt.Errorf("amount must be greater than zero: %w", domain.ErrInvalidArgument)
	ErrShippingAddressRequired = fmt.Errorf("shipping address is required: %w", domain.ErrInvalidArgument)
	ErrInvalidCredentials      = fmt.Errorf("invalid email or password: %w", domain.ErrUnauthenticated)
	ErrAdminRequired           = fmt.Errorf("admin access required: %w", domain.ErrForbidden)
	ErrCustomerRequired        = fmt.Errorf("customer access required: %w", domain.ErrForbidden)
)

// RateLimitError reports a rejected request together with the seconds until the window resets.
type RateLimitError struct {
	Scope             string
	RetryAfterSeconds int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("too many %s requests; retry in %d seconds", e.Scope, e.RetryAfterSeconds)
}

func (e *RateLimitError) Unwrap() error {
	return domain.ErrRateLimited
}

// RateLimiter consumes one unit of a per-subject budget and reports the running count.
type RateLimiter interface {
	ConsumeRateLimit(ctx context.Context, scope string, subject string, limit int, window time.Duration) (count int, retryAfterSeconds int, err error)
}

// Options carries the tunables the service reads from configuration.
type Options struct {
	EventExchange            string
	SubmitRateLimitPerMinute int
	TopUpRateLimitPerMinute  int
	Metrics                  *metrics.Metrics
}

// Service provides the core business logic for returns, refunds and wallets.
type Service struct {
	repo          store.Repository
	eventProducer rabbitmq.Publisher
	rateLimiter   RateLimiter
	tokens        *TokenManager
	opts          Options
	now           func() time.Time
}

// NewService creates a new returns service instance. producer and limiter may be nil.
func NewService(repo store.Repository, producer rabbitmq.Publisher, limiter RateLimiter, tokens *TokenManager, opts Options) *Service {
	if producer == nil {
		producer = &rabbitmq.EventProducerFallback{}
	}
	if opts.EventExchange == "" {
		opts.EventExchange = "returns.events"
	}
	return &Service{
		repo:          repo,
		eventProducer: producer,
		rateLimiter:   limiter,
		tokens:        tokens,
		opts:          opts,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// publishEvent sends a lifecycle event after the owning transaction has committed.
// Failures are logged and never reach the caller.
func (s *Service) publishEvent(ctx context.Context, routingKey string, event interface{}) {
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.eventProducer.Publish(publishCtx, s.opts.EventExchange, routingKey, event); err != nil {
		log.Printf("level=warn component=events msg=\"event publish failed\" exchange=%s routing_key=%s err=%v", s.opts.EventExchange, routingKey, err)
		s.observe(func(m *metrics.Metrics) { m.EventPublishFailures.WithLabelValues(routingKey).Inc() })
	}
}

// consumeRateLimit enforces a per-minute budget for subject within scope. Limiter outages
// fail open.
func (s *Service) consumeRateLimit(ctx context.Context, scope string, subject string, limit int) error {
	if s.rateLimiter == nil || limit <= 0 {
		return nil
	}

	count, retryAfter, err := s.rateLimiter.ConsumeRateLimit(ctx, scope, subject, limit, time.Minute)
	if err != nil {
		log.Printf("level=warn component=rate_limiter msg=\"rate limiter unavailable; allowing request\" scope=%s subject=%s err=%v", scope, subject, err)
		return nil
	}
	if count > limit {
		s.observe(func(m *metrics.Metrics) { m.RateLimited.WithLabelValues(scope).Inc() })
		return &RateLimitError{Scope: scope, RetryAfterSeconds: retryAfter}
	}
	return nil
}

// observe records metrics when a collector set is configured.
func (s *Service) observe(record func(m *metrics.Metrics)) {
	if s.opts.Metrics != nil {
		record(s.opts.Metrics)
	}
}

func requireAdmin(principal domain.Principal) error {
	if !principal.IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}

func requireCustomer(principal domain.Principal) error {
	if principal.Role != domain.RoleCustomer {
		return ErrCustomerRequired
	}
	return nil
}
