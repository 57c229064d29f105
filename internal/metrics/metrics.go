// Package metrics exposes Prometheus collectors for the return lifecycle and wallet
// operations. Collectors live on their own registry so tests can build isolated sets.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

type Metrics struct {
	registry *prometheus.Registry

	ReturnsSubmitted     prometheus.Counter
	ReturnsDecided       *prometheus.CounterVec
	RefundedAmount       prometheus.Counter
	WalletTopUps         prometheus.Counter
	FraudScores          prometheus.Histogram
	EventPublishFailures *prometheus.CounterVec
	RateLimited          *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		ReturnsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "returns",
			Name:      "requests_submitted_total",
			Help:      "Return requests accepted for review.",
		}),
		ReturnsDecided: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "returns",
			Name:      "requests_decided_total",
			Help:      "Return requests approved or rejected, by outcome.",
		}, []string{"status"}),
		RefundedAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "returns",
			Name:      "refunded_amount_total",
			Help:      "Sum of refund amounts credited to wallets.",
		}),
		WalletTopUps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "returns",
			Name:      "wallet_topups_total",
			Help:      "Successful wallet top-ups.",
		}),
		FraudScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "returns",
			Name:      "fraud_score",
			Help:      "Fraud scores assigned at submission.",
			Buckets:   []float64{0, 10, 20, 30, 50, 75, 100},
		}),
		EventPublishFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "returns",
			Name:      "event_publish_failures_total",
			Help:      "Lifecycle events that could not be published, by routing key.",
		}, []string{"routing_key"}),
		RateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "returns",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter, by scope.",
		}, []string{"scope"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ReturnsSubmitted,
		m.ReturnsDecided,
		m.RefundedAmount,
		m.WalletTopUps,
		m.FraudScores,
		m.EventPublishFailures,
		m.RateLimited,
	)
	return m
}

// AddRefund records a credited refund amount.
func (m *Metrics) AddRefund(amount decimal.Decimal) {
	value, _ := amount.Float64()
	m.RefundedAmount.Add(value)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
