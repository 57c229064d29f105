package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestMetricsCountersAndHandler(t *testing.T) {
	m := New()

	m.ReturnsSubmitted.Inc()
	m.ReturnsDecided.WithLabelValues("Approved").Inc()
	m.AddRefund(decimal.RequireFromString("100.00"))
	m.AddRefund(decimal.RequireFromString("25.50"))

	if got := testutil.ToFloat64(m.ReturnsSubmitted); got != 1 {
		t.Fatalf("expected 1 submitted return, got %v", got)
	}
	if got := testutil.ToFloat64(m.RefundedAmount); got != 125.5 {
		t.Fatalf("expected refunded amount 125.5, got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "returns_requests_decided_total{status=\"Approved\"} 1") {
		t.Fatalf("expected decided counter in exposition, got:\n%s", rec.Body.String())
	}
}
