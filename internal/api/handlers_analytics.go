package api

import (
	"encoding/json"
	"net/http"
)

type returnAnalyticsResponse struct {
	TotalReturns      int         `json:"total_returns"`
	PendingReturns    int         `json:"pending_returns"`
	ApprovedReturns   int         `json:"approved_returns"`
	RejectedReturns   int         `json:"rejected_returns"`
	TotalRefundAmount json.Number `json:"total_refund_amount"`
	HighFraudReturns  int         `json:"high_fraud_returns"`
}

type customerAnalyticsResponse struct {
	TotalCustomers       int `json:"total_customers"`
	CustomersWithReturns int `json:"customers_with_returns"`
}

func (h *Handlers) ReturnAnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrAbort(w, r)
	if !ok {
		return
	}
	analytics, err := h.service.GetReturnAnalytics(r.Context(), principal)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, returnAnalyticsResponse{
		TotalReturns:      analytics.TotalReturns,
		PendingReturns:    analytics.PendingReturns,
		ApprovedReturns:   analytics.ApprovedReturns,
		RejectedReturns:   analytics.RejectedReturns,
		TotalRefundAmount: money(analytics.TotalRefundAmount),
		HighFraudReturns:  analytics.HighFraudReturns,
	})
}

func (h *Handlers) CustomerAnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrAbort(w, r)
	if !ok {
		return
	}
	analytics, err := h.service.GetCustomerAnalytics(r.Context(), principal)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customerAnalyticsResponse{
		TotalCustomers:       analytics.TotalCustomers,
		CustomersWithReturns: analytics.CustomersWithReturns,
	})
}
