package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/transfa/returns-service/internal/domain"
)

type submitReturnRequest struct {
	OrderID      string `json:"order_id"`
	ReturnReason string `json:"return_reason"`
}

type submitReturnResponse struct {
	Message         string    `json:"message"`
	ReturnRequestID uuid.UUID `json:"return_request_id"`
	FraudScore      float64   `json:"fraud_score"`
}

type returnRequestResponse struct {
	ReturnRequestID uuid.UUID           `json:"return_request_id"`
	OrderID         uuid.UUID           `json:"order_id"`
	CustomerID      uuid.UUID           `json:"customer_id"`
	CustomerName    string              `json:"customer_name"`
	ReturnReason    string              `json:"return_reason"`
	RequestDate     time.Time           `json:"request_date"`
	Status          domain.ReturnStatus `json:"status"`
	ApprovalDate    *time.Time          `json:"approval_date"`
	FraudScore      float64             `json:"fraud_score"`
	OrderTotal      json.Number         `json:"order_total"`
}

type approveReturnRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type approveReturnResponse struct {
	Message  string    `json:"message"`
	RefundID uuid.UUID `json:"refund_id"`
}

type rejectReturnRequest struct {
	Reason string `json:"rejection_reason"`
}

type refundResponse struct {
	RefundID        uuid.UUID            `json:"refund_id"`
	ReturnRequestID uuid.UUID            `json:"return_request_id"`
	RefundAmount    json.Number          `json:"refund_amount"`
	RefundDate      time.Time            `json:"refund_date"`
	PaymentStatus   domain.PaymentStatus `json:"payment_status"`
	PaymentMethod   string               `json:"payment_method"`
}

func (h *Handlers) SubmitReturnRequestHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrAbort(w, r)
	if !ok {
		return
	}
	var req submitReturnRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if strings.TrimSpace(req.OrderID) == "" {
		writeErrorCode(w, http.StatusBadRequest, codeInvalidArgument, "order_id is required")
		return
	}
	orderID, err := uuid.Parse(strings.TrimSpace(req.OrderID))
	if err != nil {
		writeErrorCode(w, http.StatusNotFound, codeNotFound, "Order not found")
		return
	}

	result, err := h.service.SubmitReturnRequest(r.Context(), principal, domain.SubmitReturnRequest{
		OrderID: orderID,
		Reason:  req.ReturnReason,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, submitReturnResponse{
		Message:         "Return request created successfully",
		ReturnRequestID: result.ReturnRequestID,
		FraudScore:      result.FraudScore,
	})
}

func (h *Handlers) ListReturnRequestsHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrAbort(w, r)
	if !ok {
		return
	}
	requests, err := h.service.ListReturnRequests(r.Context(), principal)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response := make([]returnRequestResponse, 0, len(requests))
	for _, item := range requests {
		response = append(response, returnRequestResponse{
			ReturnRequestID: item.ID,
			OrderID:         item.OrderID,
			CustomerID:      item.CustomerID,
			CustomerName:    item.CustomerName,
			ReturnReason:    item.Reason,
			RequestDate:     item.RequestDate,
			Status:          item.Status,
			ApprovalDate:    item.ApprovalDate,
			FraudScore:      item.FraudScore,
			OrderTotal:      money(item.OrderTotal),
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) ApproveReturnRequestHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrAbort(w, r)
	if !ok {
		return
	}
	requestID, ok := uuidParam(w, r, "returnRequestID", "Return request")
	if !ok {
		return
	}
	var req approveReturnRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	result, err := h.service.ApproveReturnRequest(r.Context(), principal, requestID, req.PaymentMethod)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, approveReturnResponse{
		Message:  "Return request approved and refund processed",
		RefundID: result.RefundID,
	})
}

func (h *Handlers) RejectReturnRequestHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrAbort(w, r)
	if !ok {
		return
	}
	requestID, ok := uuidParam(w, r, "returnRequestID", "Return request")
	if !ok {
		return
	}
	var req rejectReturnRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	if err := h.service.RejectReturnRequest(r.Context(), principal, requestID, req.Reason); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Return request rejected"})
}

func (h *Handlers) ListRefundsHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrAbort(w, r)
	if !ok {
		return
	}
	refunds, err := h.service.ListRefunds(r.Context(), principal)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response := make([]refundResponse, 0, len(refunds))
	for _, refund := range refunds {
		response = append(response, refundResponse{
			RefundID:        refund.ID,
			ReturnRequestID: refund.ReturnRequestID,
			RefundAmount:    money(refund.Amount),
			RefundDate:      refund.RefundDate,
			PaymentStatus:   refund.PaymentStatus,
			PaymentMethod:   refund.PaymentMethod,
		})
	}
	writeJSON(w, http.StatusOK, response)
}
