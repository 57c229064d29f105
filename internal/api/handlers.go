/**
 * @description
 * This file contains the HTTP handlers for the returns-service's API endpoints and the
 * shared response helpers. Handlers parse requests, call the application service and map
 * domain error kinds onto HTTP statuses and stable error codes.
 *
 * @dependencies
 * - github.com/go-chi/chi/v5: URL parameters.
 * - internal/app, internal/domain: service logic and error kinds.
 */

package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/transfa/returns-service/internal/app"
	"github.com/transfa/returns-service/internal/domain"
)

const (
	codeUnauthenticated = "unauthenticated"
	codeForbidden       = "forbidden"
	codeNotFound        = "not_found"
	codeConflict        = "conflict"
	codeInvalidArgument = "invalid_argument"
	codeRateLimited     = "rate_limited"
	codeInternal        = "internal"
)

const maxRequestBodyBytes = 1 << 20

// Handlers holds the application service that handlers will use.
type Handlers struct {
	service *app.Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *app.Service) *Handlers {
	return &Handlers{service: service}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// money renders an amount as a JSON number with two fractional digits.
func money(amount decimal.Decimal) json.Number {
	return json.Number(amount.StringFixed(domain.MoneyScale))
}

// writeJSON is a helper for writing JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeErrorCode(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// writeServiceError maps an error from the service layer onto the wire contract.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var rateLimitErr *app.RateLimitError
	switch {
	case errors.As(err, &rateLimitErr):
		w.Header().Set("Retry-After", strconv.Itoa(rateLimitErr.RetryAfterSeconds))
		writeErrorCode(w, http.StatusTooManyRequests, codeRateLimited, rateLimitErr.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeErrorCode(w, http.StatusTooManyRequests, codeRateLimited, "Too many requests")
	case errors.Is(err, domain.ErrUnauthenticated):
		writeErrorCode(w, http.StatusUnauthorized, codeUnauthenticated, errorMessage(err))
	case errors.Is(err, domain.ErrForbidden):
		writeErrorCode(w, http.StatusForbidden, codeForbidden, errorMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		writeErrorCode(w, http.StatusNotFound, codeNotFound, errorMessage(err))
	case errors.Is(err, domain.ErrConflict):
		writeErrorCode(w, http.StatusBadRequest, codeConflict, errorMessage(err))
	case errors.Is(err, domain.ErrInvalidArgument):
		writeErrorCode(w, http.StatusBadRequest, codeInvalidArgument, errorMessage(err))
	default:
		log.Printf("level=error component=api msg=\"request failed\" method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeErrorCode(w, http.StatusInternalServerError, codeInternal, "Internal server error")
	}
}

// errorMessage strips the trailing error kind so clients read "order not found" rather
// than "order not found: not found".
func errorMessage(err error) string {
	msg := err.Error()
	for _, kind := range []error{domain.ErrInvalidArgument, domain.ErrConflict, domain.ErrNotFound, domain.ErrForbidden, domain.ErrUnauthenticated} {
		msg = strings.TrimSuffix(msg, ": "+kind.Error())
	}
	if msg == "" {
		return err.Error()
	}
	return msg
}

// decodeJSON reads a bounded JSON body. An empty body is accepted when optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, optional bool) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		writeErrorCode(w, http.StatusBadRequest, codeInvalidArgument, "Invalid request body")
		return false
	}
	return true
}

func principalOrAbort(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeErrorCode(w, http.StatusUnauthorized, codeUnauthenticated, "Authentication required")
	}
	return principal, ok
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeErrorCode(w, http.StatusNotFound, codeNotFound, label+" not found")
		return uuid.Nil, false
	}
	return id, true
}

// parseAmount accepts a JSON number or numeric string.
func parseAmount(raw json.Number) (decimal.Decimal, error) {
	return domain.ParseAmount(raw.String())
}

func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type authUserResponse struct {
	ID    uuid.UUID   `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type authResponse struct {
	Message     string           `json:"message,omitempty"`
	AccessToken string           `json:"access_token"`
	User        authUserResponse `json:"user"`
}

func newAuthResponse(message string, result *domain.AuthResult) authResponse {
	return authResponse{
		Message:     message,
		AccessToken: result.AccessToken,
		User: authUserResponse{
			ID:    result.User.ID,
			Name:  result.User.Name,
			Email: result.User.Email,
			Role:  result.User.Role,
		},
	}
}

func (h *Handlers) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	result, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newAuthResponse("Registration successful", result))
}

func (h *Handlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	result, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAuthResponse("", result))
}

type createOrderRequest struct {
	TotalAmount     json.Number `json:"total_amount"`
	ShippingAddress string      `json:"shipping_address"`
}

type orderResponse struct {
	OrderID         uuid.UUID   `json:"order_id"`
	OrderDate       string      `json:"order_date"`
	OrderStatus     string      `json:"order_status"`
	TotalAmount     json.Number `json:"total_amount"`
	ShippingAddress string      `json:"shipping_address"`
}

func (h *Handlers) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrAbort(w, r)
	if !ok {
		return
	}
	var req createOrderRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	total, err := parseAmount(req.TotalAmount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), principal, domain.CreateOrderRequest{
		TotalAmount:     total,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Order created successfully",
		"order_id": order.ID,
	})
}

func (h *Handlers) ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrAbort(w, r)
	if !ok {
		return
	}
	orders, err := h.service.ListOrders(r.Context(), principal)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, orderResponse{
			OrderID:         order.ID,
			OrderDate:       order.OrderDate.Format("2006-01-02"),
			OrderStatus:     order.Status,
			TotalAmount:     money(order.TotalAmount),
			ShippingAddress: order.ShippingAddress,
		})
	}
	writeJSON(w, http.StatusOK, response)
}
