package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

type walletResponse struct {
	CustomerID uuid.UUID   `json:"customer_id"`
	Balance    json.Number `json:"balance"`
}

type topUpRequest struct {
	Amount json.Number `json:"amount"`
}

type topUpResponse struct {
	Message string      `json:"message"`
	Balance json.Number `json:"balance"`
}

func (h *Handlers) GetWalletHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrAbort(w, r)
	if !ok {
		return
	}
	wallet, err := h.service.GetWallet(r.Context(), principal)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, walletResponse{CustomerID: wallet.CustomerID, Balance: money(wallet.Balance)})
}

func (h *Handlers) TopUpWalletHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrAbort(w, r)
	if !ok {
		return
	}
	var req topUpRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	balance, err := h.service.TopUpWallet(r.Context(), principal, amount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, topUpResponse{Message: "Wallet topped up successfully", Balance: money(balance)})
}
