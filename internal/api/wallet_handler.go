package api

import (
	"encoding/json"
	"net/http"

	"sentrapark/internal/auth"
	"sentrapark/internal/service"
)

type WalletHandler struct {
	Service *service.WalletService
}

func NewWalletHandler(svc *service.WalletService) *WalletHandler {
	return &WalletHandler{Service: svc}
}

func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.Service.GetWallet(auth.UserID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (h *WalletHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	var req TopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	balance, err := h.Service.TopUp(auth.UserID(r), req.Amount, req.Method)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Wallet topped up",
		"balance": balance,
	})
}

func (h *WalletHandler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	var req TopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	url, err := h.Service.StartCheckout(auth.UserID(r), req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"checkout_url": url})
}

func (h *WalletHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	all := auth.IsAdmin(r) && r.URL.Query().Get("all") == "true"
	payments, err := h.Service.ListPayments(auth.UserID(r), all)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}
