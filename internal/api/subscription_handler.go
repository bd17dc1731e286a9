package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"sentrapark/internal/auth"
	"sentrapark/internal/service"
)

type SubscriptionHandler struct {
	Service *service.SubscriptionService
}

func NewSubscriptionHandler(svc *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{Service: svc}
}

func (h *SubscriptionHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req PurchaseSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.VehicleID == 0 || req.FacilityID == 0 || req.PlanID == 0 {
		writeError(w, http.StatusBadRequest, "vehicle_id, facility_id and plan_id are required")
		return
	}
	subscription, err := h.Service.Purchase(auth.UserID(r), req.VehicleID, req.FacilityID, req.PlanID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":      "Subscription active",
		"subscription": subscription,
	})
}

func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	all := auth.IsAdmin(r) && r.URL.Query().Get("all") == "true"
	subscriptions, err := h.Service.List(auth.UserID(r), all)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subscriptions)
}

func (h *SubscriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid subscription id")
		return
	}
	var req UpdateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	switch {
	case req.Action == "cancel":
		if err := h.Service.Cancel(id); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Subscription cancelled"})
	case req.AutoRenew != nil:
		if err := h.Service.SetAutoRenew(id, *req.AutoRenew); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Auto-renew updated"})
	default:
		writeError(w, http.StatusBadRequest, "Nothing to update")
	}
}
