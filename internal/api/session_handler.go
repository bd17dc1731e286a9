package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"sentrapark/internal/auth"
	"sentrapark/internal/service"
)

type SessionHandler struct {
	Service *service.SessionService
}

func NewSessionHandler(svc *service.SessionService) *SessionHandler {
	return &SessionHandler{Service: svc}
}

// Entry handles a vehicle arriving at a gate. The caller is trusted
// gate-side software, so the endpoint is unauthenticated.
func (h *SessionHandler) Entry(w http.ResponseWriter, r *http.Request) {
	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Plate == "" || req.FacilityID == 0 {
		writeError(w, http.StatusBadRequest, "plate and facility_id are required")
		return
	}
	if req.EntryMethod == "" {
		req.EntryMethod = "lpr"
	}

	result, err := h.Service.RecordEntry(req.Plate, req.FacilityID, req.EntryMethod)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Exit handles a vehicle leaving. Always fail-open.
func (h *SessionHandler) Exit(w http.ResponseWriter, r *http.Request) {
	var req ExitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Plate == "" {
		writeError(w, http.StatusBadRequest, "plate is required")
		return
	}

	result, err := h.Service.RecordExit(req.Plate, req.PaymentMethod)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	facilityID, _ := strconv.Atoi(q.Get("facility_id"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	all := q.Get("all") == "true"
	activeOnly := q.Get("active") == "true"

	sessions, err := h.Service.ListSessions(auth.UserID(r), auth.IsAdmin(r), all, facilityID, activeOnly, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// Reset wipes sessions and reservations for a facility and frees every
// spot. Admin maintenance only.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.FacilityID == 0 {
		writeError(w, http.StatusBadRequest, "facility_id is required")
		return
	}
	if err := h.Service.ResetFacility(req.FacilityID); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Facility reset"})
}
