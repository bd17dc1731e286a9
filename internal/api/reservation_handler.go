package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"sentrapark/internal/auth"
	"sentrapark/internal/service"
)

type ReservationHandler struct {
	Service *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{Service: svc}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.VehicleID == 0 || req.FacilityID == 0 || req.ReservedStart.IsZero() || req.ReservedEnd.IsZero() {
		writeError(w, http.StatusBadRequest, "vehicle_id, facility_id, reserved_start and reserved_end are required")
		return
	}
	if !req.ReservedEnd.After(req.ReservedStart) {
		writeError(w, http.StatusBadRequest, "reserved_end must be after reserved_start")
		return
	}
	if req.SpotType == "" {
		req.SpotType = "regular"
	}

	reservation, err := h.Service.Create(auth.UserID(r), req.VehicleID, req.FacilityID,
		req.ReservedStart, req.ReservedEnd, req.SpotType, req.Notes)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Reservation confirmed",
		"reservation": reservation,
	})
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	reservations, err := h.Service.List(auth.UserID(r), q.Get("status"), auth.IsAdmin(r), q.Get("all") == "true")
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

// Update handles both cancellation (action=cancel) and field updates.
func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid reservation id")
		return
	}
	var req UpdateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if req.Action == "cancel" {
		if err := h.Service.Cancel(id, auth.UserID(r), auth.IsAdmin(r)); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Reservation cancelled"})
		return
	}

	reservation, err := h.Service.Update(id, auth.UserID(r), auth.IsAdmin(r),
		req.ReservedStart, req.ReservedEnd, req.Notes)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}
