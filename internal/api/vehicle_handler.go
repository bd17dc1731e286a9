package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"sentrapark/internal/auth"
	"sentrapark/internal/repository"
	"sentrapark/internal/service"
)

type VehicleHandler struct {
	Service *service.VehicleService
}

func NewVehicleHandler(svc *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{Service: svc}
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	vehicle, err := h.Service.Register(auth.UserID(r), req.PlateNumber,
		req.Make, req.Model, req.Color, req.VehicleType, req.Year)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vehicle)
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	all := r.URL.Query().Get("all") == "true"
	vehicles, err := h.Service.List(auth.UserID(r), auth.IsAdmin(r), all)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid vehicle id")
		return
	}
	var fields repository.VehicleUpdate
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	vehicle, err := h.Service.Update(id, auth.UserID(r), auth.IsAdmin(r), fields)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid vehicle id")
		return
	}
	if err := h.Service.Deactivate(id, auth.UserID(r), auth.IsAdmin(r)); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Vehicle removed"})
}

// Lookup resolves a plate for gate-side callers; answers whether the
// vehicle is registered without exposing owner details.
func (h *VehicleHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	plate := mux.Vars(r)["plate"]
	vehicle, err := h.Service.LookupByPlate(plate)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"registered": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"registered":   true,
		"plate_number": vehicle.PlateNumber,
		"vehicle_type": vehicle.VehicleType,
	})
}
