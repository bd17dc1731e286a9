package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"sentrapark/internal/db"
	"sentrapark/internal/service"
)

type FacilityHandler struct {
	Service *service.FacilityService
}

func NewFacilityHandler(svc *service.FacilityService) *FacilityHandler {
	return &FacilityHandler{Service: svc}
}

func (h *FacilityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var facility db.Facility
	if err := json.NewDecoder(r.Body).Decode(&facility); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := h.Service.Create(&facility); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, facility)
}

func (h *FacilityHandler) List(w http.ResponseWriter, r *http.Request) {
	facilities, err := h.Service.ListActive()
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, facilities)
}

func (h *FacilityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid facility id")
		return
	}
	facility, err := h.Service.Get(id)
	if err != nil {
		respondError(w, err)
		return
	}
	occupancy, err := h.Service.Occupancy(id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"facility":  facility,
		"occupancy": occupancy,
	})
}

func (h *FacilityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid facility id")
		return
	}
	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	facility, err := h.Service.Update(id, fields)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, facility)
}

func (h *FacilityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid facility id")
		return
	}
	if err := h.Service.Delete(id); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Facility deleted"})
}

func (h *FacilityHandler) ListFloors(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid facility id")
		return
	}
	floors, err := h.Service.ListFloors(id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, floors)
}

func (h *FacilityHandler) ListSpots(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid facility id")
		return
	}
	spots, err := h.Service.ListSpots(id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spots)
}

func (h *FacilityHandler) InitSpots(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid facility id")
		return
	}
	var req InitSpotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := h.Service.InitSpots(id, req.Count, req.Prefix, req.FloorID, req.SpotType); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Spots initialized",
		"count":   req.Count,
	})
}

func (h *FacilityHandler) UpdateSpot(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid spot id")
		return
	}
	var req UpdateSpotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	spot, err := h.Service.UpdateSpot(id, req.SpotType, req.IsActive)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spot)
}
