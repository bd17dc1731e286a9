package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"sentrapark/internal/auth"
	"sentrapark/internal/db"
	"sentrapark/internal/service"
)

type HardwareHandler struct {
	Service *service.HardwareService
}

func NewHardwareHandler(svc *service.HardwareService) *HardwareHandler {
	return &HardwareHandler{Service: svc}
}

func (h *HardwareHandler) CreateCamera(w http.ResponseWriter, r *http.Request) {
	var camera db.Camera
	if err := json.NewDecoder(r.Body).Decode(&camera); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := h.Service.CreateCamera(&camera); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, camera)
}

func (h *HardwareHandler) ListCameras(w http.ResponseWriter, r *http.Request) {
	facilityID, _ := strconv.Atoi(r.URL.Query().Get("facility_id"))
	cameras, err := h.Service.ListCameras(facilityID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cameras)
}

func (h *HardwareHandler) DeleteCamera(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid camera id")
		return
	}
	if err := h.Service.DeleteCamera(id); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Camera deleted"})
}

func (h *HardwareHandler) CreateGate(w http.ResponseWriter, r *http.Request) {
	var gate db.Gate
	if err := json.NewDecoder(r.Body).Decode(&gate); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := h.Service.CreateGate(&gate); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, gate)
}

func (h *HardwareHandler) ListGates(w http.ResponseWriter, r *http.Request) {
	facilityID, _ := strconv.Atoi(r.URL.Query().Get("facility_id"))
	gates, err := h.Service.ListGates(facilityID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gates)
}

func (h *HardwareHandler) OpenGate(w http.ResponseWriter, r *http.Request) {
	h.operateGate(w, r, true)
}

func (h *HardwareHandler) CloseGate(w http.ResponseWriter, r *http.Request) {
	h.operateGate(w, r, false)
}

func (h *HardwareHandler) operateGate(w http.ResponseWriter, r *http.Request, open bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid gate id")
		return
	}
	var req GateOperateRequest
	json.NewDecoder(r.Body).Decode(&req)

	if err := h.Service.OperateGate(id, open, auth.UserID(r), req.Plate); err != nil {
		respondError(w, err)
		return
	}
	status := "closed"
	if open {
		status = "open"
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Gate " + status})
}

// IngestDetection is the public hook the plate-recognition service posts
// plate reads to.
func (h *HardwareHandler) IngestDetection(w http.ResponseWriter, r *http.Request) {
	var req DetectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	detection, err := h.Service.IngestDetection(req.CameraID, req.PlateNumber,
		req.Confidence, req.FacilityID, req.VehicleClass, req.ImageURL)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, detection)
}

func (h *HardwareHandler) ListDetections(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	facilityID, _ := strconv.Atoi(q.Get("facility_id"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	detections, err := h.Service.ListDetections(facilityID, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detections)
}

func (h *HardwareHandler) UpdateDetectionAction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid detection id")
		return
	}
	var req UpdateDetectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := h.Service.UpdateDetectionAction(id, req.ActionTaken); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Detection updated"})
}
