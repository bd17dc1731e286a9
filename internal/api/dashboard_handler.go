package api

import (
	"net/http"
	"strconv"

	"sentrapark/internal/service"
)

type DashboardHandler struct {
	Service *service.DashboardService
	LPR     *service.LPRService
}

func NewDashboardHandler(svc *service.DashboardService, lpr *service.LPRService) *DashboardHandler {
	return &DashboardHandler{Service: svc, LPR: lpr}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	facilityID, err := strconv.Atoi(r.URL.Query().Get("facility_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "facility_id is required")
		return
	}
	stats, err := h.Service.Stats(facilityID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *DashboardHandler) RecentActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	facilityID, _ := strconv.Atoi(q.Get("facility_id"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	sessions, err := h.Service.RecentActivity(facilityID, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// LPRStatus proxies the detection service health check; a dead upstream
// answers 503.
func (h *DashboardHandler) LPRStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.LPR.Status()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unreachable",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, status)
}
