package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"sentrapark/internal/auth"
	"sentrapark/internal/service"
)

type NotificationHandler struct {
	Service *service.NotifyService
}

func NewNotificationHandler(svc *service.NotifyService) *NotificationHandler {
	return &NotificationHandler{Service: svc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	notifications, err := h.Service.ListForUser(auth.UserID(r), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid notification id")
		return
	}
	if err := h.Service.MarkRead(id); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Notification read"})
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.MarkAllRead(auth.UserID(r)); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "All notifications read"})
}
