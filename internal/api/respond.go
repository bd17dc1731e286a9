package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	apperrors "sentrapark/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("ERROR: failed to encode response: %v", err)
		}
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// respondError maps service and repository errors to HTTP responses.
func respondError(w http.ResponseWriter, err error) {
	if httpErr, ok := apperrors.AsHTTPError(err); ok {
		writeError(w, httpErr.Code, httpErr.Message)
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrDuplicateEntry):
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":       err.Error(),
			"gate_action": "deny",
		})
	case errors.Is(err, apperrors.ErrFacilityFull),
		errors.Is(err, apperrors.ErrNoSpotOfType),
		errors.Is(err, apperrors.ErrNoActiveSession),
		errors.Is(err, apperrors.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrSpotTaken):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("ERROR: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
