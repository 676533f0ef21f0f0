package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"peersupport-backend/internal/logger"
	"peersupport-backend/internal/repository"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Success: false, Error: message})
}

// respondServiceError maps service-layer errors onto HTTP statuses:
// stale-state conflicts are 409, missing records 404, foreign identity 403,
// everything else is treated as a client-side validation failure.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNoLongerPending), errors.Is(err, repository.ErrSessionNotScheduled):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, sql.ErrNoRows):
		respondError(w, http.StatusNotFound, "not found")
	case err.Error() == "unauthorized":
		respondError(w, http.StatusForbidden, "unauthorized")
	default:
		respondError(w, http.StatusBadRequest, err.Error())
	}
}
