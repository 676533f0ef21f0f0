package http

import (
	"encoding/json"
	"net/http"
	"time"

	"peersupport-backend/internal/domain"
	"peersupport-backend/internal/service"
)

type SessionHandler struct {
	sessionSvc service.SessionService
}

func NewSessionHandler(sessionSvc service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

type bookSessionRequest struct {
	SupporterID     int32     `json:"supporter_id"`
	Kind            string    `json:"kind"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int32     `json:"duration_minutes"`
}

type cancelSessionRequest struct {
	Reason string `json:"reason"`
}

// Book handles POST /v1/sessions.
func (h *SessionHandler) Book(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var body bookSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.sessionSvc.BookSession(r.Context(), userID, body.SupporterID, domain.SessionKind(body.Kind), body.ScheduledAt, body.DurationMinutes)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, session)
}

// Get handles GET /v1/sessions/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	sessionID, err := pathInt32(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	session, err := h.sessionSvc.GetSession(r.Context(), userID, sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// Cancel handles POST /v1/sessions/{id}/cancel.
func (h *SessionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	sessionID, err := pathInt32(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var body cancelSessionRequest
	if r.Body != nil {
		// Reason is optional; an empty body is fine.
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	session, err := h.sessionSvc.CancelSession(r.Context(), userID, sessionID, body.Reason)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// List handles GET /v1/sessions.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	page, pageSize := pagination(r)
	sessions, count, err := h.sessionSvc.ListSessions(r.Context(), userID, r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sessions":    sessions,
		"total_count": count,
	})
}
