package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"peersupport-backend/internal/domain"
	"peersupport-backend/internal/service"
)

type RescheduleHandler struct {
	rescheduleSvc service.RescheduleService
}

func NewRescheduleHandler(rescheduleSvc service.RescheduleService) *RescheduleHandler {
	return &RescheduleHandler{rescheduleSvc: rescheduleSvc}
}

type proposeRescheduleRequest struct {
	ProposedScheduledAt time.Time `json:"proposed_scheduled_at"`
	Reason              string    `json:"reason"`
}

type rescheduleResponse struct {
	Success bool                      `json:"success"`
	Request *domain.RescheduleRequest `json:"request,omitempty"`
}

// Propose handles POST /v1/sessions/{id}/reschedule-requests.
// The caller must be the session's supporter.
func (h *RescheduleHandler) Propose(w http.ResponseWriter, r *http.Request) {
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

	var body proposeRescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.rescheduleSvc.ProposeReschedule(r.Context(), userID, sessionID, body.ProposedScheduledAt, body.Reason)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rescheduleResponse{Success: true, Request: req})
}

// Accept handles POST /v1/reschedule-requests/{id}/accept. The caller must
// be the request's client and the request must still be pending.
func (h *RescheduleHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	req, err := h.rescheduleSvc.Accept(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rescheduleResponse{Success: true, Request: req})
}

// Decline handles POST /v1/reschedule-requests/{id}/decline. Declining is
// irreversible; clients confirm before calling.
func (h *RescheduleHandler) Decline(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	req, err := h.rescheduleSvc.Decline(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rescheduleResponse{Success: true, Request: req})
}

// Get handles GET /v1/reschedule-requests/{id}.
func (h *RescheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	view, err := h.rescheduleSvc.GetRequest(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// List handles GET /v1/reschedule-requests. For the client role it returns
// pending requests with live countdowns; expired requests never appear.
func (h *RescheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	if r.URL.Query().Get("role") == "supporter" {
		page, pageSize := pagination(r)
		requests, count, err := h.rescheduleSvc.ListProposed(r.Context(), userID, r.URL.Query().Get("status"), page, pageSize)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"requests":    requests,
			"total_count": count,
		})
		return
	}

	views, err := h.rescheduleSvc.ListActionable(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"requests": views,
	})
}

func pathInt32(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

func pagination(r *http.Request) (int32, int32) {
	page := int32(1)
	pageSize := int32(20)
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}
