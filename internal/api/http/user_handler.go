package http

import (
	"encoding/json"
	"net/http"

	"peersupport-backend/internal/service"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

type updateProfileRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url"`
}

type registerDeviceRequest struct {
	DeviceToken string `json:"device_token"`
}

// Profile handles GET /v1/me.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	user, err := h.userSvc.GetUserProfile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PATCH /v1/me.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var body updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.userSvc.UpdateProfile(r.Context(), userID, body.Name, body.Email, body.Phone, body.AvatarURL); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// RegisterDevice handles POST /v1/me/device. The registered FCM token is
// where reschedule pushes for this user land.
func (h *UserHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var body registerDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.DeviceToken == "" {
		respondError(w, http.StatusBadRequest, "device_token is required")
		return
	}

	if err := h.userSvc.RegisterDeviceToken(r.Context(), userID, body.DeviceToken); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
