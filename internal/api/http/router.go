package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Sessions      *SessionHandler
	Reschedules   *RescheduleHandler
	Notifications *NotificationHandler
	Ledger        *LedgerHandler
	Users         *UserHandler
}

// NewRouter wires all routes behind the auth middleware.
func NewRouter(h *Handlers, auth *AuthMiddleware) *mux.Router {
	r := mux.NewRouter()
	r.Use(auth.Handler)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()

	// Sessions
	v1.HandleFunc("/sessions", h.Sessions.Book).Methods(http.MethodPost)
	v1.HandleFunc("/sessions", h.Sessions.List).Methods(http.MethodGet)
	v1.HandleFunc("/sessions/{id:[0-9]+}", h.Sessions.Get).Methods(http.MethodGet)
	v1.HandleFunc("/sessions/{id:[0-9]+}/cancel", h.Sessions.Cancel).Methods(http.MethodPost)

	// Reschedule negotiation
	v1.HandleFunc("/sessions/{id:[0-9]+}/reschedule-requests", h.Reschedules.Propose).Methods(http.MethodPost)
	v1.HandleFunc("/reschedule-requests", h.Reschedules.List).Methods(http.MethodGet)
	v1.HandleFunc("/reschedule-requests/{id}", h.Reschedules.Get).Methods(http.MethodGet)
	v1.HandleFunc("/reschedule-requests/{id}/accept", h.Reschedules.Accept).Methods(http.MethodPost)
	v1.HandleFunc("/reschedule-requests/{id}/decline", h.Reschedules.Decline).Methods(http.MethodPost)

	// Notifications
	v1.HandleFunc("/notifications", h.Notifications.List).Methods(http.MethodGet)
	v1.HandleFunc("/notifications/{id:[0-9]+}/read", h.Notifications.MarkRead).Methods(http.MethodPost)

	// Ledger
	v1.HandleFunc("/ledger/balance", h.Ledger.Balance).Methods(http.MethodGet)
	v1.HandleFunc("/ledger/transactions", h.Ledger.Transactions).Methods(http.MethodGet)

	// Profile
	v1.HandleFunc("/me", h.Users.Profile).Methods(http.MethodGet)
	v1.HandleFunc("/me", h.Users.UpdateProfile).Methods(http.MethodPatch)
	v1.HandleFunc("/me/device", h.Users.RegisterDevice).Methods(http.MethodPost)

	return r
}
