package http

import (
	"net/http"

	"peersupport-backend/internal/service"
)

type LedgerHandler struct {
	ledgerSvc service.LedgerService
}

func NewLedgerHandler(ledgerSvc service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

// Balance handles GET /v1/ledger/balance.
func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	balance, err := h.ledgerSvc.GetBalance(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int32{"balance_cents": balance})
}

// Transactions handles GET /v1/ledger/transactions.
func (h *LedgerHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	page, pageSize := pagination(r)
	transactions, count, err := h.ledgerSvc.GetTransactions(r.Context(), userID, page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": transactions,
		"total_count":  count,
	})
}
