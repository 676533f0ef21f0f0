package domain

import "time"

type TransactionType string

const (
	TransactionTypeSessionDebit TransactionType = "SESSION_DEBIT"
	TransactionTypeRefund       TransactionType = "REFUND"
	TransactionTypeAdjustment   TransactionType = "ADJUSTMENT"
)

type LedgerTransaction struct {
	ID               int32           `json:"id"`
	UserID           int32           `json:"user_id"`
	Amount           int32           `json:"amount"` // positive for credit, negative for debit
	Type             TransactionType `json:"type"`
	RelatedSessionID *int32          `json:"related_session_id,omitempty"`
	Description      string          `json:"description"`
	CreatedOn        time.Time       `json:"created_on"`
}
