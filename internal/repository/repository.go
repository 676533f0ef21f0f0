package repository

import (
	"context"
	"errors"
	"time"

	"peersupport-backend/internal/domain"
)

// ErrNoLongerPending is returned when a terminal transition is attempted on
// a reschedule request that has already left the PENDING state (already
// responded, expired, or auto-cancelled). Terminal states are immutable.
var ErrNoLongerPending = errors.New("reschedule request is no longer pending")

// ErrSessionNotScheduled is returned when a transition that requires a
// SCHEDULED session finds it already cancelled or completed.
var ErrSessionNotScheduled = errors.New("session is not scheduled")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateDeviceToken(ctx context.Context, userID int32, token string) error
}

type SessionRepository interface {
	// CreateWithDebit inserts the session and its booking debit in a single
	// database transaction, so a session never exists without its charge.
	// The debit's related session ID is filled in from the new row.
	CreateWithDebit(ctx context.Context, session *domain.Session, debit *domain.LedgerTransaction) error
	GetByID(ctx context.Context, id int32) (*domain.Session, error)
	// CancelWithRefund marks the session CANCELLED and inserts the refund
	// in a single database transaction. The status guard on the UPDATE
	// arbitrates races: returns ErrSessionNotScheduled if the session
	// already left SCHEDULED, and nothing is written.
	CancelWithRefund(ctx context.Context, session *domain.Session, refund *domain.LedgerTransaction) error
	ListByClient(ctx context.Context, clientID int32, status string, page, pageSize int32) ([]domain.Session, int32, error)
	ListBySupporter(ctx context.Context, supporterID int32, status string, page, pageSize int32) ([]domain.Session, int32, error)
}

type RescheduleRepository interface {
	Create(ctx context.Context, req *domain.RescheduleRequest) error
	GetByID(ctx context.Context, id string) (*domain.RescheduleRequest, error)
	// GetPendingBySession returns the session's pending request, or nil if
	// none exists. At most one pending request per session can exist.
	GetPendingBySession(ctx context.Context, sessionID int32) (*domain.RescheduleRequest, error)
	// ListActionableByClient returns the client's pending requests whose
	// response deadline has not yet passed. Requests past their deadline
	// are excluded entirely, not returned in a disabled state.
	ListActionableByClient(ctx context.Context, clientID int32, now time.Time) ([]domain.RescheduleRequest, error)
	ListBySupporter(ctx context.Context, supporterID int32, status string, page, pageSize int32) ([]domain.RescheduleRequest, int32, error)
	// Accept transitions the request to ACCEPTED and moves the underlying
	// session to the proposed time in a single database transaction.
	// Returns ErrNoLongerPending if the request already left PENDING.
	Accept(ctx context.Context, id string, respondedOn time.Time) error
	// Decline transitions the request to DECLINED; the session keeps its
	// original time. Returns ErrNoLongerPending if the request already
	// left PENDING.
	Decline(ctx context.Context, id string, respondedOn time.Time) error
}

type LedgerRepository interface {
	CreateTransaction(ctx context.Context, tx *domain.LedgerTransaction) error
	GetBalance(ctx context.Context, userID int32) (int32, error)
	ListTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.LedgerTransaction, int32, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
