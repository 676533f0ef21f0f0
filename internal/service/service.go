package service

import (
	"context"
	"time"

	"peersupport-backend/internal/domain"
	"peersupport-backend/internal/utils"
)

// RescheduleRequestView is a reschedule request with its advisory countdown
// attached. The countdown is derived server-side from the response deadline
// so clients never track urgency separately from the deadline itself.
type RescheduleRequestView struct {
	domain.RescheduleRequest
	Countdown utils.Countdown `json:"countdown"`
}

type RescheduleService interface {
	// ProposeReschedule opens a negotiation: the session's supporter
	// proposes a new time for a scheduled session. At most one pending
	// proposal may exist per session.
	ProposeReschedule(ctx context.Context, supporterID, sessionID int32, proposedAt time.Time, reason string) (*domain.RescheduleRequest, error)
	// Accept resolves a pending proposal in the client's favor of the new
	// time; the session moves to the proposed slot.
	Accept(ctx context.Context, clientID int32, requestID string) (*domain.RescheduleRequest, error)
	// Decline resolves a pending proposal keeping the original time.
	Decline(ctx context.Context, clientID int32, requestID string) (*domain.RescheduleRequest, error)
	GetRequest(ctx context.Context, userID int32, requestID string) (*RescheduleRequestView, error)
	// ListActionable returns the client's pending, unexpired proposals with
	// countdowns. Expired proposals are never included.
	ListActionable(ctx context.Context, clientID int32) ([]RescheduleRequestView, error)
	ListProposed(ctx context.Context, supporterID int32, status string, page, pageSize int32) ([]domain.RescheduleRequest, int32, error)
}

type SessionService interface {
	BookSession(ctx context.Context, clientID, supporterID int32, kind domain.SessionKind, scheduledAt time.Time, durationMinutes int32) (*domain.Session, error)
	GetSession(ctx context.Context, userID, sessionID int32) (*domain.Session, error)
	CancelSession(ctx context.Context, userID, sessionID int32, reason string) (*domain.Session, error)
	ListSessions(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Session, int32, error)
}

type LedgerService interface {
	GetBalance(ctx context.Context, userID int32) (int32, error)
	GetTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.LedgerTransaction, int32, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type UserService interface {
	GetUserProfile(ctx context.Context, userID int32) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int32, name, email, phone, avatarURL string) error
	RegisterDeviceToken(ctx context.Context, userID int32, token string) error
}

type EmailService interface {
	// SendRescheduleProposedNotification tells the client a new time was
	// proposed and when the response window closes.
	SendRescheduleProposedNotification(ctx context.Context, clientEmail, clientName, supporterName string, sessionID int32, proposedAt, deadline time.Time, reason string) error
	// SendRescheduleAcceptedNotification tells the supporter the client
	// accepted, including the new session date and time.
	SendRescheduleAcceptedNotification(ctx context.Context, supporterEmail, supporterName, clientName string, sessionID int32, newTime time.Time) error
	// SendRescheduleDeclinedNotification tells the supporter the client
	// declined and the original time stands.
	SendRescheduleDeclinedNotification(ctx context.Context, supporterEmail, supporterName, clientName string, sessionID int32, originalTime time.Time) error
	// SendAutoCancellationNotification tells a party the session was
	// cancelled because the response deadline passed; the client's copy
	// states the refund amount.
	SendAutoCancellationNotification(ctx context.Context, email, name string, sessionID int32, originalTime time.Time, refundCents int32) error
	SendSessionCancellationNotification(ctx context.Context, email, name string, sessionID int32, cancelledByName, reason string) error
}

type PushService interface {
	// SendPush delivers a data push to a single device. A missing or stale
	// token is an error the caller is expected to log and ignore.
	SendPush(ctx context.Context, deviceToken, title, body string, data map[string]string) error
}
