package domain

import "time"

type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "SCHEDULED"
	SessionStatusCompleted SessionStatus = "COMPLETED"
	SessionStatusCancelled SessionStatus = "CANCELLED"
)

type SessionKind string

const (
	SessionKindChat  SessionKind = "CHAT"
	SessionKindPhone SessionKind = "PHONE"
	SessionKindVideo SessionKind = "VIDEO"
)

type Session struct {
	ID              int32       `json:"id"`
	ClientID        int32       `json:"client_id"`
	SupporterID     int32       `json:"supporter_id"`
	Kind            SessionKind `json:"kind"`
	ScheduledAt     time.Time   `json:"scheduled_at"`
	DurationMinutes int32       `json:"duration_minutes"`
	// Price snapshot captured at booking time. Refunds use this value,
	// not the supporter's live rate.
	PriceCents   int32         `json:"price_cents"`
	Status       SessionStatus `json:"status"`
	CancelReason string        `json:"cancel_reason,omitempty"`
	CancelledOn  *time.Time    `json:"cancelled_on,omitempty"`
	CompletedOn  *time.Time    `json:"completed_on,omitempty"`
	CreatedOn    time.Time     `json:"created_on"`
	UpdatedOn    time.Time     `json:"updated_on"`
}
