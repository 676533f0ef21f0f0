package domain

import "time"

type RescheduleStatus string

const (
	RescheduleStatusPending       RescheduleStatus = "PENDING"
	RescheduleStatusAccepted      RescheduleStatus = "ACCEPTED"
	RescheduleStatusDeclined      RescheduleStatus = "DECLINED"
	RescheduleStatusExpired       RescheduleStatus = "EXPIRED"
	RescheduleStatusAutoCancelled RescheduleStatus = "AUTO_CANCELLED"
)

// IsTerminal reports whether the status can no longer change.
// Every state other than PENDING is terminal.
func (s RescheduleStatus) IsTerminal() bool {
	return s != RescheduleStatusPending
}

// RescheduleRequest is a supporter's proposal to move a scheduled session
// to a new time. The client must accept or decline before ResponseDeadline;
// otherwise the session is auto-cancelled with a full refund.
type RescheduleRequest struct {
	ID                  string           `json:"id"`
	SessionID           int32            `json:"session_id"`
	SupporterID         int32            `json:"supporter_id"`
	ClientID            int32            `json:"client_id"`
	OriginalScheduledAt time.Time        `json:"original_scheduled_at"`
	ProposedScheduledAt time.Time        `json:"proposed_scheduled_at"`
	Status              RescheduleStatus `json:"status"`
	Reason              string           `json:"reason,omitempty"`
	// ResponseDeadline is always strictly before OriginalScheduledAt.
	ResponseDeadline time.Time `json:"response_deadline"`
	CreatedOn        time.Time `json:"created_on"`
	// RespondedOn is set only when the client acted explicitly
	// (ACCEPTED or DECLINED), never for EXPIRED or AUTO_CANCELLED.
	RespondedOn *time.Time `json:"responded_on,omitempty"`
}
