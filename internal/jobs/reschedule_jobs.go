package jobs

import (
	"context"
	"fmt"
	"time"

	"peersupport-backend/internal/domain"
	"peersupport-backend/internal/logger"
)

// expiredRequest is one pending reschedule request found past its deadline,
// joined with the underlying session's current state.
type expiredRequest struct {
	ID                  string
	SessionID           int32
	ClientID            int32
	SupporterID         int32
	OriginalScheduledAt time.Time
	SessionStatus       string
	PriceCents          int32
}

// ExpireRescheduleRequests resolves every pending reschedule request whose
// response deadline has passed without a client response. Each request is
// settled in its own database transaction: the request's terminal status,
// the session cancellation, and the refund commit together or not at all.
func (jr *JobRunner) ExpireRescheduleRequests() {
	jr.runWithRecovery("ExpireRescheduleRequests", func() {
		ctx := context.Background()
		now := time.Now()

		query := `
			SELECT r.id, r.session_id, r.client_id, r.supporter_id, r.original_scheduled_at,
			       s.status, s.price_cents
			FROM reschedule_requests r
			JOIN sessions s ON r.session_id = s.id
			WHERE r.status = 'PENDING'
			  AND r.response_deadline <= $1
		`

		rows, err := jr.db.QueryContext(ctx, query, now)
		if err != nil {
			logger.Error("Failed to query expired reschedule requests", "error", err)
			return
		}
		defer rows.Close()

		var expired []expiredRequest
		for rows.Next() {
			var req expiredRequest
			if err := rows.Scan(&req.ID, &req.SessionID, &req.ClientID, &req.SupporterID, &req.OriginalScheduledAt, &req.SessionStatus, &req.PriceCents); err != nil {
				logger.Error("Failed to scan expired reschedule request", "error", err)
				continue
			}
			expired = append(expired, req)
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating expired reschedule requests", "error", err)
			return
		}

		autoCancelled := 0
		lapsed := 0
		for _, req := range expired {
			if req.SessionStatus == string(domain.SessionStatusScheduled) {
				if err := jr.autoCancel(ctx, req, now); err != nil {
					logger.Error("Failed to auto-cancel reschedule request", "request_id", req.ID, "error", err)
					continue
				}
				autoCancelled++
				jr.notifyAutoCancellation(ctx, req)
			} else {
				// The session already left SCHEDULED by another path while
				// the proposal was pending; the request merely lapses.
				if err := jr.markExpired(ctx, req.ID); err != nil {
					logger.Error("Failed to mark reschedule request expired", "request_id", req.ID, "error", err)
					continue
				}
				lapsed++
			}
		}

		logger.Info("Resolved expired reschedule requests", "auto_cancelled", autoCancelled, "expired", lapsed)
	})
}

// autoCancel settles one deadline breach: request AUTO_CANCELLED, session
// CANCELLED, full refund to the client, all in one transaction. The status
// guards make the job safe against a concurrent client response: if the
// request left PENDING between the sweep query and here, zero rows match
// and the transaction aborts without side effects.
func (jr *JobRunner) autoCancel(ctx context.Context, req expiredRequest, now time.Time) error {
	tx, err := jr.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE reschedule_requests SET status=$1 WHERE id=$2 AND status=$3`,
		domain.RescheduleStatusAutoCancelled, req.ID, domain.RescheduleStatusPending)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("request %s is no longer pending", req.ID)
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE sessions SET status=$1, cancel_reason=$2, cancelled_on=$3, updated_on=$3 WHERE id=$4 AND status=$5`,
		domain.SessionStatusCancelled, "No response to reschedule request before the deadline", now, req.SessionID, domain.SessionStatusScheduled)
	if err != nil {
		return err
	}
	affected, err = res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("session %d is no longer scheduled", req.SessionID)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ledger_transactions (user_id, amount, type, related_session_id, description, created_on)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		req.ClientID, req.PriceCents, domain.TransactionTypeRefund, req.SessionID,
		fmt.Sprintf("Refund for auto-cancelled session %d", req.SessionID), now)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (jr *JobRunner) markExpired(ctx context.Context, requestID string) error {
	_, err := jr.db.ExecContext(ctx,
		`UPDATE reschedule_requests SET status=$1 WHERE id=$2 AND status=$3`,
		domain.RescheduleStatusExpired, requestID, domain.RescheduleStatusPending)
	return err
}

// notifyAutoCancellation tells both parties after the cancellation and
// refund have committed. Best-effort only.
func (jr *JobRunner) notifyAutoCancellation(ctx context.Context, req expiredRequest) {
	client, err := jr.store.UserRepository.GetByID(ctx, req.ClientID)
	if err != nil {
		logger.Error("Failed to load client for auto-cancel notice", "request_id", req.ID, "error", err)
		return
	}
	supporter, err := jr.store.UserRepository.GetByID(ctx, req.SupporterID)
	if err != nil {
		logger.Error("Failed to load supporter for auto-cancel notice", "request_id", req.ID, "error", err)
		return
	}

	if err := jr.services.Email.SendAutoCancellationNotification(ctx, client.Email, client.Name, req.SessionID, req.OriginalScheduledAt, req.PriceCents); err != nil {
		logger.Error("Failed to send auto-cancel email to client", "request_id", req.ID, "error", err)
	}
	if err := jr.services.Email.SendAutoCancellationNotification(ctx, supporter.Email, supporter.Name, req.SessionID, req.OriginalScheduledAt, 0); err != nil {
		logger.Error("Failed to send auto-cancel email to supporter", "request_id", req.ID, "error", err)
	}

	if client.DeviceToken != "" {
		message := fmt.Sprintf("Session %d was cancelled because the reschedule request got no response. You have been refunded in full.", req.SessionID)
		if err := jr.services.Push.SendPush(ctx, client.DeviceToken, "Session Cancelled", message, map[string]string{
			"type":       "SESSION_AUTO_CANCELLED",
			"request_id": req.ID,
			"session_id": fmt.Sprintf("%d", req.SessionID),
		}); err != nil {
			logger.Error("Failed to send auto-cancel push", "request_id", req.ID, "error", err)
		}
	}

	for _, party := range []*struct {
		userID  int32
		message string
	}{
		{client.ID, fmt.Sprintf("Session %d was cancelled: no response to the reschedule request before the deadline. A full refund has been issued.", req.SessionID)},
		{supporter.ID, fmt.Sprintf("Session %d was cancelled: %s did not respond to your reschedule request before the deadline.", req.SessionID, client.Name)},
	} {
		note := &domain.Notification{
			UserID:  party.userID,
			Title:   "Session Cancelled",
			Message: party.message,
			Attributes: map[string]string{
				"type":       "SESSION_AUTO_CANCELLED",
				"request_id": req.ID,
				"session_id": fmt.Sprintf("%d", req.SessionID),
			},
		}
		if err := jr.store.NotificationRepository.Create(ctx, note); err != nil {
			logger.Error("Failed to record auto-cancel notification", "request_id", req.ID, "error", err)
		}
	}
}

// SendDeadlineReminders nudges clients whose pending reschedule requests
// are inside the urgency window. Each request is reminded at most once.
func (jr *JobRunner) SendDeadlineReminders() {
	jr.runWithRecovery("SendDeadlineReminders", func() {
		ctx := context.Background()
		now := time.Now()
		windowEnd := now.Add(jr.config.UrgencyThreshold())

		query := `
			UPDATE reschedule_requests
			SET reminder_sent_on = $1
			WHERE status = 'PENDING'
			  AND response_deadline > $1
			  AND response_deadline <= $2
			  AND reminder_sent_on IS NULL
			RETURNING id, session_id, client_id, response_deadline
		`

		rows, err := jr.db.QueryContext(ctx, query, now, windowEnd)
		if err != nil {
			logger.Error("Failed to query requests needing reminders", "error", err)
			return
		}
		defer rows.Close()

		type reminder struct {
			ID        string
			SessionID int32
			ClientID  int32
			Deadline  time.Time
		}
		var reminders []reminder
		for rows.Next() {
			var rem reminder
			if err := rows.Scan(&rem.ID, &rem.SessionID, &rem.ClientID, &rem.Deadline); err != nil {
				logger.Error("Failed to scan reminder row", "error", err)
				continue
			}
			reminders = append(reminders, rem)
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating reminder rows", "error", err)
			return
		}

		for _, rem := range reminders {
			client, err := jr.store.UserRepository.GetByID(ctx, rem.ClientID)
			if err != nil {
				logger.Error("Failed to load client for reminder", "request_id", rem.ID, "error", err)
				continue
			}

			message := fmt.Sprintf("A reschedule request for session %d expires at %s. Respond now or the session will be cancelled and refunded.",
				rem.SessionID, rem.Deadline.Format("3:04 PM MST"))

			if client.DeviceToken != "" {
				if err := jr.services.Push.SendPush(ctx, client.DeviceToken, "Reschedule Deadline Approaching", message, map[string]string{
					"type":       "RESCHEDULE_REMINDER",
					"request_id": rem.ID,
					"session_id": fmt.Sprintf("%d", rem.SessionID),
				}); err != nil {
					logger.Error("Failed to send reminder push", "request_id", rem.ID, "error", err)
				}
			}

			note := &domain.Notification{
				UserID:  client.ID,
				Title:   "Reschedule Deadline Approaching",
				Message: message,
				Attributes: map[string]string{
					"type":       "RESCHEDULE_REMINDER",
					"request_id": rem.ID,
					"session_id": fmt.Sprintf("%d", rem.SessionID),
				},
			}
			if err := jr.store.NotificationRepository.Create(ctx, note); err != nil {
				logger.Error("Failed to record reminder notification", "request_id", rem.ID, "error", err)
			}
		}

		logger.Info("Sent deadline reminders", "count", len(reminders))
	})
}
