package jobs

import (
	"context"
	"time"

	"peersupport-backend/internal/logger"
)

// MarkCompletedSessions moves sessions whose scheduled slot has fully
// elapsed from SCHEDULED to COMPLETED.
func (jr *JobRunner) MarkCompletedSessions() {
	jr.runWithRecovery("MarkCompletedSessions", func() {
		ctx := context.Background()
		now := time.Now()

		query := `
			UPDATE sessions
			SET status = 'COMPLETED',
			    completed_on = $1,
			    updated_on = $1
			WHERE status = 'SCHEDULED'
			  AND scheduled_at + make_interval(mins => duration_minutes) <= $1
			RETURNING id, client_id, supporter_id
		`

		rows, err := jr.db.QueryContext(ctx, query, now)
		if err != nil {
			logger.Error("Failed to mark completed sessions", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var sessionID, clientID, supporterID int32
			if err := rows.Scan(&sessionID, &clientID, &supporterID); err != nil {
				logger.Error("Failed to scan completed session", "error", err)
				continue
			}
			count++
			logger.Debug("Marked session as completed",
				"session_id", sessionID,
				"client_id", clientID,
				"supporter_id", supporterID)
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating completed sessions", "error", err)
			return
		}

		logger.Info("Marked sessions as completed", "count", count)
	})
}
