package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"peersupport-backend/internal/domain"
	"peersupport-backend/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

// CreateWithDebit books the session and charges the client atomically:
// the session row and the debit ledger entry commit together or not at all.
func (r *sessionRepository) CreateWithDebit(ctx context.Context, s *domain.Session, debit *domain.LedgerTransaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO sessions (client_id, supporter_id, kind, scheduled_at, duration_minutes, price_cents, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := tx.QueryRowContext(ctx, query, s.ClientID, s.SupporterID, s.Kind, s.ScheduledAt, s.DurationMinutes, s.PriceCents, s.Status, time.Now(), time.Now()).Scan(&s.ID); err != nil {
		return err
	}

	debit.RelatedSessionID = &s.ID
	query = `INSERT INTO ledger_transactions (user_id, amount, type, related_session_id, description, created_on)
	         VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := tx.QueryRowContext(ctx, query, debit.UserID, debit.Amount, debit.Type, debit.RelatedSessionID, debit.Description, time.Now()).Scan(&debit.ID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *sessionRepository) GetByID(ctx context.Context, id int32) (*domain.Session, error) {
	s := &domain.Session{}
	var cancelReason sql.NullString
	query := `SELECT id, client_id, supporter_id, kind, scheduled_at, duration_minutes, price_cents, status, cancel_reason, cancelled_on, completed_on, created_on, updated_on
	          FROM sessions WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.ClientID, &s.SupporterID, &s.Kind, &s.ScheduledAt, &s.DurationMinutes, &s.PriceCents, &s.Status, &cancelReason, &s.CancelledOn, &s.CompletedOn, &s.CreatedOn, &s.UpdatedOn)
	if err != nil {
		return nil, err
	}
	s.CancelReason = cancelReason.String
	return s, nil
}

// CancelWithRefund cancels the session and credits the client atomically.
// The status guard on the UPDATE is the race arbiter: if the session left
// SCHEDULED since it was read (completed, or cancelled by the expiry sweep),
// zero rows match and the whole transaction aborts with no refund written.
func (r *sessionRepository) CancelWithRefund(ctx context.Context, s *domain.Session, refund *domain.LedgerTransaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE sessions SET status=$1, cancel_reason=$2, cancelled_on=$3, updated_on=$3 WHERE id=$4 AND status=$5`,
		domain.SessionStatusCancelled, s.CancelReason, s.CancelledOn, s.ID, domain.SessionStatusScheduled)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrSessionNotScheduled
	}

	query := `INSERT INTO ledger_transactions (user_id, amount, type, related_session_id, description, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := tx.QueryRowContext(ctx, query, refund.UserID, refund.Amount, refund.Type, refund.RelatedSessionID, refund.Description, time.Now()).Scan(&refund.ID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *sessionRepository) ListByClient(ctx context.Context, clientID int32, status string, page, pageSize int32) ([]domain.Session, int32, error) {
	return r.list(ctx, "client_id", clientID, status, page, pageSize)
}

func (r *sessionRepository) ListBySupporter(ctx context.Context, supporterID int32, status string, page, pageSize int32) ([]domain.Session, int32, error) {
	return r.list(ctx, "supporter_id", supporterID, status, page, pageSize)
}

func (r *sessionRepository) list(ctx context.Context, partyColumn string, partyID int32, status string, page, pageSize int32) ([]domain.Session, int32, error) {
	offset := (page - 1) * pageSize
	query := fmt.Sprintf(`SELECT id, client_id, supporter_id, kind, scheduled_at, duration_minutes, price_cents, status, cancel_reason, cancelled_on, completed_on, created_on, updated_on
	        FROM sessions WHERE %s = $1`, partyColumn)

	args := []interface{}{partyID}
	argIdx := 2
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY scheduled_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var s domain.Session
		var cancelReason sql.NullString
		if err := rows.Scan(&s.ID, &s.ClientID, &s.SupporterID, &s.Kind, &s.ScheduledAt, &s.DurationMinutes, &s.PriceCents, &s.Status, &cancelReason, &s.CancelledOn, &s.CompletedOn, &s.CreatedOn, &s.UpdatedOn); err != nil {
			return nil, 0, err
		}
		s.CancelReason = cancelReason.String
		sessions = append(sessions, s)
	}
	return sessions, count, rows.Err()
}
