package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"peersupport-backend/internal/domain"
	"peersupport-backend/internal/repository"
)

const rescheduleColumns = `id, session_id, supporter_id, client_id, original_scheduled_at, proposed_scheduled_at, status, reason, response_deadline, created_on, responded_on`

type rescheduleRepository struct {
	db *sql.DB
}

func NewRescheduleRepository(db *sql.DB) repository.RescheduleRepository {
	return &rescheduleRepository{db: db}
}

func (r *rescheduleRepository) Create(ctx context.Context, req *domain.RescheduleRequest) error {
	query := `INSERT INTO reschedule_requests (id, session_id, supporter_id, client_id, original_scheduled_at, proposed_scheduled_at, status, reason, response_deadline, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query, req.ID, req.SessionID, req.SupporterID, req.ClientID, req.OriginalScheduledAt, req.ProposedScheduledAt, req.Status, req.Reason, req.ResponseDeadline, time.Now())
	return err
}

func (r *rescheduleRepository) GetByID(ctx context.Context, id string) (*domain.RescheduleRequest, error) {
	query := `SELECT ` + rescheduleColumns + ` FROM reschedule_requests WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *rescheduleRepository) GetPendingBySession(ctx context.Context, sessionID int32) (*domain.RescheduleRequest, error) {
	query := `SELECT ` + rescheduleColumns + ` FROM reschedule_requests WHERE session_id = $1 AND status = $2`
	req, err := r.scanOne(r.db.QueryRowContext(ctx, query, sessionID, domain.RescheduleStatusPending))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return req, err
}

func (r *rescheduleRepository) ListActionableByClient(ctx context.Context, clientID int32, now time.Time) ([]domain.RescheduleRequest, error) {
	query := `SELECT ` + rescheduleColumns + ` FROM reschedule_requests
	          WHERE client_id = $1 AND status = $2 AND response_deadline > $3
	          ORDER BY response_deadline ASC`
	rows, err := r.db.QueryContext(ctx, query, clientID, domain.RescheduleStatusPending, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.RescheduleRequest
	for rows.Next() {
		req, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

func (r *rescheduleRepository) ListBySupporter(ctx context.Context, supporterID int32, status string, page, pageSize int32) ([]domain.RescheduleRequest, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + rescheduleColumns + ` FROM reschedule_requests WHERE supporter_id = $1`

	args := []interface{}{supporterID}
	argIdx := 2
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []domain.RescheduleRequest
	for rows.Next() {
		req, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, *req)
	}
	return requests, count, rows.Err()
}

// Accept moves the request to ACCEPTED and the session to the proposed time
// in one transaction. The status guard on the UPDATE is what arbitrates
// races with the expiry sweep and duplicate responses: a request that
// already left PENDING matches zero rows and the whole transaction aborts.
func (r *rescheduleRepository) Accept(ctx context.Context, id string, respondedOn time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var sessionID int32
	var proposedAt time.Time
	query := `UPDATE reschedule_requests SET status=$1, responded_on=$2
	          WHERE id=$3 AND status=$4
	          RETURNING session_id, proposed_scheduled_at`
	err = tx.QueryRowContext(ctx, query, domain.RescheduleStatusAccepted, respondedOn, id, domain.RescheduleStatusPending).Scan(&sessionID, &proposedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNoLongerPending
	}
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE sessions SET scheduled_at=$1, updated_on=$2 WHERE id=$3 AND status=$4`,
		proposedAt, respondedOn, sessionID, domain.SessionStatusScheduled)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Session left SCHEDULED while the request was pending; the
		// proposal cannot apply anymore.
		return repository.ErrNoLongerPending
	}

	return tx.Commit()
}

// Decline moves the request to DECLINED. The session keeps its original
// scheduled time, so only the request row changes.
func (r *rescheduleRepository) Decline(ctx context.Context, id string, respondedOn time.Time) error {
	query := `UPDATE reschedule_requests SET status=$1, responded_on=$2 WHERE id=$3 AND status=$4`
	res, err := r.db.ExecContext(ctx, query, domain.RescheduleStatusDeclined, respondedOn, id, domain.RescheduleStatusPending)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNoLongerPending
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *rescheduleRepository) scanOne(row *sql.Row) (*domain.RescheduleRequest, error) {
	return r.scanRow(row)
}

func (r *rescheduleRepository) scanRow(row rowScanner) (*domain.RescheduleRequest, error) {
	req := &domain.RescheduleRequest{}
	var reason sql.NullString
	err := row.Scan(&req.ID, &req.SessionID, &req.SupporterID, &req.ClientID, &req.OriginalScheduledAt, &req.ProposedScheduledAt, &req.Status, &reason, &req.ResponseDeadline, &req.CreatedOn, &req.RespondedOn)
	if err != nil {
		return nil, err
	}
	req.Reason = reason.String
	return req, nil
}
