package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"peersupport-backend/internal/domain"
	"peersupport-backend/internal/repository"
	"peersupport-backend/internal/repository/postgres"
)

var rescheduleCols = []string{"id", "session_id", "supporter_id", "client_id", "original_scheduled_at", "proposed_scheduled_at", "status", "reason", "response_deadline", "created_on", "responded_on"}

func TestRescheduleRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRescheduleRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		req := &domain.RescheduleRequest{
			ID:                  "11111111-2222-3333-4444-555555555555",
			SessionID:           5,
			SupporterID:         10,
			ClientID:            1,
			OriginalScheduledAt: time.Now().Add(48 * time.Hour),
			ProposedScheduledAt: time.Now().Add(72 * time.Hour),
			Status:              domain.RescheduleStatusPending,
			Reason:              "conflict",
			ResponseDeadline:    time.Now().Add(45 * time.Hour),
		}

		mock.ExpectExec("INSERT INTO reschedule_requests").
			WithArgs(req.ID, req.SessionID, req.SupporterID, req.ClientID, req.OriginalScheduledAt, req.ProposedScheduledAt, req.Status, req.Reason, req.ResponseDeadline, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(ctx, req)
		assert.NoError(t, err)
	})
}

func TestRescheduleRepository_GetPendingBySession(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRescheduleRepository(db)
	ctx := context.Background()

	t.Run("Pending Exists", func(t *testing.T) {
		rows := sqlmock.NewRows(rescheduleCols).
			AddRow("req-1", 5, 10, 1, time.Now(), time.Now(), "PENDING", "conflict", time.Now(), time.Now(), nil)

		mock.ExpectQuery("SELECT (.+) FROM reschedule_requests WHERE session_id = \\$1 AND status = \\$2").
			WithArgs(int32(5), domain.RescheduleStatusPending).
			WillReturnRows(rows)

		req, err := repo.GetPendingBySession(ctx, 5)
		assert.NoError(t, err)
		assert.NotNil(t, req)
		assert.Equal(t, "req-1", req.ID)
		assert.Nil(t, req.RespondedOn)
	})

	t.Run("No Pending Request", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM reschedule_requests WHERE session_id = \\$1 AND status = \\$2").
			WithArgs(int32(6), domain.RescheduleStatusPending).
			WillReturnRows(sqlmock.NewRows(rescheduleCols))

		req, err := repo.GetPendingBySession(ctx, 6)
		assert.NoError(t, err)
		assert.Nil(t, req)
	})
}

func TestRescheduleRepository_ListActionableByClient(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRescheduleRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Only Unexpired Pending Rows", func(t *testing.T) {
		rows := sqlmock.NewRows(rescheduleCols).
			AddRow("req-1", 5, 10, 1, now.Add(48*time.Hour), now.Add(72*time.Hour), "PENDING", "", now.Add(45*time.Hour), now, nil).
			AddRow("req-2", 6, 11, 1, now.Add(24*time.Hour), now.Add(30*time.Hour), "PENDING", "", now.Add(21*time.Hour), now, nil)

		mock.ExpectQuery("SELECT (.+) FROM reschedule_requests").
			WithArgs(int32(1), domain.RescheduleStatusPending, now).
			WillReturnRows(rows)

		requests, err := repo.ListActionableByClient(ctx, 1, now)
		assert.NoError(t, err)
		assert.Len(t, requests, 2)
		assert.Equal(t, "req-1", requests[0].ID)
	})
}

func TestRescheduleRepository_Accept(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRescheduleRepository(db)
	ctx := context.Background()
	respondedOn := time.Now()
	proposedAt := time.Now().Add(72 * time.Hour)

	t.Run("Success Commits Both Updates", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE reschedule_requests SET status=\\$1, responded_on=\\$2").
			WithArgs(domain.RescheduleStatusAccepted, respondedOn, "req-1", domain.RescheduleStatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"session_id", "proposed_scheduled_at"}).AddRow(5, proposedAt))
		mock.ExpectExec("UPDATE sessions SET scheduled_at=\\$1").
			WithArgs(proposedAt, respondedOn, int32(5), domain.SessionStatusScheduled).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Accept(ctx, "req-1", respondedOn)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Request No Longer Pending", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE reschedule_requests SET status=\\$1, responded_on=\\$2").
			WithArgs(domain.RescheduleStatusAccepted, respondedOn, "req-2", domain.RescheduleStatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"session_id", "proposed_scheduled_at"}))
		mock.ExpectRollback()

		err := repo.Accept(ctx, "req-2", respondedOn)
		assert.ErrorIs(t, err, repository.ErrNoLongerPending)
	})

	t.Run("Session Left Scheduled", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE reschedule_requests SET status=\\$1, responded_on=\\$2").
			WithArgs(domain.RescheduleStatusAccepted, respondedOn, "req-3", domain.RescheduleStatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"session_id", "proposed_scheduled_at"}).AddRow(7, proposedAt))
		mock.ExpectExec("UPDATE sessions SET scheduled_at=\\$1").
			WithArgs(proposedAt, respondedOn, int32(7), domain.SessionStatusScheduled).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Accept(ctx, "req-3", respondedOn)
		assert.ErrorIs(t, err, repository.ErrNoLongerPending)
	})
}

func TestRescheduleRepository_Decline(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRescheduleRepository(db)
	ctx := context.Background()
	respondedOn := time.Now()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE reschedule_requests SET status=\\$1, responded_on=\\$2").
			WithArgs(domain.RescheduleStatusDeclined, respondedOn, "req-1", domain.RescheduleStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Decline(ctx, "req-1", respondedOn)
		assert.NoError(t, err)
	})

	t.Run("Request No Longer Pending", func(t *testing.T) {
		mock.ExpectExec("UPDATE reschedule_requests SET status=\\$1, responded_on=\\$2").
			WithArgs(domain.RescheduleStatusDeclined, respondedOn, "req-2", domain.RescheduleStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Decline(ctx, "req-2", respondedOn)
		assert.ErrorIs(t, err, repository.ErrNoLongerPending)
	})
}
