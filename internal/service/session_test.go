package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"peersupport-backend/internal/domain"
	"peersupport-backend/internal/repository"
	"peersupport-backend/internal/service"
)

func newSessionFixture() (*MockSessionRepo, *MockUserRepo, *MockLedgerRepo, *MockNotificationRepo, *MockEmailService, service.SessionService) {
	sessionRepo := new(MockSessionRepo)
	userRepo := new(MockUserRepo)
	ledgerRepo := new(MockLedgerRepo)
	noteRepo := new(MockNotificationRepo)
	emailSvc := new(MockEmailService)

	svc := service.NewSessionService(sessionRepo, userRepo, ledgerRepo, noteRepo, emailSvc)
	return sessionRepo, userRepo, ledgerRepo, noteRepo, emailSvc, svc
}

func TestSessionService_BookSession(t *testing.T) {
	ctx := context.Background()
	clientID := int32(1)
	supporterID := int32(10)
	scheduledAt := time.Now().Add(48 * time.Hour)

	supporter := &domain.User{
		ID:               supporterID,
		Name:             "Supporter",
		Role:             domain.UserRoleSupporter,
		SessionRateCents: 4500,
	}

	t.Run("Success Snapshots Price And Debits Client", func(t *testing.T) {
		sessionRepo, userRepo, ledgerRepo, _, _, svc := newSessionFixture()

		userRepo.On("GetByID", ctx, supporterID).Return(supporter, nil)
		ledgerRepo.On("GetBalance", ctx, clientID).Return(int32(10000), nil)

		var debit *domain.LedgerTransaction
		sessionRepo.On("CreateWithDebit", ctx, mock.AnythingOfType("*domain.Session"), mock.AnythingOfType("*domain.LedgerTransaction")).
			Run(func(args mock.Arguments) {
				debit = args.Get(2).(*domain.LedgerTransaction)
			}).Return(nil)

		session, err := svc.BookSession(ctx, clientID, supporterID, domain.SessionKindVideo, scheduledAt, 60)
		assert.NoError(t, err)
		assert.NotNil(t, session)
		assert.Equal(t, domain.SessionStatusScheduled, session.Status)
		assert.Equal(t, int32(4500), session.PriceCents)

		assert.NotNil(t, debit)
		assert.Equal(t, int32(-4500), debit.Amount)
		assert.Equal(t, domain.TransactionTypeSessionDebit, debit.Type)
	})

	t.Run("Failed Booking Surfaces The Error", func(t *testing.T) {
		sessionRepo, userRepo, ledgerRepo, _, _, svc := newSessionFixture()

		userRepo.On("GetByID", ctx, supporterID).Return(supporter, nil)
		ledgerRepo.On("GetBalance", ctx, clientID).Return(int32(10000), nil)
		sessionRepo.On("CreateWithDebit", ctx, mock.AnythingOfType("*domain.Session"), mock.AnythingOfType("*domain.LedgerTransaction")).
			Return(assert.AnError)

		session, err := svc.BookSession(ctx, clientID, supporterID, domain.SessionKindVideo, scheduledAt, 60)
		assert.Error(t, err)
		assert.Nil(t, session)
	})

	t.Run("Insufficient Balance", func(t *testing.T) {
		_, userRepo, ledgerRepo, _, _, svc := newSessionFixture()

		userRepo.On("GetByID", ctx, supporterID).Return(supporter, nil)
		ledgerRepo.On("GetBalance", ctx, clientID).Return(int32(100), nil)

		session, err := svc.BookSession(ctx, clientID, supporterID, domain.SessionKindChat, scheduledAt, 60)
		assert.Error(t, err)
		assert.Nil(t, session)
		assert.Contains(t, err.Error(), "insufficient balance")
	})

	t.Run("Target Is Not A Supporter", func(t *testing.T) {
		_, userRepo, _, _, _, svc := newSessionFixture()

		client := &domain.User{ID: supporterID, Role: domain.UserRoleClient}
		userRepo.On("GetByID", ctx, supporterID).Return(client, nil)

		session, err := svc.BookSession(ctx, clientID, supporterID, domain.SessionKindChat, scheduledAt, 60)
		assert.Error(t, err)
		assert.Nil(t, session)
	})

	t.Run("Unknown Session Kind", func(t *testing.T) {
		_, _, _, _, _, svc := newSessionFixture()

		session, err := svc.BookSession(ctx, clientID, supporterID, domain.SessionKind("CARRIER_PIGEON"), scheduledAt, 60)
		assert.Error(t, err)
		assert.Nil(t, session)
	})
}

func TestSessionService_CancelSession(t *testing.T) {
	ctx := context.Background()
	clientID := int32(1)
	supporterID := int32(10)
	sessionID := int32(5)

	scheduled := func() *domain.Session {
		return &domain.Session{
			ID:          sessionID,
			ClientID:    clientID,
			SupporterID: supporterID,
			ScheduledAt: time.Now().Add(48 * time.Hour),
			PriceCents:  4500,
			Status:      domain.SessionStatusScheduled,
		}
	}

	t.Run("Client Cancel Refunds And Notifies Supporter", func(t *testing.T) {
		sessionRepo, userRepo, _, noteRepo, emailSvc, svc := newSessionFixture()
		session := scheduled()

		sessionRepo.On("GetByID", ctx, sessionID).Return(session, nil)

		var refund *domain.LedgerTransaction
		sessionRepo.On("CancelWithRefund", ctx, session, mock.AnythingOfType("*domain.LedgerTransaction")).
			Run(func(args mock.Arguments) {
				refund = args.Get(2).(*domain.LedgerTransaction)
			}).Return(nil)

		userRepo.On("GetByID", ctx, supporterID).Return(&domain.User{ID: supporterID, Email: "supporter@test.com", Name: "Supporter"}, nil)
		userRepo.On("GetByID", ctx, clientID).Return(&domain.User{ID: clientID, Email: "client@test.com", Name: "Client"}, nil)
		emailSvc.On("SendSessionCancellationNotification", ctx, "supporter@test.com", "Supporter", sessionID, "Client", "feeling better").Return(nil)
		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		res, err := svc.CancelSession(ctx, clientID, sessionID, "feeling better")
		assert.NoError(t, err)
		assert.Equal(t, domain.SessionStatusCancelled, res.Status)
		assert.NotNil(t, res.CancelledOn)

		assert.NotNil(t, refund)
		assert.Equal(t, clientID, refund.UserID)
		assert.Equal(t, int32(4500), refund.Amount)
		assert.Equal(t, domain.TransactionTypeRefund, refund.Type)
	})

	t.Run("Failed Cancel Sends No Notifications", func(t *testing.T) {
		sessionRepo, userRepo, _, noteRepo, emailSvc, svc := newSessionFixture()
		session := scheduled()

		sessionRepo.On("GetByID", ctx, sessionID).Return(session, nil)
		sessionRepo.On("CancelWithRefund", ctx, session, mock.AnythingOfType("*domain.LedgerTransaction")).
			Return(assert.AnError)

		res, err := svc.CancelSession(ctx, clientID, sessionID, "feeling better")
		assert.Error(t, err)
		assert.Nil(t, res)

		userRepo.AssertNotCalled(t, "GetByID", ctx, supporterID)
		emailSvc.AssertNotCalled(t, "SendSessionCancellationNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		noteRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Already Cancelled", func(t *testing.T) {
		sessionRepo, _, _, _, _, svc := newSessionFixture()
		session := scheduled()
		session.Status = domain.SessionStatusCancelled
		sessionRepo.On("GetByID", ctx, sessionID).Return(session, nil)

		res, err := svc.CancelSession(ctx, clientID, sessionID, "")
		assert.Error(t, err)
		assert.ErrorIs(t, err, repository.ErrSessionNotScheduled)
		assert.Nil(t, res)
	})

	t.Run("Stranger Cannot Cancel", func(t *testing.T) {
		sessionRepo, _, _, _, _, svc := newSessionFixture()
		sessionRepo.On("GetByID", ctx, sessionID).Return(scheduled(), nil)

		res, err := svc.CancelSession(ctx, int32(77), sessionID, "")
		assert.Error(t, err)
		assert.Nil(t, res)
		assert.Contains(t, err.Error(), "unauthorized")
	})
}

func TestSessionService_ListSessions(t *testing.T) {
	ctx := context.Background()

	t.Run("Supporter Lists Own Side", func(t *testing.T) {
		sessionRepo, userRepo, _, _, _, svc := newSessionFixture()
		supporterID := int32(10)

		userRepo.On("GetByID", ctx, supporterID).Return(&domain.User{ID: supporterID, Role: domain.UserRoleSupporter}, nil)
		sessionRepo.On("ListBySupporter", ctx, supporterID, "SCHEDULED", int32(1), int32(20)).
			Return([]domain.Session{{ID: 1}}, int32(1), nil)

		sessions, total, err := svc.ListSessions(ctx, supporterID, "SCHEDULED", 1, 20)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), total)
		assert.Len(t, sessions, 1)
	})

	t.Run("Client Lists Own Side", func(t *testing.T) {
		sessionRepo, userRepo, _, _, _, svc := newSessionFixture()
		clientID := int32(1)

		userRepo.On("GetByID", ctx, clientID).Return(&domain.User{ID: clientID, Role: domain.UserRoleClient}, nil)
		sessionRepo.On("ListByClient", ctx, clientID, "", int32(1), int32(20)).
			Return([]domain.Session{}, int32(0), nil)

		sessions, total, err := svc.ListSessions(ctx, clientID, "", 1, 20)
		assert.NoError(t, err)
		assert.Equal(t, int32(0), total)
		assert.Empty(t, sessions)
	})
}
