package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"peersupport-backend/internal/domain"
	"peersupport-backend/internal/logger"
	"peersupport-backend/internal/repository"
)

type sessionService struct {
	sessionRepo repository.SessionRepository
	userRepo    repository.UserRepository
	ledgerRepo  repository.LedgerRepository
	noteRepo    repository.NotificationRepository
	emailSvc    EmailService
}

func NewSessionService(
	sessionRepo repository.SessionRepository,
	userRepo repository.UserRepository,
	ledgerRepo repository.LedgerRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		ledgerRepo:  ledgerRepo,
		noteRepo:    noteRepo,
		emailSvc:    emailSvc,
	}
}

func (s *sessionService) BookSession(ctx context.Context, clientID, supporterID int32, kind domain.SessionKind, scheduledAt time.Time, durationMinutes int32) (*domain.Session, error) {
	if !scheduledAt.After(time.Now()) {
		return nil, errors.New("session must be scheduled in the future")
	}
	if durationMinutes <= 0 {
		return nil, errors.New("duration must be positive")
	}
	switch kind {
	case domain.SessionKindChat, domain.SessionKindPhone, domain.SessionKindVideo:
	default:
		return nil, errors.New("unknown session kind")
	}

	supporter, err := s.userRepo.GetByID(ctx, supporterID)
	if err != nil {
		return nil, err
	}
	if supporter.Role != domain.UserRoleSupporter {
		return nil, errors.New("user is not a supporter")
	}

	// Price is snapshotted at booking; later refunds use this value.
	price := supporter.SessionRateCents

	balance, err := s.ledgerRepo.GetBalance(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if balance < price {
		return nil, errors.New("insufficient balance")
	}

	session := &domain.Session{
		ClientID:        clientID,
		SupporterID:     supporterID,
		Kind:            kind,
		ScheduledAt:     scheduledAt,
		DurationMinutes: durationMinutes,
		PriceCents:      price,
		Status:          domain.SessionStatusScheduled,
	}
	debit := &domain.LedgerTransaction{
		UserID:      clientID,
		Amount:      -price,
		Type:        domain.TransactionTypeSessionDebit,
		Description: fmt.Sprintf("Booking with %s", supporter.Name),
	}
	// One transaction: a session must never exist without its charge.
	if err := s.sessionRepo.CreateWithDebit(ctx, session, debit); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *sessionService) GetSession(ctx context.Context, userID, sessionID int32) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.ClientID != userID && session.SupporterID != userID {
		return nil, errors.New("unauthorized")
	}
	return session, nil
}

func (s *sessionService) CancelSession(ctx context.Context, userID, sessionID int32, reason string) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.ClientID != userID && session.SupporterID != userID {
		return nil, errors.New("unauthorized")
	}
	if session.Status != domain.SessionStatusScheduled {
		return nil, repository.ErrSessionNotScheduled
	}

	now := time.Now()
	session.Status = domain.SessionStatusCancelled
	session.CancelReason = reason
	session.CancelledOn = &now

	refund := &domain.LedgerTransaction{
		UserID:           session.ClientID,
		Amount:           session.PriceCents,
		Type:             domain.TransactionTypeRefund,
		RelatedSessionID: &session.ID,
		Description:      fmt.Sprintf("Refund for cancelled session %d", session.ID),
	}
	// One transaction: the cancellation never commits without its refund.
	if err := s.sessionRepo.CancelWithRefund(ctx, session, refund); err != nil {
		return nil, err
	}

	s.notifyCancellation(ctx, session, userID, reason)
	return session, nil
}

func (s *sessionService) ListSessions(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Session, int32, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if user.Role == domain.UserRoleSupporter {
		return s.sessionRepo.ListBySupporter(ctx, userID, status, page, pageSize)
	}
	return s.sessionRepo.ListByClient(ctx, userID, status, page, pageSize)
}

// notifyCancellation tells the counterparty the session was cancelled.
// Best-effort: the cancellation itself is already committed.
func (s *sessionService) notifyCancellation(ctx context.Context, session *domain.Session, cancelledBy int32, reason string) {
	counterpartyID := session.SupporterID
	if cancelledBy == session.SupporterID {
		counterpartyID = session.ClientID
	}

	counterparty, err := s.userRepo.GetByID(ctx, counterpartyID)
	if err != nil {
		logger.Error("Failed to load counterparty for cancellation notice", "session_id", session.ID, "error", err)
		return
	}
	canceller, err := s.userRepo.GetByID(ctx, cancelledBy)
	if err != nil {
		logger.Error("Failed to load canceller for cancellation notice", "session_id", session.ID, "error", err)
		return
	}

	if err := s.emailSvc.SendSessionCancellationNotification(ctx, counterparty.Email, counterparty.Name, session.ID, canceller.Name, reason); err != nil {
		logger.Error("Failed to send cancellation email", "session_id", session.ID, "error", err)
	}

	message := fmt.Sprintf("%s cancelled session %d.", canceller.Name, session.ID)
	if reason != "" {
		message = fmt.Sprintf("%s Reason: %s", message, reason)
	}
	note := &domain.Notification{
		UserID:  counterparty.ID,
		Title:   "Session Cancelled",
		Message: message,
		Attributes: map[string]string{
			"type":       "SESSION_CANCELLED",
			"session_id": fmt.Sprintf("%d", session.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to record cancellation notification", "session_id", session.ID, "error", err)
	}
}
