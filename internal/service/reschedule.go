package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"peersupport-backend/internal/domain"
	"peersupport-backend/internal/logger"
	"peersupport-backend/internal/repository"
	"peersupport-backend/internal/utils"
)

const sessionTimeFormat = "Mon, Jan 2 2006 at 3:04 PM MST"

type rescheduleService struct {
	rescheduleRepo   repository.RescheduleRepository
	sessionRepo      repository.SessionRepository
	userRepo         repository.UserRepository
	noteRepo         repository.NotificationRepository
	emailSvc         EmailService
	pushSvc          PushService
	leadWindow       time.Duration
	urgencyThreshold time.Duration
}

func NewRescheduleService(
	rescheduleRepo repository.RescheduleRepository,
	sessionRepo repository.SessionRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	pushSvc PushService,
	leadWindow time.Duration,
	urgencyThreshold time.Duration,
) RescheduleService {
	return &rescheduleService{
		rescheduleRepo:   rescheduleRepo,
		sessionRepo:      sessionRepo,
		userRepo:         userRepo,
		noteRepo:         noteRepo,
		emailSvc:         emailSvc,
		pushSvc:          pushSvc,
		leadWindow:       leadWindow,
		urgencyThreshold: urgencyThreshold,
	}
}

func (s *rescheduleService) ProposeReschedule(ctx context.Context, supporterID, sessionID int32, proposedAt time.Time, reason string) (*domain.RescheduleRequest, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.SupporterID != supporterID {
		return nil, errors.New("unauthorized")
	}
	if session.Status != domain.SessionStatusScheduled {
		return nil, repository.ErrSessionNotScheduled
	}

	now := time.Now()
	if !proposedAt.After(now) {
		return nil, errors.New("proposed time must be in the future")
	}
	if proposedAt.Equal(session.ScheduledAt) {
		return nil, errors.New("proposed time matches the current session time")
	}

	// The response window closes a fixed lead before the original time.
	// A session already inside that window cannot be renegotiated.
	deadline := utils.ResponseDeadline(session.ScheduledAt, s.leadWindow)
	if !deadline.After(now) {
		return nil, errors.New("session is too close to its start time to reschedule")
	}

	pending, err := s.rescheduleRepo.GetPendingBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, errors.New("session already has a pending reschedule request")
	}

	req := &domain.RescheduleRequest{
		ID:                  uuid.NewString(),
		SessionID:           sessionID,
		SupporterID:         supporterID,
		ClientID:            session.ClientID,
		OriginalScheduledAt: session.ScheduledAt,
		ProposedScheduledAt: proposedAt,
		Status:              domain.RescheduleStatusPending,
		Reason:              reason,
		ResponseDeadline:    deadline,
	}

	if err := s.rescheduleRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.notifyClientOfProposal(ctx, req)
	return req, nil
}

func (s *rescheduleService) Accept(ctx context.Context, clientID int32, requestID string) (*domain.RescheduleRequest, error) {
	req, err := s.rescheduleRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.ClientID != clientID {
		return nil, errors.New("unauthorized")
	}
	if req.Status != domain.RescheduleStatusPending {
		return nil, repository.ErrNoLongerPending
	}

	now := time.Now()
	if !now.Before(req.ResponseDeadline) {
		// Past the deadline the expiry sweep owns the request; an accept
		// that lost the race fails rather than silently succeeding.
		return nil, repository.ErrNoLongerPending
	}

	if err := s.rescheduleRepo.Accept(ctx, requestID, now); err != nil {
		return nil, err
	}
	req.Status = domain.RescheduleStatusAccepted
	req.RespondedOn = &now

	s.notifySupporterOfResponse(ctx, req)
	return req, nil
}

func (s *rescheduleService) Decline(ctx context.Context, clientID int32, requestID string) (*domain.RescheduleRequest, error) {
	req, err := s.rescheduleRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.ClientID != clientID {
		return nil, errors.New("unauthorized")
	}
	if req.Status != domain.RescheduleStatusPending {
		return nil, repository.ErrNoLongerPending
	}

	now := time.Now()
	if !now.Before(req.ResponseDeadline) {
		return nil, repository.ErrNoLongerPending
	}

	if err := s.rescheduleRepo.Decline(ctx, requestID, now); err != nil {
		return nil, err
	}
	req.Status = domain.RescheduleStatusDeclined
	req.RespondedOn = &now

	s.notifySupporterOfResponse(ctx, req)
	return req, nil
}

func (s *rescheduleService) GetRequest(ctx context.Context, userID int32, requestID string) (*RescheduleRequestView, error) {
	req, err := s.rescheduleRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.ClientID != userID && req.SupporterID != userID {
		return nil, errors.New("unauthorized")
	}
	return &RescheduleRequestView{
		RescheduleRequest: *req,
		Countdown:         utils.TimeUntilDeadline(time.Now(), req.ResponseDeadline, s.urgencyThreshold),
	}, nil
}

func (s *rescheduleService) ListActionable(ctx context.Context, clientID int32) ([]RescheduleRequestView, error) {
	now := time.Now()
	requests, err := s.rescheduleRepo.ListActionableByClient(ctx, clientID, now)
	if err != nil {
		return nil, err
	}

	views := make([]RescheduleRequestView, 0, len(requests))
	for _, req := range requests {
		cd := utils.TimeUntilDeadline(now, req.ResponseDeadline, s.urgencyThreshold)
		if cd.IsExpired {
			// The repository query already excludes past-deadline rows;
			// this guards the edge where the deadline passed between the
			// query and the countdown computation.
			continue
		}
		views = append(views, RescheduleRequestView{RescheduleRequest: req, Countdown: cd})
	}
	return views, nil
}

func (s *rescheduleService) ListProposed(ctx context.Context, supporterID int32, status string, page, pageSize int32) ([]domain.RescheduleRequest, int32, error) {
	return s.rescheduleRepo.ListBySupporter(ctx, supporterID, status, page, pageSize)
}

// notifyClientOfProposal dispatches the proposal notice to the client over
// email, push, and the in-app feed. Delivery is best-effort: failures are
// logged and never surfaced, the persisted request is the source of truth.
func (s *rescheduleService) notifyClientOfProposal(ctx context.Context, req *domain.RescheduleRequest) {
	client, err := s.userRepo.GetByID(ctx, req.ClientID)
	if err != nil {
		logger.Error("Failed to load client for proposal notification", "request_id", req.ID, "error", err)
		return
	}
	supporter, err := s.userRepo.GetByID(ctx, req.SupporterID)
	if err != nil {
		logger.Error("Failed to load supporter for proposal notification", "request_id", req.ID, "error", err)
		return
	}

	if err := s.emailSvc.SendRescheduleProposedNotification(ctx, client.Email, client.Name, supporter.Name, req.SessionID, req.ProposedScheduledAt, req.ResponseDeadline, req.Reason); err != nil {
		logger.Error("Failed to send proposal email", "request_id", req.ID, "error", err)
	}

	message := fmt.Sprintf("%s proposed moving your session to %s. Respond by %s.",
		supporter.Name,
		req.ProposedScheduledAt.Format(sessionTimeFormat),
		req.ResponseDeadline.Format(sessionTimeFormat))

	if client.DeviceToken != "" {
		if err := s.pushSvc.SendPush(ctx, client.DeviceToken, "Reschedule Requested", message, map[string]string{
			"type":       "RESCHEDULE_PROPOSED",
			"request_id": req.ID,
			"session_id": fmt.Sprintf("%d", req.SessionID),
		}); err != nil {
			logger.Error("Failed to send proposal push", "request_id", req.ID, "error", err)
		}
	}

	note := &domain.Notification{
		UserID:  client.ID,
		Title:   "Reschedule Requested",
		Message: message,
		Attributes: map[string]string{
			"type":       "RESCHEDULE_PROPOSED",
			"request_id": req.ID,
			"session_id": fmt.Sprintf("%d", req.SessionID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to record proposal notification", "request_id", req.ID, "error", err)
	}
}

// notifySupporterOfResponse dispatches exactly one notice to the supporter
// after the client's explicit accept or decline.
func (s *rescheduleService) notifySupporterOfResponse(ctx context.Context, req *domain.RescheduleRequest) {
	supporter, err := s.userRepo.GetByID(ctx, req.SupporterID)
	if err != nil {
		logger.Error("Failed to load supporter for response notification", "request_id", req.ID, "error", err)
		return
	}
	client, err := s.userRepo.GetByID(ctx, req.ClientID)
	if err != nil {
		logger.Error("Failed to load client for response notification", "request_id", req.ID, "error", err)
		return
	}

	var title, message, noteType string
	switch req.Status {
	case domain.RescheduleStatusAccepted:
		title = "Reschedule Accepted"
		noteType = "RESCHEDULE_ACCEPTED"
		message = fmt.Sprintf("%s accepted the new time. The session now starts %s.",
			client.Name, req.ProposedScheduledAt.Format(sessionTimeFormat))
		if err := s.emailSvc.SendRescheduleAcceptedNotification(ctx, supporter.Email, supporter.Name, client.Name, req.SessionID, req.ProposedScheduledAt); err != nil {
			logger.Error("Failed to send accept email", "request_id", req.ID, "error", err)
		}
	case domain.RescheduleStatusDeclined:
		title = "Reschedule Declined"
		noteType = "RESCHEDULE_DECLINED"
		message = fmt.Sprintf("%s declined the new time. The session keeps its original start, %s.",
			client.Name, req.OriginalScheduledAt.Format(sessionTimeFormat))
		if err := s.emailSvc.SendRescheduleDeclinedNotification(ctx, supporter.Email, supporter.Name, client.Name, req.SessionID, req.OriginalScheduledAt); err != nil {
			logger.Error("Failed to send decline email", "request_id", req.ID, "error", err)
		}
	default:
		return
	}

	if supporter.DeviceToken != "" {
		if err := s.pushSvc.SendPush(ctx, supporter.DeviceToken, title, message, map[string]string{
			"type":       noteType,
			"request_id": req.ID,
			"session_id": fmt.Sprintf("%d", req.SessionID),
		}); err != nil {
			logger.Error("Failed to send response push", "request_id", req.ID, "error", err)
		}
	}

	note := &domain.Notification{
		UserID:  supporter.ID,
		Title:   title,
		Message: message,
		Attributes: map[string]string{
			"type":       noteType,
			"request_id": req.ID,
			"session_id": fmt.Sprintf("%d", req.SessionID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to record response notification", "request_id", req.ID, "error", err)
	}
}
