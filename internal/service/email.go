package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"peersupport-backend/internal/logger"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(ctx context.Context, to, toName, subject, plainText string) error {
	logger.ExternalServiceCall("sendgrid", "send", "to", to, "subject", subject)

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "send", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "send", err)
		return err
	}

	logger.ExternalServiceResult("sendgrid", "send", nil)
	return nil
}

func (s *emailService) SendRescheduleProposedNotification(ctx context.Context, clientEmail, clientName, supporterName string, sessionID int32, proposedAt, deadline time.Time, reason string) error {
	subject := "New Time Proposed for Your Session"
	body := fmt.Sprintf(`Hello %s,

%s has proposed moving session %d to %s.`, clientName, supporterName, sessionID, proposedAt.Format(sessionTimeFormat))
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += fmt.Sprintf(`

Please accept or decline in the app by %s. If you don't respond by then, the session will be cancelled and you will receive a full refund.

Best regards,
The Peer Support Team`, deadline.Format(sessionTimeFormat))

	return s.send(ctx, clientEmail, clientName, subject, body)
}

func (s *emailService) SendRescheduleAcceptedNotification(ctx context.Context, supporterEmail, supporterName, clientName string, sessionID int32, newTime time.Time) error {
	subject := "Reschedule Accepted"
	body := fmt.Sprintf(`Hello %s,

%s accepted your proposed time for session %d. The session now starts %s.

Best regards,
The Peer Support Team`, supporterName, clientName, sessionID, newTime.Format(sessionTimeFormat))

	return s.send(ctx, supporterEmail, supporterName, subject, body)
}

func (s *emailService) SendRescheduleDeclinedNotification(ctx context.Context, supporterEmail, supporterName, clientName string, sessionID int32, originalTime time.Time) error {
	subject := "Reschedule Declined"
	body := fmt.Sprintf(`Hello %s,

%s declined your proposed time for session %d. The original time stands: %s.

Best regards,
The Peer Support Team`, supporterName, clientName, sessionID, originalTime.Format(sessionTimeFormat))

	return s.send(ctx, supporterEmail, supporterName, subject, body)
}

func (s *emailService) SendAutoCancellationNotification(ctx context.Context, email, name string, sessionID int32, originalTime time.Time, refundCents int32) error {
	subject := "Session Cancelled"
	body := fmt.Sprintf(`Hello %s,

Session %d (originally %s) was cancelled because the reschedule request received no response before the deadline.`, name, sessionID, originalTime.Format(sessionTimeFormat))
	if refundCents > 0 {
		body += fmt.Sprintf("\n\nA full refund of $%.2f has been issued to your account.", float64(refundCents)/100)
	}
	body += `

Best regards,
The Peer Support Team`

	return s.send(ctx, email, name, subject, body)
}

func (s *emailService) SendSessionCancellationNotification(ctx context.Context, email, name string, sessionID int32, cancelledByName, reason string) error {
	subject := "Session Cancelled"
	body := fmt.Sprintf(`Hello %s,

%s cancelled session %d.`, name, cancelledByName, sessionID)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += `

Best regards,
The Peer Support Team`

	return s.send(ctx, email, name, subject, body)
}
