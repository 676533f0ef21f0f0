package service

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"peersupport-backend/internal/logger"
)

type fcmPushService struct {
	client *messaging.Client
}

// NewPushService initializes an FCM-backed push sender from a service
// account credentials file.
func NewPushService(ctx context.Context, credentialsFile string) (PushService, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize FCM client: %w", err)
	}
	return &fcmPushService{client: client}, nil
}

func (s *fcmPushService) SendPush(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	if deviceToken == "" {
		return errors.New("device token is empty")
	}

	logger.ExternalServiceCall("fcm", "send", "title", title)
	msg := &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	_, err := s.client.Send(ctx, msg)
	logger.ExternalServiceResult("fcm", "send", err)
	if err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}
	return nil
}

// noopPushService is used when FCM credentials are not configured, e.g. in
// local development.
type noopPushService struct{}

func NewNoopPushService() PushService {
	return noopPushService{}
}

func (noopPushService) SendPush(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	logger.Debug("Push notification skipped (no FCM credentials)", "title", title)
	return nil
}
