package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"peersupport-backend/internal/domain"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) UpdateDeviceToken(ctx context.Context, userID int32, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

// MockSessionRepo
type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) CreateWithDebit(ctx context.Context, session *domain.Session, debit *domain.LedgerTransaction) error {
	args := m.Called(ctx, session, debit)
	return args.Error(0)
}
func (m *MockSessionRepo) GetByID(ctx context.Context, id int32) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}
func (m *MockSessionRepo) CancelWithRefund(ctx context.Context, session *domain.Session, refund *domain.LedgerTransaction) error {
	args := m.Called(ctx, session, refund)
	return args.Error(0)
}
func (m *MockSessionRepo) ListByClient(ctx context.Context, clientID int32, status string, page, pageSize int32) ([]domain.Session, int32, error) {
	args := m.Called(ctx, clientID, status, page, pageSize)
	return args.Get(0).([]domain.Session), args.Get(1).(int32), args.Error(2)
}
func (m *MockSessionRepo) ListBySupporter(ctx context.Context, supporterID int32, status string, page, pageSize int32) ([]domain.Session, int32, error) {
	args := m.Called(ctx, supporterID, status, page, pageSize)
	return args.Get(0).([]domain.Session), args.Get(1).(int32), args.Error(2)
}

// MockRescheduleRepo
type MockRescheduleRepo struct {
	mock.Mock
}

func (m *MockRescheduleRepo) Create(ctx context.Context, req *domain.RescheduleRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockRescheduleRepo) GetByID(ctx context.Context, id string) (*domain.RescheduleRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RescheduleRequest), args.Error(1)
}
func (m *MockRescheduleRepo) GetPendingBySession(ctx context.Context, sessionID int32) (*domain.RescheduleRequest, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RescheduleRequest), args.Error(1)
}
func (m *MockRescheduleRepo) ListActionableByClient(ctx context.Context, clientID int32, now time.Time) ([]domain.RescheduleRequest, error) {
	args := m.Called(ctx, clientID, now)
	return args.Get(0).([]domain.RescheduleRequest), args.Error(1)
}
func (m *MockRescheduleRepo) ListBySupporter(ctx context.Context, supporterID int32, status string, page, pageSize int32) ([]domain.RescheduleRequest, int32, error) {
	args := m.Called(ctx, supporterID, status, page, pageSize)
	return args.Get(0).([]domain.RescheduleRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockRescheduleRepo) Accept(ctx context.Context, id string, respondedOn time.Time) error {
	args := m.Called(ctx, id, respondedOn)
	return args.Error(0)
}
func (m *MockRescheduleRepo) Decline(ctx context.Context, id string, respondedOn time.Time) error {
	args := m.Called(ctx, id, respondedOn)
	return args.Error(0)
}

// MockLedgerRepo
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) CreateTransaction(ctx context.Context, tx *domain.LedgerTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockLedgerRepo) GetBalance(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockLedgerRepo) ListTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.LedgerTransaction, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.LedgerTransaction), args.Get(1).(int32), args.Error(2)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRescheduleProposedNotification(ctx context.Context, clientEmail, clientName, supporterName string, sessionID int32, proposedAt, deadline time.Time, reason string) error {
	args := m.Called(ctx, clientEmail, clientName, supporterName, sessionID, proposedAt, deadline, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendRescheduleAcceptedNotification(ctx context.Context, supporterEmail, supporterName, clientName string, sessionID int32, newTime time.Time) error {
	args := m.Called(ctx, supporterEmail, supporterName, clientName, sessionID, newTime)
	return args.Error(0)
}
func (m *MockEmailService) SendRescheduleDeclinedNotification(ctx context.Context, supporterEmail, supporterName, clientName string, sessionID int32, originalTime time.Time) error {
	args := m.Called(ctx, supporterEmail, supporterName, clientName, sessionID, originalTime)
	return args.Error(0)
}
func (m *MockEmailService) SendAutoCancellationNotification(ctx context.Context, email, name string, sessionID int32, originalTime time.Time, refundCents int32) error {
	args := m.Called(ctx, email, name, sessionID, originalTime, refundCents)
	return args.Error(0)
}
func (m *MockEmailService) SendSessionCancellationNotification(ctx context.Context, email, name string, sessionID int32, cancelledByName, reason string) error {
	args := m.Called(ctx, email, name, sessionID, cancelledByName, reason)
	return args.Error(0)
}

// MockPushService
type MockPushService struct {
	mock.Mock
}

func (m *MockPushService) SendPush(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	args := m.Called(ctx, deviceToken, title, body, data)
	return args.Error(0)
}
