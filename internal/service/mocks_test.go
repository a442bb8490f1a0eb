package service

import (
	"context"
	"time"

	"github.com/clubhub/clubhub/internal/domain"
	"github.com/clubhub/clubhub/internal/repository/mongodb"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockClubRepository mocks the ClubRepository interface
type MockClubRepository struct {
	mock.Mock
}

func (m *MockClubRepository) Create(ctx context.Context, club *domain.Club) error {
	args := m.Called(ctx, club)
	return args.Error(0)
}

func (m *MockClubRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Club, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Club), args.Error(1)
}

func (m *MockClubRepository) GetByName(ctx context.Context, name string) (*domain.Club, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Club), args.Error(1)
}

func (m *MockClubRepository) List(ctx context.Context, filter mongodb.ClubFilter) ([]domain.Club, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Club), args.Error(1)
}

func (m *MockClubRepository) Save(ctx context.Context, club *domain.Club, expectedVersion int64) error {
	args := m.Called(ctx, club, expectedVersion)
	return args.Error(0)
}

func (m *MockClubRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AddClub(ctx context.Context, userID, clubID uuid.UUID) error {
	args := m.Called(ctx, userID, clubID)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveClub(ctx context.Context, userID, clubID uuid.UUID) error {
	args := m.Called(ctx, userID, clubID)
	return args.Error(0)
}

func (m *MockUserRepository) DetachClub(ctx context.Context, clubID uuid.UUID) error {
	args := m.Called(ctx, clubID)
	return args.Error(0)
}

// MockNotificationRepository mocks the NotificationRepository interface
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, recipientID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, recipientID uuid.UUID, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) DeleteOlderThan(ctx context.Context, recipientID uuid.UUID, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, recipientID, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotifier mocks the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, input domain.NotificationInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

// MockClubCache mocks the ClubCache interface
type MockClubCache struct {
	mock.Mock
}

func (m *MockClubCache) Get(ctx context.Context, clubID uuid.UUID) (*domain.Club, error) {
	args := m.Called(ctx, clubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Club), args.Error(1)
}

func (m *MockClubCache) Set(ctx context.Context, club *domain.Club) error {
	args := m.Called(ctx, club)
	return args.Error(0)
}

func (m *MockClubCache) Invalidate(ctx context.Context, clubID uuid.UUID) error {
	args := m.Called(ctx, clubID)
	return args.Error(0)
}

// MockSender mocks the mail.Sender interface
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}
