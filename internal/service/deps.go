package service

import (
	"context"
	"time"

	"github.com/clubhub/clubhub/internal/domain"
	"github.com/clubhub/clubhub/internal/repository/mongodb"
	"github.com/google/uuid"
)

// Collaborator contracts consumed by the services. They are satisfied by the
// mongodb and redis repositories in production and by test doubles in tests.

// ClubRepository is the persistence boundary for the club aggregate.
type ClubRepository interface {
	Create(ctx context.Context, club *domain.Club) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Club, error)
	GetByName(ctx context.Context, name string) (*domain.Club, error)
	List(ctx context.Context, filter mongodb.ClubFilter) ([]domain.Club, error)
	Save(ctx context.Context, club *domain.Club, expectedVersion int64) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository looks up and maintains user accounts, including the
// denormalized club back-references.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	AddClub(ctx context.Context, userID, clubID uuid.UUID) error
	RemoveClub(ctx context.Context, userID, clubID uuid.UUID) error
	DetachClub(ctx context.Context, clubID uuid.UUID) error
}

// NotificationRepository stores notification records.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, recipientID uuid.UUID, ids []uuid.UUID) (int64, error)
	DeleteOlderThan(ctx context.Context, recipientID uuid.UUID, cutoff time.Time) (int64, error)
}

// Notifier dispatches a notification for a committed workflow event. It is
// fire-and-forget from the workflow's perspective: the caller logs a returned
// error and moves on, it never rolls anything back.
type Notifier interface {
	Notify(ctx context.Context, input domain.NotificationInput) error
}

// ClubCache is an optional read cache for club documents.
type ClubCache interface {
	Get(ctx context.Context, clubID uuid.UUID) (*domain.Club, error)
	Set(ctx context.Context, club *domain.Club) error
	Invalidate(ctx context.Context, clubID uuid.UUID) error
}
