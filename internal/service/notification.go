package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clubhub/clubhub/internal/domain"
	"github.com/clubhub/clubhub/internal/mail"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NotificationService persists workflow notifications and mirrors them to
// email. It implements Notifier for the membership workflow and exposes the
// recipient-facing read API.
type NotificationService struct {
	repo   NotificationRepository
	users  UserRepository
	mailer mail.Sender
	maxAge time.Duration
}

// NewNotificationService creates a new notification service.
func NewNotificationService(repo NotificationRepository, users UserRepository, mailer mail.Sender, maxAge time.Duration) *NotificationService {
	if maxAge <= 0 {
		maxAge = 30 * 24 * time.Hour
	}
	return &NotificationService{
		repo:   repo,
		users:  users,
		mailer: mailer,
		maxAge: maxAge,
	}
}

// Notify records a notification and sends a best-effort email. The record is
// the primary artifact: an email failure is logged, not returned, so a flaky
// SMTP relay cannot make dispatch look failed to the workflow.
func (s *NotificationService) Notify(ctx context.Context, input domain.NotificationInput) error {
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityLow
	}

	n := &domain.Notification{
		ID:          uuid.New(),
		RecipientID: input.RecipientID,
		SenderID:    input.SenderID,
		Type:        input.Type,
		Content:     input.Content,
		RelatedID:   input.RelatedID,
		Priority:    priority,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}

	s.sendEmail(ctx, n)
	return nil
}

func (s *NotificationService) sendEmail(ctx context.Context, n *domain.Notification) {
	recipient, err := s.users.GetByID(ctx, n.RecipientID)
	if err != nil || recipient == nil {
		log.Error().Err(err).Str("recipient_id", n.RecipientID.String()).Msg("Failed to resolve notification recipient")
		return
	}

	if err := s.mailer.Send(recipient.Email, subjectFor(n.Type), n.Content); err != nil {
		log.Error().Err(err).Str("to", recipient.Email).Msg("Email delivery failed")
		return
	}
	log.Info().Str("to", recipient.Email).Str("type", string(n.Type)).Msg("Email sent")
}

func subjectFor(t domain.NotificationType) string {
	switch t {
	case domain.NotificationClubRequest:
		return "Club Join Request"
	case domain.NotificationClubInvitation:
		return "Club Invitation"
	case domain.NotificationEventInvitation:
		return "Event Invitation"
	case domain.NotificationEventReminder:
		return "Event Reminder"
	default:
		return "ClubHub Notification"
	}
}

// List returns the recipient's newest notifications and the unread count.
func (s *NotificationService) List(ctx context.Context, recipientID uuid.UUID) ([]domain.Notification, int64, error) {
	notifications, err := s.repo.ListByRecipient(ctx, recipientID, 50)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, 0, err
	}
	return notifications, unread, nil
}

// MarkRead marks the given notifications as read; with no ids, all of the
// recipient's unread notifications are marked.
func (s *NotificationService) MarkRead(ctx context.Context, recipientID uuid.UUID, ids []uuid.UUID) (int64, error) {
	return s.repo.MarkRead(ctx, recipientID, ids)
}

// Cleanup deletes the recipient's notifications older than the retention age.
func (s *NotificationService) Cleanup(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.repo.DeleteOlderThan(ctx, recipientID, time.Now().Add(-s.maxAge))
}

// Sweep deletes expired notifications across all recipients. Run
// periodically by the retention sweeper.
func (s *NotificationService) Sweep(ctx context.Context) (int64, error) {
	return s.repo.DeleteOlderThan(ctx, uuid.Nil, time.Now().Add(-s.maxAge))
}
