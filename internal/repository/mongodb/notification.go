package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/clubhub/clubhub/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type notificationDoc struct {
	ID          string    `bson:"_id"`
	RecipientID string    `bson:"recipient_id"`
	SenderID    string    `bson:"sender_id,omitempty"`
	Type        string    `bson:"type"`
	Content     string    `bson:"content"`
	RelatedID   string    `bson:"related_id,omitempty"`
	IsRead      bool      `bson:"is_read"`
	Priority    string    `bson:"priority"`
	CreatedAt   time.Time `bson:"created_at"`
}

func notificationToDoc(n *domain.Notification) notificationDoc {
	doc := notificationDoc{
		ID:          n.ID.String(),
		RecipientID: n.RecipientID.String(),
		Type:        string(n.Type),
		Content:     n.Content,
		IsRead:      n.IsRead,
		Priority:    string(n.Priority),
		CreatedAt:   n.CreatedAt,
	}
	if n.SenderID != uuid.Nil {
		doc.SenderID = n.SenderID.String()
	}
	if n.RelatedID != uuid.Nil {
		doc.RelatedID = n.RelatedID.String()
	}
	return doc
}

func (d notificationDoc) toDomain() (*domain.Notification, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid notification id %q: %w", d.ID, err)
	}
	recipientID, err := uuid.Parse(d.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient id %q: %w", d.RecipientID, err)
	}
	n := &domain.Notification{
		ID:          id,
		RecipientID: recipientID,
		Type:        domain.NotificationType(d.Type),
		Content:     d.Content,
		IsRead:      d.IsRead,
		Priority:    domain.Priority(d.Priority),
		CreatedAt:   d.CreatedAt,
	}
	if d.SenderID != "" {
		if n.SenderID, err = uuid.Parse(d.SenderID); err != nil {
			return nil, fmt.Errorf("invalid sender id %q: %w", d.SenderID, err)
		}
	}
	if d.RelatedID != "" {
		if n.RelatedID, err = uuid.Parse(d.RelatedID); err != nil {
			return nil, fmt.Errorf("invalid related id %q: %w", d.RelatedID, err)
		}
	}
	return n, nil
}

// NotificationRepository handles notification data access.
type NotificationRepository struct {
	coll *mongo.Collection
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{coll: db.Collection(notificationsCollection)}
}

// Create inserts a notification record.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	_, err := r.coll.InsertOne(ctx, notificationToDoc(n))
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListByRecipient returns the recipient's newest notifications.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"recipient_id": recipientID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []domain.Notification
	for cursor.Next(ctx) {
		var doc notificationDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode notification: %w", err)
		}
		n, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}
	return notifications, cursor.Err()
}

// CountUnread returns the recipient's unread notification count.
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{
		"recipient_id": recipientID.String(),
		"is_read":      false,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flips the read flag on the given notifications. With no ids, all
// of the recipient's unread notifications are marked.
func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID uuid.UUID, ids []uuid.UUID) (int64, error) {
	filter := bson.M{"recipient_id": recipientID.String(), "is_read": false}
	if len(ids) > 0 {
		filter["_id"] = bson.M{"$in": idsToStrings(ids)}
	}

	res, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return res.ModifiedCount, nil
}

// DeleteOlderThan removes notifications created before the cutoff. A nil
// recipient sweeps across all users (retention sweep); otherwise only the
// recipient's records are touched.
func (r *NotificationRepository) DeleteOlderThan(ctx context.Context, recipientID uuid.UUID, cutoff time.Time) (int64, error) {
	filter := bson.M{"created_at": bson.M{"$lt": cutoff}}
	if recipientID != uuid.Nil {
		filter["recipient_id"] = recipientID.String()
	}

	res, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old notifications: %w", err)
	}
	return res.DeletedCount, nil
}
