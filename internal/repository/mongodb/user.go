package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clubhub/clubhub/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDoc struct {
	ID           string     `bson:"_id"`
	Username     string     `bson:"username"`
	Email        string     `bson:"email"`
	PasswordHash string     `bson:"password_hash"`
	Role         string     `bson:"role"`
	Profile      profileDoc `bson:"profile,omitempty"`
	Clubs        []string   `bson:"clubs"`
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
}

type profileDoc struct {
	FirstName     string `bson:"first_name,omitempty"`
	LastName      string `bson:"last_name,omitempty"`
	ContactNumber string `bson:"contact_number,omitempty"`
}

func userToDoc(user *domain.User) userDoc {
	return userDoc{
		ID:           user.ID.String(),
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		Profile: profileDoc{
			FirstName:     user.Profile.FirstName,
			LastName:      user.Profile.LastName,
			ContactNumber: user.Profile.ContactNumber,
		},
		Clubs:     idsToStrings(user.Clubs),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func (d userDoc) toDomain() (*domain.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", d.ID, err)
	}
	clubs, err := stringsToIDs(d.Clubs)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           id,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         domain.Role(d.Role),
		Profile: domain.Profile{
			FirstName:     d.Profile.FirstName,
			LastName:      d.Profile.LastName,
			ContactNumber: d.Profile.ContactNumber,
		},
		Clubs:     clubs,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

// UserRepository handles user data access.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.coll.InsertOne(ctx, userToDoc(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID. Returns (nil, nil) when absent.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var doc userDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return doc.toDomain()
}

// GetByEmail retrieves a user by email. Returns (nil, nil) when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc userDoc
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return doc.toDomain()
}

// GetByIDs retrieves all users for the given ids, skipping unknown ones.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": idsToStrings(ids)}})
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []domain.User
	for cursor.Next(ctx) {
		var doc userDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		user, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, cursor.Err()
}

// EmailExists checks whether an email is already registered.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

// UsernameExists checks whether a username is already taken.
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

// AddClub records a club back-reference on the user document.
func (r *UserRepository) AddClub(ctx context.Context, userID, clubID uuid.UUID) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID.String()},
		bson.M{"$addToSet": bson.M{"clubs": clubID.String()}},
	)
	if err != nil {
		return fmt.Errorf("failed to add club back-reference: %w", err)
	}
	return nil
}

// RemoveClub drops a club back-reference from the user document.
func (r *UserRepository) RemoveClub(ctx context.Context, userID, clubID uuid.UUID) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID.String()},
		bson.M{"$pull": bson.M{"clubs": clubID.String()}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove club back-reference: %w", err)
	}
	return nil
}

// DetachClub drops a club back-reference from every user holding it. Used
// when a club is deleted.
func (r *UserRepository) DetachClub(ctx context.Context, clubID uuid.UUID) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"clubs": clubID.String()},
		bson.M{"$pull": bson.M{"clubs": clubID.String()}},
	)
	if err != nil {
		return fmt.Errorf("failed to detach club back-references: %w", err)
	}
	return nil
}
