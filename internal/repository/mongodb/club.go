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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// clubDoc is the persisted shape of a club. IDs are stored as strings so the
// documents stay readable in the shell and portable across driver versions.
type clubDoc struct {
	ID             string           `bson:"_id"`
	Name           string           `bson:"name"`
	Slug           string           `bson:"slug"`
	Description    string           `bson:"description"`
	FounderID      string           `bson:"founder_id"`
	Leaders        []string         `bson:"leaders"`
	Members        []string         `bson:"members"`
	Categories     []string         `bson:"categories"`
	Privacy        string           `bson:"privacy"`
	MembershipType string           `bson:"membership_type"`
	MaxMembers     int              `bson:"max_members"`
	SocialLinks    socialLinksDoc   `bson:"social_links,omitempty"`
	Status         string           `bson:"status"`
	JoinRequests   []joinRequestDoc `bson:"join_requests"`
	Version        int64            `bson:"version"`
	CreatedAt      time.Time        `bson:"created_at"`
	UpdatedAt      time.Time        `bson:"updated_at"`
}

type socialLinksDoc struct {
	Website   string `bson:"website,omitempty"`
	Facebook  string `bson:"facebook,omitempty"`
	Twitter   string `bson:"twitter,omitempty"`
	Instagram string `bson:"instagram,omitempty"`
}

type joinRequestDoc struct {
	ID        string    `bson:"id"`
	UserID    string    `bson:"user_id"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"created_at"`
}

func clubToDoc(club *domain.Club) clubDoc {
	doc := clubDoc{
		ID:             club.ID.String(),
		Name:           club.Name,
		Slug:           club.Slug,
		Description:    club.Description,
		FounderID:      club.FounderID.String(),
		Leaders:        idsToStrings(club.Leaders),
		Members:        idsToStrings(club.Members),
		Categories:     make([]string, 0, len(club.Categories)),
		Privacy:        string(club.Privacy),
		MembershipType: string(club.MembershipType),
		MaxMembers:     club.MaxMembers,
		SocialLinks: socialLinksDoc{
			Website:   club.SocialLinks.Website,
			Facebook:  club.SocialLinks.Facebook,
			Twitter:   club.SocialLinks.Twitter,
			Instagram: club.SocialLinks.Instagram,
		},
		Status:       string(club.Status),
		JoinRequests: make([]joinRequestDoc, 0, len(club.JoinRequests)),
		Version:      club.Version,
		CreatedAt:    club.CreatedAt,
		UpdatedAt:    club.UpdatedAt,
	}
	for _, c := range club.Categories {
		doc.Categories = append(doc.Categories, string(c))
	}
	for _, req := range club.JoinRequests {
		doc.JoinRequests = append(doc.JoinRequests, joinRequestDoc{
			ID:        req.ID.String(),
			UserID:    req.UserID.String(),
			Status:    string(req.Status),
			CreatedAt: req.CreatedAt,
		})
	}
	return doc
}

func (d clubDoc) toDomain() (*domain.Club, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid club id %q: %w", d.ID, err)
	}
	founderID, err := uuid.Parse(d.FounderID)
	if err != nil {
		return nil, fmt.Errorf("invalid founder id %q: %w", d.FounderID, err)
	}
	leaders, err := stringsToIDs(d.Leaders)
	if err != nil {
		return nil, err
	}
	members, err := stringsToIDs(d.Members)
	if err != nil {
		return nil, err
	}

	club := &domain.Club{
		ID:             id,
		Name:           d.Name,
		Slug:           d.Slug,
		Description:    d.Description,
		FounderID:      founderID,
		Leaders:        leaders,
		Members:        members,
		Categories:     make([]domain.Category, 0, len(d.Categories)),
		Privacy:        domain.Privacy(d.Privacy),
		MembershipType: domain.MembershipType(d.MembershipType),
		MaxMembers:     d.MaxMembers,
		SocialLinks: domain.SocialLinks{
			Website:   d.SocialLinks.Website,
			Facebook:  d.SocialLinks.Facebook,
			Twitter:   d.SocialLinks.Twitter,
			Instagram: d.SocialLinks.Instagram,
		},
		Status:    domain.ClubStatus(d.Status),
		Version:   d.Version,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for _, c := range d.Categories {
		club.Categories = append(club.Categories, domain.Category(c))
	}
	for _, req := range d.JoinRequests {
		reqID, err := uuid.Parse(req.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid request id %q: %w", req.ID, err)
		}
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid request user id %q: %w", req.UserID, err)
		}
		club.JoinRequests = append(club.JoinRequests, domain.JoinRequest{
			ID:        reqID,
			UserID:    userID,
			Status:    domain.RequestStatus(req.Status),
			CreatedAt: req.CreatedAt,
		})
	}
	return club, nil
}

func idsToStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func stringsToIDs(values []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", v, err)
		}
		out = append(out, id)
	}
	return out, nil
}

// ClubFilter narrows club listings.
type ClubFilter struct {
	Category   domain.Category
	Status     domain.ClubStatus
	ViewableBy uuid.UUID // include PRIVATE clubs this user belongs to
	Page       int
	Limit      int
}

// ClubRepository handles club data access.
type ClubRepository struct {
	coll *mongo.Collection
}

// NewClubRepository creates a new club repository.
func NewClubRepository(db *DB) *ClubRepository {
	return &ClubRepository{coll: db.Collection(clubsCollection)}
}

// Create inserts a new club. A name collision surfaces as ErrDuplicateName.
func (r *ClubRepository) Create(ctx context.Context, club *domain.Club) error {
	_, err := r.coll.InsertOne(ctx, clubToDoc(club))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("failed to create club: %w", err)
	}
	return nil
}

// GetByID retrieves a club by ID. Returns (nil, nil) when absent.
func (r *ClubRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Club, error) {
	var doc clubDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get club: %w", err)
	}
	return doc.toDomain()
}

// GetByName retrieves a club by its unique name. Returns (nil, nil) when absent.
func (r *ClubRepository) GetByName(ctx context.Context, name string) (*domain.Club, error) {
	var doc clubDoc
	err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get club by name: %w", err)
	}
	return doc.toDomain()
}

// List returns clubs matching the filter, newest first. PRIVATE clubs are
// included only for the ViewableBy user.
func (r *ClubRepository) List(ctx context.Context, filter ClubFilter) ([]domain.Club, error) {
	query := bson.M{}
	if filter.ViewableBy != uuid.Nil {
		query["$or"] = bson.A{
			bson.M{"privacy": string(domain.PrivacyPublic)},
			bson.M{"members": filter.ViewableBy.String()},
		}
	} else {
		query["privacy"] = string(domain.PrivacyPublic)
	}
	if filter.Category != "" {
		query["categories"] = string(filter.Category)
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}

	limit := int64(filter.Limit)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := int64(filter.Page)
	if page < 1 {
		page = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	defer cursor.Close(ctx)

	var clubs []domain.Club
	for cursor.Next(ctx) {
		var doc clubDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode club: %w", err)
		}
		club, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		clubs = append(clubs, *club)
	}
	return clubs, cursor.Err()
}

// Save persists the aggregate with optimistic concurrency: the write only
// lands if the stored version still matches expectedVersion. On success the
// in-memory club carries the incremented version.
func (r *ClubRepository) Save(ctx context.Context, club *domain.Club, expectedVersion int64) error {
	club.Version = expectedVersion + 1
	club.UpdatedAt = time.Now()

	res, err := r.coll.ReplaceOne(ctx,
		bson.M{"_id": club.ID.String(), "version": expectedVersion},
		clubToDoc(club),
	)
	if err != nil {
		club.Version = expectedVersion
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("failed to save club: %w", err)
	}
	if res.MatchedCount == 0 {
		club.Version = expectedVersion
		// Distinguish a lost race from a deleted club.
		err := r.coll.FindOne(ctx, bson.M{"_id": club.ID.String()}).Err()
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrClubNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check club existence: %w", err)
		}
		return domain.ErrConflict
	}
	return nil
}

// Delete removes a club document.
func (r *ClubRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete club: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrClubNotFound
	}
	return nil
}
