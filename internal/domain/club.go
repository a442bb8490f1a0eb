package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category is a fixed club category.
type Category string

const (
	CategoryTechnology   Category = "Technology"
	CategoryArts         Category = "Arts"
	CategorySports       Category = "Sports"
	CategoryAcademic     Category = "Academic"
	CategoryCultural     Category = "Cultural"
	CategorySocial       Category = "Social"
	CategoryProfessional Category = "Professional"
)

// ValidCategory reports whether c is one of the fixed categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryTechnology, CategoryArts, CategorySports, CategoryAcademic,
		CategoryCultural, CategorySocial, CategoryProfessional:
		return true
	}
	return false
}

// Privacy controls who can view a club.
type Privacy string

const (
	PrivacyPublic  Privacy = "PUBLIC"
	PrivacyPrivate Privacy = "PRIVATE"
)

// MembershipType controls how users get into a club.
type MembershipType string

const (
	MembershipOpen        MembershipType = "OPEN"
	MembershipInviteOnly  MembershipType = "INVITE_ONLY"
	MembershipApplication MembershipType = "APPLICATION"
)

// ClubStatus is the lifecycle status of a club.
type ClubStatus string

const (
	ClubActive    ClubStatus = "ACTIVE"
	ClubInactive  ClubStatus = "INACTIVE"
	ClubSuspended ClubStatus = "SUSPENDED"
)

// RequestStatus is the state of a join request. PENDING is the only
// non-terminal state.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// JoinRequest is an application by a non-member to join a club. It is owned
// exclusively by its club and never mutated outside aggregate methods.
type JoinRequest struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// SocialLinks holds optional external links for a club.
type SocialLinks struct {
	Website   string `json:"website,omitempty" validate:"omitempty,url"`
	Facebook  string `json:"facebook,omitempty" validate:"omitempty,url"`
	Twitter   string `json:"twitter,omitempty" validate:"omitempty,url"`
	Instagram string `json:"instagram,omitempty" validate:"omitempty,url"`
}

// DefaultMaxMembers is applied when a club is created without an explicit cap.
const DefaultMaxMembers = 100

// Club is the aggregate root for a club's membership roster. All invariants
// (capacity, founder presence, leader subset, at most one pending request per
// user) are enforced by its methods; a failed operation leaves the aggregate
// unchanged. Join requests are kept in submission order.
type Club struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	Slug           string         `json:"slug"`
	Description    string         `json:"description"`
	FounderID      uuid.UUID      `json:"founder_id"`
	Leaders        []uuid.UUID    `json:"leaders"`
	Members        []uuid.UUID    `json:"members"`
	Categories     []Category     `json:"categories"`
	Privacy        Privacy        `json:"privacy"`
	MembershipType MembershipType `json:"membership_type"`
	MaxMembers     int            `json:"max_members"`
	SocialLinks    SocialLinks    `json:"social_links,omitempty"`
	Status         ClubStatus     `json:"status"`
	JoinRequests   []JoinRequest  `json:"join_requests"`
	Version        int64          `json:"version"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ClubCreate is the payload for creating a club.
type ClubCreate struct {
	Name           string         `json:"name" validate:"required,min=3,max=50"`
	Description    string         `json:"description" validate:"required,max=500"`
	Categories     []Category     `json:"categories" validate:"required,min=1"`
	Privacy        Privacy        `json:"privacy" validate:"omitempty,oneof=PUBLIC PRIVATE"`
	MembershipType MembershipType `json:"membership_type" validate:"omitempty,oneof=OPEN INVITE_ONLY APPLICATION"`
	MaxMembers     int            `json:"max_members" validate:"omitempty,gt=0"`
	SocialLinks    *SocialLinks   `json:"social_links,omitempty"`
}

// ClubUpdate is a partial update; nil fields leave existing values unchanged.
type ClubUpdate struct {
	Name           *string         `json:"name,omitempty" validate:"omitempty,min=3,max=50"`
	Description    *string         `json:"description,omitempty" validate:"omitempty,max=500"`
	Categories     []Category      `json:"categories,omitempty" validate:"omitempty,min=1"`
	Privacy        *Privacy        `json:"privacy,omitempty" validate:"omitempty,oneof=PUBLIC PRIVATE"`
	MembershipType *MembershipType `json:"membership_type,omitempty" validate:"omitempty,oneof=OPEN INVITE_ONLY APPLICATION"`
	MaxMembers     *int            `json:"max_members,omitempty" validate:"omitempty,gt=0"`
	SocialLinks    *SocialLinks    `json:"social_links,omitempty"`
	Status         *ClubStatus     `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
}

// NewClub creates a club with the founder seeded as its first member and
// leader. Name uniqueness is checked by the caller against the store.
func NewClub(input ClubCreate, founderID uuid.UUID) (*Club, error) {
	if len(input.Categories) == 0 {
		return nil, fmt.Errorf("at least one category is required")
	}
	for _, c := range input.Categories {
		if !ValidCategory(c) {
			return nil, fmt.Errorf("invalid category %q", c)
		}
	}

	privacy := input.Privacy
	if privacy == "" {
		privacy = PrivacyPublic
	}
	membershipType := input.MembershipType
	if membershipType == "" {
		membershipType = MembershipOpen
	}
	maxMembers := input.MaxMembers
	if maxMembers <= 0 {
		maxMembers = DefaultMaxMembers
	}

	now := time.Now()
	club := &Club{
		ID:             uuid.New(),
		Name:           input.Name,
		Slug:           Slugify(input.Name),
		Description:    input.Description,
		FounderID:      founderID,
		Leaders:        []uuid.UUID{founderID},
		Members:        []uuid.UUID{founderID},
		Categories:     input.Categories,
		Privacy:        privacy,
		MembershipType: membershipType,
		MaxMembers:     maxMembers,
		Status:         ClubActive,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if input.SocialLinks != nil {
		club.SocialLinks = *input.SocialLinks
	}
	return club, nil
}

// Slugify turns a club name into its URL slug.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}

// IsMember reports whether userID is on the roster.
func (c *Club) IsMember(userID uuid.UUID) bool {
	for _, id := range c.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// IsLeader reports whether userID is in the leader set.
func (c *Club) IsLeader(userID uuid.UUID) bool {
	for _, id := range c.Leaders {
		if id == userID {
			return true
		}
	}
	return false
}

// AddMember inserts userID into the roster, enforcing the capacity cap.
func (c *Club) AddMember(userID uuid.UUID) error {
	if c.IsMember(userID) {
		return ErrAlreadyMember
	}
	if len(c.Members) >= c.MaxMembers {
		return ErrCapacityExceeded
	}
	c.Members = append(c.Members, userID)
	return nil
}

// RemoveMember drops userID from both the roster and the leader set. The
// founder can only leave via club deletion, and the last leader must stay.
func (c *Club) RemoveMember(userID uuid.UUID) error {
	if userID == c.FounderID {
		return ErrFounderImmutable
	}
	if !c.IsMember(userID) {
		return ErrNotAMember
	}
	if c.IsLeader(userID) && len(c.Leaders) == 1 {
		return ErrLastLeader
	}
	c.Members = removeID(c.Members, userID)
	c.Leaders = removeID(c.Leaders, userID)
	return nil
}

// PromoteLeader adds an existing member to the leader set.
func (c *Club) PromoteLeader(userID uuid.UUID) error {
	if !c.IsMember(userID) {
		return ErrNotAMember
	}
	if c.IsLeader(userID) {
		return ErrAlreadyLeader
	}
	c.Leaders = append(c.Leaders, userID)
	return nil
}

// DemoteLeader removes userID from the leader set, keeping membership. The
// founder keeps leadership for the club's lifetime.
func (c *Club) DemoteLeader(userID uuid.UUID) error {
	if userID == c.FounderID {
		return ErrFounderImmutable
	}
	if !c.IsLeader(userID) {
		return ErrNotAMember
	}
	if len(c.Leaders) == 1 {
		return ErrLastLeader
	}
	c.Leaders = removeID(c.Leaders, userID)
	return nil
}

// SubmitJoinRequest appends a PENDING request for userID. Requests keep
// submission order so leaders can process them FIFO.
func (c *Club) SubmitJoinRequest(userID uuid.UUID) (*JoinRequest, error) {
	if c.IsMember(userID) {
		return nil, ErrAlreadyMember
	}
	for _, req := range c.JoinRequests {
		if req.UserID == userID && req.Status == RequestPending {
			return nil, ErrDuplicatePendingRequest
		}
	}
	req := JoinRequest{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    RequestPending,
		CreatedAt: time.Now(),
	}
	c.JoinRequests = append(c.JoinRequests, req)
	return &c.JoinRequests[len(c.JoinRequests)-1], nil
}

// PendingRequests returns the pending requests in submission order.
func (c *Club) PendingRequests() []JoinRequest {
	var pending []JoinRequest
	for _, req := range c.JoinRequests {
		if req.Status == RequestPending {
			pending = append(pending, req)
		}
	}
	return pending
}

// FindJoinRequest looks up a request by id.
func (c *Club) FindJoinRequest(requestID uuid.UUID) (*JoinRequest, error) {
	for i := range c.JoinRequests {
		if c.JoinRequests[i].ID == requestID {
			return &c.JoinRequests[i], nil
		}
	}
	return nil, ErrRequestNotFound
}

// ResolveJoinRequest moves a PENDING request to APPROVED or REJECTED.
// Approval adds the requester to the roster in the same step; if that fails
// (capacity, already a member) the request stays PENDING and nothing changes.
func (c *Club) ResolveJoinRequest(requestID uuid.UUID, decision RequestStatus) (*JoinRequest, error) {
	if decision != RequestApproved && decision != RequestRejected {
		return nil, fmt.Errorf("invalid decision %q", decision)
	}
	req, err := c.FindJoinRequest(requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != RequestPending {
		return nil, ErrRequestAlreadyResolved
	}
	if decision == RequestApproved {
		if err := c.AddMember(req.UserID); err != nil {
			return nil, err
		}
	}
	req.Status = decision
	return req, nil
}

// ApplyUpdate applies a partial update. Absent fields keep their values; the
// slug tracks the name. Name uniqueness on rename is re-checked by the caller.
func (c *Club) ApplyUpdate(update ClubUpdate) error {
	// An empty category list counts as absent: a club always keeps at
	// least one category.
	if len(update.Categories) > 0 {
		for _, cat := range update.Categories {
			if !ValidCategory(cat) {
				return fmt.Errorf("invalid category %q", cat)
			}
		}
	}
	if update.MaxMembers != nil && *update.MaxMembers < len(c.Members) {
		return ErrCapacityExceeded
	}

	if update.Name != nil && *update.Name != "" {
		c.Name = *update.Name
		c.Slug = Slugify(*update.Name)
	}
	if update.Description != nil && *update.Description != "" {
		c.Description = *update.Description
	}
	if len(update.Categories) > 0 {
		c.Categories = update.Categories
	}
	if update.Privacy != nil {
		c.Privacy = *update.Privacy
	}
	if update.MembershipType != nil {
		c.MembershipType = *update.MembershipType
	}
	if update.MaxMembers != nil {
		c.MaxMembers = *update.MaxMembers
	}
	if update.SocialLinks != nil {
		c.SocialLinks = *update.SocialLinks
	}
	if update.Status != nil {
		c.Status = *update.Status
	}
	return nil
}

func removeID(ids []uuid.UUID, target uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
