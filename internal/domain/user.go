package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is a user's system-wide role.
type Role string

const (
	RoleClubAdmin  Role = "CLUB_ADMIN"
	RoleClubLeader Role = "CLUB_LEADER"
	RoleMember     Role = "MEMBER"
)

// Profile holds optional personal details.
type Profile struct {
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	ContactNumber string `json:"contact_number,omitempty"`
}

// User is an account referenced by clubs. Clubs holds the denormalized
// back-references to the clubs the user belongs to; the club roster is
// authoritative and this set is kept eventually consistent by the
// membership service.
type User struct {
	ID           uuid.UUID   `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         Role        `json:"role"`
	Profile      Profile     `json:"profile,omitempty"`
	Clubs        []uuid.UUID `json:"clubs"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// UserCreate represents user registration data
type UserCreate struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UserLogin represents login credentials
type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair represents JWT token pair
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// MemberInfo is the populated member view returned by the member listing.
type MemberInfo struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Profile  Profile   `json:"profile,omitempty"`
	IsLeader bool      `json:"is_leader"`
}
