package domain

import "errors"

// Domain errors returned by aggregate operations and surfaced by services.
// Handlers map these to HTTP status codes with errors.Is.
var (
	// Not-found family
	ErrClubNotFound    = errors.New("club not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrRequestNotFound = errors.New("join request not found")

	// Invariant violations
	ErrDuplicateName           = errors.New("a club with this name already exists")
	ErrCapacityExceeded        = errors.New("club has reached maximum member limit")
	ErrAlreadyMember           = errors.New("user is already a member of this club")
	ErrNotAMember              = errors.New("user is not a member of this club")
	ErrAlreadyLeader           = errors.New("user is already a leader of this club")
	ErrDuplicatePendingRequest = errors.New("a pending join request already exists")
	ErrRequestAlreadyResolved  = errors.New("join request has already been resolved")
	ErrLastLeader              = errors.New("club must keep at least one leader")
	ErrFounderImmutable        = errors.New("the founder cannot be removed from the club")

	// Authorization / concurrency
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("club was modified concurrently, retry the operation")

	// Credentials
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
