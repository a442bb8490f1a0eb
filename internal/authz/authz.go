// Package authz evaluates membership permissions as a pure policy table.
// It performs no I/O; the caller computes the actor's standing against the
// target club and asks whether an action is allowed.
package authz

import (
	"fmt"

	"github.com/clubhub/clubhub/internal/domain"
)

// Standing is an actor's relationship to a club.
type Standing int

const (
	NonMember Standing = iota
	Member
	Leader
	Founder
	SystemAdmin
)

func (s Standing) String() string {
	switch s {
	case NonMember:
		return "NON_MEMBER"
	case Member:
		return "MEMBER"
	case Leader:
		return "LEADER"
	case Founder:
		return "FOUNDER"
	case SystemAdmin:
		return "SYSTEM_ADMIN"
	}
	return "UNKNOWN"
}

// Action is a club operation subject to authorization.
type Action int

const (
	CreateClub Action = iota
	ViewClub
	UpdateClub
	DeleteClub
	RequestJoin
	HandleJoinRequest
	InviteMember
	RemoveMember
	LeaveClub
	PromoteLeader
	DemoteLeader
)

func (a Action) String() string {
	switch a {
	case CreateClub:
		return "CREATE_CLUB"
	case ViewClub:
		return "VIEW_CLUB"
	case UpdateClub:
		return "UPDATE_CLUB"
	case DeleteClub:
		return "DELETE_CLUB"
	case RequestJoin:
		return "REQUEST_JOIN"
	case HandleJoinRequest:
		return "HANDLE_JOIN_REQUEST"
	case InviteMember:
		return "INVITE_MEMBER"
	case RemoveMember:
		return "REMOVE_MEMBER"
	case LeaveClub:
		return "LEAVE_CLUB"
	case PromoteLeader:
		return "PROMOTE_LEADER"
	case DemoteLeader:
		return "DEMOTE_LEADER"
	}
	return "UNKNOWN"
}

// StandingFor computes the actor's standing against a club. A nil club is
// valid for club-independent actions such as CreateClub.
func StandingFor(user *domain.User, club *domain.Club) Standing {
	if user == nil {
		return NonMember
	}
	if user.Role == domain.RoleClubAdmin {
		return SystemAdmin
	}
	if club == nil {
		return NonMember
	}
	switch {
	case club.FounderID == user.ID:
		return Founder
	case club.IsLeader(user.ID):
		return Leader
	case club.IsMember(user.ID):
		return Member
	}
	return NonMember
}

// Authorize decides whether an actor with the given standing may perform
// action on club. Deny is the default; every allow is an explicit match.
// The returned error wraps domain.ErrForbidden with the denial reason.
func Authorize(standing Standing, action Action, club *domain.Club) error {
	if allowed(standing, action, club) {
		return nil
	}
	return fmt.Errorf("%w: %s may not %s", domain.ErrForbidden, standing, action)
}

func allowed(standing Standing, action Action, club *domain.Club) bool {
	// A system admin can do everything a founder can, but joining a club
	// is still a member-level act: admins are never non-members asking in.
	if standing == SystemAdmin {
		return action != RequestJoin && action != LeaveClub
	}

	switch action {
	case CreateClub:
		// Any authenticated actor.
		return true
	case ViewClub:
		if club != nil && club.Privacy == domain.PrivacyPublic {
			return true
		}
		return standing == Member || standing == Leader || standing == Founder
	case UpdateClub, HandleJoinRequest, InviteMember, RemoveMember, PromoteLeader, DemoteLeader:
		return standing == Leader || standing == Founder
	case DeleteClub:
		return standing == Founder
	case RequestJoin:
		return standing == NonMember
	case LeaveClub:
		// The founder leaves only by deleting the club.
		return standing == Member || standing == Leader
	}
	return false
}
