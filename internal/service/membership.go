package service

import (
	"context"
	"fmt"

	"github.com/clubhub/clubhub/internal/authz"
	"github.com/clubhub/clubhub/internal/domain"
	"github.com/clubhub/clubhub/internal/repository/mongodb"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MembershipService orchestrates the club membership workflow: it resolves
// the actor's standing, authorizes the action, applies the aggregate
// operation, persists with optimistic concurrency and emits notifications
// after the commit. Notification and back-reference failures are logged and
// never fail the committed operation.
type MembershipService struct {
	clubRepo ClubRepository
	userRepo UserRepository
	notifier Notifier
	cache    ClubCache
}

// NewMembershipService creates a new membership service. cache may be nil.
func NewMembershipService(clubRepo ClubRepository, userRepo UserRepository, notifier Notifier, cache ClubCache) *MembershipService {
	return &MembershipService{
		clubRepo: clubRepo,
		userRepo: userRepo,
		notifier: notifier,
		cache:    cache,
	}
}

// ListOptions narrows club listings.
type ListOptions struct {
	Category domain.Category
	Status   domain.ClubStatus
	Page     int
	Limit    int
}

func (s *MembershipService) loadActor(ctx context.Context, actorID uuid.UUID) (*domain.User, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load actor: %w", err)
	}
	if actor == nil {
		return nil, domain.ErrUserNotFound
	}
	return actor, nil
}

// loadClub reads the aggregate fresh from the store. Mutations never go
// through the cache; a cached club may be up to the TTL stale.
func (s *MembershipService) loadClub(ctx context.Context, clubID uuid.UUID) (*domain.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to load club: %w", err)
	}
	if club == nil {
		return nil, domain.ErrClubNotFound
	}
	return club, nil
}

func (s *MembershipService) invalidate(ctx context.Context, clubID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, clubID); err != nil {
		log.Error().Err(err).Str("club_id", clubID.String()).Msg("Failed to invalidate club cache")
	}
}

// dispatch emits a notification for a committed event. One attempt, failure
// logged, never surfaced.
func (s *MembershipService) dispatch(ctx context.Context, input domain.NotificationInput) {
	if err := s.notifier.Notify(ctx, input); err != nil {
		log.Error().Err(err).
			Str("recipient_id", input.RecipientID.String()).
			Str("type", string(input.Type)).
			Msg("Notification dispatch failed")
	}
}

// addBackRef records the User→clubs back-reference after the roster commit.
// The roster is authoritative; a failure here leaves the back-reference
// stale until reconciled.
func (s *MembershipService) addBackRef(ctx context.Context, userID, clubID uuid.UUID) {
	if err := s.userRepo.AddClub(ctx, userID, clubID); err != nil {
		log.Error().Err(err).
			Str("user_id", userID.String()).
			Str("club_id", clubID.String()).
			Msg("Failed to record club back-reference")
	}
}

func (s *MembershipService) removeBackRef(ctx context.Context, userID, clubID uuid.UUID) {
	if err := s.userRepo.RemoveClub(ctx, userID, clubID); err != nil {
		log.Error().Err(err).
			Str("user_id", userID.String()).
			Str("club_id", clubID.String()).
			Msg("Failed to remove club back-reference")
	}
}

// CreateClub creates a club with the actor as founder, first member and
// first leader.
func (s *MembershipService) CreateClub(ctx context.Context, actorID uuid.UUID, input domain.ClubCreate) (*domain.Club, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(authz.StandingFor(actor, nil), authz.CreateClub, nil); err != nil {
		return nil, err
	}

	existing, err := s.clubRepo.GetByName(ctx, input.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check club name: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateName
	}

	club, err := domain.NewClub(input, actor.ID)
	if err != nil {
		return nil, err
	}

	if err := s.clubRepo.Create(ctx, club); err != nil {
		return nil, err
	}

	log.Info().Str("club", club.Name).Str("founder", actor.Username).Msg("Club created")

	s.addBackRef(ctx, actor.ID, club.ID)
	s.dispatch(ctx, domain.NotificationInput{
		RecipientID: actor.ID,
		Type:        domain.NotificationSystemAlert,
		Content:     fmt.Sprintf("Your club %s has been created.", club.Name),
		RelatedID:   club.ID,
		Priority:    domain.PriorityLow,
	})

	return club, nil
}

// GetClub returns a club if the actor may view it. Reads go through the
// cache when one is configured.
func (s *MembershipService) GetClub(ctx context.Context, actorID, clubID uuid.UUID) (*domain.Club, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	var club *domain.Club
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, clubID); err == nil && cached != nil {
			club = cached
		}
	}
	fromCache := club != nil
	if club == nil {
		if club, err = s.loadClub(ctx, clubID); err != nil {
			return nil, err
		}
	}

	if err := authz.Authorize(authz.StandingFor(actor, club), authz.ViewClub, club); err != nil {
		return nil, err
	}

	if s.cache != nil && !fromCache {
		if err := s.cache.Set(ctx, club); err != nil {
			log.Error().Err(err).Str("club_id", clubID.String()).Msg("Failed to cache club")
		}
	}
	return club, nil
}

// ListClubs returns clubs visible to the actor: all public clubs plus the
// private clubs the actor belongs to.
func (s *MembershipService) ListClubs(ctx context.Context, actorID uuid.UUID, opts ListOptions) ([]domain.Club, error) {
	clubs, err := s.clubRepo.List(ctx, mongodb.ClubFilter{
		Category:   opts.Category,
		Status:     opts.Status,
		ViewableBy: actorID,
		Page:       opts.Page,
		Limit:      opts.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	return clubs, nil
}

// UpdateClub applies a partial update. Absent fields keep their values; a
// rename re-validates global name uniqueness.
func (s *MembershipService) UpdateClub(ctx context.Context, actorID, clubID uuid.UUID, update domain.ClubUpdate) (*domain.Club, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	club, err := s.loadClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(authz.StandingFor(actor, club), authz.UpdateClub, club); err != nil {
		return nil, err
	}

	if update.Name != nil && *update.Name != "" && *update.Name != club.Name {
		existing, err := s.clubRepo.GetByName(ctx, *update.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check club name: %w", err)
		}
		if existing != nil {
			return nil, domain.ErrDuplicateName
		}
	}

	expected := club.Version
	if err := club.ApplyUpdate(update); err != nil {
		return nil, err
	}
	if err := s.clubRepo.Save(ctx, club, expected); err != nil {
		return nil, err
	}

	s.invalidate(ctx, club.ID)
	return club, nil
}

// DeleteClub removes the club and detaches every member's back-reference.
func (s *MembershipService) DeleteClub(ctx context.Context, actorID, clubID uuid.UUID) error {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return err
	}
	club, err := s.loadClub(ctx, clubID)
	if err != nil {
		return err
	}
	if err := authz.Authorize(authz.StandingFor(actor, club), authz.DeleteClub, club); err != nil {
		return err
	}

	if err := s.clubRepo.Delete(ctx, club.ID); err != nil {
		return err
	}

	log.Info().Str("club", club.Name).Str("actor", actor.Username).Msg("Club deleted")

	s.invalidate(ctx, club.ID)
	if err := s.userRepo.DetachClub(ctx, club.ID); err != nil {
		log.Error().Err(err).Str("club_id", club.ID.String()).Msg("Failed to detach club back-references")
	}
	return nil
}

// RequestJoin submits a join request for the actor. Leaders are notified
// after the request is committed.
func (s *MembershipService) RequestJoin(ctx context.Context, actorID, clubID uuid.UUID) (*domain.JoinRequest, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	club, err := s.loadClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(authz.StandingFor(actor, club), authz.RequestJoin, club); err != nil {
		return nil, err
	}

	expected := club.Version
	request, err := club.SubmitJoinRequest(actor.ID)
	if err != nil {
		return nil, err
	}
	if err := s.clubRepo.Save(ctx, club, expected); err != nil {
		return nil, err
	}

	s.invalidate(ctx, club.ID)
	for _, leaderID := range club.Leaders {
		s.dispatch(ctx, domain.NotificationInput{
			RecipientID: leaderID,
			SenderID:    actor.ID,
			Type:        domain.NotificationClubRequest,
			Content:     fmt.Sprintf("%s has requested to join %s", actor.Username, club.Name),
			RelatedID:   club.ID,
			Priority:    domain.PriorityMedium,
		})
	}

	req := *request
	return &req, nil
}

// ResolveJoinRequest approves or rejects a pending request. Approval adds
// the requester to the roster in the same commit; the requester is notified
// of the outcome either way.
func (s *MembershipService) ResolveJoinRequest(ctx context.Context, actorID, clubID, requestID uuid.UUID, decision domain.RequestStatus) (*domain.JoinRequest, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	club, err := s.loadClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(authz.StandingFor(actor, club), authz.HandleJoinRequest, club); err != nil {
		return nil, err
	}

	expected := club.Version
	request, err := club.ResolveJoinRequest(requestID, decision)
	if err != nil {
		return nil, err
	}
	if err := s.clubRepo.Save(ctx, club, expected); err != nil {
		return nil, err
	}

	s.invalidate(ctx, club.ID)
	if request.Status == domain.RequestApproved {
		s.addBackRef(ctx, request.UserID, club.ID)
	}

	outcome := "rejected"
	if request.Status == domain.RequestApproved {
		outcome = "approved"
	}
	s.dispatch(ctx, domain.NotificationInput{
		RecipientID: request.UserID,
		SenderID:    actor.ID,
		Type:        domain.NotificationClubRequest,
		Content:     fmt.Sprintf("Your request to join %s has been %s", club.Name, outcome),
		RelatedID:   club.ID,
		Priority:    domain.PriorityMedium,
	})

	req := *request
	return &req, nil
}

// ListJoinRequests returns the pending requests of a club. Only those who
// can handle requests may see them.
func (s *MembershipService) ListJoinRequests(ctx context.Context, actorID, clubID uuid.UUID) ([]domain.JoinRequest, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	club, err := s.loadClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(authz.StandingFor(actor, club), authz.HandleJoinRequest, club); err != nil {
		return nil, err
	}
	return club.PendingRequests(), nil
}

// InviteMember adds a user, found by email, directly to the roster.
func (s *MembershipService) InviteMember(ctx context.Context, actorID, clubID uuid.UUID, email string) (*domain.Club, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	club, err := s.loadClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(authz.StandingFor(actor, club), authz.InviteMember, club); err != nil {
		return nil, err
	}

	invitee, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if invitee == nil {
		return nil, domain.ErrUserNotFound
	}

	expected := club.Version
	if err := club.AddMember(invitee.ID); err != nil {
		return nil, err
	}
	if err := s.clubRepo.Save(ctx, club, expected); err != nil {
		return nil, err
	}

	s.invalidate(ctx, club.ID)
	s.addBackRef(ctx, invitee.ID, club.ID)
	s.dispatch(ctx, domain.NotificationInput{
		RecipientID: invitee.ID,
		SenderID:    actor.ID,
		Type:        domain.NotificationClubInvitation,
		Content:     fmt.Sprintf("You have been added to %s", club.Name),
		RelatedID:   club.ID,
		Priority:    domain.PriorityMedium,
	})

	return club, nil
}

// RemoveMember removes a member from the roster. The founder cannot be
// removed and the last leader must stay.
func (s *MembershipService) RemoveMember(ctx context.Context, actorID, clubID, memberID uuid.UUID) (*domain.Club, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	club, err := s.loadClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(authz.StandingFor(actor, club), authz.RemoveMember, club); err != nil {
		return nil, err
	}

	expected := club.Version
	if err := club.RemoveMember(memberID); err != nil {
		return nil, err
	}
	if err := s.clubRepo.Save(ctx, club, expected); err != nil {
		return nil, err
	}

	s.invalidate(ctx, club.ID)
	s.removeBackRef(ctx, memberID, club.ID)
	s.dispatch(ctx, domain.NotificationInput{
		RecipientID: memberID,
		SenderID:    actor.ID,
		Type:        domain.NotificationSystemAlert,
		Content:     fmt.Sprintf("You have been removed from %s", club.Name),
		RelatedID:   club.ID,
		Priority:    domain.PriorityLow,
	})

	return club, nil
}

// LeaveClub removes the actor from the roster. The founder leaves only by
// deleting the club; the last leader must promote a replacement first.
func (s *MembershipService) LeaveClub(ctx context.Context, actorID, clubID uuid.UUID) error {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return err
	}
	club, err := s.loadClub(ctx, clubID)
	if err != nil {
		return err
	}
	if err := authz.Authorize(authz.StandingFor(actor, club), authz.LeaveClub, club); err != nil {
		return err
	}

	expected := club.Version
	if err := club.RemoveMember(actor.ID); err != nil {
		return err
	}
	if err := s.clubRepo.Save(ctx, club, expected); err != nil {
		return err
	}

	s.invalidate(ctx, club.ID)
	s.removeBackRef(ctx, actor.ID, club.ID)
	return nil
}

// PromoteLeader adds an existing member to the leader set.
func (s *MembershipService) PromoteLeader(ctx context.Context, actorID, clubID, memberID uuid.UUID) (*domain.Club, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	club, err := s.loadClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(authz.StandingFor(actor, club), authz.PromoteLeader, club); err != nil {
		return nil, err
	}

	expected := club.Version
	if err := club.PromoteLeader(memberID); err != nil {
		return nil, err
	}
	if err := s.clubRepo.Save(ctx, club, expected); err != nil {
		return nil, err
	}

	s.invalidate(ctx, club.ID)
	s.dispatch(ctx, domain.NotificationInput{
		RecipientID: memberID,
		SenderID:    actor.ID,
		Type:        domain.NotificationSystemAlert,
		Content:     fmt.Sprintf("You are now a leader of %s", club.Name),
		RelatedID:   club.ID,
		Priority:    domain.PriorityMedium,
	})

	return club, nil
}

// DemoteLeader removes a member from the leader set, keeping membership.
func (s *MembershipService) DemoteLeader(ctx context.Context, actorID, clubID, memberID uuid.UUID) (*domain.Club, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	club, err := s.loadClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(authz.StandingFor(actor, club), authz.DemoteLeader, club); err != nil {
		return nil, err
	}

	expected := club.Version
	if err := club.DemoteLeader(memberID); err != nil {
		return nil, err
	}
	if err := s.clubRepo.Save(ctx, club, expected); err != nil {
		return nil, err
	}

	s.invalidate(ctx, club.ID)
	return club, nil
}

// ListMembers returns the populated roster for a viewable club.
func (s *MembershipService) ListMembers(ctx context.Context, actorID, clubID uuid.UUID) ([]domain.MemberInfo, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	club, err := s.loadClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(authz.StandingFor(actor, club), authz.ViewClub, club); err != nil {
		return nil, err
	}

	users, err := s.userRepo.GetByIDs(ctx, club.Members)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}

	members := make([]domain.MemberInfo, 0, len(users))
	for _, u := range users {
		members = append(members, domain.MemberInfo{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Profile:  u.Profile,
			IsLeader: club.IsLeader(u.ID),
		})
	}
	return members, nil
}
