package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClub(t *testing.T, founderID uuid.UUID, maxMembers int) *Club {
	t.Helper()
	club, err := NewClub(ClubCreate{
		Name:        "Robotics Society",
		Description: "We build robots",
		Categories:  []Category{CategoryTechnology},
		MaxMembers:  maxMembers,
	}, founderID)
	require.NoError(t, err)
	return club
}

func TestNewClub(t *testing.T) {
	founderID := uuid.New()

	t.Run("founder seeded as member and leader", func(t *testing.T) {
		club := newTestClub(t, founderID, 0)
		assert.Equal(t, []uuid.UUID{founderID}, club.Members)
		assert.Equal(t, []uuid.UUID{founderID}, club.Leaders)
		assert.Equal(t, founderID, club.FounderID)
		assert.Equal(t, DefaultMaxMembers, club.MaxMembers)
		assert.Equal(t, ClubActive, club.Status)
		assert.Equal(t, PrivacyPublic, club.Privacy)
		assert.Equal(t, "robotics-society", club.Slug)
		assert.EqualValues(t, 1, club.Version)
	})

	t.Run("requires a category", func(t *testing.T) {
		_, err := NewClub(ClubCreate{Name: "X Club", Description: "d"}, founderID)
		assert.Error(t, err)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		_, err := NewClub(ClubCreate{
			Name:        "X Club",
			Description: "d",
			Categories:  []Category{"Gastronomy"},
		}, founderID)
		assert.Error(t, err)
	})
}

func TestClub_AddMember(t *testing.T) {
	founderID := uuid.New()

	t.Run("adds a new member", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		userID := uuid.New()
		require.NoError(t, club.AddMember(userID))
		assert.True(t, club.IsMember(userID))
		assert.False(t, club.IsLeader(userID))
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		userID := uuid.New()
		require.NoError(t, club.AddMember(userID))
		assert.ErrorIs(t, club.AddMember(userID), ErrAlreadyMember)
	})

	t.Run("enforces capacity", func(t *testing.T) {
		club := newTestClub(t, founderID, 2)
		require.NoError(t, club.AddMember(uuid.New()))
		err := club.AddMember(uuid.New())
		assert.ErrorIs(t, err, ErrCapacityExceeded)
		assert.Len(t, club.Members, 2)
	})
}

func TestClub_RemoveMember(t *testing.T) {
	founderID := uuid.New()

	t.Run("removes member and leadership together", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		userID := uuid.New()
		require.NoError(t, club.AddMember(userID))
		require.NoError(t, club.PromoteLeader(userID))

		require.NoError(t, club.RemoveMember(userID))
		assert.False(t, club.IsMember(userID))
		assert.False(t, club.IsLeader(userID))
	})

	t.Run("founder cannot be removed", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		assert.ErrorIs(t, club.RemoveMember(founderID), ErrFounderImmutable)
		assert.True(t, club.IsMember(founderID))
		assert.True(t, club.IsLeader(founderID))
	})

	t.Run("unknown member", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		assert.ErrorIs(t, club.RemoveMember(uuid.New()), ErrNotAMember)
	})

	t.Run("non-last leader can be removed", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		leaderID := uuid.New()
		require.NoError(t, club.AddMember(leaderID))
		require.NoError(t, club.PromoteLeader(leaderID))

		// Two leaders: removing one is fine.
		require.NoError(t, club.RemoveMember(leaderID))
		assert.False(t, club.IsMember(leaderID))
	})

	t.Run("last leader cannot be removed", func(t *testing.T) {
		// The founder guard usually fires first, so build a club whose sole
		// leader is not its founder.
		club := newTestClub(t, founderID, 10)
		leaderID := uuid.New()
		require.NoError(t, club.AddMember(leaderID))
		club.Leaders = []uuid.UUID{leaderID}

		assert.ErrorIs(t, club.RemoveMember(leaderID), ErrLastLeader)
		assert.True(t, club.IsMember(leaderID))
		assert.True(t, club.IsLeader(leaderID))
	})
}

func TestClub_Leaders(t *testing.T) {
	founderID := uuid.New()

	t.Run("promote requires membership", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		assert.ErrorIs(t, club.PromoteLeader(uuid.New()), ErrNotAMember)
	})

	t.Run("promote is not repeatable", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		userID := uuid.New()
		require.NoError(t, club.AddMember(userID))
		require.NoError(t, club.PromoteLeader(userID))
		assert.ErrorIs(t, club.PromoteLeader(userID), ErrAlreadyLeader)
	})

	t.Run("founder cannot be demoted", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		assert.ErrorIs(t, club.DemoteLeader(founderID), ErrFounderImmutable)
	})

	t.Run("last leader cannot be demoted", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		// Founder is sole leader; the founder guard fires first, but a club
		// whose only leader is not its founder must also be protected.
		club.Leaders = []uuid.UUID{club.Members[0]}
		club.FounderID = uuid.New()
		assert.ErrorIs(t, club.DemoteLeader(club.Leaders[0]), ErrLastLeader)
	})
}

func TestClub_SubmitJoinRequest(t *testing.T) {
	founderID := uuid.New()

	t.Run("appends pending request", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		userID := uuid.New()
		req, err := club.SubmitJoinRequest(userID)
		require.NoError(t, err)
		assert.Equal(t, RequestPending, req.Status)
		assert.Equal(t, userID, req.UserID)
		assert.Len(t, club.JoinRequests, 1)
	})

	t.Run("members cannot request", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		_, err := club.SubmitJoinRequest(founderID)
		assert.ErrorIs(t, err, ErrAlreadyMember)
	})

	// Scenario C: a second unresolved request is rejected.
	t.Run("one pending request per user", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		userID := uuid.New()
		_, err := club.SubmitJoinRequest(userID)
		require.NoError(t, err)
		_, err = club.SubmitJoinRequest(userID)
		assert.ErrorIs(t, err, ErrDuplicatePendingRequest)
		assert.Len(t, club.JoinRequests, 1)
	})

	t.Run("rejected user may request again", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		userID := uuid.New()
		req, err := club.SubmitJoinRequest(userID)
		require.NoError(t, err)
		_, err = club.ResolveJoinRequest(req.ID, RequestRejected)
		require.NoError(t, err)

		_, err = club.SubmitJoinRequest(userID)
		assert.NoError(t, err)
	})

	t.Run("requests keep submission order", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		var order []uuid.UUID
		for i := 0; i < 5; i++ {
			userID := uuid.New()
			_, err := club.SubmitJoinRequest(userID)
			require.NoError(t, err)
			order = append(order, userID)
		}
		pending := club.PendingRequests()
		require.Len(t, pending, 5)
		for i, req := range pending {
			assert.Equal(t, order[i], req.UserID)
		}
	})
}

func TestClub_ResolveJoinRequest(t *testing.T) {
	founderID := uuid.New()

	t.Run("approval adds member", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		userID := uuid.New()
		req, err := club.SubmitJoinRequest(userID)
		require.NoError(t, err)

		resolved, err := club.ResolveJoinRequest(req.ID, RequestApproved)
		require.NoError(t, err)
		assert.Equal(t, RequestApproved, resolved.Status)
		assert.True(t, club.IsMember(userID))
	})

	t.Run("rejection marks only", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		userID := uuid.New()
		req, err := club.SubmitJoinRequest(userID)
		require.NoError(t, err)

		resolved, err := club.ResolveJoinRequest(req.ID, RequestRejected)
		require.NoError(t, err)
		assert.Equal(t, RequestRejected, resolved.Status)
		assert.False(t, club.IsMember(userID))
	})

	t.Run("unknown request", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		_, err := club.ResolveJoinRequest(uuid.New(), RequestApproved)
		assert.ErrorIs(t, err, ErrRequestNotFound)
	})

	t.Run("invalid decision", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		userID := uuid.New()
		req, err := club.SubmitJoinRequest(userID)
		require.NoError(t, err)
		_, err = club.ResolveJoinRequest(req.ID, RequestPending)
		assert.Error(t, err)
	})

	// Resolving twice always fails, never double-applies membership.
	t.Run("resolution is terminal", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		userID := uuid.New()
		req, err := club.SubmitJoinRequest(userID)
		require.NoError(t, err)

		_, err = club.ResolveJoinRequest(req.ID, RequestApproved)
		require.NoError(t, err)

		_, err = club.ResolveJoinRequest(req.ID, RequestApproved)
		assert.ErrorIs(t, err, ErrRequestAlreadyResolved)
		_, err = club.ResolveJoinRequest(req.ID, RequestRejected)
		assert.ErrorIs(t, err, ErrRequestAlreadyResolved)
		assert.Len(t, club.Members, 2)
	})

	// Scenario A: approval at capacity fails and the request stays pending.
	t.Run("approval at capacity keeps request pending", func(t *testing.T) {
		club := newTestClub(t, founderID, 1)
		userID := uuid.New()
		req, err := club.SubmitJoinRequest(userID)
		require.NoError(t, err)

		_, err = club.ResolveJoinRequest(req.ID, RequestApproved)
		assert.ErrorIs(t, err, ErrCapacityExceeded)

		stored, err := club.FindJoinRequest(req.ID)
		require.NoError(t, err)
		assert.Equal(t, RequestPending, stored.Status)
		assert.False(t, club.IsMember(userID))
	})

	// Scenario B: approve at maxMembers=2, then the new member cannot re-request.
	t.Run("approved member cannot request again", func(t *testing.T) {
		club := newTestClub(t, founderID, 2)
		userID := uuid.New()
		req, err := club.SubmitJoinRequest(userID)
		require.NoError(t, err)

		_, err = club.ResolveJoinRequest(req.ID, RequestApproved)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{founderID, userID}, club.Members)

		_, err = club.SubmitJoinRequest(userID)
		assert.ErrorIs(t, err, ErrAlreadyMember)
	})
}

func TestClub_ApplyUpdate(t *testing.T) {
	founderID := uuid.New()

	strPtr := func(s string) *string { return &s }
	intPtr := func(i int) *int { return &i }

	t.Run("partial update keeps absent fields", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		desc := club.Description

		require.NoError(t, club.ApplyUpdate(ClubUpdate{Name: strPtr("Mecha Builders")}))
		assert.Equal(t, "Mecha Builders", club.Name)
		assert.Equal(t, "mecha-builders", club.Slug)
		assert.Equal(t, desc, club.Description)
		assert.Equal(t, 10, club.MaxMembers)
	})

	t.Run("empty strings never overwrite", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		name := club.Name
		require.NoError(t, club.ApplyUpdate(ClubUpdate{Name: strPtr(""), Description: strPtr("")}))
		assert.Equal(t, name, club.Name)
		assert.NotEmpty(t, club.Description)
	})

	t.Run("empty category list never overwrites", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		categories := club.Categories

		require.NoError(t, club.ApplyUpdate(ClubUpdate{Categories: []Category{}}))
		assert.Equal(t, categories, club.Categories)
		assert.NotEmpty(t, club.Categories)
	})

	t.Run("cap cannot shrink below roster", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		require.NoError(t, club.AddMember(uuid.New()))
		require.NoError(t, club.AddMember(uuid.New()))

		err := club.ApplyUpdate(ClubUpdate{MaxMembers: intPtr(2)})
		assert.ErrorIs(t, err, ErrCapacityExceeded)
		assert.Equal(t, 10, club.MaxMembers)
	})

	t.Run("status and privacy", func(t *testing.T) {
		club := newTestClub(t, founderID, 10)
		privacy := PrivacyPrivate
		status := ClubInactive
		require.NoError(t, club.ApplyUpdate(ClubUpdate{Privacy: &privacy, Status: &status}))
		assert.Equal(t, PrivacyPrivate, club.Privacy)
		assert.Equal(t, ClubInactive, club.Status)
	})
}

func TestCapacityInvariantHolds(t *testing.T) {
	// members.size <= maxMembers after every operation mix.
	founderID := uuid.New()
	club := newTestClub(t, founderID, 3)

	var requests []uuid.UUID
	for i := 0; i < 6; i++ {
		if req, err := club.SubmitJoinRequest(uuid.New()); err == nil {
			requests = append(requests, req.ID)
		}
		assert.LessOrEqual(t, len(club.Members), club.MaxMembers)
	}
	for _, reqID := range requests {
		club.ResolveJoinRequest(reqID, RequestApproved)
		assert.LessOrEqual(t, len(club.Members), club.MaxMembers)
	}
	assert.Len(t, club.Members, 3)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "chess-club", Slugify("Chess Club"))
	assert.Equal(t, "chess-club", Slugify("  Chess   Club  "))
	assert.Equal(t, "ai", Slugify("AI"))
}
