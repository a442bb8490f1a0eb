package handler

import (
	"encoding/json"
	"net/http"

	"github.com/clubhub/clubhub/internal/api/middleware"
	"github.com/clubhub/clubhub/internal/api/response"
	"github.com/clubhub/clubhub/internal/domain"
	"github.com/clubhub/clubhub/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// MembershipHandler handles join requests, invitations and roster changes
type MembershipHandler struct {
	membershipService *service.MembershipService
}

// NewMembershipHandler creates a new membership handler
func NewMembershipHandler(membershipService *service.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipService: membershipService}
}

func requestContext(w http.ResponseWriter, r *http.Request) (userID, clubID uuid.UUID, ok bool) {
	userID, ok = middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return uuid.Nil, uuid.Nil, false
	}
	clubID, ok = middleware.GetClubID(r.Context())
	if !ok {
		response.BadRequest(w, "missing club ID")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, clubID, true
}

// RequestJoin submits a join request for the caller
func (h *MembershipHandler) RequestJoin(w http.ResponseWriter, r *http.Request) {
	userID, clubID, ok := requestContext(w, r)
	if !ok {
		return
	}

	request, err := h.membershipService.RequestJoin(r.Context(), userID, clubID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, request)
}

// ListRequests returns the pending join requests of a club
func (h *MembershipHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	userID, clubID, ok := requestContext(w, r)
	if !ok {
		return
	}

	requests, err := h.membershipService.ListJoinRequests(r.Context(), userID, clubID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"requests": requests,
		"count":    len(requests),
	})
}

// Resolve approves or rejects a pending join request
func (h *MembershipHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	userID, clubID, ok := requestContext(w, r)
	if !ok {
		return
	}

	requestID, err := uuid.Parse(chi.URLParam(r, "requestID"))
	if err != nil {
		response.BadRequest(w, "invalid request ID")
		return
	}

	var input struct {
		Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, "status must be APPROVED or REJECTED")
		return
	}

	request, err := h.membershipService.ResolveJoinRequest(
		r.Context(), userID, clubID, requestID, domain.RequestStatus(input.Status))
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, request)
}

// Invite adds a user to the roster by email
func (h *MembershipHandler) Invite(w http.ResponseWriter, r *http.Request) {
	userID, clubID, ok := requestContext(w, r)
	if !ok {
		return
	}

	var input struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, "a valid email is required")
		return
	}

	club, err := h.membershipService.InviteMember(r.Context(), userID, clubID, input.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, club)
}

// Remove removes a member from the roster
func (h *MembershipHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, clubID, ok := requestContext(w, r)
	if !ok {
		return
	}

	memberID, err := uuid.Parse(chi.URLParam(r, "memberID"))
	if err != nil {
		response.BadRequest(w, "invalid member ID")
		return
	}

	club, err := h.membershipService.RemoveMember(r.Context(), userID, clubID, memberID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, club)
}

// Leave removes the caller from the roster
func (h *MembershipHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID, clubID, ok := requestContext(w, r)
	if !ok {
		return
	}

	if err := h.membershipService.LeaveClub(r.Context(), userID, clubID); err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, map[string]string{
		"message": "left club",
	})
}

// Promote adds a member to the leader set
func (h *MembershipHandler) Promote(w http.ResponseWriter, r *http.Request) {
	userID, clubID, ok := requestContext(w, r)
	if !ok {
		return
	}

	memberID, err := uuid.Parse(chi.URLParam(r, "memberID"))
	if err != nil {
		response.BadRequest(w, "invalid member ID")
		return
	}

	club, err := h.membershipService.PromoteLeader(r.Context(), userID, clubID, memberID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, club)
}

// Demote removes a member from the leader set
func (h *MembershipHandler) Demote(w http.ResponseWriter, r *http.Request) {
	userID, clubID, ok := requestContext(w, r)
	if !ok {
		return
	}

	memberID, err := uuid.Parse(chi.URLParam(r, "memberID"))
	if err != nil {
		response.BadRequest(w, "invalid member ID")
		return
	}

	club, err := h.membershipService.DemoteLeader(r.Context(), userID, clubID, memberID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, club)
}
