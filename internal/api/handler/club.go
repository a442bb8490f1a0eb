package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/clubhub/clubhub/internal/api/middleware"
	"github.com/clubhub/clubhub/internal/api/response"
	"github.com/clubhub/clubhub/internal/domain"
	"github.com/clubhub/clubhub/internal/service"
)

// ClubHandler handles club CRUD endpoints
type ClubHandler struct {
	membershipService *service.MembershipService
}

// NewClubHandler creates a new club handler
func NewClubHandler(membershipService *service.MembershipService) *ClubHandler {
	return &ClubHandler{membershipService: membershipService}
}

// Create handles club creation
func (h *ClubHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.ClubCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		if messages, ok := validationMessages(err); ok {
			response.BadRequest(w, messages)
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	club, err := h.membershipService.CreateClub(r.Context(), userID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, club)
}

// List returns the clubs visible to the caller
func (h *ClubHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	opts := service.ListOptions{
		Category: domain.Category(r.URL.Query().Get("category")),
		Status:   domain.ClubStatus(r.URL.Query().Get("status")),
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		opts.Limit = limit
	}

	clubs, err := h.membershipService.ListClubs(r.Context(), userID, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"clubs": clubs,
		"count": len(clubs),
	})
}

// Get returns a single club
func (h *ClubHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	clubID, ok := middleware.GetClubID(r.Context())
	if !ok {
		response.BadRequest(w, "missing club ID")
		return
	}

	club, err := h.membershipService.GetClub(r.Context(), userID, clubID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, club)
}

// Update applies a partial update to a club
func (h *ClubHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	clubID, ok := middleware.GetClubID(r.Context())
	if !ok {
		response.BadRequest(w, "missing club ID")
		return
	}

	var input domain.ClubUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		if messages, ok := validationMessages(err); ok {
			response.BadRequest(w, messages)
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	club, err := h.membershipService.UpdateClub(r.Context(), userID, clubID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, club)
}

// Delete removes a club
func (h *ClubHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	clubID, ok := middleware.GetClubID(r.Context())
	if !ok {
		response.BadRequest(w, "missing club ID")
		return
	}

	if err := h.membershipService.DeleteClub(r.Context(), userID, clubID); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}

// ListMembers returns the populated roster of a club
func (h *ClubHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	clubID, ok := middleware.GetClubID(r.Context())
	if !ok {
		response.BadRequest(w, "missing club ID")
		return
	}

	members, err := h.membershipService.ListMembers(r.Context(), userID, clubID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"members": members,
		"count":   len(members),
	})
}
