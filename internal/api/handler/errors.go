package handler

import (
	"errors"
	"net/http"

	"github.com/clubhub/clubhub/internal/api/response"
	"github.com/clubhub/clubhub/internal/domain"
)

// writeError maps domain errors to HTTP status codes. Anything unmapped is a
// 500 with a generic message so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrClubNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRequestNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		response.Forbidden(w, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.Unauthorized(w, err.Error())
	case errors.Is(err, domain.ErrConflict):
		response.Conflict(w, err.Error())
	case errors.Is(err, domain.ErrDuplicateName),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrAlreadyMember),
		errors.Is(err, domain.ErrAlreadyLeader),
		errors.Is(err, domain.ErrDuplicatePendingRequest),
		errors.Is(err, domain.ErrRequestAlreadyResolved),
		errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrNotAMember),
		errors.Is(err, domain.ErrLastLeader),
		errors.Is(err, domain.ErrFounderImmutable):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "internal server error")
	}
}
