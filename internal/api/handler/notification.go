package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/clubhub/clubhub/internal/api/middleware"
	"github.com/clubhub/clubhub/internal/api/response"
	"github.com/clubhub/clubhub/internal/service"
	"github.com/google/uuid"
)

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List returns the caller's recent notifications with an unread count
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	notifications, unread, err := h.notificationService.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkRead marks the given notifications as read. An empty list marks all
// unread notifications.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	// An absent body means mark everything
	var input struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && err != io.EOF {
		response.BadRequest(w, "invalid request body")
		return
	}

	updated, err := h.notificationService.MarkRead(r.Context(), userID, input.IDs)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"updated": updated,
	})
}

// Cleanup deletes the caller's notifications past the retention age
func (h *NotificationHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	deleted, err := h.notificationService.Cleanup(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"deleted": deleted,
	})
}
