// internal/app/features/activities/handler.go
// Package activities is the HTTP surface for the per-user activity feed.
package activities

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	activitystore "github.com/marcuwynu23/gitshelf/internal/app/store/activities"
	"github.com/marcuwynu23/gitshelf/internal/app/system/apierrors"
	"github.com/marcuwynu23/gitshelf/internal/app/system/auth"
	"github.com/marcuwynu23/gitshelf/internal/app/system/httpjson"
	"github.com/marcuwynu23/gitshelf/internal/app/system/paging"
	"github.com/marcuwynu23/gitshelf/internal/app/system/timeouts"
	"github.com/marcuwynu23/gitshelf/internal/domain/models"
)

// Handler provides HTTP handlers for the activity feed.
type Handler struct {
	Store *activitystore.Store
	Log   *zap.Logger
}

// NewHandler creates a new activities Handler.
func NewHandler(store *activitystore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

type pageResponse struct {
	Total   int64             `json:"total"`
	Limit   int64             `json:"limit"`
	Offset  int64             `json:"offset"`
	Records []models.Activity `json:"records"`
}

type unreadResponse struct {
	Unread int64 `json:"unread"`
}

// HandlePage returns one page of the caller's feed, newest first.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentIdentity(r)
	if !ok {
		apierrors.Unauthorized(w, "missing identity")
		return
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	result, err := h.Store.Page(ctx, actor.UserID, page.Limit, page.Offset)
	if err != nil {
		h.Log.Error("activity page failed", zap.String("user_id", actor.UserID), zap.Error(err))
		apierrors.Internal(w, "internal error")
		return
	}
	httpjson.OK(w, pageResponse{
		Total:   result.Total,
		Limit:   page.Limit,
		Offset:  page.Offset,
		Records: result.Records,
	})
}

// HandleUnreadCount returns the caller's unread activity count.
func (h *Handler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentIdentity(r)
	if !ok {
		apierrors.Unauthorized(w, "missing identity")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Store.UnreadCount(ctx, actor.UserID)
	if err != nil {
		h.Log.Error("unread count failed", zap.String("user_id", actor.UserID), zap.Error(err))
		apierrors.Internal(w, "internal error")
		return
	}
	httpjson.OK(w, unreadResponse{Unread: n})
}

// HandleMarkRead marks one of the caller's activities read. Marking an
// already-read activity succeeds; another user's activity reads as absent.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentIdentity(r)
	if !ok {
		apierrors.Unauthorized(w, "missing identity")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	matched, err := h.Store.MarkRead(ctx, chi.URLParam(r, "id"), actor.UserID)
	if err != nil {
		h.Log.Error("mark read failed", zap.String("user_id", actor.UserID), zap.Error(err))
		apierrors.Internal(w, "internal error")
		return
	}
	if !matched {
		apierrors.NotFound(w, "activity not found")
		return
	}
	httpjson.NoContent(w)
}

// HandleMarkAllRead marks the caller's whole feed read.
func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentIdentity(r)
	if !ok {
		apierrors.Unauthorized(w, "missing identity")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Store.MarkAllRead(ctx, actor.UserID); err != nil {
		h.Log.Error("mark all read failed", zap.String("user_id", actor.UserID), zap.Error(err))
		apierrors.Internal(w, "internal error")
		return
	}
	httpjson.NoContent(w)
}
