// internal/app/features/repos/handler.go
// Package repos is the HTTP surface for repository lifecycle and content
// browsing. All routes operate on the authenticated user's own namespace.
package repos

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/marcuwynu23/gitshelf/internal/app/gitstore"
	"github.com/marcuwynu23/gitshelf/internal/app/lifecycle"
	"github.com/marcuwynu23/gitshelf/internal/app/system/apierrors"
)

// Handler provides HTTP handlers for repository management.
type Handler struct {
	Lifecycle *lifecycle.Orchestrator
	Storage   gitstore.Storage
	Log       *zap.Logger
}

// NewHandler creates a new repos Handler.
func NewHandler(lc *lifecycle.Orchestrator, storage gitstore.Storage, logger *zap.Logger) *Handler {
	return &Handler{Lifecycle: lc, Storage: storage, Log: logger}
}

// writeError maps domain errors onto the JSON error envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		apierrors.NotFound(w, "repository not found")
	case errors.Is(err, gitstore.ErrRefNotFound):
		apierrors.NotFound(w, err.Error())
	case errors.Is(err, lifecycle.ErrAlreadyExists):
		apierrors.AlreadyExists(w, "a repository with that name already exists")
	case errors.Is(err, lifecycle.ErrInvalidInput), errors.Is(err, gitstore.ErrInvalidName):
		apierrors.InvalidInput(w, "invalid repository name")
	case errors.Is(err, lifecycle.ErrInconsistent):
		h.Log.Error("inconsistent repository state", zap.String("path", r.URL.Path), zap.Error(err))
		apierrors.Inconsistent(w, "repository state is inconsistent; contact an administrator")
	case errors.Is(err, gitstore.ErrUnavailable):
		h.Log.Error("storage unavailable", zap.String("path", r.URL.Path), zap.Error(err))
		apierrors.StorageUnavailable(w, "repository storage is unavailable")
	default:
		h.Log.Error("repository request failed", zap.String("path", r.URL.Path), zap.Error(err))
		apierrors.Internal(w, "internal error")
	}
}
