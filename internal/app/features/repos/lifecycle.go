// internal/app/features/repos/lifecycle.go
package repos

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marcuwynu23/gitshelf/internal/app/system/apierrors"
	"github.com/marcuwynu23/gitshelf/internal/app/system/auth"
	"github.com/marcuwynu23/gitshelf/internal/app/system/httpjson"
	"github.com/marcuwynu23/gitshelf/internal/app/system/limits"
	"github.com/marcuwynu23/gitshelf/internal/app/system/timeouts"
)

// decodeBody decodes a size-capped JSON request body.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxLifecycleBodySize)
	return json.NewDecoder(r.Body).Decode(v)
}

type createRequest struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type renameRequest struct {
	NewName string `json:"new_name"`
}

// HandleList returns every repository in the caller's namespace, including
// storage-only units served as virtual entries.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentIdentity(r)
	if !ok {
		apierrors.Unauthorized(w, "missing identity")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	views, err := h.Lifecycle.Manager().List(ctx, actor.Username)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.OK(w, views)
}

// HandleCreate provisions a new repository.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentIdentity(r)
	if !ok {
		apierrors.Unauthorized(w, "missing identity")
		return
	}

	var req createRequest
	if err := decodeBody(w, r, &req); err != nil {
		apierrors.InvalidInput(w, "malformed request body")
		return
	}
	if req.Name == "" {
		apierrors.InvalidInput(w, "name is required")
		return
	}

	view, err := h.Lifecycle.Create(r.Context(), actor, actor.Username, req.Name, req.Title, req.Description)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Created(w, view)
}

// HandleGet returns the metadata view for one repository.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentIdentity(r)
	if !ok {
		apierrors.Unauthorized(w, "missing identity")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	view, err := h.Lifecycle.Manager().Get(ctx, actor.Username, chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.OK(w, view)
}

// HandleUpdateMeta edits title and/or description. Absent fields are left
// unchanged.
func (h *Handler) HandleUpdateMeta(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentIdentity(r)
	if !ok {
		apierrors.Unauthorized(w, "missing identity")
		return
	}

	var req updateRequest
	if err := decodeBody(w, r, &req); err != nil {
		apierrors.InvalidInput(w, "malformed request body")
		return
	}
	if req.Title == nil && req.Description == nil {
		apierrors.InvalidInput(w, "nothing to update")
		return
	}

	view, err := h.Lifecycle.UpdateMeta(r.Context(), actor, actor.Username, chi.URLParam(r, "name"), req.Title, req.Description)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.OK(w, view)
}

// HandleRename moves the repository to a new name.
func (h *Handler) HandleRename(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentIdentity(r)
	if !ok {
		apierrors.Unauthorized(w, "missing identity")
		return
	}

	var req renameRequest
	if err := decodeBody(w, r, &req); err != nil {
		apierrors.InvalidInput(w, "malformed request body")
		return
	}
	if req.NewName == "" {
		apierrors.InvalidInput(w, "new_name is required")
		return
	}

	view, err := h.Lifecycle.Rename(r.Context(), actor, actor.Username, chi.URLParam(r, "name"), req.NewName)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.OK(w, view)
}

// HandleArchive marks the repository archived. Content stays readable.
func (h *Handler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, true)
}

// HandleUnarchive clears the archived flag.
func (h *Handler) HandleUnarchive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, false)
}

func (h *Handler) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	actor, ok := auth.CurrentIdentity(r)
	if !ok {
		apierrors.Unauthorized(w, "missing identity")
		return
	}

	name := chi.URLParam(r, "name")
	var err error
	var view any
	if archived {
		view, err = h.Lifecycle.Archive(r.Context(), actor, actor.Username, name)
	} else {
		view, err = h.Lifecycle.Unarchive(r.Context(), actor, actor.Username, name)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.OK(w, view)
}

// HandleDelete removes the repository and its content permanently.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentIdentity(r)
	if !ok {
		apierrors.Unauthorized(w, "missing identity")
		return
	}

	if err := h.Lifecycle.Delete(r.Context(), actor, actor.Username, chi.URLParam(r, "name")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.NoContent(w)
}
