// internal/app/features/repos/content.go
package repos

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"

	"github.com/marcuwynu23/gitshelf/internal/app/system/apierrors"
	"github.com/marcuwynu23/gitshelf/internal/app/system/auth"
	"github.com/marcuwynu23/gitshelf/internal/app/system/httpjson"
	"github.com/marcuwynu23/gitshelf/internal/app/system/timeouts"
	"github.com/marcuwynu23/gitshelf/internal/app/tree"
	"github.com/marcuwynu23/gitshelf/internal/domain/models"
)

// defaultCommitLimit bounds a commit listing when the client names none.
const defaultCommitLimit = 50

type treeResponse struct {
	Ref  string             `json:"ref"`
	Tree []*models.FileNode `json:"tree"`
}

type fileResponse struct {
	Ref     string `json:"ref"`
	Path    string `json:"path"`
	Content string `json:"content"`
}

// resolve canonicalizes the URL name and confirms the repository exists,
// returning its view.
func (h *Handler) resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.RepoView, string, bool) {
	actor, ok := auth.CurrentIdentity(r)
	if !ok {
		apierrors.Unauthorized(w, "missing identity")
		return models.RepoView{}, "", false
	}

	view, err := h.Lifecycle.Manager().Get(ctx, actor.Username, chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, r, err)
		return models.RepoView{}, "", false
	}
	return view, actor.Username, true
}

// HandleTree returns the nested file tree at a ref. An empty repository
// yields an empty tree.
func (h *Handler) HandleTree(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list tree")
	defer cancel()

	view, owner, ok := h.resolve(ctx, w, r)
	if !ok {
		return
	}
	ref := query.Get(r, "ref")

	paths, err := h.Storage.ListPathsAtRef(ctx, owner, view.Name, ref)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if ref == "" {
		ref = "HEAD"
	}
	httpjson.OK(w, treeResponse{Ref: ref, Tree: tree.Build(paths)})
}

// HandleFile returns one file's content at a ref.
func (h *Handler) HandleFile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "read file")
	defer cancel()

	view, owner, ok := h.resolve(ctx, w, r)
	if !ok {
		return
	}
	path := query.Get(r, "path")
	if path == "" {
		apierrors.InvalidInput(w, "path is required")
		return
	}
	ref := query.Get(r, "ref")

	content, err := h.Storage.ReadFileAtRef(ctx, owner, view.Name, ref, path)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if ref == "" {
		ref = "HEAD"
	}
	httpjson.OK(w, fileResponse{Ref: ref, Path: path, Content: string(content)})
}

// HandleBranches returns the branch listing and the current branch.
func (h *Handler) HandleBranches(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list branches")
	defer cancel()

	view, owner, ok := h.resolve(ctx, w, r)
	if !ok {
		return
	}

	branches, err := h.Storage.ListBranches(ctx, owner, view.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if branches.All == nil {
		branches.All = []string{}
	}
	httpjson.OK(w, branches)
}

// HandleCommits returns commit summaries at HEAD, newest first.
func (h *Handler) HandleCommits(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list commits")
	defer cancel()

	view, owner, ok := h.resolve(ctx, w, r)
	if !ok {
		return
	}

	limit := defaultCommitLimit
	if raw := query.Get(r, "limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			apierrors.InvalidInput(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	commits, err := h.Storage.ListCommits(ctx, owner, view.Name, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if commits == nil {
		commits = []models.Commit{}
	}
	httpjson.OK(w, commits)
}
