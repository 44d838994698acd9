// internal/app/features/repos/routes.go
package repos

import (
	"github.com/go-chi/chi/v5"

	"github.com/marcuwynu23/gitshelf/internal/app/system/auth"
)

// Routes mounts all repository routes. Every route requires a verified
// identity; the identity's username is the repository namespace.
func Routes(h *Handler, v *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.Use(v.RequireAuth)

	// LIFECYCLE
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/{name}", h.HandleGet)
	r.Patch("/{name}", h.HandleUpdateMeta)
	r.Post("/{name}/rename", h.HandleRename)
	r.Post("/{name}/archive", h.HandleArchive)
	r.Post("/{name}/unarchive", h.HandleUnarchive)
	r.Delete("/{name}", h.HandleDelete)

	// CONTENT
	r.Get("/{name}/tree", h.HandleTree)
	r.Get("/{name}/file", h.HandleFile)
	r.Get("/{name}/branches", h.HandleBranches)
	r.Get("/{name}/commits", h.HandleCommits)

	return r
}
