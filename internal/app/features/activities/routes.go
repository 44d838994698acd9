// internal/app/features/activities/routes.go
package activities

import (
	"github.com/go-chi/chi/v5"

	"github.com/marcuwynu23/gitshelf/internal/app/system/auth"
)

// Routes mounts the activity feed routes.
func Routes(h *Handler, v *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.Use(v.RequireAuth)

	r.Get("/", h.HandlePage)
	r.Get("/unread_count", h.HandleUnreadCount)
	r.Post("/read_all", h.HandleMarkAllRead)
	r.Post("/{id}/read", h.HandleMarkRead)

	return r
}
