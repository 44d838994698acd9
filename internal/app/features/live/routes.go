// internal/app/features/live/routes.go
package live

import (
	"github.com/go-chi/chi/v5"

	"github.com/marcuwynu23/gitshelf/internal/app/system/auth"
)

// Routes mounts the websocket endpoint. The middleware verifies the
// credential (header or token query parameter) before the upgrade, so an
// unauthenticated connect is rejected with a 401 and never registered.
func Routes(h *Handler, v *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.Use(v.RequireAuth)

	r.Get("/", h.HandleConnect)

	return r
}
