// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	activitiesfeature "github.com/marcuwynu23/gitshelf/internal/app/features/activities"
	healthfeature "github.com/marcuwynu23/gitshelf/internal/app/features/health"
	livefeature "github.com/marcuwynu23/gitshelf/internal/app/features/live"
	reposfeature "github.com/marcuwynu23/gitshelf/internal/app/features/repos"
	"github.com/marcuwynu23/gitshelf/internal/app/gitstore"
	"github.com/marcuwynu23/gitshelf/internal/app/lifecycle"
	"github.com/marcuwynu23/gitshelf/internal/app/notify"
	activitystore "github.com/marcuwynu23/gitshelf/internal/app/store/activities"
	repostore "github.com/marcuwynu23/gitshelf/internal/app/store/repos"
	"github.com/marcuwynu23/gitshelf/internal/app/system/addressing"
	"github.com/marcuwynu23/gitshelf/internal/app/system/auth"
	"github.com/marcuwynu23/gitshelf/internal/app/system/ratelimit"
)

// liveHub is the notification hub built by BuildHandler, kept here so
// Shutdown can close the sessions it still holds.
var liveHub *notify.Hub

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. gitshelf wires the storage, stores,
// lifecycle manager, and notification hub together here and mounts the
// feature routers on top of them.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	verifier := auth.NewVerifier(appCfg.AuthSecret)

	storage := gitstore.New(appCfg.RepoRoot)
	repoRecords := repostore.New(deps.MongoDatabase)
	activityRecords := activitystore.New(deps.MongoDatabase)

	addr := addressing.New(appCfg.SSHHost, appCfg.SSHPort, appCfg.EnableSSH, appCfg.BaseURL)

	liveHub = notify.NewHub(appCfg.NotifyBuffer, logger)

	manager := lifecycle.NewManager(storage, repoRecords, addr, logger)
	orchestrator := lifecycle.NewOrchestrator(manager, activityRecords, liveHub, logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, appCfg.RepoRoot, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(api chi.Router) {
		if appCfg.RateLimit > 0 {
			api.Use(ratelimit.New(appCfg.RateLimit, appCfg.RateWindow).Middleware)
		}

		// Repository lifecycle and content browsing
		reposHandler := reposfeature.NewHandler(orchestrator, storage, logger)
		api.Mount("/repos", reposfeature.Routes(reposHandler, verifier))

		// Activity feed
		activitiesHandler := activitiesfeature.NewHandler(activityRecords, logger)
		api.Mount("/activities", activitiesfeature.Routes(activitiesHandler, verifier))

		// Live notifications over websocket
		liveHandler := livefeature.NewHandler(liveHub, logger)
		api.Mount("/live", livefeature.Routes(liveHandler, verifier))
	})

	return r, nil
}
