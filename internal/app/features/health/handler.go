// internal/app/features/health/handler.go
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/marcuwynu23/gitshelf/internal/app/system/timeouts"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client   *mongo.Client
	RepoRoot string
	Log      *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(client *mongo.Client, repoRoot string, logger *zap.Logger) *Handler {
	return &Handler{
		Client:   client,
		RepoRoot: repoRoot,
		Log:      logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Storage  string `json:"storage"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "storage":"available" }
//
// On DB or storage failure: 503 with status "error" and the failing
// component marked.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
		Storage:  "available",
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	if info, err := os.Stat(h.RepoRoot); err != nil || !info.IsDir() {
		h.Log.Error("health-check: repo root unavailable",
			zap.String("repo_root", h.RepoRoot), zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Storage = "unavailable"
		resp.Message = "Repository storage unavailable"
		if err != nil {
			resp.Error = err.Error()
		}
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	_ = json.NewEncoder(w).Encode(resp)
}
