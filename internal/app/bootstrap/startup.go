// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/marcuwynu23/gitshelf/internal/app/system/timeouts"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. gitshelf
// makes sure the repository root exists and is writable.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{Op: appCfg.OpTimeout})

	if err := os.MkdirAll(appCfg.RepoRoot, 0o755); err != nil {
		return fmt.Errorf("create repo root %q: %w", appCfg.RepoRoot, err)
	}

	probe, err := os.CreateTemp(appCfg.RepoRoot, ".write-probe-*")
	if err != nil {
		return fmt.Errorf("repo root %q is not writable: %w", appCfg.RepoRoot, err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	logger.Info("repository root ready", zap.String("repo_root", appCfg.RepoRoot))
	return nil
}
