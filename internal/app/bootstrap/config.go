// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for gitshelf.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, repo_root, etc.
//   - Environment variables: GITSHELF_MONGO_URI, GITSHELF_REPO_ROOT, etc.
//   - Command-line flags: --mongo_uri, --repo_root, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "gitshelf", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Repository storage
	{Name: "repo_root", Default: "./repositories", Desc: "Directory holding the bare git repositories"},

	// Authentication
	{Name: "auth_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "HMAC key for verifying bearer tokens (must be strong in production)"},

	// Clone addresses
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for browsable repository links"},
	{Name: "ssh_host", Default: "localhost", Desc: "Host announced in SSH clone addresses"},
	{Name: "ssh_port", Default: 22, Desc: "Port announced in SSH clone addresses"},
	{Name: "enable_ssh", Default: true, Desc: "Announce SSH clone addresses"},

	// Operation tuning
	{Name: "op_timeout", Default: "30s", Desc: "Upper bound for one repository mutation (e.g., 30s, 1m)"},
	{Name: "notify_buffer", Default: 16, Desc: "Buffered events per live session before drops"},
	{Name: "rate_limit", Default: 300, Desc: "Requests per client per window on /api (0 disables)"},
	{Name: "rate_window", Default: "1m", Desc: "Rate limit window duration"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, GITSHELF_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "GITSHELF", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		RepoRoot: appValues.String("repo_root"),

		AuthSecret: appValues.String("auth_secret"),

		BaseURL:   appValues.String("base_url"),
		SSHHost:   appValues.String("ssh_host"),
		SSHPort:   appValues.Int("ssh_port"),
		EnableSSH: appValues.Bool("enable_ssh"),

		OpTimeout:    appValues.Duration("op_timeout", 30*time.Second),
		NotifyBuffer: appValues.Int("notify_buffer"),
		RateLimit:    appValues.Int("rate_limit"),
		RateWindow:   appValues.Duration("rate_window", time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// gitshelf validates the MongoDB URI format and the storage settings to
// catch configuration errors early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.RepoRoot == "" {
		return fmt.Errorf("repo_root must be set")
	}
	if appCfg.AuthSecret == "" {
		return fmt.Errorf("auth_secret must be set")
	}
	if appCfg.EnableSSH && appCfg.SSHHost == "" {
		return fmt.Errorf("enable_ssh requires ssh_host to be set")
	}
	if appCfg.OpTimeout <= 0 {
		return fmt.Errorf("op_timeout must be positive")
	}

	return nil
}
