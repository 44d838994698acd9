// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, CORS); AppConfig is everything specific to gitshelf:
// where the repositories live, how clients address them, and how requests
// are authenticated.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Repository storage configuration
	RepoRoot string // Directory holding the bare repositories (<root>/<owner>/<name>)

	// Authentication
	AuthSecret string // HMAC key for verifying bearer tokens (must be strong in production)

	// Clone address configuration
	BaseURL   string // e.g., "https://gitshelf.example.com"
	SSHHost   string // Host announced in SSH clone addresses
	SSHPort   int    // Port announced in SSH clone addresses
	EnableSSH bool   // Whether SSH clone addresses are announced at all

	// Operation tuning
	OpTimeout    time.Duration // Upper bound for one lifecycle mutation, rollback included
	NotifyBuffer int           // Buffered events per live session before drops
	RateLimit    int           // Requests per client per window on /api (0 disables)
	RateWindow   time.Duration // Rate limit window duration
}
