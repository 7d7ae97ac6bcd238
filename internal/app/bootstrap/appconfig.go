// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, and request timeouts. AppConfig is where
// everything specific to this portal lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: meritrack-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Evidence file storage configuration
	StorageType      string // Storage backend ("local" is the only supported value today)
	StorageLocalPath string // Local storage path (e.g., "./uploads/evidence")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files/evidence")

	// Seed admin account, created on startup when the username is set
	// and no user with that username exists yet.
	SeedAdminName     string
	SeedAdminUsername string
	SeedAdminPassword string
}
