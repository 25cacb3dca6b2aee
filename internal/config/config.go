package config

import (
	"context"
	"strings"
	"time"
)

// ListenerConfig holds the network/TLS settings for a single listener (main or management).
type ListenerConfig struct {
	Port              int
	EnablePlainText   bool
	EnableTLS         bool
	TLSCertFile       string
	TLSKeyFile        string
	ReadHeaderTimeout time.Duration
}

type contextKey struct{}

// WithContext returns a new context carrying the given Config.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, contextKey{}, cfg)
}

// FromContext retrieves the Config from the context.
func FromContext(ctx context.Context) *Config {
	cfg, _ := ctx.Value(contextKey{}).(*Config)
	return cfg
}

// Config holds all configuration for the atomic service.
type Config struct {
	// Database
	DBURL  string
	DBName string

	// Run datastore migrations on startup.
	DatastoreMigrateAtStart bool

	// Redis (subscription fan-out). Empty uses the in-process broker.
	RedisURL string

	// Uploads
	// UploadDir is the root directory holding uploaded files on disk.
	UploadDir string
	// ServerURL is the public base URL prefixed onto stored upload paths.
	ServerURL string
	// Upload size limit (bytes).
	UploadMaxSize int64

	// Auth
	JWTSecret string
	// TokenTTL is how long issued bearer tokens stay valid.
	TokenTTL time.Duration
	// BcryptCost is the bcrypt work factor for password hashing.
	BcryptCost int

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Filters
	// StrictFilters makes natural-key filter misses (unknown author email,
	// unknown role name) return an empty result instead of dropping the
	// constraint.
	StrictFilters bool

	// Retention
	// ActivityRetention caps the dashboard activity and notification logs at
	// the N newest documents per insert.
	ActivityRetention int64

	// Compaction
	// CompactionInterval is how often the background orphan sweep runs.
	// Zero disables the background sweep (the compact command still works).
	CompactionInterval time.Duration

	// Mail
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	// Server
	Listener           ListenerConfig
	ManagementListener ListenerConfig
	// ManagementListenerEnabled is true when --management-port (or ATOMIC_SERVICE_MANAGEMENT_PORT)
	// was explicitly provided. When false, management endpoints are served on the main port.
	ManagementListenerEnabled bool
	// ManagementAccessLog enables HTTP access logging for management endpoints (/health, /ready, /metrics).
	// Disabled by default to suppress high-frequency probe noise from the access log.
	ManagementAccessLog bool
	CORSEnabled         bool
	CORSOrigins         string

	// Body size limit (bytes)
	MaxBodySize int64

	// MetricsLabels is a comma-separated list of key=value pairs added as
	// constant labels to all Prometheus metrics. Values support ${VAR} expansion.
	// Defaults to "service=atomic-service".
	MetricsLabels string

	// Graceful shutdown drain timeout (seconds)
	DrainTimeout int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DBName:                  "atomic",
		DatastoreMigrateAtStart: true,
		UploadDir:               "uploads",
		ServerURL:               "http://localhost:8080",
		UploadMaxSize:           10 * 1024 * 1024, // 10 MB
		TokenTTL:                24 * time.Hour,
		BcryptCost:              10,
		ActivityRetention:       10,
		SMTPPort:                587,
		Listener: ListenerConfig{
			Port:              8080,
			EnablePlainText:   true,
			EnableTLS:         true,
			ReadHeaderTimeout: 5 * time.Second,
		},
		// Probe and scrape traffic defaults to plain HTTP.
		ManagementListener: ListenerConfig{},
		MaxBodySize:  20 * 1024 * 1024, // 2x upload max-size
		DrainTimeout: 30,
	}
}

// CORSOriginList splits the configured origins into a trimmed slice.
func (c *Config) CORSOriginList() []string {
	if c == nil || strings.TrimSpace(c.CORSOrigins) == "" {
		return nil
	}
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
