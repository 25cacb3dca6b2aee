package serve

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"

	"github.com/atomiccms/atomic-service/internal/config"
)

// Command returns the serve sub-command.
func Command() *cli.Command {
	cfg := config.DefaultConfig()
	var readHeaderTimeoutSecs int = 5
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the atomic service HTTP server",
		Flags: flags(&cfg, &readHeaderTimeoutSecs),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg.Listener.ReadHeaderTimeout = time.Duration(readHeaderTimeoutSecs) * time.Second
			cfg.ManagementListener.ReadHeaderTimeout = cfg.Listener.ReadHeaderTimeout
			cfg.ManagementListenerEnabled = cmd.IsSet("management-port")
			return run(config.WithContext(ctx, &cfg), cfg)
		},
	}
}

func flags(cfg *config.Config, readHeaderTimeoutSecs *int) []cli.Flag {
	return []cli.Flag{

		// ── Server ────────────────────────────────────────────────
		&cli.StringFlag{
			Name:        "tls-cert-file",
			Category:    "Server:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_TLS_CERT_FILE"),
			Destination: &cfg.Listener.TLSCertFile,
			Usage:       "TLS certificate file for single-port TLS mode",
		},
		&cli.StringFlag{
			Name:        "tls-key-file",
			Category:    "Server:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_TLS_KEY_FILE"),
			Destination: &cfg.Listener.TLSKeyFile,
			Usage:       "TLS private key file for single-port TLS mode",
		},
		&cli.StringFlag{
			Name:        "server-url",
			Category:    "Server:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_SERVER_URL"),
			Destination: &cfg.ServerURL,
			Value:       cfg.ServerURL,
			Usage:       "Public base URL prefixed onto stored upload paths",
		},
		&cli.IntFlag{
			Name:        "read-header-timeout-seconds",
			Category:    "Server:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_READ_HEADER_TIMEOUT_SECONDS"),
			Destination: readHeaderTimeoutSecs,
			Value:       *readHeaderTimeoutSecs,
			Usage:       "HTTP read header timeout in seconds",
		},
		&cli.IntFlag{
			Name:        "drain-timeout-seconds",
			Category:    "Server:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_DRAIN_TIMEOUT_SECONDS"),
			Destination: &cfg.DrainTimeout,
			Value:       cfg.DrainTimeout,
			Usage:       "Graceful shutdown drain timeout in seconds",
		},
		&cli.BoolFlag{
			Name:        "management-access-log",
			Category:    "Server:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_MANAGEMENT_ACCESS_LOG"),
			Destination: &cfg.ManagementAccessLog,
			Usage:       "Enable HTTP access logging for management endpoints (/health, /ready, /metrics)",
		},
		&cli.BoolFlag{
			Name:        "cors",
			Category:    "Server:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_CORS"),
			Destination: &cfg.CORSEnabled,
			Usage:       "Enable CORS handling",
		},
		&cli.StringFlag{
			Name:        "cors-origins",
			Category:    "Server:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_CORS_ORIGINS"),
			Destination: &cfg.CORSOrigins,
			Usage:       "Comma-separated allowed CORS origins (empty allows any)",
		},
		&cli.Int64Flag{
			Name:        "max-body-size",
			Category:    "Server:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_MAX_BODY_SIZE"),
			Destination: &cfg.MaxBodySize,
			Value:       cfg.MaxBodySize,
			Usage:       "Maximum request body size in bytes for non-upload requests",
		},

		// ── Network Listener ──────────────────────────────────────
		&cli.IntFlag{
			Name:        "port",
			Category:    "Network Listener:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_PORT"),
			Destination: &cfg.Listener.Port,
			Value:       cfg.Listener.Port,
			Usage:       "HTTP server port",
		},
		&cli.BoolFlag{
			Name:        "plain-text",
			Category:    "Network Listener:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_PLAIN_TEXT"),
			Destination: &cfg.Listener.EnablePlainText,
			Value:       cfg.Listener.EnablePlainText,
			Usage:       "Enable plaintext HTTP/1.1 + h2c",
		},
		&cli.BoolFlag{
			Name:        "tls",
			Category:    "Network Listener:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_TLS"),
			Destination: &cfg.Listener.EnableTLS,
			Value:       cfg.Listener.EnableTLS,
			Usage:       "Enable TLS HTTP/1.1 + HTTP/2",
		},

		// ── Management Network Listener ───────────────────────────
		&cli.IntFlag{
			Name:        "management-port",
			Category:    "Management Network Listener:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_MANAGEMENT_PORT"),
			Destination: &cfg.ManagementListener.Port,
			Value:       cfg.ManagementListener.Port,
			Usage:       "Dedicated port for health and metrics (0 = OS-assigned random port); when unset, served on the main port",
		},
		&cli.BoolFlag{
			Name:        "management-tls",
			Category:    "Management Network Listener:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_MANAGEMENT_TLS"),
			Destination: &cfg.ManagementListener.EnableTLS,
			Value:       cfg.ManagementListener.EnableTLS,
			Usage:       "Enable TLS for management server",
		},

		// ── Database ───────────────────────────────────────────────
		&cli.StringFlag{
			Name:        "db-url",
			Category:    "Database:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_DB_URL"),
			Destination: &cfg.DBURL,
			Usage:       "MongoDB connection URL",
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "db-name",
			Category:    "Database:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_DB_NAME"),
			Destination: &cfg.DBName,
			Value:       cfg.DBName,
			Usage:       "MongoDB database name",
		},
		&cli.BoolFlag{
			Name:        "db-migrate-at-start",
			Category:    "Database:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_DB_MIGRATE_AT_START"),
			Destination: &cfg.DatastoreMigrateAtStart,
			Value:       cfg.DatastoreMigrateAtStart,
			Usage:       "Create collections and indexes on startup",
		},

		// ── Events ────────────────────────────────────────────────
		&cli.StringFlag{
			Name:        "redis-url",
			Category:    "Events:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_REDIS_URL"),
			Destination: &cfg.RedisURL,
			Usage:       "Redis connection URL for event fan-out; empty uses the in-process broker",
		},

		// ── Uploads ───────────────────────────────────────────────
		&cli.StringFlag{
			Name:        "upload-dir",
			Category:    "Uploads:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_UPLOAD_DIR"),
			Destination: &cfg.UploadDir,
			Value:       cfg.UploadDir,
			Usage:       "Root directory for uploaded files",
		},
		&cli.Int64Flag{
			Name:        "upload-max-size",
			Category:    "Uploads:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_UPLOAD_MAX_SIZE"),
			Destination: &cfg.UploadMaxSize,
			Value:       cfg.UploadMaxSize,
			Usage:       "Maximum upload size in bytes",
		},

		// ── Authorization ─────────────────────────────────────────
		&cli.StringFlag{
			Name:        "jwt-secret",
			Category:    "Authorization:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_JWT_SECRET"),
			Destination: &cfg.JWTSecret,
			Usage:       "HMAC secret for signing bearer tokens",
			Required:    true,
		},
		&cli.DurationFlag{
			Name:        "token-ttl",
			Category:    "Authorization:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_TOKEN_TTL"),
			Destination: &cfg.TokenTTL,
			Value:       cfg.TokenTTL,
			Usage:       "Lifetime of issued bearer tokens",
		},
		&cli.IntFlag{
			Name:        "bcrypt-cost",
			Category:    "Authorization:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_BCRYPT_COST"),
			Destination: &cfg.BcryptCost,
			Value:       cfg.BcryptCost,
			Usage:       "Bcrypt work factor for password hashing",
		},
		&cli.StringFlag{
			Name:        "google-client-id",
			Category:    "Authorization:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_GOOGLE_CLIENT_ID"),
			Destination: &cfg.GoogleClientID,
			Usage:       "Google OAuth client ID (enables Google sign-in)",
		},
		&cli.StringFlag{
			Name:        "google-client-secret",
			Category:    "Authorization:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_GOOGLE_CLIENT_SECRET"),
			Destination: &cfg.GoogleClientSecret,
			Usage:       "Google OAuth client secret",
		},
		&cli.StringFlag{
			Name:        "google-redirect-url",
			Category:    "Authorization:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_GOOGLE_REDIRECT_URL"),
			Destination: &cfg.GoogleRedirectURL,
			Usage:       "Google OAuth redirect URL",
		},

		// ── Mail ──────────────────────────────────────────────────
		&cli.StringFlag{
			Name:        "smtp-host",
			Category:    "Mail:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_SMTP_HOST"),
			Destination: &cfg.SMTPHost,
			Usage:       "SMTP host; empty disables outgoing mail",
		},
		&cli.IntFlag{
			Name:        "smtp-port",
			Category:    "Mail:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_SMTP_PORT"),
			Destination: &cfg.SMTPPort,
			Value:       cfg.SMTPPort,
			Usage:       "SMTP port",
		},
		&cli.StringFlag{
			Name:        "smtp-username",
			Category:    "Mail:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_SMTP_USERNAME"),
			Destination: &cfg.SMTPUsername,
			Usage:       "SMTP username",
		},
		&cli.StringFlag{
			Name:        "smtp-password",
			Category:    "Mail:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_SMTP_PASSWORD"),
			Destination: &cfg.SMTPPassword,
			Usage:       "SMTP password",
		},
		&cli.StringFlag{
			Name:        "mail-from",
			Category:    "Mail:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_MAIL_FROM"),
			Destination: &cfg.MailFrom,
			Usage:       "From address for outgoing mail",
		},

		// ── Listings ──────────────────────────────────────────────
		&cli.BoolFlag{
			Name:        "strict-filters",
			Category:    "Listings:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_STRICT_FILTERS"),
			Destination: &cfg.StrictFilters,
			Usage:       "Unresolvable listing filters (unknown author email, role name) return empty results instead of being ignored",
		},
		&cli.Int64Flag{
			Name:        "activity-retention",
			Category:    "Listings:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_ACTIVITY_RETENTION"),
			Destination: &cfg.ActivityRetention,
			Value:       cfg.ActivityRetention,
			Usage:       "Number of dashboard activity entries kept per insert",
		},

		// ── Maintenance ───────────────────────────────────────────
		&cli.DurationFlag{
			Name:        "compaction-interval",
			Category:    "Maintenance:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_COMPACTION_INTERVAL"),
			Destination: &cfg.CompactionInterval,
			Usage:       "How often the background orphan sweep runs; 0 disables it",
		},

		// ── Monitoring ────────────────────────────────────────────
		&cli.StringFlag{
			Name:        "metrics-labels",
			Category:    "Monitoring:",
			Sources:     cli.EnvVars("ATOMIC_SERVICE_METRICS_LABELS"),
			Destination: &cfg.MetricsLabels,
			Value:       "service=atomic-service",
			Usage:       "Comma-separated key=value pairs added as constant labels to all Prometheus metrics. Supports ${VAR} expansion.",
		},
	}
}

func run(ctx context.Context, cfg config.Config) error {
	srv, err := StartServer(ctx, &cfg)
	if err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("Shutting down...")

	drainCtx, drainCancel := context.WithTimeout(context.Background(), time.Duration(cfg.DrainTimeout)*time.Second)
	defer drainCancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		log.Error("Shutdown error", "err", err)
	}
	log.Info("Server stopped")
	return nil
}

func maxBodySizeMiddleware(maxBodySize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isUploadRequest(c.Request) {
			c.Next()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
		c.Next()
	}
}

// isUploadRequest reports whether the request carries multipart file content.
// Upload size is enforced per file by the upload manager instead of the
// request body limit.
func isUploadRequest(req *http.Request) bool {
	if req == nil || req.URL == nil {
		return false
	}
	if req.Method != http.MethodPost && req.Method != http.MethodPatch {
		return false
	}
	contentType := strings.ToLower(strings.TrimSpace(req.Header.Get("Content-Type")))
	return strings.HasPrefix(contentType, "multipart/form-data")
}
