package serve

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/atomiccms/atomic-service/internal/config"
	"github.com/atomiccms/atomic-service/internal/mailer"
	"github.com/atomiccms/atomic-service/internal/pubsub"
	"github.com/atomiccms/atomic-service/internal/resolver"
	"github.com/atomiccms/atomic-service/internal/route"
	"github.com/atomiccms/atomic-service/internal/security"
	"github.com/atomiccms/atomic-service/internal/service"
	"github.com/atomiccms/atomic-service/internal/store"
	"github.com/atomiccms/atomic-service/internal/store/mongo"
	"github.com/atomiccms/atomic-service/internal/uploads"
)

// Server holds the running server and its subsystems.
type Server struct {
	Config          *config.Config
	Store           store.Store
	Broker          pubsub.Broker
	Router          *gin.Engine
	Running         *RunningServers
	closeManagement func(context.Context) error
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.closeManagement != nil {
		_ = s.closeManagement(ctx)
	}
	err := s.Running.Close(ctx)
	_ = s.Broker.Close()
	_ = s.Store.Close(ctx)
	return err
}

// StartServer initializes all subsystems and starts the HTTP server.
// Use cfg.Listener.Port=0 for a random port. Actual port: Server.Running.Port.
func StartServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	log.Info("Starting atomic service",
		"httpPort", cfg.Listener.Port,
		"db", cfg.DBName,
		"uploads", cfg.UploadDir,
	)

	// Initialize Prometheus metrics with configured constant labels.
	metricsLabels, err := security.ParseMetricsLabels(cfg.MetricsLabels)
	if err != nil {
		return nil, fmt.Errorf("invalid --metrics-labels: %w", err)
	}
	security.InitMetrics(metricsLabels)

	s, err := mongo.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	if cfg.DatastoreMigrateAtStart {
		if err := s.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
	}

	// Event broker: Redis when configured, in-process otherwise.
	var broker pubsub.Broker
	if cfg.RedisURL != "" {
		broker, err = pubsub.NewRedisBroker(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
	} else {
		broker = pubsub.NewMemoryBroker()
	}

	tokens := security.NewTokenResolver(cfg, s)
	var google *security.GoogleVerifier
	if cfg.GoogleClientID != "" {
		google = security.NewGoogleVerifier(cfg)
	}
	manager := uploads.NewManager(s, cfg.UploadDir, cfg.ServerURL)
	manager.MaxSize = cfg.UploadMaxSize
	res := resolver.New(
		s,
		manager,
		broker,
		mailer.New(cfg),
		tokens,
		google,
		cfg,
	)

	// Set up gin
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.ManagementAccessLog {
		router.Use(security.AccessLogMiddleware())
	} else {
		router.Use(security.AccessLogMiddleware("/health", "/ready", "/metrics"))
	}
	router.Use(security.MetricsMiddleware())
	router.Use(maxBodySizeMiddleware(cfg.MaxBodySize))
	if cfg.CORSEnabled {
		router.Use(corsMiddleware(cfg))
	}
	router.Use(security.AuthMiddleware(tokens))

	route.Mount(router, res)
	router.Static("/uploads", cfg.UploadDir)

	// Management endpoints. With a dedicated management port configured they
	// run on a bare gin engine served by the management server. Otherwise
	// they are mounted on the main router.
	var closeManagement func(context.Context) error
	if cfg.ManagementListenerEnabled {
		mgmtRouter := gin.New()
		mgmtRouter.Use(gin.Recovery())
		if cfg.ManagementAccessLog {
			mgmtRouter.Use(security.AccessLogMiddleware())
		}
		route.MountSystem(mgmtRouter)
		// Management listener shares TLS cert/key with the main listener.
		mgmtCfg := cfg.ManagementListener
		mgmtCfg.TLSCertFile = cfg.Listener.TLSCertFile
		mgmtCfg.TLSKeyFile = cfg.Listener.TLSKeyFile
		_, closeManagement, err = startManagementServer(mgmtCfg, mgmtRouter)
		if err != nil {
			return nil, fmt.Errorf("failed to start management server: %w", err)
		}
	} else {
		route.MountSystem(router)
	}

	// Background orphan sweep.
	compaction := service.NewCompactionService(s, cfg.CompactionInterval)
	go compaction.Start(ctx)

	running, err := StartSinglePortHTTP(ctx, cfg.Listener, router)
	if err != nil {
		return nil, err
	}

	log.Info("Server listening",
		"port", running.Port,
		"plaintext", cfg.Listener.EnablePlainText,
		"tls", cfg.Listener.EnableTLS,
	)

	route.MarkReady()
	return &Server{
		Config:          cfg,
		Store:           s,
		Broker:          broker,
		Router:          router,
		Running:         running,
		closeManagement: closeManagement,
	}, nil
}
