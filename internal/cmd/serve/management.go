package serve

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/atomiccms/atomic-service/internal/config"
)

// startManagementServer serves the probe and metrics endpoints on a
// dedicated port. Kubelet probes and Prometheus scrapers speak plain
// HTTP/1.1, so unlike the public listener this port does no protocol
// multiplexing: it is either plain-text or TLS, TLS winning when both
// are enabled. Returns the bound address and a shutdown function.
func startManagementServer(cfg config.ListenerConfig, handler http.Handler) (net.Addr, func(context.Context) error, error) {
	if cfg.ReadHeaderTimeout == 0 {
		cfg.ReadHeaderTimeout = 5 * time.Second
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return nil, nil, fmt.Errorf("management listen failed: %w", err)
	}

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
	serveLis := lis
	if cfg.EnableTLS {
		cert, err := loadServerCertificate(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			_ = lis.Close()
			return nil, nil, err
		}
		serveLis = tls.NewListener(lis, &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		})
	}
	go func() {
		if err := server.Serve(serveLis); err != nil && err != http.ErrServerClosed {
			log.Error("management server failed", "err", err)
		}
	}()

	var closeOnce sync.Once
	closeFn := func(ctx context.Context) error {
		var shutdownErr error
		closeOnce.Do(func() {
			if err := server.Shutdown(ctx); err != nil && err != context.Canceled {
				shutdownErr = err
			}
			_ = lis.Close()
		})
		return shutdownErr
	}

	log.Info("Management server listening", "addr", lis.Addr(), "tls", cfg.EnableTLS)
	return lis.Addr(), closeFn, nil
}
