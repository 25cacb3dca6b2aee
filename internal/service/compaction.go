package service

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/atomiccms/atomic-service/internal/security"
	"github.com/atomiccms/atomic-service/internal/store"
)

// CompactionService periodically removes documents whose mandatory
// references no longer resolve. Reads never filter orphans, so this pass is
// the only thing that removes them.
type CompactionService struct {
	store    store.Store
	interval time.Duration
}

func NewCompactionService(s store.Store, interval time.Duration) *CompactionService {
	return &CompactionService{store: s, interval: interval}
}

// Start blocks until ctx is done, compacting every interval. A zero or
// negative interval disables the service.
func (s *CompactionService) Start(ctx context.Context) {
	if s == nil || s.store == nil || s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single compaction pass.
func (s *CompactionService) RunOnce(ctx context.Context) {
	stats, err := s.store.CompactOrphans(ctx)
	if err != nil {
		log.Error("Compaction pass failed", "err", err)
		security.CompactionRunsTotal.WithLabelValues("error").Inc()
		return
	}
	for collection, deleted := range stats {
		if deleted > 0 {
			security.CompactionDeletedTotal.WithLabelValues(collection).Add(float64(deleted))
		}
	}
	security.CompactionRunsTotal.WithLabelValues("ok").Inc()
	if total := stats.Total(); total > 0 {
		log.Info("Compaction pass removed orphans", "deleted", total)
	}
}
