package security

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// CompactionDeletedTotal counts orphaned documents removed by the
	// compaction pass, labeled by collection.
	CompactionDeletedTotal *prometheus.CounterVec

	// CompactionRunsTotal counts compaction passes by outcome.
	CompactionRunsTotal *prometheus.CounterVec

	// UploadsWrittenTotal counts uploads stored to disk.
	UploadsWrittenTotal prometheus.Counter

	// EventsPublishedTotal counts published subscription events by topic.
	EventsPublishedTotal *prometheus.CounterVec
)

var validLabelKey = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ParseMetricsLabels parses a comma-separated list of key=value pairs into
// Prometheus labels. Values support ${VAR} / $VAR environment variable expansion.
// Label values may not contain commas. Returns nil for an empty string.
func ParseMetricsLabels(s string) (prometheus.Labels, error) {
	s = os.Expand(s, os.Getenv)
	if s == "" {
		return nil, nil
	}
	labels := prometheus.Labels{}
	for _, pair := range strings.Split(s, ",") {
		idx := strings.IndexByte(pair, '=')
		if idx < 0 {
			return nil, fmt.Errorf("invalid label %q: expected key=value", pair)
		}
		k, v := pair[:idx], pair[idx+1:]
		if !validLabelKey.MatchString(k) {
			return nil, fmt.Errorf("invalid label key %q: must match [a-zA-Z_][a-zA-Z0-9_]*", k)
		}
		labels[k] = v
	}
	return labels, nil
}

var initMetricsOnce sync.Once

// InitMetrics registers all Prometheus metrics with the given constant labels.
// Must be called before starting the HTTP server or any background service
// that records metrics. Safe to call multiple times; only the first call registers.
func InitMetrics(constLabels prometheus.Labels) {
	initMetricsOnce.Do(func() {
		initMetricsInner(constLabels)
	})
}

func initMetricsInner(constLabels prometheus.Labels) {
	reg := prometheus.WrapRegistererWith(constLabels, prometheus.DefaultRegisterer)
	f := promauto.With(reg)

	httpRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atomic_service_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "status"},
	)

	httpRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "atomic_service_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	CompactionDeletedTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atomic_service_compaction_deleted_total",
			Help: "Orphaned documents deleted by the compaction pass",
		},
		[]string{"collection"},
	)

	CompactionRunsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atomic_service_compaction_runs_total",
			Help: "Compaction passes by outcome",
		},
		[]string{"outcome"},
	)

	UploadsWrittenTotal = f.NewCounter(prometheus.CounterOpts{
		Name: "atomic_service_uploads_written_total",
		Help: "Uploads stored to disk",
	})

	EventsPublishedTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atomic_service_events_published_total",
			Help: "Subscription events published by topic",
		},
		[]string{"topic"},
	)
}

// MetricsMiddleware records HTTP request metrics for Prometheus.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if httpRequestsTotal == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		httpRequestsTotal.WithLabelValues(c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method).Observe(duration.Seconds())
	}
}
