package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Graph construction
	GraphBuildsTotal   *prometheus.CounterVec
	GraphBuildDuration *prometheus.HistogramVec
	GraphNodes         *prometheus.HistogramVec
	GraphLinks         *prometheus.HistogramVec
	GraphHiddenLinks   *prometheus.HistogramVec

	// Path engine and challenges
	PathQueriesTotal   *prometheus.CounterVec
	ChallengesTotal    *prometheus.CounterVec
	ChallengeAttempts  prometheus.Histogram
	ChallengeHops      prometheus.Histogram
	SessionsActive     prometheus.Gauge
	SessionMovesTotal  *prometheus.CounterVec

	// Constellation catalog
	CatalogEntries     *prometheus.GaugeVec
	SnapshotCacheTotal *prometheus.CounterVec
	StoreOpsTotal      *prometheus.CounterVec
	StoreOpDuration    *prometheus.HistogramVec
	EventsTotal        *prometheus.CounterVec

	// System Metrics
	UptimeSeconds prometheus.Gauge
	GoRoutines    prometheus.Gauge

	registry  *prometheus.Registry
	startTime time.Time
	mu        sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry:  prometheus.NewRegistry(),
		startTime: time.Now(),
	}

	r.initHTTPMetrics()
	r.initGraphMetrics()
	r.initPathMetrics()
	r.initCatalogMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format, refreshing
// the system gauges on every scrape.
func (r *Registry) Handler() http.Handler {
	inner := promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.UpdateSystemMetrics()
		inner.ServeHTTP(w, req)
	})
}
