package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCatalogMetrics() {
	r.CatalogEntries = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "constellation_catalog_entries",
			Help: "Constellations held by the catalog",
		},
		[]string{"kind"},
	)

	r.SnapshotCacheTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "constellation_snapshot_cache_total",
			Help: "Snapshot cache lookups",
		},
		[]string{"result"},
	)

	r.StoreOpsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "constellation_store_operations_total",
			Help: "Catalog persistence operations",
		},
		[]string{"backend", "operation", "status"},
	)

	r.StoreOpDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "constellation_store_operation_duration_seconds",
			Help:    "Catalog persistence latency",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"backend", "operation"},
	)

	r.EventsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "constellation_events_total",
			Help: "Catalog change events by origin",
		},
		[]string{"origin", "action"},
	)
}
