package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sizeBuckets = []float64{0, 10, 25, 50, 100, 250, 500, 1000, 2500}

func (r *Registry) initGraphMetrics() {
	r.GraphBuildsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "constellation_graph_builds_total",
			Help: "Graph builds by edge mode",
		},
		[]string{"mode"},
	)

	r.GraphBuildDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "constellation_graph_build_duration_seconds",
			Help:    "Time spent building a graph",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"mode"},
	)

	r.GraphNodes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "constellation_graph_nodes",
			Help:    "Surviving nodes per built graph",
			Buckets: sizeBuckets,
		},
		[]string{"mode"},
	)

	r.GraphLinks = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "constellation_graph_links",
			Help:    "Links per built graph",
			Buckets: sizeBuckets,
		},
		[]string{"mode"},
	)

	r.GraphHiddenLinks = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "constellation_graph_hidden_links",
			Help:    "Similarity links over the visible cap per built graph",
			Buckets: sizeBuckets,
		},
		[]string{"mode"},
	)
}
