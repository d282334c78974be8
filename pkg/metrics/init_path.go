package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPathMetrics() {
	r.PathQueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "constellation_path_queries_total",
			Help: "Path engine queries by operation and outcome",
		},
		[]string{"operation", "result"},
	)

	r.ChallengesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "constellation_challenges_total",
			Help: "Challenge generation outcomes",
		},
		[]string{"result"},
	)

	r.ChallengeAttempts = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "constellation_challenge_attempts",
			Help:    "Sampling attempts used per challenge request",
			Buckets: []float64{1, 2, 5, 10, 20, 50},
		},
	)

	r.ChallengeHops = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "constellation_challenge_optimal_hops",
			Help:    "Optimal hop count of generated challenges",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 10},
		},
	)

	r.SessionsActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "constellation_sessions_active",
			Help: "Connections game sessions currently held",
		},
	)

	r.SessionMovesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "constellation_session_moves_total",
			Help: "Game moves by outcome",
		},
		[]string{"result"},
	)
}
