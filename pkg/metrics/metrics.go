package metrics

import (
	"runtime"
	"time"
)

// Outcome labels shared by several counters
const (
	ResultFound    = "found"
	ResultNotFound = "not_found"
	ResultOK       = "ok"
	ResultError    = "error"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncHTTPRequestsInFlight marks a request as started
func (r *Registry) IncHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Inc()
}

// DecHTTPRequestsInFlight marks a request as finished
func (r *Registry) DecHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Dec()
}

// RecordBuild records one graph build
func (r *Registry) RecordBuild(mode string, duration time.Duration, nodes, links, hidden int) {
	r.GraphBuildsTotal.WithLabelValues(mode).Inc()
	r.GraphBuildDuration.WithLabelValues(mode).Observe(duration.Seconds())
	r.GraphNodes.WithLabelValues(mode).Observe(float64(nodes))
	r.GraphLinks.WithLabelValues(mode).Observe(float64(links))
	r.GraphHiddenLinks.WithLabelValues(mode).Observe(float64(hidden))
}

// RecordPathQuery records a path engine query
func (r *Registry) RecordPathQuery(operation string, found bool) {
	result := ResultNotFound
	if found {
		result = ResultFound
	}
	r.PathQueriesTotal.WithLabelValues(operation, result).Inc()
}

// RecordChallenge records a challenge request. hops is ignored when the
// generator gave up.
func (r *Registry) RecordChallenge(generated bool, attempts, hops int) {
	r.ChallengeAttempts.Observe(float64(attempts))
	if !generated {
		r.ChallengesTotal.WithLabelValues(ResultNotFound).Inc()
		return
	}
	r.ChallengesTotal.WithLabelValues(ResultOK).Inc()
	r.ChallengeHops.Observe(float64(hops))
}

// RecordMove records a game move outcome ("moved", "won", "rejected", "undo")
func (r *Registry) RecordMove(result string) {
	r.SessionMovesTotal.WithLabelValues(result).Inc()
}

// SetActiveSessions sets the number of live game sessions
func (r *Registry) SetActiveSessions(n int) {
	r.SessionsActive.Set(float64(n))
}

// SetCatalogEntries sets the entry count for one constellation kind
func (r *Registry) SetCatalogEntries(kind string, n int) {
	r.CatalogEntries.WithLabelValues(kind).Set(float64(n))
}

// RecordCacheLookup records a snapshot cache hit or miss
func (r *Registry) RecordCacheLookup(hit bool) {
	if hit {
		r.SnapshotCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	r.SnapshotCacheTotal.WithLabelValues("miss").Inc()
}

// RecordStoreOperation records a persistence call
func (r *Registry) RecordStoreOperation(backend, operation string, err error, duration time.Duration) {
	status := ResultOK
	if err != nil {
		status = ResultError
	}
	r.StoreOpsTotal.WithLabelValues(backend, operation, status).Inc()
	r.StoreOpDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// RecordEvent records a catalog change event; origin is "local" or "remote"
func (r *Registry) RecordEvent(origin, action string) {
	r.EventsTotal.WithLabelValues(origin, action).Inc()
}

// UpdateSystemMetrics refreshes uptime and goroutine gauges
func (r *Registry) UpdateSystemMetrics() {
	r.mu.RLock()
	start := r.startTime
	r.mu.RUnlock()

	r.UptimeSeconds.Set(time.Since(start).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
}
