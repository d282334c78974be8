package middleware

import (
	"net/http"
	"strconv"
	"time"
)

// MetricsRecorder is the slice of the metrics registry the middleware needs.
type MetricsRecorder interface {
	RecordHTTPRequest(method, route, status string, duration time.Duration)
	IncHTTPRequestsInFlight()
	DecHTTPRequestsInFlight()
}

// unmatchedRoute labels requests the mux did not route, keeping the label
// set bounded.
const unmatchedRoute = "unmatched"

// Metrics records request count, latency and in-flight gauge per route
// pattern. It must wrap the ServeMux directly so the matched pattern is
// visible on the request afterwards.
func Metrics(recorder MetricsRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder.IncHTTPRequestsInFlight()
			defer recorder.DecHTTPRequestsInFlight()

			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			route := r.Pattern
			if route == "" {
				route = unmatchedRoute
			}
			recorder.RecordHTTPRequest(r.Method, route, strconv.Itoa(sw.statusCode), time.Since(start))
		})
	}
}
