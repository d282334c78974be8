package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	counter, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("Failed to get metric %v: %v", labels, err)
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var metric dto.Metric
	if err := h.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.GraphBuildsTotal == nil || r.PathQueriesTotal == nil || r.CatalogEntries == nil {
		t.Error("domain metrics not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordBuild(t *testing.T) {
	r := NewRegistry()

	r.RecordBuild("similarity", 3*time.Millisecond, 40, 120, 30)
	r.RecordBuild("similarity", 2*time.Millisecond, 10, 20, 0)
	r.RecordBuild("genre", time.Millisecond, 5, 4, 0)

	if got := counterValue(t, r.GraphBuildsTotal, "similarity"); got != 2 {
		t.Errorf("similarity builds = %v, want 2", got)
	}
	if got := counterValue(t, r.GraphBuildsTotal, "genre"); got != 1 {
		t.Errorf("genre builds = %v, want 1", got)
	}

	observer, err := r.GraphNodes.GetMetricWithLabelValues("similarity")
	if err != nil {
		t.Fatalf("GraphNodes: %v", err)
	}
	if got := histogramCount(t, observer.(prometheus.Histogram)); got != 2 {
		t.Errorf("GraphNodes samples = %d, want 2", got)
	}
}

func TestRecordPathQuery(t *testing.T) {
	r := NewRegistry()

	r.RecordPathQuery("shortest_path", true)
	r.RecordPathQuery("shortest_path", false)
	r.RecordPathQuery("shortest_path", false)

	if got := counterValue(t, r.PathQueriesTotal, "shortest_path", ResultFound); got != 1 {
		t.Errorf("found = %v, want 1", got)
	}
	if got := counterValue(t, r.PathQueriesTotal, "shortest_path", ResultNotFound); got != 2 {
		t.Errorf("not found = %v, want 2", got)
	}
}

func TestRecordChallenge(t *testing.T) {
	r := NewRegistry()

	r.RecordChallenge(true, 3, 4)
	r.RecordChallenge(false, 50, 0)

	if got := counterValue(t, r.ChallengesTotal, ResultOK); got != 1 {
		t.Errorf("ok = %v, want 1", got)
	}
	if got := counterValue(t, r.ChallengesTotal, ResultNotFound); got != 1 {
		t.Errorf("not found = %v, want 1", got)
	}
	if got := histogramCount(t, r.ChallengeAttempts); got != 2 {
		t.Errorf("attempt samples = %d, want 2", got)
	}
	if got := histogramCount(t, r.ChallengeHops); got != 1 {
		t.Errorf("hop samples = %d, want 1 (failures are not observed)", got)
	}
}

func TestRecordStoreOperation(t *testing.T) {
	r := NewRegistry()

	r.RecordStoreOperation("file", "save", nil, time.Millisecond)
	r.RecordStoreOperation("file", "save", errors.New("disk full"), time.Millisecond)

	if got := counterValue(t, r.StoreOpsTotal, "file", "save", ResultOK); got != 1 {
		t.Errorf("ok saves = %v, want 1", got)
	}
	if got := counterValue(t, r.StoreOpsTotal, "file", "save", ResultError); got != 1 {
		t.Errorf("failed saves = %v, want 1", got)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	r := NewRegistry()

	r.RecordCacheLookup(true)
	r.RecordCacheLookup(true)
	r.RecordCacheLookup(false)

	if got := counterValue(t, r.SnapshotCacheTotal, "hit"); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := counterValue(t, r.SnapshotCacheTotal, "miss"); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.RecordHTTPRequest("POST", "/path", "200", 5*time.Millisecond)
	r.SetActiveSessions(3)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	text := string(body)
	for _, want := range []string{
		"constellation_http_requests_total",
		"constellation_sessions_active 3",
		"constellation_uptime_seconds",
		"constellation_goroutines",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("scrape output missing %q", want)
		}
	}
}
