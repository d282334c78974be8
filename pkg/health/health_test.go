package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func staticCheck(status Status) CheckFunc {
	return func(ctx context.Context) Check {
		return Check{Status: status}
	}
}

func TestNewChecker(t *testing.T) {
	c := NewChecker(0)
	if c.timeout != DefaultTimeout {
		t.Errorf("Expected default timeout %v, got %v", DefaultTimeout, c.timeout)
	}

	resp := c.Readiness(context.Background())
	if resp.Status != StatusHealthy {
		t.Errorf("Expected healthy with no checks, got %s", resp.Status)
	}
	if len(resp.Checks) != 0 {
		t.Errorf("Expected no checks, got %d", len(resp.Checks))
	}
}

func TestReadinessAndLivenessAreSeparate(t *testing.T) {
	c := NewChecker(time.Second)
	readyCalled, liveCalled := false, false
	c.RegisterReadiness("ready", func(ctx context.Context) Check {
		readyCalled = true
		return Check{Status: StatusHealthy}
	})
	c.RegisterLiveness("live", func(ctx context.Context) Check {
		liveCalled = true
		return Check{Status: StatusHealthy}
	})

	c.Liveness(context.Background())
	if readyCalled {
		t.Error("Readiness check ran for Liveness()")
	}
	if !liveCalled {
		t.Error("Liveness check did not run")
	}

	resp := c.Readiness(context.Background())
	if !readyCalled {
		t.Error("Readiness check did not run")
	}
	check, ok := resp.Checks["ready"]
	if !ok {
		t.Fatal("Readiness result missing")
	}
	if check.Name != "ready" {
		t.Errorf("Expected check name to be filled in, got %q", check.Name)
	}
}

func TestWorstStatusWins(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		expected Status
	}{
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"one unhealthy", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker(time.Second)
			for i, s := range tt.statuses {
				c.RegisterReadiness(string(rune('a'+i)), staticCheck(s))
			}
			if got := c.Readiness(context.Background()).Status; got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestChecksSeeDeadline(t *testing.T) {
	c := NewChecker(50 * time.Millisecond)
	c.RegisterReadiness("slow", func(ctx context.Context) Check {
		if _, ok := ctx.Deadline(); !ok {
			return Check{Status: StatusUnhealthy, Message: "no deadline"}
		}
		<-ctx.Done()
		return Check{Status: StatusUnhealthy, Message: ctx.Err().Error()}
	})

	start := time.Now()
	resp := c.Readiness(context.Background())
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Check ignored the timeout, took %v", elapsed)
	}
	if resp.Checks["slow"].Message != context.DeadlineExceeded.Error() {
		t.Errorf("Expected deadline exceeded, got %q", resp.Checks["slow"].Message)
	}
}

func TestStoreCheck(t *testing.T) {
	ctx := context.Background()

	if got := StoreCheck("memory", nil)(ctx); got.Status != StatusHealthy {
		t.Errorf("Expected healthy local store, got %s", got.Status)
	}

	ok := StoreCheck("postgres", func(ctx context.Context) error { return nil })(ctx)
	if ok.Status != StatusHealthy || ok.Message != "Connected" {
		t.Errorf("Expected connected, got %+v", ok)
	}

	down := StoreCheck("postgres", func(ctx context.Context) error { return errors.New("connection refused") })(ctx)
	if down.Status != StatusUnhealthy {
		t.Errorf("Expected unhealthy, got %s", down.Status)
	}
	if down.Details["backend"] != "postgres" {
		t.Errorf("Expected backend detail, got %v", down.Details)
	}
}

func TestCatalogCheck(t *testing.T) {
	ctx := context.Background()

	empty := CatalogCheck(func() (string, int) { return "", 0 })(ctx)
	if empty.Status != StatusDegraded {
		t.Errorf("Expected degraded without an original, got %s", empty.Status)
	}

	loaded := CatalogCheck(func() (string, int) { return "me", 3 })(ctx)
	if loaded.Status != StatusHealthy {
		t.Errorf("Expected healthy, got %s", loaded.Status)
	}
	if loaded.Details["owner"] != "me" || loaded.Details["entries"] != 3 {
		t.Errorf("Unexpected details %v", loaded.Details)
	}
}

func TestSessionsCheck(t *testing.T) {
	tests := []struct {
		live, max int
		expected  Status
	}{
		{0, 1000, StatusHealthy},
		{899, 1000, StatusHealthy},
		{900, 1000, StatusDegraded},
		{1000, 1000, StatusDegraded},
		{5, 0, StatusHealthy},
	}
	for _, tt := range tests {
		got := SessionsCheck(func() (int, int) { return tt.live, tt.max })(context.Background())
		if got.Status != tt.expected {
			t.Errorf("live=%d max=%d: expected %s, got %s", tt.live, tt.max, tt.expected, got.Status)
		}
	}
}

func TestMemoryCheck(t *testing.T) {
	ctx := context.Background()

	if got := MemoryCheck(func() (uint64, uint64) { return 50, 100 })(ctx); got.Status != StatusHealthy {
		t.Errorf("Expected healthy at 50%%, got %s", got.Status)
	}
	if got := MemoryCheck(func() (uint64, uint64) { return 95, 100 })(ctx); got.Status != StatusDegraded {
		t.Errorf("Expected degraded at 95%%, got %s", got.Status)
	}
	if got := MemoryCheck(nil)(ctx); got.Details["sysBytes"] == uint64(0) {
		t.Error("Expected runtime memory stats")
	}
}

func TestHandlers(t *testing.T) {
	c := NewChecker(time.Second)
	c.RegisterReadiness("catalog", staticCheck(StatusDegraded))
	c.RegisterLiveness("memory", staticCheck(StatusUnhealthy))

	rr := httptest.NewRecorder()
	c.ReadinessHandler()(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("Degraded readiness should still be 200, got %d", rr.Code)
	}
	var resp Response
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Status != StatusDegraded {
		t.Errorf("Expected degraded, got %s", resp.Status)
	}
	if rr.Header().Get("Cache-Control") != "no-store" {
		t.Error("Expected Cache-Control: no-store")
	}

	rr = httptest.NewRecorder()
	c.LivenessHandler()(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 for unhealthy liveness, got %d", rr.Code)
	}
}
