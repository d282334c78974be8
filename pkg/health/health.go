// Package health runs liveness and readiness probes for the API server.
package health

import (
	"context"
	"time"
)

// DefaultTimeout bounds one round of checks.
const DefaultTimeout = 2 * time.Second

// NewChecker creates a checker with no probes. A zero timeout uses
// DefaultTimeout.
func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{
		readyChecks: make(map[string]CheckFunc),
		liveChecks:  make(map[string]CheckFunc),
		timeout:     timeout,
		started:     time.Now(),
		now:         time.Now,
	}
}

// RegisterReadiness adds a probe that must pass before traffic is sent.
func (c *Checker) RegisterReadiness(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readyChecks[name] = check
}

// RegisterLiveness adds a probe whose failure means the process should be
// restarted.
func (c *Checker) RegisterLiveness(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.liveChecks[name] = check
}

// Readiness runs the readiness probes.
func (c *Checker) Readiness(ctx context.Context) Response {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.run(ctx, c.readyChecks)
}

// Liveness runs the liveness probes.
func (c *Checker) Liveness(ctx context.Context) Response {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.run(ctx, c.liveChecks)
}

// run executes checks in turn; the worst status wins.
func (c *Checker) run(ctx context.Context, checks map[string]CheckFunc) Response {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	now := c.now()
	response := Response{
		Status:    StatusHealthy,
		Timestamp: now,
		Checks:    make(map[string]Check, len(checks)),
		Uptime:    now.Sub(c.started).Round(time.Second).String(),
	}

	for name, fn := range checks {
		start := c.now()
		check := fn(ctx)
		check.Name = name
		check.LastChecked = start
		check.Duration = c.now().Sub(start)
		response.Checks[name] = check

		switch check.Status {
		case StatusUnhealthy:
			response.Status = StatusUnhealthy
		case StatusDegraded:
			if response.Status != StatusUnhealthy {
				response.Status = StatusDegraded
			}
		}
	}
	return response
}
