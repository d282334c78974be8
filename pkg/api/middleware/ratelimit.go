package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dd0wney/cluso-constellations/pkg/logging"
)

// RateLimitConfig configures rate limiting
type RateLimitConfig struct {
	RequestsPerSecond float64       // Rate of token replenishment
	BurstSize         int           // Bucket capacity
	CleanupInterval   time.Duration // How often idle clients are dropped
	ClientExpiration  time.Duration // Idle time after which a client is forgotten
	MaxClients        int           // Cap on tracked clients
}

// DefaultRateLimitConfig returns sensible defaults for rate limiting
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerSecond: 50,
		BurstSize:         100,
		CleanupInterval:   5 * time.Minute,
		ClientExpiration:  10 * time.Minute,
		MaxClients:        100000,
	}
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client.
type RateLimiter struct {
	config   RateLimitConfig
	mu       sync.Mutex
	clients  map[string]*client
	now      func() time.Time
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a limiter and starts its cleanup loop. Call Stop
// to end the loop.
func NewRateLimiter(config *RateLimitConfig) *RateLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	rl := &RateLimiter{
		config:   *config,
		clients:  make(map[string]*client),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	if rl.config.CleanupInterval > 0 {
		go rl.cleanupLoop()
	}
	return rl
}

// Allow takes a token for clientID. New clients are refused once
// MaxClients are tracked.
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mu.Lock()
	now := rl.now()
	c, ok := rl.clients[clientID]
	if !ok {
		if rl.config.MaxClients > 0 && len(rl.clients) >= rl.config.MaxClients {
			rl.mu.Unlock()
			return false
		}
		c = &client{limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize)}
		rl.clients[clientID] = c
	}
	c.lastSeen = now
	rl.mu.Unlock()

	return c.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopChan:
			return
		}
	}
}

// cleanup forgets clients idle for longer than ClientExpiration and
// returns how many were dropped.
func (rl *RateLimiter) cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.config.ClientExpiration)
	removed := 0
	for id, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, id)
			removed++
		}
	}
	return removed
}

// Clients returns the number of tracked clients.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopChan) })
}

// ClientIDFunc is a function that extracts a client identifier from a request
type ClientIDFunc func(*http.Request) string

// RateLimit answers 429 with a Retry-After header once a client runs out of
// tokens. A nil limiter disables the middleware.
func RateLimit(limiter *RateLimiter, getClientID ClientIDFunc, logger logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		limit := strconv.FormatFloat(limiter.config.RequestsPerSecond, 'f', -1, 64)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := getClientID(r)
			if !limiter.Allow(clientID) {
				logger.Debug("rate limit exceeded",
					logging.String("client", clientID),
					logging.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", "1")
				w.Header().Set("X-RateLimit-Limit", limit)
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded, retry after 1 second")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
