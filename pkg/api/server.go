// Package api serves constellations, path queries and Connections games
// over HTTP.
package api

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dd0wney/cluso-constellations/pkg/algorithms"
	"github.com/dd0wney/cluso-constellations/pkg/api/middleware"
	"github.com/dd0wney/cluso-constellations/pkg/config"
	"github.com/dd0wney/cluso-constellations/pkg/connections"
	"github.com/dd0wney/cluso-constellations/pkg/discover"
	"github.com/dd0wney/cluso-constellations/pkg/graphql"
	"github.com/dd0wney/cluso-constellations/pkg/health"
	"github.com/dd0wney/cluso-constellations/pkg/logging"
	"github.com/dd0wney/cluso-constellations/pkg/metrics"
	tlsconfig "github.com/dd0wney/cluso-constellations/pkg/tls"
)

// Version is reported by /health.
const Version = "1.0.0"

// metricsInterval is how often runtime gauges are refreshed.
const metricsInterval = 10 * time.Second

// ServerOptions wires a Server. Catalog is required; everything else has a
// default. Store is only probed by the readiness check.
type ServerOptions struct {
	Catalog   *discover.Catalog
	Store     discover.Store
	Sessions  *connections.Manager
	Config    config.ServerConfig
	Challenge algorithms.ChallengeOptions
	Logger    logging.Logger
	Metrics   *metrics.Registry
	Version   string
}

// Server represents the HTTP API server
type Server struct {
	catalog         *discover.Catalog
	sessions        *connections.Manager
	graphqlHandler  *graphql.GraphQLHandler
	health          *health.Checker
	limiter         *middleware.RateLimiter
	trustedProxies  []*net.IPNet
	tlsConfig       *tls.Config
	metricsRegistry *metrics.Registry
	logger          logging.Logger
	cfg             config.ServerConfig
	challenge       algorithms.ChallengeOptions
	startTime       time.Time
	version         string
	handler         http.Handler
}

// NewServer creates a new API server
func NewServer(opts ServerOptions) (*Server, error) {
	if opts.Catalog == nil {
		return nil, errors.New("api: catalog is required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRegistry()
	}
	if opts.Sessions == nil {
		opts.Sessions = connections.NewManager(connections.DefaultMaxSessions, nil, opts.Logger, opts.Metrics)
	}
	if opts.Version == "" {
		opts.Version = Version
	}
	if opts.Challenge == (algorithms.ChallengeOptions{}) {
		opts.Challenge = algorithms.DefaultChallengeOptions()
	}
	if opts.Config.Port == 0 {
		opts.Config = config.Default().Server
	}

	schema, err := graphql.GenerateSchema(opts.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to generate GraphQL schema: %w", err)
	}
	proxies, err := middleware.ParseTrustedProxies(opts.Config.TrustedProxies)
	if err != nil {
		return nil, err
	}

	tlsCfg, cert, err := tlsconfig.Load(opts.Config.TLS)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger.With(logging.Component("api"))
	if cert != nil {
		logger.Info("TLS enabled",
			logging.String("subject", cert.Subject),
			logging.Bool("self_signed", cert.SelfSigned),
			logging.Duration("expires_in", cert.ExpiresIn()),
		)
	}
	s := &Server{
		catalog:         opts.Catalog,
		sessions:        opts.Sessions,
		graphqlHandler:  graphql.NewGraphQLHandler(schema, logger),
		health:          newHealthChecker(opts),
		trustedProxies:  proxies,
		tlsConfig:       tlsCfg,
		metricsRegistry: opts.Metrics,
		logger:          logger,
		cfg:             opts.Config,
		challenge:       opts.Challenge,
		startTime:       time.Now(),
		version:         opts.Version,
	}
	if rl := opts.Config.RateLimit; rl.RequestsPerSecond > 0 {
		limits := middleware.DefaultRateLimitConfig()
		limits.RequestsPerSecond = rl.RequestsPerSecond
		limits.BurstSize = rl.Burst
		s.limiter = middleware.NewRateLimiter(limits)
	}
	s.handler = s.buildHandler()
	return s, nil
}

func newHealthChecker(opts ServerOptions) *health.Checker {
	checker := health.NewChecker(0)

	backend := config.StoreMemory
	var ping func(ctx context.Context) error
	if opts.Store != nil {
		backend = opts.Store.Name()
		if p, ok := opts.Store.(discover.Pinger); ok {
			ping = p.Ping
		}
	}
	checker.RegisterReadiness("store", health.StoreCheck(backend, ping))
	checker.RegisterReadiness("catalog", health.CatalogCheck(func() (string, int) {
		return opts.Catalog.Owner(), len(opts.Catalog.List())
	}))
	checker.RegisterReadiness("sessions", health.SessionsCheck(func() (int, int) {
		return opts.Sessions.Len(), opts.Sessions.Max()
	}))
	checker.RegisterLiveness("memory", health.MemoryCheck(nil))
	return checker
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Health and metrics
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/ready", s.health.ReadinessHandler())
	mux.HandleFunc("GET /health/live", s.health.LivenessHandler())
	mux.Handle("GET /metrics", s.metricsRegistry.Handler())

	// Catalog
	mux.HandleFunc("POST /graph", s.handleBuildGraph)
	mux.HandleFunc("GET /constellations", s.handleListConstellations)
	mux.HandleFunc("POST /constellations/discover", s.handleDiscover)
	mux.HandleFunc("POST /constellations/fuse", s.handleFuse)
	mux.HandleFunc("GET /constellations/{kind}/{key}", s.handleGetConstellation)
	mux.HandleFunc("DELETE /constellations/{kind}/{key}", s.handleDeleteConstellation)
	mux.HandleFunc("PUT /constellations/discovered/{key}", s.handleRefreshDiscovered)
	mux.HandleFunc("POST /constellations/{kind}/{key}/images", s.handleSetImages)

	// Path engine
	mux.HandleFunc("POST /path", s.handlePath)
	mux.HandleFunc("POST /neighbours", s.handleNeighbours)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /components", s.handleComponents)

	// Connections game
	mux.HandleFunc("POST /challenge", s.handleNewChallenge)
	mux.HandleFunc("GET /challenge/{id}", s.handleGetChallenge)
	mux.HandleFunc("POST /challenge/{id}/move", s.handleMove)
	mux.HandleFunc("POST /challenge/{id}/undo", s.handleUndo)
	mux.HandleFunc("POST /challenge/{id}/giveup", s.handleGiveUp)
	mux.HandleFunc("DELETE /challenge/{id}", s.handleEndChallenge)

	mux.HandleFunc("POST /layout", s.handleLayout)
	mux.Handle("POST /graphql", s.graphqlHandler)

	return mux
}

func (s *Server) buildHandler() http.Handler {
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = s.cfg.AllowedOrigins

	var handler http.Handler = s.routes()
	handler = middleware.Metrics(s.metricsRegistry)(handler)
	handler = middleware.RateLimit(s.limiter, middleware.ClientIP(s.trustedProxies), s.logger)(handler)
	handler = middleware.BodySizeLimit(s.cfg.MaxBodyBytes)(handler)
	handler = middleware.SecurityHeaders()(handler)
	handler = middleware.CORS(cors)(handler)
	handler = middleware.Logging(s.logger)(handler)
	handler = middleware.RequestID()(handler)
	handler = middleware.PanicRecovery(s.logger)(handler)
	return handler
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves on the configured port until ctx is cancelled, then shuts down
// within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
		TLSConfig:         s.tlsConfig,
	}

	metricsCtx, stopMetrics := context.WithCancel(ctx)
	defer stopMetrics()
	go s.updateMetricsPeriodically(metricsCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("constellation API listening",
			logging.String("addr", addr),
			logging.Bool("tls", s.tlsConfig != nil),
			logging.String("version", s.version),
		)
		if s.tlsConfig != nil {
			errCh <- srv.ListenAndServeTLS("", "")
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases background resources. It does not stop a running Run.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

func (s *Server) updateMetricsPeriodically(ctx context.Context) {
	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	for {
		s.metricsRegistry.UpdateSystemMetrics()
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
