package constellation

import (
	"time"

	"github.com/dd0wney/cluso-constellations/pkg/logging"
	"github.com/dd0wney/cluso-constellations/pkg/metrics"
)

// Builder wraps BuildWithOptions with logging and metrics. It holds no
// graph state and is safe for concurrent use.
type Builder struct {
	opts    BuildOptions
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewBuilder creates a builder. A nil logger discards output and a nil
// registry disables metrics.
func NewBuilder(opts BuildOptions, logger logging.Logger, registry *metrics.Registry) *Builder {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Builder{
		opts:    opts,
		logger:  logger.With(logging.Component("constellation")),
		metrics: registry,
	}
}

// Options returns the tuning this builder was created with.
func (b *Builder) Options() BuildOptions {
	return b.opts
}

// Build constructs a graph and records how it went.
func (b *Builder) Build(artists []Artist, similarity SimilarityTable) *Graph {
	mode := ModeFor(similarity)
	start := time.Now()

	graph := BuildWithOptions(artists, similarity, b.opts)

	elapsed := time.Since(start)
	stats := graph.Stats()
	if b.metrics != nil {
		b.metrics.RecordBuild(string(mode), elapsed, stats.Nodes, stats.Links, stats.HiddenLinks)
	}
	b.logger.Debug("constellation built",
		logging.Mode(string(mode)),
		logging.Int("artists", len(artists)),
		logging.Int("nodes", stats.Nodes),
		logging.Int("links", stats.Links),
		logging.Int("hidden_links", stats.HiddenLinks),
		logging.Int("clusters", stats.Clusters),
		logging.Latency(elapsed),
	)
	return graph
}
