package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-constellations/pkg/constellation"
)

// Rand is the randomness a challenge draws from. *math/rand/v2.Rand
// satisfies it; tests pass a seeded one.
type Rand interface {
	IntN(n int) int
}

// ChallengeOptions tunes challenge generation.
type ChallengeOptions struct {
	MinHops       int  `json:"minHops" yaml:"min_hops"`
	MaxHops       int  `json:"maxHops" yaml:"max_hops"`
	PreferPopular bool `json:"preferPopular" yaml:"prefer_popular"`
	MaxAttempts   int  `json:"maxAttempts" yaml:"max_attempts"`
	PopularPool   int  `json:"popularPool" yaml:"popular_pool"` // start drawn from the N largest nodes
}

// DefaultChallengeOptions returns the stock tuning.
func DefaultChallengeOptions() ChallengeOptions {
	return ChallengeOptions{
		MinHops:       3,
		MaxHops:       6,
		PreferPopular: true,
		MaxAttempts:   50,
		PopularPool:   20,
	}
}

// Challenge is a start/target pair with a known shortest route.
type Challenge struct {
	Start       constellation.Node `json:"start"`
	Target      constellation.Node `json:"target"`
	OptimalPath []string           `json:"optimalPath"`
	OptimalHops int                `json:"optimalHops"`
	Attempts    int                `json:"attempts"`
}

type challengeCandidate struct {
	id       string
	distance int
}

// GenerateChallenge picks a random start and a target between MinHops and
// MaxHops away. Each attempt draws a start, gathers every node at each
// distance in range (a node is listed once per distance it appears at,
// which weights the draw towards the distances with the most nodes), draws
// a target and verifies it with ShortestPath. The verified hop count is
// only checked against MinHops. Returns nil with fewer than two nodes or
// when every attempt fails.
func GenerateChallenge(nodes []constellation.Node, adj *Adjacency, opts ChallengeOptions, rng Rand) *Challenge {
	if len(nodes) < 2 {
		return nil
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultChallengeOptions().MaxAttempts
	}
	if opts.PopularPool <= 0 {
		opts.PopularPool = DefaultChallengeOptions().PopularPool
	}

	sorted := make([]constellation.Node, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Size > sorted[b].Size
	})

	byID := make(map[string]constellation.Node, len(nodes))
	for _, n := range nodes {
		if _, ok := byID[n.ID]; !ok {
			byID[n.ID] = n
		}
	}

	pool := len(sorted)
	if opts.PreferPopular && opts.PopularPool < pool {
		pool = opts.PopularPool
	}

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		start := sorted[rng.IntN(pool)]

		var candidates []challengeCandidate
		for d := opts.MinHops; d <= opts.MaxHops; d++ {
			for _, id := range NodesAtDistance(adj, start.ID, d) {
				candidates = append(candidates, challengeCandidate{id: id, distance: d})
			}
		}
		if len(candidates) == 0 {
			continue
		}

		picked := candidates[rng.IntN(len(candidates))]
		target, ok := byID[picked.id]
		if !ok {
			continue
		}

		path := ShortestPath(adj, start.ID, target.ID)
		if path != nil && len(path)-1 >= opts.MinHops {
			return &Challenge{
				Start:       start,
				Target:      target,
				OptimalPath: path,
				OptimalHops: len(path) - 1,
				Attempts:    attempt,
			}
		}
	}

	return nil
}
