package algorithms

import "fmt"

// KHopOptions configures the k-hop neighbourhood traversal.
type KHopOptions struct {
	MaxHops    int // must be >= 1
	MaxResults int // 0 = unlimited; BFS order gives closer nodes priority
}

// KHopResult holds the BFS neighbourhood of a source node.
type KHopResult struct {
	SourceID       string           `json:"source"`
	ByHop          map[int][]string `json:"byHop"`     // hop distance → ids at that distance
	Distances      map[string]int   `json:"distances"` // id → shortest hop count
	TotalReachable int              `json:"totalReachable"`
}

// DefaultKHopOptions returns sensible defaults.
func DefaultKHopOptions() KHopOptions {
	return KHopOptions{MaxHops: 2}
}

type bfsEntry struct {
	id  string
	hop int
}

// KHopNeighbours performs a BFS from sourceID up to MaxHops levels,
// returning all discovered nodes grouped by distance.
// The source node is never included in results. An unknown source yields
// an empty result.
func KHopNeighbours(adj *Adjacency, sourceID string, opts KHopOptions) (*KHopResult, error) {
	if opts.MaxHops < 1 {
		return nil, fmt.Errorf("MaxHops must be >= 1, got %d", opts.MaxHops)
	}

	result := &KHopResult{
		SourceID:  sourceID,
		ByHop:     make(map[int][]string),
		Distances: make(map[string]int),
	}

	visited := map[string]bool{sourceID: true}
	queue := []bfsEntry{{id: sourceID, hop: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.hop >= opts.MaxHops {
			continue
		}
		nextHop := current.hop + 1

		for _, neighborID := range adj.neighborsOf(current.id) {
			if visited[neighborID] {
				continue
			}
			visited[neighborID] = true
			result.Distances[neighborID] = nextHop
			result.ByHop[nextHop] = append(result.ByHop[nextHop], neighborID)
			result.TotalReachable++

			if opts.MaxResults > 0 && result.TotalReachable >= opts.MaxResults {
				return result, nil
			}
			queue = append(queue, bfsEntry{id: neighborID, hop: nextHop})
		}
	}

	return result, nil
}

// NodesAtDistance returns the ids whose shortest distance from startID is
// exactly d, in level-order discovery order. d == 0 yields startID itself.
// The result is empty when the start is unknown or the frontier runs dry
// before depth d.
func NodesAtDistance(adj *Adjacency, startID string, d int) []string {
	if d == 0 {
		return []string{startID}
	}
	if d < 0 || !adj.Has(startID) {
		return []string{}
	}

	visited := map[string]bool{startID: true}
	level := []string{startID}

	for depth := 0; depth < d; depth++ {
		var next []string
		for _, id := range level {
			for _, neighborID := range adj.neighborsOf(id) {
				if !visited[neighborID] {
					visited[neighborID] = true
					next = append(next, neighborID)
				}
			}
		}
		if len(next) == 0 {
			return []string{}
		}
		level = next
	}

	return level
}
