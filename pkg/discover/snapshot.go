package discover

import (
	"time"

	"github.com/dd0wney/cluso-constellations/pkg/algorithms"
	"github.com/dd0wney/cluso-constellations/pkg/constellation"
)

// Key identifies a catalog entry.
type Key struct {
	Kind Kind
	ID   string
}

func (k Key) String() string {
	return string(k.Kind) + ":" + k.ID
}

// Snapshot is the derived, read-only view of one entry: its graph plus the
// indexes the path engine needs. Snapshots are shared between requests and
// must not be modified.
type Snapshot struct {
	Key       Key
	Graph     *constellation.Graph
	Adjacency *algorithms.Adjacency
	Lookup    map[string]constellation.Node
	BuiltAt   time.Time
}

func newSnapshot(key Key, graph *constellation.Graph, builtAt time.Time) *Snapshot {
	return &Snapshot{
		Key:       key,
		Graph:     graph,
		Adjacency: algorithms.BuildAdjacency(graph.Links),
		Lookup:    graph.Lookup(),
		BuiltAt:   builtAt,
	}
}
