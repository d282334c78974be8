package main

import (
	"fmt"

	"github.com/dd0wney/cluso-constellations/pkg/algorithms"
	"github.com/dd0wney/cluso-constellations/pkg/constellation"
)

// loaded is a built constellation ready for queries.
type loaded struct {
	*constellation.Listening
	graph  *constellation.Graph
	adj    *algorithms.Adjacency
	lookup map[string]constellation.Node
}

func load(path string, opts constellation.BuildOptions) (*loaded, error) {
	l, err := constellation.ReadListening(path)
	if err != nil {
		return nil, err
	}
	return buildLoaded(l, opts), nil
}

func buildLoaded(l *constellation.Listening, opts constellation.BuildOptions) *loaded {
	graph := constellation.BuildWithOptions(l.Artists, l.Similarity, opts)
	return &loaded{
		Listening: l,
		graph:     graph,
		adj:       algorithms.BuildAdjacency(graph.Links),
		lookup:    graph.Lookup(),
	}
}

// resolve accepts an artist id or an exact (case-insensitive) name.
func (c *loaded) resolve(ref string) (constellation.Node, error) {
	if n, ok := c.lookup[ref]; ok {
		return n, nil
	}
	results := algorithms.SearchNodes(ref, c.graph.Nodes, 1)
	if len(results) == 1 && results[0].Score == algorithms.ScoreExact {
		return results[0].Node, nil
	}
	return constellation.Node{}, fmt.Errorf("no artist %q in this constellation", ref)
}
