package constellation

// Lookup indexes the nodes by id.
func (g *Graph) Lookup() map[string]Node {
	lookup := make(map[string]Node, len(g.Nodes))
	for _, n := range g.Nodes {
		lookup[n.ID] = n
	}
	return lookup
}

// Degree counts links per node id, hidden links included.
func (g *Graph) Degree() map[string]int {
	degree := make(map[string]int, len(g.Nodes))
	for _, l := range g.Links {
		degree[l.Source]++
		degree[l.Target]++
	}
	return degree
}

// VisibleLinks returns the links a renderer should draw.
func (g *Graph) VisibleLinks() []Link {
	visible := make([]Link, 0, len(g.Links))
	for _, l := range g.Links {
		if l.Visible {
			visible = append(visible, l)
		}
	}
	return visible
}

// Stats summarises the graph.
func (g *Graph) Stats() Stats {
	s := Stats{
		Nodes:    len(g.Nodes),
		Links:    len(g.Links),
		Clusters: len(g.Clusters),
	}
	for _, l := range g.Links {
		switch l.Kind {
		case LinkSimilarity:
			s.SimilarityLinks++
		case LinkGenre:
			s.GenreLinks++
		}
		if !l.Visible {
			s.HiddenLinks++
		}
	}
	return s
}

// IsEmpty reports whether the graph has no nodes.
func (g *Graph) IsEmpty() bool {
	return g == nil || len(g.Nodes) == 0
}
