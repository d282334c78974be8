package algorithms

import "github.com/dd0wney/cluso-constellations/pkg/constellation"

// Adjacency is an undirected neighbour index over node ids. Neighbours are
// kept in the order their links were first seen, so traversals are
// reproducible for a given link list. An Adjacency is never modified after
// it is built and may be shared between goroutines.
type Adjacency struct {
	index     map[string]int
	ids       []string
	neighbors [][]string
	sets      []map[string]struct{}
}

// BuildAdjacency indexes every link in both directions. Hidden links are
// included: visibility is a rendering concern.
func BuildAdjacency(links []constellation.Link) *Adjacency {
	adj := newAdjacency(len(links))
	for _, l := range links {
		adj.connect(l.Source, l.Target)
	}
	return adj
}

// BuildAdjacencyFromPairs indexes ad-hoc id pairs.
func BuildAdjacencyFromPairs(pairs [][2]string) *Adjacency {
	adj := newAdjacency(len(pairs))
	for _, p := range pairs {
		adj.connect(p[0], p[1])
	}
	return adj
}

func newAdjacency(sizeHint int) *Adjacency {
	return &Adjacency{
		index: make(map[string]int, sizeHint),
		ids:   make([]string, 0, sizeHint),
	}
}

func (a *Adjacency) slot(id string) int {
	if i, ok := a.index[id]; ok {
		return i
	}
	i := len(a.ids)
	a.index[id] = i
	a.ids = append(a.ids, id)
	a.neighbors = append(a.neighbors, nil)
	a.sets = append(a.sets, make(map[string]struct{}))
	return i
}

// connect registers both endpoints; a self loop registers the node only.
func (a *Adjacency) connect(from, to string) {
	fi, ti := a.slot(from), a.slot(to)
	if from == to {
		return
	}
	a.insert(fi, to)
	a.insert(ti, from)
}

func (a *Adjacency) insert(i int, id string) {
	if _, ok := a.sets[i][id]; ok {
		return
	}
	a.sets[i][id] = struct{}{}
	a.neighbors[i] = append(a.neighbors[i], id)
}

// neighborsOf returns the internal slice; callers must not modify it.
func (a *Adjacency) neighborsOf(id string) []string {
	if a == nil {
		return nil
	}
	if i, ok := a.index[id]; ok {
		return a.neighbors[i]
	}
	return nil
}

// Has reports whether id appears in at least one link.
func (a *Adjacency) Has(id string) bool {
	if a == nil {
		return false
	}
	_, ok := a.index[id]
	return ok
}

// Neighbors returns a copy of id's neighbours in insertion order.
func (a *Adjacency) Neighbors(id string) []string {
	n := a.neighborsOf(id)
	out := make([]string, len(n))
	copy(out, n)
	return out
}

// Contains reports whether a and b are directly linked.
func (a *Adjacency) Contains(from, to string) bool {
	if a == nil {
		return false
	}
	i, ok := a.index[from]
	if !ok {
		return false
	}
	_, linked := a.sets[i][to]
	return linked
}

// Degree returns the number of distinct neighbours of id.
func (a *Adjacency) Degree(id string) int {
	return len(a.neighborsOf(id))
}

// Len returns the number of indexed ids.
func (a *Adjacency) Len() int {
	if a == nil {
		return 0
	}
	return len(a.ids)
}

// IDs returns every indexed id in first-seen order.
func (a *Adjacency) IDs() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.ids))
	copy(out, a.ids)
	return out
}
