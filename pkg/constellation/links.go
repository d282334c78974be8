package constellation

import (
	"math"
	"sort"

	"github.com/dd0wney/cluso-constellations/pkg/genre"
)

// pairKey identifies an unordered pair of node ids.
type pairKey struct {
	lo, hi string
}

func makePairKey(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// linkSet accumulates links, refusing self loops and repeated pairs.
type linkSet struct {
	links  []Link
	keys   map[pairKey]struct{}
	degree map[string]int
}

func newLinkSet() *linkSet {
	return &linkSet{
		links:  []Link{},
		keys:   make(map[pairKey]struct{}),
		degree: make(map[string]int),
	}
}

func (s *linkSet) has(a, b string) bool {
	_, ok := s.keys[makePairKey(a, b)]
	return ok
}

func (s *linkSet) add(l Link) bool {
	if l.Source == l.Target || s.has(l.Source, l.Target) {
		return false
	}
	s.keys[makePairKey(l.Source, l.Target)] = struct{}{}
	s.links = append(s.links, l)
	s.degree[l.Source]++
	s.degree[l.Target]++
	return true
}

// candidate is a potential link between entries i and j.
type candidate struct {
	i, j   int
	weight float64
	shared []string
}

// sortCandidates orders by weight, strongest first. The sort is stable so
// equal weights keep the order in which pairs were generated; output is
// reproducible for a given input order.
func sortCandidates(c []candidate) {
	sort.SliceStable(c, func(a, b int) bool {
		return c[a].weight > c[b].weight
	})
}

func genreLink(entries []entry, c candidate) Link {
	return Link{
		Source:       entries[c.i].artist.ID,
		Target:       entries[c.j].artist.ID,
		Kind:         LinkGenre,
		Weight:       c.weight,
		SharedGenres: c.shared,
		Visible:      true,
	}
}

// addGenreLinks is the genre-only mode: every pair sharing a tag competes,
// strongest first, and a pair is admitted only while both endpoints are
// below maxDegree genre links. Greedy, not a maximum-weight matching.
func addGenreLinks(entries []entry, links *linkSet, maxDegree int) {
	var candidates []candidate
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			shared := genre.Shared(entries[i].genres, entries[j].genres)
			if len(shared) == 0 {
				continue
			}
			candidates = append(candidates, candidate{i: i, j: j, weight: float64(len(shared)), shared: shared})
		}
	}
	sortCandidates(candidates)

	degree := make([]int, len(entries))
	for _, c := range candidates {
		if degree[c.i] >= maxDegree || degree[c.j] >= maxDegree {
			continue
		}
		if links.add(genreLink(entries, c)) {
			degree[c.i]++
			degree[c.j]++
		}
	}
}

// addSimilarityLinks turns the similarity table into links. Every resolved
// pair becomes a link; only the strongest ones, up to maxVisible per node,
// are flagged visible.
func addSimilarityLinks(entries []entry, table SimilarityTable, links *linkSet, maxVisible int) {
	byName := make(map[string]int, len(entries))
	for i, e := range entries {
		key := SimilarityKey(e.artist.Name)
		if _, ok := byName[key]; !ok {
			byName[key] = i
		}
	}

	var candidates []candidate
	index := make(map[pairKey]int)
	for i, e := range entries {
		for _, s := range table[SimilarityKey(e.artist.Name)] {
			j, ok := byName[SimilarityKey(s.Name)]
			if !ok || j == i {
				continue
			}
			match := clampMatch(s.Match)
			key := makePairKey(e.artist.ID, entries[j].artist.ID)
			if at, dup := index[key]; dup {
				if match > candidates[at].weight {
					candidates[at].weight = match
				}
				continue
			}
			index[key] = len(candidates)
			candidates = append(candidates, candidate{i: i, j: j, weight: match})
		}
	}
	sortCandidates(candidates)

	visible := make([]int, len(entries))
	for _, c := range candidates {
		show := visible[c.i] < maxVisible && visible[c.j] < maxVisible
		added := links.add(Link{
			Source:  entries[c.i].artist.ID,
			Target:  entries[c.j].artist.ID,
			Kind:    LinkSimilarity,
			Weight:  c.weight * 10,
			Visible: show,
		})
		if added && show {
			visible[c.i]++
			visible[c.j]++
		}
	}
}

// addFallbackLinks gives artists left isolated by the similarity pass up to
// limit genre links each, scored against the whole artist set.
func addFallbackLinks(entries []entry, links *linkSet, limit int) {
	var isolated []int
	for i, e := range entries {
		if links.degree[e.artist.ID] == 0 {
			isolated = append(isolated, i)
		}
	}

	for _, i := range isolated {
		var candidates []candidate
		for j := range entries {
			if j == i {
				continue
			}
			shared := genre.Shared(entries[i].genres, entries[j].genres)
			if len(shared) == 0 {
				continue
			}
			candidates = append(candidates, candidate{i: i, j: j, weight: float64(len(shared)), shared: shared})
		}
		sortCandidates(candidates)

		added := 0
		for _, c := range candidates {
			if added >= limit {
				break
			}
			if links.add(genreLink(entries, c)) {
				added++
			}
		}
	}
}

func clampMatch(m float64) float64 {
	switch {
	case math.IsNaN(m) || m < 0:
		return 0
	case m > 1:
		return 1
	default:
		return m
	}
}
