package constellation

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var propertyGenres = []string{"rock", "pop", "jazz", "folk", "metal", "punk", "soul"}

// randomInput builds n artists with random tags and, when withSimilarity is
// set, a random similarity table over their names.
func randomInput(seed int64, n int, withSimilarity bool) ([]Artist, SimilarityTable) {
	rng := rand.New(rand.NewSource(seed))
	artists := make([]Artist, n)
	for i := range artists {
		var genres []string
		for _, g := range propertyGenres {
			if rng.Intn(3) == 0 {
				genres = append(genres, g)
			}
		}
		artists[i] = Artist{ID: fmt.Sprintf("id%d", i), Name: fmt.Sprintf("Artist %d", i), Genres: genres}
	}
	if !withSimilarity || n == 0 {
		return artists, nil
	}
	table := SimilarityTable{}
	for i := range artists {
		for k := rng.Intn(8); k > 0; k-- {
			j := rng.Intn(n)
			table.Add(artists[i].Name, SimilarEntry{Name: artists[j].Name, Match: rng.Float64()})
		}
	}
	return artists, table
}

func checkStructure(g *Graph) error {
	ids := g.Lookup()
	seen := make(map[pairKey]bool)
	for _, l := range g.Links {
		if l.Source == l.Target {
			return fmt.Errorf("self loop on %s", l.Source)
		}
		key := makePairKey(l.Source, l.Target)
		if seen[key] {
			return fmt.Errorf("duplicate link %s-%s", l.Source, l.Target)
		}
		seen[key] = true
		if _, ok := ids[l.Source]; !ok {
			return fmt.Errorf("link source %s is not a node", l.Source)
		}
		if _, ok := ids[l.Target]; !ok {
			return fmt.Errorf("link target %s is not a node", l.Target)
		}
	}
	degree := g.Degree()
	for _, n := range g.Nodes {
		if degree[n.ID] == 0 {
			return fmt.Errorf("node %s has no links", n.ID)
		}
	}
	return nil
}

func TestGraphInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("genre mode graphs are well formed", prop.ForAll(
		func(seed int64, n int) bool {
			artists, _ := randomInput(seed, n, false)
			return checkStructure(Build(artists, nil)) == nil
		},
		gen.Int64(),
		gen.IntRange(0, 40),
	))

	properties.Property("similarity mode graphs are well formed", prop.ForAll(
		func(seed int64, n int) bool {
			artists, sim := randomInput(seed, n, true)
			return checkStructure(Build(artists, sim)) == nil
		},
		gen.Int64(),
		gen.IntRange(0, 40),
	))

	properties.Property("genre mode respects the degree cap", prop.ForAll(
		func(seed int64, n int) bool {
			artists, _ := randomInput(seed, n, false)
			for _, d := range Build(artists, nil).Degree() {
				if d > 8 {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(0, 40),
	))

	properties.Property("visible similarity links stay under the cap", prop.ForAll(
		func(seed int64, n int) bool {
			artists, sim := randomInput(seed, n, true)
			visible := make(map[string]int)
			for _, l := range Build(artists, sim).Links {
				if l.Kind == LinkSimilarity && l.Visible {
					visible[l.Source]++
					visible[l.Target]++
				}
			}
			for _, c := range visible {
				if c > 5 {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(0, 40),
	))

	properties.Property("build is deterministic", prop.ForAll(
		func(seed int64, n int) bool {
			artists, sim := randomInput(seed, n, true)
			a, b := Build(artists, sim), Build(artists, sim)
			if len(a.Links) != len(b.Links) || len(a.Nodes) != len(b.Nodes) {
				return false
			}
			for i := range a.Links {
				if a.Links[i].Source != b.Links[i].Source || a.Links[i].Target != b.Links[i].Target {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t)
}
