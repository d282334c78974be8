// Package constellation turns a ranked artist list, optionally paired with a
// similarity table, into a node-link graph with genre clusters.
//
// Building is a pure function of its input. Nothing is mutated after it is
// returned; callers that need a different constellation (a fusion, a refresh
// with images) build a new artist list and call Build again.
package constellation

import (
	"math"

	"github.com/dd0wney/cluso-constellations/pkg/genre"
)

// Mode names the edge construction strategy picked for an input.
type Mode string

const (
	ModeGenre      Mode = "genre"
	ModeSimilarity Mode = "similarity"
)

// BuildOptions tunes graph construction. The zero value is not useful;
// start from DefaultBuildOptions.
type BuildOptions struct {
	MaxGenreDegree    int     `yaml:"max_genre_degree" json:"maxGenreDegree"`       // genre-only mode degree cap
	MaxVisibleSimilar int     `yaml:"max_visible_similar" json:"maxVisibleSimilar"` // visible similarity links per node
	FallbackLinks     int     `yaml:"fallback_links" json:"fallbackLinks"`          // genre links granted to isolated nodes
	MinClusterSize    int     `yaml:"min_cluster_size" json:"minClusterSize"`
	MaxClusters       int     `yaml:"max_clusters" json:"maxClusters"`
	MinNodeSize       float64 `yaml:"min_node_size" json:"minNodeSize"`
	MaxNodeSize       float64 `yaml:"max_node_size" json:"maxNodeSize"`
}

// DefaultBuildOptions returns the stock tuning.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		MaxGenreDegree:    8,
		MaxVisibleSimilar: 5,
		FallbackLinks:     5,
		MinClusterSize:    3,
		MaxClusters:       24,
		MinNodeSize:       2,
		MaxNodeSize:       15,
	}
}

// ModeFor reports which edge mode Build will use for the given table.
func ModeFor(similarity SimilarityTable) Mode {
	if len(similarity) == 0 {
		return ModeGenre
	}
	return ModeSimilarity
}

// Build constructs a graph with the default options.
func Build(artists []Artist, similarity SimilarityTable) *Graph {
	return BuildWithOptions(artists, similarity, DefaultBuildOptions())
}

// entry is an artist prepared for linking: normalized tags, original rank.
type entry struct {
	artist Artist
	rank   int
	genres []string
}

// BuildWithOptions constructs a graph. It never fails: unknown similarity
// names, empty tag lists and duplicate ids are skipped or defaulted.
func BuildWithOptions(artists []Artist, similarity SimilarityTable, opts BuildOptions) *Graph {
	graph := &Graph{
		Nodes:    []Node{},
		Links:    []Link{},
		Clusters: []Cluster{},
	}

	entries := prepareEntries(artists)
	if len(entries) == 0 {
		return graph
	}

	links := newLinkSet()
	switch ModeFor(similarity) {
	case ModeGenre:
		addGenreLinks(entries, links, opts.MaxGenreDegree)
	case ModeSimilarity:
		addSimilarityLinks(entries, similarity, links, opts.MaxVisibleSimilar)
		addFallbackLinks(entries, links, opts.FallbackLinks)
	}

	survivors := make([]entry, 0, len(entries))
	for _, e := range entries {
		if links.degree[e.artist.ID] > 0 {
			survivors = append(survivors, e)
		}
	}

	clusters := computeClusters(survivors, opts.MinClusterSize, opts.MaxClusters)
	colors := make(map[string]string, len(clusters))
	for _, c := range clusters {
		colors[c.ID] = c.Color
	}

	total := len(artists)
	for _, e := range survivors {
		graph.Nodes = append(graph.Nodes, newNode(e, total, colors, opts))
	}
	graph.Links = links.links
	graph.Clusters = clusters

	return graph
}

// prepareEntries drops artists without an id and repeats of an id seen
// earlier. Ranks keep the original slice position.
func prepareEntries(artists []Artist) []entry {
	entries := make([]entry, 0, len(artists))
	seen := make(map[string]struct{}, len(artists))
	for i, a := range artists {
		if a.ID == "" {
			continue
		}
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		entries = append(entries, entry{
			artist: a,
			rank:   i,
			genres: genre.Dedupe(a.Genres),
		})
	}
	return entries
}

// NodeSize maps a rank to a render size. The 1.5 exponent gives the most
// played artists an accelerating lead over the long tail.
func NodeSize(rank, total int, minSize, maxSize float64) float64 {
	if total <= 0 {
		return minSize
	}
	normalized := 1 - float64(rank)/float64(total)
	return minSize + (maxSize-minSize)*math.Pow(normalized, 1.5)
}

func newNode(e entry, total int, colors map[string]string, opts BuildOptions) Node {
	color, primary := DefaultColor, ""
	for _, g := range e.genres {
		if c, ok := colors[g]; ok {
			color, primary = c, g
			break
		}
	}
	if primary == "" {
		primary = "unknown"
		if len(e.genres) > 0 {
			primary = e.genres[0]
		}
	}

	a := e.artist
	return Node{
		ID:           a.ID,
		Name:         a.Name,
		Genres:       e.genres,
		Size:         NodeSize(e.rank, total, opts.MinNodeSize, opts.MaxNodeSize),
		Color:        color,
		PrimaryGenre: primary,
		Rank:         e.rank,
		Popularity:   a.Popularity,
		ImageURL:     a.ImageURL,
		ProfileURL:   a.ProfileURL,
		PlayCount:    a.PlayCount,
		Source:       a.Source,
		Ownership:    a.Ownership,
	}
}
