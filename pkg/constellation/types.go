package constellation

import "strings"

// Ownership records which side of a fusion an artist came from.
type Ownership string

const (
	OwnershipNone   Ownership = ""
	OwnershipMine   Ownership = "mine"
	OwnershipTheirs Ownership = "theirs"
	OwnershipBoth   Ownership = "both"
)

// Artist is one entry of a ranked listening history. Its rank is its
// position in the slice handed to the builder; lower index = more played.
type Artist struct {
	ID         string    `json:"id" yaml:"id" validate:"required"`
	Name       string    `json:"name" yaml:"name" validate:"required"`
	Genres     []string  `json:"genres" yaml:"genres"`
	Popularity int       `json:"popularity,omitempty" yaml:"popularity,omitempty"`
	ImageURL   string    `json:"image,omitempty" yaml:"image,omitempty"`
	ProfileURL string    `json:"url,omitempty" yaml:"url,omitempty"`
	PlayCount  int       `json:"playcount,omitempty" yaml:"playcount,omitempty"`
	Source     string    `json:"source,omitempty" yaml:"source,omitempty"`
	Ownership  Ownership `json:"ownership,omitempty" yaml:"ownership,omitempty"`
}

// SimilarEntry is one "sounds like" hit for an artist, Match in [0,1].
type SimilarEntry struct {
	Name  string  `json:"name" yaml:"name"`
	Match float64 `json:"match" yaml:"match"`
}

// SimilarityTable maps a lowercased artist name to its similar artists.
type SimilarityTable map[string][]SimilarEntry

// SimilarityKey is the table key for an artist name.
func SimilarityKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Add appends entries under the normalized key for name.
func (t SimilarityTable) Add(name string, entries ...SimilarEntry) {
	key := SimilarityKey(name)
	t[key] = append(t[key], entries...)
}

// Node is an artist that survived graph construction.
type Node struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Genres       []string  `json:"genres"`
	Size         float64   `json:"val"`
	Color        string    `json:"color"`
	PrimaryGenre string    `json:"primaryGenre"`
	Rank         int       `json:"rank"`
	Popularity   int       `json:"popularity,omitempty"`
	ImageURL     string    `json:"image,omitempty"`
	ProfileURL   string    `json:"url,omitempty"`
	PlayCount    int       `json:"playcount,omitempty"`
	Source       string    `json:"source,omitempty"`
	Ownership    Ownership `json:"ownership,omitempty"`
}

// LinkKind tells how an edge was derived.
type LinkKind string

const (
	LinkSimilarity LinkKind = "similarity"
	LinkGenre      LinkKind = "genre"
)

// Link is an undirected edge. Hidden similarity links (Visible == false)
// still take part in pathfinding; only rendering drops them.
type Link struct {
	Source       string   `json:"source"`
	Target       string   `json:"target"`
	Kind         LinkKind `json:"type"`
	Weight       float64  `json:"value"`
	SharedGenres []string `json:"sharedGenres,omitempty"`
	Visible      bool     `json:"visible"`
}

// Cluster is a genre shared by enough nodes to earn a label and a color.
type Cluster struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	NodeCount  int    `json:"nodeCount"`
	ColorIndex int    `json:"colorIndex"`
	Color      string `json:"color"`
}

// Graph is one constellation: nodes, links and genre clusters.
type Graph struct {
	Nodes    []Node    `json:"nodes"`
	Links    []Link    `json:"links"`
	Clusters []Cluster `json:"genreClusters"`
}

// Stats summarises a graph.
type Stats struct {
	Nodes           int `json:"nodes"`
	Links           int `json:"links"`
	SimilarityLinks int `json:"similarityLinks"`
	GenreLinks      int `json:"genreLinks"`
	HiddenLinks     int `json:"hiddenLinks"`
	Clusters        int `json:"clusters"`
}
