package discover

import (
	"sort"
	"time"

	"github.com/dd0wney/cluso-constellations/pkg/constellation"
	"github.com/dd0wney/cluso-constellations/pkg/genre"
)

// Kind separates the user's own constellation from the ones discovered
// from other listeners and the fusions of the two.
type Kind string

const (
	KindOriginal   Kind = "original"
	KindDiscovered Kind = "discovered"
	KindFused      Kind = "fused"
)

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindOriginal, KindDiscovered, KindFused:
		return k, nil
	default:
		return "", ErrInvalidKind
	}
}

// OriginalKey is the key of the single original entry.
const OriginalKey = "original"

// StaleAfter is how long a discovered entry stays fresh.
const StaleAfter = 7 * 24 * time.Hour

// TopGenreCount is the number of genres kept in Stats.
const TopGenreCount = 3

// SelfUser stands for the catalog owner in SourceUsers.
const SelfUser = "_self"

// Stats summarises an entry for listings.
type Stats struct {
	ArtistCount     int      `json:"artistCount"`
	ConnectionCount int      `json:"connectionCount"`
	TopGenres       []string `json:"topGenres"`
}

// Entry is one constellation in the catalog. Only the artist list is
// persisted; graphs are derived on demand.
type Entry struct {
	Kind         Kind                          `json:"kind"`
	Key          string                        `json:"key"` // username, fused id or OriginalKey
	Name         string                        `json:"name"`
	Username     string                        `json:"username,omitempty"`
	FusionType   FusionType                    `json:"fusionType,omitempty"`
	SourceUsers  []string                      `json:"sourceUsers,omitempty"`
	CreatedAt    time.Time                     `json:"createdAt"`
	LoadedAt     time.Time                     `json:"loadedAt"`
	LastChecked  time.Time                     `json:"lastChecked"`
	ImagesLoaded bool                          `json:"imagesLoaded"`
	Artists      []constellation.Artist        `json:"artists"`
	Similarity   constellation.SimilarityTable `json:"similarity,omitempty"`
	Stats        Stats                         `json:"stats"`
}

// IsOutdated reports whether the entry was last checked more than
// StaleAfter before now. Entries never checked are not outdated.
func (e *Entry) IsOutdated(now time.Time) bool {
	if e.LastChecked.IsZero() {
		return false
	}
	return now.Sub(e.LastChecked) > StaleAfter
}

// Summary returns a copy without the artist list and similarity table.
func (e *Entry) Summary() Entry {
	s := *e
	s.Artists = nil
	s.Similarity = nil
	return s
}

// TopGenres returns the limit most common tags, ties in first-seen order.
func TopGenres(artists []constellation.Artist, limit int) []string {
	counts := make(map[string]int)
	var order []string
	for _, a := range artists {
		for _, g := range genre.Dedupe(a.Genres) {
			if counts[g] == 0 {
				order = append(order, g)
			}
			counts[g]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if limit >= 0 && len(order) > limit {
		order = order[:limit]
	}
	if order == nil {
		order = []string{}
	}
	return order
}

func computeStats(artists []constellation.Artist, graph *constellation.Graph) Stats {
	return Stats{
		ArtistCount:     len(artists),
		ConnectionCount: len(graph.Links),
		TopGenres:       TopGenres(artists, TopGenreCount),
	}
}
