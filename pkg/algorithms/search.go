package algorithms

import (
	"sort"
	"strings"

	"github.com/dd0wney/cluso-constellations/pkg/constellation"
	"github.com/dd0wney/cluso-constellations/pkg/genre"
)

// Search scores, best first.
const (
	ScoreExact      = 100
	ScorePrefix     = 80
	ScoreSubstring  = 60
	ScoreWordPrefix = 40
)

// DefaultSearchLimit caps SearchNodes when no limit is given.
const DefaultSearchLimit = 10

// SearchResult is a node matched by SearchNodes.
type SearchResult struct {
	Node  constellation.Node `json:"node"`
	Score int                `json:"score"`
}

// SearchNodes matches artist names against query, ignoring case and
// diacritics. Names equal to the query score highest, then names starting
// with it, then names containing it, then names where every query word
// starts some name word ("floyd pink" finds "Pink Floyd"). Equal scores
// keep node order.
func SearchNodes(query string, nodes []constellation.Node, limit int) []SearchResult {
	q := genre.NormalizeName(query)
	if q == "" {
		return []SearchResult{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	results := make([]SearchResult, 0)
	for _, n := range nodes {
		if score := matchScore(q, genre.NormalizeName(n.Name)); score > 0 {
			results = append(results, SearchResult{Node: n, Score: score})
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func matchScore(query, name string) int {
	switch {
	case name == query:
		return ScoreExact
	case strings.HasPrefix(name, query):
		return ScorePrefix
	case strings.Contains(name, query):
		return ScoreSubstring
	case wordsPrefixed(strings.Fields(query), strings.Fields(name)):
		return ScoreWordPrefix
	default:
		return 0
	}
}

// wordsPrefixed reports whether every query word starts some word of the
// name. Words match independently and in any order, so "floyd pink" finds
// "Pink Floyd"; matching only the whole query against a single name word
// would not.
func wordsPrefixed(queryWords, nameWords []string) bool {
	if len(queryWords) == 0 {
		return false
	}
	for _, qw := range queryWords {
		found := false
		for _, nw := range nameWords {
			if strings.HasPrefix(nw, qw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
