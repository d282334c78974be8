// Package genre holds the tag helpers shared by the graph builder, the
// cluster labeller and artist search.
package genre

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LabelSeparator joins blended tags in a composite cluster label.
const LabelSeparator = " / "

// Normalize lowercases a tag, trims it and collapses internal whitespace.
func Normalize(tag string) string {
	return strings.Join(strings.Fields(strings.ToLower(tag)), " ")
}

// NormalizeName folds an artist name for matching: lowercase, accents
// stripped, surrounding whitespace removed. "Björk " and "bjork" compare equal.
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, strings.ToLower(name))
	if err != nil {
		folded = strings.ToLower(name)
	}
	return strings.TrimSpace(folded)
}

// Format title-cases a tag for display. Only the first rune of each
// space-separated word is changed, so "hip-hop" becomes "Hip-hop".
func Format(tag string) string {
	words := strings.Split(tag, " ")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if r == utf8.RuneError {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// Blend builds a composite label out of up to max distinct tags.
// A max of zero or less keeps every tag.
func Blend(tags []string, max int) string {
	distinct := Dedupe(tags)
	if max > 0 && len(distinct) > max {
		distinct = distinct[:max]
	}
	for i, t := range distinct {
		distinct[i] = Format(t)
	}
	return strings.Join(distinct, LabelSeparator)
}

// Dedupe normalizes tags, dropping empties and repeats while keeping order.
func Dedupe(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		n := Normalize(t)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Shared returns the tags of a that also appear in b, in a's order.
// len(Shared(a, b)) is the shared-genre score between two artists.
func Shared(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	inB := make(map[string]struct{}, len(b))
	for _, t := range b {
		inB[t] = struct{}{}
	}
	var shared []string
	for _, t := range a {
		if _, ok := inB[t]; ok {
			shared = append(shared, t)
		}
	}
	return shared
}
