package discover

import "github.com/dd0wney/cluso-constellations/pkg/constellation"

// FusionType selects how two listening histories are combined.
type FusionType string

const (
	FusionUnion        FusionType = "union"
	FusionIntersection FusionType = "intersection"
)

// Valid reports whether t is a known fusion type.
func (t FusionType) Valid() bool {
	return t == FusionUnion || t == FusionIntersection
}

// FuseUnion merges two artist lists by id. Artists keep my order, followed
// by theirs not already present; ownership records which side had them.
// Images are dropped: a fused constellation loads its own.
func FuseUnion(mine, theirs []constellation.Artist) []constellation.Artist {
	index := make(map[string]int, len(mine)+len(theirs))
	fused := make([]constellation.Artist, 0, len(mine)+len(theirs))

	for _, a := range mine {
		if _, dup := index[a.ID]; dup {
			continue
		}
		index[a.ID] = len(fused)
		fused = append(fused, withOwnership(a, constellation.OwnershipMine))
	}
	for _, a := range theirs {
		if i, ok := index[a.ID]; ok {
			fused[i].Ownership = constellation.OwnershipBoth
			continue
		}
		index[a.ID] = len(fused)
		fused = append(fused, withOwnership(a, constellation.OwnershipTheirs))
	}
	return fused
}

// FuseIntersection keeps my artists that also appear in theirs, in my order.
func FuseIntersection(mine, theirs []constellation.Artist) []constellation.Artist {
	theirIDs := make(map[string]struct{}, len(theirs))
	for _, a := range theirs {
		theirIDs[a.ID] = struct{}{}
	}

	fused := make([]constellation.Artist, 0)
	for _, a := range mine {
		if _, ok := theirIDs[a.ID]; ok {
			fused = append(fused, withOwnership(a, constellation.OwnershipBoth))
		}
	}
	return fused
}

// Fuse dispatches on t.
func Fuse(t FusionType, mine, theirs []constellation.Artist) ([]constellation.Artist, error) {
	switch t {
	case FusionUnion:
		return FuseUnion(mine, theirs), nil
	case FusionIntersection:
		return FuseIntersection(mine, theirs), nil
	default:
		return nil, ErrInvalidFusion
	}
}

func withOwnership(a constellation.Artist, o constellation.Ownership) constellation.Artist {
	a.Ownership = o
	a.ImageURL = ""
	a.Genres = append([]string(nil), a.Genres...)
	return a
}

// StripImages returns a copy of artists without image URLs.
func StripImages(artists []constellation.Artist) []constellation.Artist {
	out := make([]constellation.Artist, len(artists))
	for i, a := range artists {
		a.ImageURL = ""
		out[i] = a
	}
	return out
}
