package validation

import (
	"github.com/dd0wney/cluso-constellations/pkg/algorithms"
	"github.com/dd0wney/cluso-constellations/pkg/constellation"
)

// MaxChallengeHops bounds challenge hop ranges accepted from clients.
const MaxChallengeHops = 20

// ValidateBuildOptions checks builder tuning.
func ValidateBuildOptions(opts constellation.BuildOptions) error {
	return NewConfigValidator("BuildOptions").
		Positive("MaxGenreDegree", opts.MaxGenreDegree).
		NonNegative("MaxVisibleSimilar", opts.MaxVisibleSimilar).
		NonNegative("FallbackLinks", opts.FallbackLinks).
		Positive("MinClusterSize", opts.MinClusterSize).
		RangeInt("MaxClusters", opts.MaxClusters, 0, len(constellation.Palette)).
		PositiveFloat("MinNodeSize", opts.MinNodeSize).
		Custom("MaxNodeSize", func() error {
			if opts.MaxNodeSize < opts.MinNodeSize {
				return errNodeSizes
			}
			return nil
		}).
		Validate()
}

// ValidateChallengeOptions requires at least one hop and a non-empty range.
func ValidateChallengeOptions(opts algorithms.ChallengeOptions) error {
	return NewConfigValidator("ChallengeOptions").
		RangeInt("MinHops", opts.MinHops, 1, MaxChallengeHops).
		RangeInt("MaxHops", opts.MaxHops, 1, MaxChallengeHops).
		AtLeastField("MaxHops", opts.MaxHops, "MinHops", opts.MinHops).
		Positive("MaxAttempts", opts.MaxAttempts).
		Positive("PopularPool", opts.PopularPool).
		Validate()
}

// ValidateKHopOptions checks neighbourhood query bounds.
func ValidateKHopOptions(opts algorithms.KHopOptions) error {
	return NewConfigValidator("KHopOptions").
		RangeInt("MaxHops", opts.MaxHops, 1, MaxNeighbourHops).
		NonNegative("MaxResults", opts.MaxResults).
		Validate()
}
