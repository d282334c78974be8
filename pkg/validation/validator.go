// Package validation checks API requests with struct tags and configuration
// with a fluent collector.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/cluso-constellations/pkg/algorithms"
	"github.com/dd0wney/cluso-constellations/pkg/constellation"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Request limits
	MaxArtists       = 5000
	MaxSimilarNames  = 5000
	MaxUsernameLen   = 64
	MaxQueryLength   = 200
	MaxSearchResults = 100
	MaxNeighbourHops = 6

	errNodeSizes = errors.New("must not be below MinNodeSize")
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// ConstellationRef names a catalog entry. An empty kind means the original.
type ConstellationRef struct {
	Kind string `json:"kind" validate:"omitempty,oneof=original discovered fused"`
	Key  string `json:"key" validate:"max=128"`
}

// BuildRequest installs the owner's constellation.
type BuildRequest struct {
	Username   string                        `json:"username" validate:"max=64"`
	Artists    []constellation.Artist        `json:"artists" validate:"required,min=1,max=5000,dive"`
	Similarity constellation.SimilarityTable `json:"similarity" validate:"omitempty,max=5000"`
}

// DiscoverRequest adds another listener's constellation.
type DiscoverRequest struct {
	Username string                 `json:"username" validate:"required,max=64"`
	Artists  []constellation.Artist `json:"artists" validate:"required,min=1,max=5000,dive"`
}

// FuseRequest fuses the original with a discovered listener.
type FuseRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Type     string `json:"type" validate:"required,oneof=union intersection"`
}

// PathRequest asks for a shortest path between two artists.
type PathRequest struct {
	Constellation ConstellationRef `json:"constellation"`
	From          string           `json:"from" validate:"required,max=256"`
	To            string           `json:"to" validate:"required,max=256"`
}

// NeighboursRequest asks for the k-hop neighbourhood of an artist.
type NeighboursRequest struct {
	Constellation ConstellationRef `json:"constellation"`
	NodeID        string           `json:"nodeId" validate:"required,max=256"`
	MaxHops       int              `json:"maxHops" validate:"omitempty,min=1,max=6"`
	MaxResults    int              `json:"maxResults" validate:"omitempty,min=1,max=10000"`
}

// Options resolves the request against the defaults.
func (r *NeighboursRequest) Options() algorithms.KHopOptions {
	opts := algorithms.DefaultKHopOptions()
	opts.MaxHops = DefaultOrInt(r.MaxHops, opts.MaxHops)
	opts.MaxResults = r.MaxResults
	return opts
}

// SearchRequest looks artists up by name.
type SearchRequest struct {
	Constellation ConstellationRef `json:"constellation"`
	Query         string           `json:"q" validate:"required,max=200"`
	Limit         int              `json:"limit" validate:"omitempty,min=1,max=100"`
}

// ChallengeRequest starts a Connections game.
type ChallengeRequest struct {
	Constellation ConstellationRef `json:"constellation"`
	MinHops       int              `json:"minHops" validate:"omitempty,min=1,max=20"`
	MaxHops       int              `json:"maxHops" validate:"omitempty,min=1,max=20"`
	PreferPopular *bool            `json:"preferPopular"`
	Seed          *uint64          `json:"seed"`
}

// Options resolves the request against the defaults.
func (r *ChallengeRequest) Options() algorithms.ChallengeOptions {
	return r.OptionsFrom(algorithms.DefaultChallengeOptions())
}

// OptionsFrom resolves the request against a server's configured options.
func (r *ChallengeRequest) OptionsFrom(opts algorithms.ChallengeOptions) algorithms.ChallengeOptions {
	opts.MinHops = DefaultOrInt(r.MinHops, opts.MinHops)
	opts.MaxHops = DefaultOrInt(r.MaxHops, opts.MaxHops)
	if r.PreferPopular != nil {
		opts.PreferPopular = *r.PreferPopular
	}
	return opts
}

// MoveRequest is one guess in a running game.
type MoveRequest struct {
	NodeID string `json:"nodeId" validate:"required,max=256"`
}

// LayoutRequest asks for server-side node positions.
type LayoutRequest struct {
	Constellation ConstellationRef `json:"constellation"`
	Algorithm     string           `json:"algorithm" validate:"omitempty,oneof=force circular"`
	Width         float64          `json:"width" validate:"omitempty,gt=0,lte=100000"`
	Height        float64          `json:"height" validate:"omitempty,gt=0,lte=100000"`
	Iterations    int              `json:"iterations" validate:"omitempty,min=1,max=1000"`
	Seed          int64            `json:"seed"`
}

// ValidateRequest checks a request struct against its tags.
func ValidateRequest(req any) error {
	if req == nil {
		return errors.New("request cannot be nil")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateChallengeRequest also checks the resolved hop range.
func ValidateChallengeRequest(req *ChallengeRequest) error {
	if req == nil {
		return errors.New("challenge request cannot be nil")
	}
	if err := ValidateRequest(req); err != nil {
		return err
	}
	return ValidateChallengeOptions(req.Options())
}

// ValidateUsername trims and checks a listener name from a URL or form.
func ValidateUsername(username string) (string, error) {
	cleaned := strings.TrimSpace(username)
	if cleaned == "" {
		return "", errors.New("username: field is required")
	}
	if len(cleaned) > MaxUsernameLen {
		return "", fmt.Errorf("username: must not exceed %d characters", MaxUsernameLen)
	}
	return cleaned, nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := strings.TrimPrefix(e.Namespace(), strings.SplitN(e.Namespace(), ".", 2)[0]+".")
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "lte":
			return fmt.Errorf("%s: must be at most %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
