package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dd0wney/cluso-constellations/pkg/connections"
	"github.com/dd0wney/cluso-constellations/pkg/discover"
	"github.com/dd0wney/cluso-constellations/pkg/logging"
	"github.com/dd0wney/cluso-constellations/pkg/validation"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, discover.ErrStore):
		return http.StatusInternalServerError
	case errors.Is(err, discover.ErrNotFound),
		errors.Is(err, discover.ErrNoOriginal):
		return http.StatusNotFound
	case errors.Is(err, discover.ErrAlreadyDiscovered),
		errors.Is(err, discover.ErrIsOriginal),
		errors.Is(err, connections.ErrFinished):
		return http.StatusConflict
	case errors.Is(err, discover.ErrEmptyUsername),
		errors.Is(err, discover.ErrInvalidKind),
		errors.Is(err, discover.ErrInvalidFusion),
		errors.Is(err, connections.ErrNotAdjacent),
		errors.Is(err, connections.ErrUnknownNode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondDomainError answers with the mapped status. Server-side failures
// are logged in full and reported to the client as "<operation> failed".
func (s *Server) respondDomainError(w http.ResponseWriter, operation string, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", logging.Operation(operation), logging.Error(err))
		s.respondError(w, status, fmt.Sprintf("%s failed", operation))
		return
	}
	s.respondError(w, status, err.Error())
}

// requestDecoder decodes and validates request bodies.
// It provides a fluent interface for common request handling patterns.
type requestDecoder struct {
	r          *http.Request
	w          http.ResponseWriter
	server     *Server
	err        error
	statusCode int
}

// newRequestDecoder creates a new request decoder for the given request.
func (s *Server) newRequestDecoder(w http.ResponseWriter, r *http.Request) *requestDecoder {
	return &requestDecoder{r: r, w: w, server: s}
}

// DecodeJSON decodes the request body into v. Unknown fields are rejected.
func (rd *requestDecoder) DecodeJSON(v any) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	dec := json.NewDecoder(rd.r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			rd.fail(http.StatusRequestEntityTooLarge, errors.New("request body too large"))
			return rd
		}
		rd.fail(http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
	}
	return rd
}

// Validate checks v against its struct tags.
func (rd *requestDecoder) Validate(v any) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	if err := validation.ValidateRequest(v); err != nil {
		rd.fail(http.StatusBadRequest, err)
	}
	return rd
}

// Check runs an extra validation step.
func (rd *requestDecoder) Check(fn func() error) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	if err := fn(); err != nil {
		rd.fail(http.StatusBadRequest, err)
	}
	return rd
}

func (rd *requestDecoder) fail(status int, err error) {
	rd.err = err
	rd.statusCode = status
}

// RespondError sends the error response and returns true if there was an error.
func (rd *requestDecoder) RespondError() bool {
	if rd.err == nil {
		return false
	}
	rd.server.respondError(rd.w, rd.statusCode, rd.err.Error())
	return true
}

// resolveRef turns a request reference into a catalog key. An empty kind
// means the original; the original's key is implied.
func resolveRef(ref validation.ConstellationRef) (discover.Kind, string, error) {
	if ref.Kind == "" {
		return discover.KindOriginal, discover.OriginalKey, nil
	}
	kind, err := discover.ParseKind(ref.Kind)
	if err != nil {
		return "", "", err
	}
	if kind == discover.KindOriginal {
		return kind, discover.OriginalKey, nil
	}
	if ref.Key == "" {
		return "", "", fmt.Errorf("%w: key is required for %s constellations", discover.ErrNotFound, kind)
	}
	return kind, ref.Key, nil
}

// snapshot resolves ref and answers the error itself when it fails.
func (s *Server) snapshot(w http.ResponseWriter, ref validation.ConstellationRef) (*discover.Snapshot, bool) {
	kind, key, err := resolveRef(ref)
	if err != nil {
		s.respondDomainError(w, "resolve constellation", err)
		return nil, false
	}
	snap, err := s.catalog.Snapshot(kind, key)
	if err != nil {
		s.respondDomainError(w, "load constellation", err)
		return nil, false
	}
	return snap, true
}
