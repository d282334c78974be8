package api

import (
	"net/http"

	"github.com/dd0wney/cluso-constellations/pkg/validation"
	"github.com/dd0wney/cluso-constellations/pkg/visualization"
)

const defaultLayout = "force"

// handleLayout positions a constellation on the server for clients without
// a physics engine of their own.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req validation.LayoutRequest
	if s.newRequestDecoder(w, r).DecodeJSON(&req).Validate(&req).RespondError() {
		return
	}
	snap, ok := s.snapshot(w, req.Constellation)
	if !ok {
		return
	}

	algorithm := req.Algorithm
	if algorithm == "" {
		algorithm = defaultLayout
	}
	layout := visualization.NewLayout(algorithm, visualization.LayoutConfig{
		Width:      req.Width,
		Height:     req.Height,
		Iterations: req.Iterations,
		Seed:       uint64(req.Seed),
	})

	vis, err := visualization.Compute(layout, snap.Graph)
	if err != nil {
		s.respondDomainError(w, "layout", err)
		return
	}
	s.respondJSON(w, http.StatusOK, LayoutResponse{
		Algorithm: algorithm,
		View:      vis.View(),
	})
}
