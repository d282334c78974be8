package api

import (
	"net/http"
	"time"

	"github.com/dd0wney/cluso-constellations/pkg/algorithms"
	"github.com/dd0wney/cluso-constellations/pkg/discover"
	"github.com/dd0wney/cluso-constellations/pkg/logging"
	"github.com/dd0wney/cluso-constellations/pkg/validation"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:         "healthy",
		Timestamp:      time.Now(),
		Version:        s.version,
		Uptime:         time.Since(s.startTime).Round(time.Second).String(),
		Owner:          s.catalog.Owner(),
		Constellations: len(s.catalog.List()),
		Sessions:       s.sessions.Len(),
	})
}

// handleBuildGraph installs the owner's constellation and returns it.
func (s *Server) handleBuildGraph(w http.ResponseWriter, r *http.Request) {
	var req validation.BuildRequest
	if s.newRequestDecoder(w, r).DecodeJSON(&req).Validate(&req).RespondError() {
		return
	}

	entry, err := s.catalog.SetOriginal(r.Context(), req.Username, req.Artists, req.Similarity)
	if err != nil {
		s.respondDomainError(w, "build constellation", err)
		return
	}
	s.respondConstellation(w, http.StatusCreated, entry.Kind, entry.Key)
}

func (s *Server) handleListConstellations(w http.ResponseWriter, r *http.Request) {
	entries := s.catalog.List()
	s.respondJSON(w, http.StatusOK, ConstellationListResponse{
		Constellations: entries,
		Count:          len(entries),
	})
}

func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	var req validation.DiscoverRequest
	rd := s.newRequestDecoder(w, r).DecodeJSON(&req).Validate(&req)
	rd.Check(func() (err error) {
		req.Username, err = validation.ValidateUsername(req.Username)
		return err
	})
	if rd.RespondError() {
		return
	}

	entry, err := s.catalog.AddDiscovered(r.Context(), req.Username, req.Artists)
	if err != nil {
		s.respondDomainError(w, "discover constellation", err)
		return
	}
	s.logger.Info("constellation discovered",
		logging.Constellation(string(entry.Kind), entry.Key),
		logging.Count(len(req.Artists)),
	)
	s.respondConstellation(w, http.StatusCreated, entry.Kind, entry.Key)
}

func (s *Server) handleRefreshDiscovered(w http.ResponseWriter, r *http.Request) {
	username, err := validation.ValidateUsername(r.PathValue("key"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req RefreshRequest
	if s.newRequestDecoder(w, r).DecodeJSON(&req).Validate(&req).RespondError() {
		return
	}

	entry, err := s.catalog.RefreshDiscovered(r.Context(), username, req.Artists)
	if err != nil {
		s.respondDomainError(w, "refresh constellation", err)
		return
	}
	s.respondConstellation(w, http.StatusOK, entry.Kind, entry.Key)
}

func (s *Server) handleFuse(w http.ResponseWriter, r *http.Request) {
	var req validation.FuseRequest
	if s.newRequestDecoder(w, r).DecodeJSON(&req).Validate(&req).RespondError() {
		return
	}

	entry, err := s.catalog.CreateFusion(r.Context(), req.Username, discover.FusionType(req.Type))
	if err != nil {
		s.respondDomainError(w, "fuse constellations", err)
		return
	}
	s.respondConstellation(w, http.StatusCreated, entry.Kind, entry.Key)
}

func (s *Server) handleGetConstellation(w http.ResponseWriter, r *http.Request) {
	kind, err := discover.ParseKind(r.PathValue("kind"))
	if err != nil {
		s.respondDomainError(w, "get constellation", err)
		return
	}
	s.respondConstellation(w, http.StatusOK, kind, r.PathValue("key"))
}

func (s *Server) handleDeleteConstellation(w http.ResponseWriter, r *http.Request) {
	kind, err := discover.ParseKind(r.PathValue("kind"))
	if err != nil {
		s.respondDomainError(w, "delete constellation", err)
		return
	}
	key := r.PathValue("key")

	switch kind {
	case discover.KindDiscovered:
		err = s.catalog.RemoveDiscovered(r.Context(), key)
	case discover.KindFused:
		err = s.catalog.RemoveFused(r.Context(), key)
	default:
		s.respondError(w, http.StatusBadRequest, "the original constellation cannot be deleted")
		return
	}
	if err != nil {
		s.respondDomainError(w, "delete constellation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetImages(w http.ResponseWriter, r *http.Request) {
	kind, err := discover.ParseKind(r.PathValue("kind"))
	if err != nil {
		s.respondDomainError(w, "set images", err)
		return
	}
	var req ImagesRequest
	if s.newRequestDecoder(w, r).DecodeJSON(&req).Validate(&req).RespondError() {
		return
	}

	entry, err := s.catalog.SetImages(r.Context(), kind, r.PathValue("key"), req.Images)
	if err != nil {
		s.respondDomainError(w, "set images", err)
		return
	}
	s.respondConstellation(w, http.StatusOK, entry.Kind, entry.Key)
}

// respondConstellation answers with an entry summary and its graph.
func (s *Server) respondConstellation(w http.ResponseWriter, status int, kind discover.Kind, key string) {
	if kind == discover.KindOriginal {
		key = discover.OriginalKey
	}
	entry, err := s.catalog.Get(kind, key)
	if err != nil {
		s.respondDomainError(w, "get constellation", err)
		return
	}
	snap, err := s.catalog.Snapshot(kind, key)
	if err != nil {
		s.respondDomainError(w, "get constellation", err)
		return
	}

	s.respondJSON(w, status, ConstellationResponse{
		Constellation: entry.Summary(),
		Graph:         snap.Graph,
		Stats:         snap.Graph.Stats(),
		Components:    len(algorithms.ConnectedComponents(snap.Adjacency)),
		Outdated:      entry.IsOutdated(time.Now()),
	})
}
