package api

import (
	"net/http"
	"strconv"

	"github.com/dd0wney/cluso-constellations/pkg/algorithms"
	"github.com/dd0wney/cluso-constellations/pkg/constellation"
	"github.com/dd0wney/cluso-constellations/pkg/validation"
)

// handlePath answers a shortest path query. Unknown or unconnected artists
// are not an error: the response says not found.
func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	var req validation.PathRequest
	if s.newRequestDecoder(w, r).DecodeJSON(&req).Validate(&req).RespondError() {
		return
	}
	snap, ok := s.snapshot(w, req.Constellation)
	if !ok {
		return
	}

	path := algorithms.ShortestPath(snap.Adjacency, req.From, req.To)
	if req.From == req.To {
		if _, known := snap.Lookup[req.From]; !known {
			path = nil
		}
	}
	s.metricsRegistry.RecordPathQuery("shortest_path", path != nil)

	resp := PathResponse{
		Path:     []string{},
		Nodes:    []constellation.Node{},
		Distance: -1,
	}
	if path != nil {
		resp.Path = path
		resp.Nodes = lookupNodes(snap.Lookup, path)
		resp.Distance = len(path) - 1
		resp.Found = true
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNeighbours(w http.ResponseWriter, r *http.Request) {
	var req validation.NeighboursRequest
	rd := s.newRequestDecoder(w, r).DecodeJSON(&req).Validate(&req)
	rd.Check(func() error { return validation.ValidateKHopOptions(req.Options()) })
	if rd.RespondError() {
		return
	}
	snap, ok := s.snapshot(w, req.Constellation)
	if !ok {
		return
	}

	result, err := algorithms.KHopNeighbours(snap.Adjacency, req.NodeID, req.Options())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.metricsRegistry.RecordPathQuery("neighbours", result.TotalReachable > 0)

	ids := make([]string, 0, result.TotalReachable)
	for hop := 1; hop <= req.Options().MaxHops; hop++ {
		ids = append(ids, result.ByHop[hop]...)
	}
	s.respondJSON(w, http.StatusOK, NeighbourResponse{
		KHopResult: result,
		Nodes:      lookupNodes(snap.Lookup, ids),
	})
}

// handleSearch reads its parameters from the query string:
// q, limit, kind and key.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := validation.SearchRequest{
		Constellation: validation.ConstellationRef{Kind: q.Get("kind"), Key: q.Get("key")},
		Query:         q.Get("q"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "limit: must be an integer")
			return
		}
		req.Limit = limit
	}
	if err := validation.ValidateRequest(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, ok := s.snapshot(w, req.Constellation)
	if !ok {
		return
	}

	results := algorithms.SearchNodes(req.Query, snap.Graph.Nodes, validation.DefaultOrInt(req.Limit, algorithms.DefaultSearchLimit))
	if results == nil {
		results = []algorithms.SearchResult{}
	}
	s.metricsRegistry.RecordPathQuery("search", len(results) > 0)
	s.respondJSON(w, http.StatusOK, SearchResponse{
		Query:   req.Query,
		Results: results,
		Count:   len(results),
	})
}

func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ref := validation.ConstellationRef{Kind: q.Get("kind"), Key: q.Get("key")}
	if err := validation.ValidateRequest(&ref); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, ok := s.snapshot(w, ref)
	if !ok {
		return
	}

	components := algorithms.ConnectedComponents(snap.Adjacency)
	s.respondJSON(w, http.StatusOK, ComponentsResponse{
		Components: components,
		Count:      len(components),
	})
}

// lookupNodes resolves ids in order, skipping unknown ones.
func lookupNodes(lookup map[string]constellation.Node, ids []string) []constellation.Node {
	nodes := make([]constellation.Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := lookup[id]; ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}
