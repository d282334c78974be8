package api

import (
	"time"

	"github.com/dd0wney/cluso-constellations/pkg/algorithms"
	"github.com/dd0wney/cluso-constellations/pkg/connections"
	"github.com/dd0wney/cluso-constellations/pkg/constellation"
	"github.com/dd0wney/cluso-constellations/pkg/discover"
	"github.com/dd0wney/cluso-constellations/pkg/visualization"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	Version        string    `json:"version"`
	Uptime         string    `json:"uptime"`
	Owner          string    `json:"owner,omitempty"`
	Constellations int       `json:"constellations"`
	Sessions       int       `json:"sessions"`
}

// ConstellationResponse is one catalog entry with its derived graph.
type ConstellationResponse struct {
	Constellation discover.Entry       `json:"constellation"`
	Graph         *constellation.Graph `json:"graph"`
	Stats         constellation.Stats  `json:"stats"`
	Components    int                  `json:"components"`
	Outdated      bool                 `json:"outdated"`
}

// ConstellationListResponse lists catalog summaries.
type ConstellationListResponse struct {
	Constellations []discover.Entry `json:"constellations"`
	Count          int              `json:"count"`
}

// RefreshRequest replaces a discovered listener's artists.
type RefreshRequest struct {
	Artists []constellation.Artist `json:"artists" validate:"required,min=1,max=5000,dive"`
}

// ImagesRequest attaches image URLs to artists by name.
type ImagesRequest struct {
	Images map[string]string `json:"images" validate:"required,max=5000"`
}

// PathResponse is a shortest path. Distance is -1 and Path empty when the
// artists are not connected.
type PathResponse struct {
	Path     []string             `json:"path"`
	Nodes    []constellation.Node `json:"nodes"`
	Distance int                  `json:"distance"`
	Found    bool                 `json:"found"`
}

// NeighbourResponse is a k-hop neighbourhood.
type NeighbourResponse struct {
	*algorithms.KHopResult
	Nodes []constellation.Node `json:"nodes"`
}

// SearchResponse holds name matches, best first.
type SearchResponse struct {
	Query   string                    `json:"query"`
	Results []algorithms.SearchResult `json:"results"`
	Count   int                       `json:"count"`
}

// ComponentsResponse lists connected components, largest first.
type ComponentsResponse struct {
	Components []algorithms.Component `json:"components"`
	Count      int                    `json:"count"`
}

// GameResponse is the state of a Connections session.
type GameResponse struct {
	ID        string               `json:"id"`
	Start     constellation.Node   `json:"start"`
	Target    constellation.Node   `json:"target"`
	Current   string               `json:"current"`
	Status    connections.Status   `json:"status"`
	Hops      int                  `json:"hops"`
	Path      []string             `json:"path"`
	Options   []constellation.Node `json:"options"`
	Result    *connections.Result  `json:"result,omitempty"`
	StartedAt time.Time            `json:"startedAt"`
}

// LayoutResponse is a positioned constellation.
type LayoutResponse struct {
	Algorithm string `json:"algorithm"`
	visualization.View
}
