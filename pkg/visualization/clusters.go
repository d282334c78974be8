package visualization

import (
	"encoding/json"
	"fmt"

	"github.com/dd0wney/cluso-constellations/pkg/constellation"
)

// ClusterCenter is where a genre cluster's label goes.
type ClusterCenter struct {
	constellation.Cluster
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ClusterCenters returns the centroid of each cluster's tagged nodes, in
// cluster order. Nodes without a position are skipped; a cluster with no
// positioned node sits at the origin.
func ClusterCenters(graph *constellation.Graph, positions map[string]Position) []ClusterCenter {
	if graph == nil {
		return []ClusterCenter{}
	}
	centers := make([]ClusterCenter, 0, len(graph.Clusters))
	for _, c := range graph.Clusters {
		var sumX, sumY float64
		count := 0
		for _, n := range graph.Nodes {
			pos, ok := positions[n.ID]
			if !ok || !hasGenre(n, c.ID) {
				continue
			}
			sumX += pos.X
			sumY += pos.Y
			count++
		}
		center := ClusterCenter{Cluster: c}
		if count > 0 {
			center.X = sumX / float64(count)
			center.Y = sumY / float64(count)
		}
		centers = append(centers, center)
	}
	return centers
}

func hasGenre(n constellation.Node, g string) bool {
	for _, t := range n.Genres {
		if t == g {
			return true
		}
	}
	return false
}

// NewLayout picks a layout by name: "circular", or force-directed for
// anything else.
func NewLayout(algorithm string, config LayoutConfig) Layout {
	if algorithm == "circular" {
		return NewCircularLayout(config)
	}
	return NewForceDirectedLayout(config)
}

// Compute lays out graph and returns the positioned visualization.
func Compute(layout Layout, graph *constellation.Graph) (*Visualization, error) {
	positions, err := layout.ComputeLayout(graph)
	if err != nil {
		return nil, fmt.Errorf("layout failed: %w", err)
	}
	return &Visualization{Graph: graph, Positions: positions}, nil
}

// NodeView is a node with its position.
type NodeView struct {
	constellation.Node
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// View is the exported form of a visualization.
type View struct {
	Nodes    []NodeView           `json:"nodes"`
	Links    []constellation.Link `json:"links"`
	Clusters []ClusterCenter      `json:"genreClusters"`
}

// View flattens the visualization for export. Hidden links are left out.
func (v *Visualization) View() View {
	view := View{
		Nodes:    make([]NodeView, 0, len(v.Graph.Nodes)),
		Links:    v.Graph.VisibleLinks(),
		Clusters: ClusterCenters(v.Graph, v.Positions),
	}
	for _, n := range v.Graph.Nodes {
		pos := v.Positions[n.ID]
		view.Nodes = append(view.Nodes, NodeView{Node: n, X: pos.X, Y: pos.Y})
	}
	return view
}

// ExportJSON exports the visualization to JSON
func (v *Visualization) ExportJSON() ([]byte, error) {
	return json.Marshal(v.View())
}
