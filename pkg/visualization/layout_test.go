package visualization

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/dd0wney/cluso-constellations/pkg/constellation"
)

func testGraph() *constellation.Graph {
	artists := []constellation.Artist{
		{ID: "a", Name: "A", Genres: []string{"rock", "indie"}},
		{ID: "b", Name: "B", Genres: []string{"rock", "indie"}},
		{ID: "c", Name: "C", Genres: []string{"rock"}},
		{ID: "d", Name: "D", Genres: []string{"jazz", "indie"}},
		{ID: "e", Name: "E", Genres: []string{"jazz"}},
	}
	return constellation.Build(artists, nil)
}

func inBounds(t *testing.T, positions map[string]Position, width, height float64) {
	t.Helper()
	for id, pos := range positions {
		if pos.X < 0 || pos.X > width {
			t.Errorf("Node %s X position %f out of bounds", id, pos.X)
		}
		if pos.Y < 0 || pos.Y > height {
			t.Errorf("Node %s Y position %f out of bounds", id, pos.Y)
		}
	}
}

func TestForceDirectedLayout(t *testing.T) {
	graph := testGraph()
	layout := NewForceDirectedLayout(LayoutConfig{Width: 800, Height: 600, Iterations: 50, Seed: 7})

	positions, err := layout.ComputeLayout(graph)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}
	if len(positions) != len(graph.Nodes) {
		t.Errorf("Expected %d positions, got %d", len(graph.Nodes), len(positions))
	}
	inBounds(t, positions, 800, 600)
}

func TestForceDirectedLayoutIsSeeded(t *testing.T) {
	graph := testGraph()
	first, _ := NewForceDirectedLayout(LayoutConfig{Seed: 42}).ComputeLayout(graph)
	second, _ := NewForceDirectedLayout(LayoutConfig{Seed: 42}).ComputeLayout(graph)

	for id, pos := range first {
		if second[id] != pos {
			t.Errorf("Expected identical layouts for equal seeds, node %s differs: %v vs %v", id, pos, second[id])
		}
	}
}

func TestForceDirectedLayoutSmallGraphs(t *testing.T) {
	empty, err := NewForceDirectedLayout(LayoutConfig{}).ComputeLayout(&constellation.Graph{})
	if err != nil || len(empty) != 0 {
		t.Errorf("Expected no positions for empty graph, got %v (%v)", empty, err)
	}

	single := &constellation.Graph{Nodes: []constellation.Node{{ID: "solo"}}}
	positions, _ := NewForceDirectedLayout(LayoutConfig{Width: 200, Height: 100}).ComputeLayout(single)
	if positions["solo"] != (Position{X: 100, Y: 50}) {
		t.Errorf("Expected single node centred, got %v", positions["solo"])
	}
}

func TestCircularLayout(t *testing.T) {
	graph := testGraph()
	layout := NewCircularLayout(LayoutConfig{Width: 800, Height: 800, Padding: 100})

	positions, err := layout.ComputeLayout(graph)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}
	inBounds(t, positions, 800, 800)

	// every node sits on the same circle
	for id, pos := range positions {
		r := math.Hypot(pos.X-400, pos.Y-400)
		if math.Abs(r-300) > 1e-9 {
			t.Errorf("Node %s radius %f, expected 300", id, r)
		}
	}

	first := positions[graph.Nodes[0].ID]
	if math.Abs(first.X-700) > 1e-9 || math.Abs(first.Y-400) > 1e-9 {
		t.Errorf("Expected first node at three o'clock, got %v", first)
	}
}

func TestClusterCenters(t *testing.T) {
	graph := &constellation.Graph{
		Nodes: []constellation.Node{
			{ID: "a", Genres: []string{"rock"}},
			{ID: "b", Genres: []string{"rock", "jazz"}},
			{ID: "c", Genres: []string{"jazz"}},
		},
		Clusters: []constellation.Cluster{{ID: "rock"}, {ID: "jazz"}, {ID: "folk"}},
	}
	positions := map[string]Position{
		"a": {X: 0, Y: 0},
		"b": {X: 10, Y: 20},
	}

	centers := ClusterCenters(graph, positions)
	if len(centers) != 3 {
		t.Fatalf("Expected 3 centers, got %d", len(centers))
	}
	if centers[0].ID != "rock" || centers[0].X != 5 || centers[0].Y != 10 {
		t.Errorf("Expected rock at (5,10), got %+v", centers[0])
	}
	if centers[1].X != 10 || centers[1].Y != 20 {
		t.Errorf("Expected jazz to skip unpositioned c, got %+v", centers[1])
	}
	if centers[2].X != 0 || centers[2].Y != 0 {
		t.Errorf("Expected empty cluster at origin, got %+v", centers[2])
	}

	if got := ClusterCenters(nil, nil); len(got) != 0 {
		t.Errorf("Expected no centers for nil graph, got %v", got)
	}
}

func TestNewLayout(t *testing.T) {
	if _, ok := NewLayout("circular", LayoutConfig{}).(*CircularLayout); !ok {
		t.Error("Expected circular layout")
	}
	if _, ok := NewLayout("", LayoutConfig{}).(*ForceDirectedLayout); !ok {
		t.Error("Expected force-directed layout by default")
	}
}

func TestExportJSON(t *testing.T) {
	graph := testGraph()
	viz, err := Compute(NewCircularLayout(LayoutConfig{}), graph)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	data, err := viz.ExportJSON()
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var decoded struct {
		Nodes []struct {
			ID string  `json:"id"`
			X  float64 `json:"x"`
			Y  float64 `json:"y"`
		} `json:"nodes"`
		Links         []json.RawMessage `json:"links"`
		GenreClusters []struct {
			ID string  `json:"id"`
			X  float64 `json:"x"`
		} `json:"genreClusters"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to decode export: %v", err)
	}
	if len(decoded.Nodes) != len(graph.Nodes) {
		t.Errorf("Expected %d nodes, got %d", len(graph.Nodes), len(decoded.Nodes))
	}
	if len(decoded.Links) != len(graph.VisibleLinks()) {
		t.Errorf("Expected %d links, got %d", len(graph.VisibleLinks()), len(decoded.Links))
	}
	if len(decoded.GenreClusters) != len(graph.Clusters) {
		t.Errorf("Expected %d clusters, got %d", len(graph.Clusters), len(decoded.GenreClusters))
	}
}
