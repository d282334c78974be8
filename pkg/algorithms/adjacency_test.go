package algorithms

import (
	"reflect"
	"testing"

	"github.com/dd0wney/cluso-constellations/pkg/constellation"
)

func TestBuildAdjacency_BothDirections(t *testing.T) {
	adj := BuildAdjacency([]constellation.Link{
		{Source: "a", Target: "b"},
		{Source: "c", Target: "a", Visible: false},
	})

	if !adj.Contains("a", "b") || !adj.Contains("b", "a") {
		t.Error("Expected a-b in both directions")
	}
	if !adj.Contains("a", "c") {
		t.Error("Expected hidden links to be indexed")
	}
	if adj.Contains("b", "c") {
		t.Error("b and c are not linked")
	}
	if adj.Len() != 3 {
		t.Errorf("Expected 3 ids, got %d", adj.Len())
	}
}

func TestAdjacency_InsertionOrder(t *testing.T) {
	adj := BuildAdjacencyFromPairs([][2]string{
		{"hub", "z"},
		{"hub", "a"},
		{"m", "hub"},
		{"a", "hub"},
	})

	if got, want := adj.Neighbors("hub"), []string{"z", "a", "m"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Expected neighbours %v, got %v", want, got)
	}
	if got, want := adj.IDs(), []string{"hub", "z", "a", "m"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Expected ids %v, got %v", want, got)
	}
	if adj.Degree("hub") != 3 {
		t.Errorf("Expected duplicate pair to be ignored, degree %d", adj.Degree("hub"))
	}
}

func TestAdjacency_NeighborsIsACopy(t *testing.T) {
	adj := BuildAdjacencyFromPairs([][2]string{{"a", "b"}})

	n := adj.Neighbors("a")
	n[0] = "mutated"

	if adj.Neighbors("a")[0] != "b" {
		t.Error("Neighbors must not expose internal state")
	}
}

func TestAdjacency_SelfLoop(t *testing.T) {
	adj := BuildAdjacencyFromPairs([][2]string{{"a", "a"}})

	if !adj.Has("a") {
		t.Error("Expected self loop to register the node")
	}
	if adj.Degree("a") != 0 || adj.Contains("a", "a") {
		t.Error("Expected no self neighbour")
	}
}

func TestAdjacency_Unknown(t *testing.T) {
	adj := BuildAdjacency(nil)

	if adj.Has("x") || adj.Contains("x", "y") || adj.Degree("x") != 0 {
		t.Error("Expected empty adjacency to know nothing")
	}
	if n := adj.Neighbors("x"); len(n) != 0 {
		t.Errorf("Expected no neighbours, got %v", n)
	}

	var nilAdj *Adjacency
	if nilAdj.Has("x") || nilAdj.Len() != 0 || nilAdj.IDs() != nil {
		t.Error("Expected nil adjacency to behave as empty")
	}
}
