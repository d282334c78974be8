package algorithms

import (
	"container/list"

	"github.com/dd0wney/cluso-constellations/pkg/constellation"
)

// ShortestPath finds a fewest-hops path from start to target with a
// breadth-first search. Neighbours are expanded in insertion order and the
// target is accepted the first time it is discovered, so among several
// shortest paths the result is the one the index order reaches first.
// Returns nil when either id is unknown or no path exists.
func ShortestPath(adj *Adjacency, startID, targetID string) []string {
	if startID == targetID {
		return []string{startID}
	}
	if !adj.Has(startID) || !adj.Has(targetID) {
		return nil
	}

	parent := map[string]string{startID: startID}
	queue := list.New()
	queue.PushBack(startID)

	for queue.Len() > 0 {
		currentID := queue.Remove(queue.Front()).(string)

		for _, neighborID := range adj.neighborsOf(currentID) {
			if _, seen := parent[neighborID]; seen {
				continue
			}
			parent[neighborID] = currentID
			if neighborID == targetID {
				return reconstructPath(targetID, parent)
			}
			queue.PushBack(neighborID)
		}
	}

	return nil
}

// reconstructPath walks parent pointers back to the root (its own parent).
func reconstructPath(endID string, parent map[string]string) []string {
	path := []string{endID}
	for node := endID; parent[node] != node; {
		node = parent[node]
		path = append(path, node)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Distance returns the hop count between a and b, or -1 when unreachable.
func Distance(adj *Adjacency, a, b string) int {
	path := ShortestPath(adj, a, b)
	if path == nil {
		return -1
	}
	return len(path) - 1
}

// IsAdjacent reports whether a move from current to next follows a link.
func IsAdjacent(adj *Adjacency, currentID, nextID string) bool {
	return adj.Contains(currentID, nextID)
}

// ConnectedNodes resolves the neighbours of id against lookup, in
// neighbour order. Ids missing from lookup are skipped.
func ConnectedNodes(adj *Adjacency, id string, lookup map[string]constellation.Node) []constellation.Node {
	neighbors := adj.neighborsOf(id)
	nodes := make([]constellation.Node, 0, len(neighbors))
	for _, nid := range neighbors {
		if n, ok := lookup[nid]; ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}
