package algorithms

import (
	"container/list"
	"sort"
)

// Component is one connected piece of a constellation.
type Component struct {
	ID    int      `json:"id"`
	Nodes []string `json:"nodes"`
	Size  int      `json:"size"`
}

// ConnectedComponents finds every connected component, largest first. Ties
// keep the order in which their first node was indexed.
func ConnectedComponents(adj *Adjacency) []Component {
	visited := make(map[string]bool, adj.Len())
	components := make([]Component, 0)

	for _, startID := range adj.IDs() {
		if visited[startID] {
			continue
		}

		component := Component{ID: len(components)}
		queue := list.New()
		queue.PushBack(startID)
		visited[startID] = true

		for queue.Len() > 0 {
			id := queue.Remove(queue.Front()).(string)
			component.Nodes = append(component.Nodes, id)

			for _, neighborID := range adj.neighborsOf(id) {
				if !visited[neighborID] {
					visited[neighborID] = true
					queue.PushBack(neighborID)
				}
			}
		}

		component.Size = len(component.Nodes)
		components = append(components, component)
	}

	sortComponents(components)
	return components
}

func sortComponents(c []Component) {
	sort.SliceStable(c, func(a, b int) bool {
		return c[a].Size > c[b].Size
	})
	for i := range c {
		c[i].ID = i
	}
}

// SameComponent reports whether a path exists between a and b.
func SameComponent(adj *Adjacency, a, b string) bool {
	return Distance(adj, a, b) >= 0
}
