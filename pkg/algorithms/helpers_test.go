package algorithms

import (
	"fmt"

	"github.com/dd0wney/cluso-constellations/pkg/constellation"
)

// chain builds n0 - n1 - ... - n(k-1).
func chain(k int) ([]constellation.Node, *Adjacency) {
	nodes := make([]constellation.Node, k)
	var pairs [][2]string
	for i := 0; i < k; i++ {
		nodes[i] = constellation.Node{ID: fmt.Sprintf("n%d", i), Name: fmt.Sprintf("Node %d", i), Size: float64(k - i)}
		if i > 0 {
			pairs = append(pairs, [2]string{nodes[i-1].ID, nodes[i].ID})
		}
	}
	return nodes, BuildAdjacencyFromPairs(pairs)
}

// seqRand replays fixed draws, each reduced modulo n.
type seqRand struct {
	values []int
	next   int
}

func (r *seqRand) IntN(n int) int {
	v := r.values[r.next%len(r.values)]
	r.next++
	return v % n
}
