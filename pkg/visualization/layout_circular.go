package visualization

import (
	"math"

	"github.com/dd0wney/cluso-constellations/pkg/constellation"
)

// CircularLayout places nodes on a circle in rank order, starting at
// three o'clock.
type CircularLayout struct {
	config LayoutConfig
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout(config LayoutConfig) *CircularLayout {
	config.applyDefaults()
	return &CircularLayout{config: config}
}

// ComputeLayout arranges nodes in a circle
func (cl *CircularLayout) ComputeLayout(graph *constellation.Graph) (map[string]Position, error) {
	positions := make(map[string]Position)
	if graph.IsEmpty() {
		return positions, nil
	}

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	radius := math.Min(centerX, centerY) - cl.config.Padding

	angleStep := 2 * math.Pi / float64(len(graph.Nodes))

	for i, node := range graph.Nodes {
		angle := float64(i) * angleStep
		positions[node.ID] = Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}

	return positions, nil
}
