// Package visualization computes server-side node positions for clients
// that cannot run a physics simulation of their own.
package visualization

import (
	"github.com/dd0wney/cluso-constellations/pkg/constellation"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Number of iterations for iterative algorithms
	Padding    float64 // Padding from edges
	Seed       uint64  // Initial placement seed; equal seeds give equal layouts
}

func (c *LayoutConfig) applyDefaults() {
	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 600
	}
	if c.Iterations <= 0 {
		c.Iterations = 50
	}
	if c.Padding <= 0 {
		c.Padding = 50
	}
	// keep a drawable area on tiny canvases
	if limit := 0.25 * min(c.Width, c.Height); c.Padding > limit {
		c.Padding = limit
	}
}

// Layout interface for different layout algorithms
type Layout interface {
	ComputeLayout(graph *constellation.Graph) (map[string]Position, error)
}

// Visualization is a graph with node positions, ready to export.
type Visualization struct {
	Graph     *constellation.Graph
	Positions map[string]Position
}
