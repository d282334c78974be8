package visualization

import (
	"math"
	"math/rand/v2"

	"github.com/dd0wney/cluso-constellations/pkg/constellation"
)

// ForceDirectedLayout is a Fruchterman-Reingold layout over visible links.
type ForceDirectedLayout struct {
	config LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config LayoutConfig) *ForceDirectedLayout {
	config.applyDefaults()
	return &ForceDirectedLayout{config: config}
}

// ComputeLayout computes positions using force-directed algorithm
func (fdl *ForceDirectedLayout) ComputeLayout(graph *constellation.Graph) (map[string]Position, error) {
	cfg := fdl.config
	if graph.IsEmpty() {
		return make(map[string]Position), nil
	}

	ids := make([]string, len(graph.Nodes))
	for i, n := range graph.Nodes {
		ids[i] = n.ID
	}

	// Single node - center it
	if len(ids) == 1 {
		return map[string]Position{
			ids[0]: {X: cfg.Width / 2, Y: cfg.Height / 2},
		}, nil
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	positions := make([]Position, len(ids))
	for i := range positions {
		positions[i] = Position{
			X: rng.Float64()*(cfg.Width-2*cfg.Padding) + cfg.Padding,
			Y: rng.Float64()*(cfg.Height-2*cfg.Padding) + cfg.Padding,
		}
	}

	index := nodeIndex(ids)
	type edge struct{ a, b int }
	var edges []edge
	for _, l := range graph.VisibleLinks() {
		a, okA := index[l.Source]
		b, okB := index[l.Target]
		if okA && okB && a != b {
			edges = append(edges, edge{a, b})
		}
	}

	k := math.Sqrt((cfg.Width * cfg.Height) / float64(len(ids))) // Optimal distance
	temperature := cfg.Width / 10.0
	forces := make([]Position, len(ids))

	for iter := 0; iter < cfg.Iterations; iter++ {
		clear(forces)

		// Repulsion between all nodes
		for i := range positions {
			for j := i + 1; j < len(positions); j++ {
				dx := positions[i].X - positions[j].X
				dy := positions[i].Y - positions[j].Y
				dist := math.Max(math.Hypot(dx, dy), 0.01)

				force := (k * k) / dist
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				forces[i].X += fx
				forces[i].Y += fy
				forces[j].X -= fx
				forces[j].Y -= fy
			}
		}

		// Attraction along links, applied to both ends
		for _, e := range edges {
			dx := positions[e.a].X - positions[e.b].X
			dy := positions[e.a].Y - positions[e.b].Y
			dist := math.Hypot(dx, dy)
			if dist < 0.01 {
				continue
			}

			force := (dist * dist) / k
			fx := (dx / dist) * force
			fy := (dy / dist) * force

			forces[e.a].X -= fx
			forces[e.a].Y -= fy
			forces[e.b].X += fx
			forces[e.b].Y += fy
		}

		// Apply forces with cooling
		cool := 1.0 - float64(iter)/float64(cfg.Iterations)
		for i, f := range forces {
			force := math.Hypot(f.X, f.Y)
			if force > 0 {
				step := math.Min(force, temperature) * cool
				positions[i].X += (f.X / force) * step
				positions[i].Y += (f.Y / force) * step
			}
		}

		temperature *= 0.95
	}

	normalized := normalizePositions(positions, cfg.Width, cfg.Height, cfg.Padding)
	out := make(map[string]Position, len(ids))
	for i, id := range ids {
		out[id] = normalized[i]
	}
	return out, nil
}
