package constellation

import (
	"sort"

	"github.com/dd0wney/cluso-constellations/pkg/genre"
)

// DefaultColor is used for nodes whose tags match no cluster.
const DefaultColor = "#6366f1"

// Palette holds the cluster colors, assigned by cluster rank.
var Palette = []string{
	"#a855f7", // purple
	"#8b5cf6", // violet
	"#6366f1", // indigo
	"#3b82f6", // blue
	"#0ea5e9", // sky
	"#06b6d4", // cyan
	"#14b8a6", // teal
	"#10b981", // emerald
	"#22c55e", // green
	"#84cc16", // lime
	"#eab308", // yellow
	"#f59e0b", // amber
	"#f97316", // orange
	"#ef4444", // red
	"#ec4899", // pink
	"#d946ef", // fuchsia
	"#c084fc", // light purple
	"#818cf8", // light indigo
	"#60a5fa", // light blue
	"#38bdf8", // light sky
	"#2dd4bf", // light teal
	"#4ade80", // light green
	"#a3e635", // light lime
	"#fbbf24", // light amber
}

// computeClusters promotes tags carried by at least minSize entries,
// most frequent first (ties in first-seen order), capped at max.
func computeClusters(entries []entry, minSize, max int) []Cluster {
	counts := make(map[string]int)
	var order []string
	for _, e := range entries {
		for _, g := range e.genres {
			if counts[g] == 0 {
				order = append(order, g)
			}
			counts[g]++
		}
	}

	significant := make([]string, 0, len(order))
	for _, g := range order {
		if counts[g] >= minSize {
			significant = append(significant, g)
		}
	}
	sort.SliceStable(significant, func(a, b int) bool {
		return counts[significant[a]] > counts[significant[b]]
	})
	if max >= 0 && len(significant) > max {
		significant = significant[:max]
	}

	clusters := make([]Cluster, 0, len(significant))
	for i, g := range significant {
		clusters = append(clusters, Cluster{
			ID:         g,
			Name:       genre.Format(g),
			NodeCount:  counts[g],
			ColorIndex: i,
			Color:      Palette[i%len(Palette)],
		})
	}
	return clusters
}
