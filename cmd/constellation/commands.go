package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-constellations/pkg/algorithms"
	"github.com/dd0wney/cluso-constellations/pkg/constellation"
	"github.com/dd0wney/cluso-constellations/pkg/discover"
	"github.com/dd0wney/cluso-constellations/pkg/genre"
	"github.com/dd0wney/cluso-constellations/pkg/visualization"
)

func (a *app) buildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "build <artists-file>",
		Short: "Build a constellation and print its summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(args[0], a.cfg.Build)
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(c.graph)
			}

			stats := c.graph.Stats()
			components := algorithms.ConnectedComponents(c.adj)
			a.printf("%s\n", titleStyle.Render(fmt.Sprintf("%d artists, %d links", stats.Nodes, stats.Links)))
			a.printf("  similarity links: %d\n", stats.SimilarityLinks)
			a.printf("  genre links:      %d\n", stats.GenreLinks)
			a.printf("  hidden links:     %d\n", stats.HiddenLinks)
			a.printf("  components:       %d\n", len(components))
			for _, cl := range c.graph.Clusters {
				a.printf("  %s %s\n", cl.Name, dimStyle.Render(fmt.Sprintf("(%d)", cl.NodeCount)))
			}
			return nil
		},
	}
}

func (a *app) pathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path <artists-file> <from> <to>",
		Short: "Print the shortest route between two artists",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(args[0], a.cfg.Build)
			if err != nil {
				return err
			}
			from, err := c.resolve(args[1])
			if err != nil {
				return err
			}
			to, err := c.resolve(args[2])
			if err != nil {
				return err
			}

			path := algorithms.ShortestPath(c.adj, from.ID, to.ID)
			if a.asJSON {
				return a.printJSON(map[string]any{"path": path, "found": path != nil})
			}
			if path == nil {
				a.printf("%s and %s are not connected\n", from.Name, to.Name)
				return nil
			}
			names := make([]string, len(path))
			for i, id := range path {
				names[i] = c.lookup[id].Name
			}
			a.printf("%s\n", okStyle.Render(fmt.Sprintf("%d hops", len(path)-1)))
			a.printf("%s\n", strings.Join(names, " → "))
			return nil
		},
	}
}

func (a *app) challengeCommand() *cobra.Command {
	var minHops, maxHops int
	var seed uint64

	cmd := &cobra.Command{
		Use:   "challenge <artists-file>",
		Short: "Draw a Connections challenge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(args[0], a.cfg.Build)
			if err != nil {
				return err
			}
			opts := a.cfg.Challenge
			if cmd.Flags().Changed("min") {
				opts.MinHops = minHops
			}
			if cmd.Flags().Changed("max") {
				opts.MaxHops = maxHops
			}

			rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
			if cmd.Flags().Changed("seed") {
				rng = rand.New(rand.NewPCG(seed, seed))
			}
			challenge := algorithms.GenerateChallenge(c.graph.Nodes, c.adj, opts, rng)
			if challenge == nil {
				return errors.New("no challenge fits this constellation and hop range")
			}
			if a.asJSON {
				return a.printJSON(challenge)
			}
			a.printf("%s\n", titleStyle.Render(fmt.Sprintf("%s → %s", challenge.Start.Name, challenge.Target.Name)))
			a.printf("  best route: %d hops\n", challenge.OptimalHops)
			a.printf("  %s\n", dimStyle.Render(genre.Blend(challenge.Start.Genres, 3)+" / "+genre.Blend(challenge.Target.Genres, 3)))
			return nil
		},
	}
	cmd.Flags().IntVar(&minHops, "min", 0, "Minimum route length")
	cmd.Flags().IntVar(&maxHops, "max", 0, "Maximum route length")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible draw")
	return cmd
}

func (a *app) searchCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <artists-file> <query>",
		Short: "Find artists by name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(args[0], a.cfg.Build)
			if err != nil {
				return err
			}
			results := algorithms.SearchNodes(args[1], c.graph.Nodes, limit)
			if a.asJSON {
				return a.printJSON(results)
			}
			if len(results) == 0 {
				a.printf("no matches\n")
				return nil
			}
			for _, r := range results {
				a.printf("%-30s %s\n", r.Node.Name, dimStyle.Render(genre.Format(r.Node.PrimaryGenre)))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", algorithms.DefaultSearchLimit, "Maximum matches")
	return cmd
}

func (a *app) componentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "components <artists-file>",
		Short: "List connected components, largest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(args[0], a.cfg.Build)
			if err != nil {
				return err
			}
			components := algorithms.ConnectedComponents(c.adj)
			if a.asJSON {
				return a.printJSON(components)
			}
			for _, comp := range components {
				names := make([]string, 0, len(comp.Nodes))
				for _, id := range comp.Nodes {
					names = append(names, c.lookup[id].Name)
				}
				a.printf("%s %s\n", okStyle.Render(fmt.Sprintf("[%d]", comp.Size)), strings.Join(names, ", "))
			}
			return nil
		},
	}
}

func (a *app) fuseCommand() *cobra.Command {
	var fusionType string

	cmd := &cobra.Command{
		Use:   "fuse <mine-file> <theirs-file>",
		Short: "Fuse two listening histories into one constellation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mine, err := constellation.ReadListening(args[0])
			if err != nil {
				return err
			}
			theirs, err := constellation.ReadListening(args[1])
			if err != nil {
				return err
			}
			artists, err := discover.Fuse(discover.FusionType(fusionType), mine.Artists, theirs.Artists)
			if err != nil {
				return fmt.Errorf("%s: %w", fusionType, err)
			}

			c := buildLoaded(&constellation.Listening{Artists: artists}, a.cfg.Build)
			if a.asJSON {
				return a.printJSON(c.graph)
			}
			counts := make(map[string]int)
			for _, ar := range artists {
				counts[string(ar.Ownership)]++
			}
			a.printf("%s\n", titleStyle.Render(fmt.Sprintf("%s: %d artists", fusionType, len(artists))))
			a.printf("  mine %d, theirs %d, both %d\n", counts["mine"], counts["theirs"], counts["both"])
			a.printf("  top genres: %s\n", strings.Join(discover.TopGenres(artists, discover.TopGenreCount), ", "))
			return nil
		},
	}
	cmd.Flags().StringVar(&fusionType, "type", string(discover.FusionUnion), "union or intersection")
	return cmd
}

func (a *app) layoutCommand() *cobra.Command {
	var (
		algorithm     string
		width, height float64
		iterations    int
		seed          uint64
	)

	cmd := &cobra.Command{
		Use:   "layout <artists-file>",
		Short: "Position a constellation and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(args[0], a.cfg.Build)
			if err != nil {
				return err
			}
			layout := visualization.NewLayout(algorithm, visualization.LayoutConfig{
				Width:      width,
				Height:     height,
				Iterations: iterations,
				Seed:       seed,
			})
			vis, err := visualization.Compute(layout, c.graph)
			if err != nil {
				return err
			}
			return a.printJSON(vis.View())
		},
	}
	cmd.Flags().StringVar(&algorithm, "algorithm", "force", "force or circular")
	cmd.Flags().Float64Var(&width, "width", 800, "Canvas width")
	cmd.Flags().Float64Var(&height, "height", 600, "Canvas height")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "Force layout iterations")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Placement seed")
	return cmd
}
