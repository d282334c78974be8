// Command connections-tui plays Connections in the terminal: hop from the
// start artist to the target through shared genres and similar artists.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/cluso-constellations/pkg/config"
	"github.com/dd0wney/cluso-constellations/pkg/constellation"
	"github.com/dd0wney/cluso-constellations/pkg/validation"
)

func main() {
	configPath := flag.String("config", "", "YAML config supplying build and challenge options")
	minHops := flag.Int("min", 0, "Minimum route length")
	maxHops := flag.Int("max", 0, "Maximum route length")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Seed for challenge draws")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <artists-file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	opts := cfg.Challenge
	if *minHops > 0 {
		opts.MinHops = *minHops
	}
	if *maxHops > 0 {
		opts.MaxHops = *maxHops
	}
	if err := validation.ValidateChallengeOptions(opts); err != nil {
		fmt.Fprintf(os.Stderr, "challenge: %v\n", err)
		os.Exit(1)
	}

	listening, err := constellation.ReadListening(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(newGame(listening, cfg.Build, opts, *seed)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
