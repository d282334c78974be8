// Command constellation builds and queries music constellations from
// artist files without running a server.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-constellations/pkg/config"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B9D"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))
)

type app struct {
	configPath string
	asJSON     bool
	cfg        *config.Config
	out        io.Writer
}

func main() {
	a := &app{out: os.Stdout}
	if err := a.rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "constellation",
		Short:         "Build and explore music constellations",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config supplying build and challenge options")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "Print JSON instead of text")

	root.AddCommand(
		a.buildCommand(),
		a.pathCommand(),
		a.challengeCommand(),
		a.searchCommand(),
		a.componentsCommand(),
		a.fuseCommand(),
		a.layoutCommand(),
	)
	return root
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
