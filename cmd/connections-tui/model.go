package main

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-constellations/pkg/algorithms"
	"github.com/dd0wney/cluso-constellations/pkg/connections"
	"github.com/dd0wney/cluso-constellations/pkg/constellation"
	"github.com/dd0wney/cluso-constellations/pkg/genre"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B9D")).
			MarginLeft(2).
			MarginTop(1)

	targetBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 2).
			MarginLeft(2)

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D")).
			MarginLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type keyMap struct {
	Move   key.Binding
	Undo   key.Binding
	GiveUp key.Binding
	New    key.Binding
	Filter key.Binding
	Quit   key.Binding
	Up     key.Binding
	Down   key.Binding
}

var keys = keyMap{
	Move: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "hop"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u", "backspace"),
		key.WithHelp("u", "undo"),
	),
	GiveUp: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "give up"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new game"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Move, k.Undo, k.GiveUp, k.New, k.Filter, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Move, k.Undo, k.GiveUp},
		{k.Up, k.Down, k.Filter},
		{k.New, k.Quit},
	}
}

// game is the constellation the TUI plays on.
type game struct {
	graph   *constellation.Graph
	adj     *algorithms.Adjacency
	lookup  map[string]constellation.Node
	opts    algorithms.ChallengeOptions
	rng     *rand.Rand
	manager *connections.Manager
}

func newGame(l *constellation.Listening, build constellation.BuildOptions, opts algorithms.ChallengeOptions, seed uint64) *game {
	graph := constellation.BuildWithOptions(l.Artists, l.Similarity, build)
	return &game{
		graph:   graph,
		adj:     algorithms.BuildAdjacency(graph.Links),
		lookup:  graph.Lookup(),
		opts:    opts,
		rng:     rand.New(rand.NewPCG(seed, seed)),
		manager: connections.NewManager(1, nil, nil, nil),
	}
}

func (g *game) start() (*connections.Session, error) {
	challenge := algorithms.GenerateChallenge(g.graph.Nodes, g.adj, g.opts, g.rng)
	if challenge == nil {
		return nil, fmt.Errorf("no challenge between %d and %d hops in this constellation", g.opts.MinHops, g.opts.MaxHops)
	}
	return g.manager.StartOn("tui", challenge, g.adj, g.lookup)
}

type model struct {
	game       *game
	session    *connections.Session
	options    []constellation.Node
	filter     textinput.Model
	table      table.Model
	help       help.Model
	keys       keyMap
	width      int
	message    string
	messageErr bool
}

func initialModel(g *game) model {
	ti := textinput.New()
	ti.Placeholder = "filter artists"
	ti.CharLimit = 64
	ti.Width = 40

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Artist", Width: 30},
			{Title: "Genres", Width: 40},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#4ECDC4")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF6B9D")).
		Bold(false)
	t.SetStyles(s)

	m := model{
		game:   g,
		filter: ti,
		table:  t,
		help:   help.New(),
		keys:   keys,
	}
	m.newChallenge()
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if m.filter.Focused() {
			switch msg.Type {
			case tea.KeyEnter, tea.KeyEsc:
				m.filter.Blur()
				m.table.Focus()
				return m, nil
			}
			m.filter, cmd = m.filter.Update(msg)
			m.refreshOptions()
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Filter):
			m.filter.Focus()
			m.table.Blur()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Move):
			m.move()
			return m, nil
		case key.Matches(msg, m.keys.Undo):
			m.undo()
			return m, nil
		case key.Matches(msg, m.keys.GiveUp):
			if m.session != nil {
				m.session.GiveUp()
				m.finish()
			}
			return m, nil
		case key.Matches(msg, m.keys.New):
			m.newChallenge()
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *model) newChallenge() {
	if m.session != nil {
		m.game.manager.End(m.session.ID)
	}
	session, err := m.game.start()
	if err != nil {
		m.session = nil
		m.setError(err.Error())
		m.refreshOptions()
		return
	}
	m.session = session
	m.filter.SetValue("")
	m.message = ""
	m.refreshOptions()
}

func (m *model) move() {
	if m.session == nil || m.session.Status() != connections.StatusPlaying {
		return
	}
	row := m.table.Cursor()
	if row < 0 || row >= len(m.options) {
		return
	}
	next := m.options[row]
	if err := m.session.Move(next.ID); err != nil {
		m.setError(err.Error())
		return
	}
	m.filter.SetValue("")
	if m.session.Status() == connections.StatusWon {
		m.finish()
		return
	}
	m.message = ""
	m.refreshOptions()
}

func (m *model) undo() {
	if m.session == nil {
		return
	}
	if !m.session.Undo() {
		m.setError("nothing to undo")
		return
	}
	m.message = ""
	m.refreshOptions()
}

func (m *model) finish() {
	r := m.session.Result()
	switch {
	case r.Status == connections.StatusWon && r.WasOptimal:
		m.message = fmt.Sprintf("Perfect! %d hops in %s", r.Hops, r.Elapsed.Round(time.Second))
	case r.Status == connections.StatusWon:
		m.message = fmt.Sprintf("Connected in %d hops, %d more than the best route", r.Hops, r.ExtraHops)
	default:
		m.message = "Best route: " + m.names(r.OptimalPath)
	}
	m.messageErr = r.Status != connections.StatusWon
	m.options = nil
	m.table.SetRows(nil)
}

func (m *model) setError(msg string) {
	m.message = msg
	m.messageErr = true
}

// refreshOptions lists the artists one hop away that match the filter.
func (m *model) refreshOptions() {
	m.options = nil
	if m.session != nil && m.session.Status() == connections.StatusPlaying {
		query := strings.TrimSpace(m.filter.Value())
		for _, n := range m.session.Options(nil) {
			if query == "" || strings.Contains(genre.NormalizeName(n.Name), genre.NormalizeName(query)) {
				m.options = append(m.options, n)
			}
		}
	}

	rows := make([]table.Row, len(m.options))
	for i, n := range m.options {
		rows[i] = table.Row{n.Name, genre.Blend(n.Genres, 3)}
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m model) names(ids []string) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		if n, ok := m.game.lookup[id]; ok {
			names[i] = n.Name
		} else {
			names[i] = id
		}
	}
	return strings.Join(names, " → ")
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Connections"))
	s.WriteString("\n\n")

	if m.session != nil {
		ch := m.session.Challenge
		s.WriteString(targetBoxStyle.Render(fmt.Sprintf("%s  →  %s\n%s", ch.Start.Name, ch.Target.Name,
			genre.Format(ch.Target.PrimaryGenre))))
		s.WriteString("\n\n")
		s.WriteString(pathStyle.Render(fmt.Sprintf("%s  (%d hops)", m.names(m.session.Path()), m.session.Hops())))
		s.WriteString("\n\n")

		if m.session.Status() == connections.StatusPlaying {
			s.WriteString("  " + m.filter.View())
			s.WriteString("\n\n")
			s.WriteString(m.table.View())
		}
	}

	if m.message != "" {
		s.WriteString("\n\n  ")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return s.String()
}
