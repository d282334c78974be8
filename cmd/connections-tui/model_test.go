package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/cluso-constellations/pkg/algorithms"
	"github.com/dd0wney/cluso-constellations/pkg/connections"
	"github.com/dd0wney/cluso-constellations/pkg/constellation"
)

func chainGame(minHops, maxHops int) *game {
	l := &constellation.Listening{Artists: []constellation.Artist{
		{ID: "a", Name: "Alpha", Genres: []string{"g1"}},
		{ID: "b", Name: "Beta", Genres: []string{"g1", "g2"}},
		{ID: "c", Name: "Gamma", Genres: []string{"g2", "g3"}},
		{ID: "d", Name: "Delta", Genres: []string{"g3"}},
	}}
	opts := algorithms.DefaultChallengeOptions()
	opts.MinHops, opts.MaxHops = minHops, maxHops
	return newGame(l, constellation.DefaultBuildOptions(), opts, 42)
}

func press(m model, msg tea.KeyMsg) model {
	next, _ := m.Update(msg)
	return next.(model)
}

var (
	enter  = tea.KeyMsg{Type: tea.KeyEnter}
	undo   = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("u")}
	giveUp = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")}
	slash  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")}
)

func TestInitialModelStartsGame(t *testing.T) {
	m := initialModel(chainGame(3, 3))
	if m.session == nil {
		t.Fatalf("Expected a session, got message %q", m.message)
	}
	if m.session.Challenge.OptimalHops != 3 {
		t.Errorf("Expected 3 hop challenge, got %d", m.session.Challenge.OptimalHops)
	}
	if len(m.options) != 1 {
		t.Errorf("Expected 1 option from an end of the chain, got %d", len(m.options))
	}
	if !strings.Contains(m.View(), m.session.Challenge.Target.Name) {
		t.Error("View should show the target")
	}
}

func TestPlayToWin(t *testing.T) {
	m := initialModel(chainGame(3, 3))
	target := m.session.Challenge.Target.ID

	for i := 0; i < 10 && m.session.Status() == connections.StatusPlaying; i++ {
		// step towards the target: pick the option on the optimal path
		want := m.session.Challenge.OptimalPath[m.session.Hops()+1]
		for row, n := range m.options {
			if n.ID == want {
				m.table.SetCursor(row)
			}
		}
		m = press(m, enter)
	}

	if m.session.Status() != connections.StatusWon {
		t.Fatalf("Expected won, got %s", m.session.Status())
	}
	if m.session.Current() != target {
		t.Errorf("Expected to finish on %s, got %s", target, m.session.Current())
	}
	if m.messageErr || !strings.Contains(m.message, "Perfect") {
		t.Errorf("Expected a perfect message, got %q", m.message)
	}
	if m.options != nil {
		t.Error("Finished game should have no options")
	}
}

func TestUndoAndGiveUp(t *testing.T) {
	m := initialModel(chainGame(3, 3))

	m = press(m, undo)
	if !m.messageErr {
		t.Error("Undo at the start should report an error")
	}

	m = press(m, enter)
	if m.session.Hops() != 1 {
		t.Fatalf("Expected 1 hop, got %d", m.session.Hops())
	}
	m = press(m, undo)
	if m.session.Hops() != 0 {
		t.Errorf("Expected undo back to start, got %d hops", m.session.Hops())
	}

	m = press(m, giveUp)
	if m.session.Status() != connections.StatusAbandoned {
		t.Fatalf("Expected gave_up, got %s", m.session.Status())
	}
	if !strings.Contains(m.message, "Best route") {
		t.Errorf("Expected best route in message, got %q", m.message)
	}
}

func TestFilterNarrowsOptions(t *testing.T) {
	m := initialModel(chainGame(1, 1))

	// redraw until the game starts on an inner node with two neighbours
	for i := 0; i < 100 && m.session.Current() != "b" && m.session.Current() != "c"; i++ {
		m.newChallenge()
	}
	if len(m.options) != 2 {
		t.Fatalf("Expected 2 options, got %d", len(m.options))
	}

	m = press(m, slash)
	if !m.filter.Focused() {
		t.Fatal("Slash should focus the filter")
	}
	first := m.options[0].Name
	for _, r := range strings.ToLower(first[:3]) {
		m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if len(m.options) != 1 || m.options[0].Name != first {
		t.Errorf("Expected only %s after filtering, got %+v", first, m.options)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.filter.Focused() {
		t.Error("Esc should leave the filter")
	}
}

func TestNoChallengeFits(t *testing.T) {
	m := initialModel(chainGame(5, 6))
	if m.session != nil {
		t.Fatal("Expected no session on a chain too short for 5 hops")
	}
	if !m.messageErr {
		t.Error("Expected an error message")
	}
	_ = m.View()
}
