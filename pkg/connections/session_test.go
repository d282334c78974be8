package connections

import (
	"errors"
	"testing"
	"time"

	"github.com/dd0wney/cluso-constellations/pkg/algorithms"
	"github.com/dd0wney/cluso-constellations/pkg/constellation"
)

// fakeClock advances one second per reading.
func fakeClock() Clock {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

// diamond: s - a - t, s - b - c - t
func diamond() (*algorithms.Challenge, *algorithms.Adjacency) {
	adj := algorithms.BuildAdjacencyFromPairs([][2]string{
		{"s", "a"}, {"a", "t"}, {"s", "b"}, {"b", "c"}, {"c", "t"},
	})
	return &algorithms.Challenge{
		Start:       constellation.Node{ID: "s"},
		Target:      constellation.Node{ID: "t"},
		OptimalPath: []string{"s", "a", "t"},
		OptimalHops: 2,
	}, adj
}

func TestSession_OptimalWin(t *testing.T) {
	challenge, adj := diamond()
	s, err := NewSession(challenge, adj, fakeClock())
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if s.ID == "" {
		t.Error("Expected a session id")
	}

	for _, id := range []string{"a", "t"} {
		if err := s.Move(id); err != nil {
			t.Fatalf("Move(%s) failed: %v", id, err)
		}
	}

	r := s.Result()
	if r.Status != StatusWon || !r.WasOptimal || r.ExtraHops != 0 || r.Hops != 2 {
		t.Errorf("Unexpected result: %+v", r)
	}
	if r.Elapsed <= 0 {
		t.Errorf("Expected positive elapsed time, got %v", r.Elapsed)
	}
}

func TestSession_LongWayRound(t *testing.T) {
	challenge, adj := diamond()
	s, _ := NewSession(challenge, adj, fakeClock())

	for _, id := range []string{"b", "c", "t"} {
		if err := s.Move(id); err != nil {
			t.Fatalf("Move(%s) failed: %v", id, err)
		}
	}

	r := s.Result()
	if r.WasOptimal || r.ExtraHops != 1 {
		t.Errorf("Expected one extra hop, got %+v", r)
	}
	if err := s.Move("c"); !errors.Is(err, ErrFinished) {
		t.Errorf("Expected ErrFinished, got %v", err)
	}
}

func TestSession_InvalidMoves(t *testing.T) {
	challenge, adj := diamond()
	s, _ := NewSession(challenge, adj, fakeClock())

	if err := s.Move("t"); !errors.Is(err, ErrNotAdjacent) {
		t.Errorf("Expected ErrNotAdjacent, got %v", err)
	}
	if err := s.Move("nowhere"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("Expected ErrUnknownNode, got %v", err)
	}
	if s.Hops() != 0 || s.Current() != "s" {
		t.Errorf("Rejected moves must not change position, at %s after %d hops", s.Current(), s.Hops())
	}
}

func TestSession_Undo(t *testing.T) {
	challenge, adj := diamond()
	s, _ := NewSession(challenge, adj, fakeClock())

	if s.Undo() {
		t.Error("Undo must not remove the start")
	}

	_ = s.Move("b")
	_ = s.Move("c")
	if !s.Undo() {
		t.Fatal("Expected undo to succeed")
	}
	if s.Current() != "b" || s.Hops() != 1 {
		t.Errorf("Expected to be back at b after 1 hop, got %s after %d", s.Current(), s.Hops())
	}
	if got := s.Path(); len(got) != 2 || got[1] != "b" {
		t.Errorf("Unexpected path %v", got)
	}
}

func TestSession_GiveUp(t *testing.T) {
	challenge, adj := diamond()
	s, _ := NewSession(challenge, adj, fakeClock())
	_ = s.Move("a")

	s.GiveUp()

	if s.Status() != StatusAbandoned {
		t.Errorf("Expected abandoned, got %s", s.Status())
	}
	r := s.Result()
	if r.WasOptimal || r.ExtraHops != 0 {
		t.Errorf("Abandoned games score nothing, got %+v", r)
	}
	if s.Undo() {
		t.Error("Undo must fail on a finished game")
	}

	s.GiveUp()
	if s.Status() != StatusAbandoned {
		t.Error("GiveUp must be idempotent")
	}
}

func TestSession_Options(t *testing.T) {
	challenge, adj := diamond()
	s, _ := NewSession(challenge, adj, fakeClock())
	lookup := map[string]constellation.Node{"a": {ID: "a"}, "b": {ID: "b"}}

	opts := s.Options(lookup)
	if len(opts) != 2 || opts[0].ID != "a" || opts[1].ID != "b" {
		t.Errorf("Expected options [a b], got %v", opts)
	}
}

func TestNewSession_NilChallenge(t *testing.T) {
	if _, err := NewSession(nil, nil, nil); !errors.Is(err, ErrNoChallenge) {
		t.Errorf("Expected ErrNoChallenge, got %v", err)
	}
}
