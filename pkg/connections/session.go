// Package connections runs games of "connect the artists": the player starts
// at one node of a constellation and walks link by link until they reach the
// target of a generated challenge.
package connections

import (
	"errors"
	"sync"
	"time"

	"github.com/dd0wney/cluso-constellations/pkg/algorithms"
	"github.com/dd0wney/cluso-constellations/pkg/constellation"
	"github.com/google/uuid"
)

var (
	// ErrNotAdjacent is returned for a move that does not follow a link
	ErrNotAdjacent = errors.New("artists are not connected")
	// ErrFinished is returned when the game is already won or abandoned
	ErrFinished = errors.New("game is finished")
	// ErrUnknownNode is returned for an id outside the constellation
	ErrUnknownNode = errors.New("unknown artist")
	// ErrNoChallenge is returned when a session is started without a challenge
	ErrNoChallenge = errors.New("no challenge")
)

// Status is the state of a session.
type Status string

const (
	StatusPlaying   Status = "playing"
	StatusWon       Status = "won"
	StatusAbandoned Status = "gave_up"
)

// Clock returns the current time; tests swap it.
type Clock func() time.Time

// Session is one game in progress. It is safe for concurrent use.
type Session struct {
	ID            string
	Constellation string // label of the board, e.g. "original:original"
	Challenge     algorithms.Challenge
	StartedAt     time.Time

	mu         sync.RWMutex
	adj        *algorithms.Adjacency
	lookup     map[string]constellation.Node
	clock      Clock
	path       []string
	status     Status
	finishedAt time.Time
}

// Result summarises a finished (or abandoned) game.
type Result struct {
	Status      Status        `json:"status"`
	Hops        int           `json:"hops"`
	OptimalHops int           `json:"optimalHops"`
	WasOptimal  bool          `json:"wasOptimal"`
	ExtraHops   int           `json:"extraHops"`
	Elapsed     time.Duration `json:"elapsed"`
	Path        []string      `json:"path"`
	OptimalPath []string      `json:"optimalPath"`
}

// NewSession starts a game at the challenge's start node. A nil clock uses
// time.Now.
func NewSession(challenge *algorithms.Challenge, adj *algorithms.Adjacency, clock Clock) (*Session, error) {
	if challenge == nil {
		return nil, ErrNoChallenge
	}
	if clock == nil {
		clock = time.Now
	}
	return &Session{
		ID:        uuid.NewString(),
		Challenge: *challenge,
		StartedAt: clock(),
		adj:       adj,
		clock:     clock,
		path:      []string{challenge.Start.ID},
		status:    StatusPlaying,
	}, nil
}

// Move steps from the current node to next.
func (s *Session) Move(next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusPlaying {
		return ErrFinished
	}
	if !s.adj.Has(next) {
		return ErrUnknownNode
	}
	if !algorithms.IsAdjacent(s.adj, s.current(), next) {
		return ErrNotAdjacent
	}

	s.path = append(s.path, next)
	if next == s.Challenge.Target.ID {
		s.finish(StatusWon)
	}
	return nil
}

// Undo takes back the last move. The start node is never removed.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusPlaying || len(s.path) <= 1 {
		return false
	}
	s.path = s.path[:len(s.path)-1]
	return true
}

// GiveUp abandons a game in progress. It is a no-op on a finished game.
func (s *Session) GiveUp() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusPlaying {
		s.finish(StatusAbandoned)
	}
}

func (s *Session) finish(status Status) {
	s.status = status
	s.finishedAt = s.clock()
}

func (s *Session) current() string {
	return s.path[len(s.path)-1]
}

// Current returns the node the player stands on.
func (s *Session) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current()
}

// Hops returns the number of moves made, undone moves excluded.
func (s *Session) Hops() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.path) - 1
}

// Path returns a copy of the route so far.
func (s *Session) Path() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.path))
	copy(out, s.path)
	return out
}

// Status reports whether the game is still running.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Options lists the nodes reachable in one move. A nil lookup uses the
// nodes the session was started on, if any.
func (s *Session) Options(lookup map[string]constellation.Node) []constellation.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if lookup == nil {
		lookup = s.lookup
	}
	return algorithms.ConnectedNodes(s.adj, s.current(), lookup)
}

// Result reports the outcome. For a game still running, Elapsed is measured
// up to now.
func (s *Session) Result() Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	end := s.finishedAt
	if s.status == StatusPlaying {
		end = s.clock()
	}

	hops := len(s.path) - 1
	path := make([]string, len(s.path))
	copy(path, s.path)

	r := Result{
		Status:      s.status,
		Hops:        hops,
		OptimalHops: s.Challenge.OptimalHops,
		Elapsed:     end.Sub(s.StartedAt),
		Path:        path,
		OptimalPath: s.Challenge.OptimalPath,
	}
	if s.status == StatusWon {
		r.WasOptimal = hops <= s.Challenge.OptimalHops
		r.ExtraHops = max(hops-s.Challenge.OptimalHops, 0)
	}
	return r
}
