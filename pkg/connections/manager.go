package connections

import (
	"container/list"
	"sync"

	"github.com/dd0wney/cluso-constellations/pkg/algorithms"
	"github.com/dd0wney/cluso-constellations/pkg/constellation"
	"github.com/dd0wney/cluso-constellations/pkg/logging"
	"github.com/dd0wney/cluso-constellations/pkg/metrics"
)

// DefaultMaxSessions bounds a Manager created with a non-positive limit.
const DefaultMaxSessions = 1000

// Manager keeps the sessions of a server in memory. When full, the oldest
// session is evicted to make room.
type Manager struct {
	mu          sync.Mutex
	maxSessions int
	sessions    map[string]*list.Element
	order       *list.List // front = oldest
	clock       Clock
	logger      logging.Logger
	metrics     *metrics.Registry
}

// NewManager creates a session registry.
func NewManager(maxSessions int, clock Clock, logger logging.Logger, registry *metrics.Registry) *Manager {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Manager{
		maxSessions: maxSessions,
		sessions:    make(map[string]*list.Element),
		order:       list.New(),
		clock:       clock,
		logger:      logger.With(logging.Component("connections")),
		metrics:     registry,
	}
}

// Start registers a new session for challenge.
func (m *Manager) Start(challenge *algorithms.Challenge, adj *algorithms.Adjacency) (*Session, error) {
	return m.StartOn("", challenge, adj, nil)
}

// StartOn registers a session played on a labelled constellation. Options
// with a nil lookup resolve against lookup.
func (m *Manager) StartOn(label string, challenge *algorithms.Challenge, adj *algorithms.Adjacency, lookup map[string]constellation.Node) (*Session, error) {
	session, err := NewSession(challenge, adj, m.clock)
	if err != nil {
		return nil, err
	}
	session.Constellation = label
	session.lookup = lookup

	m.mu.Lock()
	defer m.mu.Unlock()

	for m.order.Len() >= m.maxSessions {
		oldest := m.order.Front()
		evicted := m.order.Remove(oldest).(*Session)
		delete(m.sessions, evicted.ID)
		m.logger.Debug("session evicted", logging.String("session_id", evicted.ID))
	}
	m.sessions[session.ID] = m.order.PushBack(session)
	m.updateGauge()

	m.logger.Debug("session started",
		logging.String("session_id", session.ID),
		logging.String("constellation", label),
		logging.ArtistID(challenge.Start.ID),
		logging.String("target_id", challenge.Target.ID),
		logging.Hops(challenge.OptimalHops),
	)
	return session, nil
}

// Get looks a session up by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return elem.Value.(*Session), true
}

// End forgets a session. It reports whether the session existed.
func (m *Manager) End(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.sessions[id]
	if !ok {
		return false
	}
	m.order.Remove(elem)
	delete(m.sessions, id)
	m.updateGauge()
	return true
}

// Max returns the session cap.
func (m *Manager) Max() int {
	return m.maxSessions
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *Manager) updateGauge() {
	if m.metrics != nil {
		m.metrics.SetActiveSessions(m.order.Len())
	}
}
