// Package pubsub carries constellation change events between the parts of a
// server and, through a Bridge, between servers.
package pubsub

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TopicConstellations carries catalog changes.
const TopicConstellations = "constellations"

// Actions published on TopicConstellations.
const (
	ActionCreated     = "created"
	ActionUpdated     = "updated"
	ActionRemoved     = "removed"
	ActionInvalidated = "invalidated"
)

// ErrClosed is returned when subscribing to a bus that has shut down
var ErrClosed = errors.New("bus is shut down")

// Event describes a change to one catalog entry.
type Event struct {
	Topic  string    `json:"topic"`
	Kind   string    `json:"kind"`
	Key    string    `json:"key"`
	Action string    `json:"action"`
	Origin string    `json:"origin"` // id of the bus that first published it
	At     time.Time `json:"at"`
}

// Bus provides publish/subscribe functionality for change events
type Bus struct {
	id          string
	subscribers map[string]map[*Subscription]bool
	mu          sync.RWMutex
	shutdown    chan struct{}
	shutdownMu  sync.Mutex
	isShutdown  bool
	bufferSize  int
}

// Subscription represents a subscription to a topic
type Subscription struct {
	topic     string
	channel   chan Event
	bus       *Bus
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewBus creates a bus with a fresh origin id. Each subscriber buffers
// bufferSize events; a full subscriber misses events rather than blocking
// publishers.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &Bus{
		id:          uuid.NewString(),
		subscribers: make(map[string]map[*Subscription]bool),
		shutdown:    make(chan struct{}),
		bufferSize:  bufferSize,
	}
}

// ID is stamped as Origin on events published locally.
func (b *Bus) ID() string {
	return b.id
}

// Subscribe creates a new subscription to a topic. It ends when ctx is
// cancelled or the bus shuts down, closing the channel.
func (b *Bus) Subscribe(ctx context.Context, topic string) (*Subscription, error) {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return nil, ErrClosed
	}
	b.shutdownMu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		topic:   topic,
		channel: make(chan Event, b.bufferSize),
		bus:     b,
		ctx:     subCtx,
		cancel:  cancel,
	}

	b.mu.Lock()
	if b.subscribers[topic] == nil {
		b.subscribers[topic] = make(map[*Subscription]bool)
	}
	b.subscribers[topic][sub] = true
	b.mu.Unlock()

	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-b.shutdown:
			// Shutdown closes the channel
		}
	}()

	return sub, nil
}

// Publish stamps a local event with this bus's origin and delivers it.
func (b *Bus) Publish(e Event) {
	if e.Origin == "" {
		e.Origin = b.id
	}
	b.deliver(e)
}

// deliver fans an event out as is. Remote events keep their origin.
func (b *Bus) deliver(e Event) {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return
	}
	b.shutdownMu.Unlock()

	if e.Topic == "" {
		e.Topic = TopicConstellations
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}

	// Sends never block, so they run under the read lock; channels are
	// only closed under the write lock.
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subscribers[e.Topic] {
		select {
		case sub.channel <- e:
		default:
			// full, drop
		}
	}
}

// SubscriberCount returns the number of subscribers for a topic
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[topic])
}

// Shutdown closes all subscriptions. It is safe to call more than once.
func (b *Bus) Shutdown() {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return
	}
	b.isShutdown = true
	b.shutdownMu.Unlock()

	close(b.shutdown)

	b.mu.Lock()
	for topic := range b.subscribers {
		for sub := range b.subscribers[topic] {
			sub.close()
		}
		delete(b.subscribers, topic)
	}
	b.mu.Unlock()
}

// Channel returns the subscription's event channel
func (s *Subscription) Channel() <-chan Event {
	return s.channel
}

// Unsubscribe removes the subscription
func (s *Subscription) Unsubscribe() {
	s.cancel()

	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	if s.bus.subscribers[s.topic] != nil {
		delete(s.bus.subscribers[s.topic], s)
		if len(s.bus.subscribers[s.topic]) == 0 {
			delete(s.bus.subscribers, s.topic)
		}
	}

	s.close()
}

func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		close(s.channel)
	})
}
