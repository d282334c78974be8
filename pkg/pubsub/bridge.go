package pubsub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"
	"go.nanomsg.org/mangos/v3/protocol/sub"

	// Register all transports
	_ "go.nanomsg.org/mangos/v3/transport/all"

	"github.com/dd0wney/cluso-constellations/pkg/logging"
	"github.com/dd0wney/cluso-constellations/pkg/metrics"
)

const eventPrefix = "EVT:"

// BridgeConfig says where a bridge publishes and which peers it follows.
// Addresses are mangos URLs such as tcp://127.0.0.1:7701.
type BridgeConfig struct {
	Listen      string        `yaml:"listen"`
	Peers       []string      `yaml:"peers"`
	RecvTimeout time.Duration `yaml:"recv_timeout"`
}

// Bridge mirrors a bus across processes over nanomsg PUB/SUB. Events first
// published on the local bus are sent to every peer; events received from
// peers are delivered locally with their origin intact, so they are never
// sent back out.
type Bridge struct {
	bus     *Bus
	config  BridgeConfig
	logger  logging.Logger
	metrics *metrics.Registry

	pubSock mangos.Socket
	subSock mangos.Socket

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	runningMu sync.Mutex
	running   bool
}

// NewBridge creates a bridge for bus. It does nothing until Start.
func NewBridge(bus *Bus, config BridgeConfig, logger logging.Logger, registry *metrics.Registry) *Bridge {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if config.RecvTimeout <= 0 {
		config.RecvTimeout = 250 * time.Millisecond
	}
	return &Bridge{
		bus:     bus,
		config:  config,
		logger:  logger.With(logging.Component("events")),
		metrics: registry,
	}
}

// Start opens the sockets and begins forwarding.
func (br *Bridge) Start(ctx context.Context) error {
	br.runningMu.Lock()
	defer br.runningMu.Unlock()

	if br.running {
		return fmt.Errorf("bridge already running")
	}

	pubSock, err := pub.NewSocket()
	if err != nil {
		return fmt.Errorf("failed to create PUB socket: %w", err)
	}
	if br.config.Listen != "" {
		if err := pubSock.Listen(br.config.Listen); err != nil {
			pubSock.Close()
			return fmt.Errorf("failed to listen on %s: %w", br.config.Listen, err)
		}
	}

	subSock, err := sub.NewSocket()
	if err != nil {
		pubSock.Close()
		return fmt.Errorf("failed to create SUB socket: %w", err)
	}
	// NNG SUB uses prefix matching on the message bytes
	if err := subSock.SetOption(mangos.OptionSubscribe, []byte(eventPrefix)); err != nil {
		pubSock.Close()
		subSock.Close()
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	if err := subSock.SetOption(mangos.OptionRecvDeadline, br.config.RecvTimeout); err != nil {
		pubSock.Close()
		subSock.Close()
		return fmt.Errorf("failed to set receive deadline: %w", err)
	}
	for _, peer := range br.config.Peers {
		// asynchronous dial: peers may come up after us
		if err := subSock.DialOptions(peer, map[string]any{mangos.OptionDialAsynch: true}); err != nil {
			pubSock.Close()
			subSock.Close()
			return fmt.Errorf("failed to dial peer %s: %w", peer, err)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	local, err := br.bus.Subscribe(runCtx, TopicConstellations)
	if err != nil {
		cancel()
		pubSock.Close()
		subSock.Close()
		return err
	}

	br.pubSock, br.subSock, br.cancel = pubSock, subSock, cancel
	br.running = true

	br.wg.Add(2)
	go br.forwardLocal(local)
	go br.receiveRemote(runCtx)

	br.logger.Info("event bridge started",
		logging.String("listen", br.config.Listen),
		logging.Count(len(br.config.Peers)),
	)
	return nil
}

// forwardLocal sends events that originated on this bus to the peers.
func (br *Bridge) forwardLocal(local *Subscription) {
	defer br.wg.Done()

	for e := range local.Channel() {
		if e.Origin != br.bus.ID() {
			continue
		}
		data, err := json.Marshal(e)
		if err != nil {
			br.logger.Warn("failed to marshal event", logging.Error(err))
			continue
		}
		if err := br.pubSock.Send(append([]byte(eventPrefix), data...)); err != nil {
			br.logger.Warn("failed to send event", logging.Error(err))
			continue
		}
		br.record("local", e.Action)
	}
}

// receiveRemote delivers peer events on the local bus.
func (br *Bridge) receiveRemote(ctx context.Context) {
	defer br.wg.Done()

	for {
		msg, err := br.subSock.Recv()
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			if errors.Is(err, mangos.ErrClosed) {
				return
			}
			// Timeout or error, continue
			continue
		}

		if !bytes.HasPrefix(msg, []byte(eventPrefix)) {
			continue
		}
		var e Event
		if err := json.Unmarshal(msg[len(eventPrefix):], &e); err != nil {
			br.logger.Warn("failed to unmarshal event", logging.Error(err))
			continue
		}
		if e.Origin == br.bus.ID() {
			continue
		}

		br.bus.deliver(e)
		br.record("remote", e.Action)
	}
}

func (br *Bridge) record(origin, action string) {
	if br.metrics != nil {
		br.metrics.RecordEvent(origin, action)
	}
}

// Close stops forwarding and closes the sockets.
func (br *Bridge) Close() error {
	br.runningMu.Lock()
	defer br.runningMu.Unlock()

	if !br.running {
		return nil
	}
	br.running = false

	br.cancel()
	errPub := br.pubSock.Close()
	errSub := br.subSock.Close()
	br.wg.Wait()

	return errors.Join(errPub, errSub)
}
