package pubsub

import (
	"context"
	"testing"
	"time"
)

func startBridge(t *testing.T, bus *Bus, listen string, peers ...string) *Bridge {
	t.Helper()
	br := NewBridge(bus, BridgeConfig{Listen: listen, Peers: peers, RecvTimeout: 50 * time.Millisecond}, nil, nil)
	if err := br.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start bridge: %v", err)
	}
	t.Cleanup(func() { br.Close() })
	return br
}

func TestBridgeForwardsEvents(t *testing.T) {
	busA, busB := NewBus(0), NewBus(0)
	defer busA.Shutdown()
	defer busB.Shutdown()

	startBridge(t, busA, "inproc://bridge-test-a", "inproc://bridge-test-b")
	startBridge(t, busB, "inproc://bridge-test-b", "inproc://bridge-test-a")

	sub, err := busB.Subscribe(context.Background(), TopicConstellations)
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	defer sub.Unsubscribe()

	// PUB/SUB drops messages until the peers have connected, so keep
	// publishing until one arrives
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(5 * time.Second)

	for {
		select {
		case <-ticker.C:
			busA.Publish(Event{Kind: "fused", Key: "fuse_1", Action: ActionRemoved})
		case e := <-sub.Channel():
			if e.Origin != busA.ID() {
				t.Fatalf("Expected origin %s, got %s", busA.ID(), e.Origin)
			}
			if e.Key != "fuse_1" || e.Action != ActionRemoved {
				t.Fatalf("Unexpected event %+v", e)
			}
			return
		case <-deadline:
			t.Fatal("Timeout waiting for bridged event")
		}
	}
}

func TestBridgeDoubleStart(t *testing.T) {
	bus := NewBus(0)
	defer bus.Shutdown()

	br := startBridge(t, bus, "inproc://bridge-test-double")
	if err := br.Start(context.Background()); err == nil {
		t.Error("Expected error starting a running bridge")
	}
}

func TestBridgeCloseIdempotent(t *testing.T) {
	bus := NewBus(0)
	defer bus.Shutdown()

	br := NewBridge(bus, BridgeConfig{}, nil, nil)
	if err := br.Close(); err != nil {
		t.Errorf("Close before Start: %v", err)
	}
}
