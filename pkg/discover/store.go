package discover

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/golang/snappy"
)

// State is everything a catalog persists. Derived graphs are never part of
// it; they are rebuilt from the artist lists after a load.
type State struct {
	Original   *Entry  `json:"original,omitempty"`
	Discovered []Entry `json:"discovered"`
	Fused      []Entry `json:"fused"`
}

// Store persists catalog state.
type Store interface {
	// Name labels the backend in metrics and logs
	Name() string
	// Load returns the saved state, or an empty state when nothing was saved
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, state *State) error
	Close() error
}

// Pinger is implemented by stores backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

func emptyState() *State {
	return &State{Discovered: []Entry{}, Fused: []Entry{}}
}

// encodeState serialises state as snappy-compressed JSON.
func encodeState(state *State) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}
	return snappy.Encode(nil, data), nil
}

func decodeState(compressed []byte) (*State, error) {
	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress state: %w", err)
	}
	state := emptyState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	if state.Discovered == nil {
		state.Discovered = []Entry{}
	}
	if state.Fused == nil {
		state.Fused = []Entry{}
	}
	return state, nil
}
