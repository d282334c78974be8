package connections

import (
	"sync"
	"testing"

	"github.com/dd0wney/cluso-constellations/pkg/constellation"
	"github.com/dd0wney/cluso-constellations/pkg/metrics"
)

func TestManager_StartGetEnd(t *testing.T) {
	m := NewManager(10, fakeClock(), nil, metrics.NewRegistry())
	challenge, adj := diamond()

	s, err := m.Start(challenge, adj)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	got, ok := m.Get(s.ID)
	if !ok || got != s {
		t.Fatal("Expected to find the started session")
	}
	if !m.End(s.ID) {
		t.Error("Expected End to report the session")
	}
	if _, ok := m.Get(s.ID); ok {
		t.Error("Expected session to be gone")
	}
	if m.End(s.ID) {
		t.Error("Expected second End to report nothing")
	}
}

func TestManager_EvictsOldest(t *testing.T) {
	m := NewManager(2, fakeClock(), nil, nil)
	challenge, adj := diamond()

	first, _ := m.Start(challenge, adj)
	second, _ := m.Start(challenge, adj)
	third, _ := m.Start(challenge, adj)

	if m.Len() != 2 {
		t.Errorf("Expected 2 sessions, got %d", m.Len())
	}
	if _, ok := m.Get(first.ID); ok {
		t.Error("Expected the oldest session to be evicted")
	}
	for _, s := range []*Session{second, third} {
		if _, ok := m.Get(s.ID); !ok {
			t.Errorf("Expected session %s to survive", s.ID)
		}
	}
}

func TestManager_Concurrent(t *testing.T) {
	m := NewManager(0, nil, nil, nil)
	challenge, adj := diamond()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := m.Start(challenge, adj)
			if err != nil {
				t.Errorf("Start failed: %v", err)
				return
			}
			_ = s.Move("a")
			m.End(s.ID)
		}()
	}
	wg.Wait()

	if m.Len() != 0 {
		t.Errorf("Expected all sessions ended, got %d", m.Len())
	}
}

func TestManager_StartOnAttachesNodes(t *testing.T) {
	m := NewManager(10, fakeClock(), nil, nil)
	challenge, adj := diamond()
	lookup := map[string]constellation.Node{
		"a": {ID: "a", Name: "Alpha"},
		"b": {ID: "b", Name: "Beta"},
	}

	s, err := m.StartOn("original:original", challenge, adj, lookup)
	if err != nil {
		t.Fatalf("StartOn failed: %v", err)
	}
	if s.Constellation != "original:original" {
		t.Errorf("Expected label to be kept, got %q", s.Constellation)
	}

	opts := s.Options(nil)
	if len(opts) != 2 || opts[0].Name != "Alpha" || opts[1].Name != "Beta" {
		t.Errorf("Expected Alpha and Beta from the attached nodes, got %+v", opts)
	}
}
