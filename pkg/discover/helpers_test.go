package discover

import (
	"sync"
	"time"

	"github.com/dd0wney/cluso-constellations/pkg/constellation"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func artist(id, name string, genres ...string) constellation.Artist {
	return constellation.Artist{ID: id, Name: name, Genres: genres}
}

func mineArtists() []constellation.Artist {
	return []constellation.Artist{
		artist("radiohead", "Radiohead", "rock", "alternative"),
		artist("portishead", "Portishead", "trip-hop", "electronic"),
		artist("massive", "Massive Attack", "trip-hop", "electronic"),
		artist("blur", "Blur", "rock", "britpop"),
	}
}

func theirArtists() []constellation.Artist {
	a := []constellation.Artist{
		artist("blur", "Blur", "rock", "britpop"),
		artist("oasis", "Oasis", "rock", "britpop"),
		artist("pulp", "Pulp", "britpop"),
	}
	a[0].ImageURL = "https://img.example/blur.jpg"
	return a
}
