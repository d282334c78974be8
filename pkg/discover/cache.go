package discover

import (
	"container/list"
	"sync"
)

// GraphCache is an LRU cache of snapshots
type GraphCache struct {
	maxSize int
	cache   map[Key]*cacheEntry
	lru     *list.List
	mu      sync.RWMutex
	hits    uint64
	misses  uint64
}

type cacheEntry struct {
	key     Key
	value   *Snapshot
	element *list.Element
}

// NewGraphCache creates a new LRU cache with the specified maximum size
func NewGraphCache(maxSize int) *GraphCache {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &GraphCache{
		maxSize: maxSize,
		cache:   make(map[Key]*cacheEntry),
		lru:     list.New(),
	}
}

// Get retrieves a snapshot, or nil if absent
func (gc *GraphCache) Get(key Key) *Snapshot {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	entry, exists := gc.cache[key]
	if !exists {
		gc.misses++
		return nil
	}

	gc.lru.MoveToFront(entry.element)
	gc.hits++
	return entry.value
}

// Put adds or replaces a snapshot
func (gc *GraphCache) Put(key Key, value *Snapshot) {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if entry, exists := gc.cache[key]; exists {
		entry.value = value
		gc.lru.MoveToFront(entry.element)
		return
	}

	entry := &cacheEntry{key: key, value: value}
	entry.element = gc.lru.PushFront(entry)
	gc.cache[key] = entry

	if gc.lru.Len() > gc.maxSize {
		gc.evictOldest()
	}
}

// Invalidate drops one key. It reports whether the key was cached.
func (gc *GraphCache) Invalidate(key Key) bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	entry, exists := gc.cache[key]
	if !exists {
		return false
	}
	gc.lru.Remove(entry.element)
	delete(gc.cache, key)
	return true
}

// evictOldest removes the least recently used entry
func (gc *GraphCache) evictOldest() {
	oldest := gc.lru.Back()
	if oldest == nil {
		return
	}

	entry := oldest.Value.(*cacheEntry)
	gc.lru.Remove(oldest)
	delete(gc.cache, entry.key)
}

// Clear removes all entries from the cache
func (gc *GraphCache) Clear() {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	gc.cache = make(map[Key]*cacheEntry)
	gc.lru = list.New()
}

// Size returns the current number of entries in the cache
func (gc *GraphCache) Size() int {
	gc.mu.RLock()
	defer gc.mu.RUnlock()

	return gc.lru.Len()
}

// Stats returns hit and miss counts and the hit rate (0.0 - 1.0)
func (gc *GraphCache) Stats() (hits, misses uint64, hitRate float64) {
	gc.mu.RLock()
	defer gc.mu.RUnlock()

	total := gc.hits + gc.misses
	if total == 0 {
		return gc.hits, gc.misses, 0
	}
	return gc.hits, gc.misses, float64(gc.hits) / float64(total)
}
