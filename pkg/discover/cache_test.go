package discover

import "testing"

func TestGraphCacheEviction(t *testing.T) {
	cache := NewGraphCache(2)
	a := Key{Kind: KindDiscovered, ID: "a"}
	b := Key{Kind: KindDiscovered, ID: "b"}
	c := Key{Kind: KindDiscovered, ID: "c"}

	cache.Put(a, &Snapshot{Key: a})
	cache.Put(b, &Snapshot{Key: b})
	cache.Get(a) // a is now most recent
	cache.Put(c, &Snapshot{Key: c})

	if cache.Get(b) != nil {
		t.Error("Expected b to be evicted")
	}
	if cache.Get(a) == nil || cache.Get(c) == nil {
		t.Error("Expected a and c to remain")
	}
	if cache.Size() != 2 {
		t.Errorf("Expected size 2, got %d", cache.Size())
	}
}

func TestGraphCacheInvalidateAndStats(t *testing.T) {
	cache := NewGraphCache(0)
	k := Key{Kind: KindOriginal, ID: OriginalKey}
	cache.Put(k, &Snapshot{Key: k})

	if !cache.Invalidate(k) {
		t.Error("Expected invalidate to report a cached key")
	}
	if cache.Invalidate(k) {
		t.Error("Expected second invalidate to report nothing")
	}

	cache.Get(k)
	cache.Put(k, &Snapshot{Key: k})
	cache.Get(k)
	hits, misses, rate := cache.Stats()
	if hits != 1 || misses != 1 || rate != 0.5 {
		t.Errorf("Expected 1 hit, 1 miss, 0.5 rate; got %d, %d, %v", hits, misses, rate)
	}

	cache.Clear()
	if cache.Size() != 0 {
		t.Errorf("Expected empty cache, got %d", cache.Size())
	}
}

func TestKeyString(t *testing.T) {
	if got := (Key{Kind: KindFused, ID: "fuse_1"}).String(); got != "fused:fuse_1" {
		t.Errorf("Expected fused:fuse_1, got %s", got)
	}
}
