package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestClipCache_BasicOperations(t *testing.T) {
	cache := NewClipCache[string](4, nil)

	got, stored := cache.LoadOrStore("a", "alpha")
	if !stored || got != "alpha" {
		t.Fatalf("LoadOrStore = (%q, %v), want (alpha, true)", got, stored)
	}

	v, ok := cache.Get("a")
	if !ok || v != "alpha" {
		t.Fatalf("Get = (%q, %v), want (alpha, true)", v, ok)
	}

	if !cache.Contains("a") {
		t.Error("Contains returned false for existing key")
	}
	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}

	if _, ok := cache.Delete("a"); !ok {
		t.Error("Delete reported missing key")
	}
	if cache.Contains("a") {
		t.Error("Key still exists after delete")
	}
}

func TestClipCache_LoadOrStoreKeepsExisting(t *testing.T) {
	cache := NewClipCache[string](4, nil)
	cache.LoadOrStore("a", "first")

	got, stored := cache.LoadOrStore("a", "second")
	if stored {
		t.Error("second LoadOrStore should not store")
	}
	if got != "first" {
		t.Errorf("got %q, want first", got)
	}
}

func TestClipCache_InsertionOrderEviction(t *testing.T) {
	var evicted []string
	cache := NewClipCache[int](18, func(key string, _ int) {
		evicted = append(evicted, key)
	})

	for i := 0; i < 18; i++ {
		cache.LoadOrStore(fmt.Sprintf("key-%d", i), i)
	}

	// Hits must not protect an entry.
	cache.Get("key-0")
	cache.Get("key-0")

	cache.LoadOrStore("key-18", 18)

	if len(evicted) != 1 || evicted[0] != "key-0" {
		t.Fatalf("evicted = %v, want [key-0]", evicted)
	}
	if cache.Len() != 18 {
		t.Errorf("Len = %d, want 18", cache.Len())
	}
	if cache.Contains("key-0") {
		t.Error("oldest entry should be gone")
	}

	keys := cache.Keys()
	if keys[0] != "key-1" || keys[len(keys)-1] != "key-18" {
		t.Errorf("Keys order = %v", keys)
	}
}

func TestClipCache_Purge(t *testing.T) {
	var evicted []string
	cache := NewClipCache[int](3, func(key string, _ int) {
		evicted = append(evicted, key)
	})
	cache.LoadOrStore("x", 1)
	cache.LoadOrStore("y", 2)

	cache.Purge()

	if cache.Len() != 0 {
		t.Errorf("Len after Purge = %d", cache.Len())
	}
	if len(evicted) != 2 || evicted[0] != "x" || evicted[1] != "y" {
		t.Errorf("evicted = %v, want [x y]", evicted)
	}
}

func TestClipCache_Stats(t *testing.T) {
	cache := NewClipCache[int](1, nil)
	cache.LoadOrStore("a", 1)
	cache.Get("a")
	cache.Get("missing")
	cache.LoadOrStore("b", 2)

	stats := cache.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("hits/misses = %d/%d, want 1/1", stats.Hits, stats.Misses)
	}
	if stats.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", stats.Evictions)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("HitRate = %v, want 0.5", stats.HitRate)
	}
	if stats.Capacity != 1 || stats.ItemCount != 1 {
		t.Errorf("Capacity/ItemCount = %d/%d", stats.Capacity, stats.ItemCount)
	}
}

func TestClipCache_ConcurrentAccess(t *testing.T) {
	cache := NewClipCache[int](18, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d-%d", id, j%20)
				cache.LoadOrStore(key, j)
				cache.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if cache.Len() > 18 {
		t.Errorf("Len = %d exceeds capacity", cache.Len())
	}
}

func BenchmarkClipCache_LoadOrStore(b *testing.B) {
	cache := NewClipCache[int](18, nil)
	for i := 0; i < b.N; i++ {
		cache.LoadOrStore(fmt.Sprintf("key-%d", i), i)
	}
}
