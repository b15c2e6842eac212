// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package cache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	nanos atomic.Int64
}

func newFakeClock() *fakeClock {
	c := &fakeClock{}
	c.nanos.Store(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).UnixNano())
	return c
}

func (c *fakeClock) Now() time.Time          { return time.Unix(0, c.nanos.Load()).UTC() }
func (c *fakeClock) Advance(d time.Duration) { c.nanos.Add(int64(d)) }

func TestCacheBasicOperations(t *testing.T) {
	c := New[string](time.Minute)
	defer c.Close()

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	if _, exists = c.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCacheExpiration(t *testing.T) {
	clock := newFakeClock()
	c := New[int](time.Minute, WithClock(clock.Now), WithCleanupInterval(0))

	c.Set("a", 1)
	c.SetWithTTL("b", 2, 10*time.Minute)

	clock.Advance(2 * time.Minute)

	if _, ok := c.Get("a"); ok {
		t.Error("Expected a to be expired")
	}
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Errorf("Get(b) = %v, %v; want 2, true", v, ok)
	}

	stats := c.GetStats()
	if stats.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", stats.Evictions)
	}
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Hits/Misses = %d/%d, want 1/1", stats.Hits, stats.Misses)
	}
}

func TestCacheCleanup(t *testing.T) {
	clock := newFakeClock()
	c := New[int](time.Minute, WithClock(clock.Now), WithCleanupInterval(0))

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	c.SetWithTTL("long", 99, time.Hour)
	clock.Advance(5 * time.Minute)

	c.cleanup()

	if c.Len() != 1 {
		t.Errorf("Len() = %d after cleanup, want 1", c.Len())
	}
	stats := c.GetStats()
	if stats.TotalKeys != 1 || stats.Evictions != 5 {
		t.Errorf("stats = %+v", &stats)
	}
	if !stats.LastCleanup.Equal(clock.Now()) {
		t.Errorf("LastCleanup = %v, want %v", stats.LastCleanup, clock.Now())
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New[string](time.Minute, WithCleanupInterval(0))

	c.Set("key1", "value1")
	c.Delete("key1")
	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be deleted")
	}
	c.Delete("missing")
	if got := c.GetStats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Clear()
	for _, key := range []string{"key1", "key2"} {
		if _, exists := c.Get(key); exists {
			t.Errorf("Expected %s to be cleared", key)
		}
	}
	if c.GetStats().TotalKeys != 0 {
		t.Error("TotalKeys should be 0 after Clear")
	}
}

func TestCacheMaxEntries(t *testing.T) {
	clock := newFakeClock()
	c := New[int](time.Minute, WithClock(clock.Now), WithMaxEntries(2), WithCleanupInterval(0))

	c.Set("first", 1)
	clock.Advance(time.Second)
	c.Set("second", 2)
	clock.Advance(time.Second)
	c.Set("third", 3)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get("first"); ok {
		t.Error("oldest entry should have been evicted")
	}

	// Overwriting an existing key does not evict.
	c.Set("third", 33)
	if _, ok := c.Get("second"); !ok {
		t.Error("second should survive an overwrite of third")
	}
}

func TestCacheHitRate(t *testing.T) {
	c := New[bool](time.Minute, WithCleanupInterval(0))
	if c.HitRate() != 0 {
		t.Errorf("HitRate() = %v on empty cache", c.HitRate())
	}
	c.Set("x", true)
	c.Get("x")
	c.Get("x")
	c.Get("x")
	c.Get("y")
	if got := c.HitRate(); got != 75 {
		t.Errorf("HitRate() = %v, want 75", got)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New[int](time.Minute, WithMaxEntries(32))
	defer c.Close()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*i)%50)
				c.Set(key, i)
				c.Get(key)
				if i%20 == 0 {
					c.Delete(key)
				}
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 32 {
		t.Errorf("Len() = %d exceeds bound", c.Len())
	}
}

func TestCacheCloseIdempotent(t *testing.T) {
	c := New[int](time.Minute, WithCleanupInterval(time.Millisecond))
	if c.Closed() {
		t.Fatal("Closed() = true before Close")
	}
	c.Close()
	c.Close()
	if !c.Closed() {
		t.Error("Closed() = false after Close")
	}
}
