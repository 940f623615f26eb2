// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for expiry tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCache(ttl time.Duration) (*Cache[string], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	return newCache[string](ttl, 0, clock.Now), clock
}

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
}

func TestCacheExpiration(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	c.Set("key1", "value1")
	if _, ok := c.Get("key1"); !ok {
		t.Fatal("Expected key1 to exist immediately after set")
	}

	clock.Advance(61 * time.Second)
	if _, ok := c.Get("key1"); ok {
		t.Error("Expected key1 to be expired")
	}
	if c.Len() != 0 {
		t.Errorf("Expected expired entry to be removed, Len() = %d", c.Len())
	}

	stats := c.GetStats()
	if stats.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", stats.Evictions)
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	c, clock := newTestCache(time.Hour)

	c.SetWithTTL("short", "v", time.Second)
	c.Set("long", "v")

	clock.Advance(2 * time.Second)
	if _, ok := c.Get("short"); ok {
		t.Error("Expected short-lived entry to expire")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("Expected default TTL entry to survive")
	}
}

func TestCacheCleanup(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("key%d", i), "v")
	}
	clock.Advance(2 * time.Minute)
	c.Set("fresh", "v")

	c.cleanup()

	if c.Len() != 1 {
		t.Errorf("Len() after cleanup = %d, want 1", c.Len())
	}
	stats := c.GetStats()
	if stats.Evictions != 5 {
		t.Errorf("Evictions = %d, want 5", stats.Evictions)
	}
	if !stats.LastCleanup.Equal(clock.Now()) {
		t.Errorf("LastCleanup = %v, want %v", stats.LastCleanup, clock.Now())
	}
}

func TestCacheHitRate(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	if c.HitRate() != 0 {
		t.Errorf("HitRate() on empty cache = %v, want 0", c.HitRate())
	}

	c.Set("key", "v")
	c.Get("key")
	c.Get("key")
	c.Get("key")
	c.Get("missing")

	if got := c.HitRate(); got != 75 {
		t.Errorf("HitRate() = %v, want 75", got)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New[int](time.Minute)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", n%5)
			c.Set(key, n)
			c.Get(key)
		}(i)
	}
	wg.Wait()

	if c.Len() != 5 {
		t.Errorf("Len() = %d, want 5", c.Len())
	}
}

func TestCacheCloseIsIdempotent(t *testing.T) {
	c := New[string](time.Minute)
	c.Close()
	c.Close()

	c.Set("key", "value")
	if _, ok := c.Get("key"); !ok {
		t.Error("Expected cache to remain usable after Close")
	}
}
