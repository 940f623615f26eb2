// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package cache

import (
	"sync"
	"time"
)

// DefaultCleanupInterval is how often expired entries are swept.
const DefaultCleanupInterval = 5 * time.Minute

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a thread-safe in-memory cache with TTL support.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration

	statsMu sync.Mutex
	stats   Stats

	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// Stats tracks cache performance counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// New creates a cache whose entries live for ttl and starts the cleanup loop.
func New[V any](ttl time.Duration) *Cache[V] {
	return newCache[V](ttl, DefaultCleanupInterval, time.Now)
}

func newCache[V any](ttl, cleanupEvery time.Duration, now func() time.Time) *Cache[V] {
	c := &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     now,
		stop:    make(chan struct{}),
	}
	c.stats.LastCleanup = now()
	if cleanupEvery > 0 {
		go c.cleanupLoop(cleanupEvery)
	}
	return c
}

// Get returns the value for key if present and not expired.
// Expired entries are removed and counted as a miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		c.record(func(s *Stats) { s.Misses++ })
		return zero, false
	}

	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		if cur, still := c.entries[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, key)
		}
		n := len(c.entries)
		c.mu.Unlock()
		c.record(func(s *Stats) {
			s.Misses++
			s.Evictions++
			s.TotalKeys = int64(n)
		})
		return zero, false
	}

	c.record(func(s *Stats) { s.Hits++ })
	return e.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key with a custom TTL.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
	n := len(c.entries)
	c.mu.Unlock()

	c.record(func(s *Stats) { s.TotalKeys = int64(n) })
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetStats returns a snapshot of the cache counters.
func (c *Cache[V]) GetStats() Stats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats
}

// HitRate returns the hit rate as a percentage.
func (c *Cache[V]) HitRate() float64 {
	s := c.GetStats()
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Close stops the cleanup loop. The cache remains usable.
func (c *Cache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache[V]) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache[V]) cleanup() {
	now := c.now()

	c.mu.Lock()
	var evicted int64
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	n := len(c.entries)
	c.mu.Unlock()

	c.record(func(s *Stats) {
		s.Evictions += evicted
		s.TotalKeys = int64(n)
		s.LastCleanup = now
	})
}

func (c *Cache[V]) record(update func(*Stats)) {
	c.statsMu.Lock()
	update(&c.stats)
	c.statsMu.Unlock()
}
