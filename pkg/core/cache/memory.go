// Package cache provides the two storage tiers for extraction results: a
// process-local TTL cache for hot lookups and a Postgres-backed store for
// durability across restarts.
package cache

import (
	"log"
	"sync"
	"time"
)

const (
	DefaultTTL     = 30 * time.Minute
	DefaultMaxSize = 100
)

type memoryEntry struct {
	value     any
	expiresAt time.Time
}

// Memory is an in-process cache with per-entry TTL and a hard size cap.
// When full, the entry closest to expiry is evicted to make room.
type Memory struct {
	ttl     time.Duration
	maxSize int

	mu      sync.Mutex
	entries map[string]memoryEntry

	now func() time.Time // injectable for tests
}

// MemoryStats is a point-in-time snapshot of cache occupancy.
type MemoryStats struct {
	TotalEntries   int `json:"total_entries"`
	ActiveEntries  int `json:"active_entries"`
	ExpiredEntries int `json:"expired_entries"`
}

// NewMemory creates a memory cache. Non-positive ttl or maxSize fall back
// to the defaults.
func NewMemory(ttl time.Duration, maxSize int) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Memory{
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the cached value for key, or ok=false if absent or expired.
// Expired entries are removed on access.
func (m *Memory) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().After(e.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the cache TTL. Setting an existing key
// refreshes its expiry. When the cache is full, the entry nearest to
// expiry is evicted first.
func (m *Memory) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxSize {
		m.evictNearestExpiry()
	}
	m.entries[key] = memoryEntry{value: value, expiresAt: m.now().Add(m.ttl)}
}

// Delete removes key if present.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Clear drops every entry.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	log.Printf("[Cache] memory cache cleared")
}

// Stats counts live and expired entries without evicting anything.
func (m *Memory) Stats() MemoryStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	stats := MemoryStats{TotalEntries: len(m.entries)}
	for _, e := range m.entries {
		if now.After(e.expiresAt) {
			stats.ExpiredEntries++
		} else {
			stats.ActiveEntries++
		}
	}
	return stats
}

// evictNearestExpiry removes the entry with the earliest expiresAt.
// Caller holds the lock.
func (m *Memory) evictNearestExpiry() {
	var victim string
	var nearest time.Time
	first := true
	for k, e := range m.entries {
		if first || e.expiresAt.Before(nearest) {
			victim = k
			nearest = e.expiresAt
			first = false
		}
	}
	if !first {
		delete(m.entries, victim)
	}
}
