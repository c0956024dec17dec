// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

package cache

import (
	"strings"
	"sync"
	"time"
)

const defaultCleanupInterval = 5 * time.Minute

// Memory is a map-backed Cacher with per-entry TTL and a background
// janitor that evicts expired entries.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	maxEntries int

	hits   uint64
	misses uint64

	stop     chan struct{}
	stopOnce sync.Once
}

type memoryEntry struct {
	value []byte
	// expiresAt is zero for entries without expiry
	expiresAt time.Time
}

// NewMemory creates an in-memory cache. maxEntries 0 means unbounded;
// cleanupInterval 0 selects the default of five minutes.
func NewMemory(maxEntries int, cleanupInterval time.Duration) *Memory {
	if cleanupInterval <= 0 {
		cleanupInterval = defaultCleanupInterval
	}

	m := &Memory{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		stop:       make(chan struct{}),
	}
	go m.cleanupLoop(cleanupInterval)
	return m
}

// Get returns the payload for key, if present and unexpired. An expired
// entry is removed on access.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if ok && e.expired(time.Now()) {
		m.mu.Lock()
		// Re-check under the write lock; Set may have replaced it.
		if cur, still := m.entries[key]; still && cur.expired(time.Now()) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		ok = false
	}

	m.mu.Lock()
	if ok {
		m.hits++
	} else {
		m.misses++
	}
	m.mu.Unlock()

	if !ok {
		return nil, false
	}
	return e.value, true
}

// Set stores a payload under key. When the cache is full and key is new,
// the entry closest to expiry is evicted first.
func (m *Memory) Set(key string, value []byte, ttl time.Duration) {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		if _, exists := m.entries[key]; !exists {
			m.evictSoonest()
		}
	}
	m.entries[key] = memoryEntry{value: value, expiresAt: expiresAt}
}

// Delete removes the single entry under key.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// DeletePrefix removes every entry whose key starts with prefix.
func (m *Memory) DeletePrefix(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
			n++
		}
	}
	return n
}

// Stats returns hit/miss counters and the current entry count.
func (m *Memory) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{Hits: m.hits, Misses: m.misses, Entries: len(m.entries)}
}

// Close stops the janitor. The cache stays usable afterwards but expired
// entries are only removed on access.
func (m *Memory) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	return nil
}

func (m *Memory) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.removeExpired()
		case <-m.stop:
			return
		}
	}
}

func (m *Memory) removeExpired() {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, k)
		}
	}
}

// evictSoonest removes the entry with the nearest expiry, preferring
// expiring entries over permanent ones. Caller holds the write lock.
func (m *Memory) evictSoonest() {
	var (
		victim   string
		deadline time.Time
		found    bool
	)
	for k, e := range m.entries {
		if e.expiresAt.IsZero() {
			continue
		}
		if !found || e.expiresAt.Before(deadline) {
			victim, deadline, found = k, e.expiresAt, true
		}
	}
	if !found {
		// All permanent; drop an arbitrary one.
		for k := range m.entries {
			victim, found = k, true
			break
		}
	}
	if found {
		delete(m.entries, victim)
	}
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}
