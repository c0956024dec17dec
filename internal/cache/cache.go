// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

// Package cache provides the recommendation cache: byte payloads under
// string keys with per-entry TTL and prefix deletion. Two backends are
// available, an in-memory map for single-instance deployments and a
// Badger-backed store that survives restarts.
package cache

import (
	"fmt"
	"time"
)

// Backend names accepted by config.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Cacher is the backend-neutral cache contract. Implementations must be
// safe for concurrent use.
type Cacher interface {
	// Get returns the payload for key, if present and unexpired.
	Get(key string) ([]byte, bool)

	// Set stores a payload under key for ttl. A non-positive ttl stores
	// the entry without expiry.
	Set(key string, value []byte, ttl time.Duration)

	// Delete removes the single entry under key, if present.
	Delete(key string)

	// DeletePrefix removes every entry whose key starts with prefix and
	// returns the number of entries removed.
	DeletePrefix(prefix string) int

	// Stats returns hit/miss counters since creation.
	Stats() Stats

	// Close releases backend resources.
	Close() error
}

// Stats carries cache effectiveness counters.
type Stats struct {
	// Hits is the number of Get calls that returned a payload
	Hits uint64 `json:"hits"`
	// Misses is the number of Get calls that found nothing
	Misses uint64 `json:"misses"`
	// Entries is the current entry count; approximate for persistent
	// backends
	Entries int `json:"entries"`
}

// Options selects and tunes a backend.
type Options struct {
	// Backend is BackendMemory or BackendBadger
	Backend string
	// Path is the on-disk location for persistent backends
	Path string
	// MaxEntries caps the in-memory backend; 0 means unbounded
	MaxEntries int
	// CleanupInterval is how often the in-memory janitor runs;
	// 0 selects the default
	CleanupInterval time.Duration
}

// New creates the configured backend.
func New(opts Options) (Cacher, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemory(opts.MaxEntries, opts.CleanupInterval), nil
	case BackendBadger:
		return NewBadger(opts.Path)
	default:
		return nil, fmt.Errorf("cache: unknown backend %q", opts.Backend)
	}
}
