// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

package cache

import (
	"fmt"
	"sync/atomic"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// Badger is a Cacher backed by an embedded Badger key-value store, for
// deployments that want the recommendation cache to survive restarts.
type Badger struct {
	db *badger.DB

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewBadger opens (or creates) a Badger store at path.
func NewBadger(path string) (*Badger, error) {
	if path == "" {
		return nil, fmt.Errorf("cache: badger backend requires a path")
	}

	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithCompactL0OnClose(true)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("cache: open badger at %s: %w", path, err)
	}
	return &Badger{db: db}, nil
}

// Get returns the payload for key, if present and unexpired. Expiry is
// enforced by Badger's native entry TTL.
func (b *Badger) Get(key string) ([]byte, bool) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})

	if err != nil {
		// Not-found and read failures both count as misses; the engine
		// recomputes either way.
		b.misses.Add(1)
		return nil, false
	}

	b.hits.Add(1)
	return value, true
}

// Set stores a payload under key for ttl.
func (b *Badger) Set(key string, value []byte, ttl time.Duration) {
	_ = b.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

// Delete removes the single entry under key.
func (b *Badger) Delete(key string) {
	_ = b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// DeletePrefix removes every entry whose key starts with prefix. The count
// is collected before deletion since DropPrefix does not report one.
func (b *Badger) DeletePrefix(prefix string) int {
	n := b.countPrefix([]byte(prefix))
	if err := b.db.DropPrefix([]byte(prefix)); err != nil {
		return 0
	}
	return n
}

// Stats returns hit/miss counters. Entries reports Badger's approximate
// key count from table metadata.
func (b *Badger) Stats() Stats {
	entries := 0
	tables := b.db.Tables()
	for _, t := range tables {
		entries += int(t.KeyCount)
	}
	return Stats{
		Hits:    b.hits.Load(),
		Misses:  b.misses.Load(),
		Entries: entries,
	}
}

// Close flushes and closes the store.
func (b *Badger) Close() error {
	return b.db.Close()
}

func (b *Badger) countPrefix(prefix []byte) int {
	n := 0
	_ = b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n
}
