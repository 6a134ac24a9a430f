// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/apex/log"
)

const (
	// DefaultLimit is the maximum number of retained entries.
	DefaultLimit = 1000
	// DefaultExpire is the entry time-to-live.
	DefaultExpire = 24 * time.Hour
)

// Entry is a single cached result. InsertedAt drives both expiry and
// oldest-first eviction, so entries are kept in insertion order.
type Entry[T any] struct {
	Key        string    `json:"key"`
	Value      T         `json:"value"`
	InsertedAt time.Time `json:"insertedAt"`
}

// Cache memoizes the results of a computation keyed by a serialized
// argument list. State lives in the Store between invocations: every
// lookup-or-compute loads the blob, mutates it in memory and writes it
// back after any insertion or removal. The write is O(cache size), which
// is accepted for the low call volumes this tool sees.
//
// A Cache is not safe for concurrent use across processes. Two iqlctl
// invocations racing on the same Store can lose each other's inserts or
// double-fetch; that read-modify-write window is a known limitation.
type Cache[T any] struct {
	store  Store
	limit  int
	expire time.Duration

	// now is a seam for tests.
	now func() time.Time
}

// Option customizes a Cache at construction.
type Option[T any] func(*Cache[T])

// WithLimit sets the maximum entry count.
func WithLimit[T any](n int) Option[T] {
	return func(c *Cache[T]) { c.limit = n }
}

// WithExpire sets the entry time-to-live.
func WithExpire[T any](d time.Duration) Option[T] {
	return func(c *Cache[T]) { c.expire = d }
}

// New constructs a Cache backed by the given Store.
func New[T any](store Store, opts ...Option[T]) *Cache[T] {
	c := &Cache[T]{
		store:  store,
		limit:  DefaultLimit,
		expire: DefaultExpire,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLimit changes the maximum entry count for subsequent lookups.
func (c *Cache[T]) SetLimit(n int) error {
	if n <= 0 {
		return fmt.Errorf("limit must be positive, got %d", n)
	}
	c.limit = n
	return nil
}

// SetExpire changes the entry time-to-live for subsequent lookups.
func (c *Cache[T]) SetExpire(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("expire must be positive, got %v", d)
	}
	c.expire = d
	return nil
}

// GetOrCompute returns the cached value for key if a fresh entry exists.
// Otherwise it invokes compute, inserts the result and persists the cache.
// An expired entry is removed (an eviction, not a hit) before compute runs.
// A compute error propagates unchanged and nothing is cached for the key.
//
// Entry presence is checked explicitly, so zero values (empty string, 0,
// false) cached for a key are genuine hits.
func (c *Cache[T]) GetOrCompute(key string, compute func() (T, error)) (T, error) {
	entries := c.load()

	if i := indexOf(entries, key); i >= 0 {
		if c.now().Sub(entries[i].InsertedAt) < c.expire {
			log.Debugf("cache hit: %s", key)
			return entries[i].Value, nil
		}
		log.Debugf("cache expired: %s", key)
		entries = append(entries[:i], entries[i+1:]...)
		c.persist(entries)
	}

	var zero T
	value, err := compute()
	if err != nil {
		return zero, err
	}

	// Make room before inserting: drop from the front (oldest first) while
	// over capacity or while the oldest entry has expired. The scan stops
	// at the first survivor; entries behind it are not swept for expiry
	// until they reach the front themselves.
	for len(entries) > 0 &&
		(len(entries) >= c.limit || c.now().Sub(entries[0].InsertedAt) >= c.expire) {
		log.Debugf("cache evict: %s", entries[0].Key)
		entries = entries[1:]
	}

	entries = append(entries, Entry[T]{
		Key:        key,
		Value:      value,
		InsertedAt: c.now(),
	})
	c.persist(entries)

	return value, nil
}

// Flush removes every entry immediately.
func (c *Cache[T]) Flush() error {
	return c.store.Save(encode([]Entry[T]{}))
}

// Entries returns a snapshot of the current cache contents in insertion
// order.
func (c *Cache[T]) Entries() []Entry[T] {
	return c.load()
}

// load reads and decodes the blob from the Store. A missing, unreadable or
// corrupt blob is treated as an empty cache rather than an error; the next
// persist will overwrite it.
func (c *Cache[T]) load() []Entry[T] {
	blob, ok, err := c.store.Load()
	if err != nil {
		log.Warnf("failed to load cache: %v", err)
		return nil
	}
	if !ok {
		return nil
	}

	var entries []Entry[T]
	if err := json.Unmarshal(blob, &entries); err != nil {
		log.Warnf("discarding unreadable cache blob: %v", err)
		return nil
	}
	return entries
}

// persist serializes the full entry list and writes it through the Store.
// A failed write is logged and otherwise ignored so a broken cache never
// costs the caller a computed result.
func (c *Cache[T]) persist(entries []Entry[T]) {
	if err := c.store.Save(encode(entries)); err != nil {
		log.Warnf("failed to write cache: %v", err)
	}
}

func encode[T any](entries []Entry[T]) []byte {
	blob, err := json.Marshal(entries)
	if err != nil {
		// Entries round-trip through JSON by construction, so this only
		// fires for unmarshalable value types.
		log.Errorf("failed to encode cache: %v", err)
		return []byte("[]")
	}
	return blob
}

func indexOf[T any](entries []Entry[T], key string) int {
	for i := range entries {
		if entries[i].Key == key {
			return i
		}
	}
	return -1
}

// Key builds the canonical cache key for a positional argument list. The
// serialization is order- and type-sensitive: reordered or differently
// typed arguments produce distinct keys on purpose.
func Key(args ...any) string {
	blob, err := json.Marshal(args)
	if err != nil {
		// Arguments are strings in practice; fall back to %v formatting
		// for anything exotic instead of failing the lookup.
		return fmt.Sprintf("%v", args)
	}
	return string(blob)
}
