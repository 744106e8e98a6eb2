// Package cache provides in-memory memoization stores with differentiated
// TTLs for success and failure outcomes.
package cache

import (
	"sync"
	"time"

	"github.com/asad/clutchboard/pkg/metrics"
)

// Default TTLs. A finalized game's play-by-play never changes, so successes
// live long; failures live briefly so a game whose feed is not yet published
// gets retried promptly.
const (
	defaultSuccessTTL = 24 * time.Hour
	defaultFailureTTL = 5 * time.Minute
)

// Clock supplies wall-clock time; injected for deterministic TTL tests.
type Clock func() time.Time

// Entry is an immutable cached outcome. A recompute writes a new entry
// wholesale; entries are never mutated in place.
type Entry[V any] struct {
	StoredAt time.Time
	OK       bool
	Value    V
}

// Store memoizes per-key outcomes with class-appropriate freshness. Safe for
// concurrent readers and writers; writes are last-write-wins, which is
// acceptable because recomputation is idempotent for finalized games.
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[V]

	name       string
	clock      Clock
	successTTL time.Duration
	failureTTL time.Duration
}

// New creates a store with configuration options.
func New[V any](opts ...Option) *Store[V] {
	s := &settings{
		name:       "cache",
		clock:      time.Now,
		successTTL: defaultSuccessTTL,
		failureTTL: defaultFailureTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return &Store[V]{
		entries:    make(map[string]Entry[V]),
		name:       s.name,
		clock:      s.clock,
		successTTL: s.successTTL,
		failureTTL: s.failureTTL,
	}
}

// Get returns the entry for key if it is still fresh under the TTL matching
// its outcome class.
func (s *Store[V]) Get(key string) (Entry[V], bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || !s.fresh(e) {
		metrics.RecordCacheMiss(s.name)
		return Entry[V]{}, false
	}
	metrics.RecordCacheHit(s.name, e.OK)
	return e, true
}

// Put replaces the entry for key wholesale.
func (s *Store[V]) Put(key string, value V, ok bool) {
	e := Entry[V]{StoredAt: s.clock(), OK: ok, Value: value}
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

// Len returns the number of entries, fresh or stale.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store[V]) fresh(e Entry[V]) bool {
	age := s.clock().Sub(e.StoredAt)
	if e.OK {
		return age < s.successTTL
	}
	return age < s.failureTTL
}
