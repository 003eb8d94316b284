// Package cache provides pluggable stores for cached weather payloads.
// Stores hold opaque entries and never judge freshness; the fetcher decides
// what is fresh from each entry's FetchedAt.
package cache

import (
	"context"
	"sync"
	"time"
)

// Entry is one cached payload together with the time it was fetched upstream.
type Entry struct {
	Payload   []byte    `json:"payload"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Status describes a backend for the cache status command. Entries is -1 when
// the backend cannot count (memcached).
type Status struct {
	Backend   string    `json:"backend"`
	Connected bool      `json:"connected"`
	Entries   int       `json:"entries"`
	Oldest    time.Time `json:"oldest,omitempty"`
	Newest    time.Time `json:"newest,omitempty"`
}

// Store is the interface cache backends implement.
// Get returns whatever is stored for the key regardless of age; a miss is
// (zero, false, nil), not an error. Set overwrites unconditionally.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, e Entry) error
	Clear(ctx context.Context) error
	Status(ctx context.Context) (Status, error)
	Close() error
}

// MemoryStore implements Store using a process-local map. Entries survive for
// the life of the process and are only ever replaced by Set or dropped by
// Clear. Guarded by a mutex so the concurrent warmer can populate it while a
// session reads.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]Entry),
	}
}

// Get retrieves the entry for the key if present, regardless of its age.
func (s *MemoryStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[key]
	if !ok {
		return Entry{}, false, nil
	}
	return e, true, nil
}

// Set stores the entry under the key, replacing any previous entry.
func (s *MemoryStore) Set(ctx context.Context, key string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = e
	return nil
}

// Clear drops every entry.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]Entry)
	return nil
}

// Status reports the entry count and the fetch-time bounds of the map.
func (s *MemoryStore) Status(ctx context.Context) (Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{Backend: "memory", Connected: true, Entries: len(s.data)}
	for _, e := range s.data {
		if st.Oldest.IsZero() || e.FetchedAt.Before(st.Oldest) {
			st.Oldest = e.FetchedAt
		}
		if e.FetchedAt.After(st.Newest) {
			st.Newest = e.FetchedAt
		}
	}
	return st, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
