package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/i474232898/forecast-blend/internal/forecast"
)

var (
	// ErrNotFound is returned when no forecast document is available for a given point.
	ErrNotFound = errors.New("no forecast document for point")
)

type memoryEntry struct {
	doc     forecast.Document
	savedAt time.Time
}

// MemoryStore is a concurrency-safe in-memory store of the latest document per point.
type MemoryStore struct {
	mu sync.RWMutex

	// key: point key, value: latest document
	data map[string]memoryEntry

	// documents older than maxAge are treated as missing (0 = never stale)
	maxAge time.Duration
	now    func() time.Time
}

// NewMemoryStore creates a new MemoryStore. If maxAge is <= 0, documents never go stale.
func NewMemoryStore(maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:   make(map[string]memoryEntry),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Save replaces the document held for a point.
func (s *MemoryStore) Save(_ context.Context, p forecast.Point, doc forecast.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[p.Key()] = memoryEntry{doc: doc, savedAt: s.now()}
	return nil
}

// Latest returns the most recent document for a point.
func (s *MemoryStore) Latest(_ context.Context, p forecast.Point) (forecast.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.data[p.Key()]
	if !ok {
		return forecast.Document{}, ErrNotFound
	}
	if s.maxAge > 0 && s.now().Sub(entry.savedAt) > s.maxAge {
		return forecast.Document{}, ErrNotFound
	}
	return entry.doc, nil
}

// Prune drops documents older than maxAge and returns how many were removed.
func (s *MemoryStore) Prune() int {
	if s.maxAge <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.maxAge)
	removed := 0
	for key, entry := range s.data {
		if entry.savedAt.Before(cutoff) {
			delete(s.data, key)
			removed++
		}
	}
	return removed
}

var _ forecast.Store = (*MemoryStore)(nil)
