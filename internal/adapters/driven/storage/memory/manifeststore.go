// Package memory provides in-memory implementations of the driven
// storage ports, used by tests and ephemeral runs.
package memory

import (
	"context"
	"sync"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/core/ports/driven"
)

// Ensure ManifestStore implements the interface.
var _ driven.ManifestStore = (*ManifestStore)(nil)

// ManifestStore is an in-memory implementation of driven.ManifestStore.
// Load and Save copy the entry map, so callers never share state with
// the store.
type ManifestStore struct {
	mu      sync.RWMutex
	entries map[string]domain.ManifestEntry
}

// NewManifestStore creates an empty in-memory manifest store.
func NewManifestStore() *ManifestStore {
	return &ManifestStore{
		entries: make(map[string]domain.ManifestEntry),
	}
}

// Load returns a copy of all stored entries keyed by file ID.
func (s *ManifestStore) Load(_ context.Context) (map[string]domain.ManifestEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.ManifestEntry, len(s.entries))
	for id, entry := range s.entries {
		out[id] = entry
	}
	return out, nil
}

// Save replaces the stored entries with a copy of the given map.
func (s *ManifestStore) Save(_ context.Context, entries map[string]domain.ManifestEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]domain.ManifestEntry, len(entries))
	for id, entry := range entries {
		s.entries[id] = entry
	}
	return nil
}

// Stats summarises the indexed entries. Failed and deleted entries are
// excluded from the counts.
func (s *ManifestStore) Stats(_ context.Context) (domain.ManifestStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.ManifestStats{Formats: make(map[domain.SourceFormat]int)}
	for _, entry := range s.entries {
		if entry.Status != domain.StatusIndexed {
			continue
		}
		stats.DocumentCount++
		stats.TotalWordCount += entry.WordCount
		stats.Formats[entry.Format]++
		if entry.LastSyncedAt.After(stats.LastSyncTime) {
			stats.LastSyncTime = entry.LastSyncedAt
		}
	}
	return stats, nil
}

// Entry returns the stored entry for id, if any.
func (s *ManifestStore) Entry(id string) (domain.ManifestEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	return entry, ok
}
