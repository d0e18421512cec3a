// Package memory provides an in-memory emission.Gateway for tests and dev.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/MBdjLOTR/GHG-Emissions-Calculator/emission"
)

// Store keeps everything in maps. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	events  []string
	records map[string][]emission.Record
}

var _ emission.Gateway = (*Store)(nil)

func New() *Store {
	return &Store{records: make(map[string][]emission.Record)}
}

// SaveEvent registers an event name.
func (s *Store) SaveEvent(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, name)
	return nil
}

// LatestEvent returns the most recently registered event name.
func (s *Store) LatestEvent(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) == 0 {
		return "", emission.ErrNoEvent
	}
	return s.events[len(s.events)-1], nil
}

// ListEvents returns all registered event names, oldest first.
func (s *Store) ListEvents(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.events))
	copy(out, s.events)
	return out, nil
}

// Save appends records.
func (s *Store) Save(_ context.Context, records []emission.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.records[r.Event] = append(s.records[r.Event], r)
	}
	return nil
}

// LoadAll returns every record for an event, ascending by timestamp.
func (s *Store) LoadAll(_ context.Context, event string) ([]emission.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]emission.Record, len(s.records[event]))
	copy(out, s.records[event])
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})
	return out, nil
}
