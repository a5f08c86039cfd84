// Package store holds the canonical snapshot of all dashboard entities.
package store

import (
	"sync"

	"PortfolioPulse/internal/domain/models"
)

// SnapshotStore is a single-writer, many-reader holder for the current
// snapshot. Replace swaps the whole snapshot at once, so readers never see
// some collections from one refresh cycle and some from another.
type SnapshotStore struct {
	mu     sync.RWMutex
	snap   models.Snapshot
	subs   map[int]chan models.Snapshot
	nextID int
}

func New() *SnapshotStore {
	return &SnapshotStore{subs: make(map[int]chan models.Snapshot)}
}

// Replace commits a new snapshot and notifies subscribers. Slow subscribers
// miss intermediate snapshots rather than blocking the writer.
func (s *SnapshotStore) Replace(snap models.Snapshot) {
	s.mu.Lock()
	s.snap = snap
	for _, ch := range s.subs {
		select {
		case ch <- snap.Clone():
		default:
		}
	}
	s.mu.Unlock()
}

// Snapshot returns a copy of the current snapshot.
func (s *SnapshotStore) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Subscribe registers for commit notifications. The returned cancel func
// unregisters and closes the channel.
func (s *SnapshotStore) Subscribe() (<-chan models.Snapshot, func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	ch := make(chan models.Snapshot, 1)
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}
