// Package memory provides in-memory storage implementations for testing.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/dbfeed-cli/internal/core/domain"
	"github.com/custodia-labs/dbfeed-cli/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is an in-memory implementation of driven.SnapshotStore
// for testing.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.Snapshot
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snapshots: make(map[string]domain.Snapshot),
	}
}

// Get retrieves the stored snapshot for a docid.
func (s *SnapshotStore) Get(_ context.Context, docID string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.snapshots[docID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &snapshot, nil
}

// Save stores or replaces the snapshot for its docid.
func (s *SnapshotStore) Save(_ context.Context, snapshot domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshot.DocID] = snapshot
	return nil
}

// Delete removes the snapshot for a docid.
func (s *SnapshotStore) Delete(_ context.Context, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, docID)
	return nil
}

// List returns all stored snapshots, ordered by docid.
func (s *SnapshotStore) List(_ context.Context) ([]domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshots := make([]domain.Snapshot, 0, len(s.snapshots))
	for _, snapshot := range s.snapshots {
		snapshots = append(snapshots, snapshot)
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].DocID < snapshots[j].DocID
	})
	return snapshots, nil
}
