package driven

import (
	"context"

	"github.com/custodia-labs/dbfeed-cli/internal/core/domain"
)

// SnapshotStore persists the previous pass's snapshots, keyed by docid.
type SnapshotStore interface {
	// Get retrieves the stored snapshot for a docid.
	// Returns domain.ErrNotFound if no snapshot is stored.
	Get(ctx context.Context, docID string) (*domain.Snapshot, error)

	// Save stores or replaces the snapshot for its docid.
	Save(ctx context.Context, snapshot domain.Snapshot) error

	// Delete removes the snapshot for a docid. Deleting an absent
	// docid is not an error.
	Delete(ctx context.Context, docID string) error

	// List returns all stored snapshots. Used by the deletion sweep at
	// the end of a full pass.
	List(ctx context.Context) ([]domain.Snapshot, error)
}
