package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/dbfeed-cli/internal/core/domain"
	"github.com/custodia-labs/dbfeed-cli/internal/core/ports/driven"
	"github.com/custodia-labs/dbfeed-cli/internal/logger"
)

// Differ compares each row's fresh snapshot against the stored one and
// delivers a handle only when they differ. One Differ covers one
// traversal pass; it tracks the docids seen so the deletion sweep can
// remove documents that vanished from the source.
//
// ProcessRow is safe for concurrent use: builders are stateless and the
// seen set is guarded.
type Differ struct {
	factory *DocumentFactory
	store   driven.SnapshotStore
	sink    driven.DocumentSink

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewDiffer creates a differ for one traversal pass.
func NewDiffer(factory *DocumentFactory, store driven.SnapshotStore, sink driven.DocumentSink) *Differ {
	return &Differ{
		factory: factory,
		store:   store,
		sink:    sink,
		seen:    make(map[string]struct{}),
	}
}

// ProcessRow snapshots the row, compares it against the stored
// snapshot, and on difference builds and delivers the handle before
// persisting the new snapshot. Returns whether a document was
// delivered.
func (d *Differ) ProcessRow(ctx context.Context, row domain.Row) (bool, error) {
	snapshot, holder, err := d.factory.BuildSnapshot(ctx, row)
	if err != nil {
		return false, err
	}
	serialized, err := snapshot.Serialize()
	if err != nil {
		return false, err
	}

	d.markSeen(snapshot.DocID)

	stored, err := d.store.Get(ctx, snapshot.DocID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		logger.Debug("document %s: new", snapshot.DocID)
	case err != nil:
		return false, fmt.Errorf("load stored snapshot: %w", err)
	default:
		storedSerialized, err := stored.Serialize()
		if err != nil {
			return false, fmt.Errorf("stored snapshot for %s: %w", snapshot.DocID, err)
		}
		if storedSerialized == serialized {
			logger.Debug("document %s: unchanged", snapshot.DocID)
			return false, nil
		}
		logger.Debug("document %s: changed", snapshot.DocID)
	}

	handle, err := holder.BuildHandle(ctx)
	if err != nil {
		return false, err
	}
	if err := d.sink.Deliver(ctx, handle); err != nil {
		return false, fmt.Errorf("deliver document %s: %w", snapshot.DocID, err)
	}
	if err := d.store.Save(ctx, snapshot); err != nil {
		return false, fmt.Errorf("save snapshot %s: %w", snapshot.DocID, err)
	}
	return true, nil
}

// SweepDeleted removes stored snapshots whose docids were not seen in
// this pass and signals the deletions to the sink. Call only after a
// pass that drained the row source completely; a partial pass must
// never mass-delete.
func (d *Differ) SweepDeleted(ctx context.Context) (int, error) {
	stored, err := d.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list stored snapshots: %w", err)
	}

	deleted := 0
	for _, snapshot := range stored {
		if d.wasSeen(snapshot.DocID) {
			continue
		}
		logger.Debug("document %s: deleted at source", snapshot.DocID)
		if err := d.sink.Delete(ctx, snapshot.DocID); err != nil {
			return deleted, fmt.Errorf("signal delete %s: %w", snapshot.DocID, err)
		}
		if err := d.store.Delete(ctx, snapshot.DocID); err != nil {
			return deleted, fmt.Errorf("delete snapshot %s: %w", snapshot.DocID, err)
		}
		deleted++
	}
	return deleted, nil
}

func (d *Differ) markSeen(docID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen[docID] = struct{}{}
}

func (d *Differ) wasSeen(docID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.seen[docID]
	return ok
}
