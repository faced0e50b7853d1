package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/dbfeed-cli/internal/core/domain"
	"github.com/custodia-labs/dbfeed-cli/internal/core/ports/driven"
)

// snapshotStore implements driven.SnapshotStore.
type snapshotStore struct {
	store *Store
}

var _ driven.SnapshotStore = (*snapshotStore)(nil)

// Get retrieves the stored snapshot for a docid.
func (s *snapshotStore) Get(ctx context.Context, docID string) (*domain.Snapshot, error) {
	var snapshot domain.Snapshot
	err := s.store.db.QueryRowContext(ctx,
		"SELECT docid, checksum FROM snapshots WHERE docid = ?", docID,
	).Scan(&snapshot.DocID, &snapshot.Checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}
	return &snapshot, nil
}

// Save stores or replaces the snapshot for its docid.
func (s *snapshotStore) Save(ctx context.Context, snapshot domain.Snapshot) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO snapshots (docid, checksum, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (docid)
		DO UPDATE SET checksum = excluded.checksum, updated_at = CURRENT_TIMESTAMP
	`, snapshot.DocID, snapshot.Checksum)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Delete removes the snapshot for a docid.
func (s *snapshotStore) Delete(ctx context.Context, docID string) error {
	if _, err := s.store.db.ExecContext(ctx,
		"DELETE FROM snapshots WHERE docid = ?", docID); err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	return nil
}

// List returns all stored snapshots.
func (s *snapshotStore) List(ctx context.Context) ([]domain.Snapshot, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT docid, checksum FROM snapshots ORDER BY docid")
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.Snapshot
	for rows.Next() {
		var snapshot domain.Snapshot
		if err := rows.Scan(&snapshot.DocID, &snapshot.Checksum); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return snapshots, nil
}
