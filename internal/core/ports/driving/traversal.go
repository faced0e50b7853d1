// Package driving defines the interfaces through which the outside
// world drives the core: the "primary" ports in hexagonal architecture.
package driving

import "context"

// Traverser runs traversal passes over the source database.
type Traverser interface {
	// Traverse runs one full pass: build a snapshot per row, deliver
	// handles for new or changed rows, and sweep deletions after a
	// clean drain.
	Traverse(ctx context.Context) error

	// Status returns the state of the current or most recent pass.
	Status(ctx context.Context) (*TraversalStatus, error)
}

// TraversalStatus represents the state of a traversal pass.
type TraversalStatus struct {
	// PassID identifies the pass.
	PassID string

	// Running indicates if the pass is currently in progress.
	Running bool

	// RowsProcessed is the count of rows snapshotted without error.
	RowsProcessed int

	// RowsFailed is the count of rows skipped due to errors.
	RowsFailed int

	// DocumentsDelivered is the count of handles sent to the sink.
	DocumentsDelivered int

	// DocumentsDeleted is the count of docids swept as deleted.
	DocumentsDeleted int
}
