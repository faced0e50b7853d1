package driven

import (
	"context"

	"github.com/custodia-labs/dbfeed-cli/internal/core/domain"
)

// DocumentSink receives the documents the differ decides to deliver.
// The delivery transport to the indexing backend is out of scope; a
// sink may spool to disk, post to a feed endpoint, or discard.
type DocumentSink interface {
	// Deliver hands over a changed document. The sink takes ownership
	// of the document body stream and must close it.
	Deliver(ctx context.Context, handle *domain.Handle) error

	// Delete signals that a previously delivered docid no longer
	// exists at the source.
	Delete(ctx context.Context, docID string) error

	// Close flushes and releases the sink.
	Close() error
}
