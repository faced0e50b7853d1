package driven

import (
	"context"

	"github.com/custodia-labs/dbfeed-cli/internal/core/domain"
)

// RowSource streams rows from the source database for one traversal
// pass.
type RowSource interface {
	// Rows starts the configured query and returns channels for rows
	// and errors. Both channels are closed when the result set is
	// drained or the context is cancelled. Rows sent on the channel are
	// immutable value copies; BLOB columns arrive as re-openable
	// domain.BytesLob values.
	Rows(ctx context.Context) (<-chan domain.Row, <-chan error)

	// Close releases the underlying connection.
	Close() error
}
