package domain

import (
	"bytes"
	"context"
	"io"
)

// LobValue is a large-object column value. Implementations must be
// re-openable: a document handle may be built long after the snapshot,
// so the content must not depend on a live cursor from the original
// query.
type LobValue interface {
	// Open returns a new reader over the large-object content.
	// The caller owns the returned reader and must close it.
	Open(ctx context.Context) (io.ReadCloser, error)

	// Size returns the content length in bytes, or -1 if unknown.
	Size() int64
}

// BytesLob is a fully materialized large object. The query layer
// materializes BLOB columns into BytesLob before a row leaves it, which
// makes every lob trivially re-openable at handle time.
type BytesLob []byte

// Ensure BytesLob implements the interface.
var _ LobValue = (BytesLob)(nil)

// Open returns a reader over the buffered content.
func (b BytesLob) Open(_ context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b)), nil
}

// Size returns the buffered content length.
func (b BytesLob) Size() int64 {
	return int64(len(b))
}
