package domain

import "errors"

// Domain errors represent row-processing and configuration failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid configuration.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingPrimaryKey indicates a configured primary-key column is
	// absent from a row. Fatal for that row; traversal continues.
	ErrMissingPrimaryKey = errors.New("primary key column missing from row")

	// ErrMissingColumn indicates a configured column (URL, document id,
	// large object) is absent from a row.
	ErrMissingColumn = errors.New("configured column missing from row")

	// ErrSerialization indicates a row could not be canonically
	// serialized, e.g. a value of an unsupported type.
	ErrSerialization = errors.New("row serialization failed")

	// ErrContentAcquisition indicates large-object content could not be
	// opened or read. The row is skipped for this pass and retried on
	// the next one.
	ErrContentAcquisition = errors.New("content acquisition failed")

	// ErrEncodingInvariant indicates the fixed two-field snapshot form
	// could not be constructed. This should be impossible and is treated
	// as a fatal internal error, not a per-row failure.
	ErrEncodingInvariant = errors.New("snapshot encoding invariant violated")
)
