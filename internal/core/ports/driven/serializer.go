package driven

import "github.com/custodia-labs/dbfeed-cli/internal/core/domain"

// RowSerializer renders a row into the canonical byte form used for
// checksums and for metadata-fed document bodies.
//
// The output must be byte-stable: the same row, primary key and skip
// list always produce identical bytes, because the change-detection
// checksum is computed over them.
type RowSerializer interface {
	// Serialize renders the row, excluding skipColumns (matched
	// case-insensitively). primaryKey carries resolved row column
	// names in identifier order.
	Serialize(row domain.Row, primaryKey, skipColumns []string) ([]byte, error)
}
