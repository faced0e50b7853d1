// Package domain defines the core business entities for dbfeed.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Row: one record from the source database, immutable once built
//   - Snapshot: the (docid, checksum) pair compared across traversal passes
//   - ContentHolder: checksum plus the strategy-specific content payload
//   - Document: the full deliverable payload for a changed row
//   - Handle: the wrapper handed to the feed sink
//   - ConnectorConfig: the connector's feed-mode and column configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
