// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RowSerializer: Renders a row into its canonical byte form
//   - RowSource: Streams rows from the source database
//   - SnapshotStore: Persists snapshots between traversal passes
//   - DocumentSink: Receives delivered documents and deletions
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
