// Package services implements the row-to-document construction core and
// the traversal that drives it.
//
// The DocumentFactory turns each row into a snapshot and, on demand, a
// document handle, delegating content construction to one of three
// ContentBuilder strategies selected once from configuration. The
// Differ compares snapshots against the previous pass and the
// TraversalService runs the row loop.
package services
