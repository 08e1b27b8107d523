// Package domain defines the core business entities for kbsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RemoteFile: A file descriptor from the remote source listing
//   - Document: A normalised extraction result ready for indexing
//   - ManifestEntry: Persisted per-document sync state
//   - QueryResult: A ranked search hit with snippet
//   - ChangeSet: The diff between a remote listing and the manifest
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
