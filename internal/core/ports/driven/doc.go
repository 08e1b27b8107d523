// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RemoteSource: Lists and fetches files from the remote provider
//   - Extractor: Converts a raw file blob to plain text
//   - ExtractorRegistry: Selects the extractor for a file
//   - SearchIndex: Full-text index with ranked retrieval
//   - ManifestStore: Persisted per-document sync state
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or extractor package
package driven
