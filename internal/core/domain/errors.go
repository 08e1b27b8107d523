package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrRemoteUnavailable indicates a transient remote source failure.
	// The sync pass is retryable later; it is not retried mid-pass.
	ErrRemoteUnavailable = errors.New("remote source unavailable")

	// ErrNotFound indicates a requested entity does not exist. On a
	// fetch it is a benign race: the file was deleted between the
	// listing and the download, and is treated as a delete.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedFormat indicates no extractor matches the file's
	// MIME type or extension. Per-document; never aborts a sync pass.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrExtractionFailure indicates an extractor rejected malformed
	// content. Handled like ErrUnsupportedFormat.
	ErrExtractionFailure = errors.New("extraction failure")

	// ErrInvalidQuery indicates a malformed search request.
	// Surfaced to the caller immediately, never retried.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrSyncInProgress indicates a sync is already running.
	// Concurrent sync invocations are rejected, not queued.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrPersistenceFailure indicates a manifest or index write failed.
	// Fatal for the current sync pass; previously committed state
	// remains intact.
	ErrPersistenceFailure = errors.New("persistence failure")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingCredentials indicates a required credential is absent.
	// Detected at startup, not lazily mid-sync.
	ErrMissingCredentials = errors.New("missing credentials")
)
