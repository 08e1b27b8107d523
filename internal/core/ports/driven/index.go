package driven

import (
	"context"

	"github.com/hctlabs/kbsync/internal/core/domain"
)

// SearchIndex is a full-text search index keyed by document ID.
//
// Writers must be serialised by the implementation; queries may run
// concurrently with writes and observe either the pre- or post-write
// state of each document, never a torn state.
type SearchIndex interface {
	// Upsert replaces any existing entry with the same ID atomically
	// from a reader's perspective.
	Upsert(ctx context.Context, doc domain.Document) error

	// Delete removes an entry. Deleting an absent ID is a no-op.
	Delete(ctx context.Context, id string) error

	// Rebuild replaces the whole index with the given documents.
	// An interrupted rebuild leaves the previous index intact.
	Rebuild(ctx context.Context, docs []domain.Document) error

	// Search returns ranked hits, most relevant first, capped at limit.
	// Ties break by document ID ascending.
	Search(ctx context.Context, query string, limit int) ([]domain.IndexHit, error)

	// Document returns a stored document by ID, or domain.ErrNotFound.
	Document(ctx context.Context, id string) (*domain.Document, error)

	// Close releases resources.
	Close() error
}
