package driving

import (
	"context"

	"github.com/hctlabs/kbsync/internal/core/domain"
)

// SearchService answers ranked full-text queries.
type SearchService interface {
	// Search returns up to limit results, most relevant first.
	// An empty query or a non-positive limit fails with
	// domain.ErrInvalidQuery.
	Search(ctx context.Context, query string, limit int) ([]domain.QueryResult, error)
}

// StatsService reports knowledge-base statistics.
type StatsService interface {
	// Stats returns statistics derived from the manifest.
	Stats(ctx context.Context) (domain.ManifestStats, error)
}
