package driven

import (
	"context"

	"github.com/hctlabs/kbsync/internal/core/domain"
)

// ManifestStore persists per-document sync state between passes.
type ManifestStore interface {
	// Load returns the full manifest keyed by document ID.
	// A store that has never been written returns an empty map.
	Load(ctx context.Context) (map[string]domain.ManifestEntry, error)

	// Save atomically replaces the manifest. A failed save leaves the
	// previously persisted manifest intact.
	Save(ctx context.Context, entries map[string]domain.ManifestEntry) error

	// Stats derives reporting statistics by scanning entries.
	Stats(ctx context.Context) (domain.ManifestStats, error)
}
