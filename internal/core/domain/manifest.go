package domain

import "time"

// IndexStatus tracks a manifest entry's position in the sync lifecycle.
type IndexStatus string

const (
	// StatusPending marks an entry created but not yet indexed.
	StatusPending IndexStatus = "pending"
	// StatusIndexed marks an entry whose document is in the search index.
	StatusIndexed IndexStatus = "indexed"
	// StatusFailed marks an entry whose last extraction or fetch failed.
	StatusFailed IndexStatus = "failed"
	// StatusDeleted marks an entry whose remote file disappeared.
	// Deleted entries are purged from the index, never left orphaned.
	StatusDeleted IndexStatus = "deleted"
)

// ManifestEntry is the persisted per-document sync state. Exactly one
// entry exists per remote file ID ever ingested; the set of indexed IDs
// is always a subset of non-deleted manifest IDs once a pass completes.
type ManifestEntry struct {
	// ID equals the remote file ID.
	ID string

	// Name is the remote file name at last sync.
	Name string

	// Fingerprint is the content fingerprint at last successful sync.
	Fingerprint string

	// Format is the detected source format, empty if never extracted.
	Format SourceFormat

	// WordCount is the extracted word count at last successful sync.
	WordCount int

	// LastSyncedAt is when this entry was last touched by a sync pass.
	LastSyncedAt time.Time

	// Status is the entry's index status.
	Status IndexStatus
}

// ManifestStats summarises the manifest for external reporting.
type ManifestStats struct {
	// DocumentCount is the number of indexed (non-deleted) entries.
	DocumentCount int `json:"document_count"`

	// TotalWordCount sums word counts across indexed entries.
	TotalWordCount int `json:"total_word_count"`

	// Formats breaks indexed entries down by source format.
	Formats map[SourceFormat]int `json:"formats"`

	// LastSyncTime is the most recent LastSyncedAt across entries.
	LastSyncTime time.Time `json:"last_sync_time"`
}
