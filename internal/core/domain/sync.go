package domain

import "time"

// ChangeSet is the minimal set of operations needed to bring the index
// in line with a remote listing. Computed from listing metadata alone;
// no file content is downloaded to produce it.
type ChangeSet struct {
	// ToAdd lists remote files present remotely but absent from the manifest.
	ToAdd []RemoteFile

	// ToUpdate lists remote files whose fingerprint differs from the manifest.
	ToUpdate []RemoteFile

	// ToDelete lists manifest IDs present in the manifest (status not
	// deleted) but absent from the remote listing.
	ToDelete []string
}

// Empty reports whether the change set requires no work.
func (c ChangeSet) Empty() bool {
	return len(c.ToAdd) == 0 && len(c.ToUpdate) == 0 && len(c.ToDelete) == 0
}

// FileFailure records a single per-document failure within a sync pass.
type FileFailure struct {
	// ID is the remote file ID that failed.
	ID string `json:"id"`

	// Name is the remote file name.
	Name string `json:"name"`

	// Reason is the failure description.
	Reason string `json:"reason"`
}

// SyncSummary reports the outcome of one sync pass.
type SyncSummary struct {
	// RunID uniquely identifies the sync pass.
	RunID string `json:"run_id"`

	// Added is the number of new documents indexed.
	Added int `json:"added"`

	// Updated is the number of changed documents re-indexed.
	Updated int `json:"updated"`

	// Deleted is the number of documents removed from the index.
	Deleted int `json:"deleted"`

	// Failed is the number of documents that could not be ingested.
	Failed int `json:"failed"`

	// Failures lists the per-document failure reasons.
	Failures []FileFailure `json:"failures,omitempty"`

	// Duration is the wall-clock time the pass took.
	Duration time.Duration `json:"duration"`
}
