package services

import (
	"sort"

	"github.com/hctlabs/kbsync/internal/core/domain"
)

// Diff computes the minimal change set that brings the index in line
// with a remote listing. It works on listing metadata alone, so a pass
// that touches nothing costs one listing call and zero downloads.
//
// Membership is keyed by file ID; change is keyed by fingerprint
// equality. Manifest entries already marked deleted do not produce
// delete operations again.
func Diff(listing []domain.RemoteFile, manifest map[string]domain.ManifestEntry) domain.ChangeSet {
	var cs domain.ChangeSet

	remote := make(map[string]bool, len(listing))
	for _, file := range listing {
		remote[file.ID] = true

		entry, ok := manifest[file.ID]
		switch {
		case !ok:
			cs.ToAdd = append(cs.ToAdd, file)
		case entry.Status == domain.StatusDeleted:
			// Reappeared after deletion: treat as a fresh add.
			cs.ToAdd = append(cs.ToAdd, file)
		case entry.Fingerprint != file.Fingerprint():
			cs.ToUpdate = append(cs.ToUpdate, file)
		case entry.Status == domain.StatusFailed:
			// Unchanged but never ingested: retry as an update.
			cs.ToUpdate = append(cs.ToUpdate, file)
		}
	}

	for id, entry := range manifest {
		if !remote[id] && entry.Status != domain.StatusDeleted {
			cs.ToDelete = append(cs.ToDelete, id)
		}
	}

	// Stable order for reproducible summaries and tests.
	sort.Slice(cs.ToAdd, func(i, j int) bool { return cs.ToAdd[i].ID < cs.ToAdd[j].ID })
	sort.Slice(cs.ToUpdate, func(i, j int) bool { return cs.ToUpdate[i].ID < cs.ToUpdate[j].ID })
	sort.Strings(cs.ToDelete)

	return cs
}
