package driving

import (
	"context"

	"github.com/hctlabs/kbsync/internal/core/domain"
)

// SyncService triggers knowledge-base synchronisation.
type SyncService interface {
	// Sync runs one complete pass: list, diff, extract, index.
	// A second invocation while a pass is running fails with
	// domain.ErrSyncInProgress rather than queueing.
	Sync(ctx context.Context) (*domain.SyncSummary, error)

	// Status reports whether a pass is currently running and how many
	// documents it has processed so far.
	Status() SyncStatus
}

// SyncStatus is a point-in-time snapshot of sync progress.
type SyncStatus struct {
	// Running reports whether a pass is in flight.
	Running bool

	// DocumentsProcessed counts documents committed so far this pass.
	DocumentsProcessed int

	// ErrorCount counts per-document failures so far this pass.
	ErrorCount int
}
