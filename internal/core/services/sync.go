package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/core/ports/driven"
	"github.com/hctlabs/kbsync/internal/core/ports/driving"
	"github.com/hctlabs/kbsync/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncService = (*SyncOrchestrator)(nil)

// DefaultWorkers is the default extraction worker-pool size.
const DefaultWorkers = 4

// DefaultFetchTimeout bounds a single document download.
const DefaultFetchTimeout = 30 * time.Second

// SyncOrchestrator coordinates one sync pass: list the remote source,
// diff against the manifest, fetch and extract changed documents in a
// bounded worker pool, and apply index writes serially.
//
// Sync invocations are serialised: a second caller while a pass is
// running is rejected with domain.ErrSyncInProgress rather than queued,
// because the change detector assumes a quiescent manifest baseline.
type SyncOrchestrator struct {
	source       driven.RemoteSource
	manifest     driven.ManifestStore
	normalizer   *Normalizer
	index        driven.SearchIndex
	workers      int
	fetchTimeout time.Duration

	running sync.Mutex

	statusMu sync.RWMutex
	status   driving.SyncStatus
}

// NewSyncOrchestrator creates a sync orchestrator.
// workers <= 0 selects DefaultWorkers; fetchTimeout <= 0 selects
// DefaultFetchTimeout.
func NewSyncOrchestrator(
	source driven.RemoteSource,
	manifest driven.ManifestStore,
	normalizer *Normalizer,
	index driven.SearchIndex,
	workers int,
	fetchTimeout time.Duration,
) *SyncOrchestrator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &SyncOrchestrator{
		source:       source,
		manifest:     manifest,
		normalizer:   normalizer,
		index:        index,
		workers:      workers,
		fetchTimeout: fetchTimeout,
	}
}

// ingestResult is the outcome of fetching and extracting one file.
type ingestResult struct {
	file     domain.RemoteFile
	isUpdate bool
	doc      domain.Document
	vanished bool // remote 404 between list and fetch
	err      error
}

// Sync runs one complete pass and returns its summary.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (o *SyncOrchestrator) Sync(ctx context.Context) (*domain.SyncSummary, error) {
	if !o.running.TryLock() {
		return nil, domain.ErrSyncInProgress
	}
	defer o.running.Unlock()

	start := time.Now()
	summary := &domain.SyncSummary{RunID: uuid.New().String()}

	o.setStatus(driving.SyncStatus{Running: true})
	defer o.setStatus(driving.SyncStatus{})

	logger.Section("Sync Pass")
	logger.Info("Starting sync run %s", summary.RunID)

	manifest, err := o.manifest.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load manifest: %w", domain.ErrPersistenceFailure, err)
	}

	listing, err := o.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list remote files: %w", err)
	}
	logger.Debug("Remote listing: %d files, manifest: %d entries", len(listing), len(manifest))

	changes := Diff(listing, manifest)
	logger.Info("Diff: %d to add, %d to update, %d to delete",
		len(changes.ToAdd), len(changes.ToUpdate), len(changes.ToDelete))

	// Deletes first: they are cheap and never conflict with upserts.
	for _, id := range changes.ToDelete {
		if ctx.Err() != nil {
			break
		}
		if err := o.index.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("%w: delete %s from index: %w", domain.ErrPersistenceFailure, id, err)
		}
		delete(manifest, id)
		summary.Deleted++
		o.bumpProcessed()
	}

	// Fetch and extract in parallel, then apply index writes serially
	// from this goroutine so the manifest map and counters stay
	// race-free and index writers are never concurrent.
	results := o.ingest(ctx, changes)
	for res := range results {
		switch {
		case res.vanished:
			// Deleted remotely between list and fetch: benign race.
			if err := o.index.Delete(ctx, res.file.ID); err != nil {
				return nil, fmt.Errorf("%w: delete %s from index: %w", domain.ErrPersistenceFailure, res.file.ID, err)
			}
			delete(manifest, res.file.ID)
			if res.isUpdate {
				summary.Deleted++
			}
			o.bumpProcessed()

		case res.err != nil:
			logger.Warn("Failed %s: %v", res.file.Name, res.err)
			manifest[res.file.ID] = domain.ManifestEntry{
				ID:           res.file.ID,
				Name:         res.file.Name,
				Fingerprint:  res.file.Fingerprint(),
				LastSyncedAt: time.Now(),
				Status:       domain.StatusFailed,
			}
			summary.Failed++
			summary.Failures = append(summary.Failures, domain.FileFailure{
				ID:     res.file.ID,
				Name:   res.file.Name,
				Reason: res.err.Error(),
			})
			o.bumpErrors()

		default:
			if err := o.index.Upsert(ctx, res.doc); err != nil {
				return nil, fmt.Errorf("%w: upsert %s: %w", domain.ErrPersistenceFailure, res.doc.ID, err)
			}
			manifest[res.file.ID] = domain.ManifestEntry{
				ID:           res.file.ID,
				Name:         res.file.Name,
				Fingerprint:  res.file.Fingerprint(),
				Format:       res.doc.Format,
				WordCount:    res.doc.WordCount,
				LastSyncedAt: time.Now(),
				Status:       domain.StatusIndexed,
			}
			if res.isUpdate {
				summary.Updated++
			} else {
				summary.Added++
			}
			o.bumpProcessed()
		}
	}

	if err := o.manifest.Save(ctx, manifest); err != nil {
		return nil, fmt.Errorf("%w: save manifest: %w", domain.ErrPersistenceFailure, err)
	}

	summary.Duration = time.Since(start)
	logger.Info("Sync complete: +%d ~%d -%d !%d in %s",
		summary.Added, summary.Updated, summary.Deleted, summary.Failed, summary.Duration)

	if err := ctx.Err(); err != nil {
		// Committed documents stay committed; report the cancellation.
		return summary, err
	}
	return summary, nil
}

// ingest fetches and extracts the changed files with a bounded worker
// pool. The returned channel closes when all work items are done.
func (o *SyncOrchestrator) ingest(ctx context.Context, changes domain.ChangeSet) <-chan ingestResult {
	type workItem struct {
		file     domain.RemoteFile
		isUpdate bool
	}

	work := make(chan workItem)
	results := make(chan ingestResult)

	var wg sync.WaitGroup
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range work {
				res := ingestResult{file: item.file, isUpdate: item.isUpdate}

				raw, err := o.fetch(ctx, item.file.ID)
				switch {
				case errors.Is(err, domain.ErrNotFound):
					res.vanished = true
				case err != nil:
					res.err = err
				default:
					res.doc, res.err = o.normalizer.Normalize(ctx, item.file, raw)
				}

				select {
				case results <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(work)
		for _, f := range changes.ToAdd {
			select {
			case work <- workItem{file: f}:
			case <-ctx.Done():
				return
			}
		}
		for _, f := range changes.ToUpdate {
			select {
			case work <- workItem{file: f, isUpdate: true}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// fetch downloads one file under the per-document timeout.
func (o *SyncOrchestrator) fetch(ctx context.Context, fileID string) ([]byte, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, o.fetchTimeout)
	defer cancel()

	raw, err := o.source.Fetch(fetchCtx, fileID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("fetch %s: timeout after %s: %w", fileID, o.fetchTimeout, err)
		}
		return nil, err
	}
	return raw, nil
}

// Status reports a snapshot of the current pass.
func (o *SyncOrchestrator) Status() driving.SyncStatus {
	o.statusMu.RLock()
	defer o.statusMu.RUnlock()
	return o.status
}

func (o *SyncOrchestrator) setStatus(s driving.SyncStatus) {
	o.statusMu.Lock()
	defer o.statusMu.Unlock()
	o.status = s
}

func (o *SyncOrchestrator) bumpProcessed() {
	o.statusMu.Lock()
	defer o.statusMu.Unlock()
	o.status.DocumentsProcessed++
}

func (o *SyncOrchestrator) bumpErrors() {
	o.statusMu.Lock()
	defer o.statusMu.Unlock()
	o.status.ErrorCount++
}
