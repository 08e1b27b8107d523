package services

import (
	"context"
	"fmt"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/core/ports/driven"
	"github.com/hctlabs/kbsync/internal/core/ports/driving"
)

var _ driving.StatsService = (*StatsReporter)(nil)

// StatsReporter summarises the manifest into corpus statistics.
type StatsReporter struct {
	manifest driven.ManifestStore
}

// NewStatsReporter creates a stats reporter over the manifest store.
func NewStatsReporter(manifest driven.ManifestStore) *StatsReporter {
	return &StatsReporter{manifest: manifest}
}

// Stats reports document counts and word totals for the indexed corpus.
func (r *StatsReporter) Stats(ctx context.Context) (domain.ManifestStats, error) {
	stats, err := r.manifest.Stats(ctx)
	if err != nil {
		return domain.ManifestStats{}, fmt.Errorf("manifest stats: %w", err)
	}
	return stats, nil
}
