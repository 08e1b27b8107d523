package cli

import (
	"context"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/core/ports/driving"
)

// mockSearchService returns canned query results.
type mockSearchService struct {
	results []domain.QueryResult
	err     error
}

func (m *mockSearchService) Search(_ context.Context, _ string, _ int) ([]domain.QueryResult, error) {
	return m.results, m.err
}

// mockSyncService returns a canned summary.
type mockSyncService struct {
	summary *domain.SyncSummary
	err     error
}

func (m *mockSyncService) Sync(_ context.Context) (*domain.SyncSummary, error) {
	return m.summary, m.err
}

func (m *mockSyncService) Status() driving.SyncStatus {
	return driving.SyncStatus{}
}

// mockStatsService returns canned statistics.
type mockStatsService struct {
	stats domain.ManifestStats
	err   error
}

func (m *mockStatsService) Stats(_ context.Context) (domain.ManifestStats, error) {
	return m.stats, m.err
}

// setupTestServices installs mock services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	oldSync, oldSearch, oldStats := syncService, searchService, statsService

	syncService = &mockSyncService{summary: &domain.SyncSummary{RunID: "test-run"}}
	searchService = &mockSearchService{results: []domain.QueryResult{
		{DocumentID: "doc-1", Title: "f500 msds", Score: 2.5, Snippet: "the **F-500** agent"},
	}}
	statsService = &mockStatsService{stats: domain.ManifestStats{
		DocumentCount:  3,
		TotalWordCount: 1200,
		Formats:        map[domain.SourceFormat]int{domain.FormatPDF: 3},
	}}

	return func() {
		syncService, searchService, statsService = oldSync, oldSearch, oldStats
	}
}
