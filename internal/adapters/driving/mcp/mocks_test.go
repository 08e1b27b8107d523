package mcp

import (
	"context"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results   []domain.QueryResult
	err       error
	lastQuery string
	lastLimit int
}

func (m *mockSearchService) Search(_ context.Context, query string, limit int) ([]domain.QueryResult, error) {
	m.lastQuery = query
	m.lastLimit = limit
	return m.results, m.err
}

// mockSyncService is a mock implementation of driving.SyncService.
type mockSyncService struct {
	summary *domain.SyncSummary
	err     error
	calls   int
}

func (m *mockSyncService) Sync(_ context.Context) (*domain.SyncSummary, error) {
	m.calls++
	return m.summary, m.err
}

func (m *mockSyncService) Status() driving.SyncStatus {
	return driving.SyncStatus{}
}

// mockStatsService is a mock implementation of driving.StatsService.
type mockStatsService struct {
	stats domain.ManifestStats
	err   error
}

func (m *mockStatsService) Stats(_ context.Context) (domain.ManifestStats, error) {
	return m.stats, m.err
}
