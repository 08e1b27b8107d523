package mcp

import (
	"github.com/hctlabs/kbsync/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP
// server. This provides a single injection point.
type Ports struct {
	// Search answers ranked queries.
	Search driving.SearchService

	// Sync triggers knowledge-base refreshes.
	Sync driving.SyncService

	// Stats reports corpus statistics. Optional.
	Stats driving.StatsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Sync == nil {
		return ErrMissingSyncService
	}
	return nil
}
