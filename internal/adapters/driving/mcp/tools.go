package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hctlabs/kbsync/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query to find documents"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID string  `json:"document_id"`
	Title      string  `json:"title"`
	Score      float64 `json:"score"`
	Snippet    string  `json:"snippet,omitempty"`
}

// SyncInput is the input schema for the sync tool.
type SyncInput struct{}

// SyncOutput is the output schema for the sync tool.
type SyncOutput struct {
	RunID    string   `json:"run_id"`
	Added    int      `json:"added"`
	Updated  int      `json:"updated"`
	Deleted  int      `json:"deleted"`
	Failed   int      `json:"failed"`
	Failures []string `json:"failures,omitempty"`
	Duration string   `json:"duration"`
}

// StatsInput is the input schema for the stats tool.
type StatsInput struct{}

// StatsOutput is the output schema for the stats tool.
type StatsOutput struct {
	DocumentCount  int            `json:"document_count"`
	TotalWordCount int            `json:"total_word_count"`
	Formats        map[string]int `json:"formats"`
	LastSyncTime   string         `json:"last_sync_time,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the knowledge base and return ranked documents with snippets",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sync",
		Description: "Synchronise the knowledge base with its remote source",
	}, s.handleSync)

	if s.ports.Stats != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "stats",
			Description: "Report knowledge-base statistics",
		}, s.handleStats)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	// Zero means the caller omitted the field. Negative values flow
	// through so the engine rejects them as invalid.
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	results, err := s.ports.Search.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			DocumentID: results[i].DocumentID,
			Title:      results[i].Title,
			Score:      results[i].Score,
			Snippet:    results[i].Snippet,
		}
	}

	return nil, output, nil
}

// handleSync handles the sync tool invocation. A sync already in flight
// surfaces as an error rather than queueing a second pass.
func (s *Server) handleSync(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ SyncInput,
) (*mcp.CallToolResult, SyncOutput, error) {
	summary, err := s.ports.Sync.Sync(ctx)
	if err != nil {
		return nil, SyncOutput{}, err
	}

	output := SyncOutput{
		RunID:    summary.RunID,
		Added:    summary.Added,
		Updated:  summary.Updated,
		Deleted:  summary.Deleted,
		Failed:   summary.Failed,
		Duration: summary.Duration.String(),
	}
	for _, f := range summary.Failures {
		output.Failures = append(output.Failures, f.Name+": "+f.Reason)
	}

	return nil, output, nil
}

// handleStats handles the stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.ports.Stats.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}

	output := StatsOutput{
		DocumentCount:  stats.DocumentCount,
		TotalWordCount: stats.TotalWordCount,
		Formats:        formatCounts(stats.Formats),
	}
	if !stats.LastSyncTime.IsZero() {
		output.LastSyncTime = stats.LastSyncTime.UTC().Format(time.RFC3339)
	}

	return nil, output, nil
}

func formatCounts(formats map[domain.SourceFormat]int) map[string]int {
	out := make(map[string]int, len(formats))
	for format, count := range formats {
		out[string(format)] = count
	}
	return out
}
