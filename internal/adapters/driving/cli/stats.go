package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/hctlabs/kbsync/internal/core/domain"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge-base statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if statsService == nil {
		return fmt.Errorf("stats: %w", errNotConfigured)
	}

	stats, err := statsService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Documents: %d\n", stats.DocumentCount)
	cmd.Printf("Words:     %d\n", stats.TotalWordCount)

	if len(stats.Formats) > 0 {
		formats := make([]string, 0, len(stats.Formats))
		for format := range stats.Formats {
			formats = append(formats, string(format))
		}
		sort.Strings(formats)

		cmd.Println("Formats:")
		for _, format := range formats {
			cmd.Printf("  %-10s %d\n", format, stats.Formats[domain.SourceFormat(format)])
		}
	}

	if !stats.LastSyncTime.IsZero() {
		cmd.Printf("Last sync: %s\n", stats.LastSyncTime.Local().Format(time.RFC1123))
	}
	return nil
}
