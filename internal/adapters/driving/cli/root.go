// Package cli provides the kbsync command-line interface.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/hctlabs/kbsync/internal/core/ports/driven"
	"github.com/hctlabs/kbsync/internal/core/ports/driving"
	"github.com/hctlabs/kbsync/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Persistent flags.
var (
	configPath string
	verbose    bool
)

// Services used by the commands. They are wired on first use from the
// configuration, or injected directly by tests.
var (
	syncService   driving.SyncService
	searchService driving.SearchService
	statsService  driving.StatsService
	watchSource   driven.WatchableSource
	teardown      func()
)

var rootCmd = &cobra.Command{
	Use:   "kbsync",
	Short: "Knowledge-base sync and search",
	Long: `kbsync mirrors a folder of documents from a remote source into a
locally queryable full-text index, and answers ranked queries against it.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default ~/.kbsync/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer func() {
		if teardown != nil {
			teardown()
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

// errNotConfigured is returned when a command runs without its service.
var errNotConfigured = errors.New("service not configured")
