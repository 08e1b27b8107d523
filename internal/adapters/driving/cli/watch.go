package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the source and resync on changes",
	Long: `Runs an initial sync, then watches the source for changes and
resyncs whenever files are created, modified or removed. Only local
filesystem sources support watching. Stops on interrupt.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if syncService == nil {
		return fmt.Errorf("sync: %w", errNotConfigured)
	}
	if watchSource == nil {
		return errors.New("the configured source does not support watching (use a localfs source)")
	}

	ctx := cmd.Context()

	summary, err := syncService.Sync(ctx)
	if err != nil {
		return fmt.Errorf("initial sync failed: %w", err)
	}
	printSummary(cmd, summary)

	signals, err := watchSource.Watch(ctx)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	cmd.Println("Watching for changes (Ctrl+C to stop)...")
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-signals:
			if !ok {
				return nil
			}
			summary, err := syncService.Sync(ctx)
			switch {
			case errors.Is(err, domain.ErrSyncInProgress):
				// A pass is running; the next signal catches up.
				logger.Debug("Change signal during a running pass, skipped")
			case err != nil:
				logger.Warn("Resync failed: %v", err)
			default:
				printSummary(cmd, summary)
			}
		}
	}
}
