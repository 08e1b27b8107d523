package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hctlabs/kbsync/internal/core/domain"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise the knowledge base",
	Long: `Runs one sync pass: lists the remote source, detects changed
documents, extracts their text and updates the search index.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if syncService == nil {
		return fmt.Errorf("sync: %w", errNotConfigured)
	}

	cmd.Println("Synchronising...")

	summary, err := syncWithProgress(cmd)
	if err != nil {
		if errors.Is(err, domain.ErrSyncInProgress) {
			return errors.New("a sync pass is already running")
		}
		return fmt.Errorf("sync failed: %w", err)
	}

	printSummary(cmd, summary)
	return nil
}

// syncWithProgress runs sync while displaying progress updates.
func syncWithProgress(cmd *cobra.Command) (*domain.SyncSummary, error) {
	type result struct {
		summary *domain.SyncSummary
		err     error
	}
	resCh := make(chan result, 1)
	go func() {
		summary, err := syncService.Sync(cmd.Context())
		resCh <- result{summary, err}
	}()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastCount := 0
	for {
		select {
		case res := <-resCh:
			if lastCount > 0 {
				cmd.Println()
			}
			return res.summary, res.err
		case <-ticker.C:
			status := syncService.Status()
			if status.DocumentsProcessed > lastCount {
				cmd.Printf("\rProcessing... %d documents", status.DocumentsProcessed)
				lastCount = status.DocumentsProcessed
			}
		}
	}
}

func printSummary(cmd *cobra.Command, summary *domain.SyncSummary) {
	cmd.Printf("Sync complete in %s: %d added, %d updated, %d deleted, %d failed.\n",
		summary.Duration.Round(time.Millisecond),
		summary.Added, summary.Updated, summary.Deleted, summary.Failed)

	for _, failure := range summary.Failures {
		cmd.Printf("  failed: %s (%s)\n", failure.Name, failure.Reason)
	}
}
