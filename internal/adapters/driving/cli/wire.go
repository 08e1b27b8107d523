package cli

import (
	"context"
	"fmt"

	"github.com/hctlabs/kbsync/internal/adapters/driven/config"
	memstore "github.com/hctlabs/kbsync/internal/adapters/driven/storage/memory"
	"github.com/hctlabs/kbsync/internal/connectors/gdrive"
	"github.com/hctlabs/kbsync/internal/connectors/localfs"
	"github.com/hctlabs/kbsync/internal/core/ports/driven"
	"github.com/hctlabs/kbsync/internal/core/services"
	"github.com/hctlabs/kbsync/internal/extractors"
	memindex "github.com/hctlabs/kbsync/internal/index/memory"
	"github.com/hctlabs/kbsync/internal/index/sqlite"
)

// ensureServices builds the service graph from the configuration.
// Tests that pre-populate the service vars short-circuit it.
func ensureServices(ctx context.Context) error {
	if syncService != nil && searchService != nil {
		return nil
	}

	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	source, err := newSource(ctx, cfg)
	if err != nil {
		return err
	}

	index, manifest, closeStore, err := newBackend(cfg)
	if err != nil {
		source.Close()
		return fmt.Errorf("opening index store: %w", err)
	}

	normalizer := services.NewNormalizer(extractors.DefaultRegistry(), cfg.MaxExtractChars)

	syncService = services.NewSyncOrchestrator(
		source, manifest, normalizer, index, cfg.Workers, cfg.FetchTimeout.Std())
	searchService = services.NewQueryEngine(index, cfg.Aliases, cfg.SnippetWidth)
	statsService = services.NewStatsReporter(manifest)

	if ws, ok := source.(driven.WatchableSource); ok {
		watchSource = ws
	}

	teardown = func() {
		closeStore()
		source.Close()
	}
	return nil
}

// newBackend opens the index and manifest backend for the configured
// data directory. The special value ":memory:" selects the ephemeral
// in-memory backend; nothing survives the process.
func newBackend(cfg *config.Config) (driven.SearchIndex, driven.ManifestStore, func() error, error) {
	if cfg.DataDir == ":memory:" {
		index := memindex.NewIndex()
		return index, memstore.NewManifestStore(), index.Close, nil
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return nil, nil, nil, err
	}
	return store.SearchIndex(), store.ManifestStore(), store.Close, nil
}

func newSource(ctx context.Context, cfg *config.Config) (driven.RemoteSource, error) {
	switch cfg.Source {
	case config.SourceGDrive:
		return gdrive.NewSource(ctx, gdrive.Config{
			FolderID:        cfg.FolderID,
			CredentialsFile: cfg.CredentialsFile,
		})
	case config.SourceLocalFS:
		return localfs.NewSource(cfg.LocalPath)
	default:
		return nil, fmt.Errorf("unknown source type %q", cfg.Source)
	}
}
