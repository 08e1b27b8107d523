package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/core/ports/driven"
)

// manifestStore implements driven.ManifestStore over the manifest table.
type manifestStore struct {
	store *Store
}

var _ driven.ManifestStore = (*manifestStore)(nil)

// Load returns the full manifest keyed by document ID.
func (m *manifestStore) Load(ctx context.Context) (map[string]domain.ManifestEntry, error) {
	rows, err := m.store.db.QueryContext(ctx, `
		SELECT id, name, fingerprint, format, word_count, last_synced_at, status
		FROM manifest
	`)
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]domain.ManifestEntry)
	for rows.Next() {
		var e domain.ManifestEntry
		var format, status string
		if err := rows.Scan(&e.ID, &e.Name, &e.Fingerprint, &format, &e.WordCount, &e.LastSyncedAt, &status); err != nil {
			return nil, fmt.Errorf("scanning manifest entry: %w", err)
		}
		e.Format = domain.SourceFormat(format)
		e.Status = domain.IndexStatus(status)
		entries[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating manifest: %w", err)
	}
	return entries, nil
}

// Save replaces the manifest in one transaction, so a failed save
// leaves the previously committed manifest intact.
func (m *manifestStore) Save(ctx context.Context, entries map[string]domain.ManifestEntry) error {
	tx, err := m.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning manifest save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM manifest`); err != nil {
		return fmt.Errorf("clearing manifest: %w", err)
	}

	for _, e := range entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO manifest (id, name, fingerprint, format, word_count, last_synced_at, status)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, e.ID, e.Name, e.Fingerprint, string(e.Format), e.WordCount, e.LastSyncedAt.UTC(), string(e.Status))
		if err != nil {
			return fmt.Errorf("saving manifest entry %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing manifest: %w", err)
	}
	return nil
}

// Stats aggregates indexed entries into corpus statistics.
func (m *manifestStore) Stats(ctx context.Context) (domain.ManifestStats, error) {
	stats := domain.ManifestStats{Formats: map[domain.SourceFormat]int{}}

	row := m.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(word_count), 0)
		FROM manifest WHERE status = ?
	`, string(domain.StatusIndexed))
	if err := row.Scan(&stats.DocumentCount, &stats.TotalWordCount); err != nil {
		return domain.ManifestStats{}, fmt.Errorf("counting manifest: %w", err)
	}

	rows, err := m.store.db.QueryContext(ctx, `
		SELECT format, COUNT(*) FROM manifest
		WHERE status = ? GROUP BY format
	`, string(domain.StatusIndexed))
	if err != nil {
		return domain.ManifestStats{}, fmt.Errorf("grouping formats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var format string
		var count int
		if err := rows.Scan(&format, &count); err != nil {
			return domain.ManifestStats{}, fmt.Errorf("scanning format count: %w", err)
		}
		stats.Formats[domain.SourceFormat(format)] = count
	}
	if err := rows.Err(); err != nil {
		return domain.ManifestStats{}, fmt.Errorf("iterating formats: %w", err)
	}

	var last sql.NullTime
	row = m.store.db.QueryRowContext(ctx, `SELECT MAX(last_synced_at) FROM manifest`)
	if err := row.Scan(&last); err != nil {
		return domain.ManifestStats{}, fmt.Errorf("finding last sync time: %w", err)
	}
	if last.Valid {
		stats.LastSyncTime = last.Time
	}

	return stats, nil
}
