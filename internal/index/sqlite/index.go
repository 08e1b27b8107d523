package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/core/ports/driven"
)

// searchIndex implements driven.SearchIndex over the FTS5 table.
//
// Write serialisation comes from SQLite itself: one writer at a time,
// and WAL readers see the last committed snapshot. Each Upsert and
// Delete runs in its own transaction so a query never observes a
// document whose stored row and FTS row disagree.
type searchIndex struct {
	store *Store
}

var _ driven.SearchIndex = (*searchIndex)(nil)

// Upsert replaces the stored document and its FTS entry in one
// transaction.
func (i *searchIndex) Upsert(ctx context.Context, doc domain.Document) error {
	tx, err := i.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning upsert: %w", err)
	}
	defer tx.Rollback()

	if err := upsertDoc(ctx, tx, doc); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upsert: %w", err)
	}
	return nil
}

func upsertDoc(ctx context.Context, tx *sql.Tx, doc domain.Document) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO documents (id, title, body, format, extracted_at, word_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			format = excluded.format,
			extracted_at = excluded.extracted_at,
			word_count = excluded.word_count
	`, doc.ID, doc.Title, doc.Body, string(doc.Format), doc.ExtractedAt.UTC(), doc.WordCount)
	if err != nil {
		return fmt.Errorf("upserting document %s: %w", doc.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents_fts WHERE doc_id = ?`, doc.ID); err != nil {
		return fmt.Errorf("clearing fts entry %s: %w", doc.ID, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents_fts (doc_id, title, body) VALUES (?, ?, ?)
	`, doc.ID, doc.Title, doc.Body)
	if err != nil {
		return fmt.Errorf("inserting fts entry %s: %w", doc.ID, err)
	}
	return nil
}

// Delete removes a document and its FTS entry. Absent IDs are a no-op.
func (i *searchIndex) Delete(ctx context.Context, id string) error {
	tx, err := i.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents_fts WHERE doc_id = ?`, id); err != nil {
		return fmt.Errorf("deleting fts entry %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}
	return nil
}

// Rebuild replaces the whole index inside one transaction. Readers keep
// the previous snapshot until the commit lands; an interrupted rebuild
// rolls back to it.
func (i *searchIndex) Rebuild(ctx context.Context, docs []domain.Document) error {
	tx, err := i.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clearing documents: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents_fts`); err != nil {
		return fmt.Errorf("clearing fts: %w", err)
	}

	for _, doc := range docs {
		if err := upsertDoc(ctx, tx, doc); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rebuild: %w", err)
	}
	return nil
}

// Search runs a bm25-ranked FTS5 query. Ties break by document ID
// ascending. A query with no indexable terms returns no hits.
func (i *searchIndex) Search(ctx context.Context, query string, limit int) ([]domain.IndexHit, error) {
	match := matchExpression(query)
	if match == "" {
		return nil, nil
	}

	rows, err := i.store.db.QueryContext(ctx, `
		SELECT d.id, d.title, d.body, bm25(documents_fts) AS rank
		FROM documents_fts
		JOIN documents d ON d.id = documents_fts.doc_id
		WHERE documents_fts MATCH ?
		ORDER BY rank, d.id
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var hits []domain.IndexHit
	for rows.Next() {
		var hit domain.IndexHit
		var rank float64
		if err := rows.Scan(&hit.DocumentID, &hit.Title, &hit.Body, &rank); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		// bm25 ranks smaller-is-better; negate so callers get
		// higher-is-more-relevant.
		hit.Score = -rank
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hits: %w", err)
	}
	return hits, nil
}

// Document returns a stored document by ID.
func (i *searchIndex) Document(ctx context.Context, id string) (*domain.Document, error) {
	row := i.store.db.QueryRowContext(ctx, `
		SELECT id, title, body, format, extracted_at, word_count
		FROM documents WHERE id = ?
	`, id)

	var doc domain.Document
	var format string
	if err := row.Scan(&doc.ID, &doc.Title, &doc.Body, &format, &doc.ExtractedAt, &doc.WordCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("loading document %s: %w", id, err)
	}
	doc.Format = domain.SourceFormat(format)
	return &doc, nil
}

// Close closes the underlying store.
func (i *searchIndex) Close() error {
	return i.store.Close()
}

// matchExpression converts free text into a safe FTS5 MATCH expression:
// each term is double-quoted so user input can never inject FTS syntax.
func matchExpression(query string) string {
	terms := strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-'
	})
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		quoted = append(quoted, `"`+strings.ReplaceAll(t, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " ")
}
