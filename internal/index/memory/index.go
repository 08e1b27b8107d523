// Package memory provides an in-memory search index with TF-IDF
// ranking. It holds everything in process, so it suits tests and
// ephemeral runs where no data directory is wanted.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/core/ports/driven"
)

// Index is an inverted index over document bodies and titles.
// All methods are safe for concurrent use; reads run under a shared
// lock so queries never observe a half-applied write.
type Index struct {
	mu       sync.RWMutex
	docs     map[string]domain.Document
	postings map[string]map[string]int // term -> doc ID -> frequency
	lengths  map[string]int            // doc ID -> token count
}

var _ driven.SearchIndex = (*Index)(nil)

// NewIndex creates an empty in-memory index.
func NewIndex() *Index {
	return &Index{
		docs:     make(map[string]domain.Document),
		postings: make(map[string]map[string]int),
		lengths:  make(map[string]int),
	}
}

// Upsert replaces any existing entry with the same ID.
func (i *Index) Upsert(_ context.Context, doc domain.Document) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.removeLocked(doc.ID)
	i.addLocked(doc)
	return nil
}

// Delete removes an entry. Absent IDs are a no-op.
func (i *Index) Delete(_ context.Context, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.removeLocked(id)
	return nil
}

// Rebuild replaces the whole index. The replacement is assembled off to
// the side and swapped in under the lock, so readers see either the old
// index or the new one in full.
func (i *Index) Rebuild(_ context.Context, docs []domain.Document) error {
	next := NewIndex()
	for _, doc := range docs {
		next.addLocked(doc)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.docs = next.docs
	i.postings = next.postings
	i.lengths = next.lengths
	return nil
}

// Search ranks documents by summed TF-IDF over the query terms.
// Ties break by document ID ascending.
func (i *Index) Search(_ context.Context, query string, limit int) ([]domain.IndexHit, error) {
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	total := len(i.docs)
	scores := make(map[string]float64)
	for _, term := range terms {
		matches, ok := i.postings[term]
		if !ok {
			continue
		}
		idf := math.Log(1 + float64(total)/float64(len(matches)))
		for id, freq := range matches {
			tf := 1 + math.Log(float64(freq))
			scores[id] += tf * idf
		}
	}

	hits := make([]domain.IndexHit, 0, len(scores))
	for id, score := range scores {
		doc := i.docs[id]
		hits = append(hits, domain.IndexHit{
			DocumentID: id,
			Title:      doc.Title,
			Body:       doc.Body,
			Score:      score,
		})
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Score != hits[b].Score {
			return hits[a].Score > hits[b].Score
		}
		return hits[a].DocumentID < hits[b].DocumentID
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Document returns a stored document by ID.
func (i *Index) Document(_ context.Context, id string) (*domain.Document, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	doc, ok := i.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return &doc, nil
}

// Close is a no-op; the index holds no external resources.
func (i *Index) Close() error {
	return nil
}

// addLocked indexes a document. Caller holds the write lock (or owns
// the index exclusively during Rebuild assembly).
func (i *Index) addLocked(doc domain.Document) {
	tokens := tokenize(doc.Title + " " + doc.Body)
	i.docs[doc.ID] = doc
	i.lengths[doc.ID] = len(tokens)
	for _, token := range tokens {
		matches, ok := i.postings[token]
		if !ok {
			matches = make(map[string]int)
			i.postings[token] = matches
		}
		matches[doc.ID]++
	}
}

// removeLocked drops a document and its postings. Caller holds the
// write lock.
func (i *Index) removeLocked(id string) {
	if _, ok := i.docs[id]; !ok {
		return
	}
	delete(i.docs, id)
	delete(i.lengths, id)
	for term, matches := range i.postings {
		delete(matches, id)
		if len(matches) == 0 {
			delete(i.postings, term)
		}
	}
}

// tokenize lowercases text and splits it into word tokens. Hyphens are
// token characters so product codes like f-500 stay whole.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-'
	})
}
