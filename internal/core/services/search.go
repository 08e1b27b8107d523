package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/core/ports/driven"
	"github.com/hctlabs/kbsync/internal/core/ports/driving"
	"github.com/hctlabs/kbsync/internal/logger"
)

var _ driving.SearchService = (*QueryEngine)(nil)

// DefaultSnippetWidth is the target snippet length in runes.
const DefaultSnippetWidth = 200

// DefaultLimit is the result cap applied when the caller passes none.
const DefaultLimit = 10

// DefaultAliases rewrites common phrasings of product names onto the
// spellings used in the indexed documents. Longer phrases match first.
var DefaultAliases = map[string]string{
	"f 500":         "f-500",
	"f500":          "f-500",
	"hydro lock":    "hydrolock",
	"pinnacle foam": "pinnacle",
	"dust wash":     "dust-wash",
}

// QueryEngine answers ranked full-text queries against a search index,
// applying alias normalisation before the query hits the index and
// snippet extraction after.
type QueryEngine struct {
	index        driven.SearchIndex
	aliases      []aliasRule
	snippetWidth int
}

type aliasRule struct {
	pattern *regexp.Regexp
	to      string
}

// NewQueryEngine creates a query engine over the given index.
// A nil aliases map selects DefaultAliases; snippetWidth <= 0 selects
// DefaultSnippetWidth.
func NewQueryEngine(index driven.SearchIndex, aliases map[string]string, snippetWidth int) *QueryEngine {
	if aliases == nil {
		aliases = DefaultAliases
	}
	if snippetWidth <= 0 {
		snippetWidth = DefaultSnippetWidth
	}

	// Apply longer aliases first so "pinnacle foam" wins over any
	// shorter overlap. Patterns anchor on word boundaries so "f500"
	// never rewrites inside a longer token like "f5000".
	type pair struct{ from, to string }
	pairs := make([]pair, 0, len(aliases))
	for from, to := range aliases {
		pairs = append(pairs, pair{from: strings.ToLower(from), to: to})
	}
	for i := 0; i < len(pairs); i++ {
		for j := i + 1; j < len(pairs); j++ {
			if len(pairs[j].from) > len(pairs[i].from) {
				pairs[i], pairs[j] = pairs[j], pairs[i]
			}
		}
	}

	rules := make([]aliasRule, 0, len(pairs))
	for _, p := range pairs {
		rules = append(rules, aliasRule{
			pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(p.from) + `\b`),
			to:      p.to,
		})
	}

	return &QueryEngine{index: index, aliases: rules, snippetWidth: snippetWidth}
}

// Search runs one ranked query and returns up to limit results.
// An empty or whitespace-only query, or a non-positive limit, is
// rejected with domain.ErrInvalidQuery.
func (e *QueryEngine) Search(ctx context.Context, query string, limit int) ([]domain.QueryResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidQuery)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrInvalidQuery, limit)
	}

	normalized := e.normalizeQuery(query)
	if normalized != query {
		logger.Debug("Query normalised: %q -> %q", query, normalized)
	}

	hits, err := e.index.Search(ctx, normalized, limit)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	terms := queryTerms(normalized)
	results := make([]domain.QueryResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, domain.QueryResult{
			DocumentID: hit.DocumentID,
			Title:      hit.Title,
			Score:      hit.Score,
			Snippet:    e.snippet(hit.Body, terms),
		})
	}
	return results, nil
}

// normalizeQuery lowercases the query, collapses whitespace and applies
// the alias table.
func (e *QueryEngine) normalizeQuery(query string) string {
	q := strings.ToLower(strings.Join(strings.Fields(query), " "))
	for _, rule := range e.aliases {
		q = rule.pattern.ReplaceAllLiteralString(q, rule.to)
	}
	return q
}

// queryTerms splits a normalised query into terms for snippet matching.
func queryTerms(query string) []string {
	return strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-'
	})
}

// snippet extracts a window of roughly snippetWidth runes centred on
// the earliest query-term occurrence in the body. When no term matches
// it falls back to the leading text. Windows clipped from the middle of
// the document get ellipsis markers.
func (e *QueryEngine) snippet(body string, terms []string) string {
	runes := []rune(body)
	if len(runes) <= e.snippetWidth {
		return markTerms(strings.TrimSpace(body), terms)
	}

	matchAt, matchLen := -1, 0
	for _, term := range terms {
		if idx, length := foldIndex(body, term); idx >= 0 && (matchAt < 0 || idx < matchAt) {
			matchAt, matchLen = idx, length
		}
	}

	if matchAt < 0 {
		// No literal match (stemmed hit): lead with the document opening.
		return strings.TrimSpace(string(runes[:e.snippetWidth])) + "…"
	}

	// Byte offsets to rune offsets.
	matchRune := len([]rune(body[:matchAt]))
	matchEnd := matchRune + len([]rune(body[matchAt:matchAt+matchLen]))

	start := matchRune - e.snippetWidth/2
	if start < 0 {
		start = 0
	}
	end := start + e.snippetWidth
	if end > len(runes) {
		end = len(runes)
		start = end - e.snippetWidth
		if start < 0 {
			start = 0
		}
	}

	// Snap to word boundaries inside the window, never crossing the
	// matched term. Unbroken text (long URLs, CJK runs) keeps the
	// hard-cut bound on that side.
	for start > 0 && start < matchRune && !unicode.IsSpace(runes[start]) {
		start++
	}
	for end > matchEnd && end < len(runes) && !unicode.IsSpace(runes[end-1]) {
		end--
	}

	out := markTerms(strings.TrimSpace(string(runes[start:end])), terms)
	if start > 0 {
		out = "…" + out
	}
	if end < len(runes) {
		out += "…"
	}
	return out
}

// markTerms delimits literal query-term occurrences in the snippet so
// callers can highlight the match. Marking is case-insensitive and
// non-overlapping, longest terms first.
func markTerms(snippet string, terms []string) string {
	sorted := make([]string, 0, len(terms))
	for _, t := range terms {
		if t != "" {
			sorted = append(sorted, t)
		}
	}
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if len(sorted[j]) > len(sorted[i]) {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}

	var b strings.Builder
	pos := 0
	for pos < len(snippet) {
		matchAt, matchLen := -1, 0
		for _, term := range sorted {
			idx, length := foldIndex(snippet[pos:], term)
			if idx < 0 {
				continue
			}
			if matchAt < 0 || pos+idx < matchAt || (pos+idx == matchAt && length > matchLen) {
				matchAt, matchLen = pos+idx, length
			}
		}
		if matchAt < 0 {
			b.WriteString(snippet[pos:])
			break
		}
		b.WriteString(snippet[pos:matchAt])
		b.WriteString("**")
		b.WriteString(snippet[matchAt : matchAt+matchLen])
		b.WriteString("**")
		pos = matchAt + matchLen
	}
	return b.String()
}

// foldIndex reports the byte offset and byte length in s of the first
// occurrence of term under simple case folding. Matching rune-wise
// keeps the offsets valid in s even where lowercasing changes a rune's
// encoded length (U+023A is two bytes, its lowercase U+2C65 is three).
func foldIndex(s, term string) (int, int) {
	if term == "" {
		return -1, 0
	}
	termRunes := []rune(strings.ToLower(term))
	for i := 0; i < len(s); {
		if length, ok := foldMatch(s[i:], termRunes); ok {
			return i, length
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return -1, 0
}

// foldMatch reports whether s starts with the lowercased term, and the
// byte length of the matched prefix in s.
func foldMatch(s string, term []rune) (int, bool) {
	n := 0
	for _, tr := range term {
		r, size := utf8.DecodeRuneInString(s[n:])
		if size == 0 {
			return 0, false
		}
		if unicode.ToLower(r) != tr {
			return 0, false
		}
		n += size
	}
	return n, true
}
