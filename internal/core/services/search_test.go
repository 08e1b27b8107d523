package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hctlabs/kbsync/internal/core/domain"
)

// cannedIndex returns fixed hits and records the query it received.
type cannedIndex struct {
	recordingIndex
	hits      []domain.IndexHit
	lastQuery string
	lastLimit int
	searchErr error
}

func (i *cannedIndex) Search(_ context.Context, query string, limit int) ([]domain.IndexHit, error) {
	i.lastQuery = query
	i.lastLimit = limit
	if i.searchErr != nil {
		return nil, i.searchErr
	}
	return i.hits, nil
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	engine := NewQueryEngine(&cannedIndex{}, nil, 0)

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := engine.Search(context.Background(), query, 10)
		assert.ErrorIs(t, err, domain.ErrInvalidQuery, "query %q", query)
	}
}

func TestSearchRejectsNonPositiveLimit(t *testing.T) {
	engine := NewQueryEngine(&cannedIndex{}, nil, 0)

	_, err := engine.Search(context.Background(), "foam", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)

	_, err = engine.Search(context.Background(), "foam", -3)
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
}

func TestSearchAppliesAliases(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{"F 500 msds", "f-500 msds"},
		{"f500", "f-500"},
		{"Hydro Lock valve", "hydrolock valve"},
		{"pinnacle foam concentrate", "pinnacle concentrate"},
		{"dust wash station", "dust-wash station"},
		{"plain terms", "plain terms"},
		// Aliases match whole tokens only.
		{"f5000 pump", "f5000 pump"},
		{"f 5000 pump", "f 5000 pump"},
		{"shelf 500 units", "shelf 500 units"},
	}
	for _, tc := range cases {
		index := &cannedIndex{}
		engine := NewQueryEngine(index, nil, 0)

		_, err := engine.Search(context.Background(), tc.query, 5)
		require.NoError(t, err)
		assert.Equal(t, tc.want, index.lastQuery, "query %q", tc.query)
		assert.Equal(t, 5, index.lastLimit)
	}
}

func TestSearchCollapsesQueryWhitespace(t *testing.T) {
	index := &cannedIndex{}
	engine := NewQueryEngine(index, nil, 0)

	_, err := engine.Search(context.Background(), "  foam \t  nozzle  ", 3)
	require.NoError(t, err)
	assert.Equal(t, "foam nozzle", index.lastQuery)
}

func TestSearchReturnsRankedResultsWithSnippets(t *testing.T) {
	body := "The F-500 Encapsulator Agent is a micelle encapsulating fire " +
		"suppression agent used for Class A and Class B fires. " +
		strings.Repeat("It cools rapidly and interrupts combustion. ", 20)
	index := &cannedIndex{hits: []domain.IndexHit{
		{DocumentID: "doc-1", Title: "f500 msds", Body: body, Score: 2.5},
		{DocumentID: "doc-2", Title: "other", Body: "nothing relevant here", Score: 0.4},
	}}
	engine := NewQueryEngine(index, nil, 0)

	results, err := engine.Search(context.Background(), "encapsulator", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	first := results[0]
	assert.Equal(t, "doc-1", first.DocumentID)
	assert.Equal(t, "f500 msds", first.Title)
	assert.InDelta(t, 2.5, first.Score, 1e-9)
	assert.Contains(t, first.Snippet, "F-500 **Encapsulator** Agent")
	assert.LessOrEqual(t, len([]rune(first.Snippet)), DefaultSnippetWidth+10)
}

func TestSearchSnippetShortBodyReturnedWhole(t *testing.T) {
	index := &cannedIndex{hits: []domain.IndexHit{
		{DocumentID: "d", Title: "t", Body: "short body", Score: 1},
	}}
	engine := NewQueryEngine(index, nil, 0)

	results, err := engine.Search(context.Background(), "short", 1)
	require.NoError(t, err)
	assert.Equal(t, "**short** body", results[0].Snippet)
}

func TestSearchSnippetMidDocumentHasEllipses(t *testing.T) {
	body := strings.Repeat("padding words before the match appear here. ", 15) +
		"hydrolock valve assembly " +
		strings.Repeat("trailing words after the match appear here. ", 15)
	index := &cannedIndex{hits: []domain.IndexHit{
		{DocumentID: "d", Title: "t", Body: body, Score: 1},
	}}
	engine := NewQueryEngine(index, nil, 0)

	results, err := engine.Search(context.Background(), "hydro lock", 1)
	require.NoError(t, err)

	snippet := results[0].Snippet
	assert.Contains(t, snippet, "**hydrolock** valve")
	assert.True(t, strings.HasPrefix(snippet, "…"), "snippet %q", snippet)
	assert.True(t, strings.HasSuffix(snippet, "…"), "snippet %q", snippet)
}

func TestSearchSnippetFallsBackToLeadingText(t *testing.T) {
	body := strings.Repeat("stemmed forms may match without a literal hit. ", 20)
	index := &cannedIndex{hits: []domain.IndexHit{
		{DocumentID: "d", Title: "t", Body: body, Score: 1},
	}}
	engine := NewQueryEngine(index, nil, 0)

	results, err := engine.Search(context.Background(), "matching", 1)
	require.NoError(t, err)

	snippet := results[0].Snippet
	assert.True(t, strings.HasPrefix(snippet, "stemmed forms"))
	assert.True(t, strings.HasSuffix(snippet, "…"))
}

func TestSearchSnippetMarksCaseFoldedMatches(t *testing.T) {
	// U+023A lowercases to U+2C65, which is one byte longer in UTF-8,
	// so match offsets must be computed against the original body.
	body := strings.Repeat("Ⱥ", 10)
	index := &cannedIndex{hits: []domain.IndexHit{
		{DocumentID: "d", Title: "t", Body: body, Score: 1},
	}}
	engine := NewQueryEngine(index, nil, 0)

	results, err := engine.Search(context.Background(), "Ⱥ", 1)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("**Ⱥ**", 10), results[0].Snippet)
}

func TestSearchSnippetCaseFoldedTextBeforeMatch(t *testing.T) {
	body := strings.Repeat("Ⱥ ", 150) + "hydrolock valve " +
		strings.Repeat("trailing words here ", 10)
	index := &cannedIndex{hits: []domain.IndexHit{
		{DocumentID: "d", Title: "t", Body: body, Score: 1},
	}}
	engine := NewQueryEngine(index, nil, 0)

	results, err := engine.Search(context.Background(), "hydro lock", 1)
	require.NoError(t, err)
	assert.Contains(t, results[0].Snippet, "**hydrolock** valve")
}

func TestSearchSnippetUnbrokenText(t *testing.T) {
	// No whitespace to snap to; the window keeps its hard-cut bounds.
	body := strings.Repeat("a", 500)
	index := &cannedIndex{hits: []domain.IndexHit{
		{DocumentID: "d", Title: "t", Body: body, Score: 1},
	}}
	engine := NewQueryEngine(index, nil, 0)

	results, err := engine.Search(context.Background(), "aaa", 1)
	require.NoError(t, err)

	snippet := results[0].Snippet
	assert.Contains(t, snippet, "**aaa**")
	assert.True(t, strings.HasSuffix(snippet, "…"), "snippet %q", snippet)
	assert.LessOrEqual(t, len([]rune(snippet)), DefaultSnippetWidth+270,
		"marking adds delimiters but the window stays bounded")
}

func TestSearchSnippetUnbrokenTextMidDocument(t *testing.T) {
	body := strings.Repeat("intro words here ", 20) +
		"https://example.test/" + strings.Repeat("x", 400)
	index := &cannedIndex{hits: []domain.IndexHit{
		{DocumentID: "d", Title: "t", Body: body, Score: 1},
	}}
	engine := NewQueryEngine(index, nil, 0)

	results, err := engine.Search(context.Background(), "example", 1)
	require.NoError(t, err)
	assert.Contains(t, results[0].Snippet, "**example**")
}

func TestSearchPropagatesIndexError(t *testing.T) {
	index := &cannedIndex{searchErr: domain.ErrPersistenceFailure}
	engine := NewQueryEngine(index, nil, 0)

	_, err := engine.Search(context.Background(), "foam", 5)
	assert.ErrorIs(t, err, domain.ErrPersistenceFailure)
}

func TestSearchNoHitsReturnsEmptySlice(t *testing.T) {
	engine := NewQueryEngine(&cannedIndex{}, nil, 0)

	results, err := engine.Search(context.Background(), "nothing", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchCustomAliases(t *testing.T) {
	index := &cannedIndex{}
	engine := NewQueryEngine(index, map[string]string{"acme foam": "acmefoam"}, 0)

	_, err := engine.Search(context.Background(), "ACME Foam datasheet", 5)
	require.NoError(t, err)
	assert.Equal(t, "acmefoam datasheet", index.lastQuery)
}
