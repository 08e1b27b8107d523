package domain

// QueryResult is a single ranked search hit.
type QueryResult struct {
	// DocumentID identifies the matched document.
	DocumentID string `json:"document_id"`

	// Title is the matched document's title.
	Title string `json:"title"`

	// Score is the relevance score; higher means more relevant.
	// No fixed scale is guaranteed across queries.
	Score float64 `json:"score"`

	// Snippet is an excerpt of the body surrounding the best match,
	// with the matched region delimited by markers.
	Snippet string `json:"snippet"`
}

// IndexHit is a raw hit returned by a search index backend, before
// snippet extraction.
type IndexHit struct {
	// DocumentID is the matched document.
	DocumentID string

	// Title is the stored title.
	Title string

	// Body is the stored body text used for snippet extraction.
	Body string

	// Score is the backend's relevance score, higher is better.
	Score float64
}
