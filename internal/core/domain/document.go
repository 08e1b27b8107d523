package domain

import "time"

// SourceFormat identifies the original format of an ingested document.
type SourceFormat string

// Supported source formats. Adding a format means adding a constant here,
// one extractor variant, and one registry table entry.
const (
	FormatPDF       SourceFormat = "pdf"
	FormatDOCX      SourceFormat = "docx"
	FormatPPTX      SourceFormat = "pptx"
	FormatXLSX      SourceFormat = "xlsx"
	FormatCSV       SourceFormat = "csv"
	FormatTSV       SourceFormat = "tsv"
	FormatPlainText SourceFormat = "text"
	FormatMarkdown  SourceFormat = "markdown"
	FormatHTML      SourceFormat = "html"
	FormatImage     SourceFormat = "image"
)

// Document is a normalised extraction result. It is created by the
// normaliser and owned by the index once indexed. A changed remote file
// produces a new Document with the same ID that replaces the prior
// index entry; Documents are superseded, never mutated.
type Document struct {
	// ID equals the RemoteFile ID that produced this document.
	ID string

	// Title is the human-readable title, derived from the file name.
	Title string

	// Body is the extractor-normalised UTF-8 plain text.
	Body string

	// Format is the source format the body was extracted from.
	Format SourceFormat

	// ExtractedAt is when extraction completed.
	ExtractedAt time.Time

	// WordCount is the number of whitespace-separated tokens in Body.
	WordCount int
}
