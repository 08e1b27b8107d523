package driven

import (
	"context"

	"github.com/hctlabs/kbsync/internal/core/domain"
)

// Extractor converts a raw file blob of one format to plain text.
// Each extractor handles a closed set of MIME types and extensions.
type Extractor interface {
	// Format returns the source format this extractor produces.
	Format() domain.SourceFormat

	// MIMETypes returns the MIME types this extractor handles.
	MIMETypes() []string

	// Extensions returns lower-case file extensions (with leading dot)
	// used as a fallback when the MIME type is unknown.
	Extensions() []string

	// Extract converts raw bytes to plain text in document order.
	// Malformed content returns an error wrapping
	// domain.ErrExtractionFailure.
	Extract(ctx context.Context, data []byte) (string, error)
}

// ExtractorRegistry selects the extractor for a file. Dispatch precedence
// is explicit MIME type first, file extension second.
type ExtractorRegistry interface {
	// Lookup returns the extractor for the given MIME type and file
	// name, or domain.ErrUnsupportedFormat when neither matches.
	Lookup(mimeType, name string) (Extractor, error)

	// Formats returns the formats with at least one registered extractor.
	Formats() []domain.SourceFormat
}
