// Package plaintext extracts text from plain text documents.
package plaintext

import (
	"context"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Format returns the source format this extractor produces.
func (e *Extractor) Format() domain.SourceFormat {
	return domain.FormatPlainText
}

// MIMETypes returns the MIME types this extractor handles.
func (e *Extractor) MIMETypes() []string {
	return []string{
		"text/plain",
		"text/x-log",
		"application/json",
		"application/xml",
		"text/xml",
		"text/yaml",
		"application/x-yaml",
	}
}

// Extensions returns the file extension fallbacks.
func (e *Extractor) Extensions() []string {
	return []string{".txt", ".text", ".log", ".json", ".xml", ".yaml", ".yml"}
}

// Extract returns the raw bytes as text. Encoding enforcement and
// whitespace normalisation happen in the normaliser.
func (e *Extractor) Extract(_ context.Context, data []byte) (string, error) {
	return string(data), nil
}
