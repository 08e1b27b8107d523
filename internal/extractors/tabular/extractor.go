// Package tabular extracts text from delimiter-separated files.
// One extractor variant each for CSV and TSV; rows become text lines
// with cells joined by a tab.
package tabular

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles one delimiter-separated format.
type Extractor struct {
	format domain.SourceFormat
	comma  rune
	mimes  []string
	exts   []string
}

// NewCSV creates a comma-separated values extractor.
func NewCSV() *Extractor {
	return &Extractor{
		format: domain.FormatCSV,
		comma:  ',',
		mimes:  []string{"text/csv", "application/csv"},
		exts:   []string{".csv"},
	}
}

// NewTSV creates a tab-separated values extractor.
func NewTSV() *Extractor {
	return &Extractor{
		format: domain.FormatTSV,
		comma:  '\t',
		mimes:  []string{"text/tab-separated-values"},
		exts:   []string{".tsv", ".tab"},
	}
}

// Format returns the source format this extractor produces.
func (e *Extractor) Format() domain.SourceFormat {
	return e.format
}

// MIMETypes returns the MIME types this extractor handles.
func (e *Extractor) MIMETypes() []string {
	return e.mimes
}

// Extensions returns the file extension fallbacks.
func (e *Extractor) Extensions() []string {
	return e.exts
}

// Extract renders each record as a line of tab-joined cells.
// Records with inconsistent field counts are tolerated.
func (e *Extractor) Extract(_ context.Context, data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = e.comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var lines []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: parse %s: %w", domain.ErrExtractionFailure, e.format, err)
		}

		line := strings.TrimSpace(strings.Join(record, "\t"))
		if line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n"), nil
}
