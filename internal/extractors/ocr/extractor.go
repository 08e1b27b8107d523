// Package ocr extracts text from images by shelling out to tesseract.
// Recognition yielding no text is not an error: the document is still
// indexed by title.
package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/core/ports/driven"
	"github.com/hctlabs/kbsync/internal/extractors/pdf"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles image documents via optical character recognition.
type Extractor struct {
	runner driven.CommandRunner
}

// New creates an OCR extractor backed by the tesseract binary.
func New() *Extractor {
	return &Extractor{runner: pdf.ExecRunner{}}
}

// NewWithRunner creates an OCR extractor with a custom command runner.
func NewWithRunner(runner driven.CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// Format returns the source format this extractor produces.
func (e *Extractor) Format() domain.SourceFormat {
	return domain.FormatImage
}

// MIMETypes returns the MIME types this extractor handles.
func (e *Extractor) MIMETypes() []string {
	return []string{"image/png", "image/jpeg"}
}

// Extensions returns the file extension fallbacks.
func (e *Extractor) Extensions() []string {
	return []string{".png", ".jpg", ".jpeg"}
}

// Extract writes the image to a temp file and recognises it with
// "tesseract <file> stdout". An empty result is returned as-is.
func (e *Extractor) Extract(ctx context.Context, data []byte) (string, error) {
	dir, err := os.MkdirTemp("", "kbsync-ocr-")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "image")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}

	out, err := e.runner.Run(ctx, "tesseract", path, "stdout")
	if err != nil {
		return "", fmt.Errorf("%w: tesseract: %w", domain.ErrExtractionFailure, err)
	}

	return strings.TrimSpace(string(out)), nil
}
