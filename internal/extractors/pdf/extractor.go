// Package pdf extracts text from PDF documents by shelling out to
// pdftotext (poppler-utils). The CommandRunner seam keeps the external
// dependency out of tests.
package pdf

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes the command and returns its stdout.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor handles PDF documents.
type Extractor struct {
	runner driven.CommandRunner
}

// New creates a PDF extractor backed by the pdftotext binary.
func New() *Extractor {
	return &Extractor{runner: ExecRunner{}}
}

// NewWithRunner creates a PDF extractor with a custom command runner.
func NewWithRunner(runner driven.CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// Format returns the source format this extractor produces.
func (e *Extractor) Format() domain.SourceFormat {
	return domain.FormatPDF
}

// MIMETypes returns the MIME types this extractor handles.
func (e *Extractor) MIMETypes() []string {
	return []string{"application/pdf"}
}

// Extensions returns the file extension fallbacks.
func (e *Extractor) Extensions() []string {
	return []string{".pdf"}
}

// Extract writes the PDF to a temp file and converts it with
// "pdftotext <file> -". Page breaks (form feeds) become paragraph breaks.
func (e *Extractor) Extract(ctx context.Context, data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "kbsync-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	out, err := e.runner.Run(ctx, "pdftotext", "-enc", "UTF-8", tmp.Name(), "-")
	if err != nil {
		return "", fmt.Errorf("%w: pdftotext: %w", domain.ErrExtractionFailure, err)
	}

	text := strings.ReplaceAll(string(out), "\f", "\n\n")
	return strings.TrimSpace(text), nil
}
