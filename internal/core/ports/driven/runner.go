package driven

import "context"

// CommandRunner executes an external command and returns its stdout.
// Extractors that shell out to conversion tools (pdftotext, tesseract)
// take one so tests can substitute a double.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
