package services

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/core/ports/driven"
)

// DefaultMaxExtractChars caps extracted text to bound index growth from
// pathological inputs.
const DefaultMaxExtractChars = 1_000_000

// TruncationMarker is appended to capped body text.
const TruncationMarker = "… [truncated]"

// Normalizer turns a raw remote file into a normalised Document:
// extractor dispatch, UTF-8 enforcement, whitespace collapsing and an
// output cap. Same bytes and format always yield the same body text.
type Normalizer struct {
	registry driven.ExtractorRegistry
	maxChars int
	now      func() time.Time
}

// NewNormalizer creates a normaliser over the given extractor registry.
// maxChars <= 0 selects DefaultMaxExtractChars.
func NewNormalizer(registry driven.ExtractorRegistry, maxChars int) *Normalizer {
	if maxChars <= 0 {
		maxChars = DefaultMaxExtractChars
	}
	return &Normalizer{
		registry: registry,
		maxChars: maxChars,
		now:      time.Now,
	}
}

// Normalize extracts and normalises text for one remote file.
// Unsupported formats fail with domain.ErrUnsupportedFormat, malformed
// content with domain.ErrExtractionFailure; both are per-document.
func (n *Normalizer) Normalize(ctx context.Context, file domain.RemoteFile, raw []byte) (domain.Document, error) {
	extractor, err := n.registry.Lookup(file.MIMEType, file.Name)
	if err != nil {
		return domain.Document{}, err
	}

	text, err := extractor.Extract(ctx, raw)
	if err != nil {
		return domain.Document{}, fmt.Errorf("extract %s: %w", file.Name, err)
	}

	body := normalizeText(text)
	if truncated := truncate(body, n.maxChars); truncated != body {
		body = truncated + TruncationMarker
	}

	return domain.Document{
		ID:          file.ID,
		Title:       titleFromName(file.Name),
		Body:        body,
		Format:      extractor.Format(),
		ExtractedAt: n.now(),
		WordCount:   len(strings.Fields(body)),
	}, nil
}

var (
	blankRuns   = regexp.MustCompile(`[ \t\r]+`)
	newlineRuns = regexp.MustCompile(`\n{3,}`)
)

// normalizeText forces valid UTF-8 and collapses whitespace.
// Undecodable byte sequences are replaced, never fatal.
func normalizeText(s string) string {
	s = strings.ToValidUTF8(s, "�")
	s = blankRuns.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	s = strings.Join(lines, "\n")

	s = newlineRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// truncate caps s at max runes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// titleFromName derives a readable title from a file name.
func titleFromName(name string) string {
	base := filepath.Base(name)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return strings.TrimSpace(base)
}
