package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/core/ports/driven"
)

// stubRegistry resolves everything to a single canned extractor.
type stubRegistry struct {
	extractor driven.Extractor
	err       error
}

func (r *stubRegistry) Lookup(mimeType, name string) (driven.Extractor, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.extractor, nil
}

func (r *stubRegistry) Formats() []domain.SourceFormat {
	return []domain.SourceFormat{r.extractor.Format()}
}

type stubExtractor struct {
	format domain.SourceFormat
	text   string
	err    error
}

func (e *stubExtractor) Format() domain.SourceFormat { return e.format }
func (e *stubExtractor) MIMETypes() []string         { return nil }
func (e *stubExtractor) Extensions() []string        { return nil }

func (e *stubExtractor) Extract(_ context.Context, _ []byte) (string, error) {
	return e.text, e.err
}

func textRegistry(text string) *stubRegistry {
	return &stubRegistry{extractor: &stubExtractor{format: domain.FormatPlainText, text: text}}
}

func pdfFile() domain.RemoteFile {
	return domain.RemoteFile{
		ID:           "doc-1",
		Name:         "f500_msds.pdf",
		MIMEType:     "application/pdf",
		ModifiedTime: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNormalizeBasicDocument(t *testing.T) {
	n := NewNormalizer(textRegistry("F-500 Encapsulator Agent safety data."), 0)

	doc, err := n.Normalize(context.Background(), pdfFile(), []byte("raw"))
	require.NoError(t, err)

	assert.Equal(t, "doc-1", doc.ID)
	assert.Equal(t, "f500 msds", doc.Title)
	assert.Equal(t, "F-500 Encapsulator Agent safety data.", doc.Body)
	assert.Equal(t, domain.FormatPlainText, doc.Format)
	assert.Equal(t, 5, doc.WordCount)
	assert.False(t, doc.ExtractedAt.IsZero())
}

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	n := NewNormalizer(textRegistry("line  one\t\r\n\n\n\n\nline two   \n"), 0)

	doc, err := n.Normalize(context.Background(), pdfFile(), nil)
	require.NoError(t, err)

	assert.Equal(t, "line one\n\nline two", doc.Body)
}

func TestNormalizeStripsInvalidUTF8(t *testing.T) {
	n := NewNormalizer(textRegistry("ok \xff\xfe bytes"), 0)

	doc, err := n.Normalize(context.Background(), pdfFile(), nil)
	require.NoError(t, err)

	assert.True(t, strings.Contains(doc.Body, "ok"))
	assert.NotContains(t, doc.Body, "\xff")
}

func TestNormalizeTruncatesLongBody(t *testing.T) {
	long := strings.Repeat("word ", 100)
	n := NewNormalizer(textRegistry(long), 50)

	doc, err := n.Normalize(context.Background(), pdfFile(), nil)
	require.NoError(t, err)

	assert.LessOrEqual(t, len([]rune(doc.Body)), 50+len([]rune(TruncationMarker)))
	assert.True(t, strings.HasSuffix(doc.Body, TruncationMarker))
}

func TestNormalizeUnsupportedFormat(t *testing.T) {
	reg := &stubRegistry{err: domain.ErrUnsupportedFormat}
	n := NewNormalizer(reg, 0)

	_, err := n.Normalize(context.Background(), pdfFile(), nil)

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestNormalizeExtractionFailure(t *testing.T) {
	reg := &stubRegistry{extractor: &stubExtractor{
		format: domain.FormatPDF,
		err:    domain.ErrExtractionFailure,
	}}
	n := NewNormalizer(reg, 0)

	_, err := n.Normalize(context.Background(), pdfFile(), nil)

	assert.ErrorIs(t, err, domain.ErrExtractionFailure)
}

func TestNormalizeWrapsUnknownExtractError(t *testing.T) {
	boom := errors.New("parser blew up")
	reg := &stubRegistry{extractor: &stubExtractor{format: domain.FormatPDF, err: boom}}
	n := NewNormalizer(reg, 0)

	_, err := n.Normalize(context.Background(), pdfFile(), nil)

	assert.ErrorIs(t, err, boom)
}

func TestTitleFromName(t *testing.T) {
	cases := []struct {
		name  string
		title string
	}{
		{"f500_msds.pdf", "f500 msds"},
		{"hydro-lock-manual.docx", "hydro lock manual"},
		{"README", "README"},
		{"dust_wash/guide_v2.txt", "guide v2"},
	}
	for _, tc := range cases {
		n := NewNormalizer(textRegistry("body"), 0)
		f := pdfFile()
		f.Name = tc.name
		doc, err := n.Normalize(context.Background(), f, nil)
		require.NoError(t, err)
		assert.Equal(t, tc.title, doc.Title, tc.name)
	}
}
