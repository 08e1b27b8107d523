package extractors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/core/ports/driven"
)

// stubExtractor is a minimal Extractor for dispatch tests.
type stubExtractor struct {
	format domain.SourceFormat
	mimes  []string
	exts   []string
}

func (s *stubExtractor) Format() domain.SourceFormat { return s.format }
func (s *stubExtractor) MIMETypes() []string         { return s.mimes }
func (s *stubExtractor) Extensions() []string        { return s.exts }
func (s *stubExtractor) Extract(_ context.Context, data []byte) (string, error) {
	return string(data), nil
}

var _ driven.Extractor = (*stubExtractor)(nil)

func TestLookup_MIMETypeFirst(t *testing.T) {
	byMIME := &stubExtractor{format: domain.FormatPDF, mimes: []string{"application/pdf"}}
	byExt := &stubExtractor{format: domain.FormatPlainText, exts: []string{".pdf"}}

	r := NewRegistry()
	r.Register(byExt)
	r.Register(byMIME)

	// MIME mapping wins over the extension mapping.
	got, err := r.Lookup("application/pdf", "report.pdf")
	require.NoError(t, err)
	assert.Same(t, driven.Extractor(byMIME), got)
}

func TestLookup_ExtensionFallback(t *testing.T) {
	e := &stubExtractor{format: domain.FormatMarkdown, exts: []string{".md"}}

	r := NewRegistry()
	r.Register(e)

	got, err := r.Lookup("application/octet-stream", "README.md")
	require.NoError(t, err)
	assert.Same(t, driven.Extractor(e), got)
}

func TestLookup_MIMEParametersIgnored(t *testing.T) {
	e := &stubExtractor{format: domain.FormatPlainText, mimes: []string{"text/plain"}}

	r := NewRegistry()
	r.Register(e)

	got, err := r.Lookup("text/plain; charset=utf-8", "notes.txt")
	require.NoError(t, err)
	assert.Same(t, driven.Extractor(e), got)
}

func TestLookup_CaseInsensitive(t *testing.T) {
	e := &stubExtractor{format: domain.FormatHTML, mimes: []string{"text/html"}, exts: []string{".html"}}

	r := NewRegistry()
	r.Register(e)

	_, err := r.Lookup("Text/HTML", "page")
	assert.NoError(t, err)

	_, err = r.Lookup("", "INDEX.HTML")
	assert.NoError(t, err)
}

func TestLookup_Unsupported(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{format: domain.FormatPlainText, mimes: []string{"text/plain"}})

	_, err := r.Lookup("application/x-msdownload", "setup.exe")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestDefaultRegistry_CoversFormats(t *testing.T) {
	r := DefaultRegistry()

	formats := r.Formats()
	for _, want := range []domain.SourceFormat{
		domain.FormatPDF, domain.FormatDOCX, domain.FormatPPTX,
		domain.FormatXLSX, domain.FormatCSV, domain.FormatTSV,
		domain.FormatPlainText, domain.FormatMarkdown, domain.FormatHTML,
		domain.FormatImage,
	} {
		assert.Contains(t, formats, want)
	}

	// Spot-check a few dispatches.
	cases := []struct {
		mime, name string
		format     domain.SourceFormat
	}{
		{"application/pdf", "spec.pdf", domain.FormatPDF},
		{"", "deck.pptx", domain.FormatPPTX},
		{"", "table.tsv", domain.FormatTSV},
		{"image/png", "scan.png", domain.FormatImage},
	}
	for _, tc := range cases {
		e, err := r.Lookup(tc.mime, tc.name)
		require.NoError(t, err, "%s %s", tc.mime, tc.name)
		assert.Equal(t, tc.format, e.Format())
	}
}
