package extractors

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps MIME types and file extensions to extractors.
// Dispatch precedence: explicit MIME type first, extension fallback
// second. Registration happens at startup; lookups are read-only.
type Registry struct {
	byMIME map[string]driven.Extractor
	byExt  map[string]driven.Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byMIME: make(map[string]driven.Extractor),
		byExt:  make(map[string]driven.Extractor),
	}
}

// Register adds an extractor under all its MIME types and extensions.
// A later registration for the same MIME type or extension wins.
func (r *Registry) Register(e driven.Extractor) {
	for _, mt := range e.MIMETypes() {
		r.byMIME[strings.ToLower(mt)] = e
	}
	for _, ext := range e.Extensions() {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// Lookup returns the extractor for the given MIME type and file name.
// MIME parameters ("text/plain; charset=utf-8") are ignored.
func (r *Registry) Lookup(mimeType, name string) (driven.Extractor, error) {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}

	if e, ok := r.byMIME[mt]; ok {
		return e, nil
	}

	ext := strings.ToLower(filepath.Ext(name))
	if e, ok := r.byExt[ext]; ok {
		return e, nil
	}

	return nil, fmt.Errorf("%w: mime %q, name %q", domain.ErrUnsupportedFormat, mimeType, name)
}

// Formats returns the distinct formats with a registered extractor,
// sorted for stable output.
func (r *Registry) Formats() []domain.SourceFormat {
	seen := make(map[domain.SourceFormat]bool)
	for _, e := range r.byMIME {
		seen[e.Format()] = true
	}
	for _, e := range r.byExt {
		seen[e.Format()] = true
	}

	formats := make([]domain.SourceFormat, 0, len(seen))
	for f := range seen {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
