package extractors

import (
	"github.com/hctlabs/kbsync/internal/extractors/docx"
	"github.com/hctlabs/kbsync/internal/extractors/html"
	"github.com/hctlabs/kbsync/internal/extractors/markdown"
	"github.com/hctlabs/kbsync/internal/extractors/ocr"
	"github.com/hctlabs/kbsync/internal/extractors/pdf"
	"github.com/hctlabs/kbsync/internal/extractors/plaintext"
	"github.com/hctlabs/kbsync/internal/extractors/pptx"
	"github.com/hctlabs/kbsync/internal/extractors/tabular"
	"github.com/hctlabs/kbsync/internal/extractors/xlsx"
)

// DefaultRegistry returns a registry with every supported format wired.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(docx.New())
	r.Register(pptx.New())
	r.Register(xlsx.New())
	r.Register(tabular.NewCSV())
	r.Register(tabular.NewTSV())
	r.Register(pdf.New())
	r.Register(ocr.New())
	return r
}
