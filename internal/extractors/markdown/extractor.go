// Package markdown extracts plain text from Markdown documents by
// walking the goldmark AST, so formatting syntax never leaks into the
// indexed text.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles Markdown documents.
type Extractor struct {
	md goldmark.Markdown
}

// New creates a new Markdown extractor.
func New() *Extractor {
	return &Extractor{md: goldmark.New()}
}

// Format returns the source format this extractor produces.
func (e *Extractor) Format() domain.SourceFormat {
	return domain.FormatMarkdown
}

// MIMETypes returns the MIME types this extractor handles.
func (e *Extractor) MIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Extensions returns the file extension fallbacks.
func (e *Extractor) Extensions() []string {
	return []string{".md", ".markdown", ".mdown"}
}

var mdMultiNewlines = regexp.MustCompile(`\n{3,}`)

// Extract parses the markdown and returns the text content of every
// block in document order. Headings, list items and paragraphs become
// separate lines; code blocks keep their literal lines.
func (e *Extractor) Extract(_ context.Context, data []byte) (string, error) {
	root := e.md.Parser().Parse(text.NewReader(data))

	var b strings.Builder
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				b.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}

		switch v := n.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(data))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteString("\n")
			}
		case *ast.FencedCodeBlock:
			writeCodeLines(&b, data, v)
		case *ast.CodeBlock:
			writeCodeLines(&b, data, v)
		case *ast.AutoLink:
			b.Write(v.URL(data))
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}

	out := mdMultiNewlines.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(out), nil
}

// writeCodeLines appends the literal lines of a code block.
func writeCodeLines(b *strings.Builder, src []byte, n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
}
