// Package markdown converts markdown markup to plain text.
//
// The remote service answers in markdown. When plain-text rendering is
// requested, the client strips the markup by parsing the source with
// goldmark and collecting only the text content of the AST, block by
// block. This mirrors what a markdown renderer would display, minus
// all formatting.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// parse builds a goldmark instance matching what the remote service emits
// (GFM: tables, strikethrough, autolinks).
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// ToText strips markdown formatting from source, returning plain text.
// Blocks (paragraphs, headings, list items, code blocks) are separated
// by blank lines; inline formatting is dropped, keeping only content.
func ToText(source string) string {
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))

	var blocks []string
	var cur strings.Builder

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			blocks = append(blocks, s)
		}
		cur.Reset()
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				cur.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					cur.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				cur.Write(node.Value)
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					cur.Write(seg.Value(src))
				}
				flush()
				return ast.WalkSkipChildren, nil
			}
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			if !entering {
				flush()
			}
		case *ast.HTMLBlock, *ast.RawHTML:
			// Raw HTML carries no renderable text.
			if entering {
				return ast.WalkSkipChildren, nil
			}
		}
		return ast.WalkContinue, nil
	})
	flush()

	return strings.Join(blocks, "\n\n")
}
