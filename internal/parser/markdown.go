package parser

import (
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownSource handles Markdown files using goldmark. Heading markers are
// dropped, so "## 1.2 Scope" yields the line "1.2 Scope".
type MarkdownSource struct{}

func (s *MarkdownSource) Lines(r io.Reader, filename string) ([]string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))
	return collectMarkdownLines(doc, src, nil), nil
}

// collectMarkdownLines appends the source lines of every leaf block under n.
// Container blocks (lists, quotes) contribute through their children.
func collectMarkdownLines(n ast.Node, src []byte, out []string) []string {
	switch n.Kind() {
	case ast.KindHTMLBlock, ast.KindThematicBreak:
		return out
	}

	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out = append(out, strings.TrimRight(string(seg.Value(src)), "\r\n"))
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() == ast.TypeBlock {
			out = collectMarkdownLines(c, src, out)
		}
	}
	return out
}
