package parser

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// HTMLSource handles HTML files. Headings and text blocks each become lines;
// the page charset is detected from the BOM or <meta> tags.
type HTMLSource struct{}

func (s *HTMLSource) Lines(r io.Reader, filename string) ([]string, error) {
	cr, err := charset.NewReader(r, "")
	if err != nil {
		return nil, fmt.Errorf("detect charset: %w", err)
	}
	doc, err := html.Parse(cr)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var lines []string
	emit := func(t string) {
		lines = append(lines, strings.Split(t, "\n")...)
	}

	// Text and inline elements outside the block tags below collect into
	// pending until the enclosing container ends.
	var pending strings.Builder
	flush := func() {
		for _, line := range strings.Split(pending.String(), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		pending.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			pending.WriteString(n.Data)
			return
		case html.ElementNode:
			if headingLevel(n.Data) > 0 {
				flush()
				emit(strings.Join(strings.Fields(textContent(n)), " "))
				return
			}

			switch n.Data {
			case "head", "script", "style", "nav", "footer", "noscript", "template":
				return
			case "br":
				pending.WriteByte('\n')
				return
			case "p", "li", "td", "th", "dt", "dd", "blockquote", "pre", "caption", "figcaption":
				flush()
				emit(textContent(n))
				return
			}

			if !inlineTags[n.Data] {
				flush()
				defer flush()
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	flush()

	return lines, nil
}

var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "cite": true, "code": true, "em": true,
	"font": true, "i": true, "kbd": true, "label": true, "mark": true, "q": true,
	"s": true, "small": true, "span": true, "strong": true, "sub": true,
	"sup": true, "time": true, "u": true, "var": true,
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

// textContent concatenates the text under n; <br> becomes a line break.
func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			buf.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			buf.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}
