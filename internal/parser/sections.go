package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/dgallion1/sectree/internal/doctree"
)

// headerPattern matches a numbered section header such as "2.1.3 Scope".
// The separator also accepts Unicode space separators such as NBSP, which
// DOCX and HTML exports often put after the number.
var headerPattern = regexp.MustCompile(`^(\d+(?:\.\d+)*)([\s\p{Zs}]+.+)$`)

// DefaultMaxLineBytes bounds a single input line.
const DefaultMaxLineBytes = 1024 * 1024

// ErrLineTooLong is returned when an input line exceeds the configured limit.
var ErrLineTooLong = errors.New("input line too long")

// MatchHeader reports whether line is a section header and splits it into its
// number and title text. The line is expected to be trimmed already.
func MatchHeader(line string) (number, title string, ok bool) {
	m := headerPattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}

// IsParent reports whether parent is a dotted prefix of child, e.g. "2.1" of "2.1.3".
func IsParent(parent, child string) bool {
	return strings.HasPrefix(child, parent+".")
}

// ParseSections builds the section tree for lines in a single pass and returns
// its synthetic root.
func ParseSections(lines iter.Seq[string]) *doctree.SectionNode {
	root, _ := parseSections(lines)
	return root
}

type stackEntry struct {
	number string
	node   *doctree.SectionNode
}

// parseSections also reports how many content lines came before the first
// header and were dropped.
func parseSections(lines iter.Seq[string]) (*doctree.SectionNode, int) {
	root := doctree.NewRoot()
	stack := []stackEntry{{number: doctree.RootNumber, node: root}}

	var current *doctree.SectionNode
	discarded := 0

	for line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		number, title, ok := MatchHeader(line)
		if !ok {
			if current == nil {
				discarded++
				continue
			}
			current.AppendLine(line)
			continue
		}

		newNode := doctree.New(number, number+" "+title)

		// Unwind to the nearest ancestor whose number prefixes this one.
		// The root never pops and accepts any number.
		for len(stack) > 1 && !IsParent(stack[len(stack)-1].number, number) {
			stack = stack[:len(stack)-1]
		}

		stack[len(stack)-1].node.AddChild(newNode)
		stack = append(stack, stackEntry{number: number, node: newNode})
		current = newNode
	}

	return root, discarded
}

// SectionParser reads numbered plain text and documents in the supported
// formats into section trees.
type SectionParser struct {
	log               *slog.Logger
	encoding          string
	maxLineBytes      int
	fallbackPdftotext bool
}

// Option configures a SectionParser.
type Option func(*SectionParser)

func WithLogger(log *slog.Logger) Option {
	return func(p *SectionParser) { p.log = log }
}

// WithEncoding sets the character set of text input (e.g. "windows-1251").
// A byte-order mark in the input still takes precedence.
func WithEncoding(name string) Option {
	return func(p *SectionParser) { p.encoding = name }
}

func WithMaxLineBytes(n int) Option {
	return func(p *SectionParser) {
		if n > 0 {
			p.maxLineBytes = n
		}
	}
}

// WithPdftotextFallback enables shelling out to pdftotext when the built-in
// PDF reader fails.
func WithPdftotextFallback(enabled bool) Option {
	return func(p *SectionParser) { p.fallbackPdftotext = enabled }
}

func NewSectionParser(opts ...Option) *SectionParser {
	p := &SectionParser{
		log:          slog.New(slog.DiscardHandler),
		encoding:     "utf-8",
		maxLineBytes: DefaultMaxLineBytes,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse streams plain text from r into a section tree.
func (p *SectionParser) Parse(r io.Reader) (*doctree.SectionNode, error) {
	dr, err := decodeReader(r, p.encoding)
	if err != nil {
		return nil, err
	}

	sc := newLineScanner(dr, p.maxLineBytes)
	root := p.ParseLines(scanLines(sc))
	if err := scanErr(sc); err != nil {
		return nil, err
	}
	return root, nil
}

// ParseFile picks a line source from the filename extension and parses the
// document read from r.
func (p *SectionParser) ParseFile(r io.Reader, filename string) (*doctree.SectionNode, error) {
	src, err := ForFile(filename, p.sourceOptions())
	if err != nil {
		return nil, err
	}
	if _, ok := src.(*TextSource); ok {
		root, err := p.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filename, err)
		}
		return root, nil
	}
	lines, err := src.Lines(r, filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return p.ParseLines(slices.Values(lines)), nil
}

// ParseLines is ParseSections with debug logging.
func (p *SectionParser) ParseLines(lines iter.Seq[string]) *doctree.SectionNode {
	root, discarded := parseSections(lines)
	if discarded > 0 {
		p.log.Debug("dropped content before first header", "lines", discarded)
	}
	p.log.Debug("parsed sections", "top_level", len(root.Children))
	return root
}

func (p *SectionParser) sourceOptions() SourceOptions {
	return SourceOptions{
		Encoding:          p.encoding,
		MaxLineBytes:      p.maxLineBytes,
		FallbackPdftotext: p.fallbackPdftotext,
	}
}

func newLineScanner(r io.Reader, maxLineBytes int) *bufio.Scanner {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(64*1024, maxLineBytes)), maxLineBytes)
	sc.Split(scanAnyNewline)
	return sc
}

func scanLines(sc *bufio.Scanner) iter.Seq[string] {
	return func(yield func(string) bool) {
		for sc.Scan() {
			if !yield(sc.Text()) {
				return
			}
		}
	}
}

func scanErr(sc *bufio.Scanner) error {
	err := sc.Err()
	if errors.Is(err, bufio.ErrTooLong) {
		return ErrLineTooLong
	}
	return err
}

// scanAnyNewline splits on "\n", "\r\n" and a lone "\r".
func scanAnyNewline(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	for i, b := range data {
		switch b {
		case '\n':
			return i + 1, data[:i], nil
		case '\r':
			if i+1 < len(data) {
				if data[i+1] == '\n' {
					return i + 2, data[:i], nil
				}
				return i + 1, data[:i], nil
			}
			if atEOF {
				return i + 1, data[:i], nil
			}
			// Need the next byte to tell "\r" from "\r\n".
			return 0, nil, nil
		}
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
