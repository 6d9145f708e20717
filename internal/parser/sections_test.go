package parser

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/dgallion1/sectree/internal/doctree"
)

func treeJSON(t *testing.T, root *doctree.SectionNode) string {
	t.Helper()
	data, err := root.ToTree().MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}

func parseLines(lines ...string) *doctree.SectionNode {
	return ParseSections(slices.Values(lines))
}

func TestParseSections_Scenarios(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "nested body dropped on parent",
			lines: []string{"1 Intro", "Hello", "1.1 Sub", "World"},
			want:  `{"1 Intro":{"1.1 Sub":"World"}}`,
		},
		{
			name:  "siblings",
			lines: []string{"1 A", "text1", "2 B", "text2"},
			want:  `{"1 A":"text1","2 B":"text2"}`,
		},
		{
			name:  "no headers",
			lines: []string{"text before headers"},
			want:  `""`,
		},
		{
			name:  "deep header at top level",
			lines: []string{"1.2.3 Deep", "body"},
			want:  `{"1.2.3 Deep":"body"}`,
		},
		{
			name:  "blank lines skipped",
			lines: []string{"", "1 A", "   ", "line one", "\t", "line two", "", "2 B"},
			want:  `{"1 A":"line one\nline two","2 B":""}`,
		},
		{
			name:  "empty input",
			lines: nil,
			want:  `""`,
		},
		{
			name:  "jump back up from depth three",
			lines: []string{"2 B", "2.1 C", "2.1.3 D", "deep", "3 E", "top"},
			want:  `{"2 B":{"2.1 C":{"2.1.3 D":"deep"}},"3 E":"top"}`,
		},
		{
			name:  "jump down two levels",
			lines: []string{"1 A", "1.1.1 X", "x"},
			want:  `{"1 A":{"1.1.1 X":"x"}}`,
		},
		{
			name:  "decreasing numbers nest by prefix only",
			lines: []string{"3 C", "1.1 X", "x"},
			want:  `{"3 C":"","1.1 X":"x"}`,
		},
		{
			name:  "prefix ancestor still on stack",
			lines: []string{"2 B", "2.1 C", "5 E", "2.1 again"},
			want:  `{"2 B":{"2.1 C":""},"5 E":"","2.1 again":""}`,
		},
		{
			name:  "1.10 is not a child of 1.1",
			lines: []string{"1 A", "1.1 B", "1.10 C"},
			want:  `{"1 A":{"1.1 B":"","1.10 C":""}}`,
		},
		{
			name:  "whitespace around lines trimmed",
			lines: []string{"   1   Title  text  ", "  body  "},
			want:  `{"1 Title  text":"body"}`,
		},
		{
			name:  "content before first header dropped",
			lines: []string{"preamble", "1 A", "a"},
			want:  `{"1 A":"a"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := treeJSON(t, parseLines(tt.lines...))
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParseSections_NestedDepthMatchesDots(t *testing.T) {
	root := parseLines("1 A", "1.1 B", "1.1.1 C", "1.1.1.1 D", "leaf")

	st := doctree.Stats(root)
	if st.MaxDepth != 4 {
		t.Errorf("expected depth 4, got %d", st.MaxDepth)
	}

	root.Walk(func(n *doctree.SectionNode, depth int) bool {
		for _, child := range n.Children {
			if n.Number != doctree.RootNumber && !IsParent(n.Number, child.Number) {
				t.Errorf("%s is not the dotted parent of %s", n.Number, child.Number)
			}
			if strings.Count(child.Number, ".") != depth {
				t.Errorf("%s sits at depth %d", child.Number, depth+1)
			}
		}
		return true
	})
}

func TestParseSections_BodyKeptOnNodeButNotSerialized(t *testing.T) {
	root := parseLines("1 Intro", "Hello", "1.1 Sub", "World")
	intro := root.Children[0]
	if intro.Body() != "Hello" {
		t.Errorf("expected body %q retained on node, got %q", "Hello", intro.Body())
	}
	if strings.Contains(treeJSON(t, root), "Hello") {
		t.Error("body of a section with children must not be serialized")
	}
}

func TestParseSections_LeafBodyExact(t *testing.T) {
	root := parseLines("7 Notes", "a", "b  b", "c")
	got := root.Children[0].ToTree()
	if !got.IsLeaf() || got.Leaf() != "a\nb  b\nc" {
		t.Errorf("expected exact newline-joined body, got %q", got.Leaf())
	}
}

func TestMatchHeader(t *testing.T) {
	tests := []struct {
		line       string
		wantOK     bool
		wantNumber string
		wantTitle  string
	}{
		{"1 Intro", true, "1", "Intro"},
		{"2.1.3 Scope of work", true, "2.1.3", "Scope of work"},
		{"1\tTabbed", true, "1", "Tabbed"},
		{"1\u00a0Intro", true, "1", "Intro"},
		{"1.2\u2003Em space", true, "1.2", "Em space"},
		{"3\u00a0\u00a0Double nbsp", true, "3", "Double nbsp"},
		{"01.2 Leading zero", true, "01.2", "Leading zero"},
		{"1.2 3 Numbers", true, "1.2", "3 Numbers"},
		{"2021 was a year", true, "2021", "was a year"},
		{"1. Intro", false, "", ""},
		{"1..2 Double dot", false, "", ""},
		{"1.2.3", false, "", ""},
		{"1.2.", false, "", ""},
		{"Intro 1", false, "", ""},
		{"1a Mixed", false, "", ""},
		{".1 Dot first", false, "", ""},
		{"", false, "", ""},
	}
	for _, tt := range tests {
		number, title, ok := MatchHeader(tt.line)
		if ok != tt.wantOK {
			t.Errorf("MatchHeader(%q): expected ok=%v, got %v", tt.line, tt.wantOK, ok)
			continue
		}
		if number != tt.wantNumber || title != tt.wantTitle {
			t.Errorf("MatchHeader(%q): expected %q/%q, got %q/%q", tt.line, tt.wantNumber, tt.wantTitle, number, title)
		}
	}
}

func TestIsParent(t *testing.T) {
	tests := []struct {
		parent, child string
		want          bool
	}{
		{"1", "1.1", true},
		{"2.1", "2.1.3", true},
		{"0", "0.1", true},
		{"1", "1", false},
		{"1", "10.1", false},
		{"1.1", "1.10", false},
		{"1.1", "1", false},
	}
	for _, tt := range tests {
		if got := IsParent(tt.parent, tt.child); got != tt.want {
			t.Errorf("IsParent(%q, %q): expected %v, got %v", tt.parent, tt.child, tt.want, got)
		}
	}
}

func TestSectionParser_Parse(t *testing.T) {
	input := "Preamble\r\n1 Intro\r\nHello\r\n\r\n1.1 Sub\rWorld\n2 Next\n   \nlast"
	root, err := NewSectionParser().Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"1 Intro":{"1.1 Sub":"World"},"2 Next":"last"}`
	if got := treeJSON(t, root); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestSectionParser_ParseStripsBOM(t *testing.T) {
	root, err := NewSectionParser().Parse(strings.NewReader("\ufeff1 Intro\nbody"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Children) != 1 || root.Children[0].Number != "1" {
		t.Fatalf("expected BOM to be stripped before header match, got %s", treeJSON(t, root))
	}
}

func TestSectionParser_ParseLegacyEncoding(t *testing.T) {
	// "1 Введение\nТекст" in windows-1251.
	input := []byte{'1', ' ', 0xC2, 0xE2, 0xE5, 0xE4, 0xE5, 0xED, 0xE8, 0xE5, '\n', 0xD2, 0xE5, 0xEA, 0xF1, 0xF2}
	p := NewSectionParser(WithEncoding("windows-1251"))
	root, err := p.Parse(strings.NewReader(string(input)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"1 Введение":"Текст"}`
	if got := treeJSON(t, root); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestSectionParser_UnknownEncoding(t *testing.T) {
	_, err := NewSectionParser(WithEncoding("no-such-charset")).Parse(strings.NewReader("1 A"))
	if err == nil {
		t.Fatal("expected error for unknown encoding")
	}
}

func TestSectionParser_LineTooLong(t *testing.T) {
	p := NewSectionParser(WithMaxLineBytes(16))
	_, err := p.Parse(strings.NewReader("1 A\n" + strings.Repeat("x", 64) + "\n"))
	if err != ErrLineTooLong {
		t.Fatalf("expected ErrLineTooLong, got %v", err)
	}
}

func TestSectionParser_ParseFileUnsupported(t *testing.T) {
	_, err := NewSectionParser().ParseFile(strings.NewReader("x"), "sheet.xlsx")
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestSectionParser_ParseFileReadsUnknownExtensionsAsText(t *testing.T) {
	for _, name := range []string{"notes.log", "settings.cfg", "data.csv", "README"} {
		root, err := NewSectionParser().ParseFile(strings.NewReader("1 Intro\r\nHello\r1.1 Sub\nWorld"), name)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		want := `{"1 Intro":{"1.1 Sub":"World"}}`
		if got := treeJSON(t, root); got != want {
			t.Errorf("%s: expected %s, got %s", name, want, got)
		}
	}
}

func TestSectionParser_ParseFileTextErrors(t *testing.T) {
	p := NewSectionParser(WithMaxLineBytes(16))
	_, err := p.ParseFile(strings.NewReader("1 A\n"+strings.Repeat("x", 64)), "doc.txt")
	if !errors.Is(err, ErrLineTooLong) {
		t.Fatalf("expected ErrLineTooLong, got %v", err)
	}

	_, err = NewSectionParser(WithEncoding("no-such-charset")).ParseFile(strings.NewReader("1 A"), "doc.log")
	if !errors.Is(err, ErrUnknownEncoding) {
		t.Fatalf("expected ErrUnknownEncoding, got %v", err)
	}
}

func TestSectionParser_ParseFileNBSPHeaders(t *testing.T) {
	root, err := NewSectionParser().ParseFile(strings.NewReader("1\u00a0Intro\nHello\n1.1\u00a0Sub\nWorld"), "doc.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"1 Intro":{"1.1 Sub":"World"}}`
	if got := treeJSON(t, root); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
