package parser

import (
	"errors"
	"testing"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"notes.txt", "*parser.TextSource"},
		{"README", "*parser.TextSource"},
		{"service.log", "*parser.TextSource"},
		{"settings.cfg", "*parser.TextSource"},
		{"data.csv", "*parser.TextSource"},
		{"notes.MD", "*parser.MarkdownSource"},
		{"notes.markdown", "*parser.MarkdownSource"},
		{"page.htm", "*parser.HTMLSource"},
		{"report.pdf", "*parser.PDFSource"},
		{"contract.docx", "*parser.DOCXSource"},
	}
	for _, tt := range tests {
		src, err := ForFile(tt.filename, SourceOptions{})
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.filename, err)
			continue
		}
		if got := typeName(src); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.filename, tt.want, got)
		}
		if !IsSupportedExtension(tt.filename) {
			t.Errorf("%s: expected supported extension", tt.filename)
		}
	}
}

func TestForFile_Unsupported(t *testing.T) {
	for _, name := range []string{"sheet.xlsx", "old.DOC", "scan.png"} {
		_, err := ForFile(name, SourceOptions{})
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: expected ErrUnsupportedFormat, got %v", name, err)
		}
		if IsSupportedExtension(name) {
			t.Errorf("%s should not be supported", name)
		}
	}
}

func TestForFile_PassesOptions(t *testing.T) {
	src, err := ForFile("a.txt", SourceOptions{Encoding: "koi8-r", MaxLineBytes: 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ts := src.(*TextSource)
	if ts.Encoding != "koi8-r" || ts.MaxLineBytes != 42 {
		t.Errorf("options not passed through: %+v", ts)
	}

	src, _ = ForFile("a.pdf", SourceOptions{FallbackPdftotext: true})
	if !src.(*PDFSource).FallbackPdftotext {
		t.Error("expected pdftotext fallback enabled")
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *TextSource:
		return "*parser.TextSource"
	case *MarkdownSource:
		return "*parser.MarkdownSource"
	case *HTMLSource:
		return "*parser.HTMLSource"
	case *PDFSource:
		return "*parser.PDFSource"
	case *DOCXSource:
		return "*parser.DOCXSource"
	}
	return "unknown"
}
