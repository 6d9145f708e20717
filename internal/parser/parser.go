package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for binary formats no line source can read.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// LineSource turns a document into the text lines it contains, in order.
type LineSource interface {
	Lines(r io.Reader, filename string) ([]string, error)
}

// SourceOptions carries the settings line sources need.
type SourceOptions struct {
	Encoding          string // Character set of plain text input
	MaxLineBytes      int    // Longest accepted plain text line
	FallbackPdftotext bool   // Use pdftotext when the PDF reader fails
}

// unsupportedExtensions are binary document, archive and image formats that
// would only produce noise when read as text. Any other extension is read as
// plain text.
var unsupportedExtensions = map[string]bool{
	".doc":  true,
	".xls":  true,
	".xlsx": true,
	".ppt":  true,
	".pptx": true,
	".odt":  true,
	".rtf":  true,
	".zip":  true,
	".gz":   true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// ForFile returns the appropriate line source for a filename.
func ForFile(filename string, opts SourceOptions) (LineSource, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return &MarkdownSource{}, nil
	case ".html", ".htm":
		return &HTMLSource{}, nil
	case ".pdf":
		return &PDFSource{FallbackPdftotext: opts.FallbackPdftotext}, nil
	case ".docx":
		return &DOCXSource{}, nil
	}
	if unsupportedExtensions[ext] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return &TextSource{Encoding: opts.Encoding, MaxLineBytes: opts.MaxLineBytes}, nil
}

// IsSupportedExtension reports whether filename can be converted.
func IsSupportedExtension(filename string) bool {
	return !unsupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}
