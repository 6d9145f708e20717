package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFSource reads the plain text of each page with ledongthuc/pdf. When that
// fails and FallbackPdftotext is set, the poppler pdftotext binary is tried.
type PDFSource struct {
	FallbackPdftotext bool
}

func (s *PDFSource) Lines(r io.Reader, filename string) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	text, err := pdfPlainText(data)
	if err != nil && s.FallbackPdftotext {
		text, err = pdftotext(data)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text from %s: %w", filename, err)
	}
	return strings.Split(text, "\n"), nil
}

// errNoPDFText is returned when no page yields any text, e.g. scanned images
// or an unsupported font encoding.
var errNoPDFText = errors.New("no extractable text")

// pdfPlainText joins page texts with newlines.
func pdfPlainText(data []byte) (string, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	return joinPages(reader.NumPage(), func(i int) (string, error) {
		page := reader.Page(i)
		if page.V.IsNull() {
			return "", nil
		}
		return page.GetPlainText(nil)
	})
}

// joinPages collects pages 1..n. A failing page is skipped; if no page
// produced text the result is errNoPDFText.
func joinPages(n int, pageText func(int) (string, error)) (string, error) {
	var pages []string
	var lastErr error
	found := false
	for i := 1; i <= n; i++ {
		text, err := pageText(i)
		if err != nil {
			lastErr = err
			continue
		}
		if strings.TrimSpace(text) != "" {
			found = true
		}
		pages = append(pages, text)
	}
	if !found {
		if lastErr != nil {
			return "", fmt.Errorf("%w: %w", errNoPDFText, lastErr)
		}
		return "", errNoPDFText
	}
	return strings.Join(pages, "\n"), nil
}

func pdftotext(data []byte) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", "-", "-")
	cmd.Stdin = bytes.NewReader(data)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	// Page breaks are plain line breaks for section parsing.
	return strings.ReplaceAll(string(out), "\f", "\n"), nil
}
