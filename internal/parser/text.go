package parser

import "io"

// TextSource handles plain text files.
type TextSource struct {
	Encoding     string
	MaxLineBytes int
}

func (s *TextSource) Lines(r io.Reader, filename string) ([]string, error) {
	dr, err := decodeReader(r, s.Encoding)
	if err != nil {
		return nil, err
	}

	sc := newLineScanner(dr, s.MaxLineBytes)
	var lines []string
	for line := range scanLines(sc) {
		lines = append(lines, line)
	}
	if err := scanErr(sc); err != nil {
		return nil, err
	}
	return lines, nil
}
