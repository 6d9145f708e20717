package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/sectree/internal/config"
	"github.com/dgallion1/sectree/internal/doctree"
	"github.com/dgallion1/sectree/internal/parser"
)

// ErrInputNotFound is returned when the input path is blank or does not name
// an existing file.
var ErrInputNotFound = errors.New("input file does not exist")

// ErrUnsupportedFormat is returned for inputs no line source can read.
var ErrUnsupportedFormat = parser.ErrUnsupportedFormat

// Result describes a completed file conversion.
type Result struct {
	InputPath  string
	OutputPath string // Absolute path of the written JSON file
	Stats      doctree.TreeStats
	Bytes      int
	Duration   time.Duration
}

// Converter turns numbered documents into JSON section trees.
type Converter struct {
	cfg config.Config
	log *slog.Logger
}

func New(cfg config.Config, log *slog.Logger) *Converter {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Converter{cfg: cfg, log: log}
}

// WithIndent returns a copy of c that indents JSON output by n spaces
// (0 for compact output).
func (c *Converter) WithIndent(n int) *Converter {
	cp := *c
	cp.cfg.IndentWidth = n
	return &cp
}

func (c *Converter) parser() *parser.SectionParser {
	return parser.NewSectionParser(
		parser.WithLogger(c.log),
		parser.WithEncoding(c.cfg.Encoding),
		parser.WithMaxLineBytes(c.cfg.MaxLineBytes),
		parser.WithPdftotextFallback(c.cfg.PDFFallbackPdftotext),
	)
}

// Convert parses the document in r and returns its JSON tree. filename picks
// the input format.
func (c *Converter) Convert(ctx context.Context, r io.Reader, filename string) ([]byte, doctree.TreeStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, doctree.TreeStats{}, err
	}

	root, err := c.parser().ParseFile(r, filename)
	if err != nil {
		return nil, doctree.TreeStats{}, err
	}
	stats := doctree.Stats(root)

	var buf bytes.Buffer
	if err := doctree.Encode(&buf, root.ToTree(), c.cfg.Indent()); err != nil {
		return nil, stats, fmt.Errorf("encode json: %w", err)
	}
	return buf.Bytes(), stats, nil
}

// ConvertFile converts inputPath and writes the JSON to outputPath. The output
// file is replaced only once the whole document has been converted; on error
// nothing is written.
func (c *Converter) ConvertFile(ctx context.Context, inputPath, outputPath string) (Result, error) {
	start := time.Now()
	log := c.log.With("input", inputPath, "output", outputPath)

	if strings.TrimSpace(inputPath) == "" {
		return Result{}, ErrInputNotFound
	}
	info, err := os.Stat(inputPath)
	if err != nil || info.IsDir() {
		return Result{}, fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
	}
	if strings.TrimSpace(outputPath) == "" {
		outputPath = c.cfg.DefaultOutput
	}
	absOut, err := filepath.Abs(outputPath)
	if err != nil {
		return Result{}, fmt.Errorf("resolve output path: %w", err)
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return Result{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	data, stats, err := c.Convert(ctx, f, filepath.Base(inputPath))
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if err := writeFileAtomic(absOut, data); err != nil {
		return Result{}, err
	}

	res := Result{
		InputPath:  inputPath,
		OutputPath: absOut,
		Stats:      stats,
		Bytes:      len(data),
		Duration:   time.Since(start),
	}
	log.Info("converted document",
		"sections", stats.Sections,
		"depth", stats.MaxDepth,
		"bytes", res.Bytes,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it into
// place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sectree-*.json")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write output: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write output: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
