package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/sectree/internal/config"
	"github.com/dgallion1/sectree/internal/convert"
	"github.com/spf13/cobra"
)

func runConvert(cmd *cobra.Command, cfg config.Config, opts *rootOptions, args []string) error {
	if opts.indent < 0 || opts.indent > 8 {
		return fmt.Errorf("--indent must be between 0 and 8, got %d", opts.indent)
	}
	cfg.IndentWidth = opts.indent
	cfg.Encoding = opts.encoding
	if err := cfg.Validate(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	in := bufio.NewReader(cmd.InOrStdin())

	inputPath, err := resolveInput(args, in, out, opts.noPrompt)
	if err != nil {
		return err
	}
	outputPath, err := resolveOutput(args, in, out, opts.noPrompt, cfg.DefaultOutput)
	if err != nil {
		return err
	}

	log := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	res, err := convert.New(cfg, log).ConvertFile(cmd.Context(), inputPath, outputPath)
	if err != nil {
		return err
	}

	printSuccess(out, res)
	return nil
}

// resolveInput returns the input path from args or the prompt. The path is
// checked before the output prompt is shown.
func resolveInput(args []string, in *bufio.Reader, out io.Writer, noPrompt bool) (string, error) {
	var path string
	switch {
	case len(args) >= 1:
		path = args[0]
	case noPrompt:
		return "", fmt.Errorf("%w: no input path given", convert.ErrInputNotFound)
	default:
		var err error
		if path, err = prompt(in, out, "Input file path:"); err != nil {
			return "", err
		}
	}

	if strings.TrimSpace(path) == "" {
		return "", convert.ErrInputNotFound
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", convert.ErrInputNotFound, path)
	}
	return path, nil
}

func resolveOutput(args []string, in *bufio.Reader, out io.Writer, noPrompt bool, fallback string) (string, error) {
	if len(args) >= 2 {
		return args[1], nil
	}
	if noPrompt {
		return fallback, nil
	}
	path, err := prompt(in, out, fmt.Sprintf("Output JSON path (default: %s):", fallback))
	if err != nil {
		return "", err
	}
	if path == "" {
		return fallback, nil
	}
	return path, nil
}

// prompt writes message and reads one trimmed line. EOF counts as an empty
// answer.
func prompt(in *bufio.Reader, out io.Writer, message string) (string, error) {
	fmt.Fprint(out, message+" ")
	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
