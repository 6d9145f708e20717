package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/sectree/internal/config"
	"github.com/dgallion1/sectree/internal/version"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	indent   int
	encoding string
	noPrompt bool
}

func newRootCmd(cfg config.Config) *cobra.Command {
	opts := &rootOptions{
		indent:   cfg.IndentWidth,
		encoding: cfg.Encoding,
	}

	cmd := &cobra.Command{
		Use:   "sectree [input] [output]",
		Short: "Convert numbered-section documents to nested JSON",
		Long: `sectree reads a document whose sections are numbered like "1", "1.2",
"1.2.3" and writes the section hierarchy as nested JSON. Section titles become
keys; leaf sections map to their body text.

Plain text, Markdown, HTML, PDF and DOCX inputs are supported. Missing paths
are prompted for interactively unless --no-prompt is given.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, cfg, opts, args)
		},
	}

	cmd.Version = version.Version
	cmd.SetVersionTemplate(fmt.Sprintf("sectree %s\n", version.String()))

	cmd.Flags().IntVar(&opts.indent, "indent", opts.indent, "JSON indentation width in spaces (0 = compact)")
	cmd.Flags().StringVar(&opts.encoding, "encoding", opts.encoding, "Text encoding of plain-text input (e.g. utf-8, windows-1251)")
	cmd.Flags().BoolVar(&opts.noPrompt, "no-prompt", false, "Fail instead of prompting when paths are missing")

	cmd.AddCommand(newServeCmd(cfg))
	return cmd
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(config.Load())
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		stop()
		os.Exit(1)
	}
}

func formatError(err error) string {
	return errorStyle.Render("Error: " + err.Error())
}

// newLogger builds a text logger for interactive use. Only warnings and
// errors are shown unless SECTREE_LOG_LEVEL says otherwise.
func newLogger(w io.Writer, level string) *slog.Logger {
	lvl, _ := config.ParseLevel(level, slog.LevelWarn)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
