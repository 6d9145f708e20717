package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgallion1/sectree/internal/convert"
)

var (
	// successStyle for the completion line
	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	// dimStyle for field labels
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// errorStyle for the one-line failure message
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	// pathStyle for the written file
	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81"))
)

// printSuccess renders the conversion summary.
func printSuccess(w io.Writer, res convert.Result) {
	fmt.Fprintf(w, "\n%s\n%s %s\n%s %d (depth %d)\n",
		successStyle.Render("Conversion complete."),
		dimStyle.Render("JSON saved to:"), pathStyle.Render(res.OutputPath),
		dimStyle.Render("Sections:"), res.Stats.Sections, res.Stats.MaxDepth,
	)
}
