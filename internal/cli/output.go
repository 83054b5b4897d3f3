package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tsawler/sectioner"
	"github.com/tsawler/sectioner/layout"
	"github.com/tsawler/sectioner/model"
)

var (
	// titleStyle for file names
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for success indicators
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// warnStyle for warnings
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	// errorStyle for error indicators
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	// headerRowStyle for the line table header
	headerRowStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)
)

// printWarnings writes the warnings for one file
func printWarnings(w io.Writer, file string, warnings []sectioner.Warning) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "%s %s %s\n",
			warnStyle.Render("warning:"),
			dimStyle.Render(file+":"),
			warning.String())
	}
}

// printSummary writes a one line result summary for doc
func printSummary(w io.Writer, doc *model.Document) {
	var counts string
	if doc.Mode.IsHeaderBased() {
		counts = fmt.Sprintf("%d sections", doc.SectionCount())
	} else {
		counts = fmt.Sprintf("%d paragraphs", doc.ParagraphCount())
	}
	fmt.Fprintf(w, "%s %s %s %s\n",
		successStyle.Render("✓"),
		titleStyle.Render(doc.Path),
		counts,
		dimStyle.Render("("+doc.Mode.String()+")"))
}

// printLines writes line records as an aligned table
func printLines(w io.Writer, file string, lines []layout.LineRecord) {
	fmt.Fprintln(w, titleStyle.Render(file))
	fmt.Fprintln(w, headerRowStyle.Render(fmt.Sprintf("%5s %4s %6s %6s %6s %6s  %s",
		"seq", "page", "left", "top", "width", "height", "text")))
	for _, line := range lines {
		fmt.Fprintf(w, "%5d %4d %6.2f %6.2f %6.2f %6.3f  %s\n",
			line.Sequence, line.Page, line.LeftIndent, line.TopOffset, line.Width, line.Height,
			strings.TrimSpace(line.Text))
	}
}
