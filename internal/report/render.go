package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"syncperf/internal/benchmark"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	winnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")). // Green
			Bold(true)

	failureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	colorEnabled = true
)

// SetColor toggles ANSI styling of terminal output.
func SetColor(enabled bool) {
	colorEnabled = enabled
	if !enabled {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// Title renders a section title.
func Title(s string) string {
	return titleStyle.Render(s)
}

// Winner highlights the selected identity.
func Winner(s string) string {
	return winnerStyle.Render(s)
}

// Failure highlights a failed analysis.
func Failure(s string) string {
	return failureStyle.Render(s)
}

// Markdown builds a markdown document describing one analysis: the run
// configuration, a statistics table, the ratio lines and the winner.
func Markdown(title string, s Summary, ratios []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	if c := s.Context; c != nil {
		fmt.Fprintf(&b, "%s with **%d** threads (active wait: %t), %d iterations\n\n",
			c.Dimensions, c.Threads, c.Active, c.Iterations)
	}

	b.WriteString("| Synchronization | Function | Average | Deviation / Average |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, gs := range s.Stats {
		row := StatsRow(gs)
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", row[0], row[1], row[2], row[5])
	}

	if len(ratios) > 0 {
		b.WriteString("\n## Ratios\n\n")
		for _, r := range ratios {
			fmt.Fprintf(&b, "- `%s`\n", r)
		}
	}

	fmt.Fprintf(&b, "\n**Best synchronization:** `%s` (%s)\n",
		s.Selection.Identity.Name(), FormatFloat(s.Selection.Mean))
	return b.String()
}

// RenderPretty renders markdown for the terminal. When color is disabled
// the plain "notty" style is used.
func RenderPretty(markdown string) (string, error) {
	style := glamour.WithAutoStyle()
	if !colorEnabled {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// SelectionLine formats a selection result for the terminal.
func SelectionLine(r benchmark.SelectionResult) string {
	return fmt.Sprintf("%s %s", Winner(r.Identity.Name()), FormatFloat(r.Mean))
}
