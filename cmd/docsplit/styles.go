package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/docsplit/docsplit/internal/split"
)

var (
	// titleStyle for the document header
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// kindStyle per range kind
	leadingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	chapterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	trailingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))

	// successStyle for success indicators
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// errorStyle for error indicators
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle for the final summary
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
)

func styleFor(kind split.Kind) lipgloss.Style {
	switch kind {
	case split.KindLeading:
		return leadingStyle
	case split.KindTrailing:
		return trailingStyle
	default:
		return chapterStyle
	}
}

// renderPlan prints the split plan as an aligned table.
func renderPlan(w io.Writer, path string, plan *split.Plan) {
	fmt.Fprintln(w, titleStyle.Render(path))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d pages, %d ranges", plan.PageCount, len(plan.Ranges))))

	nameWidth := 0
	for _, r := range plan.Ranges {
		if n := lipgloss.Width(r.Name); n > nameWidth {
			nameWidth = n
		}
	}
	for _, r := range plan.Ranges {
		line := fmt.Sprintf("  %-*s  %-8s  pages %4d-%-4d  (%d)",
			nameWidth, r.Name, r.Kind, r.Start+1, r.End+1, r.Pages())
		fmt.Fprintln(w, styleFor(r.Kind).Render(line))
	}
}

// renderProgress prints one line per processed range.
func renderProgress(w io.Writer, done, total int, name string) {
	fmt.Fprintf(w, "%s %s\n", dimStyle.Render(fmt.Sprintf("[%d/%d]", done, total)), name)
}

// renderSummary prints the run outcome box.
func renderSummary(w io.Writer, outDir string, rep *split.Report) {
	var status string
	switch {
	case rep.Cancelled:
		status = errorStyle.Render("cancelled")
	case rep.Success():
		status = successStyle.Render("complete")
	case len(rep.Completed) > 0:
		status = errorStyle.Render("partial")
	default:
		status = errorStyle.Render("failed")
	}

	body := fmt.Sprintf("%s\n%s written, %s failed\n%s",
		status,
		successStyle.Render(fmt.Sprintf("%d", len(rep.Completed))),
		errorStyle.Render(fmt.Sprintf("%d", len(rep.Failed))),
		dimStyle.Render(outDir),
	)
	fmt.Fprintln(w, boxStyle.Render(body))

	for _, f := range rep.Failed {
		fmt.Fprintf(w, "%s %s: %s\n", errorStyle.Render("✗"), f.Range.Name, f.Err)
	}
}
