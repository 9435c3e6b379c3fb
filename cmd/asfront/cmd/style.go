package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"asfront/pkg/driver"
)

var (
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorSuccess = lipgloss.Color("#10B981")
	colorMuted   = lipgloss.Color("#6B7280")

	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

// summaryLine is the one-line status printed for each parsed file.
func summaryLine(r *driver.Result) string {
	errs, warns := 0, 0
	for _, d := range r.Diagnostics {
		if d.IsWarning() {
			warns++
		} else {
			errs++
		}
	}

	mark := successStyle.Render("ok")
	if errs > 0 {
		mark = errorStyle.Render("FAIL")
	}
	line := fmt.Sprintf("%s %s", mark, r.Path())
	if warns > 0 {
		line += " " + warningStyle.Render(fmt.Sprintf("(%d warnings)", warns))
	}
	return line + " " + mutedStyle.Render(r.Duration.String())
}
