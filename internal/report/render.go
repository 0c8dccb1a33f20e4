package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorGreen  = lipgloss.Color("#a6e3a1")
	colorRed    = lipgloss.Color("#f38ba8")
	colorYellow = lipgloss.Color("#f9e2af")
	colorMuted  = lipgloss.Color("#6c7086")
)

type styles struct {
	header  lipgloss.Style
	engine  lipgloss.Style
	passed  lipgloss.Style
	failed  lipgloss.Style
	skipped lipgloss.Style
	detail  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header:  r.NewStyle().Bold(true),
		engine:  r.NewStyle().Bold(true).Underline(true),
		passed:  r.NewStyle().Foreground(colorGreen).Bold(true),
		failed:  r.NewStyle().Foreground(colorRed).Bold(true),
		skipped: r.NewStyle().Foreground(colorYellow),
		detail:  r.NewStyle().Foreground(colorMuted).PaddingLeft(4),
	}
}

func (s styles) badge(status Status) string {
	switch status {
	case StatusPassed:
		return s.passed.Render("PASS")
	case StatusFailed:
		return s.failed.Render("FAIL")
	default:
		return s.skipped.Render("SKIP")
	}
}

// Render prints a human readable summary to w. Colors are only emitted when w
// is a terminal.
func (r *Report) Render(w io.Writer) error {
	r.mu.Lock()
	results := append([]Result(nil), r.Results...)
	r.mu.Unlock()

	st := newStyles(lipgloss.NewRenderer(w))
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", st.header.Render("Run"), r.RunID)
	fmt.Fprintf(&b, "%s %s\n", st.header.Render("Target"), r.BaseURL)

	engine := ""
	for _, res := range results {
		if res.Engine != engine {
			engine = res.Engine
			fmt.Fprintf(&b, "\n%s\n", st.engine.Render(engine))
		}

		line := fmt.Sprintf("  %s %s", st.badge(res.Status), res.Path)
		if res.Status != StatusSkipped {
			line += fmt.Sprintf(" (%s)", res.Duration.Round(time.Millisecond))
		}
		if res.Attempts > 1 {
			line += fmt.Sprintf(" [%d attempts]", res.Attempts)
		}
		b.WriteString(line + "\n")

		if res.Error != "" {
			b.WriteString(st.detail.Render(res.Error) + "\n")
		}
		if res.SkipReason != "" {
			b.WriteString(st.detail.Render(res.SkipReason) + "\n")
		}
		if res.Screenshot != "" && res.Status == StatusFailed {
			b.WriteString(st.detail.Render("screenshot: "+res.Screenshot) + "\n")
		}
	}

	sum := summarize(results)
	fmt.Fprintf(&b, "\n%s %d passed, %d failed, %d skipped, %d total in %s\n",
		st.header.Render("Summary"), sum.Passed, sum.Failed, sum.Skipped, sum.Total, r.Duration().Round(time.Millisecond))

	_, err := io.WriteString(w, b.String())
	return err
}
