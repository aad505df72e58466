// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/cloak/pkg/style"
	"github.com/arthur-debert/cloak/pkg/ui/display"
)

// Renderer styles headings with lipgloss and states with pterm
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) *Renderer {
	return &Renderer{output: w}
}

// RenderStatus renders a heading and one styled line per target
func (r *Renderer) RenderStatus(report display.StatusReport) error {
	if _, err := fmt.Fprintln(r.output, style.TitleStyle.Render("cloak")+" "+style.PathStyle.Render(report.Root)); err != nil {
		return err
	}
	if len(report.Targets) == 0 {
		_, err := fmt.Fprintln(r.output, style.MutedStyle.Render("  "+display.EmptyStatus))
		return err
	}

	width := display.NameWidth(report)
	for _, st := range report.Targets {
		var b strings.Builder
		b.WriteString("  ")
		b.WriteString(style.NameStyle.Render(fmt.Sprintf("%-*s", width, st.Name)))
		b.WriteString("  ")
		b.WriteString(style.StateStyle(st.State).Sprint(fmt.Sprintf(" %s ", st.State)))
		if st.Link != "" {
			b.WriteString(style.MutedStyle.Render(" -> " + st.Link))
		}
		if _, err := fmt.Fprintln(r.output, b.String()); err != nil {
			return err
		}
		for _, d := range st.Drift {
			if _, err := fmt.Fprintln(r.output, "      "+style.WarningStyle.Render("! "+d)); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderReport renders one styled line per target and a summary
func (r *Renderer) RenderReport(report display.Report) error {
	for _, res := range report.Results {
		outcome := display.Describe(res)
		symbol := style.SuccessStyle.Render(outcome.Symbol)
		text := outcome.Text
		switch {
		case outcome.Failed:
			symbol = style.ErrorStyle.Render(outcome.Symbol)
			text = style.ErrorStyle.Render(text)
		case outcome.Symbol == "-":
			symbol = style.MutedStyle.Render(outcome.Symbol)
			text = style.MutedStyle.Render(text)
		}
		if _, err := fmt.Fprintf(r.output, "%s %s %s\n", symbol, style.NameStyle.Render(res.Name), text); err != nil {
			return err
		}
		for _, n := range res.Notices {
			if _, err := fmt.Fprintln(r.output, "    "+style.NoticeStyle(n.Kind).Sprint(string(n.Kind)+": "+n.Message)); err != nil {
				return err
			}
		}
	}

	summary := display.Summary(report)
	if report.Failed > 0 {
		summary = style.ErrorStyle.Render(summary)
	} else {
		summary = style.SuccessStyle.Render(summary)
	}
	_, err := fmt.Fprintln(r.output, summary)
	return err
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintln(r.output, style.ErrorStyle.Render("Error:")+" "+err.Error())
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
