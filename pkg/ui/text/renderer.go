// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/cloak/pkg/ui/display"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

// RenderStatus prints one line per target, with drift indented below it
func (r *Renderer) RenderStatus(report display.StatusReport) error {
	if len(report.Targets) == 0 {
		return r.RenderMessage(display.EmptyStatus)
	}

	width := display.NameWidth(report)
	for _, st := range report.Targets {
		line := fmt.Sprintf("%-*s  %-16s", width, st.Name, st.State)
		if st.Link != "" {
			line += " -> " + st.Link
		}
		if _, err := fmt.Fprintln(r.output, strings.TrimRight(line, " ")); err != nil {
			return err
		}
		for _, d := range st.Drift {
			if _, err := fmt.Fprintf(r.output, "    ! %s\n", d); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderReport prints one line per target followed by a summary
func (r *Renderer) RenderReport(report display.Report) error {
	for _, res := range report.Results {
		outcome := display.Describe(res)
		if _, err := fmt.Fprintf(r.output, "%s %s: %s\n", outcome.Symbol, res.Name, outcome.Text); err != nil {
			return err
		}
		for _, n := range res.Notices {
			if _, err := fmt.Fprintf(r.output, "    ! %s: %s\n", n.Kind, n.Message); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(r.output, display.Summary(report))
	return err
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, err2 := fmt.Fprintf(r.output, "Error: %v\n", err)
	return err2
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
