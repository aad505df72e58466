// Package ui provides a unified interface for rendering output in different formats.
// It supports terminal (rich), text (plain), JSON and YAML output formats.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/cloak/pkg/ui/display"
	"github.com/arthur-debert/cloak/pkg/ui/json"
	"github.com/arthur-debert/cloak/pkg/ui/terminal"
	"github.com/arthur-debert/cloak/pkg/ui/text"
	"github.com/arthur-debert/cloak/pkg/ui/yaml"
)

// Renderer is the common interface for all output renderers.
type Renderer interface {
	// RenderStatus renders the targets found under a root
	RenderStatus(report display.StatusReport) error

	// RenderReport renders the per-target outcome of a command
	RenderReport(report display.Report) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a new renderer based on the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		// Buffers and pipes get plain text
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return terminal.New(output), nil
	case FormatText:
		return text.New(output), nil
	case FormatJSON:
		return json.New(output), nil
	case FormatYAML:
		return yaml.New(output), nil
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}

// IsStructured reports whether format is meant for machines
func IsStructured(format Format) bool {
	return format == FormatJSON || format == FormatYAML
}
