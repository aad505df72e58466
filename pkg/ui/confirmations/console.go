// Package confirmations asks the user to approve tidy candidates.
package confirmations

import (
	"fmt"
	"os"

	"github.com/arthur-debert/cloak/pkg/logging"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// ConsoleDialog prompts on the terminal, one target at a time
type ConsoleDialog struct {
	interactive func() bool
	ask         func(prompt string) (bool, error)
}

// NewConsoleDialog returns a dialog bound to the process stdin
func NewConsoleDialog() *ConsoleDialog {
	return &ConsoleDialog{
		interactive: stdinIsTerminal,
		ask: func(prompt string) (bool, error) {
			return pterm.DefaultInteractiveConfirm.
				WithDefaultValue(false).
				WithDefaultText(prompt).
				Show()
		},
	}
}

// Confirm asks whether name should be hidden. Without a terminal on stdin
// nobody can answer, so the candidate is declined.
func (d *ConsoleDialog) Confirm(name string) (bool, error) {
	if !d.interactive() {
		logger := logging.GetLogger("confirmations")
		logger.Warn().
			Str("target", name).
			Msg("stdin is not a terminal, declining (use --yes to hide without asking)")
		return false, nil
	}
	ok, err := d.ask(fmt.Sprintf("Hide %s?", name))
	if err != nil {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}
	return ok, nil
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
