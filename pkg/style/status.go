package style

import (
	"github.com/arthur-debert/cloak/pkg/types"
	"github.com/pterm/pterm"
)

// StateStyle returns the badge style for a target state
func StateStyle(state types.State) *pterm.Style {
	switch state {
	case types.StateHidden:
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case types.StateVisible:
		return pterm.NewStyle(pterm.FgCyan)
	case types.StateOrphanedLink, types.StateOrphanedStorage:
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	case types.StateConflicted:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	case types.StateUnmanaged:
		return pterm.NewStyle(pterm.FgMagenta)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// NoticeStyle returns the style for a notice kind
func NoticeStyle(kind types.NoticeKind) *pterm.Style {
	switch kind {
	case types.NoticeOrphan:
		return pterm.NewStyle(pterm.FgYellow)
	case types.NoticeResumed:
		return pterm.NewStyle(pterm.FgCyan)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// NeedsAttention reports whether a state is one the user should act on
func NeedsAttention(state types.State) bool {
	switch state {
	case types.StateOrphanedLink, types.StateOrphanedStorage, types.StateConflicted, types.StateUnmanaged:
		return true
	}
	return false
}
