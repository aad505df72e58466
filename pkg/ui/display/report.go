// Package display converts engine results into the serializable views every
// renderer works from, plus the plain wording shared by text and terminal
// output.
package display

import (
	"fmt"

	"github.com/arthur-debert/cloak/pkg/errors"
	"github.com/arthur-debert/cloak/pkg/types"
)

// ResultView is a types.Result with its error flattened for output
type ResultView struct {
	Name       string         `json:"name" yaml:"name"`
	Action     types.Action   `json:"action" yaml:"action"`
	From       types.State    `json:"from,omitempty" yaml:"from,omitempty"`
	To         types.State    `json:"to,omitempty" yaml:"to,omitempty"`
	Notices    []types.Notice `json:"notices,omitempty" yaml:"notices,omitempty"`
	Error      string         `json:"error,omitempty" yaml:"error,omitempty"`
	Code       string         `json:"code,omitempty" yaml:"code,omitempty"`
	Step       string         `json:"step,omitempty" yaml:"step,omitempty"`
	UndoErrors string         `json:"undo_errors,omitempty" yaml:"undo_errors,omitempty"`
}

// Report is the outcome of a hide, unhide or tidy command
type Report struct {
	Command string       `json:"command" yaml:"command"`
	Results []ResultView `json:"results" yaml:"results"`
	Failed  int          `json:"failed" yaml:"failed"`
}

// StatusReport is the outcome of the status command
type StatusReport struct {
	Root    string               `json:"root" yaml:"root"`
	Targets []types.TargetStatus `json:"targets" yaml:"targets"`
}

// NewReport flattens results for command
func NewReport(command string, results []types.Result) Report {
	report := Report{Command: command, Results: make([]ResultView, 0, len(results))}
	for _, r := range results {
		view := ResultView{
			Name:    r.Name,
			Action:  r.Action,
			From:    r.From,
			To:      r.To,
			Notices: r.Notices,
		}
		if r.Err != nil {
			report.Failed++
			view.Error = r.Err.Error()
			view.Code = string(errors.GetErrorCode(r.Err))
			details := errors.GetErrorDetails(r.Err)
			if step, ok := details["step"].(string); ok {
				view.Step = step
			}
			if undo, ok := details["undo_errors"].(string); ok {
				view.UndoErrors = undo
			}
		}
		report.Results = append(report.Results, view)
	}
	return report
}

// Outcome is the symbol and sentence describing one result
type Outcome struct {
	Symbol string
	Text   string
	Failed bool
}

// Describe words a single result for humans
func Describe(r ResultView) Outcome {
	if r.Error != "" {
		return Outcome{Symbol: "✗", Text: r.Error, Failed: true}
	}

	switch r.Action {
	case types.ActionHide:
		return Outcome{Symbol: "✓", Text: "hidden"}
	case types.ActionUnhide:
		if r.To == types.StateAbsent {
			return Outcome{Symbol: "✓", Text: "dangling link removed"}
		}
		return Outcome{Symbol: "✓", Text: "restored"}
	}

	if r.From == types.StateHidden {
		return Outcome{Symbol: "-", Text: "already hidden"}
	}
	if r.From == "" {
		return Outcome{Symbol: "-", Text: "unchanged"}
	}
	return Outcome{Symbol: "-", Text: fmt.Sprintf("skipped, still %s", r.From)}
}

// Summary is the closing line of a report
func Summary(report Report) string {
	changed := 0
	for _, r := range report.Results {
		if r.Error == "" && r.Action != types.ActionNone {
			changed++
		}
	}
	switch {
	case len(report.Results) == 0:
		return "Nothing to do."
	case report.Failed > 0:
		return fmt.Sprintf("%d changed, %d failed.", changed, report.Failed)
	default:
		return fmt.Sprintf("%d changed.", changed)
	}
}

// EmptyStatus is printed when status finds nothing to report
const EmptyStatus = "No hidden or known targets found."

// NameWidth is the widest target name in report, for column alignment
func NameWidth(report StatusReport) int {
	width := 0
	for _, st := range report.Targets {
		if len(st.Name) > width {
			width = len(st.Name)
		}
	}
	return width
}
