package display_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/cloak/pkg/errors"
	"github.com/arthur-debert/cloak/pkg/types"
	"github.com/arthur-debert/cloak/pkg/ui/display"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReportFlattensErrors(t *testing.T) {
	rollback := errors.Wrap(stderrors.New("disk full"), errors.ErrRollback, ".cursor: step ignore.sync failed").
		WithDetail("step", "ignore.sync").
		WithDetail("undo_errors", "undo link.create: busy")

	report := display.NewReport("hide", []types.Result{
		{Name: ".cursor", Action: types.ActionHide, From: types.StateVisible, Err: rollback},
		{Name: ".idea", Action: types.ActionHide, From: types.StateVisible, To: types.StateHidden},
	})

	assert.Equal(t, "hide", report.Command)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "ROLLBACK", report.Results[0].Code)
	assert.Equal(t, "ignore.sync", report.Results[0].Step)
	assert.Equal(t, "undo link.create: busy", report.Results[0].UndoErrors)
	assert.Contains(t, report.Results[0].Error, "disk full")
	assert.Empty(t, report.Results[1].Error)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name   string
		view   display.ResultView
		symbol string
		text   string
	}{
		{"hidden", display.ResultView{Action: types.ActionHide, To: types.StateHidden}, "✓", "hidden"},
		{"restored", display.ResultView{Action: types.ActionUnhide, To: types.StateVisible}, "✓", "restored"},
		{"orphan cleaned", display.ResultView{Action: types.ActionUnhide, To: types.StateAbsent}, "✓", "dangling link removed"},
		{"already hidden", display.ResultView{Action: types.ActionNone, From: types.StateHidden}, "-", "already hidden"},
		{"declined", display.ResultView{Action: types.ActionNone, From: types.StateVisible}, "-", "skipped, still visible"},
		{"failed", display.ResultView{Action: types.ActionHide, Error: "[CONFLICT] busy"}, "✗", "[CONFLICT] busy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := display.Describe(tt.view)
			assert.Equal(t, tt.symbol, got.Symbol)
			assert.Equal(t, tt.text, got.Text)
		})
	}
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Nothing to do.", display.Summary(display.Report{}))
	assert.Equal(t, "1 changed.", display.Summary(display.Report{Results: []display.ResultView{
		{Action: types.ActionHide},
		{Action: types.ActionNone},
	}}))
	assert.Equal(t, "0 changed, 1 failed.", display.Summary(display.Report{Failed: 1, Results: []display.ResultView{
		{Action: types.ActionHide, Error: "boom"},
	}}))
}
