package engine

import (
	"fmt"

	"github.com/arthur-debert/cloak/pkg/errors"
	"github.com/arthur-debert/cloak/pkg/logging"
	"github.com/arthur-debert/cloak/pkg/types"
)

// Hide moves a visible target into the vault and leaves a link in its place.
// A hidden target is left alone; an orphaned-storage target is completed.
func (e *Engine) Hide(name string) types.Result {
	result := types.Result{Name: name, Action: types.ActionHide}

	t, err := e.Target(name)
	if err != nil {
		result.Err = err
		return result
	}
	result.Name = t.Name

	done := logging.LogOperationStart(e.logger.With().Str("target", t.Name).Logger(), "hide")
	defer done()

	state, _, err := e.classify(t)
	if err != nil {
		result.Err = err
		return result
	}
	result.From = state

	switch state {
	case types.StateHidden:
		result.Action = types.ActionNone
		result.To = types.StateHidden
		return result
	case types.StateVisible, types.StateOrphanedStorage:
	case types.StateAbsent:
		result.Err = errors.Newf(errors.ErrNotFound, "%s does not exist", t.Name).
			WithDetail("target", t.Name)
		return result
	default:
		result.Err = errors.Newf(errors.ErrConflict, "%s is %s, refusing to hide it", t.Name, state).
			WithDetail("target", t.Name).
			WithDetail("state", string(state))
		return result
	}

	excludes, err := e.excludeSteps(t, true)
	if err != nil {
		result.Err = err
		return result
	}

	var steps []step
	if state == types.StateVisible {
		steps = append(steps, step{
			name: stepMoveIn,
			do:   func() error { return e.vault.MoveIn(t.RootPath, t) },
			undo: func() error { return e.vault.MoveOut(t, t.RootPath) },
		})
	} else {
		result.AddNotice(types.NoticeResumed, fmt.Sprintf("%s was already in the vault, recreated its link", t.Name))
	}

	steps = append(steps,
		step{
			name: stepCreateLink,
			do: func() error {
				mech, err := e.links.CreateLink(t)
				if err == nil && mech == types.MechanismJunction {
					result.AddNotice(types.NoticePlatformFallback,
						fmt.Sprintf("symlinks need elevated privileges here, %s is a junction", t.Name))
				}
				return err
			},
			undo: func() error { return e.links.RemoveLink(t) },
		},
		step{
			name: stepSetHidden,
			do: func() error {
				// Cosmetic only: the link works without the flag
				if err := e.links.SetHidden(t, true); err != nil {
					e.logger.Warn().Err(err).Str("target", t.Name).Msg("Could not set hidden flag")
					result.AddNotice(types.NoticePlatformFallback,
						fmt.Sprintf("could not set the hidden flag on %s", t.Name))
				}
				return nil
			},
		},
	)
	steps = append(steps, excludes...)
	steps = append(steps, e.syncIgnoreStep(t, true))

	if err := e.run(t, steps); err != nil {
		result.Err = err
		return result
	}

	result.To = types.StateHidden
	e.logger.Info().Str("target", t.Name).Str("from", string(state)).Msg("Target hidden")
	return result
}

// HideAll hides each name independently; one failure does not stop the rest.
func (e *Engine) HideAll(names []string) []types.Result {
	results := make([]types.Result, 0, len(names))
	for _, name := range names {
		results = append(results, e.Hide(name))
	}
	return results
}
