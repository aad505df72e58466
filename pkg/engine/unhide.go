package engine

import (
	"fmt"

	"github.com/arthur-debert/cloak/pkg/errors"
	"github.com/arthur-debert/cloak/pkg/logging"
	"github.com/arthur-debert/cloak/pkg/types"
)

// Unhide restores a hidden target to its original location and removes its
// ignore and exclusion entries. Orphans are cleaned up: a dangling link is
// removed, and any data still in the vault is restored.
func (e *Engine) Unhide(name string) types.Result {
	result := types.Result{Name: name, Action: types.ActionUnhide}

	t, err := e.Target(name)
	if err != nil {
		result.Err = err
		return result
	}
	result.Name = t.Name

	done := logging.LogOperationStart(e.logger.With().Str("target", t.Name).Logger(), "unhide")
	defer done()

	state, link, err := e.classify(t)
	if err != nil {
		result.Err = err
		return result
	}
	result.From = state

	switch state {
	case types.StateHidden, types.StateOrphanedLink, types.StateOrphanedStorage:
	case types.StateVisible, types.StateAbsent:
		result.Action = types.ActionNone
		result.Err = errors.Newf(errors.ErrNothingToUnhide, "%s is not hidden", t.Name).
			WithDetail("target", t.Name).
			WithDetail("state", string(state))
		return result
	default:
		result.Err = errors.Newf(errors.ErrConflict, "%s is %s, refusing to unhide it", t.Name, state).
			WithDetail("target", t.Name).
			WithDetail("state", string(state))
		return result
	}

	inVault, err := e.vault.Has(t)
	if err != nil {
		result.Err = errors.Wrapf(err, errors.ErrIO, "failed to inspect %s", t.StoragePath)
		return result
	}

	excludes, err := e.excludeSteps(t, false)
	if err != nil {
		result.Err = err
		return result
	}

	steps := []step{e.syncIgnoreStep(t, false)}
	steps = append(steps, excludes...)

	if state != types.StateOrphanedStorage {
		steps = append(steps, step{
			name: stepRemoveLink,
			do:   func() error { return e.links.RemoveLink(t) },
			undo: func() error {
				if _, err := e.links.CreateLink(t); err != nil {
					return err
				}
				if err := e.links.SetHidden(t, true); err != nil {
					e.logger.Warn().Err(err).Str("target", t.Name).Msg("Could not set hidden flag on restored link")
				}
				return nil
			},
		})
	}

	if inVault {
		steps = append(steps, step{
			name: stepMoveOut,
			do:   func() error { return e.vault.MoveOut(t, t.RootPath) },
		})
	}

	if err := e.run(t, steps); err != nil {
		result.Err = err
		return result
	}

	switch {
	case inVault:
		result.To = types.StateVisible
		if state == types.StateOrphanedLink {
			result.AddNotice(types.NoticeOrphan,
				fmt.Sprintf("link pointed to %s, restored %s from the vault", link.Destination, t.Name))
		}
	default:
		result.To = types.StateAbsent
		result.AddNotice(types.NoticeOrphan,
			fmt.Sprintf("vault entry for %s was missing, removed the dangling link, no data restored", t.Name))
	}

	e.logger.Info().Str("target", t.Name).Str("from", string(state)).Msg("Target unhidden")
	return result
}

// UnhideAll unhides each name independently
func (e *Engine) UnhideAll(names []string) []types.Result {
	results := make([]types.Result, 0, len(names))
	for _, name := range names {
		results = append(results, e.Unhide(name))
	}
	return results
}
