package engine

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/cloak/pkg/errors"
	"github.com/arthur-debert/cloak/pkg/types"
)

// Step names, reported in errors and logs
const (
	stepMoveIn        = "vault.move_in"
	stepMoveOut       = "vault.move_out"
	stepCreateLink    = "link.create"
	stepSetHidden     = "link.set_hidden"
	stepRemoveLink    = "link.remove"
	stepAddExclude    = "exclusion.add"
	stepRemoveExclude = "exclusion.remove"
	stepSyncIgnore    = "ignore.sync"
)

// step is one reversible unit of a pipeline. undo may be nil.
type step struct {
	name string
	do   func() error
	undo func() error
}

// run executes steps in order. On failure the completed steps are undone in
// reverse and the returned error carries the target, the failed step, the
// cause and any undo failures.
func (e *Engine) run(t types.Target, steps []step) error {
	var done []step
	for _, s := range steps {
		e.logger.Debug().Str("target", t.Name).Str("step", s.name).Msg("Running step")
		if err := s.do(); err != nil {
			return e.rollback(t, s.name, err, done)
		}
		done = append(done, s)
	}
	return nil
}

func (e *Engine) rollback(t types.Target, failed string, cause error, done []step) error {
	e.logger.Error().
		Err(cause).
		Str("target", t.Name).
		Str("step", failed).
		Int("undo_steps", len(done)).
		Msg("Step failed, rolling back")

	var undoErrs []error
	for i := len(done) - 1; i >= 0; i-- {
		s := done[i]
		if s.undo == nil {
			continue
		}
		if err := s.undo(); err != nil {
			e.logger.Error().Err(err).Str("target", t.Name).Str("step", s.name).Msg("Undo failed")
			undoErrs = append(undoErrs, fmt.Errorf("undo %s: %w", s.name, err))
		}
	}

	code := errors.ErrRollback
	if len(done) == 0 {
		code = errors.GetErrorCode(cause)
		if code == errors.ErrUnknown {
			code = errors.ErrIO
		}
	}

	err := errors.Wrapf(cause, code, "%s: step %s failed", t.Name, failed).
		WithDetail("target", t.Name).
		WithDetail("step", failed)
	if len(undoErrs) > 0 {
		err = err.WithDetail("undo_errors", stderrors.Join(undoErrs...).Error())
		err.Message += " and rollback was incomplete"
	}
	return err
}

// syncIgnoreStep regenerates the managed ignore section with t included or
// excluded; undo flips it back.
func (e *Engine) syncIgnoreStep(t types.Target, include bool) step {
	apply := func(include bool) error {
		hidden, err := e.hiddenNames()
		if err != nil {
			return err
		}
		names := without(hidden, t.Name)
		if include {
			names = with(hidden, t.Name)
		}
		_, err = e.ignore.Sync(names)
		return err
	}
	return step{
		name: stepSyncIgnore,
		do:   func() error { return apply(include) },
		undo: func() error { return apply(!include) },
	}
}

// excludeSteps adds or removes t's exclusion in every applicable editor.
// Undo only touches editors that actually changed, and puts back the exact
// bytes they held so an explicit "false" or a deleted file comes back as it was.
func (e *Engine) excludeSteps(t types.Target, add bool) ([]step, error) {
	editors, err := e.editors(t)
	if err != nil {
		return nil, err
	}

	pattern := t.ExcludePattern()
	steps := make([]step, 0, len(editors))
	for _, ed := range editors {
		name := stepRemoveExclude
		forward := ed.Remove
		if add {
			name = stepAddExclude
			forward = ed.Add
		}

		var before *fileSnapshot
		steps = append(steps, step{
			name: name + ":" + e.rel(ed.Path()),
			do: func() error {
				snap, err := e.snapshot(ed.Path())
				if err != nil {
					return err
				}
				changed, err := forward(pattern)
				if changed {
					before = &snap
				}
				return err
			},
			undo: func() error {
				if before == nil {
					return nil
				}
				return e.restore(*before)
			},
		})
	}
	return steps, nil
}

// fileSnapshot is the content of a file, and whether it and its directory
// existed, before a step edited it.
type fileSnapshot struct {
	path       string
	data       []byte
	perm       fs.FileMode
	existed    bool
	dirExisted bool
}

func (e *Engine) snapshot(path string) (fileSnapshot, error) {
	snap := fileSnapshot{path: path, perm: 0644, dirExisted: e.isDir(filepath.Dir(path))}
	if info, err := e.fs.Stat(path); err == nil {
		snap.perm = info.Mode().Perm()
	}
	data, err := e.fs.ReadFile(path)
	switch {
	case err == nil:
		snap.data, snap.existed = data, true
	case !os.IsNotExist(err):
		return snap, errors.Wrapf(err, errors.ErrIO, "failed to read %s", path)
	}
	return snap, nil
}

func (e *Engine) restore(snap fileSnapshot) error {
	if !snap.existed {
		if err := e.fs.Remove(snap.path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrIO, "failed to remove %s", snap.path)
		}
		if !snap.dirExisted {
			dir := filepath.Dir(snap.path)
			if entries, err := e.fs.ReadDir(dir); err == nil && len(entries) == 0 {
				_ = e.fs.Remove(dir)
			}
		}
		return nil
	}
	if err := e.fs.MkdirAll(filepath.Dir(snap.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to create %s", filepath.Dir(snap.path))
	}
	if err := e.fs.WriteFile(snap.path, snap.data, snap.perm); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to restore %s", snap.path)
	}
	return nil
}
