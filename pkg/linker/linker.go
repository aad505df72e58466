package linker

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/cloak/pkg/errors"
	"github.com/arthur-debert/cloak/pkg/logging"
	"github.com/arthur-debert/cloak/pkg/types"
	"github.com/rs/zerolog"
)

// Manager owns the object at a target's root path
type Manager struct {
	fs       types.FS
	platform Platform
	vaultDir string
	logger   zerolog.Logger
}

// NewManager returns a Manager for links into vaultDir
func NewManager(fs types.FS, platform Platform, vaultDir string) *Manager {
	return &Manager{
		fs:       fs,
		platform: platform,
		vaultDir: vaultDir,
		logger:   logging.GetLogger("linker"),
	}
}

// CreateLink creates the link at t.RootPath resolving to t.StoragePath.
// The destination is stored relative to the root so the project can be moved.
func (m *Manager) CreateLink(t types.Target) (types.Mechanism, error) {
	if _, err := m.fs.Lstat(t.RootPath); err == nil {
		return "", errors.Newf(errors.ErrConflict, "%s already exists", t.RootPath).
			WithDetail("target", t.Name)
	} else if !os.IsNotExist(err) {
		return "", errors.Wrapf(err, errors.ErrIO, "failed to inspect %s", t.RootPath)
	}
	if _, err := m.fs.Lstat(t.StoragePath); err != nil {
		return "", errors.Wrapf(err, errors.ErrNotFound, "vault has no entry for %s", t.Name).
			WithDetail("target", t.Name)
	}

	dest, err := filepath.Rel(filepath.Dir(t.RootPath), t.StoragePath)
	if err != nil {
		dest = t.StoragePath
	}

	mech, err := m.platform.Symlink(dest, t.RootPath)
	if err != nil {
		return mech, errors.Wrapf(err, errors.ErrIO, "failed to link %s to %s", t.RootPath, dest).
			WithDetail("target", t.Name)
	}

	m.logger.Debug().
		Str("target", t.Name).
		Str("link", t.RootPath).
		Str("dest", dest).
		Str("mechanism", string(mech)).
		Msg("Link created")
	return mech, nil
}

// RemoveLink deletes the link at t.RootPath. It refuses anything that is not
// a link and never follows it.
func (m *Manager) RemoveLink(t types.Target) error {
	info, err := m.fs.Lstat(t.RootPath)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Newf(errors.ErrNotFound, "no link at %s", t.RootPath).
				WithDetail("target", t.Name)
		}
		return errors.Wrapf(err, errors.ErrIO, "failed to inspect %s", t.RootPath)
	}
	if !m.platform.IsLink(info) {
		return errors.Newf(errors.ErrConflict, "%s is not a link, refusing to remove it", t.RootPath).
			WithDetail("target", t.Name)
	}

	if err := m.fs.Remove(t.RootPath); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to remove link %s", t.RootPath).
			WithDetail("target", t.Name)
	}

	m.logger.Debug().Str("target", t.Name).Str("link", t.RootPath).Msg("Link removed")
	return nil
}

// VerifyLink classifies the object at t.RootPath
func (m *Manager) VerifyLink(t types.Target) (types.LinkStatus, error) {
	info, err := m.fs.Lstat(t.RootPath)
	if err != nil {
		if os.IsNotExist(err) {
			return types.LinkStatus{Health: types.LinkAbsent}, nil
		}
		return types.LinkStatus{}, errors.Wrapf(err, errors.ErrIO, "failed to inspect %s", t.RootPath)
	}
	if !m.platform.IsLink(info) {
		return types.LinkStatus{Health: types.LinkNotLink}, nil
	}

	dest, err := m.fs.Readlink(t.RootPath)
	if err != nil {
		return types.LinkStatus{}, errors.Wrapf(err, errors.ErrIO, "failed to read link %s", t.RootPath)
	}

	resolved := dest
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(t.RootPath), dest)
	}
	resolved = filepath.Clean(resolved)

	status := types.LinkStatus{
		Health:      types.LinkOrphaned,
		Destination: dest,
		Resolved:    resolved,
		IntoVault:   within(m.vaultDir, resolved),
	}

	if pathsMatch(resolved, t.StoragePath) {
		if _, err := m.fs.Stat(t.StoragePath); err == nil {
			status.Health = types.LinkHealthy
		}
	}
	return status, nil
}

// SetHidden applies or clears the OS hidden flag on the link entry
func (m *Manager) SetHidden(t types.Target, hidden bool) error {
	if err := m.platform.SetHidden(t.RootPath, hidden); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to set hidden flag on %s", t.RootPath).
			WithDetail("target", t.Name)
	}
	return nil
}

// IsLink reports whether path holds a link, without following it
func (m *Manager) IsLink(path string) bool {
	info, err := m.fs.Lstat(path)
	return err == nil && m.platform.IsLink(info)
}

// pathsMatch compares two paths, resolving symlinked parents (such as
// /var -> /private/var on macOS) when the cleaned forms differ.
func pathsMatch(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ra, errA := filepath.EvalSymlinks(a)
	rb, errB := filepath.EvalSymlinks(b)
	return errA == nil && errB == nil && ra == rb
}

// within reports whether path lies strictly inside dir
func within(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
