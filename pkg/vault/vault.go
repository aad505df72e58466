package vault

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/cloak/pkg/errors"
	"github.com/arthur-debert/cloak/pkg/logging"
	"github.com/arthur-debert/cloak/pkg/types"
	"github.com/otiai10/copy"
	"github.com/rs/zerolog"
)

const (
	// DirName is the cloak directory under the project root
	DirName = ".cloak"
	// StorageDirName is the vault directory under DirName
	StorageDirName = "storage"
	// PartialInfix marks an in-progress cross-device copy
	PartialInfix = ".cloak-partial-"
)

// Vault moves targets between the project root and the storage directory
type Vault struct {
	fs     types.FS
	dir    string
	logger zerolog.Logger
}

// New returns a vault for the project at root
func New(fs types.FS, root string) *Vault {
	return &Vault{
		fs:     fs,
		dir:    filepath.Join(root, DirName, StorageDirName),
		logger: logging.GetLogger("vault"),
	}
}

// Dir returns the storage directory
func (v *Vault) Dir() string {
	return v.dir
}

// Ensure creates the storage directory if needed
func (v *Vault) Ensure() error {
	if err := v.fs.MkdirAll(v.dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to create vault %s", v.dir)
	}
	return nil
}

// Has reports whether the vault holds an entry for t
func (v *Vault) Has(t types.Target) (bool, error) {
	return exists(v.fs, t.StoragePath)
}

// List returns the names of all complete vault entries, sorted
func (v *Vault) List() ([]string, error) {
	entries, err := v.fs.ReadDir(v.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to list vault %s", v.dir)
	}

	var names []string
	for _, e := range entries {
		if IsPartial(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// IsPartial reports whether name is a staging entry of an interrupted copy
func IsPartial(name string) bool {
	return strings.Contains(name, PartialInfix)
}

// MoveIn moves sourcePath into the vault as t. The source must exist and the
// vault must not already hold t.
func (v *Vault) MoveIn(sourcePath string, t types.Target) error {
	ok, err := exists(v.fs, sourcePath)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to inspect %s", sourcePath)
	}
	if !ok {
		return errors.Newf(errors.ErrNotFound, "%s does not exist", sourcePath).
			WithDetail("target", t.Name)
	}
	if ok, err = v.Has(t); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to inspect %s", t.StoragePath)
	} else if ok {
		return errors.Newf(errors.ErrConflict, "vault already holds %s", t.Name).
			WithDetail("target", t.Name)
	}

	if err := v.Ensure(); err != nil {
		return err
	}

	v.logger.Debug().
		Str("target", t.Name).
		Str("from", sourcePath).
		Str("to", t.StoragePath).
		Msg("Moving into vault")
	return v.move(sourcePath, t.StoragePath, t.Name)
}

// MoveOut moves t out of the vault to destinationPath, which must be absent.
func (v *Vault) MoveOut(t types.Target, destinationPath string) error {
	ok, err := v.Has(t)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to inspect %s", t.StoragePath)
	}
	if !ok {
		return errors.Newf(errors.ErrNotFound, "vault has no entry for %s", t.Name).
			WithDetail("target", t.Name)
	}
	if ok, err = exists(v.fs, destinationPath); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to inspect %s", destinationPath)
	} else if ok {
		return errors.Newf(errors.ErrConflict, "%s is occupied", destinationPath).
			WithDetail("target", t.Name)
	}

	v.logger.Debug().
		Str("target", t.Name).
		Str("from", t.StoragePath).
		Str("to", destinationPath).
		Msg("Moving out of vault")
	return v.move(t.StoragePath, destinationPath, t.Name)
}

// move renames src to dst, falling back to a staged copy across devices
func (v *Vault) move(src, dst, name string) error {
	err := v.fs.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return errors.Wrapf(err, errors.ErrIO, "failed to move %s to %s", src, dst).
			WithDetail("target", name)
	}

	v.logger.Info().
		Str("target", name).
		Str("from", src).
		Str("to", dst).
		Msg("Cross-device move, copying")

	staging, err := stagingPath(dst)
	if err != nil {
		return errors.Wrap(err, errors.ErrIO, "failed to name staging copy")
	}

	opts := copy.Options{
		OnSymlink: func(string) copy.SymlinkAction {
			return copy.Shallow
		},
		PreserveTimes: true,
		Sync:          true,
	}
	if err := copy.Copy(src, staging, opts); err != nil {
		v.discard(staging)
		return errors.Wrapf(err, errors.ErrIO, "failed to copy %s to %s", src, staging).
			WithDetail("target", name)
	}

	if err := v.fs.Rename(staging, dst); err != nil {
		v.discard(staging)
		return errors.Wrapf(err, errors.ErrIO, "failed to promote staging copy to %s", dst).
			WithDetail("target", name)
	}

	// Both copies exist until this succeeds; that shows up as a conflicted target
	if err := v.fs.RemoveAll(src); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "copied %s but failed to remove the original", src).
			WithDetail("target", name)
	}
	return nil
}

func (v *Vault) discard(path string) {
	if err := v.fs.RemoveAll(path); err != nil {
		v.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove staging copy")
	}
}

func stagingPath(dst string) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return dst + PartialInfix + hex.EncodeToString(buf), nil
}

func exists(fs types.FS, path string) (bool, error) {
	_, err := fs.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
