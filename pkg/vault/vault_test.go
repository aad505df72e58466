package vault_test

import (
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"testing"
	"time"

	"github.com/arthur-debert/cloak/pkg/errors"
	"github.com/arthur-debert/cloak/pkg/filesystem"
	"github.com/arthur-debert/cloak/pkg/target"
	"github.com/arthur-debert/cloak/pkg/testutil"
	"github.com/arthur-debert/cloak/pkg/types"
	"github.com/arthur-debert/cloak/pkg/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, fs types.FS) (string, *vault.Vault, types.Target) {
	t.Helper()
	root := t.TempDir()
	v := vault.New(fs, root)
	tgt, err := target.Validate(root, v.Dir(), ".cursor")
	require.NoError(t, err)
	return root, v, tgt
}

// crossDevice fails renames that cross the project root and the vault, the
// way two mount points would, but lets renames within one directory through.
func crossDevice(inner types.FS) *testutil.FaultFS {
	fs := testutil.NewFaultFS(inner)
	fs.RenameHook = func(oldpath, newpath string) error {
		if filepath.Dir(oldpath) != filepath.Dir(newpath) {
			return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
		}
		return inner.Rename(oldpath, newpath)
	}
	return fs
}

func TestMoveInAndOut(t *testing.T) {
	root, v, tgt := setup(t, filesystem.NewOS())
	testutil.WithFileTree(t, root, testutil.FileTree{
		".cursor": testutil.FileTree{"rules.md": "rules", "sub": testutil.FileTree{"a": "a"}},
	})
	before := testutil.Snapshot(t, tgt.RootPath)

	require.NoError(t, v.MoveIn(tgt.RootPath, tgt))
	assert.False(t, testutil.PathExists(t, tgt.RootPath))
	assert.Equal(t, before, testutil.Snapshot(t, tgt.StoragePath))

	has, err := v.Has(tgt)
	require.NoError(t, err)
	assert.True(t, has)

	names, err := v.List()
	require.NoError(t, err)
	assert.Equal(t, []string{".cursor"}, names)

	require.NoError(t, v.MoveOut(tgt, tgt.RootPath))
	assert.Equal(t, before, testutil.Snapshot(t, tgt.RootPath))
	has, err = v.Has(tgt)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMoveInFile(t *testing.T) {
	root, v, _ := setup(t, filesystem.NewOS())
	tgt, err := target.Validate(root, v.Dir(), ".envrc")
	require.NoError(t, err)
	testutil.CreateFile(t, root, ".envrc", "export A=1\n")

	require.NoError(t, v.MoveIn(tgt.RootPath, tgt))
	assert.Equal(t, "export A=1\n", testutil.ReadFile(t, tgt.StoragePath))
}

func TestMoveInPreconditions(t *testing.T) {
	t.Run("missing_source", func(t *testing.T) {
		_, v, tgt := setup(t, filesystem.NewOS())
		err := v.MoveIn(tgt.RootPath, tgt)
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	})

	t.Run("vault_occupied", func(t *testing.T) {
		root, v, tgt := setup(t, filesystem.NewOS())
		testutil.CreateFile(t, root, ".cursor/a", "root copy")
		testutil.CreateFile(t, v.Dir(), ".cursor/a", "vault copy")

		err := v.MoveIn(tgt.RootPath, tgt)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConflict))
		assert.Equal(t, "root copy", testutil.ReadFile(t, filepath.Join(tgt.RootPath, "a")))
		assert.Equal(t, "vault copy", testutil.ReadFile(t, filepath.Join(tgt.StoragePath, "a")))
	})
}

func TestMoveOutPreconditions(t *testing.T) {
	t.Run("missing_entry", func(t *testing.T) {
		_, v, tgt := setup(t, filesystem.NewOS())
		err := v.MoveOut(tgt, tgt.RootPath)
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	})

	t.Run("destination_occupied", func(t *testing.T) {
		root, v, tgt := setup(t, filesystem.NewOS())
		testutil.CreateFile(t, root, ".cursor/a", "root copy")
		testutil.CreateFile(t, v.Dir(), ".cursor/a", "vault copy")

		err := v.MoveOut(tgt, tgt.RootPath)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConflict))
		assert.Equal(t, "root copy", testutil.ReadFile(t, filepath.Join(tgt.RootPath, "a")))
		assert.Equal(t, "vault copy", testutil.ReadFile(t, filepath.Join(tgt.StoragePath, "a")))
	})
}

func TestCrossDeviceMove(t *testing.T) {
	root, v, tgt := setup(t, crossDevice(filesystem.NewOS()))
	testutil.WithFileTree(t, root, testutil.FileTree{
		".cursor": testutil.FileTree{"rules.md": "rules", "sub": testutil.FileTree{"a": "a"}},
	})
	if runtime.GOOS != "windows" {
		testutil.CreateSymlink(t, "rules.md", filepath.Join(root, ".cursor", "link"))
		require.NoError(t, os.Chmod(filepath.Join(root, ".cursor", "sub", "a"), 0600))
	}
	stamp := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(root, ".cursor", "rules.md"), stamp, stamp))
	before := testutil.Snapshot(t, tgt.RootPath)

	require.NoError(t, v.MoveIn(tgt.RootPath, tgt))
	assert.False(t, testutil.PathExists(t, tgt.RootPath))
	assert.Equal(t, before, testutil.Snapshot(t, tgt.StoragePath))
	assert.Equal(t, []string{".cursor"}, testutil.Names(t, v.Dir()), "no staging copy left behind")

	info, err := os.Stat(filepath.Join(tgt.StoragePath, "rules.md"))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(stamp))

	require.NoError(t, v.MoveOut(tgt, tgt.RootPath))
	assert.Equal(t, before, testutil.Snapshot(t, tgt.RootPath))
	assert.Empty(t, testutil.Names(t, v.Dir()))
}

func TestCrossDeviceCopyFailureKeepsSource(t *testing.T) {
	inner := filesystem.NewOS()
	fs := testutil.NewFaultFS(inner)
	root, v, tgt := setup(t, fs)
	testutil.CreateFile(t, root, ".cursor/rules.md", "rules")
	require.NoError(t, v.Ensure())

	// Every rename fails across devices, so the staging copy is never promoted
	fs.RenameHook = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}

	err := v.MoveIn(tgt.RootPath, tgt)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIO))
	assert.Equal(t, "rules", testutil.ReadFile(t, filepath.Join(tgt.RootPath, "rules.md")))
	assert.Empty(t, testutil.Names(t, v.Dir()), "staging copy is discarded")
}

func TestRenameFailureIsIO(t *testing.T) {
	fs := testutil.NewFaultFS(filesystem.NewOS())
	root, v, tgt := setup(t, fs)
	testutil.CreateFile(t, root, ".cursor/rules.md", "rules")
	fs.RenameHook = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EACCES}
	}

	err := v.MoveIn(tgt.RootPath, tgt)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIO))
	assert.True(t, testutil.FileExists(t, filepath.Join(tgt.RootPath, "rules.md")))
}

func TestListSkipsPartials(t *testing.T) {
	_, v, _ := setup(t, filesystem.NewOS())

	names, err := v.List()
	require.NoError(t, err)
	assert.Empty(t, names, "missing vault lists as empty")

	testutil.CreateDir(t, v.Dir(), ".idea")
	testutil.CreateDir(t, v.Dir(), ".cursor")
	testutil.CreateDir(t, v.Dir(), ".cursor"+vault.PartialInfix+"deadbeef")

	names, err = v.List()
	require.NoError(t, err)
	assert.Equal(t, []string{".cursor", ".idea"}, names)
	assert.True(t, vault.IsPartial(".cursor.cloak-partial-00"))
	assert.False(t, vault.IsPartial(".cursor"))
}
