package testutil

import (
	"io/fs"

	"github.com/arthur-debert/cloak/pkg/types"
)

// FaultFS wraps a types.FS and lets a test replace individual calls.
// A nil hook delegates to the wrapped filesystem.
type FaultFS struct {
	types.FS

	RenameHook    func(oldpath, newpath string) error
	WriteFileHook func(name string, data []byte, perm fs.FileMode) error
	RemoveAllHook func(path string) error
}

// NewFaultFS wraps inner with no faults installed.
func NewFaultFS(inner types.FS) *FaultFS {
	return &FaultFS{FS: inner}
}

func (f *FaultFS) Rename(oldpath, newpath string) error {
	if f.RenameHook != nil {
		return f.RenameHook(oldpath, newpath)
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if f.WriteFileHook != nil {
		return f.WriteFileHook(name, data, perm)
	}
	return f.FS.WriteFile(name, data, perm)
}

func (f *FaultFS) RemoveAll(path string) error {
	if f.RemoveAllHook != nil {
		return f.RemoveAllHook(path)
	}
	return f.FS.RemoveAll(path)
}
