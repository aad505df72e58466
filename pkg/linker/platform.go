package linker

import (
	"io/fs"

	"github.com/arthur-debert/cloak/pkg/types"
)

// Platform is the OS capability interface used by Manager
type Platform interface {
	// Symlink creates link pointing to dest, which is relative to the
	// link's directory. It reports the mechanism actually used.
	Symlink(dest, link string) (types.Mechanism, error)
	// IsLink reports whether info (from Lstat) describes a link or junction
	IsLink(info fs.FileInfo) bool
	// SetHidden sets or clears the OS hidden flag on path without following it
	SetHidden(path string, hidden bool) error
}

type osPlatform struct{}

// NewPlatform returns the Platform for the running OS
func NewPlatform() Platform {
	return osPlatform{}
}

func (osPlatform) SetHidden(path string, hidden bool) error {
	return setHidden(path, hidden)
}
