//go:build !windows

package linker

import (
	"io/fs"
	"os"

	"github.com/arthur-debert/cloak/pkg/types"
)

func (osPlatform) Symlink(dest, link string) (types.Mechanism, error) {
	return types.MechanismSymlink, os.Symlink(dest, link)
}

func (osPlatform) IsLink(info fs.FileInfo) bool {
	return info.Mode()&fs.ModeSymlink != 0
}
