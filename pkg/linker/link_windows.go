//go:build windows

package linker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/arthur-debert/cloak/pkg/types"
	"golang.org/x/sys/windows"
)

// Symlink tries a real symlink first. Without Developer Mode or elevation
// that fails with a privilege error, and directories fall back to a junction,
// which always needs an absolute destination.
func (osPlatform) Symlink(dest, link string) (types.Mechanism, error) {
	err := os.Symlink(dest, link)
	if err == nil {
		return types.MechanismSymlink, nil
	}
	if !errors.Is(err, windows.ERROR_PRIVILEGE_NOT_HELD) && !os.IsPermission(err) {
		return types.MechanismSymlink, err
	}

	abs := dest
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(filepath.Dir(link), dest)
	}
	info, statErr := os.Stat(abs)
	if statErr != nil || !info.IsDir() {
		// Junctions only exist for directories
		return types.MechanismSymlink, err
	}

	out, jerr := exec.Command("cmd", "/c", "mklink", "/J", link, abs).CombinedOutput()
	if jerr != nil {
		return types.MechanismJunction, fmt.Errorf("mklink /J failed: %w: %s", jerr, out)
	}
	return types.MechanismJunction, nil
}

// IsLink accepts symlinks and mount points. Recent Go releases report
// junctions as irregular files rather than symlinks.
func (osPlatform) IsLink(info fs.FileInfo) bool {
	return info.Mode()&(fs.ModeSymlink|fs.ModeIrregular) != 0
}
