//go:build darwin

package linker

import (
	"fmt"
	"os/exec"
)

// setHidden toggles the UF_HIDDEN flag on the link itself (-h), which is
// what Finder consults.
func setHidden(path string, hidden bool) error {
	flag := "nohidden"
	if hidden {
		flag = "hidden"
	}
	out, err := exec.Command("chflags", "-h", flag, path).CombinedOutput()
	if err != nil {
		return fmt.Errorf("chflags %s: %w: %s", flag, err, out)
	}
	return nil
}
