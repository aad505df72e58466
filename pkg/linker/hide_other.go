//go:build !darwin && !windows

package linker

// Dot-prefixed names are already hidden by convention here; there is no
// separate attribute to set.
func setHidden(string, bool) error {
	return nil
}
