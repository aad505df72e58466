// Package target validates candidate target names and derives their paths.
//
// A target is always a single entry directly under the project root. The
// validator runs before any other component touches the filesystem and has
// no side effects of its own.
package target

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/arthur-debert/cloak/pkg/errors"
	"github.com/arthur-debert/cloak/pkg/types"
)

// Reserved names that can never be managed as targets
const (
	VaultDirName = ".cloak"
	GitDirName   = ".git"
)

// Validate checks name and returns the Target rooted at root with its
// storage path under vaultRoot.
func Validate(root, vaultRoot, name string) (types.Target, error) {
	// Shell completion leaves trailing separators on directories
	trimmed := strings.TrimRight(name, `/\`)

	if err := checkName(name, trimmed); err != nil {
		return types.Target{}, err
	}

	rootPath := filepath.Join(root, trimmed)
	rel, err := filepath.Rel(filepath.Clean(root), rootPath)
	if err != nil || rel != trimmed {
		return types.Target{}, invalid(name, "resolves outside the project root")
	}

	return types.Target{
		Name:        trimmed,
		RootPath:    rootPath,
		StoragePath: filepath.Join(vaultRoot, trimmed),
	}, nil
}

// ValidateAll validates every name, stopping at the first invalid one.
func ValidateAll(root, vaultRoot string, names []string) ([]types.Target, error) {
	targets := make([]types.Target, 0, len(names))
	for _, name := range names {
		t, err := Validate(root, vaultRoot, name)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, nil
}

func checkName(original, name string) error {
	switch {
	case original == "":
		return invalid(original, "target name cannot be empty")
	case name == "":
		return invalid(original, "target name cannot be a bare separator")
	case filepath.IsAbs(original) || strings.HasPrefix(original, "/") || strings.HasPrefix(original, `\`) || filepath.VolumeName(original) != "":
		return invalid(original, "absolute paths are not allowed")
	case name == "." || name == "..":
		return invalid(original, "relative references are not allowed")
	case strings.ContainsAny(name, `/\`):
		return invalid(original, "target must be a single top-level entry")
	case strings.ContainsFunc(name, func(r rune) bool { return r == 0 || unicode.IsControl(r) }):
		return invalid(original, "target name contains control characters")
	case strings.EqualFold(name, VaultDirName):
		return invalid(original, "the vault itself cannot be a target")
	case strings.EqualFold(name, GitDirName):
		return invalid(original, "the git directory cannot be a target")
	}
	return nil
}

func invalid(name, reason string) error {
	return errors.Newf(errors.ErrValidation, "invalid target %q: %s", name, reason).
		WithDetail("target", name)
}
