package config

import (
	"strings"

	"github.com/arthur-debert/cloak/pkg/errors"
	"github.com/arthur-debert/cloak/pkg/types"
	gotoml "github.com/pelletier/go-toml/v2"
)

const fileHeader = "# cloak configuration, see `cloak config --template` for every key\n\n"

// Marshal renders cfg as TOML
func Marshal(cfg *Config) ([]byte, error) {
	data, err := gotoml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return data, nil
}

// Write stores cfg as the project file under root and returns its path
func Write(fs types.FS, root string, cfg *Config) (string, error) {
	data, err := Marshal(cfg)
	if err != nil {
		return "", err
	}
	path := Path(root)
	if err := fs.WriteFile(path, append([]byte(fileHeader), data...), 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrIO, "failed to write %s", path).
			WithDetail("path", path)
	}
	return path, nil
}

// Template returns the defaults with every value commented out, ready to be
// edited into a project file.
func Template() string {
	return commentOutConfigValues(DefaultsContent())
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Keep blank lines as-is
		if trimmed == "" {
			result = append(result, line)
			continue
		}

		// Keep lines that are already comments
		if strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Keep plain table headers; an uncommented [[array]] header would
		// create an empty entry
		if strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "[[") && strings.HasSuffix(trimmed, "]") && !strings.Contains(trimmed, "=") {
			result = append(result, line)
			continue
		}

		// Comment out configuration value lines
		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
