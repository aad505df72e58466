package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/cloak/pkg/errors"
	"github.com/arthur-debert/cloak/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileName is the project configuration file, relative to the root
const FileName = ".cloak.toml"

// EnvPrefix prefixes every environment override
const EnvPrefix = "CLOAK_"

// Settings is one JSON settings file carrying a files.exclude map
type Settings struct {
	Path   string `koanf:"path" toml:"path"`
	Always bool   `koanf:"always" toml:"always"`
}

// Config is the effective configuration for one project root
type Config struct {
	Catalog      []string   `koanf:"catalog" toml:"catalog"`
	ExtraCatalog []string   `koanf:"extra_catalog" toml:"extra_catalog"`
	IgnoreFile   string     `koanf:"ignore_file" toml:"ignore_file"`
	JetBrains    bool       `koanf:"jetbrains" toml:"jetbrains"`
	Settings     []Settings `koanf:"settings" toml:"settings"`
}

// Path returns the project configuration file for root
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Load builds the configuration for root from the embedded defaults, the
// project file and the environment.
func Load(root string) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Load embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Load project config if it exists
	path := Path(root)
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load %s", path).
				WithDetail("path", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded project config")
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to stat %s", path).
			WithDetail("path", path)
	}

	// 3. Load env vars; settings is a table list and cannot come from the environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		if key == "settings" {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 4. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects paths that would make cloak write outside the root
func (c *Config) Validate() error {
	if c.IgnoreFile == "" || !filepath.IsLocal(c.IgnoreFile) {
		return errors.Newf(errors.ErrConfigParse, "ignore_file %q must be a path inside the project", c.IgnoreFile).
			WithDetail("key", "ignore_file")
	}
	for i, s := range c.Settings {
		if s.Path == "" || !filepath.IsLocal(s.Path) {
			return errors.Newf(errors.ErrConfigParse, "settings[%d].path %q must be a path inside the project", i, s.Path).
				WithDetail("key", "settings")
		}
	}
	return nil
}

// EffectiveCatalog returns catalog followed by extra_catalog, without
// duplicates or blanks, in order.
func (c *Config) EffectiveCatalog() []string {
	seen := map[string]bool{}
	var out []string
	for _, name := range append(append([]string(nil), c.Catalog...), c.ExtraCatalog...) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
