package engine

import (
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/arthur-debert/cloak/pkg/errors"
	"github.com/arthur-debert/cloak/pkg/exclusion"
	"github.com/arthur-debert/cloak/pkg/filesystem"
	"github.com/arthur-debert/cloak/pkg/ignoreblock"
	"github.com/arthur-debert/cloak/pkg/linker"
	"github.com/arthur-debert/cloak/pkg/logging"
	"github.com/arthur-debert/cloak/pkg/target"
	"github.com/arthur-debert/cloak/pkg/types"
	"github.com/arthur-debert/cloak/pkg/vault"
	"github.com/rs/zerolog"
)

// DefaultIgnoreFile is the ignore file used when none is configured
const DefaultIgnoreFile = ".gitignore"

// SettingsFile is a JSON settings file holding a files.exclude map, relative
// to the project root. Unless Always is set it is only edited when its
// directory already exists.
type SettingsFile struct {
	Path   string
	Always bool
}

// Options configures an Engine
type Options struct {
	Root       string
	IgnoreFile string
	Settings   []SettingsFile
	// JetBrains enables editing .idea/*.iml module files
	JetBrains bool

	FileSystem types.FS        // Allow injecting a filesystem for testing
	Platform   linker.Platform // Allow injecting link behaviour for testing
}

// Engine runs hide, unhide and status for one project root
type Engine struct {
	root      string
	fs        types.FS
	vault     *vault.Vault
	links     *linker.Manager
	ignore    *ignoreblock.Manager
	settings  []SettingsFile
	jetbrains bool
	logger    zerolog.Logger
}

// New returns an Engine for opts.Root
func New(opts Options) *Engine {
	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}
	platform := opts.Platform
	if platform == nil {
		platform = linker.NewPlatform()
	}
	ignoreFile := opts.IgnoreFile
	if ignoreFile == "" {
		ignoreFile = DefaultIgnoreFile
	}

	root := filepath.Clean(opts.Root)
	v := vault.New(fs, root)
	return &Engine{
		root:      root,
		fs:        fs,
		vault:     v,
		links:     linker.NewManager(fs, platform, v.Dir()),
		ignore:    ignoreblock.New(fs, filepath.Join(root, ignoreFile)),
		settings:  opts.Settings,
		jetbrains: opts.JetBrains,
		logger:    logging.GetLogger("engine"),
	}
}

// Root returns the project root
func (e *Engine) Root() string {
	return e.root
}

// Target validates name against this root
func (e *Engine) Target(name string) (types.Target, error) {
	return target.Validate(e.root, e.vault.Dir(), name)
}

// Init creates the vault and writes both ignore sections
func (e *Engine) Init() error {
	if err := e.vault.Ensure(); err != nil {
		return err
	}
	hidden, err := e.hiddenNames()
	if err != nil {
		return err
	}
	if _, err := e.ignore.Sync(hidden); err != nil {
		return err
	}
	e.logger.Info().Str("root", e.root).Msg("Initialized")
	return nil
}

// Classify reports the state of a single name
func (e *Engine) Classify(name string) (types.TargetStatus, error) {
	t, err := e.Target(name)
	if err != nil {
		return types.TargetStatus{}, err
	}
	return e.status(t)
}

// classify derives the state of t from the root path and the vault entry
func (e *Engine) classify(t types.Target) (types.State, types.LinkStatus, error) {
	link, err := e.links.VerifyLink(t)
	if err != nil {
		return "", link, err
	}
	inVault, err := e.vault.Has(t)
	if err != nil {
		return "", link, errors.Wrapf(err, errors.ErrIO, "failed to inspect %s", t.StoragePath)
	}

	switch link.Health {
	case types.LinkHealthy:
		return types.StateHidden, link, nil
	case types.LinkNotLink:
		if inVault {
			return types.StateConflicted, link, nil
		}
		return types.StateVisible, link, nil
	case types.LinkOrphaned:
		if inVault || link.IntoVault {
			return types.StateOrphanedLink, link, nil
		}
		return types.StateUnmanaged, link, nil
	default:
		if inVault {
			return types.StateOrphanedStorage, link, nil
		}
		return types.StateAbsent, link, nil
	}
}

// Status classifies every vault entry and every root link pointing into the
// vault, plus every visible catalog name and top-level dot-directory.
// It never mutates.
func (e *Engine) Status(catalog []string) ([]types.TargetStatus, error) {
	names, err := e.managedNames()
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var out []types.TargetStatus
	for _, name := range names {
		t, err := e.Target(name)
		if err != nil {
			continue
		}
		st, err := e.status(t)
		if err != nil {
			return nil, err
		}
		seen[name] = true
		out = append(out, st)
	}

	for _, name := range catalog {
		t, err := e.Target(name)
		if err != nil || seen[t.Name] {
			continue
		}
		st, err := e.status(t)
		if err != nil {
			return nil, err
		}
		if st.State == types.StateVisible {
			seen[t.Name] = true
			out = append(out, st)
		}
	}

	visible, err := e.visibleDotDirs(seen)
	if err != nil {
		return nil, err
	}
	out = append(out, visible...)

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Managed lists the names cloak currently manages: vault entries and root
// links pointing into the vault, whatever their state.
func (e *Engine) Managed() ([]string, error) {
	return e.managedNames()
}

// visibleDotDirs classifies the real top-level dot-directories not already
// in seen. The vault and .git are rejected by validation.
func (e *Engine) visibleDotDirs(seen map[string]bool) ([]types.TargetStatus, error) {
	entries, err := e.fs.ReadDir(e.root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to list %s", e.root)
	}
	var out []types.TargetStatus
	for _, entry := range entries {
		name := entry.Name()
		if seen[name] || !entry.IsDir() || !strings.HasPrefix(name, ".") {
			continue
		}
		t, err := e.Target(name)
		if err != nil {
			continue
		}
		st, err := e.status(t)
		if err != nil {
			return nil, err
		}
		if st.State == types.StateVisible {
			out = append(out, st)
		}
	}
	return out, nil
}

func (e *Engine) status(t types.Target) (types.TargetStatus, error) {
	state, link, err := e.classify(t)
	if err != nil {
		return types.TargetStatus{}, err
	}

	st := types.TargetStatus{Name: t.Name, State: state, Link: link.Destination}
	switch state {
	case types.StateHidden:
		st.Drift, err = e.drift(t)
		if err != nil {
			return st, err
		}
	case types.StateOrphanedLink:
		if link.Resolved != "" {
			st.Drift = append(st.Drift, "link resolves to "+e.rel(link.Resolved))
		}
	case types.StateOrphanedStorage:
		st.Drift = append(st.Drift, "link missing at root")
	case types.StateConflicted:
		st.Drift = append(st.Drift, "real entry at root while the vault holds a copy")
	}
	return st, nil
}

// drift lists the ignore and exclusion entries a hidden target is missing
func (e *Engine) drift(t types.Target) ([]string, error) {
	var drift []string

	entries, err := e.ignore.Entries()
	if err != nil {
		return nil, err
	}
	if !slices.Contains(entries, t.Name) {
		drift = append(drift, "not listed in "+e.rel(e.ignore.Path()))
	}

	editors, err := e.editors(t)
	if err != nil {
		return nil, err
	}
	for _, ed := range editors {
		has, err := ed.Has(t.ExcludePattern())
		if err != nil {
			drift = append(drift, "unreadable "+e.rel(ed.Path()))
			continue
		}
		if !has {
			drift = append(drift, "not excluded in "+e.rel(ed.Path()))
		}
	}
	return drift, nil
}

// managedNames lists vault entries and root links pointing into the vault
func (e *Engine) managedNames() ([]string, error) {
	names, err := e.vault.List()
	if err != nil {
		return nil, err
	}

	entries, err := e.fs.ReadDir(e.root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to list %s", e.root)
	}
	for _, entry := range entries {
		name := entry.Name()
		if name == vault.DirName || slices.Contains(names, name) {
			continue
		}
		if !e.links.IsLink(filepath.Join(e.root, name)) {
			continue
		}
		t, err := e.Target(name)
		if err != nil {
			continue
		}
		link, err := e.links.VerifyLink(t)
		if err == nil && link.IntoVault {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// hiddenNames lists the targets currently in the hidden state
func (e *Engine) hiddenNames() ([]string, error) {
	names, err := e.vault.List()
	if err != nil {
		return nil, err
	}
	var hidden []string
	for _, name := range names {
		t, err := e.Target(name)
		if err != nil {
			continue
		}
		state, _, err := e.classify(t)
		if err != nil {
			return nil, err
		}
		if state == types.StateHidden {
			hidden = append(hidden, name)
		}
	}
	return hidden, nil
}

// editors returns the exclusion editors that apply to t. Settings files
// inside t itself are skipped so the target's contents move untouched.
func (e *Engine) editors(t types.Target) ([]exclusion.Editor, error) {
	var editors []exclusion.Editor
	for _, s := range e.settings {
		path := filepath.Join(e.root, s.Path)
		if within(t.RootPath, path) {
			continue
		}
		if !s.Always && !e.isDir(filepath.Dir(path)) {
			continue
		}
		editors = append(editors, exclusion.NewJSONEditor(e.fs, path))
	}

	if e.jetbrains {
		ideaDir := filepath.Join(e.root, ".idea")
		if within(t.RootPath, ideaDir) || t.RootPath == ideaDir {
			return editors, nil
		}
		entries, err := e.fs.ReadDir(ideaDir)
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrIO, "failed to list %s", ideaDir)
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".iml") {
				editors = append(editors, exclusion.NewJetBrainsEditor(e.fs, filepath.Join(ideaDir, entry.Name())))
			}
		}
	}
	return editors, nil
}

func (e *Engine) isDir(path string) bool {
	info, err := e.fs.Stat(path)
	return err == nil && info.IsDir()
}

// rel shortens path for messages
func (e *Engine) rel(path string) string {
	if r, err := filepath.Rel(e.root, path); err == nil && !strings.HasPrefix(r, "..") {
		return r
	}
	return path
}

// within reports whether path lies strictly inside dir
func within(dir, path string) bool {
	return strings.HasPrefix(path, dir+string(filepath.Separator))
}

// with returns names plus name, without duplicates
func with(names []string, name string) []string {
	if slices.Contains(names, name) {
		return names
	}
	return append(append([]string(nil), names...), name)
}

// without returns names minus name
func without(names []string, name string) []string {
	var out []string
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
