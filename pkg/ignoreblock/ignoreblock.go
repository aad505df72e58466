// Package ignoreblock maintains cloak's sections of the project ignore file.
//
// Two sections are owned. The static section ignores the vault internals
// while keeping the storage subtree visible to git:
//
//	# --- Cloak ---
//	/.cloak/*
//	!/.cloak/storage/
//
// The managed section lists one /<name> line per hidden target between
// fixed markers and is regenerated in full on every sync. Lines outside the
// two sections are never touched, and syncing the same set twice yields a
// byte-identical file.
package ignoreblock

import (
	"os"
	"sort"
	"strings"

	"github.com/arthur-debert/cloak/pkg/errors"
	"github.com/arthur-debert/cloak/pkg/logging"
	"github.com/arthur-debert/cloak/pkg/types"
	"github.com/rs/zerolog"
)

// Section markers
const (
	StaticHeader = "# --- Cloak ---"
	ManagedStart = "# >>> cloak managed"
	ManagedEnd   = "# <<< cloak managed"
)

// StaticLines is the full static section, header first
var StaticLines = []string{StaticHeader, "/.cloak/*", "!/.cloak/storage/"}

// Manager edits one ignore file
type Manager struct {
	fs     types.FS
	path   string
	logger zerolog.Logger
}

// New returns a Manager for the ignore file at path
func New(fs types.FS, path string) *Manager {
	return &Manager{
		fs:     fs,
		path:   path,
		logger: logging.GetLogger("ignoreblock"),
	}
}

// Path returns the ignore file path
func (m *Manager) Path() string {
	return m.path
}

// Sync rewrites both sections so the managed one lists exactly names.
// It reports whether the file changed; an unchanged file is not written.
func (m *Manager) Sync(names []string) (bool, error) {
	current, err := m.read()
	if err != nil {
		return false, err
	}

	next := Render(current, names)
	if next == current {
		return false, nil
	}

	if err := m.fs.WriteFile(m.path, []byte(next), 0644); err != nil {
		return false, errors.Wrapf(err, errors.ErrIO, "failed to write %s", m.path)
	}
	m.logger.Debug().Str("path", m.path).Strs("entries", normalize(names)).Msg("Ignore file synced")
	return true, nil
}

// Entries returns the target names listed in the managed section
func (m *Manager) Entries() ([]string, error) {
	content, err := m.read()
	if err != nil {
		return nil, err
	}
	return Parse(content), nil
}

func (m *Manager) read() (string, error) {
	data, err := m.fs.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrapf(err, errors.ErrIO, "failed to read %s", m.path)
	}
	return string(data), nil
}

// Parse extracts the names in the first complete managed section
func Parse(content string) []string {
	lines, _ := splitLines(content)
	blocks := pairBlocks(lines)
	if len(blocks) == 0 {
		return nil
	}

	var names []string
	for _, line := range lines[blocks[0].start+1 : blocks[0].end] {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, strings.TrimPrefix(line, "/"))
	}
	return names
}

// Render returns content with both sections in canonical form
func Render(content string, names []string) string {
	lines, eol := splitLines(content)
	blocks := pairBlocks(lines)

	starts := map[int]int{}
	for i, b := range blocks {
		starts[b.start] = i
	}
	markers := map[int]bool{}
	for _, b := range blocks {
		markers[b.start], markers[b.end] = true, true
	}

	var out []string
	staticDone, managedDone := false, false
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if bi, ok := starts[i]; ok {
			if !managedDone {
				out = append(out, managedLines(names)...)
				managedDone = true
			}
			i = blocks[bi].end
			continue
		}

		switch {
		case trimmed == StaticHeader:
			if !staticDone {
				out = append(out, StaticLines...)
				staticDone = true
			}
			// Swallow the body that follows the header, canonical or not
			for i+1 < len(lines) && isStaticBody(lines[i+1]) {
				i++
			}
		case (trimmed == ManagedStart || trimmed == ManagedEnd) && !markers[i]:
			// Orphan marker
		default:
			out = append(out, line)
		}
	}

	if !staticDone {
		out = appendSection(out, StaticLines)
	}
	if !managedDone {
		out = appendSection(out, managedLines(names))
	}

	return strings.Join(out, eol) + eol
}

type block struct{ start, end int }

// pairBlocks matches each start marker with the next end marker
func pairBlocks(lines []string) []block {
	var blocks []block
	start := -1
	for i, line := range lines {
		switch strings.TrimSpace(line) {
		case ManagedStart:
			start = i
		case ManagedEnd:
			if start >= 0 {
				blocks = append(blocks, block{start: start, end: i})
				start = -1
			}
		}
	}
	return blocks
}

func managedLines(names []string) []string {
	lines := []string{ManagedStart}
	for _, name := range normalize(names) {
		lines = append(lines, "/"+name)
	}
	return append(lines, ManagedEnd)
}

// normalize sorts and deduplicates names
func normalize(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	j := 0
	for i, n := range out {
		if n == "" || (i > 0 && n == out[i-1]) {
			continue
		}
		out[j] = n
		j++
	}
	return out[:j]
}

// appendSection adds section at the end, separated by one blank line
func appendSection(out, section []string) []string {
	if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
		out = append(out, "")
	}
	return append(out, section...)
}

func isStaticBody(line string) bool {
	switch strings.TrimSpace(line) {
	case StaticLines[1], StaticLines[2]:
		return true
	}
	return false
}

// splitLines splits content into lines and reports its line ending
func splitLines(content string) ([]string, string) {
	eol := "\n"
	if strings.Contains(content, "\r\n") {
		eol = "\r\n"
	}
	if content == "" {
		return nil, eol
	}
	content = strings.TrimSuffix(content, eol)
	return strings.Split(content, eol), eol
}
