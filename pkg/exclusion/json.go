package exclusion

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/arthur-debert/cloak/pkg/errors"
	"github.com/arthur-debert/cloak/pkg/logging"
	"github.com/arthur-debert/cloak/pkg/types"
	"github.com/rs/zerolog"
	"github.com/tailscale/hujson"
	"github.com/tidwall/gjson"
)

// ExcludeKey is the settings key holding the exclusion map
const ExcludeKey = "files.exclude"

const defaultIndent = "    "

// JSONEditor edits the files.exclude map of a JSON-with-comments file
type JSONEditor struct {
	fs     types.FS
	path   string
	logger zerolog.Logger
}

// NewJSONEditor returns an editor for the settings file at path
func NewJSONEditor(fs types.FS, path string) *JSONEditor {
	return &JSONEditor{
		fs:     fs,
		path:   path,
		logger: logging.GetLogger("exclusion.json"),
	}
}

func (e *JSONEditor) Path() string {
	return e.path
}

func (e *JSONEditor) Has(pattern string) (bool, error) {
	doc, _, err := e.load()
	if err != nil {
		return false, err
	}
	return lookup(doc, pattern).Type == gjson.True, nil
}

func (e *JSONEditor) Add(pattern string) (bool, error) {
	doc, _, err := e.load()
	if err != nil {
		return false, err
	}
	if lookup(doc, pattern).Type == gjson.True {
		return false, nil
	}

	root := doc.Value.(*hujson.Object)
	unit := indentUnit(root)

	exclude := findMember(root, ExcludeKey)
	if exclude == nil {
		appendMember(root, ExcludeKey, hujson.Value{Value: &hujson.Object{}}, unit, 1)
		exclude = &root.Members[len(root.Members)-1]
	}
	excludeObj, ok := exclude.Value.Value.(*hujson.Object)
	if !ok {
		return false, errors.Newf(errors.ErrConfigParse, "%s in %s is not an object", ExcludeKey, e.path)
	}

	if m := findMember(excludeObj, pattern); m != nil {
		m.Value.Value = hujson.Literal("true")
	} else {
		appendMember(excludeObj, pattern, hujson.Value{Value: hujson.Literal("true")}, unit, 2)
	}

	if err := e.save(doc); err != nil {
		return false, err
	}
	e.logger.Debug().Str("path", e.path).Str("pattern", pattern).Msg("Exclusion added")
	return true, nil
}

// Remove drops pattern and the legacy bare-name key. An exclusion map left
// empty is removed, and a file left as an empty object is deleted together
// with its directory when nothing else is in it.
func (e *JSONEditor) Remove(pattern string) (bool, error) {
	doc, found, err := e.load()
	if err != nil || !found {
		return false, err
	}

	root := doc.Value.(*hujson.Object)
	exclude := findMember(root, ExcludeKey)
	if exclude == nil {
		return false, nil
	}
	excludeObj, ok := exclude.Value.Value.(*hujson.Object)
	if !ok {
		return false, nil
	}

	changed := removeMember(excludeObj, pattern)
	if legacy := bareName(pattern); legacy != pattern {
		changed = removeMember(excludeObj, legacy) || changed
	}
	if !changed {
		return false, nil
	}

	if len(excludeObj.Members) == 0 {
		removeMember(root, ExcludeKey)
	}

	if len(root.Members) == 0 && isSpace(root.AfterExtra) && isSpace(doc.BeforeExtra) {
		if err := e.fs.Remove(e.path); err != nil {
			return false, errors.Wrapf(err, errors.ErrIO, "failed to remove %s", e.path)
		}
		e.logger.Debug().Str("path", e.path).Msg("Removed empty settings file")
		e.removeDirIfEmpty()
		return true, nil
	}

	if err := e.save(doc); err != nil {
		return false, err
	}
	e.logger.Debug().Str("path", e.path).Str("pattern", pattern).Msg("Exclusion removed")
	return true, nil
}

// load parses the settings file. A missing or blank file is an empty object.
func (e *JSONEditor) load() (hujson.Value, bool, error) {
	data, err := e.fs.ReadFile(e.path)
	if err != nil {
		if os.IsNotExist(err) {
			return emptyDocument(), false, nil
		}
		return hujson.Value{}, false, errors.Wrapf(err, errors.ErrIO, "failed to read %s", e.path)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return emptyDocument(), true, nil
	}

	doc, err := hujson.Parse(data)
	if err != nil {
		return hujson.Value{}, true, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", e.path)
	}
	if _, ok := doc.Value.(*hujson.Object); !ok {
		return hujson.Value{}, true, errors.Newf(errors.ErrConfigParse, "%s is not a JSON object, refusing to edit it", e.path)
	}
	return doc, true, nil
}

func (e *JSONEditor) removeDirIfEmpty() {
	dir := filepath.Dir(e.path)
	entries, err := e.fs.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}
	if err := e.fs.Remove(dir); err != nil {
		e.logger.Debug().Err(err).Str("path", dir).Msg("Left empty settings directory in place")
		return
	}
	e.logger.Debug().Str("path", dir).Msg("Removed empty settings directory")
}

func (e *JSONEditor) save(doc hujson.Value) error {
	if err := e.fs.MkdirAll(filepath.Dir(e.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to create %s", filepath.Dir(e.path))
	}
	if err := e.fs.WriteFile(e.path, doc.Pack(), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to write %s", e.path)
	}
	return nil
}

func emptyDocument() hujson.Value {
	return hujson.Value{Value: &hujson.Object{}, AfterExtra: hujson.Extra("\n")}
}

// lookup finds files.exclude[pattern] on a standardized copy of doc
func lookup(doc hujson.Value, pattern string) gjson.Result {
	std := doc.Clone()
	std.Standardize()
	return gjson.GetBytes(std.Pack(), escapePath(ExcludeKey)+"."+escapePath(pattern))
}

// escapePath escapes a key for use as one gjson path component
func escapePath(key string) string {
	var b strings.Builder
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func memberName(m hujson.ObjectMember) string {
	lit, ok := m.Name.Value.(hujson.Literal)
	if !ok {
		return ""
	}
	var name string
	if err := json.Unmarshal(lit, &name); err != nil {
		return ""
	}
	return name
}

func findMember(obj *hujson.Object, name string) *hujson.ObjectMember {
	for i := range obj.Members {
		if memberName(obj.Members[i]) == name {
			return &obj.Members[i]
		}
	}
	return nil
}

// appendMember adds name: value after the last member, copying the layout of
// existing members so the file keeps its indentation style.
//
// hujson keeps the extra before a closing brace in Object.AfterExtra and
// packs a trailing comma after a last member whose Value.AfterExtra is
// non-nil, so the new last member is left with a nil AfterExtra.
func appendMember(obj *hujson.Object, name string, value hujson.Value, unit string, depth int) {
	quoted, _ := json.Marshal(name)
	member := hujson.ObjectMember{
		Name:  hujson.Value{Value: hujson.Literal(quoted)},
		Value: value,
	}
	member.Value.BeforeExtra = hujson.Extra(" ")
	member.Value.AfterExtra = nil

	if n := len(obj.Members); n > 0 {
		last := &obj.Members[n-1]
		member.Name.BeforeExtra = hujson.Extra("\n" + lineIndent(last.Name.BeforeExtra, strings.Repeat(unit, depth)))
		if len(last.Value.BeforeExtra) > 0 && isSpace(last.Value.BeforeExtra) {
			member.Value.BeforeExtra = append(hujson.Extra(nil), last.Value.BeforeExtra...)
		}
		if last.Value.AfterExtra == nil {
			// Trailing comments stay on the old last member, ahead of its new comma
			last.Value.AfterExtra, obj.AfterExtra = splitClosing(obj.AfterExtra)
		}
	} else {
		member.Name.BeforeExtra = hujson.Extra("\n" + strings.Repeat(unit, depth))
		if !isSpace(obj.AfterExtra) {
			member.Name.BeforeExtra = append(append(hujson.Extra(nil), obj.AfterExtra...), member.Name.BeforeExtra...)
		}
		obj.AfterExtra = hujson.Extra("\n" + strings.Repeat(unit, depth-1))
	}

	// A nested object created empty gets its closing brace on its own line
	if child, ok := member.Value.Value.(*hujson.Object); ok && len(child.Members) == 0 {
		child.AfterExtra = hujson.Extra("\n" + strings.Repeat(unit, depth))
	}

	obj.Members = append(obj.Members, member)
}

// splitClosing splits the extra before a closing brace into the trailing
// comments that stay with the last member and the closing line that stays
// with the brace. A line comment keeps its newline so the comma packed
// after it is not swallowed by the comment.
func splitClosing(extra hujson.Extra) (keep, closing hujson.Extra) {
	if isSpace(extra) {
		return nil, extra
	}
	i := bytes.LastIndexByte(extra, '\n')
	if i < 0 || !isSpace(extra[i:]) {
		return extra, nil
	}
	keep = append(hujson.Extra(nil), extra[:i]...)
	if bytes.Contains(keep, []byte("//")) {
		keep = append(keep, '\n')
	}
	return keep, append(hujson.Extra(nil), extra[i:]...)
}

// removeMember deletes the member called name. When it was last, the new
// last member hands its trailing comments back to the closing brace.
func removeMember(obj *hujson.Object, name string) bool {
	for i := range obj.Members {
		if memberName(obj.Members[i]) != name {
			continue
		}
		removed := obj.Members[i]
		obj.Members = append(obj.Members[:i], obj.Members[i+1:]...)

		switch {
		case i < len(obj.Members):
		case i == 0:
			if isSpace(obj.AfterExtra) {
				obj.AfterExtra = trimIndent(obj.AfterExtra)
			}
		case removed.Value.AfterExtra == nil:
			prev := &obj.Members[i-1]
			obj.AfterExtra = joinClosing(prev.Value.AfterExtra, obj.AfterExtra)
			prev.Value.AfterExtra = nil
		}
		return true
	}
	return false
}

// joinClosing is the inverse of splitClosing
func joinClosing(keep, closing hujson.Extra) hujson.Extra {
	if bytes.HasSuffix(keep, []byte("\n")) && bytes.HasPrefix(closing, []byte("\n")) {
		keep = keep[:len(keep)-1]
	}
	return append(append(hujson.Extra(nil), keep...), closing...)
}

// indentUnit guesses one indentation step from the first top-level member
func indentUnit(root *hujson.Object) string {
	if len(root.Members) == 0 {
		return defaultIndent
	}
	if ind := lineIndent(root.Members[0].Name.BeforeExtra, ""); ind != "" {
		return ind
	}
	return defaultIndent
}

// lineIndent returns the whitespace after the last newline in extra, or
// fallback when extra holds no newline.
func lineIndent(extra hujson.Extra, fallback string) string {
	i := bytes.LastIndexByte(extra, '\n')
	if i < 0 {
		return fallback
	}
	ind := extra[i+1:]
	if !isSpace(ind) {
		return fallback
	}
	return string(ind)
}

// trimIndent keeps only a single newline from closing whitespace
func trimIndent(extra hujson.Extra) hujson.Extra {
	if bytes.IndexByte(extra, '\n') >= 0 {
		return hujson.Extra("\n")
	}
	return nil
}

func isSpace(b []byte) bool {
	return len(bytes.TrimSpace(b)) == 0
}
