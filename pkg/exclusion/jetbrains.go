package exclusion

import (
	"os"
	"strings"

	"github.com/arthur-debert/cloak/pkg/errors"
	"github.com/arthur-debert/cloak/pkg/logging"
	"github.com/arthur-debert/cloak/pkg/types"
	"github.com/beevik/etree"
	"github.com/rs/zerolog"
)

const (
	moduleManagerPath = "component[@name='NewModuleRootManager']"
	moduleDirURL      = "file://$MODULE_DIR$"
)

// JetBrainsEditor edits the excludeFolder entries of an IntelliJ module file.
// Only existing module files are edited; the IDE owns their creation.
type JetBrainsEditor struct {
	fs     types.FS
	path   string
	logger zerolog.Logger
}

// NewJetBrainsEditor returns an editor for the .iml file at path
func NewJetBrainsEditor(fs types.FS, path string) *JetBrainsEditor {
	return &JetBrainsEditor{
		fs:     fs,
		path:   path,
		logger: logging.GetLogger("exclusion.jetbrains"),
	}
}

func (e *JetBrainsEditor) Path() string {
	return e.path
}

func (e *JetBrainsEditor) Has(pattern string) (bool, error) {
	doc, err := e.load()
	if err != nil || doc == nil {
		return false, err
	}
	content := findContent(doc)
	return content != nil && findExclude(content, bareName(pattern)) != nil, nil
}

func (e *JetBrainsEditor) Add(pattern string) (bool, error) {
	doc, err := e.load()
	if err != nil || doc == nil {
		return false, err
	}

	content := findContent(doc)
	if content == nil {
		manager := doc.Root().FindElement(moduleManagerPath)
		if manager == nil {
			manager = doc.Root().CreateElement("component")
			manager.CreateAttr("name", "NewModuleRootManager")
		}
		content = manager.CreateElement("content")
		content.CreateAttr("url", moduleDirURL)
	}

	name := bareName(pattern)
	if findExclude(content, name) != nil {
		return false, nil
	}

	el := etree.NewElement("excludeFolder")
	el.CreateAttr("url", excludeURL(content, name))
	insertIndented(content, el)

	if err := e.save(doc); err != nil {
		return false, err
	}
	e.logger.Debug().Str("path", e.path).Str("folder", name).Msg("Exclusion added")
	return true, nil
}

func (e *JetBrainsEditor) Remove(pattern string) (bool, error) {
	doc, err := e.load()
	if err != nil || doc == nil {
		return false, err
	}
	content := findContent(doc)
	if content == nil {
		return false, nil
	}
	el := findExclude(content, bareName(pattern))
	if el == nil {
		return false, nil
	}

	// Take the indentation in front of the element with it
	if i := el.Index(); i > 0 {
		if cd, ok := content.Child[i-1].(*etree.CharData); ok && cd.IsWhitespace() {
			content.RemoveChild(cd)
		}
	}
	content.RemoveChild(el)

	if err := e.save(doc); err != nil {
		return false, err
	}
	e.logger.Debug().Str("path", e.path).Str("folder", bareName(pattern)).Msg("Exclusion removed")
	return true, nil
}

// load returns nil when the module file does not exist
func (e *JetBrainsEditor) load() (*etree.Document, error) {
	data, err := e.fs.ReadFile(e.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to read %s", e.path)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", e.path)
	}
	if doc.Root() == nil || doc.Root().Tag != "module" {
		return nil, errors.Newf(errors.ErrConfigParse, "%s is not a module file", e.path)
	}
	return doc, nil
}

func (e *JetBrainsEditor) save(doc *etree.Document) error {
	data, err := doc.WriteToBytes()
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to serialise %s", e.path)
	}
	if err := e.fs.WriteFile(e.path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to write %s", e.path)
	}
	return nil
}

func findContent(doc *etree.Document) *etree.Element {
	return doc.Root().FindElement(moduleManagerPath + "/content")
}

func excludeURL(content *etree.Element, name string) string {
	base := strings.TrimRight(content.SelectAttrValue("url", moduleDirURL), "/")
	return base + "/" + name
}

func findExclude(content *etree.Element, name string) *etree.Element {
	want := excludeURL(content, name)
	for _, el := range content.SelectElements("excludeFolder") {
		if el.SelectAttrValue("url", "") == want {
			return el
		}
	}
	return nil
}

// insertIndented adds el after the last excludeFolder, or at the end of
// parent, reusing the indentation of the surrounding markup.
func insertIndented(parent, el *etree.Element) {
	indent := childIndent(parent)

	excludes := parent.SelectElements("excludeFolder")
	if len(excludes) > 0 {
		at := excludes[len(excludes)-1].Index() + 1
		parent.InsertChildAt(at, etree.NewText(indent))
		parent.InsertChildAt(at+1, el)
		return
	}

	n := len(parent.Child)
	if n == 0 {
		parent.AddChild(etree.NewText(indent))
		parent.AddChild(el)
		parent.AddChild(etree.NewText(closingIndent(parent)))
		return
	}
	if cd, ok := parent.Child[n-1].(*etree.CharData); ok && cd.IsWhitespace() {
		parent.InsertChildAt(n-1, etree.NewText(indent))
		parent.InsertChildAt(n, el)
		return
	}
	parent.AddChild(etree.NewText(indent))
	parent.AddChild(el)
}

// childIndent is the whitespace used in front of parent's children
func childIndent(parent *etree.Element) string {
	for _, tok := range parent.Child {
		if cd, ok := tok.(*etree.CharData); ok && cd.IsWhitespace() && strings.Contains(cd.Data, "\n") {
			if _, isEl := nextElement(parent, cd); isEl {
				return cd.Data
			}
		}
	}
	return closingIndent(parent) + "  "
}

// closingIndent is the whitespace in front of parent itself
func closingIndent(parent *etree.Element) string {
	if p := parent.Parent(); p != nil {
		if i := parent.Index(); i > 0 {
			if cd, ok := p.Child[i-1].(*etree.CharData); ok && cd.IsWhitespace() {
				return cd.Data
			}
		}
	}
	return "\n"
}

func nextElement(parent *etree.Element, cd *etree.CharData) (*etree.Element, bool) {
	i := cd.Index() + 1
	if i >= len(parent.Child) {
		return nil, false
	}
	el, ok := parent.Child[i].(*etree.Element)
	return el, ok
}
