package project

import (
	"fmt"
	"path"

	"github.com/yaklabco/gorazor/pkg/source"
)

// ImportItems returns the existing import files that apply to the template
// at p: every _ViewImports.cshtml from the project root down to the
// template's directory, outermost first. An import file does not import
// itself.
func ImportItems(fsys FileSystem, p string) []Item {
	p = NormalizePath(p)

	var dirs []string
	for dir := path.Dir(p); ; dir = path.Dir(dir) {
		dirs = append(dirs, dir)
		if dir == "/" {
			break
		}
	}

	var items []Item
	for i := len(dirs) - 1; i >= 0; i-- {
		candidate := path.Join(dirs[i], ImportsFileName)
		if candidate == p {
			continue
		}
		if item := fsys.GetItem(candidate); item.Exists() {
			items = append(items, item)
		}
	}
	return items
}

// Imports reads the import documents of the template at p. The defaults
// come first, followed by the import files of ImportItems.
func Imports(fsys FileSystem, p string, enc source.Encoding, defaults ...*source.Document) ([]*source.Document, error) {
	docs := append([]*source.Document(nil), defaults...)
	for _, item := range ImportItems(fsys, p) {
		doc, err := item.Document(enc)
		if err != nil {
			return nil, fmt.Errorf("read import %s: %w", item.Path, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
