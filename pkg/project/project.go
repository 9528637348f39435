// Package project is the file system templates and their imports are read
// from. Items are addressed by rooted, slash separated project paths such as
// "/Views/Home/Index.cshtml", whatever their physical location.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/gorazor/pkg/source"
)

// ErrNotFound is returned when reading an item that does not exist.
var ErrNotFound = errors.New("project item not found")

// ImportsFileName is the name of the import files applied to every template
// in their directory and below.
const ImportsFileName = "_ViewImports.cshtml"

// Language is the linguist name of template files.
const Language = "HTML+Razor"

// DefaultExtensions are the template extensions enumerated when none are
// configured.
func DefaultExtensions() []string {
	return []string{".cshtml", ".razor"}
}

// FileKind classifies a project item.
type FileKind int

const (
	FileKindOther FileKind = iota
	FileKindTemplate
	FileKindImport
)

func (k FileKind) String() string {
	switch k {
	case FileKindTemplate:
		return "template"
	case FileKindImport:
		return "import"
	default:
		return "other"
	}
}

// Classify returns the kind of the file at p.
func Classify(p string) FileKind {
	base := path.Base(filepath.ToSlash(p))
	if strings.EqualFold(base, ImportsFileName) {
		return FileKindImport
	}
	if lang, _ := enry.GetLanguageByExtension(base); lang == Language {
		return FileKindTemplate
	}
	return FileKindOther
}

// Item is one file of a project. An item that does not exist is still
// returned by GetItem so callers can probe for optional files.
type Item struct {
	// Path is the rooted, slash separated project path.
	Path string
	// PhysicalPath is the location on disk, empty for in-memory items.
	PhysicalPath string
	Kind         FileKind

	open func() (io.ReadCloser, error)
}

// Exists reports whether the item can be read.
func (i Item) Exists() bool { return i.open != nil }

// Read opens the content of the item.
func (i Item) Read() (io.ReadCloser, error) {
	if i.open == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, i.Path)
	}
	return i.open()
}

// Document reads the item as a source document. The document's file path
// is the physical path when there is one and its relative path is the
// project path.
func (i Item) Document(enc source.Encoding) (*source.Document, error) {
	r, err := i.Read()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	filePath := i.PhysicalPath
	if filePath == "" {
		filePath = i.Path
	}
	return source.Read(r, filePath, enc, source.WithRelativePath(i.Path))
}

// FileSystem provides the items of a project.
type FileSystem interface {
	// GetItem returns the item at path. It never fails; use Item.Exists.
	GetItem(path string) Item
	// EnumerateItems returns the template and import items under basePath,
	// sorted by path.
	EnumerateItems(basePath string) ([]Item, error)
}

// NormalizePath returns the rooted, slash separated, cleaned form of p.
func NormalizePath(p string) string {
	return path.Clean("/" + filepath.ToSlash(p))
}

func newItem(p, physical string, open func() (io.ReadCloser, error)) Item {
	return Item{Path: p, PhysicalPath: physical, Kind: Classify(p), open: open}
}

func bytesOpener(content []byte) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(content)), nil
	}
}
