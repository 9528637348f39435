package project

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Disk is a FileSystem rooted at a directory.
type Disk struct {
	root       string
	extensions []string
	exclude    []string
}

// DiskOption configures a Disk.
type DiskOption func(*Disk)

// WithExtensions sets the template extensions to enumerate.
func WithExtensions(exts ...string) DiskOption {
	return func(d *Disk) {
		if len(exts) > 0 {
			d.extensions = exts
		}
	}
}

// WithExclude skips items whose project path matches one of the globs.
// "**" matches any number of directories.
func WithExclude(globs ...string) DiskOption {
	return func(d *Disk) {
		d.exclude = append(d.exclude, globs...)
	}
}

// NewDisk creates a file system rooted at root.
func NewDisk(root string, opts ...DiskOption) (*Disk, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", abs)
	}

	d := &Disk{root: abs, extensions: DefaultExtensions()}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Root returns the absolute project root.
func (d *Disk) Root() string { return d.root }

// ProjectPath returns the project path of a physical path under the root.
func (d *Disk) ProjectPath(physical string) (string, error) {
	abs, err := filepath.Abs(physical)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", physical, err)
	}
	rel, err := filepath.Rel(d.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the project root %s", physical, d.root)
	}
	return NormalizePath(rel), nil
}

func (d *Disk) physical(p string) string {
	return filepath.Join(d.root, filepath.FromSlash(strings.TrimPrefix(NormalizePath(p), "/")))
}

func (d *Disk) GetItem(p string) Item {
	p = NormalizePath(p)
	physical := d.physical(p)
	info, err := os.Stat(physical)
	if err != nil || info.IsDir() {
		return Item{Path: p, PhysicalPath: physical, Kind: d.kind(p)}
	}
	item := newItem(p, physical, func() (io.ReadCloser, error) {
		f, err := os.Open(physical)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", p, err)
		}
		return f, nil
	})
	item.Kind = d.kind(p)
	return item
}

// kind classifies p, treating configured extensions as templates even when
// linguist does not know them.
func (d *Disk) kind(p string) FileKind {
	if k := Classify(p); k != FileKindOther {
		return k
	}
	if d.hasExtension(p) {
		return FileKindTemplate
	}
	return FileKindOther
}

func (d *Disk) hasExtension(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	for _, e := range d.extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// EnumerateItems walks basePath. Hidden and vendored directories are
// skipped, as are items matching an exclude glob.
func (d *Disk) EnumerateItems(basePath string) ([]Item, error) {
	start := d.physical(basePath)
	var items []Item

	err := filepath.WalkDir(start, func(physical string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		rel, err := filepath.Rel(d.root, physical)
		if err != nil {
			return fmt.Errorf("relative path of %s: %w", physical, err)
		}
		p := NormalizePath(rel)

		if entry.IsDir() {
			if physical == start {
				return nil
			}
			if d.SkipDir(p) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(entry.Name(), ".") || d.excluded(p) {
			return nil
		}
		if kind := d.kind(p); kind != FileKindOther && d.hasExtension(p) {
			items = append(items, d.GetItem(p))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", basePath, err)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Path < items[j].Path })
	return items, nil
}

// SkipDir reports whether the directory at project path p is left out of
// enumeration: hidden, vendored or excluded.
func (d *Disk) SkipDir(p string) bool {
	return strings.HasPrefix(path.Base(p), ".") || enry.IsVendor(strings.TrimPrefix(p, "/")+"/") || d.excluded(p)
}

func (d *Disk) excluded(p string) bool {
	rel := strings.TrimPrefix(p, "/")
	for _, g := range d.exclude {
		if MatchGlob(rel, g) {
			return true
		}
	}
	return false
}
