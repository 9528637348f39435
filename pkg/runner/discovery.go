package runner

import (
	"context"
	"fmt"
	"sort"

	"github.com/yaklabco/gorazor/pkg/project"
)

// Discover returns the template items selected by opts, sorted by path.
// A path naming an import file or a directory selects the templates it
// contains. Enumeration failures wrap project.ErrNotFound.
func Discover(ctx context.Context, fsys project.FileSystem, opts Options) ([]project.Item, error) {
	seen := make(map[string]struct{})
	var items []project.Item
	add := func(item project.Item) {
		if item.Kind != project.FileKindTemplate || !selected(item.Path, opts) {
			return
		}
		if _, ok := seen[item.Path]; ok {
			return
		}
		seen[item.Path] = struct{}{}
		items = append(items, item)
	}

	for _, p := range opts.effectivePaths() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		if item := fsys.GetItem(p); item.Exists() {
			if item.Kind == project.FileKindTemplate {
				add(item)
				continue
			}
			if item.Kind != project.FileKindImport {
				return nil, fmt.Errorf("%s is not a template", item.Path)
			}
			p = item.Path[:len(item.Path)-len(project.ImportsFileName)]
		}

		found, err := fsys.EnumerateItems(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", project.ErrNotFound, p, err)
		}
		for _, item := range found {
			add(item)
		}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Path < items[j].Path })
	return items, nil
}

// selected applies the include and exclude globs to a project path.
func selected(p string, opts Options) bool {
	for _, g := range opts.ExcludeGlobs {
		if project.MatchGlob(p, g) {
			return false
		}
	}
	if len(opts.IncludeGlobs) == 0 {
		return true
	}
	for _, g := range opts.IncludeGlobs {
		if project.MatchGlob(p, g) {
			return true
		}
	}
	return false
}
