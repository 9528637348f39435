// Package runner compiles many templates concurrently with one shared
// engine.
package runner

import "github.com/yaklabco/gorazor/pkg/source"

// Options controls a multi-template compilation.
type Options struct {
	// Paths are project paths of templates or directories to compile.
	// If empty, the whole project is compiled.
	Paths []string

	// IncludeGlobs restrict compilation to matching project paths.
	// Empty means every template.
	IncludeGlobs []string

	// ExcludeGlobs skip matching project paths.
	ExcludeGlobs []string

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// OutputDir receives the generated files. Nothing is written when empty.
	OutputDir string

	// DefaultImports precede the _ViewImports files of every template.
	DefaultImports []*source.Document

	// Encoding is the declared encoding of templates and imports.
	Encoding source.Encoding
}

// GeneratedSuffix is appended to a template's path to name its output.
const GeneratedSuffix = ".g.cs"

// effectivePaths returns the paths to process, defaulting to the project
// root.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"/"}
	}
	return o.Paths
}
