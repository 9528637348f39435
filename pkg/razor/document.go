package razor

import (
	"github.com/yaklabco/gorazor/pkg/binder"
	"github.com/yaklabco/gorazor/pkg/codegen"
	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/ir"
	"github.com/yaklabco/gorazor/pkg/source"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

// CodeDocument carries one compilation through the phases. Each phase
// reads the artifacts published by earlier phases and publishes its own.
type CodeDocument struct {
	Source  *source.Document
	Imports []*source.Document
	// Options are the engine options the document is processed with.
	Options Options

	SyntaxTree        *syntax.Tree
	ImportSyntaxTrees []*syntax.Tree
	TagHelperContext  *binder.Context
	// TagHelperDiagnostics are reported while resolving tag helper directives.
	TagHelperDiagnostics []diag.Diagnostic
	IR                   *ir.Document
	CSharp               *codegen.Document
}

// NewCodeDocument creates a document for src with its imports, outermost
// first.
func NewCodeDocument(src *source.Document, imports ...*source.Document) *CodeDocument {
	return &CodeDocument{
		Source:  src,
		Imports: imports,
		Options: DefaultOptions(),
	}
}

// Diagnostics returns every diagnostic raised so far, ordered by location.
// Once code has been generated this is the diagnostics of the generated
// document.
func (d *CodeDocument) Diagnostics() []diag.Diagnostic {
	if d.CSharp != nil {
		return d.CSharp.Diagnostics
	}
	return d.gather()
}

func (d *CodeDocument) gather() []diag.Diagnostic {
	var lists [][]diag.Diagnostic
	for _, t := range d.ImportSyntaxTrees {
		if t != nil {
			lists = append(lists, t.Diagnostics)
		}
	}
	if d.SyntaxTree != nil {
		lists = append(lists, d.SyntaxTree.Diagnostics)
	}
	lists = append(lists, d.TagHelperDiagnostics)
	if d.IR != nil {
		lists = append(lists, d.IR.Diagnostics())
	}
	return collect(lists...)
}

// HasErrors reports whether any diagnostic is an error.
func (d *CodeDocument) HasErrors() bool {
	return diag.HasErrors(d.Diagnostics())
}

// GeneratedCode returns the generated C#, or "" before generation.
func (d *CodeDocument) GeneratedCode() string {
	if d.CSharp == nil {
		return ""
	}
	return d.CSharp.GeneratedCode
}

func collect(lists ...[]diag.Diagnostic) []diag.Diagnostic {
	out := diag.Merge(lists...)
	diag.SortByLocation(out)
	return out
}
