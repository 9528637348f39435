package codegen

import (
	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/source"
)

// LineMapping pairs a range of template source with the generated code it
// produced.
type LineMapping struct {
	Original  source.Span
	Generated source.Span
}

// Document is the output of code generation.
type Document struct {
	GeneratedCode string
	Diagnostics   []diag.Diagnostic
	LineMappings  []LineMapping
}

// HasErrors reports whether any diagnostic is an error.
func (d *Document) HasErrors() bool {
	return d != nil && diag.HasErrors(d.Diagnostics)
}
