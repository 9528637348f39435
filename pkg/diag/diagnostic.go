// Package diag defines compilation diagnostics.
//
// Diagnostics are values: they never abort a phase. Phases accumulate them on
// the syntax tree, the IR document and finally the generated document.
package diag

import (
	"fmt"
	"reflect"

	"github.com/yaklabco/gorazor/pkg/source"
)

// Severity represents the severity level of a diagnostic.
type Severity string

const (
	SeverityError      Severity = "error"
	SeverityWarning    Severity = "warning"
	SeveritySuggestion Severity = "suggestion"
)

// Descriptor is the static part of a diagnostic: its id, severity and message template.
type Descriptor struct {
	ID       string
	Severity Severity
	Format   string
}

// Diagnostic is a single problem found in a template or descriptor.
type Diagnostic struct {
	ID       string
	Severity Severity
	Span     source.Span
	Format   string
	Args     []any
}

// New creates a diagnostic from a descriptor.
func New(desc Descriptor, span source.Span, args ...any) Diagnostic {
	return Diagnostic{
		ID:       desc.ID,
		Severity: desc.Severity,
		Span:     span,
		Format:   desc.Format,
		Args:     args,
	}
}

// Message renders the message template with its arguments.
func (d Diagnostic) Message() string {
	if len(d.Args) == 0 {
		return d.Format
	}
	return fmt.Sprintf(d.Format, d.Args...)
}

// IsError reports whether the diagnostic has error severity.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// Equal compares id, span and arguments.
func (d Diagnostic) Equal(other Diagnostic) bool {
	if d.ID != other.ID || d.Span != other.Span || len(d.Args) != len(other.Args) {
		return false
	}
	for i := range d.Args {
		if !reflect.DeepEqual(d.Args[i], other.Args[i]) {
			return false
		}
	}
	return true
}

// String formats the diagnostic as "path(line,col): Severity ID: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Span.Start(), d.Severity, d.ID, d.Message())
}
