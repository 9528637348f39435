package diag

import (
	"cmp"
	"slices"

	"github.com/yaklabco/gorazor/pkg/source"
)

// Bag accumulates diagnostics in insertion order. The zero value is ready to use.
// A Bag is not safe for concurrent use.
type Bag struct {
	items []Diagnostic
}

// Add appends diagnostics.
func (b *Bag) Add(diags ...Diagnostic) {
	b.items = append(b.items, diags...)
}

// Report creates a diagnostic from a descriptor and appends it.
func (b *Bag) Report(desc Descriptor, span source.Span, args ...any) {
	b.items = append(b.items, New(desc, span, args...))
}

// Len returns the number of diagnostics.
func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns a copy of the accumulated diagnostics.
func (b *Bag) Items() []Diagnostic {
	return slices.Clone(b.items)
}

// HasErrors reports whether any diagnostic has error severity.
func (b *Bag) HasErrors() bool {
	return HasErrors(b.items)
}

// HasErrors reports whether any diagnostic in the list has error severity.
func HasErrors(diags []Diagnostic) bool {
	return slices.ContainsFunc(diags, Diagnostic.IsError)
}

// Merge concatenates lists, dropping structural duplicates while keeping first-seen order.
func Merge(lists ...[]Diagnostic) []Diagnostic {
	var out []Diagnostic
	for _, list := range lists {
		for _, d := range list {
			if !slices.ContainsFunc(out, d.Equal) {
				out = append(out, d)
			}
		}
	}
	return out
}

// SortByLocation orders diagnostics by file, then absolute position, then id.
func SortByLocation(diags []Diagnostic) {
	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Span.FilePath, b.Span.FilePath),
			cmp.Compare(a.Span.AbsoluteIndex, b.Span.AbsoluteIndex),
			cmp.Compare(a.ID, b.ID),
		)
	})
}
