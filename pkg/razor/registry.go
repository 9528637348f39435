package razor

import (
	"cmp"
	"slices"
	"sync"

	"github.com/yaklabco/gorazor/pkg/directive"
	"github.com/yaklabco/gorazor/pkg/ir"
	"github.com/yaklabco/gorazor/pkg/syntax"
	"github.com/yaklabco/gorazor/pkg/taghelper"
)

// SyntaxTreePass transforms the syntax tree of a document. It returns the
// tree to hand to the next pass, which may be the one it was given.
type SyntaxTreePass interface {
	Name() string
	Execute(doc *CodeDocument, tree *syntax.Tree) *syntax.Tree
}

// IRPass rewrites the IR document of a code document in place.
type IRPass interface {
	Name() string
	Execute(doc *CodeDocument, irDoc *ir.Document)
}

// Stage groups IR passes. Stages run in declaration order.
type Stage int

const (
	// StageDocumentClassifier gives the flat lowered document its
	// namespace, class and method.
	StageDocumentClassifier Stage = iota
	// StageDirectiveClassifier interprets directives.
	StageDirectiveClassifier
	// StageOptimization runs on the finished document.
	StageOptimization
)

func (s Stage) String() string {
	switch s {
	case StageDocumentClassifier:
		return "document-classifier"
	case StageDirectiveClassifier:
		return "directive-classifier"
	case StageOptimization:
		return "optimization"
	default:
		return "unknown"
	}
}

// Stages returns every stage in execution order.
func Stages() []Stage {
	return []Stage{StageDocumentClassifier, StageDirectiveClassifier, StageOptimization}
}

type syntaxEntry struct {
	order int
	pass  SyntaxTreePass
}

type irEntry struct {
	stage Stage
	order int
	pass  IRPass
}

// Registry collects the directives, passes and tag helpers an engine is
// built from. Passes run by ascending order; passes with equal order run in
// registration order.
type Registry struct {
	mu           sync.RWMutex
	directives   []*directive.Descriptor
	syntaxPasses []syntaxEntry
	irPasses     []irEntry
	tagHelpers   []*taghelper.Descriptor
	phases       []Phase
}

// NewRegistry creates a registry holding the built-in directives.
func NewRegistry() *Registry {
	return &Registry{directives: directive.Builtins()}
}

// AddDirectives registers directives. A directive replaces an earlier one
// with the same keyword.
func (r *Registry) AddDirectives(directives ...*directive.Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range directives {
		r.directives = slices.DeleteFunc(r.directives, func(e *directive.Descriptor) bool {
			return e.Keyword() == d.Keyword()
		})
		r.directives = append(r.directives, d)
	}
}

// AddSyntaxTreePass registers a syntax tree pass at order.
func (r *Registry) AddSyntaxTreePass(order int, pass SyntaxTreePass) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.syntaxPasses = append(r.syntaxPasses, syntaxEntry{order: order, pass: pass})
}

// AddIRPass registers an IR pass in stage at order.
func (r *Registry) AddIRPass(stage Stage, order int, pass IRPass) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.irPasses = append(r.irPasses, irEntry{stage: stage, order: order, pass: pass})
}

// AddTagHelpers makes descriptors available to @addTagHelper.
func (r *Registry) AddTagHelpers(descriptors ...*taghelper.Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tagHelpers = append(r.tagHelpers, descriptors...)
}

// Directives returns the registered directives.
func (r *Registry) Directives() []*directive.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.directives)
}

// TagHelpers returns the registered tag helpers without duplicates.
func (r *Registry) TagHelpers() []*taghelper.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return taghelper.Dedupe(r.tagHelpers)
}

// SyntaxTreePasses returns the syntax tree passes in execution order.
func (r *Registry) SyntaxTreePasses() []SyntaxTreePass {
	r.mu.RLock()
	entries := slices.Clone(r.syntaxPasses)
	r.mu.RUnlock()

	slices.SortStableFunc(entries, func(a, b syntaxEntry) int {
		return cmp.Compare(a.order, b.order)
	})
	out := make([]SyntaxTreePass, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.pass)
	}
	return out
}

// IRPasses returns the passes of stage in execution order.
func (r *Registry) IRPasses(stage Stage) []IRPass {
	r.mu.RLock()
	entries := slices.Clone(r.irPasses)
	r.mu.RUnlock()

	entries = slices.DeleteFunc(entries, func(e irEntry) bool { return e.stage != stage })
	slices.SortStableFunc(entries, func(a, b irEntry) int {
		return cmp.Compare(a.order, b.order)
	})
	out := make([]IRPass, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.pass)
	}
	return out
}
