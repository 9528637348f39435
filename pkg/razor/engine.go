// Package razor compiles templates to C# by running a source document
// through an ordered list of phases.
//
// An Engine is built once from Options and a Registry and is then
// immutable, so one engine may process many documents concurrently. Each
// call works on its own CodeDocument.
package razor

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/yaklabco/gorazor/internal/logging"
	"github.com/yaklabco/gorazor/pkg/directive"
	"github.com/yaklabco/gorazor/pkg/source"
	"github.com/yaklabco/gorazor/pkg/taghelper"
)

// Extension adds directives, passes or tag helpers to a registry.
type Extension func(r *Registry)

// Engine compiles templates.
type Engine struct {
	opts         Options
	directives   []*directive.Descriptor
	tagHelpers   []*taghelper.Descriptor
	syntaxPasses []SyntaxTreePass
	irPasses     map[Stage][]IRPass
	phases       []Phase
}

// New builds an engine. Extensions run in order against a fresh registry
// holding the built-in directives.
func New(opts Options, extensions ...Extension) *Engine {
	r := NewRegistry()
	for _, ext := range extensions {
		if ext != nil {
			ext(r)
		}
	}
	return NewFromRegistry(opts, r)
}

// NewFromRegistry builds an engine from a populated registry. Later changes
// to the registry do not affect the engine.
func NewFromRegistry(opts Options, r *Registry) *Engine {
	e := &Engine{
		opts:         opts,
		directives:   r.Directives(),
		tagHelpers:   r.TagHelpers(),
		syntaxPasses: r.SyntaxTreePasses(),
		irPasses:     make(map[Stage][]IRPass),
		phases:       r.Phases(),
	}
	for _, stage := range Stages() {
		e.irPasses[stage] = r.IRPasses(stage)
	}
	if len(e.phases) == 0 {
		e.phases = DefaultPhases()
	}
	return e
}

// Options returns the options the engine was built with.
func (e *Engine) Options() Options { return e.opts }

// Directives returns the directives recognised by the parser.
func (e *Engine) Directives() []*directive.Descriptor { return slices.Clone(e.directives) }

// TagHelpers returns the tag helpers available to @addTagHelper.
func (e *Engine) TagHelpers() []*taghelper.Descriptor { return slices.Clone(e.tagHelpers) }

// SyntaxTreePasses returns the syntax tree passes in execution order.
func (e *Engine) SyntaxTreePasses() []SyntaxTreePass { return slices.Clone(e.syntaxPasses) }

// IRPasses returns the IR passes of stage in execution order.
func (e *Engine) IRPasses(stage Stage) []IRPass { return slices.Clone(e.irPasses[stage]) }

// Phases returns the phases in execution order.
func (e *Engine) Phases() []Phase { return slices.Clone(e.phases) }

// Process compiles src. Imports are applied outermost first.
func (e *Engine) Process(src *source.Document, imports ...*source.Document) (*CodeDocument, error) {
	return e.ProcessContext(context.Background(), src, imports...)
}

// ProcessContext compiles src, logging phase timings to the logger found in
// ctx. Problems in the template are reported as diagnostics on the returned
// document; an error is returned only when the engine is misconfigured.
func (e *Engine) ProcessContext(ctx context.Context, src *source.Document, imports ...*source.Document) (*CodeDocument, error) {
	doc := NewCodeDocument(src, imports...)
	doc.Options = e.opts
	if err := e.Run(ctx, doc); err != nil {
		return doc, err
	}
	return doc, nil
}

// Run executes every phase on doc.
func (e *Engine) Run(ctx context.Context, doc *CodeDocument) error {
	logger := logging.FromContext(ctx)
	path := ""
	if doc.Source != nil {
		path = doc.Source.FilePath()
	}

	for _, phase := range e.phases {
		start := time.Now()
		if err := phase.Execute(ctx, e, doc); err != nil {
			return fmt.Errorf("processing %s: %w", path, err)
		}
		logger.Debug("phase complete",
			logging.FieldPhase, phase.Name(),
			logging.FieldPath, path,
			logging.FieldDuration, time.Since(start),
		)
	}
	return nil
}
