package razor

import (
	"context"

	"github.com/yaklabco/gorazor/pkg/binder"
	"github.com/yaklabco/gorazor/pkg/codegen"
	"github.com/yaklabco/gorazor/pkg/ir"
	"github.com/yaklabco/gorazor/pkg/parser"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

// Phase is one step of a compilation. A phase that cannot find an artifact
// it depends on returns a *DependencyError.
type Phase interface {
	Name() string
	Execute(ctx context.Context, e *Engine, doc *CodeDocument) error
}

// Phase names.
const (
	PhaseParse            = "parse"
	PhaseSyntaxTree       = "syntax-tree"
	PhaseTagHelperBinding = "tag-helper-binding"
	PhaseLowering         = "lowering"
	PhaseCSharp           = "csharp"
)

// DefaultPhases returns the standard phases in execution order.
func DefaultPhases() []Phase {
	phases := []Phase{
		parsePhase{},
		syntaxTreePhase{},
		tagHelperPhase{},
		loweringPhase{},
	}
	for _, stage := range Stages() {
		phases = append(phases, irPhase{stage: stage})
	}
	return append(phases, csharpPhase{})
}

// SetPhases replaces the phases of engines built from the registry.
func (r *Registry) SetPhases(phases ...Phase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phases = phases
}

// Phases returns the phases set with SetPhases, or nil.
func (r *Registry) Phases() []Phase {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.phases == nil {
		return nil
	}
	return append([]Phase(nil), r.phases...)
}

type parsePhase struct{}

func (parsePhase) Name() string { return PhaseParse }

func (parsePhase) Execute(_ context.Context, e *Engine, doc *CodeDocument) error {
	if doc.Source == nil {
		return missing(PhaseParse, "source document")
	}
	opts := doc.Options.parserOptions(e.directives)
	doc.ImportSyntaxTrees = make([]*syntax.Tree, 0, len(doc.Imports))
	for _, imp := range doc.Imports {
		doc.ImportSyntaxTrees = append(doc.ImportSyntaxTrees, parser.Parse(imp, opts))
	}
	doc.SyntaxTree = parser.Parse(doc.Source, opts)
	return nil
}

type syntaxTreePhase struct{}

func (syntaxTreePhase) Name() string { return PhaseSyntaxTree }

func (syntaxTreePhase) Execute(_ context.Context, e *Engine, doc *CodeDocument) error {
	if doc.SyntaxTree == nil {
		return missing(PhaseSyntaxTree, "syntax tree")
	}
	tree := doc.SyntaxTree
	for _, pass := range e.syntaxPasses {
		if next := pass.Execute(doc, tree); next != nil {
			tree = next
		}
	}
	doc.SyntaxTree = tree
	return nil
}

type tagHelperPhase struct{}

func (tagHelperPhase) Name() string { return PhaseTagHelperBinding }

func (tagHelperPhase) Execute(_ context.Context, e *Engine, doc *CodeDocument) error {
	if doc.SyntaxTree == nil {
		return missing(PhaseTagHelperBinding, "syntax tree")
	}
	trees := append(append([]*syntax.Tree(nil), doc.ImportSyntaxTrees...), doc.SyntaxTree)
	ctx, diags := binder.Resolve(trees, e.tagHelpers)
	doc.TagHelperContext = ctx
	doc.TagHelperDiagnostics = diags
	doc.SyntaxTree = binder.Rewrite(doc.SyntaxTree, ctx, doc.Options.binderOptions())
	return nil
}

type loweringPhase struct{}

func (loweringPhase) Name() string { return PhaseLowering }

func (loweringPhase) Execute(_ context.Context, _ *Engine, doc *CodeDocument) error {
	if doc.SyntaxTree == nil {
		return missing(PhaseLowering, "syntax tree")
	}
	doc.IR = ir.Lower(doc.SyntaxTree, doc.ImportSyntaxTrees, doc.Options.irOptions())
	return nil
}

type irPhase struct {
	stage Stage
}

func (p irPhase) Name() string { return p.stage.String() }

func (p irPhase) Execute(_ context.Context, e *Engine, doc *CodeDocument) error {
	if doc.IR == nil {
		return missing(p.Name(), "intermediate document")
	}
	for _, pass := range e.irPasses[p.stage] {
		pass.Execute(doc, doc.IR)
	}
	return nil
}

type csharpPhase struct{}

func (csharpPhase) Name() string { return PhaseCSharp }

func (csharpPhase) Execute(_ context.Context, _ *Engine, doc *CodeDocument) error {
	if doc.IR == nil {
		return missing(PhaseCSharp, "intermediate document")
	}
	out := codegen.Generate(doc.IR, doc.Options.codegenOptions())
	out.Diagnostics = doc.gather()
	doc.CSharp = out
	return nil
}
