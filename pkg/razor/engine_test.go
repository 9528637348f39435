package razor_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorazor/internal/logging"
	"github.com/yaklabco/gorazor/pkg/codegen"
	"github.com/yaklabco/gorazor/pkg/config"
	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/directive"
	"github.com/yaklabco/gorazor/pkg/ir"
	"github.com/yaklabco/gorazor/pkg/razor"
	"github.com/yaklabco/gorazor/pkg/razor/passes"
	"github.com/yaklabco/gorazor/pkg/source"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

func testOptions() razor.Options {
	opts := razor.DefaultOptions()
	opts.SuppressChecksum = true
	opts.NewLine = "\n"
	opts.IDs = &codegen.SequentialIDGenerator{}
	return opts
}

func TestEngine_Process(t *testing.T) {
	t.Parallel()

	engine := razor.New(testOptions(), passes.Register)
	doc, err := engine.Process(source.New("<p>Hi @Name</p>", "t.cshtml"))
	require.NoError(t, err)

	require.NotNil(t, doc.SyntaxTree)
	require.NotNil(t, doc.IR)
	require.NotNil(t, doc.CSharp)
	assert.Equal(t, passes.DefaultDocumentKind, doc.IR.Kind())
	assert.Empty(t, doc.Diagnostics())

	want := strings.Join([]string{
		"namespace Razor",
		"{",
		"#line hidden",
		"    public class Template",
		"    {",
		"        #pragma warning disable 1998",
		"        public async override global::System.Threading.Tasks.Task ExecuteAsync()",
		"        {",
		`            WriteLiteral("<p>Hi ");`,
		`#line 1 "t.cshtml"`,
		" Write(Name);",
		"",
		"#line default",
		"#line hidden",
		`            WriteLiteral("</p>");`,
		"        }",
		"        #pragma warning restore 1998",
		"    }",
		"}",
		"",
	}, "\n")
	assert.Equal(t, want, doc.GeneratedCode())

	require.Len(t, doc.CSharp.LineMappings, 1)
	assert.Equal(t, 7, doc.CSharp.LineMappings[0].Original.AbsoluteIndex)
}

func TestEngine_Checksum(t *testing.T) {
	t.Parallel()

	opts := testOptions()
	opts.SuppressChecksum = false
	src := source.New("<p></p>", "t.cshtml")

	doc, err := razor.New(opts, passes.Register).Process(src)
	require.NoError(t, err)
	first, _, _ := strings.Cut(doc.GeneratedCode(), "\n")
	assert.Equal(t, `#pragma checksum "t.cshtml" "`+source.ChecksumAlgorithmID+`" "`+src.ChecksumHex()+`"`, first)
}

func TestEngine_WithoutPasses(t *testing.T) {
	t.Parallel()

	doc, err := razor.New(testOptions()).Process(source.New("<p>Hi</p>", "t.cshtml"))
	require.NoError(t, err)
	assert.Empty(t, doc.IR.Kind())
	assert.Equal(t, "WriteLiteral(\"<p>Hi</p>\");\n", doc.GeneratedCode())
}

func TestEngine_DiagnosticsNeverAbort(t *testing.T) {
	t.Parallel()

	src := "@inherits A\n@inherits B\nx @namespace N\n"
	doc, err := razor.New(testOptions(), passes.Register).Process(source.New(src, "t.cshtml"))
	require.NoError(t, err)
	require.NotNil(t, doc.CSharp)

	diags := doc.Diagnostics()
	require.Len(t, diags, 2)

	assert.Equal(t, diag.DuplicateDirective.ID, diags[0].ID)
	assert.Equal(t, 12, diags[0].Span.AbsoluteIndex)
	assert.Equal(t, len("@inherits"), diags[0].Span.Length)

	assert.Equal(t, diag.DirectiveMustAppearAtStartOfLine.ID, diags[1].ID)
	assert.Equal(t, 26, diags[1].Span.AbsoluteIndex)
	assert.Equal(t, len("@namespace"), diags[1].Span.Length)

	assert.True(t, doc.HasErrors())
	assert.Contains(t, doc.GeneratedCode(), "public class Template : B")
}

func TestEngine_Imports(t *testing.T) {
	t.Parallel()

	imports := source.New("@using System.Linq\n@inherits ImportedBase\n", "_ViewImports.cshtml")
	doc, err := razor.New(testOptions(), passes.Register).Process(source.New("<p></p>", "t.cshtml"), imports)
	require.NoError(t, err)

	require.Len(t, doc.ImportSyntaxTrees, 1)
	code := doc.GeneratedCode()
	assert.Contains(t, code, "using System.Linq;")
	assert.Contains(t, code, "public class Template : ImportedBase")
}

func TestEngine_MissingDependency(t *testing.T) {
	t.Parallel()

	r := razor.NewRegistry()
	r.SetPhases(razor.DefaultPhases()[1:]...)
	engine := razor.NewFromRegistry(testOptions(), r)

	doc, err := engine.Process(source.New("x", "t.cshtml"))
	require.Error(t, err)
	require.ErrorIs(t, err, razor.ErrMissingDependency)

	var depErr *razor.DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, razor.PhaseSyntaxTree, depErr.Phase)
	assert.Equal(t, "syntax tree", depErr.Artifact)
	assert.Nil(t, doc.CSharp)
}

func TestEngine_ProcessContextLogsPhases(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.NewWithWriter(&buf, "debug"))

	_, err := razor.New(testOptions(), passes.Register).ProcessContext(ctx, source.New("x", "t.cshtml"))
	require.NoError(t, err)

	out := buf.String()
	for _, phase := range razor.DefaultPhases() {
		assert.Contains(t, out, "phase="+phase.Name())
	}
}

func TestEngine_ConcurrentUse(t *testing.T) {
	t.Parallel()

	engine := razor.New(testOptions(), passes.Register)
	results := make(chan string, 8)
	for i := range 8 {
		go func() {
			doc, err := engine.Process(source.New(strings.Repeat("<b>@x</b>", i+1), "t.cshtml"))
			if err != nil {
				results <- err.Error()
				return
			}
			results <- doc.GeneratedCode()
		}()
	}
	for range 8 {
		assert.Contains(t, <-results, "Write(x);")
	}
}

type namedPass struct {
	name string
	log  *[]string
}

func (p namedPass) Name() string { return p.name }

func (p namedPass) Execute(_ *razor.CodeDocument, tree *syntax.Tree) *syntax.Tree {
	*p.log = append(*p.log, p.name)
	return tree
}

type irNamedPass struct {
	name string
	log  *[]string
}

func (p irNamedPass) Name() string { return p.name }

func (p irNamedPass) Execute(_ *razor.CodeDocument, _ *ir.Document) {
	*p.log = append(*p.log, p.name)
}

func TestRegistry_ExplicitOrder(t *testing.T) {
	t.Parallel()

	var log []string
	engine := razor.New(testOptions(), func(r *razor.Registry) {
		r.AddSyntaxTreePass(20, namedPass{"late", &log})
		r.AddSyntaxTreePass(10, namedPass{"first", &log})
		r.AddSyntaxTreePass(10, namedPass{"second", &log})
		r.AddIRPass(razor.StageOptimization, 1, irNamedPass{"optimize", &log})
		r.AddIRPass(razor.StageDocumentClassifier, 5, irNamedPass{"classify", &log})
		r.AddIRPass(razor.StageDirectiveClassifier, -1, irNamedPass{"directives", &log})
	})

	_, err := engine.Process(source.New("x", "t.cshtml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "late", "classify", "directives", "optimize"}, log)
}

func TestRegistry_Directives(t *testing.T) {
	t.Parallel()

	custom := directive.MustNew("custom", directive.KindSingleLine,
		directive.WithTokens(directive.TokenDescriptor{Kind: directive.TokenMember, Name: "Name"}))
	replacement := directive.MustNew("section", directive.KindSingleLine)

	r := razor.NewRegistry()
	r.AddDirectives(custom, replacement)

	keywords := map[string]*directive.Descriptor{}
	for _, d := range r.Directives() {
		keywords[d.Keyword()] = d
	}
	assert.Same(t, custom, keywords["custom"])
	assert.Same(t, replacement, keywords["section"])
	assert.Len(t, r.Directives(), len(directive.Builtins())+1)

	doc, err := razor.NewFromRegistry(testOptions(), r).Process(source.New("@custom Foo\n", "t.cshtml"))
	require.NoError(t, err)
	assert.Len(t, syntax.FindBlocks(doc.SyntaxTree.Root, syntax.BlockDirective), 1)
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.DesignTime = true
	cfg.IndentSize = 2
	cfg.NewLine = config.NewLineCRLF
	cfg.LanguageVersion = config.Language2_0
	cfg.RootNamespace = "Views"

	opts := razor.OptionsFromConfig(cfg)
	assert.True(t, opts.DesignTime)
	assert.Equal(t, 2, opts.IndentSize)
	assert.Equal(t, "\r\n", opts.NewLine)
	assert.Equal(t, "Views", opts.RootNamespace)
	assert.False(t, opts.Features().AllowMinimizedBooleanTagHelperAttributes)

	assert.Equal(t, razor.DefaultOptions(), razor.OptionsFromConfig(nil))
	assert.True(t, razor.Options{}.Features().AllowRazorInAllCodeBlocks)
}

func TestDependencyError(t *testing.T) {
	t.Parallel()

	err := error(&razor.DependencyError{Phase: "csharp", Artifact: "intermediate document"})
	assert.Equal(t, "phase csharp requires intermediate document", err.Error())
	assert.True(t, errors.Is(err, razor.ErrMissingDependency))
}
