package passes_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorazor/pkg/codegen"
	"github.com/yaklabco/gorazor/pkg/ir"
	"github.com/yaklabco/gorazor/pkg/parser"
	"github.com/yaklabco/gorazor/pkg/razor"
	"github.com/yaklabco/gorazor/pkg/razor/passes"
	"github.com/yaklabco/gorazor/pkg/source"
	"github.com/yaklabco/gorazor/pkg/syntax"
	"github.com/yaklabco/gorazor/pkg/taghelper"
)

func testOptions() razor.Options {
	opts := razor.DefaultOptions()
	opts.SuppressChecksum = true
	opts.NewLine = "\n"
	opts.IDs = &codegen.SequentialIDGenerator{}
	return opts
}

func process(t *testing.T, opts razor.Options, text string, extensions ...razor.Extension) *razor.CodeDocument {
	t.Helper()

	engine := razor.New(opts, append([]razor.Extension{passes.Register}, extensions...)...)
	doc, err := engine.Process(source.New(text, "t.cshtml"))
	require.NoError(t, err)
	return doc
}

func parse(t *testing.T, text string) *syntax.Tree {
	t.Helper()

	tree := parser.Parse(source.New(text, "t.cshtml"), parser.Options{})
	require.NotNil(t, tree)
	return tree
}

func TestWhitespacePass(t *testing.T) {
	t.Parallel()

	text := "<div>\n    @{ var x = 1; }\n</div>"
	tree := parse(t, text)
	before := syntax.Dump(tree.Root)

	out := passes.WhitespacePass{}.Execute(nil, tree)

	blocks := syntax.FindBlocks(out.Root, syntax.BlockStatement)
	require.Len(t, blocks, 1)
	first, ok := blocks[0].Children[0].(*syntax.Span)
	require.True(t, ok)
	assert.Equal(t, syntax.SpanCode, first.Kind)
	assert.Equal(t, "    ", first.Content)

	assert.Equal(t, text, syntax.Text(out.Root))
	assert.Equal(t, before, syntax.Dump(tree.Root), "input tree must not change")
}

func TestWhitespacePass_KeepsInlineIndentation(t *testing.T) {
	t.Parallel()

	tree := parse(t, "<div>  @{ var x = 1; }</div>")
	out := passes.WhitespacePass{}.Execute(nil, tree)

	blocks := syntax.FindBlocks(out.Root, syntax.BlockStatement)
	require.Len(t, blocks, 1)
	first, ok := blocks[0].Children[0].(*syntax.Span)
	require.True(t, ok)
	assert.NotEqual(t, "  ", first.Content)
}

func TestHTMLAttributePass(t *testing.T) {
	t.Parallel()

	text := `<a class="x y" href="@u">link</a>`
	tree := parse(t, text)
	out := passes.HTMLAttributePass{}.Execute(nil, tree)

	attrs := syntax.FindBlocks(out.Root, syntax.BlockMarkupAttribute)
	require.Len(t, attrs, 1)
	require.NotNil(t, attrs[0].Attr)
	assert.Equal(t, "href", attrs[0].Attr.Name)

	assert.Equal(t, text, syntax.Text(out.Root))
	assert.Len(t, syntax.FindBlocks(tree.Root, syntax.BlockMarkupAttribute), 2)
}

func TestDirectiveValidationPass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "clean", text: "@inherits A\n<p></p>"},
		{name: "duplicate inherits", text: "@inherits A\n@inherits B\n", want: []string{"RZ2001"}},
		{name: "indented at line start", text: "  @namespace N\n"},
		{name: "not at line start", text: "x @namespace N\n", want: []string{"RZ2005"}},
		{name: "nested section", text: "@section A { @section B { } }", want: []string{"RZ2002"}},
		{name: "repeatable section", text: "@section A { }\n@section B { }\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := process(t, testOptions(), tt.text)
			var got []string
			for _, d := range doc.Diagnostics() {
				got = append(got, d.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifier_Idempotent(t *testing.T) {
	t.Parallel()

	doc := process(t, testOptions(), "<p>@x</p>")
	require.NotNil(t, doc.IR)
	before := doc.IR.Dump(doc.IR.Root())

	passes.DefaultClassifier().Execute(doc, doc.IR)
	if diff := cmp.Diff(before, doc.IR.Dump(doc.IR.Root())); diff != "" {
		t.Errorf("second classification changed the document (-first +second):\n%s", diff)
	}

	ns := passes.Namespace(doc.IR)
	class := passes.Class(doc.IR)
	method := passes.Method(doc.IR)
	require.NotEqual(t, ir.None, ns)
	require.NotEqual(t, ir.None, class)
	require.NotEqual(t, ir.None, method)
	assert.Equal(t, "Razor", doc.IR.Node(ns).Content)
	assert.Equal(t, passes.DefaultClassName, doc.IR.Node(class).Name)
	assert.Equal(t, passes.DefaultMethodName, doc.IR.Node(method).Name)
}

func TestClassifier_NoMatch(t *testing.T) {
	t.Parallel()

	never := passes.DefaultClassifier()
	never.PassName = "never"
	never.Match = func(*razor.CodeDocument, *ir.Document) bool { return false }

	engine := razor.New(testOptions(), func(r *razor.Registry) {
		r.AddIRPass(razor.StageDocumentClassifier, passes.OrderDefaultClassifier, never)
	})
	doc, err := engine.Process(source.New("<p></p>", "t.cshtml"))
	require.NoError(t, err)
	assert.Empty(t, doc.IR.Kind())
	assert.Equal(t, ir.None, passes.Class(doc.IR))
}

func TestFunctionsPass(t *testing.T) {
	t.Parallel()

	doc := process(t, testOptions(), "@functions { int X() => 1; }\n<p></p>")
	assert.Empty(t, doc.Diagnostics())

	code := doc.GeneratedCode()
	member := strings.Index(code, "int X() => 1;")
	method := strings.Index(code, passes.DefaultMethodName+"()")
	require.GreaterOrEqual(t, member, 0)
	require.GreaterOrEqual(t, method, 0)
	assert.Less(t, member, method)
	assert.Empty(t, passes.FindDirectives(doc.IR, "functions"))
}

func TestInheritsAndNamespacePasses(t *testing.T) {
	t.Parallel()

	doc := process(t, testOptions(), "@inherits Base\n@namespace My.Views\n<p></p>")
	code := doc.GeneratedCode()
	assert.Contains(t, code, "namespace My.Views\n")
	assert.Contains(t, code, "public class Template : Base\n")
}

func TestSectionPass(t *testing.T) {
	t.Parallel()

	doc := process(t, testOptions(), "@section Scripts {<b>x</b>}")
	assert.Empty(t, doc.Diagnostics())

	code := doc.GeneratedCode()
	open := strings.Index(code, `DefineSection("Scripts", async() => {`)
	body := strings.Index(code, `WriteLiteral("<b>x</b>");`)
	end := strings.Index(code, "});")
	require.GreaterOrEqual(t, open, 0)
	assert.Less(t, open, body)
	assert.Less(t, body, end)
	assert.Len(t, doc.IR.Find(doc.IR.Root(), ir.KindSection), 1)
}

func TestDesignTimeDirectivePass(t *testing.T) {
	t.Parallel()

	opts := testOptions()
	opts.DesignTime = true
	doc := process(t, opts, "@inherits Base<T>\n")

	code := doc.GeneratedCode()
	assert.Contains(t, code, "__RazorDirectiveTokenHelpers__")
	assert.Contains(t, code, "Base<T> __typeHelper = default(Base<T>);")
	assert.Contains(t, code, "public class Template : Base<T>")
}

func TestDesignTimeDirectivePass_RuntimeSkipped(t *testing.T) {
	t.Parallel()

	doc := process(t, testOptions(), "@inherits Base<T>\n")
	assert.NotContains(t, doc.GeneratedCode(), "__RazorDirectiveTokenHelpers__")
}

func labelHelper() *taghelper.Descriptor {
	return taghelper.NewBuilder(taghelper.DefaultKind, "Test.CounterTagHelper", "TestAssembly").
		TagMatchingRule(taghelper.RuleSpec{TagName: "p"}).
		BoundAttribute(taghelper.BoundAttributeSpec{
			Name:         "label",
			TypeName:     taghelper.StringTypeName,
			PropertyName: "Label",
		}).
		Build()
}

func withHelpers(descriptors ...*taghelper.Descriptor) razor.Extension {
	return func(r *razor.Registry) { r.AddTagHelpers(descriptors...) }
}

func TestTagHelperPasses(t *testing.T) {
	t.Parallel()

	text := "@addTagHelper *, TestAssembly\n<p label=\"hi\" class=\"a\"></p><p class=\"a\"></p>"
	doc := process(t, testOptions(), text, withHelpers(labelHelper()))
	assert.Empty(t, doc.Diagnostics())

	code := doc.GeneratedCode()
	assert.Contains(t, code, "private global::Test.CounterTagHelper __Test_CounterTagHelper;")
	assert.Equal(t, 1, strings.Count(code, "private global::Test.CounterTagHelper "))

	assert.Contains(t, code, `__tagHelperAttribute_1 = new global::Microsoft.AspNetCore.Razor.TagHelpers.TagHelperAttribute("label", "hi", `)
	assert.Contains(t, code, `__tagHelperAttribute_0 = new global::Microsoft.AspNetCore.Razor.TagHelpers.TagHelperAttribute("class", new global::Microsoft.AspNetCore.Html.HtmlString("a"), global::Microsoft.AspNetCore.Razor.TagHelpers.HtmlAttributeValueStyle.DoubleQuotes);`)
	assert.NotContains(t, code, "__tagHelperAttribute_2")
	assert.Equal(t, 2, strings.Count(code, "AddHtmlAttribute(__tagHelperAttribute_0);"))

	assert.Len(t, doc.IR.Find(doc.IR.Root(), ir.KindPreallocatedHTMLAttribute), 2)
	assert.Len(t, doc.IR.Find(doc.IR.Root(), ir.KindPreallocatedProperty), 1)
	assert.Empty(t, doc.IR.Find(doc.IR.Root(), ir.KindTagHelperHTMLAttribute))
}

func TestPreallocatedAttributePass_DesignTime(t *testing.T) {
	t.Parallel()

	opts := testOptions()
	opts.DesignTime = true
	text := "@addTagHelper *, TestAssembly\n<p label=\"hi\"></p>"
	doc := process(t, opts, text, withHelpers(labelHelper()))

	assert.Empty(t, doc.IR.Find(doc.IR.Root(), ir.KindPreallocatedProperty))
	assert.Len(t, doc.IR.Find(doc.IR.Root(), ir.KindTagHelperProperty), 1)
}
