package codegen_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorazor/pkg/codegen"
	"github.com/yaklabco/gorazor/pkg/directive"
	"github.com/yaklabco/gorazor/pkg/ir"
	"github.com/yaklabco/gorazor/pkg/source"
	"github.com/yaklabco/gorazor/pkg/syntax"
	"github.com/yaklabco/gorazor/pkg/taghelper"
)

func TestWriter_TracksLocation(t *testing.T) {
	t.Parallel()

	w := codegen.NewWriter("\r\n", 2, false)
	w.WriteLine("class")
	w.Indent()
	w.WriteLine("x")
	assert.Equal(t, "class\r\n  x\r\n", w.String())
	assert.Equal(t, source.Location{AbsoluteIndex: 12, LineIndex: 2, CharacterIndex: 0}, w.Location())

	w.Dedent()
	w.Write("ab\ncd")
	assert.Equal(t, source.Location{AbsoluteIndex: 17, LineIndex: 3, CharacterIndex: 2}, w.Location())
}

func TestWriter_Indentation(t *testing.T) {
	t.Parallel()

	w := codegen.NewWriter("", 4, true)
	w.Indent()
	w.Indent()
	w.WriteLine("x")
	w.Dedent()
	w.WriteLine("y")
	w.Dedent()
	w.Dedent()
	w.WriteLine("z")
	w.WriteUnindented("#line hidden")
	assert.Equal(t, "\t\tx\n\ty\nz\n#line hidden\n", w.String())
}

func TestWriter_Padding(t *testing.T) {
	t.Parallel()

	w := codegen.NewWriter("\n", 4, false)
	w.Indent()
	span := source.NewSpan(source.Location{CharacterIndex: 6}, 1)
	w.WritePadding(2, &span)
	w.Write("go")
	assert.Equal(t, "    go", w.String())

	w.WritePadding(2, &span)
	w.NewLine()
	w.Write("x")
	assert.Equal(t, "    go\n    x", w.String(), "padding only applies at the start of a line")
}

func TestIDGenerators(t *testing.T) {
	t.Parallel()

	seq := &codegen.SequentialIDGenerator{}
	assert.Equal(t, []string{"test", "test1", "test2"}, []string{seq.NewID(), seq.NewID(), seq.NewID()})
	fork := seq.Fork()
	assert.Equal(t, "test", fork.NewID())
	assert.Equal(t, "test3", seq.NewID())

	id := codegen.UUIDGenerator{}.NewID()
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), id)
	assert.NotEqual(t, id, codegen.UUIDGenerator{}.NewID())
}

// template builds namespace Razor, class Template and its render method.
func template(d *ir.Document) ir.NodeID {
	ns := d.AddNew(d.Root(), ir.Node{Kind: ir.KindNamespace, Content: "Razor"})
	class := d.AddNew(ns, ir.Node{Kind: ir.KindClass, Name: "Template", Modifiers: []string{"public"}, Type: "global::Base"})
	return d.AddNew(class, ir.Node{
		Kind:      ir.KindMethod,
		Name:      "ExecuteAsync",
		Type:      "global::System.Threading.Tasks.Task",
		Modifiers: []string{"public", "async", "override"},
	})
}

func addExpression(d *ir.Document, parent ir.NodeID, code string, at int) source.Span {
	src := source.NewSpan(source.Location{FilePath: "t.cshtml", AbsoluteIndex: at, CharacterIndex: at}, len(code))
	expr := d.AddNew(parent, ir.Node{Kind: ir.KindCSharpExpression, Source: ir.SourceSpan(src)})
	d.AddNew(expr, ir.Node{Kind: ir.KindToken, TokenKind: ir.TokenCSharp, Content: code, Source: ir.SourceSpan(src)})
	return src
}

func TestGenerate_Runtime(t *testing.T) {
	t.Parallel()

	d := ir.NewDocument(ir.Options{})
	method := template(d)
	html := d.AddNew(method, ir.Node{Kind: ir.KindHTMLContent})
	d.AddNew(html, ir.Node{Kind: ir.KindToken, Content: "<p>\"hi\"</p>\n"})
	src := addExpression(d, method, "Name", 10)

	out := codegen.Generate(d, codegen.Options{IndentSize: 4, NewLine: "\n"})

	want := strings.Join([]string{
		"namespace Razor",
		"{",
		"#line hidden",
		"    public class Template : global::Base",
		"    {",
		"        #pragma warning disable 1998",
		"        public async override global::System.Threading.Tasks.Task ExecuteAsync()",
		"        {",
		`            WriteLiteral("<p>\"hi\"</p>\n");`,
		`#line 1 "t.cshtml"`,
		"    Write(Name);",
		"",
		"#line default",
		"#line hidden",
		"        }",
		"        #pragma warning restore 1998",
		"    }",
		"}",
		"",
	}, "\n")
	assert.Equal(t, want, out.GeneratedCode)

	require.Len(t, out.LineMappings, 1)
	m := out.LineMappings[0]
	assert.Equal(t, src, m.Original)
	assert.Equal(t, 10, m.Generated.LineIndex)
	assert.Equal(t, 10, m.Generated.CharacterIndex)
	assert.Equal(t, "Name", out.GeneratedCode[m.Generated.AbsoluteIndex:m.Generated.End()])
}

func TestGenerate_DesignTime(t *testing.T) {
	t.Parallel()

	d := ir.NewDocument(ir.Options{})
	method := template(d)
	html := d.AddNew(method, ir.Node{Kind: ir.KindHTMLContent})
	d.AddNew(html, ir.Node{Kind: ir.KindToken, Content: "<p>"})
	addExpression(d, method, "Name", 10)

	out := codegen.Generate(d, codegen.Options{DesignTime: true, IndentSize: 4})
	assert.NotContains(t, out.GeneratedCode, "WriteLiteral")
	assert.Contains(t, out.GeneratedCode, "\n    __o = Name;\n")
	require.Len(t, out.LineMappings, 1)
}

func TestGenerate_Checksum(t *testing.T) {
	t.Parallel()

	d := ir.NewDocument(ir.Options{})
	d.AddNew(d.Root(), ir.Node{Kind: ir.KindChecksum, Name: "t.cshtml", Content: "abc", Algorithm: source.ChecksumAlgorithm})

	out := codegen.Generate(d, codegen.Options{})
	assert.Equal(t, `#pragma checksum "t.cshtml" "{8829d00f-11b8-4213-878b-770e8597ac16}" "abc"`+"\n", out.GeneratedCode)
}

func TestGenerate_Attribute(t *testing.T) {
	t.Parallel()

	// <p class="a @b">
	d := ir.NewDocument(ir.Options{})
	attrSrc := source.NewSpan(source.Location{FilePath: "t.cshtml", AbsoluteIndex: 2, CharacterIndex: 2}, 14)
	attr := d.AddNew(d.Root(), ir.Node{
		Kind: ir.KindHTMLAttribute, Name: "class", Prefix: ` class="`, Suffix: `"`, Source: ir.SourceSpan(attrSrc),
	})
	litSrc := source.NewSpan(source.Location{FilePath: "t.cshtml", AbsoluteIndex: 10, CharacterIndex: 10}, 1)
	lit := d.AddNew(attr, ir.Node{Kind: ir.KindHTMLAttributeValue, Source: ir.SourceSpan(litSrc)})
	d.AddNew(lit, ir.Node{Kind: ir.KindToken, Content: "a"})

	dynSrc := source.NewSpan(source.Location{FilePath: "t.cshtml", AbsoluteIndex: 11, CharacterIndex: 11}, 3)
	dyn := d.AddNew(attr, ir.Node{Kind: ir.KindCSharpExpressionAttributeValue, Prefix: " ", Source: ir.SourceSpan(dynSrc)})
	codeSrc := source.NewSpan(source.Location{FilePath: "t.cshtml", AbsoluteIndex: 13, CharacterIndex: 13}, 1)
	d.AddNew(dyn, ir.Node{Kind: ir.KindToken, TokenKind: ir.TokenCSharp, Content: "b", Source: ir.SourceSpan(codeSrc)})

	out := codegen.Generate(d, codegen.Options{})
	want := strings.Join([]string{
		`BeginWriteAttribute("class", " class=\"", 2, "\"", 15, 2);`,
		`WriteAttributeValue("", 10, "a", 10, 1, true);`,
		`WriteAttributeValue(" ", 11, `,
		`#line 1 "t.cshtml"`,
		strings.Repeat(" ", 13) + "b",
		``,
		`#line default`,
		`#line hidden`,
		`, 12, 2, false);`,
		`EndWriteAttribute();`,
		``,
	}, "\n")
	assert.Equal(t, want, out.GeneratedCode)
}

func counter() *taghelper.Descriptor {
	return taghelper.NewBuilder(taghelper.DefaultKind, "Test.CounterTagHelper", "TestAssembly").
		TagMatchingRule(taghelper.RuleSpec{TagName: "p"}).
		BoundAttribute(taghelper.BoundAttributeSpec{Name: "count", TypeName: "System.Int32", PropertyName: "Count"}).
		Build()
}

func TestGenerate_TagHelper(t *testing.T) {
	t.Parallel()

	desc := counter()
	d := ir.NewDocument(ir.Options{})
	helper := d.AddNew(d.Root(), ir.Node{Kind: ir.KindTagHelper, Name: "p", Mode: syntax.TagModeStartTagAndEndTag})
	body := d.AddNew(helper, ir.Node{Kind: ir.KindTagHelperBody})
	html := d.AddNew(body, ir.Node{Kind: ir.KindHTMLContent})
	d.AddNew(html, ir.Node{Kind: ir.KindToken, Content: "Hi"})
	d.AddNew(helper, ir.Node{Kind: ir.KindCreateTagHelper, Descriptor: desc, Type: desc.TypeName()})
	prop := d.AddNew(helper, ir.Node{
		Kind: ir.KindTagHelperProperty, Name: "count", Descriptor: desc, BoundAttribute: desc.BoundAttributes()[0],
	})
	addExpression(d, prop, "x + 1", 9)

	ids := &codegen.SequentialIDGenerator{}
	opts := codegen.Options{IndentSize: 4, IDs: ids}
	out := codegen.Generate(d, opts)
	code := out.GeneratedCode

	for _, line := range []string{
		`__tagHelperExecutionContext = __tagHelperScopeManager.Begin("p", global::Microsoft.AspNetCore.Razor.TagHelpers.TagMode.StartTagAndEndTag, "test", async() => {`,
		`    WriteLiteral("Hi");`,
		`__Test_CounterTagHelper = CreateTagHelper<global::Test.CounterTagHelper>();`,
		`__tagHelperExecutionContext.Add(__Test_CounterTagHelper);`,
		`__Test_CounterTagHelper.Count = x + 1;`,
		`__tagHelperExecutionContext.AddTagHelperAttribute("count", __Test_CounterTagHelper.Count, global::Microsoft.AspNetCore.Razor.TagHelpers.HtmlAttributeValueStyle.DoubleQuotes);`,
		`await __tagHelperRunner.RunAsync(__tagHelperExecutionContext);`,
		`__tagHelperExecutionContext = __tagHelperScopeManager.End();`,
	} {
		assert.Contains(t, code, line+"\n")
	}
	assert.Less(t, strings.Index(code, "WriteLiteral"), strings.Index(code, "CreateTagHelper"), "body is written inside the scope")
	assert.Equal(t, code, codegen.Generate(d, opts).GeneratedCode, "each document numbers its scopes from the start")
	assert.Equal(t, "test", ids.NewID(), "the shared generator is not advanced")

	design := codegen.Generate(d, codegen.Options{DesignTime: true, IDs: &codegen.SequentialIDGenerator{}})
	assert.NotContains(t, design.GeneratedCode, "__tagHelperScopeManager")
	assert.Contains(t, design.GeneratedCode, "__Test_CounterTagHelper.Count = x + 1;")
}

func TestGenerate_DirectiveTokenHelpers(t *testing.T) {
	t.Parallel()

	d := ir.NewDocument(ir.Options{DesignTime: true})
	helpers := d.AddNew(d.Root(), ir.Node{Kind: ir.KindDesignTimeDirective})
	src := source.NewSpan(source.Location{FilePath: "t.cshtml", AbsoluteIndex: 10, CharacterIndex: 10}, 4)
	d.AddNew(helpers, ir.Node{
		Kind:    ir.KindDirectiveToken,
		Token:   &directive.TokenDescriptor{Kind: directive.TokenType},
		Content: "Base",
		Source:  ir.SourceSpan(src),
	})

	out := codegen.Generate(d, codegen.Options{DesignTime: true})
	want := strings.Join([]string{
		"#pragma warning disable 219",
		"private void __RazorDirectiveTokenHelpers__() {",
		"((System.Action)(() => {",
		`#line 1 "t.cshtml"`,
		strings.Repeat(" ", 10) + "Base __typeHelper = default(Base);",
		"",
		"#line default",
		"#line hidden",
		"}",
		"))();",
		"}",
		"#pragma warning restore 219",
		"#pragma warning disable 0414",
		"private static System.Object __o = null;",
		"#pragma warning restore 0414",
		"",
	}, "\n")
	assert.Equal(t, want, out.GeneratedCode)
	require.Len(t, out.LineMappings, 1)
	assert.Equal(t, 4, out.LineMappings[0].Generated.LineIndex)
}
