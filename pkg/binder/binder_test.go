package binder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorazor/pkg/binder"
	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/parser"
	"github.com/yaklabco/gorazor/pkg/source"
	"github.com/yaklabco/gorazor/pkg/syntax"
	"github.com/yaklabco/gorazor/pkg/taghelper"
)

const assembly = "TestAssembly"

func parse(t *testing.T, text string) *syntax.Tree {
	t.Helper()
	return parser.Parse(source.New(text, "test.cshtml"), parser.DefaultOptions())
}

func ids(diags []diag.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.ID)
	}
	return out
}

func component() *taghelper.Descriptor {
	return taghelper.NewBuilder(taghelper.DefaultKind, "MyComponentTagHelper", assembly).
		TagMatchingRule(taghelper.RuleSpec{
			TagName:    "my-component",
			Attributes: []taghelper.RequiredAttributeSpec{{Name: "bound-attr"}},
		}).
		BoundAttribute(taghelper.BoundAttributeSpec{Name: "bound-attr", TypeName: taghelper.StringTypeName, PropertyName: "BoundAttr"}).
		BoundAttribute(taghelper.BoundAttributeSpec{Name: "count", TypeName: "System.Int32", PropertyName: "Count"}).
		BoundAttribute(taghelper.BoundAttributeSpec{Name: "enabled", TypeName: taghelper.BooleanTypeName, PropertyName: "Enabled"}).
		BoundAttribute(taghelper.BoundAttributeSpec{
			Name:              "route-values",
			TypeName:          "System.Collections.Generic.IDictionary<string, int>",
			PropertyName:      "RouteValues",
			IndexerNamePrefix: "route-",
			IndexerTypeName:   "System.Int32",
		}).
		Build()
}

func voidHelper() *taghelper.Descriptor {
	return taghelper.NewBuilder(taghelper.DefaultKind, "InputTagHelper", assembly).
		TagMatchingRule(taghelper.RuleSpec{TagName: "input-helper", TagStructure: taghelper.TagStructureWithoutEndTag}).
		Build()
}

func listHelpers() []*taghelper.Descriptor {
	list := taghelper.NewBuilder(taghelper.DefaultKind, "ListTagHelper", assembly).
		TagMatchingRule(taghelper.RuleSpec{TagName: "my-list"}).
		AllowChildTag("my-item").
		Build()
	item := taghelper.NewBuilder(taghelper.DefaultKind, "ItemTagHelper", assembly).
		TagMatchingRule(taghelper.RuleSpec{TagName: "my-item", ParentTag: "my-list"}).
		Build()
	return []*taghelper.Descriptor{list, item}
}

func other() *taghelper.Descriptor {
	return taghelper.NewBuilder(taghelper.DefaultKind, "OtherTagHelper", "OtherAssembly").
		TagMatchingRule(taghelper.RuleSpec{TagName: "*"}).
		Build()
}

func descriptorNames(ds []*taghelper.Descriptor) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Name())
	}
	return out
}

func TestResolve(t *testing.T) {
	t.Parallel()

	available := append([]*taghelper.Descriptor{component(), voidHelper(), other()}, listHelpers()...)

	tests := []struct {
		name       string
		imports    []string
		document   string
		want       []string
		wantPrefix string
		wantDiags  []string
	}{
		{
			name:     "wildcard adds the whole assembly in catalog order",
			document: "@addTagHelper *, TestAssembly\n",
			want:     []string{"MyComponentTagHelper", "InputTagHelper", "ListTagHelper", "ItemTagHelper"},
		},
		{
			name:     "type prefix pattern",
			document: "@addTagHelper \"List*, TestAssembly\"\n",
			want:     []string{"ListTagHelper"},
		},
		{
			name:     "exact type name",
			document: "@addTagHelper OtherTagHelper, OtherAssembly\n@addTagHelper OtherTagHelper, TestAssembly\n",
			want:     []string{"OtherTagHelper"},
		},
		{
			name:     "document removes imported helpers",
			imports:  []string{"@addTagHelper *, TestAssembly\n"},
			document: "@removeTagHelper *Helper, TestAssembly\n@removeTagHelper ListTagHelper, TestAssembly\n",
			want:     []string{"MyComponentTagHelper", "InputTagHelper", "ItemTagHelper"},
		},
		{
			name:       "last prefix wins",
			imports:    []string{"@tagHelperPrefix th:\n"},
			document:   "@tagHelperPrefix x-\n",
			wantPrefix: "x-",
		},
		{
			name:       "invalid prefix is reported and ignored",
			imports:    []string{"@tagHelperPrefix th:\n"},
			document:   "@tagHelperPrefix \"a b\"\n",
			wantPrefix: "th:",
			wantDiags:  []string{"RZ1020"},
		},
		{
			name:      "malformed lookup text",
			document:  "@addTagHelper Foo\n@addTagHelper \", TestAssembly\"\n",
			wantDiags: []string{"RZ1036", "RZ1036"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var trees []*syntax.Tree
			for _, imp := range tc.imports {
				trees = append(trees, parse(t, imp))
			}
			trees = append(trees, parse(t, tc.document))

			ctx, diags := binder.Resolve(trees, available)
			require.NotNil(t, ctx)
			assert.Equal(t, tc.wantPrefix, ctx.Prefix())
			assert.Equal(t, len(tc.want) == 0, ctx.Empty())
			if len(tc.want) > 0 {
				assert.Equal(t, tc.want, descriptorNames(ctx.Descriptors()))
			}
			if tc.wantDiags == nil {
				assert.Empty(t, diags)
			} else {
				assert.Equal(t, tc.wantDiags, ids(diags))
			}
		})
	}
}

func TestResolve_DiagnosticLocation(t *testing.T) {
	t.Parallel()

	_, diags := binder.Resolve([]*syntax.Tree{parse(t, "<p></p>\n@addTagHelper \"Foo\"")}, []*taghelper.Descriptor{component()})
	require.Len(t, diags, 1)
	assert.Equal(t, "RZ1036", diags[0].ID)
	assert.Equal(t, 23, diags[0].Span.AbsoluteIndex)
	assert.Equal(t, 1, diags[0].Span.LineIndex)
	assert.Equal(t, 3, diags[0].Span.Length)
}

func rewrite(t *testing.T, text string, opts binder.Options, descriptors ...*taghelper.Descriptor) (*syntax.Tree, *syntax.Tree) {
	t.Helper()
	tree := parse(t, text)
	ctx, diags := binder.Resolve([]*syntax.Tree{tree}, descriptors)
	require.Empty(t, diags)
	out := binder.Rewrite(tree, ctx, opts)
	require.Equal(t, text, syntax.Text(out.Root))
	return tree, out
}

func TestRewrite_BindsMatchingElement(t *testing.T) {
	t.Parallel()

	text := "@addTagHelper *, TestAssembly\n<div><my-component bound-attr=\"x\" class=\"c\">content</my-component></div>"
	before, after := rewrite(t, text, binder.Options{}, component())

	assert.Empty(t, syntax.FindBlocks(before.Root, syntax.BlockTagHelper), "input tree is not modified")
	assert.Empty(t, after.Diagnostics)

	helpers := syntax.FindBlocks(after.Root, syntax.BlockTagHelper)
	require.Len(t, helpers, 1)
	info := helpers[0].TagHelper
	assert.Equal(t, "my-component", info.TagName)
	assert.Equal(t, syntax.TagModeStartTagAndEndTag, info.Mode)
	assert.Equal(t, []string{"MyComponentTagHelper"}, descriptorNames(info.Binding.Descriptors()))
	assert.Equal(t, "content", syntax.Text(helpers[0].Children[1]))
	assert.True(t, helpers[0].Children[2].(*syntax.Block).Tag.IsEndTag)

	require.Len(t, info.Attributes, 2)
	bound := info.Attributes[0]
	assert.Equal(t, "bound-attr", bound.Name)
	assert.True(t, bound.IsBound())
	assert.Equal(t, "x", syntax.Text(bound.Value))
	assert.Equal(t, 49, bound.NameSpan.AbsoluteIndex)
	assert.Equal(t, len("bound-attr"), bound.NameSpan.Length)
	assert.False(t, info.Attributes[1].IsBound())
}

func TestRewrite_Modes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		want      syntax.TagMode
		wantDiags []string
	}{
		{name: "self closing", text: `<my-component bound-attr="x" />`, want: syntax.TagModeSelfClosing},
		{name: "without end tag", text: `<input-helper>after`, want: syntax.TagModeStartTagOnly},
		{name: "end tag not allowed", text: `<input-helper></input-helper>`, want: syntax.TagModeStartTagOnly, wantDiags: []string{"RZ1033"}},
		{name: "missing end tag", text: `<my-component bound-attr="x"><p>`, want: syntax.TagModeStartTagAndEndTag, wantDiags: []string{"RZ1034"}},
		{name: "missing close angle", text: `<my-component bound-attr="x"`, want: syntax.TagModeStartTagAndEndTag, wantDiags: []string{"RZ1035", "RZ1034"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, out := rewrite(t, "@addTagHelper *, TestAssembly\n"+tc.text, binder.Options{}, component(), voidHelper())
			helpers := syntax.FindBlocks(out.Root, syntax.BlockTagHelper)
			require.Len(t, helpers, 1)
			assert.Equal(t, tc.want, helpers[0].TagHelper.Mode)
			if tc.wantDiags == nil {
				assert.Empty(t, out.Diagnostics)
			} else {
				assert.Equal(t, tc.wantDiags, ids(out.Diagnostics))
			}
		})
	}
}

func TestRewrite_PrefixAndOptOut(t *testing.T) {
	t.Parallel()

	text := "@addTagHelper *, TestAssembly\n@tagHelperPrefix th:\n" +
		`<th:my-component bound-attr="a"></th:my-component>` +
		`<my-component bound-attr="b"></my-component>` +
		`<!th:my-component bound-attr="c"></!th:my-component>`
	_, out := rewrite(t, text, binder.Options{}, component())

	helpers := syntax.FindBlocks(out.Root, syntax.BlockTagHelper)
	require.Len(t, helpers, 1)
	assert.Equal(t, "th:my-component", helpers[0].TagHelper.TagName)
	assert.Equal(t, "my-component", helpers[0].TagHelper.Binding.TagNameWithoutPrefix())
	assert.Empty(t, out.Diagnostics)
}

func TestRewrite_NestedHelpersAndChildRestrictions(t *testing.T) {
	t.Parallel()

	text := "@addTagHelper *, TestAssembly\n<my-list>\n  <my-item></my-item>\n  <p></p>\n  text\n</my-list><my-item></my-item>"
	_, out := rewrite(t, text, binder.Options{}, listHelpers()...)

	helpers := syntax.FindBlocks(out.Root, syntax.BlockTagHelper)
	require.Len(t, helpers, 2, "the item outside the list has no matching parent")
	assert.Equal(t, "my-list", helpers[0].TagHelper.TagName)
	assert.Equal(t, "my-item", helpers[1].TagHelper.TagName)
	assert.Contains(t, helpers[0].Children, syntax.Node(helpers[1]))
	assert.Equal(t, []string{"RZ2010", "RZ2009"}, ids(out.Diagnostics))
}

func TestRewrite_HTMLCommentsInRestrictedHelper(t *testing.T) {
	t.Parallel()

	text := "@addTagHelper *, TestAssembly\n<my-list><!-- note --></my-list>"

	_, strict := rewrite(t, text, binder.Options{}, listHelpers()...)
	assert.Equal(t, []string{"RZ2009"}, ids(strict.Diagnostics))

	_, relaxed := rewrite(t, text, binder.Options{AllowHTMLComments: true}, listHelpers()...)
	assert.Empty(t, relaxed.Diagnostics)
}

func TestRewrite_BoundAttributeChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		attrs string
		opts  binder.Options
		want  []string
	}{
		{name: "string may be empty", attrs: `bound-attr=""`},
		{name: "empty int", attrs: `bound-attr="x" count=" "`, want: []string{"RZ2008"}},
		{name: "minimized int", attrs: `bound-attr="x" count`, opts: binder.Options{AllowMinimizedBooleanAttributes: true}, want: []string{"RZ2008"}},
		{name: "minimized bool rejected", attrs: `bound-attr="x" enabled`, want: []string{"RZ2008"}},
		{name: "minimized bool allowed", attrs: `bound-attr="x" enabled`, opts: binder.Options{AllowMinimizedBooleanAttributes: true}},
		{name: "indexer with key", attrs: `bound-attr="x" route-id="1"`},
		{name: "indexer without key", attrs: `bound-attr="x" route-="1"`, want: []string{"RZ1029"}},
		{name: "code block in non-string", attrs: `bound-attr="x" count="@{ var y = 1; }"`, want: []string{"RZ2006"}},
		{name: "code in declaration", attrs: `bound-attr="x" @attrs`, want: []string{"RZ1031"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			text := "@addTagHelper *, TestAssembly\n<my-component " + tc.attrs + "></my-component>"
			_, out := rewrite(t, text, tc.opts, component())
			require.Len(t, syntax.FindBlocks(out.Root, syntax.BlockTagHelper), 1)
			if tc.want == nil {
				assert.Empty(t, out.Diagnostics)
			} else {
				assert.Equal(t, tc.want, ids(out.Diagnostics))
			}
		})
	}
}

func TestRewrite_IndexerMatch(t *testing.T) {
	t.Parallel()

	_, out := rewrite(t, "@addTagHelper *, TestAssembly\n<my-component bound-attr=\"x\" route-id=\"1\" />", binder.Options{}, component())
	helpers := syntax.FindBlocks(out.Root, syntax.BlockTagHelper)
	require.Len(t, helpers, 1)

	attrs := helpers[0].TagHelper.Attributes
	require.Len(t, attrs, 2)
	require.Len(t, attrs[1].Bound, 1)
	assert.True(t, attrs[1].Bound[0].IsIndexer)
	assert.Equal(t, "route-values", attrs[1].Bound[0].Attribute.Name())
}

func TestRewrite_InsideCode(t *testing.T) {
	t.Parallel()

	text := "@addTagHelper *, TestAssembly\n@if (show) {\n    <my-component bound-attr=\"@value\">x</my-component>\n}\n"
	_, out := rewrite(t, text, binder.Options{}, component())

	helpers := syntax.FindBlocks(out.Root, syntax.BlockTagHelper)
	require.Len(t, helpers, 1)
	value := helpers[0].TagHelper.Attributes[0].Value
	assert.Len(t, syntax.FindBlocks(value, syntax.BlockExpression), 1)
	assert.Empty(t, out.Diagnostics)
}

func TestRewrite_DescriptorDiagnosticsReportedOnce(t *testing.T) {
	t.Parallel()

	invalid := taghelper.NewBuilder(taghelper.DefaultKind, "BadTagHelper", assembly).
		TagMatchingRule(taghelper.RuleSpec{TagName: "bad"}).
		BoundAttribute(taghelper.BoundAttributeSpec{Name: "data-x", TypeName: taghelper.StringTypeName}).
		Build()
	require.True(t, invalid.HasErrors())

	_, out := rewrite(t, "@addTagHelper *, TestAssembly\n<bad></bad><bad></bad>", binder.Options{}, invalid)
	assert.Len(t, syntax.FindBlocks(out.Root, syntax.BlockTagHelper), 2)
	assert.Equal(t, []string{"RZ3004"}, ids(out.Diagnostics))
}

func TestRewrite_NoHelpersReturnsInput(t *testing.T) {
	t.Parallel()

	tree := parse(t, "<my-component bound-attr=\"x\"></my-component>")
	ctx, _ := binder.Resolve([]*syntax.Tree{tree}, []*taghelper.Descriptor{component()})
	assert.Same(t, tree, binder.Rewrite(tree, ctx, binder.Options{}))
}
