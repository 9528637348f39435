package mvc_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorazor/pkg/codegen"
	"github.com/yaklabco/gorazor/pkg/razor"
	"github.com/yaklabco/gorazor/pkg/razor/mvc"
	"github.com/yaklabco/gorazor/pkg/razor/passes"
	"github.com/yaklabco/gorazor/pkg/source"
)

func compile(t *testing.T, path, text string, imports ...*source.Document) *razor.CodeDocument {
	t.Helper()

	opts := razor.DefaultOptions()
	opts.SuppressChecksum = true
	opts.NewLine = "\n"
	opts.IDs = &codegen.SequentialIDGenerator{}

	engine := razor.New(opts, passes.Register, mvc.Register)
	doc, err := engine.Process(source.New(text, path), imports...)
	require.NoError(t, err)
	return doc
}

func diagnosticIDs(doc *razor.CodeDocument) []string {
	var ids []string
	for _, d := range doc.Diagnostics() {
		ids = append(ids, d.ID)
	}
	return ids
}

func TestView(t *testing.T) {
	t.Parallel()

	doc := compile(t, "Views/Home/Index.cshtml", "@model Shop.Item\n<p>@Model.Name</p>", mvc.DefaultImports())
	assert.Empty(t, doc.Diagnostics())
	assert.Equal(t, mvc.ViewDocumentKind, doc.IR.Kind())

	code := doc.GeneratedCode()
	assert.Contains(t, code, "namespace AspNetCore\n")
	assert.Contains(t, code, "public class Views_Home_Index : global::Microsoft.AspNetCore.Mvc.Razor.RazorPage<Shop.Item>\n")
	assert.Contains(t, code, "using System.Linq;")
	assert.Contains(t, code, "["+mvc.InjectAttribute+"]\n")
	assert.Contains(t, code, "public global::Microsoft.AspNetCore.Mvc.Rendering.IHtmlHelper<Shop.Item> Html { get; private set; }")
	assert.Contains(t, code, "public global::Microsoft.AspNetCore.Mvc.IUrlHelper Url { get; private set; }")
	assert.Contains(t, code,
		`[assembly: global::Microsoft.AspNetCore.Mvc.Razor.Compilation.RazorViewAttribute(@"/Views/Home/Index.cshtml", typeof(AspNetCore.Views_Home_Index))]`)
	assert.Less(t, strings.Index(code, "[assembly:"), strings.Index(code, "namespace AspNetCore"))
	assert.NotContains(t, code, "TModel")
}

func TestView_DynamicModel(t *testing.T) {
	t.Parallel()

	doc := compile(t, "Views/Shared/_Layout.cshtml", "<p></p>", mvc.DefaultImports())
	code := doc.GeneratedCode()
	assert.Contains(t, code, "public class Views_Shared__Layout : global::Microsoft.AspNetCore.Mvc.Razor.RazorPage<dynamic>\n")
	assert.Contains(t, code, "IHtmlHelper<dynamic> Html")
}

func TestView_InheritsKeepsModel(t *testing.T) {
	t.Parallel()

	doc := compile(t, "Views/Index.cshtml", "@inherits MyBase<TModel>\n@model Shop.Item\n")
	assert.Contains(t, doc.GeneratedCode(), "public class Views_Index : MyBase<Shop.Item>\n")
}

func TestInject_DocumentOverridesImports(t *testing.T) {
	t.Parallel()

	doc := compile(t, "Views/Index.cshtml", "@inject MyHtml Html\n", mvc.DefaultImports())
	code := doc.GeneratedCode()
	assert.Contains(t, code, "public MyHtml Html { get; private set; }")
	assert.Equal(t, 1, strings.Count(code, " Html { get; private set; }"))
}

func TestPage(t *testing.T) {
	t.Parallel()

	doc := compile(t, "Pages/Index.cshtml", "@page \"/items/{id}\"\n@model IndexModel\n<h1>x</h1>")
	assert.Empty(t, doc.Diagnostics())
	assert.Equal(t, mvc.PageDocumentKind, doc.IR.Kind())

	code := doc.GeneratedCode()
	assert.Contains(t, code, "public class Pages_Index : global::Microsoft.AspNetCore.Mvc.RazorPages.Page\n")
	assert.Contains(t, code,
		`[assembly: global::Microsoft.AspNetCore.Mvc.RazorPages.Infrastructure.RazorPageAttribute(@"/Pages/Index.cshtml", typeof(AspNetCore.Pages_Index), @"/items/{id}")]`)
}

func TestPage_WithoutRoute(t *testing.T) {
	t.Parallel()

	doc := compile(t, "Pages/About.cshtml", "@page\n<h1>About</h1>")
	assert.Empty(t, doc.Diagnostics())
	assert.Equal(t, mvc.PageDocumentKind, doc.IR.Kind())
	assert.Contains(t, doc.GeneratedCode(), `typeof(AspNetCore.Pages_About), @"")]`)
}

func TestPage_NamespaceDirective(t *testing.T) {
	t.Parallel()

	doc := compile(t, "Pages/Index.cshtml", "@page\n@namespace Shop.Pages\n")
	code := doc.GeneratedCode()
	assert.Contains(t, code, "namespace Shop.Pages\n")
	assert.Contains(t, code, "typeof(Shop.Pages.Pages_Index)")
}

func TestPageDirectiveDiagnostics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		imports []*source.Document
		kind    string
		want    []string
	}{
		{
			name: "after comment and directives",
			text: "@* page *@\n@using System\n@page\n",
			kind: mvc.PageDocumentKind,
		},
		{
			name: "after markup",
			text: "<h1>x</h1>\n@page\n",
			kind: mvc.PageDocumentKind,
			want: []string{"RZ3906"},
		},
		{
			name:    "imported",
			text:    "<p></p>",
			imports: []*source.Document{source.New("@page\n", "Pages/_ViewImports.cshtml")},
			kind:    mvc.ViewDocumentKind,
			want:    []string{"RZ3905"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := compile(t, "Pages/Index.cshtml", tt.text, tt.imports...)
			assert.Equal(t, tt.want, diagnosticIDs(doc))
			assert.Equal(t, tt.kind, doc.IR.Kind())
		})
	}
}

func TestClassName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"Views/Home/Index.cshtml", "Views_Home_Index"},
		{"/Pages/My-Page.cshtml", "Pages_My_Page"},
		{"./a/b.cshtml", "a_b"},
		{"1st.cshtml", "_1st"},
		{"Views/Home/Index.Mobile.cshtml", "Views_Home_Index_Mobile"},
		{"", passes.DefaultClassName},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, mvc.ClassName(tt.path))
		})
	}
}

func TestSubstituteModel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "RazorPage<Item>", mvc.SubstituteModel("RazorPage<TModel>", "Item"))
	assert.Equal(t, "IFoo<TModelX>", mvc.SubstituteModel("IFoo<TModelX>", "Item"))
	assert.Equal(t, "A<B, dynamic>", mvc.SubstituteModel("A<B, TModel>", "dynamic"))
}

func TestRegister_Directives(t *testing.T) {
	t.Parallel()

	engine := razor.New(razor.DefaultOptions(), passes.Register, mvc.Register)
	var keywords []string
	for _, d := range engine.Directives() {
		keywords = append(keywords, d.Keyword())
	}
	assert.Subset(t, keywords, []string{"model", "inject", "page", "inherits", "section"})
}
