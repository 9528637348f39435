package mvc

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/ir"
	"github.com/yaklabco/gorazor/pkg/razor"
	"github.com/yaklabco/gorazor/pkg/razor/passes"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

// InjectAttribute marks the properties generated for @inject.
const InjectAttribute = "global::Microsoft.AspNetCore.Mvc.Razor.Internal.RazorInjectAttribute"

const (
	razorPageAttribute = "global::Microsoft.AspNetCore.Mvc.RazorPages.Infrastructure.RazorPageAttribute"
	razorViewAttribute = "global::Microsoft.AspNetCore.Mvc.Razor.Compilation.RazorViewAttribute"
)

//nolint:gochecknoglobals // Compiled once.
var modelPlaceholder = regexp.MustCompile(`\bTModel\b`)

// ModelType returns the type named by the last @model directive of irDoc,
// or DefaultModelType.
func ModelType(irDoc *ir.Document) string {
	model := DefaultModelType
	for _, d := range passes.FindDirectives(irDoc, Model.Keyword()) {
		if v, ok := passes.TokenValue(irDoc, d, 0); ok {
			model = v
		}
	}
	return model
}

// SubstituteModel replaces the TModel placeholder in typeName.
func SubstituteModel(typeName, model string) string {
	return modelPlaceholder.ReplaceAllLiteralString(typeName, model)
}

// InjectPass turns every @inject into a property of the class. A later
// injection of the same property name replaces an earlier one, so a
// document overrides its imports.
type InjectPass struct{}

func (InjectPass) Name() string { return "mvc-inject" }

func (InjectPass) Execute(_ *razor.CodeDocument, irDoc *ir.Document) {
	class, method := passes.Class(irDoc), passes.Method(irDoc)
	if !isMVC(irDoc) || class == ir.None || method == ir.None {
		return
	}
	model := ModelType(irDoc)

	var order []string
	types := map[string]string{}
	for _, d := range passes.FindDirectives(irDoc, Inject.Keyword()) {
		typeName, okType := passes.TokenValue(irDoc, d, 0)
		member, okMember := passes.TokenValue(irDoc, d, 1)
		irDoc.Remove(d)
		if !okType || !okMember {
			continue
		}
		if _, seen := types[member]; !seen {
			order = append(order, member)
		}
		types[member] = SubstituteModel(typeName, model)
	}

	for _, member := range order {
		irDoc.Insert(class, irDoc.IndexOf(method), irDoc.New(ir.Node{
			Kind:      ir.KindProperty,
			Name:      member,
			Type:      types[member],
			Content:   InjectAttribute,
			Modifiers: []string{"public"},
		}))
	}
}

// ModelPass closes the TModel placeholder of the base type over the model
// type and removes the @model directives. It runs after @inherits and
// @inject have been applied.
type ModelPass struct{}

func (ModelPass) Name() string { return "mvc-model" }

func (ModelPass) Execute(_ *razor.CodeDocument, irDoc *ir.Document) {
	class := passes.Class(irDoc)
	if !isMVC(irDoc) || class == ir.None {
		return
	}
	n := irDoc.Node(class)
	n.Type = SubstituteModel(n.Type, ModelType(irDoc))
	for _, d := range passes.FindDirectives(irDoc, Model.Keyword()) {
		irDoc.Remove(d)
	}
}

// PagePass removes @page directives and writes the assembly attribute that
// registers the generated type as a view or page, with the route template
// of a page.
type PagePass struct{}

func (PagePass) Name() string { return "mvc-page" }

func (PagePass) Execute(doc *razor.CodeDocument, irDoc *ir.Document) {
	ns, class := passes.Namespace(irDoc), passes.Class(irDoc)
	if !isMVC(irDoc) || ns == ir.None || class == ir.None {
		return
	}

	var route string
	for _, d := range pageDirectives(doc, irDoc) {
		if v, ok := passes.TokenValue(irDoc, d, 0); ok {
			route = strings.Trim(v, `"`)
		}
	}
	for _, d := range passes.FindDirectives(irDoc, Page.Keyword()) {
		irDoc.Remove(d)
	}

	typeName := irDoc.Node(class).Name
	if nsName := irDoc.Node(ns).Content; nsName != "" {
		typeName = nsName + "." + typeName
	}
	docPath := verbatim(RelativePath(documentPath(doc)))

	var attr string
	if irDoc.Kind() == PageDocumentKind {
		attr = fmt.Sprintf("[assembly: %s(%s, typeof(%s), %s)]", razorPageAttribute, docPath, typeName, verbatim(route))
	} else {
		attr = fmt.Sprintf("[assembly: %s(%s, typeof(%s))]", razorViewAttribute, docPath, typeName)
	}
	root := irDoc.Root()
	code := irDoc.New(ir.Node{Kind: ir.KindCSharpCode})
	irDoc.AddNew(code, ir.Node{Kind: ir.KindToken, TokenKind: ir.TokenCSharp, Content: attr})
	irDoc.Insert(root, irDoc.IndexOf(ns), code)
}

// verbatim quotes s as a C# verbatim string literal.
func verbatim(s string) string {
	return `@"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// PageDirectivePass reports @page directives that are imported or that
// follow content of the document. Only whitespace, Razor comments and other
// directives may come first.
type PageDirectivePass struct{}

func (PageDirectivePass) Name() string { return "mvc-page-directive" }

func (PageDirectivePass) Execute(doc *razor.CodeDocument, tree *syntax.Tree) *syntax.Tree {
	var bag diag.Bag
	if doc != nil {
		for _, imp := range doc.ImportSyntaxTrees {
			for _, b := range findPageDirectives(imp.Root) {
				name := ""
				if imp.Source != nil {
					name = path.Base(imp.Source.FilePath())
				}
				bag.Report(diag.PageDirectiveCannotBeImported, b.Range(), Page.Keyword(), name)
			}
		}
	}

	if tree.Root != nil {
		for _, b := range findPageDirectives(tree.Root) {
			if !leadsDocument(tree.Root, b) {
				bag.Report(diag.PageDirectiveMustPrecede, b.Range(), Page.Keyword())
			}
		}
	}

	if bag.Len() == 0 {
		return tree
	}
	return tree.WithDiagnostics(bag.Items()...)
}

func findPageDirectives(root *syntax.Block) []*syntax.Block {
	if root == nil {
		return nil
	}
	var out []*syntax.Block
	for _, b := range syntax.FindBlocks(root, syntax.BlockDirective) {
		if b.Directive != nil && b.Directive.Descriptor == Page {
			out = append(out, b)
		}
	}
	return out
}

// leadsDocument reports whether b is a child of root preceded only by
// whitespace, comments and directives.
func leadsDocument(root, b *syntax.Block) bool {
	for _, c := range root.Children {
		if c == syntax.Node(b) {
			return true
		}
		switch n := c.(type) {
		case *syntax.Span:
			if strings.TrimSpace(n.Content) != "" {
				return false
			}
		case *syntax.Block:
			if n.Kind != syntax.BlockComment && n.Kind != syntax.BlockDirective {
				if strings.TrimSpace(syntax.Text(n)) != "" {
					return false
				}
			}
		}
	}
	return false
}
