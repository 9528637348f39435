// Package codegen writes a finalized IR document as C# source, recording a
// line mapping for every piece of template code it copies.
package codegen

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gorazor/pkg/directive"
	"github.com/yaklabco/gorazor/pkg/ir"
	"github.com/yaklabco/gorazor/pkg/source"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

// Names used by the generated code.
const (
	tagHelpersNamespace = "global::Microsoft.AspNetCore.Razor.TagHelpers"
	runtimeNamespace    = "global::Microsoft.AspNetCore.Razor.Runtime.TagHelpers"
	helperResultType    = "global::Microsoft.AspNetCore.Mvc.Razor.HelperResult"

	executionContextVar  = "__tagHelperExecutionContext"
	scopeManagerVar      = "__tagHelperScopeManager"
	backedScopeManager   = "__backed__tagHelperScopeManager"
	runnerVar            = "__tagHelperRunner"
	stringValueBufferVar = "__tagHelperStringValueBuffer"
	designTimeVar        = "__o"
	tokenHelpersMethod   = "__RazorDirectiveTokenHelpers__"
)

// Options controls code generation.
type Options struct {
	DesignTime     bool
	IndentSize     int
	IndentWithTabs bool
	// NewLine separates generated lines; "\n" when empty.
	NewLine string
	// IDs names tag helper execution scopes; UUIDGenerator when nil. A
	// ForkingIDGenerator is forked for each call to Generate.
	IDs IDGenerator
}

// OptionsFor returns the generation options matching the options doc was
// lowered with.
func OptionsFor(doc *ir.Document) Options {
	return Options{
		DesignTime:     doc.Options.DesignTime,
		IndentSize:     doc.Options.IndentSize,
		IndentWithTabs: doc.Options.IndentWithTabs,
		NewLine:        doc.Options.NewLine,
	}
}

// TagHelperVariable returns the field holding instances of the tag helper
// type typeName.
func TagHelperVariable(typeName string) string {
	return "__" + strings.ReplaceAll(typeName, ".", "_")
}

// Generate writes doc as C#. The diagnostics of the result are those
// attached to doc.
func Generate(doc *ir.Document, opts Options) *Document {
	g := &generator{
		doc:  doc,
		opts: opts,
		w:    NewWriter(opts.NewLine, opts.IndentSize, opts.IndentWithTabs),
		ids:  opts.IDs,
	}
	switch ids := g.ids.(type) {
	case nil:
		g.ids = UUIDGenerator{}
	case ForkingIDGenerator:
		g.ids = ids.Fork()
	}
	if opts.DesignTime {
		g.nodes = designTimeWriter{}
	} else {
		g.nodes = runtimeWriter{}
	}

	g.visit(doc.Root())

	return &Document{
		GeneratedCode: g.w.String(),
		Diagnostics:   doc.Diagnostics(),
		LineMappings:  g.mappings,
	}
}

// nodeWriter writes the nodes whose output differs between run-time and
// design-time code.
type nodeWriter interface {
	html(g *generator, id ir.NodeID)
	expression(g *generator, id ir.NodeID)
	attribute(g *generator, id ir.NodeID)
	tagHelper(g *generator, id ir.NodeID)
	tagHelperProperty(g *generator, id ir.NodeID)
	tagHelperHTMLAttribute(g *generator, id ir.NodeID)
	declareTagHelperFields(g *generator, id ir.NodeID)
}

type generator struct {
	doc      *ir.Document
	opts     Options
	w        *Writer
	ids      IDGenerator
	nodes    nodeWriter
	mappings []LineMapping
}

func (g *generator) children(id ir.NodeID) {
	for _, c := range g.doc.Children(id) {
		g.visit(c)
	}
}

func (g *generator) visit(id ir.NodeID) {
	n := g.doc.Node(id)
	switch n.Kind {
	case ir.KindChecksum:
		g.checksum(n)
	case ir.KindNamespace:
		g.namespace(id, n)
	case ir.KindUsing:
		g.using(n)
	case ir.KindClass:
		g.class(id, n)
	case ir.KindMethod:
		g.method(id, n)
	case ir.KindField:
		g.field(n)
	case ir.KindProperty:
		g.property(n)
	case ir.KindHTMLContent:
		g.nodes.html(g, id)
	case ir.KindCSharpCode:
		g.code(id, n)
	case ir.KindCSharpExpression:
		g.nodes.expression(g, id)
	case ir.KindHTMLAttribute:
		g.nodes.attribute(g, id)
	case ir.KindTemplate:
		g.template(id)
	case ir.KindDesignTimeDirective:
		g.tokenHelpers(id)
	case ir.KindTagHelper:
		g.nodes.tagHelper(g, id)
	case ir.KindCreateTagHelper:
		g.createTagHelper(n)
	case ir.KindTagHelperProperty:
		g.nodes.tagHelperProperty(g, id)
	case ir.KindTagHelperHTMLAttribute:
		g.nodes.tagHelperHTMLAttribute(g, id)
	case ir.KindPreallocatedHTMLAttribute:
		if !g.opts.DesignTime {
			g.w.WriteLine(fmt.Sprintf("%s.AddHtmlAttribute(%s);", executionContextVar, n.Field))
		}
	case ir.KindPreallocatedProperty:
		if !g.opts.DesignTime {
			g.preallocatedProperty(n)
		}
	case ir.KindDeclareTagHelperFields:
		g.nodes.declareTagHelperFields(g, id)
	case ir.KindPreallocatedAttributeValue, ir.KindPreallocatedPropertyValue:
		if !g.opts.DesignTime {
			g.preallocatedDeclaration(n)
		}
	case ir.KindDirective, ir.KindMalformedDirective, ir.KindDirectiveToken, ir.KindToken:
	default:
		g.children(id)
	}
}

// mapped writes content, recording a mapping to src.
func (g *generator) mapped(content string, src *source.Span) {
	g.w.StartLine()
	if src != nil && !src.Start().IsUndefined() {
		g.mappings = append(g.mappings, LineMapping{
			Original:  *src,
			Generated: source.NewSpan(g.w.Location(), runeLen(content)),
		})
	}
	g.w.Write(content)
}

// tokens writes the token children of id and visits any other child.
func (g *generator) tokens(id ir.NodeID) {
	for _, c := range g.doc.Children(id) {
		n := g.doc.Node(c)
		if n.Kind == ir.KindToken {
			g.mapped(n.Content, n.Source)
			continue
		}
		g.visit(c)
	}
}

// firstSource returns the source of the first token under id, or the
// source of id itself.
func (g *generator) firstSource(id ir.NodeID) *source.Span {
	if tok := g.doc.FindFirst(id, ir.KindToken); tok != ir.None {
		if src := g.doc.Node(tok).Source; src != nil {
			return src
		}
	}
	return g.doc.Node(id).Source
}

// linePragma wraps body in #line directives pointing at src.
func (g *generator) linePragma(src *source.Span, body func()) {
	if src == nil || src.Start().IsUndefined() {
		body()
		g.w.EnsureNewLine()
		return
	}
	g.w.WriteUnindented(fmt.Sprintf("#line %d %s", src.LineIndex+1, csString(src.FilePath)))
	body()
	g.w.EnsureNewLine()
	g.w.NewLine()
	g.w.WriteUnindented("#line default")
	g.w.WriteUnindented("#line hidden")
}

func (g *generator) block(header string, body func()) {
	g.w.WriteLine(header)
	g.w.WriteLine("{")
	g.w.Indent()
	body()
	g.w.Dedent()
	g.w.EnsureNewLine()
	g.w.WriteLine("}")
}

func (g *generator) checksum(n *ir.Node) {
	if n.Algorithm != source.ChecksumAlgorithm || n.Content == "" {
		return
	}
	g.w.WriteLine(fmt.Sprintf("#pragma checksum %s %s %s",
		csString(n.Name), csString(source.ChecksumAlgorithmID), csString(n.Content)))
}

func (g *generator) namespace(id ir.NodeID, n *ir.Node) {
	if n.Content == "" {
		g.children(id)
		return
	}
	g.block("namespace "+n.Content, func() {
		g.w.WriteUnindented("#line hidden")
		g.children(id)
	})
}

func (g *generator) using(n *ir.Node) {
	if n.Source == nil {
		g.w.WriteLine("using " + n.Content + ";")
		return
	}
	g.linePragma(n.Source, func() {
		g.w.Write("using ")
		g.mapped(n.Content, n.Source)
		g.w.Write(";")
	})
}

func (g *generator) class(id ir.NodeID, n *ir.Node) {
	var header strings.Builder
	for _, m := range n.Modifiers {
		header.WriteString(m + " ")
	}
	header.WriteString("class " + n.Name)
	var bases []string
	if n.Type != "" {
		bases = append(bases, n.Type)
	}
	bases = append(bases, n.Interfaces...)
	if len(bases) > 0 {
		header.WriteString(" : " + strings.Join(bases, ", "))
	}
	g.block(header.String(), func() { g.children(id) })
}

func (g *generator) method(id ir.NodeID, n *ir.Node) {
	g.w.WriteLine("#pragma warning disable 1998")
	header := strings.Join(append(append([]string{}, n.Modifiers...), n.Type, n.Name+"()"), " ")
	g.block(header, func() { g.children(id) })
	g.w.WriteLine("#pragma warning restore 1998")
}

func (g *generator) field(n *ir.Node) {
	line := strings.Join(append(append([]string{}, n.Modifiers...), n.Type, n.Name), " ")
	if n.Content != "" {
		line += " = " + n.Content
	}
	g.w.WriteLine(line + ";")
}

func (g *generator) property(n *ir.Node) {
	if n.Content != "" {
		g.w.WriteLine("[" + n.Content + "]")
	}
	decl := strings.Join(append(append([]string{}, n.Modifiers...), n.Type, n.Name), " ")
	g.w.WriteLine(decl + " { get; private set; }")
}

// code writes a statement. Synthesized code has no source and is written
// as is.
func (g *generator) code(id ir.NodeID, n *ir.Node) {
	if n.Source == nil {
		g.tokens(id)
		g.w.EnsureNewLine()
		return
	}
	src := g.firstSource(id)
	g.linePragma(src, func() {
		g.w.WritePadding(0, src)
		g.tokens(id)
	})
}

func (g *generator) template(id ir.NodeID) {
	g.w.WriteLine("item => new " + helperResultType + "(async(__razor_template_writer) => {")
	g.w.Indent()
	if !g.opts.DesignTime {
		g.w.WriteLine("PushWriter(__razor_template_writer);")
	}
	g.children(id)
	if !g.opts.DesignTime {
		g.w.EnsureNewLine()
		g.w.WriteLine("PopWriter();")
	}
	g.w.Dedent()
	g.w.EnsureNewLine()
	g.w.WriteLine("}")
	g.w.Write(")")
}

func (g *generator) createTagHelper(n *ir.Node) {
	variable := n.Field
	if variable == "" {
		variable = TagHelperVariable(n.Type)
	}
	g.w.WriteLine(fmt.Sprintf("%s = CreateTagHelper<global::%s>();", variable, n.Type))
	if !g.opts.DesignTime {
		g.w.WriteLine(fmt.Sprintf("%s.Add(%s);", executionContextVar, variable))
	}
}

// propertyTarget returns the assignable expression for a bound property,
// writing the null check that guards indexer assignments.
func (g *generator) propertyTarget(n *ir.Node) string {
	target := TagHelperVariable(n.Descriptor.TypeName()) + "." + n.BoundAttribute.PropertyName()
	if !n.IsIndexer {
		return target
	}
	key := n.Name[min(len(n.BoundAttribute.IndexerNamePrefix()), len(n.Name)):]
	if !g.opts.DesignTime {
		g.w.WriteLine(fmt.Sprintf("if (%s == null)", target))
		g.w.WriteLine("{")
		g.w.Indent()
		g.w.WriteLine(fmt.Sprintf("throw new InvalidOperationException(InvalidTagHelperIndexerAssignment(%s, %s, %s));",
			csString(n.Name), csString(n.Descriptor.TypeName()), csString(n.BoundAttribute.PropertyName())))
		g.w.Dedent()
		g.w.WriteLine("}")
	}
	return fmt.Sprintf("%s[%s]", target, csString(key))
}

func (g *generator) preallocatedProperty(n *ir.Node) {
	target := g.propertyTarget(n)
	g.w.WriteLine(fmt.Sprintf("%s = (string)%s.Value;", target, n.Field))
	g.w.WriteLine(fmt.Sprintf("%s.AddTagHelperAttribute(%s);", executionContextVar, n.Field))
}

func (g *generator) preallocatedDeclaration(n *ir.Node) {
	var value string
	switch {
	case n.Structure == syntax.AttributeMinimized:
		value = csString(n.Name)
	case n.Kind == ir.KindPreallocatedAttributeValue:
		value = fmt.Sprintf("%s, new global::Microsoft.AspNetCore.Html.HtmlString(%s), %s",
			csString(n.Name), csString(n.Content), valueStyle(n))
	default:
		value = fmt.Sprintf("%s, %s, %s", csString(n.Name), csString(n.Content), valueStyle(n))
	}
	g.w.WriteLine(fmt.Sprintf("private static readonly %s.TagHelperAttribute %s = new %s.TagHelperAttribute(%s);",
		tagHelpersNamespace, n.Field, tagHelpersNamespace, value))
}

func valueStyle(n *ir.Node) string {
	return tagHelpersNamespace + ".HtmlAttributeValueStyle." + n.Structure.String()
}

// tokenHelpers writes the design-time method that references every
// directive token, so tooling can resolve the symbols they name.
func (g *generator) tokenHelpers(id ir.NodeID) {
	g.w.WriteLine("#pragma warning disable 219")
	g.w.WriteLine("private void " + tokenHelpersMethod + "() {")
	for _, c := range g.doc.Children(id) {
		n := g.doc.Node(c)
		if n.Kind != ir.KindDirectiveToken || n.Token == nil || n.Content == "" {
			g.visit(c)
			continue
		}
		g.w.WriteLine("((System.Action)(() => {")
		g.tokenHelper(n)
		g.w.WriteLine("}")
		g.w.WriteLine("))();")
	}
	g.w.WriteLine("}")
	g.w.WriteLine("#pragma warning restore 219")
	g.w.WriteLine("#pragma warning disable 0414")
	g.w.WriteLine("private static System.Object " + designTimeVar + " = null;")
	g.w.WriteLine("#pragma warning restore 0414")
}

func (g *generator) tokenHelper(n *ir.Node) {
	const object = "global::System.Object "
	g.linePragma(n.Source, func() {
		switch n.Token.Kind {
		case directive.TokenType:
			g.w.WritePadding(0, n.Source)
			g.mapped(n.Content, n.Source)
			g.w.Write(" __typeHelper = default(" + n.Content + ");")
		case directive.TokenMember:
			g.w.WritePadding(len(object), n.Source)
			g.w.Write(object)
			g.mapped(n.Content, n.Source)
			g.w.Write(" = null;")
		case directive.TokenNamespace:
			prefix := object + "__typeHelper = nameof("
			g.w.WritePadding(len(prefix), n.Source)
			g.w.Write(prefix)
			g.mapped(n.Content, n.Source)
			g.w.Write(");")
		default:
			prefix := object + "__typeHelper = "
			g.w.WritePadding(len(prefix), n.Source)
			g.w.Write(prefix)
			value := n.Content
			if !strings.HasPrefix(value, `"`) {
				value = csString(value)
			}
			g.mapped(value, n.Source)
			g.w.Write(";")
		}
	})
}
