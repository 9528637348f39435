package codegen

import (
	"fmt"

	"github.com/yaklabco/gorazor/pkg/ir"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

// runtimeWriter writes the code executed to render a template.
type runtimeWriter struct{}

func (runtimeWriter) html(g *generator, id ir.NodeID) {
	text := g.doc.Text(id)
	if text == "" {
		return
	}
	for _, chunk := range chunks(text, maxLiteralLength) {
		g.w.WriteLine("WriteLiteral(" + csString(chunk) + ");")
	}
}

func (runtimeWriter) expression(g *generator, id ir.NodeID) {
	writeExpression(g, id, "Write(", ");")
}

// writeExpression writes the tokens of id between open and closing,
// padded so the code lines up with the template.
func writeExpression(g *generator, id ir.NodeID, open, closing string) {
	src := g.firstSource(id)
	g.linePragma(src, func() {
		g.w.WritePadding(runeLen(open), src)
		g.w.Write(open)
		g.tokens(id)
		g.w.Write(closing)
	})
}

func (runtimeWriter) attribute(g *generator, id ir.NodeID) {
	n := g.doc.Node(id)
	values := g.doc.Children(id)
	prefixStart, suffixStart := 0, 0
	if n.Source != nil {
		prefixStart = n.Source.AbsoluteIndex
		suffixStart = n.Source.End() - runeLen(n.Suffix)
	}
	g.w.WriteLine(fmt.Sprintf("BeginWriteAttribute(%s, %s, %d, %s, %d, %d);",
		csString(n.Name), csString(n.Prefix), prefixStart, csString(n.Suffix), suffixStart, len(values)))
	for _, v := range values {
		writeAttributeValue(g, v, "WriteAttributeValue(")
	}
	g.w.WriteLine("EndWriteAttribute();")
}

// writeAttributeValue writes one value of an HTML attribute as a call of
// method.
func writeAttributeValue(g *generator, id ir.NodeID, method string) {
	n := g.doc.Node(id)
	prefixStart, length := 0, 0
	if n.Source != nil {
		prefixStart = n.Source.AbsoluteIndex
		length = n.Source.Length - runeLen(n.Prefix)
	}
	valueStart := prefixStart + runeLen(n.Prefix)

	switch n.Kind {
	case ir.KindHTMLAttributeValue:
		g.w.WriteLine(fmt.Sprintf("%s%s, %d, %s, %d, %d, true);",
			method, csString(n.Prefix), prefixStart, csString(g.doc.Text(id)), valueStart, length))
	case ir.KindCSharpExpressionAttributeValue:
		g.w.Write(fmt.Sprintf("%s%s, %d, ", method, csString(n.Prefix), prefixStart))
		src := g.firstSource(id)
		g.linePragma(src, func() {
			g.w.WritePadding(0, src)
			g.tokens(id)
		})
		g.w.WriteLine(fmt.Sprintf(", %d, %d, false);", valueStart, length))
	case ir.KindCSharpCodeAttributeValue:
		g.w.WriteLine(fmt.Sprintf("%s%s, %d, new %s(async(__razor_attribute_value_writer) => {",
			method, csString(n.Prefix), prefixStart, helperResultType))
		g.w.Indent()
		g.w.WriteLine("PushWriter(__razor_attribute_value_writer);")
		g.children(id)
		g.w.EnsureNewLine()
		g.w.WriteLine("PopWriter();")
		g.w.Dedent()
		g.w.WriteLine("}")
		g.w.WriteLine(fmt.Sprintf("), %d, %d, false);", valueStart, length))
	default:
		g.visit(id)
	}
}

func (runtimeWriter) tagHelper(g *generator, id ir.NodeID) {
	n := g.doc.Node(id)
	g.w.WriteLine(fmt.Sprintf("%s = %s.Begin(%s, %s.TagMode.%s, %s, async() => {",
		executionContextVar, scopeManagerVar, csString(n.Name), tagHelpersNamespace, n.Mode, csString(g.ids.NewID())))
	g.w.Indent()
	for _, c := range g.doc.Children(id) {
		if g.doc.Node(c).Kind == ir.KindTagHelperBody {
			g.children(c)
		}
	}
	g.w.Dedent()
	g.w.EnsureNewLine()
	g.w.WriteLine("}")
	g.w.WriteLine(");")

	for _, c := range g.doc.Children(id) {
		if g.doc.Node(c).Kind != ir.KindTagHelperBody {
			g.visit(c)
		}
	}

	g.w.WriteLine(fmt.Sprintf("await %s.RunAsync(%s);", runnerVar, executionContextVar))
	g.w.WriteLine(fmt.Sprintf("if (!%s.Output.IsContentModified)", executionContextVar))
	g.w.WriteLine("{")
	g.w.Indent()
	g.w.WriteLine(fmt.Sprintf("await %s.SetOutputContentAsync();", executionContextVar))
	g.w.Dedent()
	g.w.WriteLine("}")
	g.w.WriteLine(fmt.Sprintf("Write(%s.Output);", executionContextVar))
	g.w.WriteLine(fmt.Sprintf("%s = %s.End();", executionContextVar, scopeManagerVar))
}

func (runtimeWriter) tagHelperProperty(g *generator, id ir.NodeID) {
	n := g.doc.Node(id)
	target := g.propertyTarget(n)
	attr := n.BoundAttribute
	isString, isBool := attr.IsStringProperty(), attr.IsBooleanProperty()
	if n.IsIndexer {
		isString, isBool = attr.IsIndexerStringProperty(), attr.IsIndexerBooleanProperty()
	}

	switch {
	case isString:
		g.w.WriteLine("BeginWriteTagHelperAttribute();")
		writeStringValue(g, id)
		g.w.WriteLine(fmt.Sprintf("%s = EndWriteTagHelperAttribute();", stringValueBufferVar))
		g.w.WriteLine(fmt.Sprintf("%s = %s;", target, stringValueBufferVar))
	case g.doc.ChildCount(id) == 0:
		if !isBool || n.Structure != syntax.AttributeMinimized {
			return
		}
		g.w.WriteLine(target + " = true;")
	default:
		for _, c := range g.doc.Children(id) {
			writeExpression(g, c, target+" = ", ";")
		}
	}
	g.w.WriteLine(fmt.Sprintf("%s.AddTagHelperAttribute(%s, %s, %s);",
		executionContextVar, csString(n.Name), target, valueStyle(n)))
}

// writeStringValue writes the values of a string property into the tag
// helper attribute buffer.
func writeStringValue(g *generator, id ir.NodeID) {
	for _, c := range g.doc.Children(id) {
		v := g.doc.Node(c)
		switch v.Kind {
		case ir.KindHTMLAttributeValue:
			g.w.WriteLine("WriteLiteral(" + csString(v.Prefix+g.doc.Text(c)) + ");")
		case ir.KindCSharpExpressionAttributeValue:
			if v.Prefix != "" {
				g.w.WriteLine("WriteLiteral(" + csString(v.Prefix) + ");")
			}
			writeExpression(g, c, "Write(", ");")
		case ir.KindCSharpCodeAttributeValue:
			if v.Prefix != "" {
				g.w.WriteLine("WriteLiteral(" + csString(v.Prefix) + ");")
			}
			g.children(c)
		default:
			g.visit(c)
		}
	}
}

func (runtimeWriter) tagHelperHTMLAttribute(g *generator, id ir.NodeID) {
	n := g.doc.Node(id)
	values := g.doc.Children(id)
	g.w.WriteLine(fmt.Sprintf("BeginAddHtmlAttributeValues(%s, %s, %d, %s);",
		executionContextVar, csString(n.Name), len(values), valueStyle(n)))
	for _, v := range values {
		writeAttributeValue(g, v, "AddHtmlAttributeValue(")
	}
	g.w.WriteLine(fmt.Sprintf("EndAddHtmlAttributeValues(%s);", executionContextVar))
}

func (runtimeWriter) declareTagHelperFields(g *generator, id ir.NodeID) {
	g.w.WriteUnindented("#line hidden")
	g.w.WriteLine("#pragma warning disable 0649")
	g.w.WriteLine(fmt.Sprintf("private %s.TagHelperExecutionContext %s;", runtimeNamespace, executionContextVar))
	g.w.WriteLine("#pragma warning restore 0649")
	g.w.WriteLine(fmt.Sprintf("private string %s;", stringValueBufferVar))
	g.w.WriteLine(fmt.Sprintf("private %s.TagHelperRunner %s = new %s.TagHelperRunner();", runtimeNamespace, runnerVar, runtimeNamespace))
	g.w.WriteLine(fmt.Sprintf("private %s.TagHelperScopeManager %s = null;", runtimeNamespace, backedScopeManager))
	g.block(fmt.Sprintf("private %s.TagHelperScopeManager %s", runtimeNamespace, scopeManagerVar), func() {
		g.block("get", func() {
			g.block(fmt.Sprintf("if (%s == null)", backedScopeManager), func() {
				g.w.WriteLine(fmt.Sprintf("%s = new %s.TagHelperScopeManager(StartTagHelperWritingScope, EndTagHelperWritingScope);",
					backedScopeManager, runtimeNamespace))
			})
			g.w.WriteLine("return " + backedScopeManager + ";")
		})
	})
	g.children(id)
}
