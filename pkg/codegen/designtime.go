package codegen

import (
	"github.com/yaklabco/gorazor/pkg/ir"
)

// designTimeWriter writes code for editor tooling. Markup produces no
// output; every piece of template code is kept, with its position, so
// the tooling can map its results back.
type designTimeWriter struct{}

func (designTimeWriter) html(*generator, ir.NodeID) {}

func (designTimeWriter) expression(g *generator, id ir.NodeID) {
	writeExpression(g, id, designTimeVar+" = ", ";")
}

func (d designTimeWriter) attribute(g *generator, id ir.NodeID) {
	d.attributeCode(g, id)
}

// attributeCode writes the C# found in the values of an attribute.
func (d designTimeWriter) attributeCode(g *generator, id ir.NodeID) {
	for _, c := range g.doc.Children(id) {
		switch g.doc.Node(c).Kind {
		case ir.KindHTMLAttributeValue:
		case ir.KindCSharpExpressionAttributeValue:
			d.expression(g, c)
		case ir.KindCSharpCodeAttributeValue:
			g.children(c)
		default:
			g.visit(c)
		}
	}
}

func (designTimeWriter) tagHelper(g *generator, id ir.NodeID) {
	var rest []ir.NodeID
	for _, c := range g.doc.Children(id) {
		if g.doc.Node(c).Kind == ir.KindTagHelperBody {
			g.children(c)
			continue
		}
		rest = append(rest, c)
	}
	for _, c := range rest {
		g.visit(c)
	}
}

func (d designTimeWriter) tagHelperProperty(g *generator, id ir.NodeID) {
	n := g.doc.Node(id)
	isString := n.BoundAttribute.IsStringProperty()
	if n.IsIndexer {
		isString = n.BoundAttribute.IsIndexerStringProperty()
	}
	if isString {
		d.attributeCode(g, id)
		return
	}
	target := g.propertyTarget(n)
	for _, c := range g.doc.Children(id) {
		writeExpression(g, c, target+" = ", ";")
	}
}

func (d designTimeWriter) tagHelperHTMLAttribute(g *generator, id ir.NodeID) {
	d.attributeCode(g, id)
}

func (designTimeWriter) declareTagHelperFields(g *generator, id ir.NodeID) {
	g.children(id)
}
