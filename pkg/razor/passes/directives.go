package passes

import (
	"github.com/yaklabco/gorazor/pkg/directive"
	"github.com/yaklabco/gorazor/pkg/ir"
	"github.com/yaklabco/gorazor/pkg/razor"
)

// FindDirectives returns the directive nodes for keyword, in tree order.
func FindDirectives(irDoc *ir.Document, keyword string) []ir.NodeID {
	var out []ir.NodeID
	for _, id := range irDoc.Find(irDoc.Root(), ir.KindDirective) {
		if d := irDoc.Node(id).Directive; d != nil && d.Keyword() == keyword {
			out = append(out, id)
		}
	}
	return out
}

// TokenValue returns the content of the index-th token of a directive node.
func TokenValue(irDoc *ir.Document, id ir.NodeID, index int) (string, bool) {
	i := 0
	for _, c := range irDoc.Children(id) {
		n := irDoc.Node(c)
		if n.Kind != ir.KindDirectiveToken {
			continue
		}
		if i == index {
			return n.Content, n.Content != ""
		}
		i++
	}
	return "", false
}

// AddCode appends a synthesized C# statement to parent.
func AddCode(irDoc *ir.Document, parent ir.NodeID, code string) ir.NodeID {
	id := irDoc.AddNew(parent, ir.Node{Kind: ir.KindCSharpCode})
	irDoc.AddNew(id, ir.Node{Kind: ir.KindToken, TokenKind: ir.TokenCSharp, Content: code})
	return id
}

// moveBody moves the children of a directive that are not tokens to the end
// of parent.
func moveBody(irDoc *ir.Document, from, to ir.NodeID) {
	for _, c := range irDoc.Children(from) {
		if irDoc.Node(c).Kind != ir.KindDirectiveToken {
			irDoc.Add(to, c)
		}
	}
}

// FunctionsPass moves the body of @functions into the class, ahead of the
// generated method.
type FunctionsPass struct{}

func (FunctionsPass) Name() string { return "functions" }

func (FunctionsPass) Execute(_ *razor.CodeDocument, irDoc *ir.Document) {
	class, method := Class(irDoc), Method(irDoc)
	if class == ir.None || method == ir.None {
		return
	}
	for _, d := range FindDirectives(irDoc, directive.Functions.Keyword()) {
		for _, c := range irDoc.Children(d) {
			if irDoc.Node(c).Kind != ir.KindDirectiveToken {
				irDoc.Insert(class, irDoc.IndexOf(method), c)
			}
		}
		irDoc.Remove(d)
	}
}

// InheritsPass sets the base type of the class from @inherits.
type InheritsPass struct{}

func (InheritsPass) Name() string { return "inherits" }

func (InheritsPass) Execute(_ *razor.CodeDocument, irDoc *ir.Document) {
	class := Class(irDoc)
	if class == ir.None {
		return
	}
	for _, d := range FindDirectives(irDoc, directive.Inherits.Keyword()) {
		if base, ok := TokenValue(irDoc, d, 0); ok {
			irDoc.Node(class).Type = base
		}
		irDoc.Remove(d)
	}
}

// NamespacePass sets the namespace of the class from @namespace.
type NamespacePass struct{}

func (NamespacePass) Name() string { return "namespace" }

func (NamespacePass) Execute(_ *razor.CodeDocument, irDoc *ir.Document) {
	ns := Namespace(irDoc)
	if ns == ir.None {
		return
	}
	for _, d := range FindDirectives(irDoc, directive.Namespace.Keyword()) {
		if name, ok := TokenValue(irDoc, d, 0); ok {
			irDoc.Node(ns).Content = name
		}
		irDoc.Remove(d)
	}
}

// SectionPass rewrites @section into a DefineSection call whose delegate
// writes the section body.
type SectionPass struct{}

func (SectionPass) Name() string { return "section" }

func (SectionPass) Execute(_ *razor.CodeDocument, irDoc *ir.Document) {
	for _, d := range FindDirectives(irDoc, directive.Section.Keyword()) {
		name, _ := TokenValue(irDoc, d, 0)
		section := irDoc.New(ir.Node{Kind: ir.KindSection, Name: name, Source: irDoc.Node(d).Source})
		irDoc.Replace(d, section)

		AddCode(irDoc, section, `DefineSection("`+name+`", async() => {`)
		moveBody(irDoc, d, section)
		AddCode(irDoc, section, "});")
	}
}

// DesignTimeDirectivePass copies every directive token into a helper method
// so editors can resolve the symbols directives name. It only runs for
// design-time documents and must run before passes that remove directives.
type DesignTimeDirectivePass struct{}

func (DesignTimeDirectivePass) Name() string { return "design-time-directives" }

func (DesignTimeDirectivePass) Execute(_ *razor.CodeDocument, irDoc *ir.Document) {
	if !irDoc.Options.DesignTime {
		return
	}
	class := Class(irDoc)
	if class == ir.None {
		return
	}
	var tokens []ir.NodeID
	for _, id := range irDoc.Find(irDoc.Root(), ir.KindDirectiveToken) {
		if n := irDoc.Node(id); n.Token != nil && n.Content != "" {
			tokens = append(tokens, id)
		}
	}
	if len(tokens) == 0 {
		return
	}
	helper := irDoc.New(ir.Node{Kind: ir.KindDesignTimeDirective})
	irDoc.Insert(class, 0, helper)
	for _, id := range tokens {
		irDoc.AddNew(helper, *irDoc.Node(id))
	}
}
