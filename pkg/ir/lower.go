package ir

import (
	"strings"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/directive"
	"github.com/yaklabco/gorazor/pkg/source"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

// Lower flattens tree into a new document without interpreting it.
//
// The directives of imports are lowered ahead of the document's content; the
// rest of an import is ignored. A singly occurring directive is taken from
// the document when present there, otherwise from the last import using it.
// Block directives cannot be imported.
func Lower(tree *syntax.Tree, imports []*syntax.Tree, opts Options) *Document {
	d := NewDocument(opts)
	l := &lowerer{doc: d, usings: map[string]bool{}}
	root := d.Root()

	if tree.Source != nil && !opts.SuppressChecksum {
		d.AddNew(root, Node{
			Kind:      KindChecksum,
			Name:      tree.Source.FilePath(),
			Content:   tree.Source.ChecksumHex(),
			Algorithm: source.ChecksumAlgorithm,
		})
	}

	overridden := map[*directive.Descriptor]bool{}
	for _, b := range directiveBlocks(tree) {
		overridden[b.Directive.Descriptor] = true
	}
	l.lowerImports(root, imports, overridden)

	if tree.Root != nil {
		l.lowerChildren(root, tree.Root.Children)
	}
	return d
}

type lowerer struct {
	doc    *Document
	usings map[string]bool
}

func directiveBlocks(tree *syntax.Tree) []*syntax.Block {
	if tree == nil || tree.Root == nil {
		return nil
	}
	var out []*syntax.Block
	syntax.Walk(tree.Root, func(n syntax.Node, _ *syntax.Block) bool {
		b, ok := n.(*syntax.Block)
		if !ok {
			return false
		}
		if b.Kind == syntax.BlockDirective && b.Directive != nil && b.Directive.Descriptor != nil {
			out = append(out, b)
			return false
		}
		return true
	})
	return out
}

func (l *lowerer) lowerImports(parent NodeID, imports []*syntax.Tree, overridden map[*directive.Descriptor]bool) {
	var blocks []*syntax.Block
	for _, imp := range imports {
		blocks = append(blocks, directiveBlocks(imp)...)
	}
	last := map[*directive.Descriptor]int{}
	for i, b := range blocks {
		last[b.Directive.Descriptor] = i
	}

	for i, b := range blocks {
		desc := b.Directive.Descriptor
		switch {
		case desc.IsBlock():
			l.doc.AddDiagnostic(diag.New(diag.BlockDirectiveCannotBeImported, b.Range(), desc.Keyword()))
		case desc.Usage() == directive.UsageFileScopedSinglyOccurring && (overridden[desc] || last[desc] != i):
		default:
			l.lowerDirective(parent, b)
		}
	}
}

func (l *lowerer) lowerChildren(parent NodeID, children []syntax.Node) {
	for _, c := range children {
		switch n := c.(type) {
		case *syntax.Span:
			l.lowerSpan(parent, n)
		case *syntax.Block:
			l.lowerBlock(parent, n)
		}
	}
}

func (l *lowerer) lowerSpan(parent NodeID, s *syntax.Span) {
	switch s.Generator {
	case syntax.GenMarkup, syntax.GenLiteralAttributeValue:
		l.html(parent, s)
	case syntax.GenStatement:
		id := l.doc.AddNew(parent, Node{Kind: KindCSharpCode, Source: SourceSpan(s.Range())})
		l.token(id, TokenCSharp, s.Content, s)
	case syntax.GenExpression:
		id := l.doc.AddNew(parent, Node{Kind: KindCSharpExpression, Source: SourceSpan(s.Range())})
		l.token(id, TokenCSharp, s.Content, s)
	case syntax.GenUsing:
		l.using(parent, s)
	}
}

func (l *lowerer) lowerBlock(parent NodeID, b *syntax.Block) {
	switch b.Kind {
	case syntax.BlockExpression:
		l.expression(parent, b)
	case syntax.BlockMarkupAttribute:
		l.attribute(parent, b)
	case syntax.BlockDirective:
		l.lowerDirective(parent, b)
	case syntax.BlockTemplate:
		id := l.doc.AddNew(parent, Node{Kind: KindTemplate, Source: SourceSpan(b.Range())})
		l.lowerChildren(id, b.Children)
	case syntax.BlockTagHelper:
		l.tagHelper(parent, b)
	case syntax.BlockComment:
	default:
		l.lowerChildren(parent, b.Children)
	}
}

// html appends markup to the trailing HTMLContent of parent, or starts one.
func (l *lowerer) html(parent NodeID, s *syntax.Span) {
	d := l.doc
	if n := d.ChildCount(parent); n > 0 {
		last := d.Child(parent, n-1)
		if node := d.Node(last); node.Kind == KindHTMLContent && node.Source != nil {
			l.token(last, TokenHTML, s.Content, s)
			span := source.NewSpan(node.Source.Start(), s.Location.AbsoluteIndex+s.Length()-node.Source.AbsoluteIndex)
			node.Source = &span
			return
		}
	}
	id := d.AddNew(parent, Node{Kind: KindHTMLContent, Source: SourceSpan(s.Range())})
	l.token(id, TokenHTML, s.Content, s)
}

func (l *lowerer) token(parent NodeID, kind TokenKind, content string, s *syntax.Span) NodeID {
	n := Node{Kind: KindToken, TokenKind: kind, Content: content}
	if s != nil {
		n.Source = SourceSpan(s.Range())
	}
	return l.doc.AddNew(parent, n)
}

func (l *lowerer) using(parent NodeID, s *syntax.Span) {
	if s.Namespace == "" || l.usings[s.Namespace] {
		return
	}
	l.usings[s.Namespace] = true
	l.doc.AddNew(parent, Node{Kind: KindUsing, Content: s.Namespace, Source: SourceSpan(s.Range())})
}

func (l *lowerer) expression(parent NodeID, b *syntax.Block) {
	var code []*syntax.Span
	for _, s := range syntax.Leaves(b) {
		if s.Generator == syntax.GenExpression {
			code = append(code, s)
		}
	}
	if len(code) == 0 {
		return
	}
	first, last := code[0], code[len(code)-1]
	span := source.NewSpan(first.Location, last.Location.AbsoluteIndex+last.Length()-first.Location.AbsoluteIndex)
	id := l.doc.AddNew(parent, Node{Kind: KindCSharpExpression, Source: &span})
	for _, s := range code {
		l.token(id, TokenCSharp, s.Content, s)
	}
}

func (l *lowerer) attribute(parent NodeID, b *syntax.Block) {
	id := l.doc.AddNew(parent, Node{
		Kind:   KindHTMLAttribute,
		Name:   b.Attr.Name,
		Prefix: b.Attr.Prefix,
		Suffix: b.Attr.Suffix,
		Source: SourceSpan(b.Range()),
	})
	l.attributeValues(id, b.ValueNodes())
}

func (l *lowerer) attributeValues(parent NodeID, values []syntax.Node) {
	for _, v := range values {
		switch n := v.(type) {
		case *syntax.Span:
			if n.Generator != syntax.GenLiteralAttributeValue && n.Generator != syntax.GenMarkup {
				continue
			}
			id := l.doc.AddNew(parent, Node{
				Kind:   KindHTMLAttributeValue,
				Prefix: n.ValuePrefix,
				Source: SourceSpan(n.Range()),
			})
			l.token(id, TokenHTML, strings.TrimPrefix(n.Content, n.ValuePrefix), n)
		case *syntax.Block:
			if n.Kind != syntax.BlockDynamicAttributeValue {
				l.lowerBlock(parent, n)
				continue
			}
			l.dynamicValue(parent, n)
		}
	}
}

// dynamicValue lowers whitespace followed by an expression or code block.
func (l *lowerer) dynamicValue(parent NodeID, b *syntax.Block) {
	var prefix strings.Builder
	for _, c := range b.Children {
		switch n := c.(type) {
		case *syntax.Span:
			prefix.WriteString(n.Content)
		case *syntax.Block:
			kind := KindCSharpExpressionAttributeValue
			if n.Kind == syntax.BlockStatement {
				kind = KindCSharpCodeAttributeValue
			}
			id := l.doc.AddNew(parent, Node{Kind: kind, Prefix: prefix.String(), Source: SourceSpan(b.Range())})
			if kind == KindCSharpExpressionAttributeValue {
				for _, s := range syntax.Leaves(n) {
					if s.Generator == syntax.GenExpression {
						l.token(id, TokenCSharp, s.Content, s)
					}
				}
			} else {
				l.lowerChildren(id, n.Children)
			}
			prefix.Reset()
		}
	}
}

func (l *lowerer) lowerDirective(parent NodeID, b *syntax.Block) {
	desc := b.Directive.Descriptor
	if desc.Keyword() == directive.UsingKeyword {
		for _, s := range syntax.Leaves(b) {
			if s.Generator == syntax.GenUsing {
				l.using(parent, s)
			}
		}
		return
	}

	kind := KindDirective
	if isMalformed(b) {
		kind = KindMalformedDirective
	}
	id := l.doc.AddNew(parent, Node{Kind: kind, Directive: desc, Source: SourceSpan(b.Range())})

	tokens := desc.Tokens()
	next := 0
	for _, c := range b.Children {
		s, ok := c.(*syntax.Span)
		if !ok {
			l.lowerChildren(id, []syntax.Node{c})
			continue
		}
		switch s.Generator {
		case syntax.GenDirectiveToken, syntax.GenTagHelperDirective:
			tok := s.Token
			if tok == nil && next < len(tokens) {
				tok = &tokens[next]
			}
			next++
			content := s.Content
			if s.TagHelperDirective != nil {
				content = s.TagHelperDirective.Value
			}
			l.doc.AddNew(id, Node{Kind: KindDirectiveToken, Token: tok, Content: content, Source: SourceSpan(s.Range())})
		default:
			l.lowerSpan(id, s)
		}
	}
}

// isMalformed reports a directive missing required tokens or the braces of
// its body.
func isMalformed(b *syntax.Block) bool {
	desc := b.Directive.Descriptor
	if directive.IsTagHelperDirective(desc.Keyword()) {
		for _, s := range syntax.Leaves(b) {
			if s.TagHelperDirective != nil {
				return false
			}
		}
		return true
	}

	required, found := 0, 0
	for _, tok := range desc.Tokens() {
		if !tok.Optional {
			required++
		}
	}
	braces := 0
	for _, c := range b.Children {
		if s, ok := c.(*syntax.Span); ok {
			switch {
			case s.Generator == syntax.GenDirectiveToken:
				found++
			case s.Kind == syntax.SpanMetaCode && (s.Content == "{" || s.Content == "}"):
				braces++
			}
		}
	}
	if found < required {
		return true
	}
	return desc.IsBlock() && braces < 2
}

func (l *lowerer) tagHelper(parent NodeID, b *syntax.Block) {
	info := b.TagHelper
	id := l.doc.AddNew(parent, Node{Kind: KindTagHelper, Name: info.TagName, Mode: info.Mode, Source: SourceSpan(b.Range())})

	body := l.doc.AddNew(id, Node{Kind: KindTagHelperBody})
	end := len(b.Children)
	if end > 1 {
		if last, ok := b.Children[end-1].(*syntax.Block); ok && last.Tag != nil && last.Tag.IsEndTag {
			end--
		}
	}
	if end > 1 {
		l.lowerChildren(body, b.Children[1:end])
	}

	for _, desc := range info.Binding.Descriptors() {
		l.doc.AddNew(id, Node{Kind: KindCreateTagHelper, Descriptor: desc, Type: desc.TypeName()})
	}

	for _, attr := range info.Attributes {
		var values []syntax.Node
		if attr.Value != nil {
			values = attr.Value.Children
		}
		if !attr.IsBound() {
			hid := l.doc.AddNew(id, Node{
				Kind:      KindTagHelperHTMLAttribute,
				Name:      attr.Name,
				Structure: attr.Structure,
				Source:    SourceSpan(attr.NameSpan),
			})
			l.attributeValues(hid, values)
			continue
		}
		for _, m := range attr.Bound {
			pid := l.doc.AddNew(id, Node{
				Kind:           KindTagHelperProperty,
				Name:           attr.Name,
				Descriptor:     m.Descriptor,
				BoundAttribute: m.Attribute,
				Structure:      attr.Structure,
				IsIndexer:      m.IsIndexer,
				Source:         SourceSpan(attr.NameSpan),
			})
			isString := m.Attribute.IsStringProperty()
			if m.IsIndexer {
				isString = m.Attribute.IsIndexerStringProperty()
			}
			if isString {
				l.attributeValues(pid, values)
			} else if attr.Value != nil {
				l.propertyExpression(pid, attr.Value)
			}
		}
	}
}

// propertyExpression lowers a non-string property value as one C# expression.
// Transitions are dropped, so `@a + 1` and `a + 1` produce the same code.
func (l *lowerer) propertyExpression(parent NodeID, value *syntax.Block) {
	leaves := syntax.Leaves(value)
	var code []*syntax.Span
	for _, s := range leaves {
		switch s.Generator {
		case syntax.GenLiteralAttributeValue, syntax.GenMarkup, syntax.GenExpression, syntax.GenStatement:
			code = append(code, s)
		}
	}
	if len(code) == 0 {
		return
	}
	first, last := code[0], code[len(code)-1]
	span := source.NewSpan(first.Location, last.Location.AbsoluteIndex+last.Length()-first.Location.AbsoluteIndex)
	id := l.doc.AddNew(parent, Node{Kind: KindCSharpExpression, Source: &span})
	for _, s := range code {
		l.token(id, TokenCSharp, s.Content, s)
	}
}
