package passes

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/directive"
	"github.com/yaklabco/gorazor/pkg/razor"
	"github.com/yaklabco/gorazor/pkg/source"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

// WhitespacePass moves the indentation in front of a code block or
// directive written on its own line into that block, so it is not written
// as markup.
type WhitespacePass struct{}

func (WhitespacePass) Name() string { return "whitespace" }

func (WhitespacePass) Execute(_ *razor.CodeDocument, tree *syntax.Tree) *syntax.Tree {
	if root, changed := moveIndentation(tree.Root); changed {
		return tree.WithRoot(root)
	}
	return tree
}

func moveIndentation(b *syntax.Block) (*syntax.Block, bool) {
	children, changed := rewriteChildren(b.Children, moveIndentation)

	out := make([]syntax.Node, 0, len(children))
	for i := 0; i < len(children); i++ {
		s, ok := children[i].(*syntax.Span)
		if !ok || i+1 == len(children) || !isIndentation(s) {
			out = append(out, children[i])
			continue
		}
		next, ok := children[i+1].(*syntax.Block)
		if !ok || (next.Kind != syntax.BlockStatement && next.Kind != syntax.BlockDirective) {
			out = append(out, children[i])
			continue
		}
		code := *s
		code.Kind = syntax.SpanCode
		code.Generator = syntax.GenNone
		moved := *next
		moved.Children = append([]syntax.Node{&code}, next.Children...)
		out = append(out, &moved)
		i++
		changed = true
	}
	if !changed {
		return b, false
	}
	cp := *b
	cp.Children = out
	return &cp, true
}

func isIndentation(s *syntax.Span) bool {
	return s.Kind == syntax.SpanMarkup && s.Generator == syntax.GenMarkup &&
		s.Location.CharacterIndex == 0 && s.Content != "" &&
		strings.TrimLeft(s.Content, " \t") == ""
}

// HTMLAttributePass turns attributes whose value holds no code into plain
// markup, so they are written as literal text.
type HTMLAttributePass struct{}

func (HTMLAttributePass) Name() string { return "html-attributes" }

func (HTMLAttributePass) Execute(_ *razor.CodeDocument, tree *syntax.Tree) *syntax.Tree {
	if root, changed := collapseAttributes(tree.Root); changed {
		return tree.WithRoot(root)
	}
	return tree
}

func collapseAttributes(b *syntax.Block) (*syntax.Block, bool) {
	if b.Kind == syntax.BlockMarkupAttribute && b.Attr != nil && literalOnly(b) {
		cp := *b
		cp.Kind = syntax.BlockMarkup
		cp.Children = make([]syntax.Node, len(b.Children))
		for i, c := range b.Children {
			s := *c.(*syntax.Span)
			if s.Kind == syntax.SpanMarkup {
				s.Generator = syntax.GenMarkup
			}
			cp.Children[i] = &s
		}
		return &cp, true
	}

	children, changed := rewriteChildren(b.Children, collapseAttributes)
	if !changed {
		return b, false
	}
	cp := *b
	cp.Children = children
	return &cp, true
}

func literalOnly(b *syntax.Block) bool {
	for _, c := range b.Children {
		if _, ok := c.(*syntax.Span); !ok {
			return false
		}
	}
	return true
}

// DirectiveValidationPass reports directives used where they are not
// allowed: singly occurring directives written twice, file scoped
// directives not starting a line and sections nested in sections.
type DirectiveValidationPass struct{}

func (DirectiveValidationPass) Name() string { return "directive-validation" }

func (DirectiveValidationPass) Execute(_ *razor.CodeDocument, tree *syntax.Tree) *syntax.Tree {
	v := &validator{src: tree.Source, seen: map[*directive.Descriptor]bool{}}
	v.block(tree.Root, false)
	if v.diags.Len() == 0 {
		return tree
	}
	return tree.WithDiagnostics(v.diags.Items()...)
}

type validator struct {
	src   *source.Document
	seen  map[*directive.Descriptor]bool
	diags diag.Bag
}

func (v *validator) block(b *syntax.Block, inSection bool) {
	if b.Kind == syntax.BlockDirective && b.Directive != nil && b.Directive.Descriptor != nil {
		d := b.Directive.Descriptor
		span := keywordSpan(b, d)

		if d.Usage() == directive.UsageFileScopedSinglyOccurring {
			if v.seen[d] {
				v.diags.Report(diag.DuplicateDirective, span, d.Keyword())
			}
			v.seen[d] = true
		}
		if d.Usage().FileScoped() && !v.atLineStart(span.Start()) {
			v.diags.Report(diag.DirectiveMustAppearAtStartOfLine, span, d.Keyword())
		}
		if d == directive.Section {
			if inSection {
				v.diags.Report(diag.SectionsCannotBeNested, span)
			}
			inSection = true
		}
	}
	for _, c := range b.Children {
		if child, ok := c.(*syntax.Block); ok {
			v.block(child, inSection)
		}
	}
}

func (v *validator) atLineStart(loc source.Location) bool {
	if v.src == nil || loc.IsUndefined() {
		return true
	}
	before, err := v.src.Slice(loc.AbsoluteIndex-loc.CharacterIndex, loc.AbsoluteIndex)
	if err != nil {
		return true
	}
	return strings.TrimFunc(before, unicode.IsSpace) == ""
}

// keywordSpan covers the transition and keyword of a directive.
func keywordSpan(b *syntax.Block, d *directive.Descriptor) source.Span {
	for _, c := range b.Children {
		if s, ok := c.(*syntax.Span); ok && s.Kind == syntax.SpanTransition {
			return source.NewSpan(s.Location, utf8.RuneCountInString(d.Keyword())+1)
		}
	}
	return source.NewSpan(b.Start(), utf8.RuneCountInString(d.Keyword())+1)
}

// rewriteChildren applies fn to every child block and returns the new
// children, sharing the input slice when nothing changed.
func rewriteChildren(children []syntax.Node, fn func(*syntax.Block) (*syntax.Block, bool)) ([]syntax.Node, bool) {
	var out []syntax.Node
	for i, c := range children {
		b, ok := c.(*syntax.Block)
		if !ok {
			if out != nil {
				out = append(out, c)
			}
			continue
		}
		nb, changed := fn(b)
		if changed && out == nil {
			out = append(make([]syntax.Node, 0, len(children)), children[:i]...)
		}
		if out != nil {
			out = append(out, nb)
		}
	}
	if out == nil {
		return children, false
	}
	return out, true
}
