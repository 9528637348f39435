// Package syntax defines the concrete syntax tree produced by the parser.
//
// The tree is made of blocks, which only group, and spans, which own text.
// Concatenating the content of every span in document order reproduces the
// source exactly.
package syntax

import (
	"unicode/utf8"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/directive"
	"github.com/yaklabco/gorazor/pkg/source"
	"github.com/yaklabco/gorazor/pkg/taghelper"
)

// Node is either a *Block or a *Span.
type Node interface {
	// Start is the location of the first character, or source.Undefined for
	// an empty block.
	Start() source.Location
	// Length is the number of characters covered.
	Length() int

	node()
}

// Span is a leaf node holding source text.
type Span struct {
	Kind      SpanKind
	Content   string
	Location  source.Location
	Generator Generator
	Accepted  AcceptedCharacters

	// Token is set for GenDirectiveToken spans.
	Token *directive.TokenDescriptor
	// Namespace is set for GenUsing spans.
	Namespace string
	// TagHelperDirective is set for GenTagHelperDirective spans.
	TagHelperDirective *TagHelperDirectiveInfo
	// ValuePrefix is the leading whitespace of a GenLiteralAttributeValue span.
	ValuePrefix string
}

// NewSpan creates a span.
func NewSpan(kind SpanKind, content string, start source.Location, gen Generator) *Span {
	return &Span{Kind: kind, Content: content, Location: start, Generator: gen, Accepted: AcceptAny}
}

func (s *Span) Start() source.Location { return s.Location }
func (s *Span) Length() int            { return utf8.RuneCountInString(s.Content) }
func (*Span) node()                    {}

// Range returns the source span covered.
func (s *Span) Range() source.Span {
	return source.NewSpan(s.Location, s.Length())
}

// Block is an interior node grouping spans and other blocks.
type Block struct {
	Kind     BlockKind
	Children []Node

	// Directive is set for BlockDirective.
	Directive *DirectiveInfo
	// Tag is set for BlockTag.
	Tag *TagInfo
	// Attr is set for attribute blocks, including attributes collapsed to markup.
	Attr *AttributeInfo
	// TagHelper is set for BlockTagHelper.
	TagHelper *TagHelperInfo
}

// NewBlock creates a block with the given children.
func NewBlock(kind BlockKind, children ...Node) *Block {
	return &Block{Kind: kind, Children: children}
}

// Start returns the start of the first span in the block.
func (b *Block) Start() source.Location {
	for _, c := range b.Children {
		if loc := c.Start(); !loc.IsUndefined() {
			return loc
		}
	}
	return source.Undefined
}

func (b *Block) Length() int {
	n := 0
	for _, c := range b.Children {
		n += c.Length()
	}
	return n
}

func (*Block) node() {}

// Range returns the source span covered.
func (b *Block) Range() source.Span {
	return source.NewSpan(b.Start(), b.Length())
}

// Add appends children and returns b.
func (b *Block) Add(children ...Node) *Block {
	b.Children = append(b.Children, children...)
	return b
}

// DirectiveInfo identifies the directive a BlockDirective implements.
type DirectiveInfo struct {
	Descriptor *directive.Descriptor
}

// TagInfo describes a start or end tag.
type TagInfo struct {
	Name        string
	IsEndTag    bool
	SelfClosing bool
	// OptOut is set when the name was written with the '!' marker.
	OptOut bool
	// Complete is false when the closing '>' is missing.
	Complete bool
}

// AttributeInfo describes a markup attribute. The owning block's children are
// the prefix span, the value nodes and the suffix span, in that order. The
// suffix is absent for unquoted and minimized attributes.
type AttributeInfo struct {
	Name      string
	Prefix    string
	Suffix    string
	Structure AttributeStructure
}

// ValueNodes returns the value children of an attribute block.
func (b *Block) ValueNodes() []Node {
	if b.Attr == nil || len(b.Children) == 0 {
		return nil
	}
	end := len(b.Children)
	if b.Attr.Suffix != "" && end > 1 {
		end--
	}
	return b.Children[1:end]
}

// TagHelperDirectiveInfo is the payload of a tag helper directive span.
type TagHelperDirectiveInfo struct {
	Kind TagHelperDirectiveKind
	// Value is the directive text with surrounding quotes and whitespace removed.
	Value string
	// ValueLocation is where Value starts in the source.
	ValueLocation source.Location
}

// TagHelperInfo is the payload of a BlockTagHelper. The block's children are
// the original start tag, the body and, in TagModeStartTagAndEndTag, the end tag.
type TagHelperInfo struct {
	TagName    string
	Mode       TagMode
	Binding    *taghelper.Binding
	Attributes []*TagHelperAttribute
}

// BoundMatch pairs a bound attribute with the descriptor declaring it.
type BoundMatch struct {
	Descriptor *taghelper.Descriptor
	Attribute  *taghelper.BoundAttribute
	IsIndexer  bool
}

// TagHelperAttribute is one attribute of a tag helper element.
type TagHelperAttribute struct {
	Name      string
	NameSpan  source.Span
	Structure AttributeStructure
	// Value groups the value nodes. It is nil for minimized attributes.
	Value *Block
	// Bound lists the bound attributes the name satisfies.
	Bound []BoundMatch
}

// IsBound reports whether any descriptor binds the attribute.
func (a *TagHelperAttribute) IsBound() bool { return len(a.Bound) > 0 }

// Tree is the result of parsing one document.
type Tree struct {
	Source      *source.Document
	Root        *Block
	Diagnostics []diag.Diagnostic
}

// WithDiagnostics returns a copy of t with extra diagnostics appended.
func (t *Tree) WithDiagnostics(extra ...diag.Diagnostic) *Tree {
	out := *t
	out.Diagnostics = append(append([]diag.Diagnostic(nil), t.Diagnostics...), extra...)
	return &out
}

// WithRoot returns a copy of t using root.
func (t *Tree) WithRoot(root *Block) *Tree {
	out := *t
	out.Root = root
	return &out
}
