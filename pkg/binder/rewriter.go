package binder

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/parser"
	"github.com/yaklabco/gorazor/pkg/source"
	"github.com/yaklabco/gorazor/pkg/syntax"
	"github.com/yaklabco/gorazor/pkg/taghelper"
)

// Options configures the rewriter.
type Options struct {
	// AllowMinimizedBooleanAttributes accepts a bound boolean attribute
	// written without a value.
	AllowMinimizedBooleanAttributes bool
	// AllowHTMLComments accepts HTML comments inside tag helpers that
	// restrict their children.
	AllowHTMLComments bool
}

// Rewrite returns a copy of tree in which every element bound by a tag
// helper in ctx is a syntax.BlockTagHelper. The input tree is not modified
// and spans are shared between the two trees.
func Rewrite(tree *syntax.Tree, ctx *Context, opts Options) *syntax.Tree {
	if tree == nil || tree.Root == nil || ctx.Empty() {
		return tree
	}
	r := &rewriter{
		ctx:      ctx,
		opts:     opts,
		reported: map[*taghelper.Descriptor]bool{},
	}
	root := r.rewriteBlock(tree.Root, parentInfo{})
	return tree.WithRoot(root).WithDiagnostics(r.diags.Items()...)
}

// parentInfo describes the element enclosing the nodes being rewritten.
type parentInfo struct {
	name        string
	isTagHelper bool
	// allowed restricts the child tags of a tag helper parent.
	allowed []string
}

// frame is an open element. helper is nil for plain HTML elements.
type frame struct {
	name    string
	optOut  bool
	helper  *syntax.Block
	allowed []string
	start   source.Span
}

type rewriter struct {
	ctx      *Context
	opts     Options
	diags    diag.Bag
	reported map[*taghelper.Descriptor]bool
}

func (r *rewriter) rewriteBlock(b *syntax.Block, parent parentInfo) *syntax.Block {
	out := *b
	out.Children = r.rewriteChildren(b.Children, parent)
	return &out
}

// rewriteChildren pairs start and end tags among siblings, nesting the body
// of every bound element into its tag helper block.
func (r *rewriter) rewriteChildren(children []syntax.Node, outer parentInfo) []syntax.Node {
	var (
		out   []syntax.Node
		stack []*frame
	)
	emit := func(n syntax.Node) {
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].helper != nil {
				stack[i].helper.Add(n)
				return
			}
		}
		out = append(out, n)
	}
	current := func() parentInfo {
		if len(stack) == 0 {
			return outer
		}
		top := stack[len(stack)-1]
		return parentInfo{name: top.name, isTagHelper: top.helper != nil, allowed: top.allowed}
	}

	for _, n := range children {
		switch node := n.(type) {
		case *syntax.Span:
			r.checkContent(node, current())
			emit(node)
		case *syntax.Block:
			switch {
			case node.Kind == syntax.BlockTag && node.Tag != nil && !node.Tag.IsEndTag:
				if f := r.startTag(node, current(), emit); f != nil {
					stack = append(stack, f)
				}
			case node.Kind == syntax.BlockTag && node.Tag != nil:
				idx := matchingFrame(stack, node.Tag)
				if idx < 0 {
					r.checkStrayEndTag(node, current())
					emit(node)
					continue
				}
				for _, inner := range stack[idx+1:] {
					if inner.helper != nil {
						r.diags.Report(diag.MalformedTagHelper, inner.start, inner.name)
					}
				}
				f := stack[idx]
				stack = stack[:idx]
				if f.helper != nil {
					f.helper.Add(node)
				} else {
					emit(node)
				}
			case node.Kind == syntax.BlockHTMLComment:
				if !r.opts.AllowHTMLComments {
					r.checkContentNode(node, current())
				}
				emit(node)
			case node.Kind == syntax.BlockExpression:
				r.checkContentNode(node, current())
				emit(r.rewriteBlock(node, current()))
			default:
				emit(r.rewriteBlock(node, current()))
			}
		}
	}

	for _, f := range stack {
		if f.helper != nil {
			r.diags.Report(diag.MalformedTagHelper, f.start, f.name)
		}
	}
	return out
}

func matchingFrame(stack []*frame, tag *syntax.TagInfo) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].optOut == tag.OptOut && strings.EqualFold(stack[i].name, tag.Name) {
			return i
		}
	}
	return -1
}

// startTag emits a start tag, bound or not, and returns the frame it opens.
func (r *rewriter) startTag(tag *syntax.Block, parent parentInfo, emit func(syntax.Node)) *frame {
	info := tag.Tag
	nameSpan := tagNameSpan(tag)
	r.checkChildTag(info.Name, nameSpan, parent)

	var binding *taghelper.Binding
	if !info.OptOut {
		binding = r.ctx.binder.GetBinding(info.Name, elementAttributes(tag), parent.name, parent.isTagHelper)
	}
	if binding == nil {
		emit(tag)
		if info.SelfClosing || !info.Complete || parser.IsVoidElement(info.Name) {
			return nil
		}
		return &frame{name: info.Name, optOut: info.OptOut, start: nameSpan}
	}

	helper := r.newTagHelper(tag, binding, nameSpan)
	emit(helper)
	if helper.TagHelper.Mode != syntax.TagModeStartTagAndEndTag {
		return nil
	}
	return &frame{
		name:    info.Name,
		helper:  helper,
		allowed: allowedChildren(binding),
		start:   nameSpan,
	}
}

func (r *rewriter) newTagHelper(tag *syntax.Block, binding *taghelper.Binding, nameSpan source.Span) *syntax.Block {
	name := tag.Tag.Name
	for _, d := range binding.Descriptors() {
		if !r.reported[d] {
			r.reported[d] = true
			r.diags.Add(d.AllDiagnostics()...)
		}
	}
	if !tag.Tag.Complete {
		r.diags.Report(diag.MissingCloseAngle, nameSpan, name)
	}
	r.checkDeclaration(tag, name)

	b := syntax.NewBlock(syntax.BlockTagHelper, tag)
	b.TagHelper = &syntax.TagHelperInfo{
		TagName:    name,
		Mode:       r.tagMode(tag, binding, nameSpan),
		Binding:    binding,
		Attributes: r.attributes(tag, binding),
	}
	return b
}

func (r *rewriter) tagMode(tag *syntax.Block, binding *taghelper.Binding, nameSpan source.Span) syntax.TagMode {
	var withoutEnd, normal *taghelper.Descriptor
	for _, d := range binding.Descriptors() {
		for _, rule := range binding.Rules(d) {
			switch rule.TagStructure() {
			case taghelper.TagStructureWithoutEndTag:
				if withoutEnd == nil {
					withoutEnd = d
				}
			case taghelper.TagStructureNormalOrSelfClosing:
				if normal == nil {
					normal = d
				}
			}
		}
	}
	if withoutEnd != nil && normal != nil {
		r.diags.Report(diag.InconsistentTagStructure, nameSpan,
			withoutEnd.DisplayName(), normal.DisplayName(), tag.Tag.Name, "TagStructure")
	}

	switch {
	case tag.Tag.SelfClosing:
		return syntax.TagModeSelfClosing
	case withoutEnd != nil, parser.IsVoidElement(binding.TagNameWithoutPrefix()):
		return syntax.TagModeStartTagOnly
	default:
		return syntax.TagModeStartTagAndEndTag
	}
}

// checkDeclaration reports code and unparseable text between the attributes
// of a bound start tag.
func (r *rewriter) checkDeclaration(tag *syntax.Block, name string) {
	unnamed := false
	for i, c := range tag.Children {
		switch n := c.(type) {
		case *syntax.Block:
			if n.Attr == nil {
				r.diags.Report(diag.CSharpInTagDeclaration, n.Range(), name)
			}
		case *syntax.Span:
			if i == 0 || n.Kind != syntax.SpanMarkup || unnamed {
				continue
			}
			text := strings.TrimSpace(n.Content)
			text = strings.TrimSuffix(text, ">")
			text = strings.TrimSpace(strings.TrimSuffix(text, "/"))
			if text != "" {
				unnamed = true
				r.diags.Report(diag.AttributesMustHaveName, n.Range(), name)
			}
		}
	}
}

func (r *rewriter) attributes(tag *syntax.Block, binding *taghelper.Binding) []*syntax.TagHelperAttribute {
	var out []*syntax.TagHelperAttribute
	for _, c := range tag.Children {
		ab, ok := c.(*syntax.Block)
		if !ok || ab.Attr == nil {
			continue
		}
		attr := &syntax.TagHelperAttribute{
			Name:      ab.Attr.Name,
			NameSpan:  attributeNameSpan(ab),
			Structure: ab.Attr.Structure,
		}
		if ab.Attr.Structure != syntax.AttributeMinimized {
			attr.Value = syntax.NewBlock(syntax.BlockMarkup, ab.ValueNodes()...)
		}
		for _, d := range binding.Descriptors() {
			for _, ba := range d.BoundAttributes() {
				if taghelper.CanSatisfyBoundAttribute(attr.Name, ba) {
					attr.Bound = append(attr.Bound, syntax.BoundMatch{
						Descriptor: d,
						Attribute:  ba,
						IsIndexer:  !taghelper.SatisfiesBoundAttributeName(attr.Name, ba),
					})
				}
			}
		}
		r.checkBoundAttribute(tag.Tag.Name, attr)
		out = append(out, attr)
	}
	return out
}

func (r *rewriter) checkBoundAttribute(tagName string, attr *syntax.TagHelperAttribute) {
	if !attr.IsBound() {
		return
	}
	match := attr.Bound[0]
	ba := match.Attribute

	isString, isBool, typeName := ba.IsStringProperty(), ba.IsBooleanProperty(), ba.TypeName()
	if match.IsIndexer {
		if utf8.RuneCountInString(attr.Name) == utf8.RuneCountInString(ba.IndexerNamePrefix()) {
			r.diags.Report(diag.IndexerAttributeNameMustIncludeKey, attr.NameSpan, attr.Name, tagName, tagName, attr.Name)
			return
		}
		isString, isBool, typeName = ba.IsIndexerStringProperty(), ba.IsIndexerBooleanProperty(), ba.IndexerTypeName()
	}
	if isString {
		return
	}

	if attr.Value != nil {
		if blocks := syntax.FindBlocks(attr.Value, syntax.BlockStatement); len(blocks) > 0 {
			r.diags.Report(diag.CodeBlocksNotSupportedInAttributes, blocks[0].Range())
		}
		if strings.TrimSpace(syntax.Text(attr.Value)) != "" {
			return
		}
	} else if isBool && r.opts.AllowMinimizedBooleanAttributes {
		return
	}
	r.diags.Report(diag.EmptyTagHelperBoundAttribute, attr.NameSpan, attr.Name, tagName, typeName)
}

// checkStrayEndTag reports an end tag for a tag helper that must not have one.
func (r *rewriter) checkStrayEndTag(tag *syntax.Block, parent parentInfo) {
	if tag.Tag.OptOut {
		return
	}
	binding := r.ctx.binder.GetBinding(tag.Tag.Name, nil, parent.name, parent.isTagHelper)
	if binding == nil {
		return
	}
	for _, d := range binding.Descriptors() {
		for _, rule := range binding.Rules(d) {
			if rule.TagStructure() == taghelper.TagStructureWithoutEndTag {
				r.diags.Report(diag.EndTagTagHelperMustNotHaveEndTag, tagNameSpan(tag),
					tag.Tag.Name, d.DisplayName(), "WithoutEndTag")
				return
			}
		}
	}
}

func (r *rewriter) checkChildTag(name string, span source.Span, parent parentInfo) {
	if !parent.isTagHelper || len(parent.allowed) == 0 {
		return
	}
	bare := name
	if prefix := r.ctx.prefix; prefix != "" && len(name) > len(prefix) && strings.EqualFold(name[:len(prefix)], prefix) {
		bare = name[len(prefix):]
	}
	if slices.ContainsFunc(parent.allowed, func(a string) bool { return strings.EqualFold(a, bare) }) {
		return
	}
	r.diags.Report(diag.InvalidNestedTag, span, name, parent.name, strings.Join(parent.allowed, ", "))
}

func (r *rewriter) checkContent(s *syntax.Span, parent parentInfo) {
	if s.Kind != syntax.SpanMarkup || strings.TrimSpace(s.Content) == "" {
		return
	}
	r.checkContentNode(s, parent)
}

func (r *rewriter) checkContentNode(n syntax.Node, parent parentInfo) {
	if !parent.isTagHelper || len(parent.allowed) == 0 {
		return
	}
	r.diags.Report(diag.CannotHaveNonTagContent, source.NewSpan(n.Start(), n.Length()),
		parent.name, strings.Join(parent.allowed, ", "))
}

// elementAttributes returns the attributes matched against required attributes.
func elementAttributes(tag *syntax.Block) []taghelper.Attribute {
	var out []taghelper.Attribute
	for _, c := range tag.Children {
		if ab, ok := c.(*syntax.Block); ok && ab.Attr != nil {
			var sb strings.Builder
			for _, v := range ab.ValueNodes() {
				sb.WriteString(syntax.Text(v))
			}
			out = append(out, taghelper.Attribute{Name: ab.Attr.Name, Value: sb.String()})
		}
	}
	return out
}

func allowedChildren(binding *taghelper.Binding) []string {
	var out []string
	for _, d := range binding.Descriptors() {
		for _, name := range d.AllowedChildTags() {
			if !slices.ContainsFunc(out, func(o string) bool { return strings.EqualFold(o, name) }) {
				out = append(out, name)
			}
		}
	}
	return out
}

func tagNameSpan(tag *syntax.Block) source.Span {
	lead := "<"
	if tag.Tag.IsEndTag {
		lead = "</"
	}
	if tag.Tag.OptOut {
		lead += "!"
	}
	return source.NewSpan(tag.Start().Advance(lead), utf8.RuneCountInString(tag.Tag.Name))
}

func attributeNameSpan(ab *syntax.Block) source.Span {
	prefix := ab.Attr.Prefix
	lead := prefix[:len(prefix)-len(strings.TrimLeftFunc(prefix, unicode.IsSpace))]
	return source.NewSpan(ab.Start().Advance(lead), utf8.RuneCountInString(ab.Attr.Name))
}
