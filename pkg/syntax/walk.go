package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// WalkFunc is called for every node. Returning false skips the children of
// a block.
type WalkFunc func(n Node, parent *Block) bool

// Walk performs a pre-order traversal starting at root.
func Walk(root Node, fn WalkFunc) {
	walk(root, nil, fn)
}

func walk(n Node, parent *Block, fn WalkFunc) {
	if n == nil {
		return
	}
	if !fn(n, parent) {
		return
	}
	if b, ok := n.(*Block); ok {
		for _, c := range b.Children {
			walk(c, b, fn)
		}
	}
}

// Leaves returns every span under root in document order.
func Leaves(root Node) []*Span {
	var out []*Span
	Walk(root, func(n Node, _ *Block) bool {
		if s, ok := n.(*Span); ok {
			out = append(out, s)
		}
		return true
	})
	return out
}

// Text concatenates the content of every span under n.
func Text(n Node) string {
	var sb strings.Builder
	for _, s := range Leaves(n) {
		sb.WriteString(s.Content)
	}
	return sb.String()
}

// FindBlocks returns every block of the given kind under root.
func FindBlocks(root Node, kind BlockKind) []*Block {
	var out []*Block
	Walk(root, func(n Node, _ *Block) bool {
		if b, ok := n.(*Block); ok && b.Kind == kind {
			out = append(out, b)
		}
		return true
	})
	return out
}

// Dump renders the tree one node per line, for tests and debugging.
func Dump(root Node) string {
	var sb strings.Builder
	dump(&sb, root, 0)
	return sb.String()
}

func dump(sb *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n := n.(type) {
	case *Span:
		fmt.Fprintf(sb, "%s%s span - [%d..%d) %s gen=%s\n",
			indent, n.Kind, n.Location.AbsoluteIndex, n.Location.AbsoluteIndex+n.Length(),
			strconv.Quote(n.Content), n.Generator)
	case *Block:
		start := n.Start().AbsoluteIndex
		fmt.Fprintf(sb, "%s%s block - [%d..%d)%s\n", indent, n.Kind, start, start+n.Length(), blockDetail(n))
		for _, c := range n.Children {
			dump(sb, c, depth+1)
		}
	}
}

func blockDetail(b *Block) string {
	switch {
	case b.Directive != nil && b.Directive.Descriptor != nil:
		return " " + b.Directive.Descriptor.Keyword()
	case b.Tag != nil:
		return " " + b.Tag.Name
	case b.Attr != nil:
		return " " + b.Attr.Name
	case b.TagHelper != nil:
		return " " + b.TagHelper.TagName + " " + b.TagHelper.Mode.String()
	default:
		return ""
	}
}
