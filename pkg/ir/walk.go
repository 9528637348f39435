package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// WalkFunc is called for each node with its depth below the walk root.
// Returning false skips the node's children.
type WalkFunc func(id NodeID, depth int) bool

// Walk visits root and its descendants in pre-order. Children are read
// before they are visited, so fn may detach the node it is given.
func (d *Document) Walk(root NodeID, fn WalkFunc) {
	d.walk(root, 0, fn)
}

func (d *Document) walk(id NodeID, depth int, fn WalkFunc) {
	if !fn(id, depth) {
		return
	}
	for _, c := range d.Children(id) {
		d.walk(c, depth+1, fn)
	}
}

// Find returns the descendants of root, root included, with the given kind.
func (d *Document) Find(root NodeID, kind Kind) []NodeID {
	var out []NodeID
	d.Walk(root, func(id NodeID, _ int) bool {
		if d.nodes[id].Kind == kind {
			out = append(out, id)
		}
		return true
	})
	return out
}

// FindFirst returns the first descendant of root with the given kind, or None.
func (d *Document) FindFirst(root NodeID, kind Kind) NodeID {
	if found := d.Find(root, kind); len(found) > 0 {
		return found[0]
	}
	return None
}

// Text concatenates the content of the tokens under id.
func (d *Document) Text(id NodeID) string {
	var sb strings.Builder
	d.Walk(id, func(c NodeID, _ int) bool {
		if n := d.nodes[c]; n.Kind == KindToken {
			sb.WriteString(n.Content)
		}
		return true
	})
	return sb.String()
}

// Dump renders the subtree at id one node per line, for tests and debugging.
func (d *Document) Dump(id NodeID) string {
	var sb strings.Builder
	d.Walk(id, func(c NodeID, depth int) bool {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(d.describe(d.nodes[c]))
		sb.WriteByte('\n')
		return true
	})
	return sb.String()
}

func (d *Document) describe(n *Node) string {
	var parts []string
	parts = append(parts, n.Kind.String())
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, key+"="+strconv.Quote(value))
		}
	}

	switch n.Kind {
	case KindToken:
		parts = append(parts, n.TokenKind.String())
		add("content", n.Content)
	case KindDirective, KindMalformedDirective:
		if n.Directive != nil {
			add("directive", n.Directive.Keyword())
		}
	case KindTagHelper:
		add("name", n.Name)
		parts = append(parts, "mode="+n.Mode.String())
	case KindCreateTagHelper:
		add("type", n.Type)
		add("field", n.Field)
	case KindTagHelperProperty, KindTagHelperHTMLAttribute:
		add("name", n.Name)
		if n.BoundAttribute != nil {
			add("property", n.BoundAttribute.PropertyName())
		}
		if n.IsIndexer {
			parts = append(parts, "indexer")
		}
		add("field", n.Field)
	default:
		add("name", n.Name)
		add("type", n.Type)
		add("content", n.Content)
		add("prefix", n.Prefix)
		add("suffix", n.Suffix)
		add("field", n.Field)
		if len(n.Modifiers) > 0 {
			parts = append(parts, "modifiers="+strings.Join(n.Modifiers, ","))
		}
	}
	if n.Source != nil {
		parts = append(parts, fmt.Sprintf("[%d..%d)", n.Source.AbsoluteIndex, n.Source.End()))
	}
	return strings.Join(parts, " ")
}
