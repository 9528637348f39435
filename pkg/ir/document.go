package ir

import (
	"fmt"
	"slices"

	"github.com/yaklabco/gorazor/pkg/diag"
)

// Options are the code generation settings carried by a document.
type Options struct {
	DesignTime       bool
	IndentSize       int
	IndentWithTabs   bool
	SuppressChecksum bool
	NewLine          string
}

// Document is an arena of IR nodes rooted at a KindDocument node.
// A Document is not safe for concurrent use.
type Document struct {
	Options Options

	nodes []*Node
	root  NodeID
	kind  string
	diags diag.Bag
}

// NewDocument creates a document holding only its root.
func NewDocument(opts Options) *Document {
	d := &Document{Options: opts}
	d.root = d.New(Node{Kind: KindDocument})
	return d
}

// Root returns the document node.
func (d *Document) Root() NodeID { return d.root }

// Kind returns the document kind assigned by a classifier, or "".
func (d *Document) Kind() string { return d.kind }

// SetKind assigns the document kind. It reports false, leaving the document
// unchanged, when a kind was already assigned.
func (d *Document) SetKind(kind string) bool {
	if d.kind != "" || kind == "" {
		return false
	}
	d.kind = kind
	return true
}

// Len returns the number of nodes allocated, attached or not.
func (d *Document) Len() int { return len(d.nodes) }

// New allocates a detached node and returns its handle.
func (d *Document) New(n Node) NodeID {
	id := NodeID(len(d.nodes))
	n.parent = None
	n.children = nil
	d.nodes = append(d.nodes, &n)
	return id
}

// Node returns the node for id. Its payload may be modified in place.
func (d *Document) Node(id NodeID) *Node {
	return d.nodes[d.check(id)]
}

// Parent returns the parent of id, or None.
func (d *Document) Parent(id NodeID) NodeID {
	return d.nodes[d.check(id)].parent
}

// Children returns a copy of the children of id.
func (d *Document) Children(id NodeID) []NodeID {
	return slices.Clone(d.nodes[d.check(id)].children)
}

// ChildCount returns the number of children of id.
func (d *Document) ChildCount(id NodeID) int {
	return len(d.nodes[d.check(id)].children)
}

// Child returns the i-th child of id.
func (d *Document) Child(id NodeID, i int) NodeID {
	return d.nodes[d.check(id)].children[i]
}

// IndexOf returns the position of child under its parent, or -1.
func (d *Document) IndexOf(child NodeID) int {
	parent := d.Parent(child)
	if parent == None {
		return -1
	}
	return slices.Index(d.nodes[parent].children, child)
}

// Add appends child to parent, detaching it from its previous parent.
func (d *Document) Add(parent, child NodeID) {
	d.Insert(parent, d.ChildCount(parent), child)
}

// AddNew allocates n and appends it to parent.
func (d *Document) AddNew(parent NodeID, n Node) NodeID {
	id := d.New(n)
	d.Add(parent, id)
	return id
}

// Insert places child at index among the children of parent, detaching it
// from its previous parent first. It panics if child is parent or one of
// its ancestors.
func (d *Document) Insert(parent NodeID, index int, child NodeID) {
	d.check(child)
	for p := parent; p != None; p = d.nodes[d.check(p)].parent {
		if p == child {
			panic(fmt.Sprintf("ir: node %d cannot be inserted under its descendant %d", child, parent))
		}
	}
	if old := d.nodes[child].parent; old != None {
		if old == parent {
			if i := slices.Index(d.nodes[old].children, child); i < index {
				index--
			}
		}
		d.Remove(child)
	}
	p := d.nodes[parent]
	p.children = slices.Insert(p.children, index, child)
	d.nodes[child].parent = parent
}

// Remove detaches id from its parent. The node and its subtree stay
// allocated and may be attached again.
func (d *Document) Remove(id NodeID) {
	n := d.nodes[d.check(id)]
	if n.parent == None {
		return
	}
	p := d.nodes[n.parent]
	p.children = slices.DeleteFunc(p.children, func(c NodeID) bool { return c == id })
	n.parent = None
}

// Replace puts replacement where old is and detaches old.
func (d *Document) Replace(old, replacement NodeID) {
	parent := d.Parent(old)
	if parent == None || old == replacement {
		return
	}
	index := d.IndexOf(old)
	d.Remove(old)
	d.Insert(parent, index, replacement)
}

// MoveChildren moves every child of from to the end of to, keeping order.
// A child that is to, or contains it, stays under from, so the children of a
// node can be wrapped in a new child of that node.
func (d *Document) MoveChildren(from, to NodeID) {
	for _, c := range d.Children(from) {
		if d.contains(c, to) {
			continue
		}
		d.Add(to, c)
	}
}

// contains reports whether id is ancestor or lies in its subtree.
func (d *Document) contains(ancestor, id NodeID) bool {
	for p := id; p != None; p = d.nodes[d.check(p)].parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// AddDiagnostic records a document level diagnostic.
func (d *Document) AddDiagnostic(diags ...diag.Diagnostic) {
	d.diags.Add(diags...)
}

// Diagnostics returns the document level diagnostics followed by those
// attached to attached nodes, in tree order.
func (d *Document) Diagnostics() []diag.Diagnostic {
	out := d.diags.Items()
	d.Walk(d.root, func(id NodeID, _ int) bool {
		out = append(out, d.nodes[id].Diagnostics...)
		return true
	})
	return out
}

func (d *Document) check(id NodeID) NodeID {
	if id < 0 || int(id) >= len(d.nodes) {
		panic(fmt.Sprintf("ir: invalid node handle %d", id))
	}
	return id
}
