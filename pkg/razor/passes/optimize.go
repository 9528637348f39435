package passes

import (
	"strconv"
	"strings"

	"github.com/yaklabco/gorazor/pkg/codegen"
	"github.com/yaklabco/gorazor/pkg/ir"
	"github.com/yaklabco/gorazor/pkg/razor"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

// TagHelperFieldsPass declares the tag helper runtime fields and one field
// per tag helper type used by the document.
type TagHelperFieldsPass struct{}

func (TagHelperFieldsPass) Name() string { return "tag-helper-fields" }

func (TagHelperFieldsPass) Execute(_ *razor.CodeDocument, irDoc *ir.Document) {
	class := Class(irDoc)
	creates := irDoc.Find(irDoc.Root(), ir.KindCreateTagHelper)
	if class == ir.None || len(creates) == 0 {
		return
	}

	fields := irDoc.New(ir.Node{Kind: ir.KindDeclareTagHelperFields})
	irDoc.Insert(class, 0, fields)

	declared := map[string]bool{}
	for _, id := range creates {
		n := irDoc.Node(id)
		n.Field = codegen.TagHelperVariable(n.Type)
		if declared[n.Type] {
			continue
		}
		declared[n.Type] = true
		irDoc.AddNew(fields, ir.Node{
			Kind:      ir.KindField,
			Name:      n.Field,
			Type:      "global::" + n.Type,
			Modifiers: []string{"private"},
		})
	}
}

// PreallocatedAttributePass replaces tag helper attributes with literal
// values by static fields shared by every equal attribute of the document.
// Design-time documents are left alone.
type PreallocatedAttributePass struct{}

func (PreallocatedAttributePass) Name() string { return "preallocated-attributes" }

type preallocatedKey struct {
	kind      ir.Kind
	name      string
	value     string
	structure syntax.AttributeStructure
}

func (PreallocatedAttributePass) Execute(_ *razor.CodeDocument, irDoc *ir.Document) {
	class := Class(irDoc)
	if irDoc.Options.DesignTime || class == ir.None {
		return
	}

	fields := map[preallocatedKey]string{}
	declare := func(key preallocatedKey) string {
		if f, ok := fields[key]; ok {
			return f
		}
		f := "__tagHelperAttribute_" + strconv.Itoa(len(fields))
		irDoc.Insert(class, len(fields), irDoc.New(ir.Node{
			Kind:      key.kind,
			Name:      key.name,
			Content:   key.value,
			Structure: key.structure,
			Field:     f,
		}))
		fields[key] = f
		return f
	}

	for _, id := range irDoc.Find(irDoc.Root(), ir.KindTagHelperHTMLAttribute) {
		n := irDoc.Node(id)
		value, ok := literalValue(irDoc, id)
		if !ok {
			continue
		}
		f := declare(preallocatedKey{ir.KindPreallocatedAttributeValue, n.Name, value, n.Structure})
		irDoc.Replace(id, irDoc.New(ir.Node{
			Kind:      ir.KindPreallocatedHTMLAttribute,
			Source:    n.Source,
			Name:      n.Name,
			Content:   value,
			Structure: n.Structure,
			Field:     f,
		}))
	}

	for _, id := range irDoc.Find(irDoc.Root(), ir.KindTagHelperProperty) {
		n := irDoc.Node(id)
		if !isStringProperty(n) || n.Structure == syntax.AttributeMinimized {
			continue
		}
		value, ok := literalValue(irDoc, id)
		if !ok {
			continue
		}
		f := declare(preallocatedKey{ir.KindPreallocatedPropertyValue, n.Name, value, n.Structure})
		irDoc.Replace(id, irDoc.New(ir.Node{
			Kind:           ir.KindPreallocatedProperty,
			Source:         n.Source,
			Name:           n.Name,
			Content:        value,
			Descriptor:     n.Descriptor,
			BoundAttribute: n.BoundAttribute,
			IsIndexer:      n.IsIndexer,
			Structure:      n.Structure,
			Field:          f,
		}))
	}
}

func isStringProperty(n *ir.Node) bool {
	if n.BoundAttribute == nil {
		return false
	}
	if n.IsIndexer {
		return n.BoundAttribute.IsIndexerStringProperty()
	}
	return n.BoundAttribute.IsStringProperty()
}

// literalValue returns the text of an attribute whose value holds only
// markup.
func literalValue(irDoc *ir.Document, id ir.NodeID) (string, bool) {
	var sb strings.Builder
	for _, c := range irDoc.Children(id) {
		v := irDoc.Node(c)
		if v.Kind != ir.KindHTMLAttributeValue && v.Kind != ir.KindHTMLContent {
			return "", false
		}
		sb.WriteString(v.Prefix)
		for _, t := range irDoc.Children(c) {
			tok := irDoc.Node(t)
			if tok.Kind != ir.KindToken || tok.TokenKind != ir.TokenHTML {
				return "", false
			}
			sb.WriteString(tok.Content)
		}
	}
	return sb.String(), true
}
