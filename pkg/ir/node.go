// Package ir is the intermediate representation between the syntax tree and
// generated code.
//
// Nodes live in an arena owned by a Document and refer to each other through
// NodeID handles. Parent and child links are private to the Document and only
// change through its methods, so a node can never end up with two parents.
package ir

import (
	"fmt"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/directive"
	"github.com/yaklabco/gorazor/pkg/source"
	"github.com/yaklabco/gorazor/pkg/syntax"
	"github.com/yaklabco/gorazor/pkg/taghelper"
)

// NodeID is a handle to a node in a Document.
type NodeID int32

// None is the handle of no node.
const None NodeID = -1

// Kind is the type of an IR node.
type Kind uint8

const (
	KindDocument Kind = iota
	KindChecksum
	KindNamespace
	KindUsing
	KindClass
	KindMethod
	KindField
	KindProperty
	KindToken
	KindHTMLContent
	KindCSharpCode
	KindCSharpExpression
	KindHTMLAttribute
	KindHTMLAttributeValue
	KindCSharpExpressionAttributeValue
	KindCSharpCodeAttributeValue
	KindDirective
	KindDirectiveToken
	KindMalformedDirective
	KindTemplate
	KindSection
	KindDesignTimeDirective
	KindTagHelper
	KindTagHelperBody
	KindCreateTagHelper
	KindTagHelperProperty
	KindTagHelperHTMLAttribute
	KindDeclareTagHelperFields
	KindPreallocatedAttributeValue
	KindPreallocatedHTMLAttribute
	KindPreallocatedPropertyValue
	KindPreallocatedProperty
)

var kindNames = [...]string{
	KindDocument:                       "Document",
	KindChecksum:                       "Checksum",
	KindNamespace:                      "Namespace",
	KindUsing:                          "Using",
	KindClass:                          "Class",
	KindMethod:                         "Method",
	KindField:                          "Field",
	KindProperty:                       "Property",
	KindToken:                          "Token",
	KindHTMLContent:                    "HTMLContent",
	KindCSharpCode:                     "CSharpCode",
	KindCSharpExpression:               "CSharpExpression",
	KindHTMLAttribute:                  "HTMLAttribute",
	KindHTMLAttributeValue:             "HTMLAttributeValue",
	KindCSharpExpressionAttributeValue: "CSharpExpressionAttributeValue",
	KindCSharpCodeAttributeValue:       "CSharpCodeAttributeValue",
	KindDirective:                      "Directive",
	KindDirectiveToken:                 "DirectiveToken",
	KindMalformedDirective:             "MalformedDirective",
	KindTemplate:                       "Template",
	KindSection:                        "Section",
	KindDesignTimeDirective:            "DesignTimeDirective",
	KindTagHelper:                      "TagHelper",
	KindTagHelperBody:                  "TagHelperBody",
	KindCreateTagHelper:                "CreateTagHelper",
	KindTagHelperProperty:              "TagHelperProperty",
	KindTagHelperHTMLAttribute:         "TagHelperHTMLAttribute",
	KindDeclareTagHelperFields:         "DeclareTagHelperFields",
	KindPreallocatedAttributeValue:     "PreallocatedAttributeValue",
	KindPreallocatedHTMLAttribute:      "PreallocatedHTMLAttribute",
	KindPreallocatedPropertyValue:      "PreallocatedPropertyValue",
	KindPreallocatedProperty:           "PreallocatedProperty",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// TokenKind is the language of a token's content.
type TokenKind uint8

const (
	TokenHTML TokenKind = iota
	TokenCSharp
)

func (k TokenKind) String() string {
	if k == TokenCSharp {
		return "CSharp"
	}
	return "Html"
}

// Node is one IR node. Which payload fields are meaningful depends on Kind:
//
//   - Token: Content, TokenKind.
//   - Using, Namespace: Content is the namespace.
//   - Class: Name, Type (base type), Modifiers, Interfaces.
//   - Method, Field, Property: Name, Type, Modifiers.
//   - Checksum: Name (file path), Content (hex digest), Algorithm.
//   - HTMLAttribute: Name, Prefix, Suffix.
//   - HTMLAttributeValue and the C# attribute values: Prefix.
//   - Directive, MalformedDirective: Directive. DirectiveToken: Token, Content.
//   - Section: Name.
//   - TagHelper: Name (tag name), Mode. CreateTagHelper: Descriptor, Type.
//   - TagHelperProperty: Name (attribute), Descriptor, BoundAttribute,
//     Structure, IsIndexer. TagHelperHTMLAttribute: Name, Structure.
//   - Preallocated nodes: Name (attribute), Content (value), Structure and
//     Field (the shared variable).
type Node struct {
	Kind Kind
	// Source is where the node came from, nil for synthesized nodes.
	Source *source.Span

	Content   string
	TokenKind TokenKind

	Name       string
	Type       string
	Modifiers  []string
	Interfaces []string
	Algorithm  string

	Prefix string
	Suffix string

	Directive *directive.Descriptor
	Token     *directive.TokenDescriptor

	Mode           syntax.TagMode
	Descriptor     *taghelper.Descriptor
	BoundAttribute *taghelper.BoundAttribute
	Structure      syntax.AttributeStructure
	IsIndexer      bool
	Field          string

	Diagnostics []diag.Diagnostic

	parent   NodeID
	children []NodeID
}

// SourceSpan returns a pointer to a copy of span, for Node.Source.
func SourceSpan(span source.Span) *source.Span {
	return &span
}
