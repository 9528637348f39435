package syntax

// BlockKind classifies a block node.
type BlockKind uint8

const (
	BlockMarkup BlockKind = iota
	BlockStatement
	BlockExpression
	BlockDirective
	BlockComment
	BlockTemplate
	BlockTag
	BlockMarkupAttribute
	BlockDynamicAttributeValue
	BlockTagHelper
	BlockHTMLComment
)

var blockKindNames = [...]string{
	BlockMarkup:                "Markup",
	BlockStatement:             "Statement",
	BlockExpression:            "Expression",
	BlockDirective:             "Directive",
	BlockComment:               "Comment",
	BlockTemplate:              "Template",
	BlockTag:                   "Tag",
	BlockMarkupAttribute:       "MarkupAttribute",
	BlockDynamicAttributeValue: "DynamicAttributeValue",
	BlockTagHelper:             "TagHelper",
	BlockHTMLComment:           "HTMLComment",
}

func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "Unknown"
}

// SpanKind classifies the text of a span.
type SpanKind uint8

const (
	SpanMarkup SpanKind = iota
	SpanCode
	SpanTransition
	SpanMetaCode
	SpanComment
)

var spanKindNames = [...]string{
	SpanMarkup:     "Markup",
	SpanCode:       "Code",
	SpanTransition: "Transition",
	SpanMetaCode:   "MetaCode",
	SpanComment:    "Comment",
}

func (k SpanKind) String() string {
	if int(k) < len(spanKindNames) {
		return spanKindNames[k]
	}
	return "Unknown"
}

// Generator says what, if anything, a span contributes to generated code.
type Generator uint8

const (
	// GenNone spans are consumed by the template language and produce no output.
	GenNone Generator = iota
	// GenMarkup spans are written literally.
	GenMarkup
	GenStatement
	GenExpression
	// GenDirectiveToken spans carry a directive token value.
	GenDirectiveToken
	// GenUsing spans carry an imported namespace.
	GenUsing
	// GenTagHelperDirective spans carry an add, remove or prefix directive value.
	GenTagHelperDirective
	// GenLiteralAttributeValue spans are one literal piece of an attribute value.
	GenLiteralAttributeValue
)

var generatorNames = [...]string{
	GenNone:                  "None",
	GenMarkup:                "Markup",
	GenStatement:             "Statement",
	GenExpression:            "Expression",
	GenDirectiveToken:        "DirectiveToken",
	GenUsing:                 "Using",
	GenTagHelperDirective:    "TagHelperDirective",
	GenLiteralAttributeValue: "LiteralAttributeValue",
}

func (g Generator) String() string {
	if int(g) < len(generatorNames) {
		return generatorNames[g]
	}
	return "Unknown"
}

// AcceptedCharacters is the edit acceptance policy of a span, consulted by
// editors that reparse incrementally.
type AcceptedCharacters uint8

const (
	AcceptNone          AcceptedCharacters = 0
	AcceptNewLine       AcceptedCharacters = 1 << 0
	AcceptWhiteSpace    AcceptedCharacters = 1 << 1
	AcceptNonWhiteSpace AcceptedCharacters = 1 << 2

	AcceptAnyExceptNewline = AcceptWhiteSpace | AcceptNonWhiteSpace
	AcceptAny              = AcceptNewLine | AcceptWhiteSpace | AcceptNonWhiteSpace
)

func (a AcceptedCharacters) String() string {
	switch a {
	case AcceptNone:
		return "None"
	case AcceptAny:
		return "Any"
	case AcceptAnyExceptNewline:
		return "AnyExceptNewline"
	case AcceptNewLine:
		return "NewLine"
	case AcceptWhiteSpace:
		return "WhiteSpace"
	case AcceptNonWhiteSpace:
		return "NonWhiteSpace"
	default:
		return "Mixed"
	}
}

// AttributeStructure is the quoting style of an attribute value.
type AttributeStructure uint8

const (
	AttributeDoubleQuotes AttributeStructure = iota
	AttributeSingleQuotes
	AttributeNoQuotes
	AttributeMinimized
)

func (s AttributeStructure) String() string {
	switch s {
	case AttributeDoubleQuotes:
		return "DoubleQuotes"
	case AttributeSingleQuotes:
		return "SingleQuotes"
	case AttributeNoQuotes:
		return "NoQuotes"
	case AttributeMinimized:
		return "Minimized"
	default:
		return "Unknown"
	}
}

// TagMode is how a tag helper element was written.
type TagMode uint8

const (
	TagModeStartTagAndEndTag TagMode = iota
	TagModeSelfClosing
	TagModeStartTagOnly
)

func (m TagMode) String() string {
	switch m {
	case TagModeStartTagAndEndTag:
		return "StartTagAndEndTag"
	case TagModeSelfClosing:
		return "SelfClosing"
	case TagModeStartTagOnly:
		return "StartTagOnly"
	default:
		return "Unknown"
	}
}

// TagHelperDirectiveKind distinguishes the three tag helper directives.
type TagHelperDirectiveKind uint8

const (
	AddTagHelper TagHelperDirectiveKind = iota
	RemoveTagHelper
	TagHelperPrefix
)

func (k TagHelperDirectiveKind) String() string {
	switch k {
	case AddTagHelper:
		return "addTagHelper"
	case RemoveTagHelper:
		return "removeTagHelper"
	case TagHelperPrefix:
		return "tagHelperPrefix"
	default:
		return "unknown"
	}
}
