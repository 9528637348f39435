package diag

// Known diagnostics. Ids keep the RZ prefix and numbering used by existing
// Razor tooling so that suppressions and documentation stay meaningful.
//
// Ranges: RZ0xxx engine, RZ1xxx parse errors, RZ2xxx semantic errors,
// RZ3xxx tag helper descriptor errors, RZ39xx MVC extension errors.
//
//nolint:gochecknoglobals // Read-only descriptor catalog.
var (
	BlockDirectiveCannotBeImported = errorDesc("RZ0000", "Block directive '%s' cannot be imported.")

	UnterminatedStringLiteral          = errorDesc("RZ1000", "Unterminated string literal. Strings that start with a quotation mark (\") must be terminated before the end of the line.")
	BlockCommentNotTerminated          = errorDesc("RZ1001", "End of file was reached before the end of the block comment. All comments started with '/*' must be terminated with '*/'.")
	UnexpectedWhiteSpaceAtCodeStart    = errorDesc("RZ1003", "A space or line break was encountered after the \"@\" character. Only valid identifiers, keywords, comments, \"(\" and \"{\" are valid at the start of a code block.")
	UnexpectedEndOfFileAtCodeStart     = errorDesc("RZ1004", "End-of-file was found after the \"@\" character. \"@\" must be followed by a valid code block.")
	UnexpectedCharacterAtCodeStart     = errorDesc("RZ1005", "\"%s\" is not valid at the start of a code block. Only identifiers, keywords, comments, \"(\" and \"{\" are valid.")
	ExpectedEndOfBlockBeforeEOF        = errorDesc("RZ1006", "The %s block is missing a closing \"%s\" character. Make sure you have a matching \"%s\" character for all the \"%s\" characters within this block, and that none of the \"%s\" characters are being interpreted as markup.")
	ReservedWord                       = errorDesc("RZ1007", "\"%s\" is a reserved word and cannot be used in implicit expressions. An explicit expression (\"@()\") must be used.")
	SingleLineControlFlowWithMarkup    = errorDesc("RZ1008", "Single-statement control-flow statements in Razor documents statements cannot contain markup. Markup should be enclosed in \"{\" and \"}\".")
	AtInCodeMustBeFollowedByIdent      = errorDesc("RZ1009", "The \"@\" character must be followed by a \":\", \"(\", or a C# identifier. If you intended to switch to markup, use an HTML start tag.")
	UnexpectedNestedCodeBlock          = errorDesc("RZ1010", "Unexpected \"{\" after \"@\" character. Once inside the body of a code block (@if {}, @{}, etc.) you do not need to use \"@{\" to switch to code.")
	DirectiveTokensMustBeSeparated     = errorDesc("RZ1011", "The '%s' directives value(s) must be separated by whitespace.")
	UnexpectedEOFAfterDirective        = errorDesc("RZ1012", "Unexpected end of file following the '%s' directive. Expected '%s'.")
	DirectiveExpectsTypeName           = errorDesc("RZ1013", "The '%s' directive expects a type name.")
	DirectiveExpectsNamespace          = errorDesc("RZ1014", "The '%s' directive expects a namespace name.")
	DirectiveExpectsIdentifier         = errorDesc("RZ1015", "The '%s' directive expects an identifier.")
	DirectiveExpectsQuotedString       = errorDesc("RZ1016", "The '%s' directive expects a string surrounded by double quotes.")
	UnexpectedDirectiveLiteral         = errorDesc("RZ1017", "Unexpected literal following the '%s' directive. Expected '%s'.")
	DirectiveMustHaveValue             = errorDesc("RZ1018", "Directive '%s' must have a value.")
	IncompleteQuotesAroundDirective    = errorDesc("RZ1019", "Optional quote around the directive '%s' is missing the corresponding opening or closing quote.")
	InvalidTagHelperPrefixValue        = errorDesc("RZ1020", "Invalid tag helper directive '%s' value. '%s' is not allowed in prefix '%s'.")
	OuterTagMissingName                = errorDesc("RZ1022", "Outer tag is missing a name. The first character of a markup block must be an HTML tag with a valid name.")
	TextTagCannotContainAttributes     = errorDesc("RZ1023", "\"<text>\" and \"</text>\" tags cannot contain attributes.")
	UnfinishedTag                      = errorDesc("RZ1024", "End of file or an unexpected character was reached before the \"%s\" tag could be parsed. Elements inside markup blocks must be complete. They must either be self-closing (\"<br />\") or have matching end tags (\"<p>Hello</p>\").")
	MissingEndTag                      = errorDesc("RZ1025", "The \"%s\" element was not closed. All elements must be either self-closing or have a matching end tag.")
	UnexpectedEndTag                   = errorDesc("RZ1026", "Encountered end tag \"%s\" with no matching start tag. Are your start/end tags properly balanced?")
	ExpectedCloseBracketBeforeEOF      = errorDesc("RZ1027", "An opening \"%s\" is missing the corresponding closing \"%s\".")
	RazorCommentNotTerminated          = errorDesc("RZ1028", "End of file was reached before the end of the block comment. All comments that start with the \"@*\" sequence must be terminated with a matching \"*@\" sequence.")
	IndexerAttributeNameMustIncludeKey = errorDesc("RZ1029", "The tag helper attribute '%s' in element '%s' is missing a key. The syntax is '<%s %s{ key }=\"value\">'.")
	CSharpInTagDeclaration             = errorDesc("RZ1031", "The tag helper '%s' must not have C# in the element's attribute declaration area.")
	AttributesMustHaveName             = errorDesc("RZ1032", "Tag helper '%s' had one or more attributes with a name that could not be parsed.")
	EndTagTagHelperMustNotHaveEndTag   = errorDesc("RZ1033", "Found an end tag (</%s>) for tag helper '%s' with tag structure that disallows an end tag ('%s').")
	MalformedTagHelper                 = errorDesc("RZ1034", "Found a malformed '%s' tag helper. Tag helpers must have a start and end tag or be self closing.")
	MissingCloseAngle                  = errorDesc("RZ1035", "Missing close angle for tag helper '%s'.")
	InvalidTagHelperLookupText         = errorDesc("RZ1036", "Invalid tag helper directive look up text '%s'. The correct look up text format is: \"name, assemblyName\".")

	DuplicateDirective                 = errorDesc("RZ2001", "The '%s' directive may only occur once per document.")
	SectionsCannotBeNested             = errorDesc("RZ2002", "Section blocks (\"@section Header { ... }\") cannot be nested. Only one level of section blocks are allowed.")
	DirectiveMustAppearAtStartOfLine   = errorDesc("RZ2005", "The '%s' directive must appear at the start of the line.")
	CodeBlocksNotSupportedInAttributes = errorDesc("RZ2006", "Code blocks (e.g. @{var variable = 23;}) must not appear in non-string tag helper attribute values. Already in an expression (code) context, hence no need for the code block.")
	EmptyTagHelperBoundAttribute       = errorDesc("RZ2008", "Attribute '%s' on tag helper element '%s' requires a value. Tag helper bound attributes of type '%s' cannot be empty or contain only whitespace.")
	CannotHaveNonTagContent            = errorDesc("RZ2009", "The parent <%s> tag helper does not allow non-tag content. Only child tag helper(s) targeting tag name(s) '%s' are allowed.")
	InvalidNestedTag                   = errorDesc("RZ2010", "The <%s> tag is not allowed by parent <%s> tag helper. Only child tags with name(s) '%s' are allowed.")
	InconsistentTagStructure           = errorDesc("RZ2011", "Tag helpers '%s' and '%s' targeting element '%s' must not expect different %s values.")

	InvalidRestrictedChildNullOrWhitespace       = errorDesc("RZ3000", "Tag helpers cannot restrict child elements that contain a null or whitespace character for tag helper '%s'.")
	InvalidRestrictedChild                       = errorDesc("RZ3001", "Invalid restricted child '%s' for tag helper '%s'. Tag helpers cannot restrict child elements that contain a '%c' character.")
	InvalidBoundAttributeNullOrWhitespace        = errorDesc("RZ3002", "Invalid tag helper bound property '%s' on tag helper '%s'. Tag helpers cannot bind to HTML attributes with a null or empty name.")
	InvalidBoundAttributeName                    = errorDesc("RZ3003", "Invalid tag helper bound property '%s' on tag helper '%s'. Tag helpers cannot bind to HTML attributes with name '%s' because the name contains a '%c' character.")
	InvalidBoundAttributeNameStartsWith          = errorDesc("RZ3004", "Invalid tag helper bound property '%s' on tag helper '%s'. Tag helpers cannot bind to HTML attributes with name '%s' because the name starts with '%s'.")
	InvalidBoundAttributePrefix                  = errorDesc("RZ3005", "Invalid tag helper bound property '%s' on tag helper '%s'. Tag helpers cannot bind to HTML attributes with prefix '%s' because the prefix contains a '%c' character.")
	InvalidBoundAttributePrefixStartsWith        = errorDesc("RZ3006", "Invalid tag helper bound property '%s' on tag helper '%s'. Tag helpers cannot bind to HTML attributes with prefix '%s' because the prefix starts with '%s'.")
	InvalidTargetedTagNameNullOrWhitespace       = errorDesc("RZ3007", "Targeted tag name cannot be null or whitespace.")
	InvalidTargetedTagName                       = errorDesc("RZ3008", "Tag helpers cannot target tag name '%s' because it contains a '%c' character.")
	InvalidTargetedParentTagNameNullOrWhitespace = errorDesc("RZ3009", "Targeted parent tag name cannot be null or whitespace.")
	InvalidTargetedParentTagName                 = errorDesc("RZ3010", "Tag helpers cannot target parent tag name '%s' because it contains a '%c' character.")
	InvalidTargetedAttributeNameNullOrWhitespace = errorDesc("RZ3011", "Targeted attribute name cannot be null or whitespace.")
	InvalidTargetedAttributeName                 = errorDesc("RZ3012", "Tag helpers cannot target attribute name '%s' because it contains a '%c' character.")

	PageDirectiveCannotBeImported = errorDesc("RZ3905", "The '@%s' directive specified in %s file will not be imported. The directive must appear at the top of each Razor file.")
	PageDirectiveMustPrecede      = errorDesc("RZ3906", "The '@%s' directive must precede all other elements defined in a Razor file.")
)

func errorDesc(id, format string) Descriptor {
	return Descriptor{ID: id, Severity: SeverityError, Format: format}
}
