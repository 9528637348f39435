package directive

// Keywords handled with the legacy single-value grammar.
const (
	AddTagHelperKeyword    = "addTagHelper"
	RemoveTagHelperKeyword = "removeTagHelper"
	TagHelperPrefixKeyword = "tagHelperPrefix"
	UsingKeyword           = "using"
)

// Built-in directives available to every engine.
//
//nolint:gochecknoglobals // Read-only built-in catalog.
var (
	Functions = MustNew("functions", KindCodeBlock,
		WithDescription("Specify a C# code block."))

	Inherits = MustNew("inherits", KindSingleLine,
		WithUsage(UsageFileScopedSinglyOccurring),
		WithTokens(TokenDescriptor{Kind: TokenType, Name: "TypeName", Description: "The base type the page inherits from."}),
		WithDescription("Specify the base class for the current document."))

	Section = MustNew("section", KindRazorBlock,
		WithTokens(TokenDescriptor{Kind: TokenMember, Name: "SectionName", Description: "The name of the section."}),
		WithDescription("Define a section to be rendered in the configured layout page."))

	Namespace = MustNew("namespace", KindSingleLine,
		WithUsage(UsageFileScopedSinglyOccurring),
		WithTokens(TokenDescriptor{Kind: TokenNamespace, Name: "Namespace", Description: "Namespace for the generated class."}),
		WithDescription("Specify the namespace for the generated class."))

	AddTagHelper = MustNew(AddTagHelperKeyword, KindSingleLine,
		WithUsage(UsageFileScopedMultipleOccurring),
		WithTokens(TokenDescriptor{Kind: TokenString, Name: "LookupText", Description: "Type name and assembly of tag helpers to add."}),
		WithDescription("Register tag helpers that match the specified type name and assembly."))

	RemoveTagHelper = MustNew(RemoveTagHelperKeyword, KindSingleLine,
		WithUsage(UsageFileScopedMultipleOccurring),
		WithTokens(TokenDescriptor{Kind: TokenString, Name: "LookupText", Description: "Type name and assembly of tag helpers to remove."}),
		WithDescription("Remove tag helpers that match the specified type name and assembly."))

	TagHelperPrefix = MustNew(TagHelperPrefixKeyword, KindSingleLine,
		WithUsage(UsageFileScopedSinglyOccurring),
		WithTokens(TokenDescriptor{Kind: TokenString, Name: "Prefix", Description: "The tag prefix required on elements bound to tag helpers."}),
		WithDescription("Specify a prefix that is required in an element name for it to be included in tag helper processing."))

	Using = MustNew(UsingKeyword, KindSingleLine,
		WithUsage(UsageFileScopedMultipleOccurring),
		WithTokens(TokenDescriptor{Kind: TokenNamespace, Name: "Namespace", Description: "The namespace to import."}),
		WithDescription("Import a namespace into the generated class."))
)

// Builtins returns the directives registered by default, in a stable order.
func Builtins() []*Descriptor {
	return []*Descriptor{AddTagHelper, RemoveTagHelper, TagHelperPrefix, Inherits, Functions, Section, Namespace}
}

// IsTagHelperDirective reports whether keyword is one of the tag helper directives.
func IsTagHelperDirective(keyword string) bool {
	switch keyword {
	case AddTagHelperKeyword, RemoveTagHelperKeyword, TagHelperPrefixKeyword:
		return true
	default:
		return false
	}
}
