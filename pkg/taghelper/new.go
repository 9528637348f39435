package taghelper

import (
	"cmp"
	"fmt"
	"maps"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/source"
)

const dataDashPrefix = "data-"

// invalidNameChars may not appear in targeted tag names, targeted attribute
// names, bound attribute names or restricted children.
var invalidNameChars = []rune{'@', '!', '<', '/', '?', '[', '>', ']', '=', '"', '\'', '*'}

var undefinedSpan = source.NewSpan(source.Undefined, 0)

// New creates an immutable descriptor from spec. Validation problems are
// attached as diagnostics on the descriptor and its parts; New never fails.
func New(spec Spec) *Descriptor {
	d := &Descriptor{
		kind:          cmp.Or(spec.Kind, DefaultKind),
		name:          spec.Name,
		assemblyName:  spec.AssemblyName,
		documentation: spec.Documentation,
		displayName:   cmp.Or(spec.DisplayName, spec.Name),
		caseSensitive: spec.CaseSensitive,
		metadata:      maps.Clone(spec.Metadata),
	}
	if d.metadata == nil {
		d.metadata = map[string]string{}
	}

	for _, rs := range spec.Rules {
		d.rules = append(d.rules, newRule(rs, d.caseSensitive))
	}
	for _, as := range spec.Attributes {
		d.boundAttributes = append(d.boundAttributes, newBoundAttribute(as, d))
	}
	for _, child := range spec.AllowedChildTags {
		d.allowedChildTags = append(d.allowedChildTags, child)
		d.diagnostics = append(d.diagnostics, validateChildTag(child, d.displayName)...)
	}

	d.hash = hashDescriptor(d)
	return d
}

func newRule(spec RuleSpec, caseSensitive bool) *TagMatchingRule {
	r := &TagMatchingRule{
		tagName:       spec.TagName,
		parentTag:     spec.ParentTag,
		tagStructure:  cmp.Or(spec.TagStructure, TagStructureUnspecified),
		caseSensitive: caseSensitive,
	}

	switch {
	case isBlank(r.tagName):
		r.diagnostics = append(r.diagnostics, diag.New(diag.InvalidTargetedTagNameNullOrWhitespace, undefinedSpan))
	case r.tagName != ElementCatchAllTarget:
		if c, ok := firstInvalidChar(r.tagName); ok {
			r.diagnostics = append(r.diagnostics, diag.New(diag.InvalidTargetedTagName, undefinedSpan, r.tagName, c))
		}
	}

	if spec.ParentTag != "" {
		if isBlank(spec.ParentTag) {
			r.diagnostics = append(r.diagnostics, diag.New(diag.InvalidTargetedParentTagNameNullOrWhitespace, undefinedSpan))
		} else if c, ok := firstInvalidChar(spec.ParentTag); ok {
			r.diagnostics = append(r.diagnostics, diag.New(diag.InvalidTargetedParentTagName, undefinedSpan, spec.ParentTag, c))
		}
	}

	for _, as := range spec.Attributes {
		r.attributes = append(r.attributes, newRequiredAttribute(as, caseSensitive))
	}
	return r
}

func newRequiredAttribute(spec RequiredAttributeSpec, caseSensitive bool) *RequiredAttribute {
	a := &RequiredAttribute{
		name:            spec.Name,
		nameComparison:  spec.NameComparison,
		value:           spec.Value,
		valueComparison: spec.ValueComparison,
		caseSensitive:   caseSensitive,
	}
	if a.nameComparison == "" {
		a.nameComparison = NameFullMatch
		if trimmed, ok := strings.CutSuffix(a.name, "*"); ok {
			a.name = trimmed
			a.nameComparison = NamePrefixMatch
		}
	}
	if a.valueComparison == "" {
		a.valueComparison = ValueNone
		if a.value != "" {
			a.valueComparison = ValueFullMatch
		}
	}

	a.displayName = a.name
	if a.nameComparison == NamePrefixMatch {
		a.displayName = a.name + "..."
	}

	if isBlank(a.name) {
		a.diagnostics = append(a.diagnostics, diag.New(diag.InvalidTargetedAttributeNameNullOrWhitespace, undefinedSpan))
	} else if c, ok := firstInvalidChar(a.name); ok {
		a.diagnostics = append(a.diagnostics, diag.New(diag.InvalidTargetedAttributeName, undefinedSpan, a.name, c))
	}
	return a
}

func newBoundAttribute(spec BoundAttributeSpec, owner *Descriptor) *BoundAttribute {
	a := &BoundAttribute{
		kind:              cmp.Or(spec.Kind, owner.kind),
		name:              spec.Name,
		typeName:          spec.TypeName,
		propertyName:      cmp.Or(spec.PropertyName, spec.Name),
		isEnum:            spec.IsEnum,
		indexerNamePrefix: spec.IndexerNamePrefix,
		indexerTypeName:   spec.IndexerTypeName,
		documentation:     spec.Documentation,
		caseSensitive:     owner.caseSensitive,
	}
	a.displayName = cmp.Or(spec.DisplayName, fmt.Sprintf("%s %s.%s", a.typeName, owner.TypeName(), a.propertyName))

	helper := owner.displayName
	switch {
	case isBlank(a.name) && a.indexerNamePrefix == "":
		a.diagnostics = append(a.diagnostics,
			diag.New(diag.InvalidBoundAttributeNullOrWhitespace, undefinedSpan, a.propertyName, helper))
	case a.name != "":
		if hasPrefixFold(a.name, dataDashPrefix) {
			a.diagnostics = append(a.diagnostics,
				diag.New(diag.InvalidBoundAttributeNameStartsWith, undefinedSpan, a.propertyName, helper, a.name, dataDashPrefix))
		}
		if c, ok := firstInvalidChar(a.name); ok {
			a.diagnostics = append(a.diagnostics,
				diag.New(diag.InvalidBoundAttributeName, undefinedSpan, a.propertyName, helper, a.name, c))
		}
	}

	if a.indexerNamePrefix != "" {
		if hasPrefixFold(a.indexerNamePrefix, dataDashPrefix) {
			a.diagnostics = append(a.diagnostics,
				diag.New(diag.InvalidBoundAttributePrefixStartsWith, undefinedSpan, a.propertyName, helper, a.indexerNamePrefix, dataDashPrefix))
		}
		if c, ok := firstInvalidChar(a.indexerNamePrefix); ok {
			a.diagnostics = append(a.diagnostics,
				diag.New(diag.InvalidBoundAttributePrefix, undefinedSpan, a.propertyName, helper, a.indexerNamePrefix, c))
		}
	}
	return a
}

func validateChildTag(name, helper string) []diag.Diagnostic {
	if isBlank(name) {
		return []diag.Diagnostic{diag.New(diag.InvalidRestrictedChildNullOrWhitespace, undefinedSpan, helper)}
	}
	if c, ok := firstInvalidChar(name); ok {
		return []diag.Diagnostic{diag.New(diag.InvalidRestrictedChild, undefinedSpan, name, helper, c)}
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func firstInvalidChar(s string) (rune, bool) {
	for _, c := range s {
		if unicode.IsSpace(c) {
			return c, true
		}
		for _, bad := range invalidNameChars {
			if c == bad {
				return c, true
			}
		}
	}
	return 0, false
}

func hasPrefixFold(s, prefix string) bool {
	_, ok := cutPrefixFold(s, prefix)
	return ok
}

// cutPrefixFold removes prefix from s ignoring case, comparing rune by rune
// since case variants may differ in encoded length.
func cutPrefixFold(s, prefix string) (string, bool) {
	for prefix != "" {
		if s == "" {
			return "", false
		}
		_, pn := utf8.DecodeRuneInString(prefix)
		_, sn := utf8.DecodeRuneInString(s)
		if !strings.EqualFold(s[:sn], prefix[:pn]) {
			return "", false
		}
		s, prefix = s[sn:], prefix[pn:]
	}
	return s, true
}
