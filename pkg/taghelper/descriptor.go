// Package taghelper models tag helper descriptors and binds them to elements.
//
// Descriptors are immutable once created by New or Builder.Build. All slices
// and maps returned from accessors are copies.
package taghelper

import (
	"maps"
	"slices"

	"github.com/yaklabco/gorazor/pkg/diag"
)

// Common .NET type names used to derive bound attribute flags.
const (
	StringTypeName  = "System.String"
	BooleanTypeName = "System.Boolean"
)

// Descriptor describes one tag helper: which elements it targets and which
// attributes it binds.
type Descriptor struct {
	kind             string
	name             string
	assemblyName     string
	documentation    string
	displayName      string
	caseSensitive    bool
	rules            []*TagMatchingRule
	boundAttributes  []*BoundAttribute
	allowedChildTags []string
	metadata         map[string]string
	diagnostics      []diag.Diagnostic
	hash             uint64
}

func (d *Descriptor) Kind() string          { return d.kind }
func (d *Descriptor) Name() string          { return d.name }
func (d *Descriptor) AssemblyName() string  { return d.assemblyName }
func (d *Descriptor) Documentation() string { return d.documentation }
func (d *Descriptor) DisplayName() string   { return d.displayName }

// CaseSensitive reports whether tag and attribute names match ordinally.
func (d *Descriptor) CaseSensitive() bool { return d.caseSensitive }

// TypeName is the generated type of the tag helper. It defaults to Name.
func (d *Descriptor) TypeName() string {
	if t, ok := d.metadata[MetadataTypeName]; ok && t != "" {
		return t
	}
	return d.name
}

func (d *Descriptor) Rules() []*TagMatchingRule          { return slices.Clone(d.rules) }
func (d *Descriptor) BoundAttributes() []*BoundAttribute { return slices.Clone(d.boundAttributes) }
func (d *Descriptor) AllowedChildTags() []string         { return slices.Clone(d.allowedChildTags) }
func (d *Descriptor) Metadata() map[string]string        { return maps.Clone(d.metadata) }

// Diagnostics returns the diagnostics attached directly to the descriptor.
func (d *Descriptor) Diagnostics() []diag.Diagnostic { return slices.Clone(d.diagnostics) }

// AllDiagnostics returns the diagnostics of the descriptor, its rules, their
// required attributes and its bound attributes.
func (d *Descriptor) AllDiagnostics() []diag.Diagnostic {
	all := slices.Clone(d.diagnostics)
	for _, r := range d.rules {
		all = append(all, r.diagnostics...)
		for _, ra := range r.attributes {
			all = append(all, ra.diagnostics...)
		}
	}
	for _, ba := range d.boundAttributes {
		all = append(all, ba.diagnostics...)
	}
	return all
}

// HasErrors reports whether any nested diagnostic is an error.
func (d *Descriptor) HasErrors() bool {
	return diag.HasErrors(d.AllDiagnostics())
}

// Hash returns an order-independent hash consistent with Equal.
func (d *Descriptor) Hash() uint64 { return d.hash }

// Metadata keys understood by the compiler.
const (
	MetadataTypeName     = "TypeName"
	MetadataPropertyName = "PropertyName"
)

// TagMatchingRule selects elements by tag name, parent and attributes.
type TagMatchingRule struct {
	tagName       string
	parentTag     string
	tagStructure  TagStructure
	attributes    []*RequiredAttribute
	caseSensitive bool
	diagnostics   []diag.Diagnostic
}

// TagName is the targeted tag name or "*" for every element.
func (r *TagMatchingRule) TagName() string                  { return r.tagName }
func (r *TagMatchingRule) ParentTag() string                { return r.parentTag }
func (r *TagMatchingRule) TagStructure() TagStructure       { return r.tagStructure }
func (r *TagMatchingRule) Attributes() []*RequiredAttribute { return slices.Clone(r.attributes) }
func (r *TagMatchingRule) CaseSensitive() bool              { return r.caseSensitive }
func (r *TagMatchingRule) Diagnostics() []diag.Diagnostic   { return slices.Clone(r.diagnostics) }
func (r *TagMatchingRule) HasErrors() bool                  { return diag.HasErrors(r.diagnostics) }

// RequiredAttribute is one attribute a rule demands on the element.
type RequiredAttribute struct {
	name            string
	nameComparison  NameComparison
	value           string
	valueComparison ValueComparison
	displayName     string
	caseSensitive   bool
	diagnostics     []diag.Diagnostic
}

func (a *RequiredAttribute) Name() string                     { return a.name }
func (a *RequiredAttribute) NameComparison() NameComparison   { return a.nameComparison }
func (a *RequiredAttribute) Value() string                    { return a.value }
func (a *RequiredAttribute) ValueComparison() ValueComparison { return a.valueComparison }
func (a *RequiredAttribute) DisplayName() string              { return a.displayName }
func (a *RequiredAttribute) CaseSensitive() bool              { return a.caseSensitive }
func (a *RequiredAttribute) Diagnostics() []diag.Diagnostic   { return slices.Clone(a.diagnostics) }

// BoundAttribute maps an HTML attribute onto a tag helper property.
type BoundAttribute struct {
	kind              string
	name              string
	typeName          string
	propertyName      string
	isEnum            bool
	indexerNamePrefix string
	indexerTypeName   string
	documentation     string
	displayName       string
	caseSensitive     bool
	diagnostics       []diag.Diagnostic
}

func (a *BoundAttribute) Kind() string                   { return a.kind }
func (a *BoundAttribute) Name() string                   { return a.name }
func (a *BoundAttribute) TypeName() string               { return a.typeName }
func (a *BoundAttribute) PropertyName() string           { return a.propertyName }
func (a *BoundAttribute) IsEnum() bool                   { return a.isEnum }
func (a *BoundAttribute) IndexerNamePrefix() string      { return a.indexerNamePrefix }
func (a *BoundAttribute) IndexerTypeName() string        { return a.indexerTypeName }
func (a *BoundAttribute) Documentation() string          { return a.documentation }
func (a *BoundAttribute) DisplayName() string            { return a.displayName }
func (a *BoundAttribute) CaseSensitive() bool            { return a.caseSensitive }
func (a *BoundAttribute) Diagnostics() []diag.Diagnostic { return slices.Clone(a.diagnostics) }

// HasIndexer reports whether the attribute binds a dictionary through a prefix.
func (a *BoundAttribute) HasIndexer() bool { return a.indexerNamePrefix != "" }

func (a *BoundAttribute) IsStringProperty() bool  { return isStringType(a.typeName) }
func (a *BoundAttribute) IsBooleanProperty() bool { return isBooleanType(a.typeName) }

func (a *BoundAttribute) IsIndexerStringProperty() bool {
	return a.HasIndexer() && isStringType(a.indexerTypeName)
}

func (a *BoundAttribute) IsIndexerBooleanProperty() bool {
	return a.HasIndexer() && isBooleanType(a.indexerTypeName)
}

func isStringType(t string) bool  { return t == StringTypeName || t == "string" }
func isBooleanType(t string) bool { return t == BooleanTypeName || t == "bool" }
