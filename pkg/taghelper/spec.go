package taghelper

// TagStructure is the structure hint of a tag matching rule.
type TagStructure string

const (
	TagStructureUnspecified         TagStructure = "unspecified"
	TagStructureNormalOrSelfClosing TagStructure = "normal_or_self_closing"
	TagStructureWithoutEndTag       TagStructure = "without_end_tag"
)

// IsValid reports whether the structure is a known value or empty.
func (s TagStructure) IsValid() bool {
	switch s {
	case "", TagStructureUnspecified, TagStructureNormalOrSelfClosing, TagStructureWithoutEndTag:
		return true
	default:
		return false
	}
}

// NameComparison is how a required attribute name is compared.
type NameComparison string

const (
	NameFullMatch   NameComparison = "full"
	NamePrefixMatch NameComparison = "prefix"
)

// IsValid reports whether the comparison is a known value or empty.
func (c NameComparison) IsValid() bool {
	switch c {
	case "", NameFullMatch, NamePrefixMatch:
		return true
	default:
		return false
	}
}

// ValueComparison is how a required attribute value is compared. All value
// comparisons are ordinal.
type ValueComparison string

const (
	ValueNone        ValueComparison = "none"
	ValuePrefixMatch ValueComparison = "prefix"
	ValueSuffixMatch ValueComparison = "suffix"
	ValueFullMatch   ValueComparison = "full"
)

// IsValid reports whether the comparison is a known value or empty.
func (c ValueComparison) IsValid() bool {
	switch c {
	case "", ValueNone, ValuePrefixMatch, ValueSuffixMatch, ValueFullMatch:
		return true
	default:
		return false
	}
}

// DefaultKind is the kind assigned to descriptors that do not name one.
const DefaultKind = "ITagHelper"

// Spec is the plain input from which a Descriptor is created. Catalog files
// decode directly into Spec values.
type Spec struct {
	Kind             string               `json:"kind,omitempty" toml:"kind,omitempty" yaml:"kind,omitempty"`
	Name             string               `json:"name" toml:"name" yaml:"name"`
	AssemblyName     string               `json:"assembly" toml:"assembly" yaml:"assembly"`
	Documentation    string               `json:"documentation,omitempty" toml:"documentation,omitempty" yaml:"documentation,omitempty"`
	DisplayName      string               `json:"display_name,omitempty" toml:"display_name,omitempty" yaml:"display_name,omitempty"`
	CaseSensitive    bool                 `json:"case_sensitive,omitempty" toml:"case_sensitive,omitempty" yaml:"case_sensitive,omitempty"`
	Rules            []RuleSpec           `json:"rules" toml:"rules" yaml:"rules"`
	Attributes       []BoundAttributeSpec `json:"attributes,omitempty" toml:"attributes,omitempty" yaml:"attributes,omitempty"`
	AllowedChildTags []string             `json:"allowed_children,omitempty" toml:"allowed_children,omitempty" yaml:"allowed_children,omitempty"`
	Metadata         map[string]string    `json:"metadata,omitempty" toml:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// RuleSpec is the input for a TagMatchingRule.
type RuleSpec struct {
	TagName      string                  `json:"tag" toml:"tag" yaml:"tag"`
	ParentTag    string                  `json:"parent,omitempty" toml:"parent,omitempty" yaml:"parent,omitempty"`
	TagStructure TagStructure            `json:"structure,omitempty" toml:"structure,omitempty" yaml:"structure,omitempty"`
	Attributes   []RequiredAttributeSpec `json:"attributes,omitempty" toml:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// RequiredAttributeSpec is the input for a RequiredAttribute.
// A name ending in "*" with no explicit comparison is a prefix match on the
// part before the star.
type RequiredAttributeSpec struct {
	Name            string          `json:"name" toml:"name" yaml:"name"`
	NameComparison  NameComparison  `json:"match,omitempty" toml:"match,omitempty" yaml:"match,omitempty"`
	Value           string          `json:"value,omitempty" toml:"value,omitempty" yaml:"value,omitempty"`
	ValueComparison ValueComparison `json:"value_match,omitempty" toml:"value_match,omitempty" yaml:"value_match,omitempty"`
}

// BoundAttributeSpec is the input for a BoundAttribute.
type BoundAttributeSpec struct {
	Kind              string `json:"kind,omitempty" toml:"kind,omitempty" yaml:"kind,omitempty"`
	Name              string `json:"name" toml:"name" yaml:"name"`
	TypeName          string `json:"type" toml:"type" yaml:"type"`
	PropertyName      string `json:"property,omitempty" toml:"property,omitempty" yaml:"property,omitempty"`
	IsEnum            bool   `json:"enum,omitempty" toml:"enum,omitempty" yaml:"enum,omitempty"`
	IndexerNamePrefix string `json:"indexer_prefix,omitempty" toml:"indexer_prefix,omitempty" yaml:"indexer_prefix,omitempty"`
	IndexerTypeName   string `json:"indexer_type,omitempty" toml:"indexer_type,omitempty" yaml:"indexer_type,omitempty"`
	Documentation     string `json:"documentation,omitempty" toml:"documentation,omitempty" yaml:"documentation,omitempty"`
	DisplayName       string `json:"display_name,omitempty" toml:"display_name,omitempty" yaml:"display_name,omitempty"`
}
