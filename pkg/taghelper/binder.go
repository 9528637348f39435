package taghelper

import (
	"strings"
)

const (
	// ElementCatchAllTarget is the rule tag name that targets every element.
	ElementCatchAllTarget = "*"
	// ElementOptOutCharacter prefixes an element name to opt it out of tag helpers.
	ElementOptOutCharacter = '!'
)

// Attribute is a name/value pair from an element's start tag.
type Attribute struct {
	Name  string
	Value string
}

// Binding is the result of matching an element against the active descriptors.
type Binding struct {
	TagName           string
	ParentTagName     string
	Attributes        []Attribute
	Prefix            string
	ParentIsTagHelper bool

	descriptors []*Descriptor
	rules       map[*Descriptor][]*TagMatchingRule
}

// Descriptors returns the matched descriptors in registration order.
func (b *Binding) Descriptors() []*Descriptor {
	out := make([]*Descriptor, len(b.descriptors))
	copy(out, b.descriptors)
	return out
}

// Rules returns the rules of d that matched the element.
func (b *Binding) Rules(d *Descriptor) []*TagMatchingRule {
	rules := b.rules[d]
	out := make([]*TagMatchingRule, len(rules))
	copy(out, rules)
	return out
}

// TagNameWithoutPrefix strips the tag helper prefix from the element name.
func (b *Binding) TagNameWithoutPrefix() string {
	return b.TagName[len(b.Prefix):]
}

// Binder indexes descriptors by targeted tag name.
type Binder struct {
	prefix   string
	byTag    map[string][]*Descriptor
	catchAll []*Descriptor
	order    map[*Descriptor]int
}

// NewBinder indexes descriptors. Equal descriptors are registered once.
func NewBinder(prefix string, descriptors []*Descriptor) *Binder {
	b := &Binder{
		prefix: prefix,
		byTag:  map[string][]*Descriptor{},
		order:  map[*Descriptor]int{},
	}
	for _, d := range Dedupe(descriptors) {
		b.order[d] = len(b.order)
		seen := map[string]bool{}
		for _, r := range d.rules {
			if r.tagName == ElementCatchAllTarget {
				if !seen[ElementCatchAllTarget] {
					b.catchAll = append(b.catchAll, d)
					seen[ElementCatchAllTarget] = true
				}
				continue
			}
			key := strings.ToLower(r.tagName)
			if !seen[key] {
				b.byTag[key] = append(b.byTag[key], d)
				seen[key] = true
			}
		}
	}
	return b
}

// Prefix returns the tag helper prefix elements must carry.
func (b *Binder) Prefix() string { return b.prefix }

// GetBinding returns the descriptors whose rules match the element, or nil.
// Elements lacking the configured prefix, consisting only of it, or opted out
// with '!' after it never match.
func (b *Binder) GetBinding(tagName string, attributes []Attribute, parentTagName string, parentIsTagHelper bool) *Binding {
	name, ok := cutPrefixFold(tagName, b.prefix)
	if !ok || name == "" || name[0] == ElementOptOutCharacter {
		return nil
	}

	parent := parentTagName
	if parentIsTagHelper && b.prefix != "" {
		if rest, ok := cutPrefixFold(parent, b.prefix); ok {
			parent = rest
		}
	}

	candidates := b.byTag[strings.ToLower(name)]
	if len(b.catchAll) > 0 {
		candidates = mergeByOrder(b.catchAll, candidates, b.order)
	}

	var binding *Binding
	for _, d := range candidates {
		c := comparer{caseSensitive: d.caseSensitive}
		var matched []*TagMatchingRule
		for _, r := range d.rules {
			if r.satisfies(c, name, parent, attributes) {
				matched = append(matched, r)
			}
		}
		if len(matched) == 0 {
			continue
		}
		if binding == nil {
			binding = &Binding{
				TagName:           tagName,
				ParentTagName:     parentTagName,
				Attributes:        attributes,
				Prefix:            b.prefix,
				ParentIsTagHelper: parentIsTagHelper,
				rules:             map[*Descriptor][]*TagMatchingRule{},
			}
		}
		binding.descriptors = append(binding.descriptors, d)
		binding.rules[d] = matched
	}
	return binding
}

func mergeByOrder(a, b []*Descriptor, order map[*Descriptor]int) []*Descriptor {
	out := make([]*Descriptor, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j >= len(b) || (i < len(a) && order[a[i]] < order[b[j]]):
			out = append(out, a[i])
			i++
		case i >= len(a) || order[b[j]] < order[a[i]]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

func (r *TagMatchingRule) satisfies(c comparer, tagName, parentTagName string, attributes []Attribute) bool {
	if r.tagName != ElementCatchAllTarget && !c.equal(r.tagName, tagName) {
		return false
	}
	if r.parentTag != "" && !c.equal(r.parentTag, parentTagName) {
		return false
	}
	for _, ra := range r.attributes {
		found := false
		for _, attr := range attributes {
			if ra.isSatisfiedBy(c, attr.Name, attr.Value) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// IsSatisfiedBy reports whether an attribute with the given name and value
// satisfies a.
func (a *RequiredAttribute) IsSatisfiedBy(name, value string) bool {
	return a.isSatisfiedBy(comparer{caseSensitive: a.caseSensitive}, name, value)
}

func (a *RequiredAttribute) isSatisfiedBy(c comparer, name, value string) bool {
	switch a.nameComparison {
	case NamePrefixMatch:
		if rest, ok := c.cutPrefix(name, a.name); !ok || rest == "" {
			return false
		}
	default:
		if !c.equal(name, a.name) {
			return false
		}
	}

	switch a.valueComparison {
	case ValuePrefixMatch:
		return strings.HasPrefix(value, a.value)
	case ValueSuffixMatch:
		return strings.HasSuffix(value, a.value)
	case ValueFullMatch:
		return value == a.value
	default:
		return true
	}
}

// CanSatisfyBoundAttribute reports whether an attribute named name binds to
// attr, either by its full name or through its indexer prefix.
func CanSatisfyBoundAttribute(name string, attr *BoundAttribute) bool {
	return SatisfiesBoundAttributeName(name, attr) || SatisfiesBoundAttributeIndexer(name, attr)
}

// SatisfiesBoundAttributeName reports a full name match.
func SatisfiesBoundAttributeName(name string, attr *BoundAttribute) bool {
	return attr.name != "" && comparer{caseSensitive: attr.caseSensitive}.equal(name, attr.name)
}

// SatisfiesBoundAttributeIndexer reports a match through the indexer prefix.
// A name equal to the prefix has no key and is still reported as a match.
func SatisfiesBoundAttributeIndexer(name string, attr *BoundAttribute) bool {
	return attr.indexerNamePrefix != "" &&
		!SatisfiesBoundAttributeName(name, attr) &&
		comparer{caseSensitive: attr.caseSensitive}.hasPrefix(name, attr.indexerNamePrefix)
}

// Dedupe removes descriptors equal to an earlier one, keeping order.
func Dedupe(descriptors []*Descriptor) []*Descriptor {
	buckets := map[uint64][]*Descriptor{}
	out := make([]*Descriptor, 0, len(descriptors))
next:
	for _, d := range descriptors {
		if d == nil {
			continue
		}
		for _, existing := range buckets[d.hash] {
			if existing.Equal(d) {
				continue next
			}
		}
		buckets[d.hash] = append(buckets[d.hash], d)
		out = append(out, d)
	}
	return out
}
