package taghelper

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"maps"
	"strings"

	"github.com/yaklabco/gorazor/pkg/diag"
)

// comparer compares tag and attribute names. Descriptors marked case
// sensitive compare ordinally, all others ignore case. Values and type names
// are always ordinal.
type comparer struct {
	caseSensitive bool
}

func (c comparer) equal(a, b string) bool {
	if c.caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

func (c comparer) hasPrefix(s, prefix string) bool {
	_, ok := c.cutPrefix(s, prefix)
	return ok
}

func (c comparer) cutPrefix(s, prefix string) (string, bool) {
	if c.caseSensitive {
		return strings.CutPrefix(s, prefix)
	}
	return cutPrefixFold(s, prefix)
}

func (c comparer) key(s string) string {
	if c.caseSensitive {
		return s
	}
	return strings.ToLower(s)
}

func (c comparer) requiredAttributesEqual(a, b *RequiredAttribute) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.caseSensitive == b.caseSensitive &&
		c.equal(a.name, b.name) &&
		a.nameComparison == b.nameComparison &&
		a.value == b.value &&
		a.valueComparison == b.valueComparison &&
		c.equal(a.displayName, b.displayName) &&
		sameDiagnostics(a.diagnostics, b.diagnostics)
}

func (c comparer) requiredAttributeHash(a *RequiredAttribute) uint64 {
	h := newHasher()
	h.str(c.key(a.name))
	h.str(string(a.nameComparison))
	h.str(a.value)
	h.str(string(a.valueComparison))
	return h.sum()
}

func (c comparer) rulesEqual(a, b *TagMatchingRule) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.caseSensitive == b.caseSensitive &&
		c.equal(a.tagName, b.tagName) &&
		c.equal(a.parentTag, b.parentTag) &&
		a.tagStructure == b.tagStructure &&
		sameSet(a.attributes, b.attributes, c.requiredAttributesEqual) &&
		sameDiagnostics(a.diagnostics, b.diagnostics)
}

func (c comparer) ruleHash(r *TagMatchingRule) uint64 {
	h := newHasher()
	h.str(c.key(r.tagName))
	h.str(c.key(r.parentTag))
	h.str(string(r.tagStructure))
	h.u64(setHash(r.attributes, c.requiredAttributeHash))
	return h.sum()
}

func (c comparer) boundAttributesEqual(a, b *BoundAttribute) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.caseSensitive == b.caseSensitive &&
		a.kind == b.kind &&
		c.equal(a.name, b.name) &&
		a.typeName == b.typeName &&
		a.propertyName == b.propertyName &&
		a.isEnum == b.isEnum &&
		c.equal(a.indexerNamePrefix, b.indexerNamePrefix) &&
		a.indexerTypeName == b.indexerTypeName &&
		a.documentation == b.documentation &&
		a.displayName == b.displayName &&
		sameDiagnostics(a.diagnostics, b.diagnostics)
}

func (c comparer) boundAttributeHash(a *BoundAttribute) uint64 {
	h := newHasher()
	h.str(a.kind)
	h.str(c.key(a.name))
	h.str(a.typeName)
	h.str(a.propertyName)
	h.str(c.key(a.indexerNamePrefix))
	h.bool(a.isEnum)
	return h.sum()
}

func (c comparer) descriptorsEqual(a, b *Descriptor) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.caseSensitive == b.caseSensitive &&
		a.kind == b.kind &&
		a.assemblyName == b.assemblyName &&
		a.name == b.name &&
		a.documentation == b.documentation &&
		a.displayName == b.displayName &&
		sameSet(a.rules, b.rules, c.rulesEqual) &&
		sameSet(a.boundAttributes, b.boundAttributes, c.boundAttributesEqual) &&
		sameSet(a.allowedChildTags, b.allowedChildTags, c.equal) &&
		maps.Equal(a.metadata, b.metadata) &&
		sameDiagnostics(a.diagnostics, b.diagnostics)
}

func hashDescriptor(d *Descriptor) uint64 {
	c := comparer{caseSensitive: d.caseSensitive}
	h := newHasher()
	h.str(d.kind)
	h.str(d.assemblyName)
	h.str(d.name)
	h.bool(d.caseSensitive)
	h.u64(setHash(d.rules, c.ruleHash))
	h.u64(setHash(d.boundAttributes, c.boundAttributeHash))
	h.u64(setHash(d.allowedChildTags, func(s string) uint64 {
		sh := newHasher()
		sh.str(c.key(s))
		return sh.sum()
	}))
	return h.sum()
}

// Equal reports whether two descriptors are equal. Rules, bound attributes,
// allowed children and diagnostics compare as sets.
func (d *Descriptor) Equal(other *Descriptor) bool {
	if d == nil || other == nil {
		return d == other
	}
	return comparer{caseSensitive: d.caseSensitive}.descriptorsEqual(d, other)
}

// Equal reports whether two rules are equal. Required attributes compare as a set.
func (r *TagMatchingRule) Equal(other *TagMatchingRule) bool {
	if r == nil || other == nil {
		return r == other
	}
	return comparer{caseSensitive: r.caseSensitive}.rulesEqual(r, other)
}

// Equal reports whether two required attributes are equal.
func (a *RequiredAttribute) Equal(other *RequiredAttribute) bool {
	if a == nil || other == nil {
		return a == other
	}
	return comparer{caseSensitive: a.caseSensitive}.requiredAttributesEqual(a, other)
}

// Equal reports whether two bound attributes are equal.
func (a *BoundAttribute) Equal(other *BoundAttribute) bool {
	if a == nil || other == nil {
		return a == other
	}
	return comparer{caseSensitive: a.caseSensitive}.boundAttributesEqual(a, other)
}

// sameSet reports whether a and b hold the same elements regardless of order.
func sameSet[T any](a, b []T, eq func(T, T) bool) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
outer:
	for _, x := range a {
		for i, y := range b {
			if !used[i] && eq(x, y) {
				used[i] = true
				continue outer
			}
		}
		return false
	}
	return true
}

func sameDiagnostics(a, b []diag.Diagnostic) bool {
	return sameSet(a, b, func(x, y diag.Diagnostic) bool { return x.Equal(y) })
}

// setHash combines element hashes by addition so that order does not matter.
func setHash[T any](items []T, fn func(T) uint64) uint64 {
	var sum uint64
	for _, item := range items {
		sum += fn(item)
	}
	return sum
}

type hasher struct {
	h hash.Hash64
}

func newHasher() hasher {
	return hasher{h: fnv.New64a()}
}

func (h hasher) str(s string) {
	_, _ = h.h.Write([]byte(s))
	_, _ = h.h.Write([]byte{0})
}

func (h hasher) bool(b bool) {
	if b {
		_, _ = h.h.Write([]byte{1})
		return
	}
	_, _ = h.h.Write([]byte{0})
}

func (h hasher) u64(v uint64) {
	_, _ = h.h.Write(binary.LittleEndian.AppendUint64(nil, v))
}

func (h hasher) sum() uint64 {
	return h.h.Sum64()
}
