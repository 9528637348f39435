package taghelper

import (
	"maps"
	"slices"
	"sync"
)

// Builder accumulates a Spec and produces an immutable Descriptor.
type Builder struct {
	spec Spec
}

// NewBuilder starts a descriptor of the given kind, type name and assembly.
func NewBuilder(kind, name, assembly string) *Builder {
	return &Builder{spec: Spec{Kind: kind, Name: name, AssemblyName: assembly}}
}

func (b *Builder) Documentation(doc string) *Builder {
	b.spec.Documentation = doc
	return b
}

func (b *Builder) DisplayName(name string) *Builder {
	b.spec.DisplayName = name
	return b
}

func (b *Builder) CaseSensitive(v bool) *Builder {
	b.spec.CaseSensitive = v
	return b
}

// TagMatchingRule adds a rule targeting tag.
func (b *Builder) TagMatchingRule(rule RuleSpec) *Builder {
	b.spec.Rules = append(b.spec.Rules, rule)
	return b
}

// BoundAttribute adds a bound attribute.
func (b *Builder) BoundAttribute(attr BoundAttributeSpec) *Builder {
	b.spec.Attributes = append(b.spec.Attributes, attr)
	return b
}

// AllowChildTag restricts children to the named tags.
func (b *Builder) AllowChildTag(name string) *Builder {
	b.spec.AllowedChildTags = append(b.spec.AllowedChildTags, name)
	return b
}

func (b *Builder) Metadata(key, value string) *Builder {
	if b.spec.Metadata == nil {
		b.spec.Metadata = map[string]string{}
	}
	b.spec.Metadata[key] = value
	return b
}

// Build creates the descriptor. The builder may keep being used afterwards;
// later changes do not affect the built descriptor.
func (b *Builder) Build() *Descriptor {
	spec := b.spec
	spec.Rules = slices.Clone(spec.Rules)
	for i := range spec.Rules {
		spec.Rules[i].Attributes = slices.Clone(spec.Rules[i].Attributes)
	}
	spec.Attributes = slices.Clone(spec.Attributes)
	spec.AllowedChildTags = slices.Clone(spec.AllowedChildTags)
	spec.Metadata = maps.Clone(spec.Metadata)
	return New(spec)
}

func (b *Builder) reset(kind, name, assembly string) {
	b.spec = Spec{
		Kind:             kind,
		Name:             name,
		AssemblyName:     assembly,
		Rules:            b.spec.Rules[:0],
		Attributes:       b.spec.Attributes[:0],
		AllowedChildTags: b.spec.AllowedChildTags[:0],
	}
}

// BuilderPool recycles builders for bulk descriptor construction.
// It is safe for concurrent use.
type BuilderPool struct {
	pool sync.Pool
}

// NewBuilderPool creates an empty pool.
func NewBuilderPool() *BuilderPool {
	return &BuilderPool{
		pool: sync.Pool{New: func() any { return &Builder{} }},
	}
}

// Get returns a reset builder.
func (p *BuilderPool) Get(kind, name, assembly string) *Builder {
	b, _ := p.pool.Get().(*Builder)
	if b == nil {
		b = &Builder{}
	}
	b.reset(kind, name, assembly)
	return b
}

// Put returns b to the pool. b must not be used afterwards.
func (p *BuilderPool) Put(b *Builder) {
	if b == nil {
		return
	}
	b.reset("", "", "")
	p.pool.Put(b)
}
