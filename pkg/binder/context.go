// Package binder resolves the tag helper directives of a document and
// rewrites elements matched by tag helpers into tag helper blocks.
package binder

import (
	"slices"

	"github.com/yaklabco/gorazor/pkg/taghelper"
)

// Context is the set of tag helpers in scope for one document.
type Context struct {
	prefix      string
	descriptors []*taghelper.Descriptor
	binder      *taghelper.Binder
}

// NewContext creates a context. Equal descriptors are kept once.
func NewContext(prefix string, descriptors []*taghelper.Descriptor) *Context {
	descriptors = taghelper.Dedupe(descriptors)
	return &Context{
		prefix:      prefix,
		descriptors: descriptors,
		binder:      taghelper.NewBinder(prefix, descriptors),
	}
}

// Prefix returns the tag prefix required on tag helper elements.
func (c *Context) Prefix() string { return c.prefix }

// Descriptors returns the tag helpers in scope, in directive order.
func (c *Context) Descriptors() []*taghelper.Descriptor { return slices.Clone(c.descriptors) }

// Binder returns the binder indexing the descriptors in scope.
func (c *Context) Binder() *taghelper.Binder { return c.binder }

// Empty reports whether no tag helper is in scope.
func (c *Context) Empty() bool { return c == nil || len(c.descriptors) == 0 }
