// Package directive describes template directives: keywords such as
// @inherits or @section, the tokens they take and the shape of their body.
package directive

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidTokenOrder is returned when a required token follows an optional one.
var ErrInvalidTokenOrder = errors.New("required directive token follows an optional token")

// ErrInvalidKeyword is returned for an empty or non-identifier keyword.
var ErrInvalidKeyword = errors.New("invalid directive keyword")

// TokenKind is the grammar category of a directive token.
type TokenKind int

const (
	TokenType TokenKind = iota
	TokenMember
	TokenNamespace
	TokenString
)

func (k TokenKind) String() string {
	switch k {
	case TokenType:
		return "Type"
	case TokenMember:
		return "Member"
	case TokenNamespace:
		return "Namespace"
	case TokenString:
		return "String"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Kind is the shape of a directive after its tokens.
type Kind int

const (
	// KindSingleLine ends at the end of the line.
	KindSingleLine Kind = iota
	// KindRazorBlock is followed by a braced block of markup.
	KindRazorBlock
	// KindCodeBlock is followed by a braced block of code.
	KindCodeBlock
)

func (k Kind) String() string {
	switch k {
	case KindSingleLine:
		return "SingleLine"
	case KindRazorBlock:
		return "RazorBlock"
	case KindCodeBlock:
		return "CodeBlock"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Usage restricts where and how often a directive may appear.
type Usage int

const (
	UsageUnrestricted Usage = iota
	UsageFileScopedMultipleOccurring
	UsageFileScopedSinglyOccurring
)

// FileScoped reports whether the directive must start a line at document level.
func (u Usage) FileScoped() bool {
	return u != UsageUnrestricted
}

// TokenDescriptor describes one token in a directive's grammar.
type TokenDescriptor struct {
	Kind        TokenKind
	Optional    bool
	Name        string
	Description string
}

// Descriptor describes a directive. It is immutable once created.
type Descriptor struct {
	keyword     string
	kind        Kind
	usage       Usage
	tokens      []TokenDescriptor
	description string
}

// Option configures a Descriptor under construction.
type Option func(*Descriptor)

// WithUsage sets the usage restriction.
func WithUsage(usage Usage) Option {
	return func(d *Descriptor) {
		d.usage = usage
	}
}

// WithTokens sets the token grammar.
func WithTokens(tokens ...TokenDescriptor) Option {
	return func(d *Descriptor) {
		d.tokens = append([]TokenDescriptor(nil), tokens...)
	}
}

// WithDescription sets the human readable description.
func WithDescription(text string) Option {
	return func(d *Descriptor) {
		d.description = text
	}
}

// New validates and creates a directive descriptor.
func New(keyword string, kind Kind, opts ...Option) (*Descriptor, error) {
	if keyword == "" || strings.IndexFunc(keyword, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	}) >= 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKeyword, keyword)
	}

	desc := &Descriptor{keyword: keyword, kind: kind}
	for _, opt := range opts {
		opt(desc)
	}

	seenOptional := false
	for i, token := range desc.tokens {
		if token.Optional {
			seenOptional = true
			continue
		}
		if seenOptional {
			return nil, fmt.Errorf("%w: directive %q token %d", ErrInvalidTokenOrder, keyword, i)
		}
	}

	return desc, nil
}

// MustNew is like New but panics on an invalid grammar. It is meant for
// package-level built-in catalogs.
func MustNew(keyword string, kind Kind, opts ...Option) *Descriptor {
	desc, err := New(keyword, kind, opts...)
	if err != nil {
		panic(err)
	}
	return desc
}

// Keyword returns the directive keyword without the transition character.
func (d *Descriptor) Keyword() string { return d.keyword }

// Kind returns the body shape.
func (d *Descriptor) Kind() Kind { return d.kind }

// Usage returns the usage restriction.
func (d *Descriptor) Usage() Usage { return d.usage }

// Description returns the human readable description.
func (d *Descriptor) Description() string { return d.description }

// Tokens returns a copy of the token grammar.
func (d *Descriptor) Tokens() []TokenDescriptor {
	return append([]TokenDescriptor(nil), d.tokens...)
}

// IsBlock reports whether the directive takes a braced body.
func (d *Descriptor) IsBlock() bool {
	return d.kind == KindRazorBlock || d.kind == KindCodeBlock
}
