// Package parser turns a source document into a syntax tree.
//
// The parser never fails: malformed input produces diagnostics on the tree
// and the tree still covers every character of the document.
package parser

import (
	"strings"
	"unicode"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/directive"
	"github.com/yaklabco/gorazor/pkg/source"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

// Options configures the parser.
type Options struct {
	// Directives are the directives recognised after '@'. The tag helper
	// directives and @using are always recognised.
	Directives []*directive.Descriptor
	// DesignTime marks a parse for tooling rather than execution.
	DesignTime bool
	// ConditionalDataDashAttributes treats data-* attributes like any other
	// attribute instead of writing them verbatim.
	ConditionalDataDashAttributes bool
	// RazorInAllCodeBlocks allows markup inside @functions and other code
	// block directives.
	RazorInAllCodeBlocks bool
}

// DefaultOptions returns options recognising the built-in directives.
func DefaultOptions() Options {
	return Options{
		Directives:                    directive.Builtins(),
		ConditionalDataDashAttributes: true,
		RazorInAllCodeBlocks:          true,
	}
}

// reservedWords may not start an implicit expression.
var reservedWords = map[string]bool{
	"class":     true,
	"namespace": true,
}

const eof rune = -1

type parser struct {
	doc   *source.Document
	src   []rune
	lines *source.LineIndex
	opts  Options

	directives map[string]*directive.Descriptor

	pos   int
	start int
	diags diag.Bag
}

// Parse parses doc into a syntax tree.
func Parse(doc *source.Document, opts Options) *syntax.Tree {
	p := &parser{
		doc:        doc,
		src:        doc.Runes(),
		lines:      doc.Lines(),
		opts:       opts,
		directives: map[string]*directive.Descriptor{},
	}
	for _, d := range opts.Directives {
		if d != nil {
			p.directives[d.Keyword()] = d
		}
	}

	root := syntax.NewBlock(syntax.BlockMarkup)
	p.parseMarkupContent(root, modeDocument)
	p.take(root, syntax.SpanMarkup, syntax.GenMarkup)

	return &syntax.Tree{
		Source:      doc,
		Root:        root,
		Diagnostics: p.diags.Items(),
	}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) cur() rune { return p.peek(0) }

func (p *parser) peek(n int) rune {
	i := p.pos + n
	if i < 0 || i >= len(p.src) {
		return eof
	}
	return p.src[i]
}

func (p *parser) hasPrefix(s string) bool {
	i := p.pos
	for _, r := range s {
		if i >= len(p.src) || p.src[i] != r {
			return false
		}
		i++
	}
	return true
}

func (p *parser) hasPrefixFold(s string) bool {
	i := p.pos
	for _, r := range s {
		if i >= len(p.src) || unicode.ToLower(p.src[i]) != unicode.ToLower(r) {
			return false
		}
		i++
	}
	return true
}

func (p *parser) loc(i int) source.Location {
	return p.lines.Location(i)
}

func (p *parser) spanAt(i, length int) source.Span {
	return source.NewSpan(p.loc(i), length)
}

func (p *parser) report(desc diag.Descriptor, at, length int, args ...any) {
	p.diags.Report(desc, p.spanAt(at, length), args...)
}

// take emits the pending runes as a span appended to b.
func (p *parser) take(b *syntax.Block, kind syntax.SpanKind, gen syntax.Generator) *syntax.Span {
	if p.pos > len(p.src) {
		p.pos = len(p.src)
	}
	if p.pos <= p.start {
		p.start = p.pos
		return nil
	}
	s := syntax.NewSpan(kind, string(p.src[p.start:p.pos]), p.loc(p.start), gen)
	switch {
	case gen == syntax.GenNone && kind != syntax.SpanMarkup:
		s.Accepted = syntax.AcceptNone
	case gen == syntax.GenExpression:
		s.Accepted = syntax.AcceptNonWhiteSpace
	}
	b.Add(s)
	p.start = p.pos
	return s
}

// takeN advances n runes and emits them as one span.
func (p *parser) takeN(b *syntax.Block, n int, kind syntax.SpanKind, gen syntax.Generator) *syntax.Span {
	p.pos += n
	return p.take(b, kind, gen)
}

// flushMarkup emits pending markup. Whitespace that starts a line is emitted
// as its own span so passes can move it into the following block.
func (p *parser) flushMarkup(b *syntax.Block) {
	ws := p.pos
	for ws > p.start && isWhitespace(p.src[ws-1]) {
		ws--
	}
	if ws > p.start && ws < p.pos && isNewline(p.src[ws-1]) {
		end := p.pos
		p.pos = ws
		p.take(b, syntax.SpanMarkup, syntax.GenMarkup)
		p.pos = end
	}
	p.take(b, syntax.SpanMarkup, syntax.GenMarkup)
}

// atLineStart reports whether only whitespace precedes i on its line.
func (p *parser) atLineStart(i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch {
		case isNewline(p.src[j]):
			return true
		case !isWhitespace(p.src[j]):
			return false
		}
	}
	return true
}

// swallowLineEnd consumes the rest of the line into b when it holds only
// whitespace, so a block written on its own line leaves no blank output line.
func (p *parser) swallowLineEnd(b *syntax.Block, startedAtLineStart bool) {
	if !startedAtLineStart {
		return
	}
	i := p.pos
	for i < len(p.src) && isWhitespace(p.src[i]) {
		i++
	}
	switch {
	case i >= len(p.src):
	case p.src[i] == '\r' && i+1 < len(p.src) && p.src[i+1] == '\n':
		i += 2
	case isNewline(p.src[i]):
		i++
	default:
		return
	}
	p.start = p.pos
	p.pos = i
	if s := p.take(b, syntax.SpanMarkup, syntax.GenNone); s != nil {
		s.Accepted = syntax.AcceptNone
	}
}

// consumeNewline advances past one line break, if present.
func (p *parser) consumeNewline() {
	switch {
	case p.cur() == '\r' && p.peek(1) == '\n':
		p.pos += 2
	case isNewline(p.cur()):
		p.pos++
	}
}

func (p *parser) readIdentifier() string {
	start := p.pos
	if !isIdentStart(p.cur()) {
		return ""
	}
	for !p.eof() && isIdentPart(p.cur()) {
		p.pos++
	}
	return string(p.src[start:p.pos])
}

func (p *parser) peekIdentifier() string {
	save := p.pos
	id := p.readIdentifier()
	p.pos = save
	return id
}

func (p *parser) skipWhitespace() {
	for !p.eof() && isWhitespace(p.cur()) {
		p.pos++
	}
}

func (p *parser) skipAllWhitespace() {
	for !p.eof() && (isWhitespace(p.cur()) || isNewline(p.cur())) {
		p.pos++
	}
}

func isNewline(r rune) bool {
	switch r {
	case '\n', '\r', '\u0085', '\u2028', '\u2029':
		return true
	default:
		return false
	}
}

// isWhitespace reports whitespace that is not a line break.
func isWhitespace(r rune) bool {
	return r != eof && !isNewline(r) && unicode.IsSpace(r)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isLetterOrDigit(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// blockEOFArgs builds the arguments of diag.ExpectedEndOfBlockBeforeEOF.
func blockEOFArgs(name string, open, closer rune) []any {
	c := string(closer)
	return []any{name, c, c, string(open), c}
}

func trimQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
