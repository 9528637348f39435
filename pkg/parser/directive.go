package parser

import (
	"strings"
	"unicode"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/directive"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

var tagHelperDirectiveKinds = map[string]syntax.TagHelperDirectiveKind{
	directive.AddTagHelperKeyword:    syntax.AddTagHelper,
	directive.RemoveTagHelperKeyword: syntax.RemoveTagHelper,
	directive.TagHelperPrefixKeyword: syntax.TagHelperPrefix,
}

var tagHelperDirectiveDescriptors = map[string]*directive.Descriptor{
	directive.AddTagHelperKeyword:    directive.AddTagHelper,
	directive.RemoveTagHelperKeyword: directive.RemoveTagHelper,
	directive.TagHelperPrefixKeyword: directive.TagHelperPrefix,
}

func (p *parser) parseDirective(parent *syntax.Block, d *directive.Descriptor, lineStart bool) {
	b := syntax.NewBlock(syntax.BlockDirective)
	b.Directive = &syntax.DirectiveInfo{Descriptor: d}
	parent.Add(b)

	p.takeN(b, 1, syntax.SpanTransition, syntax.GenNone)
	p.takeN(b, len([]rune(d.Keyword())), syntax.SpanMetaCode, syntax.GenNone)

	if !p.parseDirectiveTokens(b, d) {
		return
	}
	if d.Kind() == directive.KindSingleLine {
		p.finishSingleLineDirective(b, d)
		return
	}
	p.parseDirectiveBody(b, d, lineStart)
}

func (p *parser) parseDirectiveTokens(b *syntax.Block, d *directive.Descriptor) bool {
	tokens := d.Tokens()
	for i := range tokens {
		tok := &tokens[i]

		wsStart := p.pos
		p.skipWhitespace()
		hadWhitespace := p.pos > wsStart
		p.take(b, syntax.SpanCode, syntax.GenNone)

		if p.eof() || isNewline(p.cur()) || (d.IsBlock() && p.cur() == '{') {
			if tok.Optional {
				return true
			}
			if p.eof() {
				p.report(diag.UnexpectedEOFAfterDirective, p.pos, 1, d.Keyword(), strings.ToLower(tok.Kind.String()))
			} else {
				p.reportExpectedToken(d, tok, p.pos)
			}
			return false
		}
		if !hadWhitespace {
			p.report(diag.DirectiveTokensMustBeSeparated, p.pos, 1, d.Keyword())
			return false
		}

		tokStart := p.pos
		if !p.scanToken(tok.Kind) {
			p.pos = tokStart
			p.reportExpectedToken(d, tok, tokStart)
			return false
		}
		if s := p.take(b, syntax.SpanCode, syntax.GenDirectiveToken); s != nil {
			s.Token = tok
			s.Accepted = syntax.AcceptNonWhiteSpace
		}
	}
	return true
}

func (p *parser) reportExpectedToken(d *directive.Descriptor, tok *directive.TokenDescriptor, at int) {
	switch tok.Kind {
	case directive.TokenType:
		p.report(diag.DirectiveExpectsTypeName, at, 1, d.Keyword())
	case directive.TokenMember:
		p.report(diag.DirectiveExpectsIdentifier, at, 1, d.Keyword())
	case directive.TokenNamespace:
		p.report(diag.DirectiveExpectsNamespace, at, 1, d.Keyword())
	case directive.TokenString:
		p.report(diag.DirectiveExpectsQuotedString, at, 1, d.Keyword())
	}
}

// scanToken advances over one directive token and reports whether it was
// well formed.
func (p *parser) scanToken(kind directive.TokenKind) bool {
	start := p.pos
	switch kind {
	case directive.TokenMember:
		return p.readIdentifier() != ""
	case directive.TokenNamespace:
		for {
			if p.readIdentifier() == "" {
				return false
			}
			if p.cur() != '.' {
				return true
			}
			p.pos++
		}
	case directive.TokenString:
		if p.cur() != '"' {
			return false
		}
		p.pos++
		for !p.eof() && !isNewline(p.cur()) {
			switch p.cur() {
			case '\\':
				p.advance(2)
				continue
			case '"':
				p.pos++
				return true
			}
			p.pos++
		}
		return false
	case directive.TokenType:
		if !isIdentStart(p.cur()) && p.cur() != '(' {
			return false
		}
		depth := 0
		for !p.eof() {
			c := p.cur()
			switch {
			case c == '<' || c == '(' || c == '[':
				depth++
			case c == '>' || c == ')' || c == ']':
				depth--
				if depth < 0 {
					return false
				}
			case isNewline(c):
				return depth == 0 && p.pos > start
			case isWhitespace(c) || c == ';' || c == '{':
				if depth == 0 {
					return p.pos > start
				}
			case !isIdentPart(c) && c != '.' && c != ',' && c != '?' && c != ':':
				return false
			}
			p.pos++
		}
		return depth == 0 && p.pos > start
	}
	return false
}

func (p *parser) finishSingleLineDirective(b *syntax.Block, d *directive.Descriptor) {
	p.skipWhitespace()
	if p.cur() == ';' {
		p.pos++
	}
	p.skipWhitespace()
	if !p.eof() && !isNewline(p.cur()) {
		p.report(diag.UnexpectedDirectiveLiteral, p.pos, 1, d.Keyword(), "line break")
		for !p.eof() && !isNewline(p.cur()) {
			p.pos++
		}
	}
	p.consumeNewline()
	if s := p.take(b, syntax.SpanMarkup, syntax.GenNone); s != nil {
		s.Accepted = syntax.AcceptNone
	}
}

func (p *parser) parseDirectiveBody(b *syntax.Block, d *directive.Descriptor, lineStart bool) {
	p.skipAllWhitespace()
	p.take(b, syntax.SpanMarkup, syntax.GenNone)

	if p.eof() {
		p.report(diag.UnexpectedEOFAfterDirective, p.pos, 1, d.Keyword(), "{")
		return
	}
	if p.cur() != '{' {
		p.report(diag.UnexpectedDirectiveLiteral, p.pos, 1, d.Keyword(), "{")
		return
	}
	openAt := p.pos
	p.takeN(b, 1, syntax.SpanMetaCode, syntax.GenNone)

	var closed bool
	switch d.Kind() {
	case directive.KindCodeBlock:
		closed = p.parseCodeBody(b, syntax.GenStatement, p.opts.RazorInAllCodeBlocks)
		p.take(b, syntax.SpanCode, syntax.GenStatement)
	default:
		m := syntax.NewBlock(syntax.BlockMarkup)
		b.Add(m)
		p.parseMarkupContent(m, modeSection)
		p.flushMarkup(m)
		closed = !p.eof()
	}
	if !closed {
		p.report(diag.ExpectedEndOfBlockBeforeEOF, openAt, 1, blockEOFArgs(d.Keyword(), '{', '}')...)
		return
	}
	p.takeN(b, 1, syntax.SpanMetaCode, syntax.GenNone)
	p.swallowLineEnd(b, lineStart)
}

// parseTagHelperDirective parses addTagHelper, removeTagHelper and
// tagHelperPrefix, whose value runs to the end of the line and may be quoted.
func (p *parser) parseTagHelperDirective(parent *syntax.Block, keyword string) {
	d := p.directives[keyword]
	if d == nil {
		d = tagHelperDirectiveDescriptors[keyword]
	}
	b := syntax.NewBlock(syntax.BlockDirective)
	b.Directive = &syntax.DirectiveInfo{Descriptor: d}
	parent.Add(b)

	p.takeN(b, 1, syntax.SpanTransition, syntax.GenNone)
	kwAt := p.pos
	kwLen := len([]rune(keyword))
	p.takeN(b, kwLen, syntax.SpanMetaCode, syntax.GenNone)

	p.skipWhitespace()
	p.take(b, syntax.SpanCode, syntax.GenNone)

	valueAt := p.pos
	for !p.eof() && !isNewline(p.cur()) {
		p.pos++
	}
	value := strings.TrimRightFunc(string(p.src[valueAt:p.pos]), unicode.IsSpace)
	p.pos = valueAt + len([]rune(value))

	s := p.take(b, syntax.SpanCode, syntax.GenTagHelperDirective)

	startsQuoted := strings.HasPrefix(value, `"`)
	endsQuoted := len(value) > 1 && strings.HasSuffix(value, `"`)
	inner := strings.TrimSpace(trimQuotes(value))
	innerAt := valueAt
	if startsQuoted && endsQuoted {
		innerAt++
	}

	valid := false
	switch {
	case value == "" || (startsQuoted && endsQuoted && inner == ""):
		p.report(diag.DirectiveMustHaveValue, kwAt, kwLen, keyword)
	case startsQuoted != endsQuoted:
		p.report(diag.IncompleteQuotesAroundDirective, valueAt, len([]rune(value)), keyword)
	default:
		valid = true
	}
	if s != nil && valid {
		s.TagHelperDirective = &syntax.TagHelperDirectiveInfo{
			Kind:          tagHelperDirectiveKinds[keyword],
			Value:         inner,
			ValueLocation: p.loc(innerAt),
		}
	}

	p.skipWhitespace()
	p.consumeNewline()
	if rest := p.take(b, syntax.SpanMarkup, syntax.GenNone); rest != nil {
		rest.Accepted = syntax.AcceptNone
	}
}

// parseUsingDirective parses "@using Some.Namespace" and aliases such as
// "@using Alias = Some.Type".
func (p *parser) parseUsingDirective(parent *syntax.Block) {
	b := syntax.NewBlock(syntax.BlockDirective)
	b.Directive = &syntax.DirectiveInfo{Descriptor: directive.Using}
	parent.Add(b)

	p.takeN(b, 1, syntax.SpanTransition, syntax.GenNone)
	kwAt := p.pos
	p.pos += len(directive.UsingKeyword)
	p.skipWhitespace()
	nsAt := p.pos
	for !p.eof() && !isNewline(p.cur()) && p.cur() != ';' {
		p.pos++
	}
	ns := strings.TrimSpace(string(p.src[nsAt:p.pos]))
	p.pos = nsAt + len([]rune(strings.TrimRightFunc(string(p.src[nsAt:p.pos]), unicode.IsSpace)))
	if p.cur() == ';' {
		p.pos++
	}
	if s := p.take(b, syntax.SpanCode, syntax.GenUsing); s != nil {
		s.Namespace = ns
	}
	if ns == "" {
		p.report(diag.DirectiveExpectsNamespace, kwAt, len(directive.UsingKeyword), directive.UsingKeyword)
	}

	p.skipWhitespace()
	p.consumeNewline()
	if rest := p.take(b, syntax.SpanMarkup, syntax.GenNone); rest != nil {
		rest.Accepted = syntax.AcceptNone
	}
}
