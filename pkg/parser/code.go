package parser

import (
	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/directive"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

type transitionContext uint8

const (
	inMarkup transitionContext = iota
	inTag
	inAttribute
)

var controlKeywords = map[string]bool{
	"if":      true,
	"for":     true,
	"foreach": true,
	"while":   true,
	"do":      true,
	"switch":  true,
	"try":     true,
	"lock":    true,
	"using":   true,
}

// keywordsBeforeMarkup are statement keywords after which markup may start.
var keywordsBeforeMarkup = map[string]bool{
	"else":    true,
	"do":      true,
	"try":     true,
	"finally": true,
}

// parseTransition parses the construct introduced by the '@' at p.pos.
func (p *parser) parseTransition(parent *syntax.Block, ctx transitionContext) {
	at := p.pos
	lineStart := p.atLineStart(at)
	next := p.peek(1)

	switch {
	case next == '{':
		p.parseCodeBlock(parent, lineStart)
	case next == '(':
		p.parseExplicitExpression(parent)
	case next == '*':
		p.parseRazorComment(parent)
	case isIdentStart(next):
		p.parseKeywordOrExpression(parent, ctx, lineStart)
	default:
		b := syntax.NewBlock(syntax.BlockExpression)
		parent.Add(b)
		p.takeN(b, 1, syntax.SpanTransition, syntax.GenNone)
		switch {
		case next == eof:
			p.report(diag.UnexpectedEndOfFileAtCodeStart, p.pos, 1)
		case isWhitespace(next) || isNewline(next):
			p.report(diag.UnexpectedWhiteSpaceAtCodeStart, p.pos, 1)
		default:
			p.report(diag.UnexpectedCharacterAtCodeStart, p.pos, 1, string(next))
		}
	}
}

func (p *parser) parseKeywordOrExpression(parent *syntax.Block, ctx transitionContext, lineStart bool) {
	p.pos++
	id := p.peekIdentifier()
	p.pos--

	if ctx == inMarkup {
		switch {
		case directive.IsTagHelperDirective(id):
			p.parseTagHelperDirective(parent, id)
			return
		case id == directive.UsingKeyword && !p.usingIsStatement():
			p.parseUsingDirective(parent)
			return
		}
		if d, ok := p.directives[id]; ok {
			p.parseDirective(parent, d, lineStart)
			return
		}
	}

	switch {
	case controlKeywords[id]:
		p.parseControlStatement(parent, id, lineStart)
	case reservedWords[id] && p.directives[id] == nil:
		b := syntax.NewBlock(syntax.BlockExpression)
		parent.Add(b)
		p.takeN(b, 1, syntax.SpanTransition, syntax.GenNone)
		kwAt := p.pos
		p.takeN(b, len([]rune(id)), syntax.SpanMetaCode, syntax.GenNone)
		p.report(diag.ReservedWord, kwAt, len([]rune(id)), id)
	default:
		p.parseImplicitExpression(parent)
	}
}

// usingIsStatement reports whether "@using" at p.pos starts a using block.
func (p *parser) usingIsStatement() bool {
	save := p.pos
	defer func() { p.pos = save }()
	p.pos += 1 + len(directive.UsingKeyword)
	p.skipWhitespace()
	return p.cur() == '('
}

func (p *parser) parseImplicitExpression(parent *syntax.Block) {
	b := syntax.NewBlock(syntax.BlockExpression)
	parent.Add(b)
	p.takeN(b, 1, syntax.SpanTransition, syntax.GenNone)
	p.scanImplicitExpression()
	p.take(b, syntax.SpanCode, syntax.GenExpression)
}

// scanImplicitExpression advances over identifiers, member accesses, calls
// and indexers. A trailing '.' is left for the markup.
func (p *parser) scanImplicitExpression() {
	for {
		id := p.readIdentifier()
		if id == "" {
			return
		}
		if id == "await" && isWhitespace(p.cur()) {
			save := p.pos
			p.skipWhitespace()
			if isIdentStart(p.cur()) {
				continue
			}
			p.pos = save
			return
		}
		for p.cur() == '(' || p.cur() == '[' {
			open := p.cur()
			closer := ')'
			if open == '[' {
				closer = ']'
			}
			openAt := p.pos
			if !p.skipBalanced(open, closer) {
				p.report(diag.ExpectedCloseBracketBeforeEOF, openAt, 1, string(open), string(closer))
				return
			}
		}
		switch {
		case p.cur() == '.' && isIdentStart(p.peek(1)):
			p.pos++
		case p.cur() == '?' && p.peek(1) == '.' && isIdentStart(p.peek(2)):
			p.pos += 2
		default:
			return
		}
	}
}

func (p *parser) parseExplicitExpression(parent *syntax.Block) {
	b := syntax.NewBlock(syntax.BlockExpression)
	parent.Add(b)
	p.takeN(b, 1, syntax.SpanTransition, syntax.GenNone)
	openAt := p.pos
	p.takeN(b, 1, syntax.SpanMetaCode, syntax.GenNone)

	depth := 0
	for !p.eof() {
		if p.skipLiteralOrComment() {
			continue
		}
		c := p.cur()
		if c == ')' {
			if depth == 0 {
				break
			}
			depth--
		} else if c == '(' {
			depth++
		}
		p.pos++
	}
	p.take(b, syntax.SpanCode, syntax.GenExpression)
	if p.eof() {
		p.report(diag.ExpectedEndOfBlockBeforeEOF, openAt, 1, blockEOFArgs("explicit expression", '(', ')')...)
		return
	}
	p.takeN(b, 1, syntax.SpanMetaCode, syntax.GenNone)
}

func (p *parser) parseCodeBlock(parent *syntax.Block, lineStart bool) {
	b := syntax.NewBlock(syntax.BlockStatement)
	parent.Add(b)
	p.takeN(b, 1, syntax.SpanTransition, syntax.GenNone)
	openAt := p.pos
	p.takeN(b, 1, syntax.SpanMetaCode, syntax.GenNone)

	closed := p.parseCodeBody(b, syntax.GenStatement, true)
	p.take(b, syntax.SpanCode, syntax.GenStatement)
	if !closed {
		p.report(diag.ExpectedEndOfBlockBeforeEOF, openAt, 1, blockEOFArgs("code", '{', '}')...)
		return
	}
	p.takeN(b, 1, syntax.SpanMetaCode, syntax.GenNone)
	p.swallowLineEnd(b, lineStart)
}

// parseCodeBody scans code up to the '}' closing the current block and
// reports whether it was found. The '}' is not consumed. Markup and nested
// transitions are parsed into b when allowMarkup is set.
func (p *parser) parseCodeBody(b *syntax.Block, gen syntax.Generator, allowMarkup bool) bool {
	depth, parens := 0, 0
	stmtStart := true

	for !p.eof() {
		if p.skipLiteralOrComment() {
			stmtStart = false
			continue
		}
		c := p.cur()
		switch {
		case c == '}' && depth == 0:
			return true
		case c == '{':
			depth++
			p.pos++
			stmtStart = true
		case c == '}':
			depth--
			p.pos++
			stmtStart = true
		case c == '(' || c == '[':
			parens++
			p.pos++
			stmtStart = false
		case c == ')' || c == ']':
			if parens > 0 {
				parens--
			}
			p.pos++
			stmtStart = false
		case (c == ';' || c == ':') && parens == 0:
			p.pos++
			stmtStart = true
		case c == '@':
			stmtStart = p.codeTransition(b, gen, allowMarkup)
		case c == '<' && allowMarkup && parens == 0 && stmtStart && p.isStartTagStart():
			p.flushCodeBeforeMarkup(b, gen)
			p.parseMarkupBlockInCode(b)
			stmtStart = true
		case isWhitespace(c) || isNewline(c):
			p.pos++
		case isIdentStart(c):
			stmtStart = keywordsBeforeMarkup[p.readIdentifier()]
		default:
			p.pos++
			stmtStart = false
		}
	}
	return false
}

// codeTransition handles an '@' inside code and reports whether markup may
// follow.
func (p *parser) codeTransition(b *syntax.Block, gen syntax.Generator, allowMarkup bool) bool {
	next := p.peek(1)
	switch {
	case next == ':' && allowMarkup:
		p.take(b, syntax.SpanCode, gen)
		p.parseMarkupLine(b)
		return true
	case next == '<' && allowMarkup:
		p.take(b, syntax.SpanCode, gen)
		p.parseTemplate(b)
		return false
	case next == '*':
		p.take(b, syntax.SpanCode, gen)
		p.parseRazorComment(b)
		return true
	case next == '{':
		p.report(diag.UnexpectedNestedCodeBlock, p.pos, 2)
		p.take(b, syntax.SpanCode, gen)
		p.takeN(b, 1, syntax.SpanTransition, syntax.GenNone)
		return true
	case next == '(' && allowMarkup:
		p.take(b, syntax.SpanCode, gen)
		p.parseExplicitExpression(b)
		return false
	case isIdentStart(next):
		p.pos++
		id := p.peekIdentifier()
		p.pos--
		if controlKeywords[id] || reservedWords[id] || !allowMarkup {
			// verbatim identifier
			p.pos++
			p.readIdentifier()
			return false
		}
		p.take(b, syntax.SpanCode, gen)
		p.parseImplicitExpression(b)
		return true
	default:
		p.report(diag.AtInCodeMustBeFollowedByIdent, p.pos, 1)
		p.pos++
		return false
	}
}

// flushCodeBeforeMarkup emits pending code, leaving whitespace that starts
// the line pending for the markup.
func (p *parser) flushCodeBeforeMarkup(b *syntax.Block, gen syntax.Generator) {
	ws := p.pos
	for ws > p.start && isWhitespace(p.src[ws-1]) {
		ws--
	}
	if ws > 0 && !isNewline(p.src[ws-1]) {
		ws = p.pos
	}
	end := p.pos
	p.pos = ws
	p.take(b, syntax.SpanCode, gen)
	p.pos = end
}

func (p *parser) parseMarkupLine(parent *syntax.Block) {
	m := syntax.NewBlock(syntax.BlockMarkup)
	parent.Add(m)
	p.takeN(m, 1, syntax.SpanTransition, syntax.GenNone)
	p.takeN(m, 1, syntax.SpanMetaCode, syntax.GenNone)
	p.parseMarkupContent(m, modeLine)
	p.take(m, syntax.SpanMarkup, syntax.GenMarkup)
}

func (p *parser) parseTemplate(parent *syntax.Block) {
	t := syntax.NewBlock(syntax.BlockTemplate)
	parent.Add(t)
	p.takeN(t, 1, syntax.SpanTransition, syntax.GenNone)
	p.parseMarkupBlockInCode(t)
}

func (p *parser) parseRazorComment(parent *syntax.Block) {
	b := syntax.NewBlock(syntax.BlockComment)
	parent.Add(b)
	start := p.pos
	lineStart := p.atLineStart(start)

	p.takeN(b, 1, syntax.SpanTransition, syntax.GenNone)
	p.takeN(b, 1, syntax.SpanMetaCode, syntax.GenNone)
	for !p.eof() && !p.hasPrefix("*@") {
		p.pos++
	}
	p.take(b, syntax.SpanComment, syntax.GenNone)
	if p.eof() {
		p.report(diag.RazorCommentNotTerminated, start, 2)
		return
	}
	p.takeN(b, 1, syntax.SpanMetaCode, syntax.GenNone)
	p.takeN(b, 1, syntax.SpanTransition, syntax.GenNone)
	p.swallowLineEnd(b, lineStart)
}

// parseControlStatement parses if/else chains, loops, switch, try, lock and
// using blocks written at markup level.
func (p *parser) parseControlStatement(parent *syntax.Block, keyword string, lineStart bool) {
	b := syntax.NewBlock(syntax.BlockStatement)
	parent.Add(b)
	p.takeN(b, 1, syntax.SpanTransition, syntax.GenNone)

	kw, prev := keyword, ""
	for {
		p.pos += len([]rune(kw))
		if kw == "else" {
			save := p.pos
			p.skipAllWhitespace()
			if p.peekIdentifier() == "if" {
				p.pos += 2
				kw = "if"
			} else {
				p.pos = save
			}
		}

		if kw != "do" && kw != "try" && kw != "else" && kw != "finally" {
			save := p.pos
			p.skipAllWhitespace()
			if p.cur() == '(' {
				openAt := p.pos
				if !p.skipBalanced('(', ')') {
					p.take(b, syntax.SpanCode, syntax.GenStatement)
					p.report(diag.ExpectedCloseBracketBeforeEOF, openAt, 1, "(", ")")
					return
				}
			} else {
				p.pos = save
			}
		}

		if prev == "do" && kw == "while" {
			p.skipWhitespace()
			if p.cur() == ';' {
				p.pos++
			}
			break
		}

		save := p.pos
		p.skipAllWhitespace()
		if p.cur() == '{' {
			openAt := p.pos
			p.pos++
			if !p.parseCodeBody(b, syntax.GenStatement, true) {
				p.take(b, syntax.SpanCode, syntax.GenStatement)
				p.report(diag.ExpectedEndOfBlockBeforeEOF, openAt, 1, blockEOFArgs(kw, '{', '}')...)
				return
			}
			p.pos++
		} else {
			p.pos = save
			p.parseSingleStatement(b)
		}

		next, ok := p.continuation(kw)
		if !ok {
			break
		}
		prev, kw = kw, next
	}

	p.take(b, syntax.SpanCode, syntax.GenStatement)
	p.swallowLineEnd(b, lineStart)
}

// continuation looks past whitespace for the keyword continuing kw and
// leaves p.pos on it.
func (p *parser) continuation(kw string) (string, bool) {
	save := p.pos
	p.skipAllWhitespace()
	id := p.peekIdentifier()
	ok := false
	switch kw {
	case "if":
		ok = id == "else"
	case "try", "catch":
		ok = id == "catch" || id == "finally"
	case "do":
		ok = id == "while"
	}
	if !ok {
		p.pos = save
		return "", false
	}
	return id, true
}

func (p *parser) parseSingleStatement(b *syntax.Block) {
	save := p.pos
	p.skipAllWhitespace()
	if p.isStartTagStart() {
		p.report(diag.SingleLineControlFlowWithMarkup, p.pos, 1)
		p.flushCodeBeforeMarkup(b, syntax.GenStatement)
		p.parseMarkupBlockInCode(b)
		return
	}
	p.pos = save

	depth := 0
	for !p.eof() {
		if p.skipLiteralOrComment() {
			continue
		}
		c := p.cur()
		switch {
		case c == '(' || c == '{' || c == '[':
			depth++
		case c == ')' || c == '}' || c == ']':
			depth--
		case c == ';' && depth <= 0:
			p.pos++
			return
		case isNewline(c) && depth <= 0 && p.pos > save:
			return
		}
		p.pos++
	}
}

// skipBalanced advances past a bracketed region starting at p.pos and
// reports whether the closing bracket was found.
func (p *parser) skipBalanced(open, closer rune) bool {
	depth := 0
	for !p.eof() {
		if p.skipLiteralOrComment() {
			continue
		}
		c := p.cur()
		p.pos++
		switch c {
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

// skipLiteralOrComment advances past a string, character literal or comment
// at p.pos and reports whether it did.
func (p *parser) skipLiteralOrComment() bool {
	c, n := p.cur(), p.peek(1)
	switch {
	case c == '"':
		p.skipString(false)
	case c == '\'':
		p.skipChar()
	case c == '@' && n == '"':
		p.pos++
		p.skipString(true)
	case c == '$' && n == '"':
		p.pos++
		p.skipString(false)
	case (c == '$' && n == '@' || c == '@' && n == '$') && p.peek(2) == '"':
		p.pos += 2
		p.skipString(true)
	case c == '/' && n == '/':
		for !p.eof() && !isNewline(p.cur()) {
			p.pos++
		}
	case c == '/' && n == '*':
		start := p.pos
		p.pos += 2
		for !p.eof() && !p.hasPrefix("*/") {
			p.pos++
		}
		if p.eof() {
			p.report(diag.BlockCommentNotTerminated, start, 2)
			return true
		}
		p.pos += 2
	default:
		return false
	}
	return true
}

func (p *parser) skipString(verbatim bool) {
	start := p.pos
	p.pos++
	for !p.eof() {
		c := p.cur()
		switch {
		case c == '\\' && !verbatim:
			p.advance(2)
			continue
		case c == '"':
			if verbatim && p.peek(1) == '"' {
				p.pos += 2
				continue
			}
			p.pos++
			return
		case isNewline(c) && !verbatim:
			p.report(diag.UnterminatedStringLiteral, start, 1)
			return
		}
		p.pos++
	}
	p.report(diag.UnterminatedStringLiteral, start, 1)
}

func (p *parser) skipChar() {
	p.pos++
	for !p.eof() && !isNewline(p.cur()) {
		switch p.cur() {
		case '\\':
			p.advance(2)
			continue
		case '\'':
			p.pos++
			return
		}
		p.pos++
	}
}

func (p *parser) advance(n int) {
	p.pos += n
	if p.pos > len(p.src) {
		p.pos = len(p.src)
	}
}
