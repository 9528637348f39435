package parser

import (
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/syntax"
)

type markupMode uint8

const (
	modeDocument markupMode = iota
	// modeSection stops before an unbalanced '}'.
	modeSection
	// modeLine stops after the next line break.
	modeLine
)

// textTagName is the transition tag that groups markup inside code without
// producing output.
const textTagName = "text"

var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Keygen: true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Param:  true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

// IsVoidElement reports whether name is an HTML element that never has an end tag.
func IsVoidElement(name string) bool {
	return voidElements[atom.Lookup([]byte(strings.ToLower(name)))]
}

func (p *parser) parseMarkupContent(b *syntax.Block, mode markupMode) {
	braces := 0
	for !p.eof() {
		c := p.cur()
		switch mode {
		case modeSection:
			if c == '{' {
				braces++
			} else if c == '}' {
				if braces == 0 {
					return
				}
				braces--
			}
		case modeLine:
			if isNewline(c) {
				p.consumeNewline()
				return
			}
		case modeDocument:
		}
		p.markupStep(b)
	}
}

// markupStep consumes one markup construct. It returns the tag block when
// the construct was a start or end tag.
func (p *parser) markupStep(b *syntax.Block) *syntax.Block {
	switch p.cur() {
	case '@':
		p.markupTransition(b)
		return nil
	case '<':
		return p.markupAngle(b)
	default:
		p.pos++
		return nil
	}
}

func (p *parser) markupTransition(b *syntax.Block) {
	next := p.peek(1)
	switch {
	case next == '@':
		p.flushMarkup(b)
		p.takeN(b, 1, syntax.SpanMarkup, syntax.GenMarkup)
		p.takeN(b, 1, syntax.SpanMetaCode, syntax.GenNone)
	case next == '*':
		p.flushMarkup(b)
		p.parseRazorComment(b)
	case p.isEmailAt():
		p.pos++
	default:
		p.flushMarkup(b)
		p.parseTransition(b, inMarkup)
	}
}

// isEmailAt reports an '@' between two letters or digits, as in an e-mail address.
func (p *parser) isEmailAt() bool {
	return p.pos > 0 && isLetterOrDigit(p.src[p.pos-1]) && isLetterOrDigit(p.peek(1))
}

func (p *parser) markupAngle(b *syntax.Block) *syntax.Block {
	switch {
	case p.hasPrefix("<!--"):
		p.flushMarkup(b)
		p.parseHTMLComment(b)
		return nil
	case p.hasPrefixFold("<!DOCTYPE"):
		p.skipPast(">")
		return nil
	case p.hasPrefix("<![CDATA["):
		p.skipPast("]]>")
		return nil
	case p.hasPrefix("<?"):
		p.skipPast("?>")
		return nil
	case p.isEndTagStart():
		p.flushMarkup(b)
		return p.parseEndTag(b)
	case p.isStartTagStart():
		p.flushMarkup(b)
		return p.parseStartTag(b)
	default:
		p.pos++
		return nil
	}
}

func (p *parser) isStartTagStart() bool {
	if p.cur() != '<' {
		return false
	}
	if p.peek(1) == '!' {
		return isTagNameStart(p.peek(2)) && !p.hasPrefixFold("<!DOCTYPE")
	}
	return isTagNameStart(p.peek(1))
}

func (p *parser) isEndTagStart() bool {
	if !p.hasPrefix("</") {
		return false
	}
	if p.peek(2) == '!' {
		return isTagNameStart(p.peek(3))
	}
	return isTagNameStart(p.peek(2))
}

func isTagNameStart(r rune) bool {
	return r != eof && isLetterOrDigit(r)
}

func isTagNameChar(r rune) bool {
	switch r {
	case eof, '>', '/', '<', '@', '=', '"', '\'':
		return false
	default:
		return !isWhitespace(r) && !isNewline(r)
	}
}

func (p *parser) readTagName() string {
	start := p.pos
	for !p.eof() && isTagNameChar(p.cur()) {
		p.pos++
	}
	return string(p.src[start:p.pos])
}

// skipPast advances to just after marker, or to the end of the document.
func (p *parser) skipPast(marker string) {
	for !p.eof() {
		if p.hasPrefix(marker) {
			p.pos += len([]rune(marker))
			return
		}
		p.pos++
	}
}

func (p *parser) parseHTMLComment(parent *syntax.Block) {
	b := syntax.NewBlock(syntax.BlockHTMLComment)
	parent.Add(b)
	p.pos += len("<!--")
	p.skipPast("-->")
	p.take(b, syntax.SpanMarkup, syntax.GenMarkup)
}

func (p *parser) parseStartTag(parent *syntax.Block) *syntax.Block {
	tb := syntax.NewBlock(syntax.BlockTag)
	info := &syntax.TagInfo{}
	tb.Tag = info
	parent.Add(tb)

	p.pos++
	if p.cur() == '!' {
		info.OptOut = true
		p.take(tb, syntax.SpanMarkup, syntax.GenMarkup)
		p.takeN(tb, 1, syntax.SpanMetaCode, syntax.GenNone)
	}
	info.Name = p.readTagName()
	p.take(tb, syntax.SpanMarkup, syntax.GenMarkup)

	p.parseAttributes(tb)

	switch {
	case p.hasPrefix("/>"):
		p.pos += 2
		info.SelfClosing = true
		info.Complete = true
	case p.cur() == '>':
		p.pos++
		info.Complete = true
	}
	p.take(tb, syntax.SpanMarkup, syntax.GenMarkup)
	return tb
}

func (p *parser) parseEndTag(parent *syntax.Block) *syntax.Block {
	tb := syntax.NewBlock(syntax.BlockTag)
	info := &syntax.TagInfo{IsEndTag: true}
	tb.Tag = info
	parent.Add(tb)

	p.pos += 2
	if p.cur() == '!' {
		info.OptOut = true
		p.take(tb, syntax.SpanMarkup, syntax.GenMarkup)
		p.takeN(tb, 1, syntax.SpanMetaCode, syntax.GenNone)
	}
	info.Name = p.readTagName()
	for !p.eof() && p.cur() != '>' && p.cur() != '<' {
		p.pos++
	}
	if p.cur() == '>' {
		p.pos++
		info.Complete = true
	}
	p.take(tb, syntax.SpanMarkup, syntax.GenMarkup)
	return tb
}

func (p *parser) parseAttributes(tb *syntax.Block) {
	for {
		wsStart := p.pos
		p.skipAllWhitespace()
		c := p.cur()
		if c == eof || c == '>' || c == '<' || p.hasPrefix("/>") {
			return
		}
		if c == '@' && p.peek(1) != '@' {
			p.take(tb, syntax.SpanMarkup, syntax.GenMarkup)
			p.parseTransition(tb, inTag)
			continue
		}

		nameStart := p.pos
		for !p.eof() && isAttributeNameChar(p.cur()) && !p.hasPrefix("/>") {
			p.pos++
		}
		if p.pos == nameStart {
			p.pos++
			continue
		}
		name := string(p.src[nameStart:p.pos])
		nameEnd := p.pos

		p.pos = wsStart
		p.take(tb, syntax.SpanMarkup, syntax.GenMarkup)
		p.pos = nameEnd
		p.parseAttribute(tb, name)
	}
}

func isAttributeNameChar(r rune) bool {
	switch r {
	case eof, '=', '>', '<', '"', '\'':
		return false
	default:
		return !isWhitespace(r) && !isNewline(r)
	}
}

// parseAttribute parses one attribute whose leading whitespace and name are
// pending.
func (p *parser) parseAttribute(tb *syntax.Block, name string) {
	afterName := p.pos
	p.skipAllWhitespace()
	if p.cur() != '=' {
		p.pos = afterName
		ab := syntax.NewBlock(syntax.BlockMarkup)
		ab.Attr = &syntax.AttributeInfo{
			Name:      name,
			Prefix:    string(p.src[p.start:p.pos]),
			Structure: syntax.AttributeMinimized,
		}
		p.take(ab, syntax.SpanMarkup, syntax.GenMarkup)
		tb.Add(ab)
		return
	}

	p.pos++
	p.skipAllWhitespace()
	structure := syntax.AttributeNoQuotes
	var quote rune
	switch p.cur() {
	case '"':
		structure, quote = syntax.AttributeDoubleQuotes, '"'
		p.pos++
	case '\'':
		structure, quote = syntax.AttributeSingleQuotes, '\''
		p.pos++
	}

	conditional := p.opts.ConditionalDataDashAttributes || !strings.HasPrefix(strings.ToLower(name), "data-")
	kind, gen := syntax.BlockMarkupAttribute, syntax.GenNone
	if !conditional {
		kind, gen = syntax.BlockMarkup, syntax.GenMarkup
	}
	ab := syntax.NewBlock(kind)
	ab.Attr = &syntax.AttributeInfo{
		Name:      name,
		Prefix:    string(p.src[p.start:p.pos]),
		Structure: structure,
	}
	tb.Add(ab)
	p.take(ab, syntax.SpanMarkup, gen)

	p.parseAttributeValue(ab, quote, conditional)

	if quote != 0 && p.cur() == quote {
		p.pos++
		ab.Attr.Suffix = string(quote)
		p.take(ab, syntax.SpanMarkup, gen)
	}
}

func (p *parser) atValueEnd(quote rune) bool {
	c := p.cur()
	if c == eof {
		return true
	}
	if quote != 0 {
		return c == quote
	}
	return isWhitespace(c) || isNewline(c) || c == '>' || c == '<' || p.hasPrefix("/>")
}

func (p *parser) parseAttributeValue(ab *syntax.Block, quote rune, conditional bool) {
	literalGen := syntax.GenLiteralAttributeValue
	if !conditional {
		literalGen = syntax.GenMarkup
	}
	emitLiteral := func(prefix string) {
		if s := p.take(ab, syntax.SpanMarkup, literalGen); s != nil {
			s.ValuePrefix = prefix
		}
	}

	for !p.atValueEnd(quote) {
		pieceStart := p.pos
		for !p.atValueEnd(quote) && (isWhitespace(p.cur()) || isNewline(p.cur())) {
			p.pos++
		}
		ws := string(p.src[pieceStart:p.pos])
		if p.atValueEnd(quote) {
			emitLiteral(ws)
			return
		}

		if p.cur() == '@' {
			switch {
			case p.peek(1) == '@':
				p.pos++
				emitLiteral(ws)
				p.takeN(ab, 1, syntax.SpanMetaCode, syntax.GenNone)
				continue
			case !p.isEmailAt():
				if conditional {
					dv := syntax.NewBlock(syntax.BlockDynamicAttributeValue)
					ab.Add(dv)
					p.take(dv, syntax.SpanMarkup, syntax.GenNone)
					p.parseTransition(dv, inAttribute)
				} else {
					p.take(ab, syntax.SpanMarkup, syntax.GenMarkup)
					p.parseTransition(ab, inAttribute)
				}
				continue
			}
		}

		for !p.atValueEnd(quote) && !isWhitespace(p.cur()) && !isNewline(p.cur()) {
			if p.cur() == '@' && !p.isEmailAt() {
				break
			}
			p.pos++
		}
		emitLiteral(ws)
	}
}

// parseMarkupBlockInCode parses one element, including its children, that
// appears where code was expected. Pending whitespace becomes part of the markup.
func (p *parser) parseMarkupBlockInCode(parent *syntax.Block) {
	m := syntax.NewBlock(syntax.BlockMarkup)
	parent.Add(m)
	p.take(m, syntax.SpanMarkup, syntax.GenMarkup)

	if !p.isStartTagStart() {
		p.report(diag.OuterTagMissingName, p.pos, 1)
		p.parseMarkupContent(m, modeLine)
		p.take(m, syntax.SpanMarkup, syntax.GenMarkup)
		return
	}

	type openTag struct {
		name string
		at   int
		text bool
	}
	var stack []openTag

	for !p.eof() {
		if p.cur() != '<' {
			p.markupStep(m)
			continue
		}
		tagStart := p.pos
		tb := p.markupAngle(m)
		if tb == nil {
			continue
		}
		info := tb.Tag
		if !info.IsEndTag {
			isText := len(stack) == 0 && info.Name == textTagName && !info.OptOut
			if isText {
				p.markTextTag(tb)
			}
			switch {
			case !info.Complete:
				p.report(diag.UnfinishedTag, tagStart+1, len([]rune(info.Name)), info.Name)
			case !info.SelfClosing && !IsVoidElement(info.Name):
				stack = append(stack, openTag{name: info.Name, at: tagStart, text: isText})
			}
		} else {
			idx := -1
			for i := len(stack) - 1; i >= 0; i-- {
				if strings.EqualFold(stack[i].name, info.Name) {
					idx = i
					break
				}
			}
			if idx < 0 {
				p.report(diag.UnexpectedEndTag, tagStart+2, len([]rune(info.Name)), info.Name)
			} else {
				if stack[idx].text {
					p.markTextTag(tb)
				}
				stack = stack[:idx]
			}
		}
		if len(stack) == 0 {
			break
		}
	}

	if len(stack) > 0 {
		outer := stack[0]
		p.report(diag.MissingEndTag, outer.at+1, len([]rune(outer.name)), outer.name)
	}
	p.take(m, syntax.SpanMarkup, syntax.GenMarkup)
	p.takeBlankLineRemainder(m, syntax.GenMarkup)
}

// takeBlankLineRemainder emits the rest of the line when it is blank.
func (p *parser) takeBlankLineRemainder(b *syntax.Block, gen syntax.Generator) {
	i := p.pos
	for i < len(p.src) && isWhitespace(p.src[i]) {
		i++
	}
	if i < len(p.src) && !isNewline(p.src[i]) {
		return
	}
	p.pos = i
	p.consumeNewline()
	p.take(b, syntax.SpanMarkup, gen)
}

// markTextTag turns a <text> or </text> tag into a transition that produces
// no output.
func (p *parser) markTextTag(tb *syntax.Block) {
	for _, c := range tb.Children {
		if b, ok := c.(*syntax.Block); ok && b.Attr != nil {
			p.diags.Report(diag.TextTagCannotContainAttributes, tb.Range())
			break
		}
	}
	for _, s := range syntax.Leaves(tb) {
		s.Kind = syntax.SpanTransition
		s.Generator = syntax.GenNone
		s.Accepted = syntax.AcceptNone
	}
}
