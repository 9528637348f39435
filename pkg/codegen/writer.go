package codegen

import (
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/gorazor/pkg/source"
)

// Writer accumulates generated code. It indents lines as they are started
// and tracks the location of the next character written, so callers can
// record line mappings.
type Writer struct {
	sb          strings.Builder
	newLine     string
	indentSize  int
	useTabs     bool
	indent      int
	atLineStart bool
	loc         source.Location
}

// NewWriter returns a writer using newLine between lines. An empty newLine
// means "\n".
func NewWriter(newLine string, indentSize int, useTabs bool) *Writer {
	if newLine == "" {
		newLine = "\n"
	}
	return &Writer{newLine: newLine, indentSize: indentSize, useTabs: useTabs, atLineStart: true}
}

// Location returns where the next character will be written.
func (w *Writer) Location() source.Location { return w.loc }

// String returns the text written so far.
func (w *Writer) String() string { return w.sb.String() }

// Indent increases the indentation of lines started from now on.
func (w *Writer) Indent() { w.indent += w.indentSize }

// Dedent undoes one Indent.
func (w *Writer) Dedent() {
	w.indent -= w.indentSize
	if w.indent < 0 {
		w.indent = 0
	}
}

// Write writes s, indenting first when a line was just started.
func (w *Writer) Write(s string) *Writer {
	if s == "" {
		return w
	}
	w.StartLine()
	w.raw(s)
	return w
}

// WriteLine writes s followed by the configured newline.
func (w *Writer) WriteLine(s string) *Writer {
	w.Write(s)
	w.NewLine()
	return w
}

// NewLine ends the current line.
func (w *Writer) NewLine() *Writer {
	w.raw(w.newLine)
	return w
}

// EnsureNewLine ends the current line unless it is empty.
func (w *Writer) EnsureNewLine() *Writer {
	if !w.atLineStart {
		w.NewLine()
	}
	return w
}

// WriteUnindented writes s at column zero, as a whole line.
func (w *Writer) WriteUnindented(s string) *Writer {
	w.EnsureNewLine()
	w.raw(s)
	w.NewLine()
	return w
}

// WritePadding moves a fresh line to the column of span, less offset
// characters that will be written before the mapped content. Indentation is
// replaced by the padding.
func (w *Writer) WritePadding(offset int, span *source.Span) *Writer {
	if span == nil || !w.atLineStart {
		return w
	}
	if n := span.CharacterIndex - offset; n > 0 {
		w.raw(strings.Repeat(" ", n))
	}
	w.atLineStart = false
	return w
}

// StartLine writes the indentation of a fresh line, so that Location points
// at the first character of content.
func (w *Writer) StartLine() *Writer {
	if w.atLineStart {
		w.raw(w.indentation(w.indent))
		w.atLineStart = false
	}
	return w
}

func (w *Writer) indentation(n int) string {
	if n <= 0 {
		return ""
	}
	if w.useTabs && w.indentSize > 0 {
		return strings.Repeat("\t", n/w.indentSize) + strings.Repeat(" ", n%w.indentSize)
	}
	return strings.Repeat(" ", n)
}

func (w *Writer) raw(s string) {
	if s == "" {
		return
	}
	w.sb.WriteString(s)
	w.loc.AbsoluteIndex += utf8.RuneCountInString(s)

	lastBreak := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			w.loc.LineIndex++
			lastBreak = i
		case '\n':
			w.loc.LineIndex++
			lastBreak = i
		}
	}
	if lastBreak >= 0 {
		w.loc.CharacterIndex = utf8.RuneCountInString(s[lastBreak+1:])
	} else {
		w.loc.CharacterIndex += utf8.RuneCountInString(s)
	}
	w.atLineStart = lastBreak == len(s)-1
}
