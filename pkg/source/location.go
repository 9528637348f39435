package source

import "fmt"

// Location identifies a character position in a source document.
// All indices are zero-based and count characters (runes), not bytes.
type Location struct {
	FilePath       string
	AbsoluteIndex  int
	LineIndex      int
	CharacterIndex int
}

// Undefined is the zero-width location used for synthesized content.
//
//nolint:gochecknoglobals // Read-only sentinel value.
var Undefined = Location{AbsoluteIndex: -1, LineIndex: -1, CharacterIndex: -1}

// IsUndefined reports whether the location was synthesized.
func (l Location) IsUndefined() bool {
	return l.AbsoluteIndex < 0
}

// Advance returns the location reached after reading text starting at l.
func (l Location) Advance(text string) Location {
	next := l
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		next.AbsoluteIndex++
		switch runes[i] {
		case '\r':
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
				next.AbsoluteIndex++
			}
			next.LineIndex++
			next.CharacterIndex = 0
		case '\n', '\u0085', '\u2028', '\u2029':
			next.LineIndex++
			next.CharacterIndex = 0
		default:
			next.CharacterIndex++
		}
	}
	return next
}

// String formats the location as path(line,column) using one-based numbers.
func (l Location) String() string {
	return fmt.Sprintf("%s(%d,%d)", l.FilePath, l.LineIndex+1, l.CharacterIndex+1)
}

// Span is a contiguous range of characters in a source document.
type Span struct {
	FilePath       string
	AbsoluteIndex  int
	LineIndex      int
	CharacterIndex int
	Length         int
}

// NewSpan creates a span starting at loc covering length characters.
func NewSpan(loc Location, length int) Span {
	return Span{
		FilePath:       loc.FilePath,
		AbsoluteIndex:  loc.AbsoluteIndex,
		LineIndex:      loc.LineIndex,
		CharacterIndex: loc.CharacterIndex,
		Length:         length,
	}
}

// Start returns the location of the first character of the span.
func (s Span) Start() Location {
	return Location{
		FilePath:       s.FilePath,
		AbsoluteIndex:  s.AbsoluteIndex,
		LineIndex:      s.LineIndex,
		CharacterIndex: s.CharacterIndex,
	}
}

// End returns the absolute index just past the span.
func (s Span) End() int {
	return s.AbsoluteIndex + s.Length
}

// Contains reports whether the absolute index falls inside the span.
func (s Span) Contains(index int) bool {
	return index >= s.AbsoluteIndex && index < s.End()
}

// String formats the span as path(line,column)+length.
func (s Span) String() string {
	return fmt.Sprintf("%s+%d", s.Start(), s.Length)
}
