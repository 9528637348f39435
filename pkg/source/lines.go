package source

import "sort"

// LineInfo describes one line of a document in character offsets.
type LineInfo struct {
	// StartOffset is the index of the first character of the line.
	StartOffset int

	// NewlineStart is the index of the line terminator, or EndOffset for the last line.
	NewlineStart int

	// EndOffset is the index just past the line terminator.
	EndOffset int
}

// LineIndex maps absolute character offsets to line/column positions.
type LineIndex struct {
	path   string
	length int
	lines  []LineInfo
}

// buildLines constructs line metadata. It recognizes LF, CRLF, CR and the
// Unicode line separators NEL, LS and PS.
func buildLines(path string, content storage) *LineIndex {
	length := content.length()
	index := &LineIndex{path: path, length: length}
	lineStart := 0

	for idx := 0; idx < length; idx++ {
		newlineStart := idx
		switch content.at(idx) {
		case '\r':
			if idx+1 < length && content.at(idx+1) == '\n' {
				idx++
			}
		case '\n', '\u0085', '\u2028', '\u2029':
		default:
			continue
		}

		index.lines = append(index.lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	// The last line may be empty and has no terminator.
	index.lines = append(index.lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: length,
		EndOffset:    length,
	})

	return index
}

// Count returns the number of lines. An empty document has one line.
func (l *LineIndex) Count() int {
	return len(l.lines)
}

// Line returns the metadata of a zero-based line.
func (l *LineIndex) Line(lineIndex int) (LineInfo, bool) {
	if lineIndex < 0 || lineIndex >= len(l.lines) {
		return LineInfo{}, false
	}
	return l.lines[lineIndex], true
}

// Location converts an absolute offset to a Location.
// Offsets past the end are clamped to the end of the document.
func (l *LineIndex) Location(offset int) Location {
	if offset < 0 {
		offset = 0
	}
	if offset > l.length {
		offset = l.length
	}

	// Binary search to find the line containing the offset.
	lineIdx := sort.Search(len(l.lines), func(i int) bool {
		return l.lines[i].EndOffset > offset
	})
	if lineIdx >= len(l.lines) {
		lineIdx = len(l.lines) - 1
	}

	return Location{
		FilePath:       l.path,
		AbsoluteIndex:  offset,
		LineIndex:      lineIdx,
		CharacterIndex: offset - l.lines[lineIdx].StartOffset,
	}
}

// Span builds a span from absolute start and end offsets.
func (l *LineIndex) Span(start, end int) Span {
	if end < start {
		end = start
	}
	return NewSpan(l.Location(start), end-start)
}
