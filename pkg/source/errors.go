package source

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when an index or range falls outside the document.
var ErrOutOfRange = errors.New("index out of range")

// ErrEncodingConflict is returned when the declared encoding disagrees with the byte order mark.
var ErrEncodingConflict = errors.New("encoding conflict")

// BoundsError describes an out-of-range access.
type BoundsError struct {
	Index  int
	Count  int
	Length int
}

func (e *BoundsError) Error() string {
	if e.Count > 0 {
		return fmt.Sprintf("range [%d, %d) outside document of length %d", e.Index, e.Index+e.Count, e.Length)
	}
	return fmt.Sprintf("index %d outside document of length %d", e.Index, e.Length)
}

// Unwrap allows errors.Is(err, ErrOutOfRange).
func (e *BoundsError) Unwrap() error {
	return ErrOutOfRange
}

// EncodingError describes a declared encoding that does not match the content.
type EncodingError struct {
	Declared Encoding
	Detected Encoding
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("declared encoding %s but content has a %s byte order mark", e.Declared, e.Detected)
}

// Unwrap allows errors.Is(err, ErrEncodingConflict).
func (e *EncodingError) Unwrap() error {
	return ErrEncodingConflict
}
