package source

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names the character encoding of raw template bytes.
type Encoding int

const (
	// EncodingAuto detects the encoding from the byte order mark, defaulting to UTF-8.
	EncodingAuto Encoding = iota
	EncodingUTF8
	EncodingUTF16LE
	EncodingUTF16BE
)

func (e Encoding) String() string {
	switch e {
	case EncodingAuto:
		return "auto"
	case EncodingUTF8:
		return "utf-8"
	case EncodingUTF16LE:
		return "utf-16le"
	case EncodingUTF16BE:
		return "utf-16be"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

//nolint:gochecknoglobals // Read-only byte order marks.
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding inspects the byte order mark. It returns EncodingAuto when none is present.
func DetectEncoding(raw []byte) Encoding {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return EncodingUTF8
	case bytes.HasPrefix(raw, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(raw, bomUTF16BE):
		return EncodingUTF16BE
	default:
		return EncodingAuto
	}
}

// decode converts raw bytes to text, honoring declared and detected encodings.
func decode(raw []byte, declared Encoding) (string, Encoding, error) {
	detected := DetectEncoding(raw)
	if declared != EncodingAuto && detected != EncodingAuto && declared != detected {
		return "", detected, &EncodingError{Declared: declared, Detected: detected}
	}

	effective := declared
	if effective == EncodingAuto {
		effective = detected
	}
	if effective == EncodingAuto {
		effective = EncodingUTF8
	}

	var enc encoding.Encoding
	switch effective {
	case EncodingUTF16LE:
		enc = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case EncodingUTF16BE:
		enc = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	default:
		enc = unicode.UTF8BOM
	}

	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", effective, fmt.Errorf("decode %s: %w", effective, err)
	}
	if effective == EncodingUTF8 && !utf8.Valid(decoded) {
		decoded = bytes.ToValidUTF8(decoded, []byte(string(utf8.RuneError)))
	}

	return string(decoded), effective, nil
}
