// Package source provides an immutable, random-access view over template text.
//
// A Document owns the decoded characters of one template, its file identity,
// the encoding it was read with and a line index. Positions are expressed in
// characters (runes) so that line mappings are independent of the byte encoding.
package source

import (
	"crypto/sha256"
	"fmt"
	"io"
	"sync"
	"unicode/utf8"
)

// ChecksumAlgorithm names the hash used by Document.Checksum.
const ChecksumAlgorithm = "SHA256"

// ChecksumAlgorithmID is the GUID identifying SHA256 in #pragma checksum directives.
const ChecksumAlgorithmID = "{8829d00f-11b8-4213-878b-770e8597ac16}"

// Document is an immutable template source.
type Document struct {
	filePath     string
	relativePath string
	encoding     Encoding
	store        storage
	lines        *LineIndex

	checksumOnce sync.Once
	checksum     []byte
}

// Option configures document construction.
type Option func(*documentOptions)

type documentOptions struct {
	relativePath   string
	chunkThreshold int
	chunkSize      int
}

// WithRelativePath records the project-relative path of the document.
func WithRelativePath(path string) Option {
	return func(o *documentOptions) {
		o.relativePath = path
	}
}

// WithChunking overrides the size above which content is stored in chunks.
func WithChunking(threshold, size int) Option {
	return func(o *documentOptions) {
		if threshold >= 0 {
			o.chunkThreshold = threshold
		}
		if size > 0 {
			o.chunkSize = size
		}
	}
}

// New creates a document from already decoded text.
func New(content, filePath string, opts ...Option) *Document {
	return newDocument(content, filePath, EncodingUTF8, opts)
}

// FromBytes decodes raw bytes with the declared encoding.
// EncodingAuto detects the encoding from the byte order mark.
func FromBytes(raw []byte, filePath string, declared Encoding, opts ...Option) (*Document, error) {
	text, effective, err := decode(raw, declared)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}
	return newDocument(text, filePath, effective, opts), nil
}

// Read reads and decodes a document from a stream.
func Read(r io.Reader, filePath string, declared Encoding, opts ...Option) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}
	return FromBytes(raw, filePath, declared, opts...)
}

func newDocument(content, filePath string, enc Encoding, opts []Option) *Document {
	options := documentOptions{
		chunkThreshold: DefaultChunkThreshold,
		chunkSize:      DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(&options)
	}

	doc := &Document{
		filePath:     filePath,
		relativePath: options.relativePath,
		encoding:     enc,
	}
	if n := utf8.RuneCountInString(content); n > options.chunkThreshold {
		doc.store = newChunked(content, n, options.chunkSize)
	} else {
		doc.store = contiguous([]rune(content))
	}
	doc.lines = buildLines(filePath, doc.store)
	return doc
}

// FilePath returns the path the document was created with.
func (d *Document) FilePath() string {
	return d.filePath
}

// RelativePath returns the project-relative path, falling back to FilePath.
func (d *Document) RelativePath() string {
	if d.relativePath == "" {
		return d.filePath
	}
	return d.relativePath
}

// Encoding returns the encoding the content was decoded with.
func (d *Document) Encoding() Encoding {
	return d.encoding
}

// Length returns the number of characters.
func (d *Document) Length() int {
	return d.store.length()
}

// CharAt returns the character at index.
func (d *Document) CharAt(index int) (rune, error) {
	if index < 0 || index >= d.store.length() {
		return 0, &BoundsError{Index: index, Length: d.store.length()}
	}
	return d.store.at(index), nil
}

// CopyTo copies count characters starting at sourceIndex into dst at dstIndex.
func (d *Document) CopyTo(sourceIndex int, dst []rune, dstIndex, count int) error {
	if count < 0 || sourceIndex < 0 || sourceIndex+count > d.store.length() {
		return &BoundsError{Index: sourceIndex, Count: count, Length: d.store.length()}
	}
	if dstIndex < 0 || dstIndex+count > len(dst) {
		return &BoundsError{Index: dstIndex, Count: count, Length: len(dst)}
	}
	if count == 0 {
		return nil
	}
	d.store.copyTo(dst[dstIndex:dstIndex+count], sourceIndex)
	return nil
}

// Runes returns a copy of the whole content.
func (d *Document) Runes() []rune {
	out := make([]rune, d.store.length())
	if len(out) > 0 {
		d.store.copyTo(out, 0)
	}
	return out
}

// Text returns the whole content as a string.
func (d *Document) Text() string {
	return string(d.Runes())
}

// Slice returns the characters in [start, end) as a string.
func (d *Document) Slice(start, end int) (string, error) {
	if start < 0 || end < start || end > d.store.length() {
		return "", &BoundsError{Index: start, Count: end - start, Length: d.store.length()}
	}
	out := make([]rune, end-start)
	if len(out) > 0 {
		d.store.copyTo(out, start)
	}
	return string(out), nil
}

// Lines returns the line index.
func (d *Document) Lines() *LineIndex {
	return d.lines
}

// Location converts an absolute offset to a location.
func (d *Document) Location(index int) (Location, error) {
	if index < 0 || index > d.store.length() {
		return Location{}, &BoundsError{Index: index, Length: d.store.length()}
	}
	return d.lines.Location(index), nil
}

// Checksum returns the SHA256 hash of the UTF-8 encoded content.
// It is computed on first use and cached.
func (d *Document) Checksum() []byte {
	d.checksumOnce.Do(func() {
		hasher := sha256.New()
		buf := make([]byte, 0, 4*1024)
		for i := 0; i < d.store.length(); i++ {
			buf = utf8.AppendRune(buf, d.store.at(i))
			if len(buf) >= 4*1024-utf8.UTFMax {
				hasher.Write(buf)
				buf = buf[:0]
			}
		}
		hasher.Write(buf)
		d.checksum = hasher.Sum(nil)
	})
	return append([]byte(nil), d.checksum...)
}

// ChecksumHex returns the checksum as lowercase hexadecimal.
func (d *Document) ChecksumHex() string {
	return fmt.Sprintf("%x", d.Checksum())
}
