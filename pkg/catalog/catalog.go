// Package catalog provides the tag helper descriptors a project compiles
// against. Descriptors come from code or from catalog files written in YAML,
// TOML or JSON.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gorazor/pkg/taghelper"
)

// ErrUnsupportedFormat is returned for catalog files of an unknown format.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// Provider supplies tag helper descriptors.
type Provider interface {
	Descriptors() ([]*taghelper.Descriptor, error)
}

// Static is a Provider over a fixed set of descriptors.
type Static []*taghelper.Descriptor

func (s Static) Descriptors() ([]*taghelper.Descriptor, error) {
	return taghelper.Dedupe(s), nil
}

// Format is the encoding of a catalog file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFor returns the format of a catalog file from its extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// File is the content of a catalog file.
type File struct {
	TagHelpers []taghelper.Spec `json:"tag_helpers" toml:"tag_helpers" yaml:"tag_helpers"`
}

// Decode reads a catalog in format from r.
func Decode(r io.Reader, format Format) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var f File
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &f)
	case FormatTOML:
		err = toml.Unmarshal(data, &f)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s catalog: %w", format, err)
	}
	return &f, nil
}

// Encode writes f to w in format.
func Encode(w io.Writer, f *File, format Format) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(f)
	case FormatTOML:
		data, err = toml.Marshal(f)
	case FormatJSON:
		data, err = json.MarshalIndent(f, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("encode %s catalog: %w", format, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

// Descriptors creates the descriptors of f. Invalid specs still produce a
// descriptor, carrying its diagnostics.
func (f *File) Descriptors() []*taghelper.Descriptor {
	out := make([]*taghelper.Descriptor, 0, len(f.TagHelpers))
	for _, spec := range f.TagHelpers {
		out = append(out, taghelper.New(spec))
	}
	return taghelper.Dedupe(out)
}

// FileProvider reads descriptors from catalog files. Every call reads the
// files again.
type FileProvider struct {
	Paths []string
}

// NewFileProvider creates a provider over the catalog files at paths.
func NewFileProvider(paths ...string) *FileProvider {
	return &FileProvider{Paths: paths}
}

func (p *FileProvider) Descriptors() ([]*taghelper.Descriptor, error) {
	var out []*taghelper.Descriptor
	for _, path := range p.Paths {
		descriptors, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, descriptors...)
	}
	return taghelper.Dedupe(out), nil
}

// LoadFile reads the descriptors of one catalog file.
func LoadFile(path string) ([]*taghelper.Descriptor, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	file, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file.Descriptors(), nil
}

// Multi combines providers, removing duplicate descriptors.
type Multi []Provider

func (m Multi) Descriptors() ([]*taghelper.Descriptor, error) {
	var out []*taghelper.Descriptor
	for _, p := range m {
		descriptors, err := p.Descriptors()
		if err != nil {
			return nil, err
		}
		out = append(out, descriptors...)
	}
	return taghelper.Dedupe(out), nil
}
