// Package config defines core configuration types for gorazor.
// These types are pure data structures with no dependency on how they are loaded.
package config

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSummary OutputFormat = "summary"
)

// NewLineStyle selects the line separator written into generated code.
type NewLineStyle string

const (
	NewLineLF   NewLineStyle = "lf"
	NewLineCRLF NewLineStyle = "crlf"
)

// Sequence returns the characters of the style. Unknown styles fall back to "\n".
func (s NewLineStyle) Sequence() string {
	if s == NewLineCRLF {
		return "\r\n"
	}
	return "\n"
}

// IsValid returns true if the style is known.
func (s NewLineStyle) IsValid() bool {
	return s == NewLineLF || s == NewLineCRLF
}

// Default values.
const (
	DefaultIndentSize    = 4
	DefaultRootNamespace = "Razor"
	DefaultOutputDir     = "obj/razor"
	DefaultImportsFile   = "_ViewImports.cshtml"
)

// Config is the root configuration structure for gorazor.
type Config struct {
	// DesignTime generates code for editor tooling instead of execution.
	DesignTime bool `yaml:"design_time"`

	// IndentSize is the number of columns per indentation level.
	IndentSize int `yaml:"indent_size"`

	// IndentWithTabs indents generated code with tabs.
	IndentWithTabs bool `yaml:"indent_with_tabs"`

	// LanguageVersion selects the template language features.
	LanguageVersion LanguageVersion `yaml:"language_version"`

	// SuppressChecksum omits the #pragma checksum line.
	SuppressChecksum bool `yaml:"suppress_checksum"`

	// NewLine is the line separator of generated code ("lf" or "crlf").
	NewLine NewLineStyle `yaml:"newline"`

	// RootNamespace is the namespace of generated classes.
	RootNamespace string `yaml:"root_namespace"`

	// Extensions lists the file extensions compiled as templates.
	Extensions []string `yaml:"extensions"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `yaml:"ignore"`

	// Catalog lists tag helper descriptor files (YAML, TOML or JSON).
	Catalog []string `yaml:"catalog"`

	// OutputDir is where generated files are written, relative to the project root.
	OutputDir string `yaml:"output_dir"`

	// DefaultImports are import files applied to every template before the
	// discovered _ViewImports.cshtml files.
	DefaultImports []string `yaml:"default_imports"`

	// MVC enables the @model, @inject and @page directives.
	MVC bool `yaml:"mvc"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// Strict treats warnings as failures.
	Strict bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		IndentSize:      DefaultIndentSize,
		LanguageVersion: LanguageLatest,
		NewLine:         NewLineLF,
		RootNamespace:   DefaultRootNamespace,
		Extensions:      []string{".cshtml"},
		OutputDir:       DefaultOutputDir,
		Format:          FormatText,
		Jobs:            0, // 0 means use GOMAXPROCS
	}
}
