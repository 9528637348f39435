package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full documents every setting with its default value.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// settingDoc documents one configuration key for the full template.
type settingDoc struct {
	Key         string
	Description string
	Value       string
}

//nolint:gochecknoglobals // Read-only template content.
var settingDocs = []settingDoc{
	{"design_time", "Generate code for editor tooling instead of code that renders the template.", "false"},
	{"indent_size", "Columns per indentation level in generated code.", "4"},
	{"indent_with_tabs", "Indent generated code with tabs.", "false"},
	{"language_version", "Template language version: 1.0, 1.1, 2.0, 2.1, 3.0 or latest. " +
		"2.1 allows minimized boolean tag helper attributes and HTML comments inside tag helpers; " +
		"3.0 allows markup in every code block and conditional data- attributes.", `"latest"`},
	{"suppress_checksum", "Omit the #pragma checksum line from generated code.", "false"},
	{"newline", "Line separator of generated code: lf or crlf.", "lf"},
	{"root_namespace", "Namespace of the generated classes.", DefaultRootNamespace},
	{"output_dir", "Directory receiving the generated .g.cs files.", DefaultOutputDir},
	{"mvc", "Enable the @model, @inject and @page directives and the view and page classifiers.", "false"},
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return generateFullTemplate(), nil
	}
	return generateMinimalTemplate(), nil
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Template language version: 1.0, 1.1, 2.0, 2.1, 3.0 or latest
language_version: latest

# Namespace of the generated classes
# root_namespace: Razor

# Tag helper descriptor catalogs (yaml, toml or json)
# catalog:
#   - taghelpers.yaml

# File patterns to ignore (glob patterns)
# ignore:
#   - "bin/**"
#   - "obj/**"
`)

	return buf.Bytes()
}

// generateFullTemplate creates a template documenting every setting.
func generateFullTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n#\n# This template lists every setting with its default value.\n")

	for _, doc := range settingDocs {
		fmt.Fprintf(&buf, "\n# %s\n", wrapComment(doc.Description, commentWrapWidth))
		fmt.Fprintf(&buf, "%s: %s\n", doc.Key, doc.Value)
	}

	buf.WriteString(`
# File extensions compiled as templates
extensions:
  - .cshtml

# Import files applied before the discovered _ViewImports.cshtml files
# default_imports:
#   - Shared/_Imports.cshtml

# Tag helper descriptor catalogs (yaml, toml or json)
catalog: []

# File patterns to ignore (glob patterns)
ignore:
  - "bin/**"
  - "obj/**"
`)

	return buf.Bytes()
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n# ")
}

// templateToJSON renders the defaults as JSON.
func templateToJSON() ([]byte, error) {
	def := NewConfig()
	cfg := map[string]any{
		"design_time":       def.DesignTime,
		"indent_size":       def.IndentSize,
		"indent_with_tabs":  def.IndentWithTabs,
		"language_version":  def.LanguageVersion,
		"suppress_checksum": def.SuppressChecksum,
		"newline":           def.NewLine,
		"root_namespace":    def.RootNamespace,
		"extensions":        def.Extensions,
		"output_dir":        def.OutputDir,
		"mvc":               def.MVC,
		"catalog":           []string{},
		"ignore":            []string{"bin/**", "obj/**"},
	}

	jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# gorazor configuration
# See: https://github.com/yaklabco/gorazor`
}
