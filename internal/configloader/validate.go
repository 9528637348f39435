package configloader

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/yaklabco/gorazor/pkg/catalog"
	"github.com/yaklabco/gorazor/pkg/config"
	"github.com/yaklabco/gorazor/pkg/project"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "extensions[0]").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown fields).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// Validate checks a configuration for errors and warnings. Zero values are
// accepted so partial configurations from a single layer can be validated.
func Validate(cfg *config.Config) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}

	result := &ValidationResult{}

	if cfg.LanguageVersion != "" && !cfg.LanguageVersion.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "language_version",
			Value:   cfg.LanguageVersion,
			Message: fmt.Sprintf("invalid language version %q; must be one of: 1.0, 1.1, 2.0, 2.1, 3.0, latest", cfg.LanguageVersion),
		})
	}

	if cfg.NewLine != "" && !cfg.NewLine.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "newline",
			Value:   cfg.NewLine,
			Message: fmt.Sprintf("invalid newline %q; must be one of: lf, crlf", cfg.NewLine),
		})
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: text, json, summary", cfg.Format),
		})
	}

	if cfg.Jobs < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "jobs",
			Value:   cfg.Jobs,
			Message: "jobs must be >= 0 (0 means auto)",
		})
	}

	if cfg.IndentSize < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "indent_size",
			Value:   cfg.IndentSize,
			Message: "indent_size must be > 0",
		})
	}

	if cfg.RootNamespace != "" && !isQualifiedName(cfg.RootNamespace) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "root_namespace",
			Value:   cfg.RootNamespace,
			Message: fmt.Sprintf("invalid namespace %q", cfg.RootNamespace),
		})
	}

	validateExtensions(cfg, result)
	validateCatalogs(cfg, result)
	validateIgnorePatterns(cfg, result)

	return result
}

// validateExtensions checks that extensions start with a dot and are not
// listed twice.
func validateExtensions(cfg *config.Config, result *ValidationResult) {
	seen := make(map[string]bool, len(cfg.Extensions))
	for i, ext := range cfg.Extensions {
		field := fmt.Sprintf("extensions[%d]", i)
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field,
				Value:   ext,
				Message: fmt.Sprintf("invalid extension %q; must start with a dot", ext),
			})
			continue
		}
		if seen[strings.ToLower(ext)] {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   field,
				Value:   ext,
				Message: fmt.Sprintf("extension %q is listed more than once", ext),
			})
		}
		seen[strings.ToLower(ext)] = true
	}
}

// validateCatalogs checks that catalog files have a known format.
func validateCatalogs(cfg *config.Config, result *ValidationResult) {
	for i, path := range cfg.Catalog {
		if _, err := catalog.FormatFor(path); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("catalog[%d]", i),
				Value:   path,
				Message: "catalog files must be .yaml, .yml, .toml or .json",
			})
		}
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		// filepath.Match returns an error only for malformed patterns
		_, err := filepath.Match(strings.ReplaceAll(pattern, "**", "*"), "")
		if err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("ignore[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
			continue
		}
		if project.MatchGlob("", pattern) {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   fmt.Sprintf("ignore[%d]", i),
				Value:   pattern,
				Message: "pattern ignores every template",
			})
		}
	}
}

// isQualifiedName reports whether s is a dotted sequence of identifiers.
func isQualifiedName(s string) bool {
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return false
		}
		for i, r := range part {
			if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
				continue
			}
			return false
		}
	}
	return true
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
