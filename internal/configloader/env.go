package configloader

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/gorazor/pkg/config"
)

// envVarPrefix is the prefix for all gorazor environment variables.
const envVarPrefix = "GORAZOR_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"DESIGN_TIME":       {"design_time", envTypeBool, "Generate design-time code: true or false"},
	"LANGUAGE_VERSION":  {"language_version", envTypeString, "Template language version: 1.0, 1.1, 2.0, 2.1, 3.0 or latest"},
	"ROOT_NAMESPACE":    {"root_namespace", envTypeString, "Namespace of the generated classes"},
	"OUTPUT_DIR":        {"output_dir", envTypeString, "Directory receiving the generated files"},
	"NEWLINE":           {"newline", envTypeString, "Line separator of generated code: lf or crlf"},
	"INDENT_SIZE":       {"indent_size", envTypeInt, "Columns per indentation level"},
	"SUPPRESS_CHECKSUM": {"suppress_checksum", envTypeBool, "Omit the #pragma checksum line: true or false"},
	"MVC":               {"mvc", envTypeBool, "Enable the MVC directives: true or false"},
	"JOBS":              {"jobs", envTypeInt, "Number of parallel workers (0 = auto)"},
	"FORMAT":            {"format", envTypeString, "Output format: text, json or summary"},
	"IGNORE":            {"ignore", envTypeSlice, "Comma-separated list of ignore patterns"},
	"CATALOG":           {"catalog", envTypeSlice, "Comma-separated list of tag helper catalogs"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with GORAZOR_ (e.g., GORAZOR_MVC).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "language_version":
		cfg.LanguageVersion = config.LanguageVersion(value)
	case "root_namespace":
		cfg.RootNamespace = value
	case "output_dir":
		cfg.OutputDir = value
	case "newline":
		cfg.NewLine = config.NewLineStyle(value)
	case "format":
		cfg.Format = config.OutputFormat(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "design_time":
		cfg.DesignTime = value
	case "suppress_checksum":
		cfg.SuppressChecksum = value
	case "mvc":
		cfg.MVC = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "indent_size":
		cfg.IndentSize = value
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "ignore":
		cfg.Ignore = value
	case "catalog":
		cfg.Catalog = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// EnvVar describes one supported environment variable.
type EnvVar struct {
	Name        string
	Description string
}

// ListEnvVars returns the supported environment variables sorted by name.
func ListEnvVars() []EnvVar {
	vars := make([]EnvVar, 0, len(envMappings))
	for suffix, mapping := range envMappings {
		vars = append(vars, EnvVar{Name: envVarPrefix + suffix, Description: mapping.description})
	}
	slices.SortFunc(vars, func(a, b EnvVar) int { return strings.Compare(a.Name, b.Name) })
	return vars
}
