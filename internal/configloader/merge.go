package configloader

import (
	"slices"

	"github.com/yaklabco/gorazor/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Booleans: override can only switch a setting on
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.IndentSize != 0 {
		result.IndentSize = override.IndentSize
	}
	if override.LanguageVersion != "" {
		result.LanguageVersion = override.LanguageVersion
	}
	if override.NewLine != "" {
		result.NewLine = override.NewLine
	}
	if override.RootNamespace != "" {
		result.RootNamespace = override.RootNamespace
	}
	if override.OutputDir != "" {
		result.OutputDir = override.OutputDir
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	// Booleans: false is the zero value, so a layer cannot unset a setting
	// an earlier layer enabled.
	result.DesignTime = base.DesignTime || override.DesignTime
	result.IndentWithTabs = base.IndentWithTabs || override.IndentWithTabs
	result.SuppressChecksum = base.SuppressChecksum || override.SuppressChecksum
	result.MVC = base.MVC || override.MVC
	result.Strict = base.Strict || override.Strict

	if override.Extensions != nil {
		result.Extensions = slices.Clone(override.Extensions)
	}
	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}
	if override.Catalog != nil {
		result.Catalog = slices.Clone(override.Catalog)
	}
	if override.DefaultImports != nil {
		result.DefaultImports = slices.Clone(override.DefaultImports)
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
