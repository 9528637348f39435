package config

import (
	"fmt"
	"slices"
)

// LanguageVersion is a version of the template language.
type LanguageVersion string

const (
	Language1_0    LanguageVersion = "1.0"
	Language1_1    LanguageVersion = "1.1"
	Language2_0    LanguageVersion = "2.0"
	Language2_1    LanguageVersion = "2.1"
	Language3_0    LanguageVersion = "3.0"
	LanguageLatest LanguageVersion = "latest"
)

//nolint:gochecknoglobals // Read-only ordering of known versions.
var languageVersions = []LanguageVersion{Language1_0, Language1_1, Language2_0, Language2_1, Language3_0}

// ParseLanguageVersion validates s. An empty string means latest.
func ParseLanguageVersion(s string) (LanguageVersion, error) {
	if s == "" {
		return LanguageLatest, nil
	}
	v := LanguageVersion(s)
	if !v.IsValid() {
		return "", fmt.Errorf("unknown language version %q", s)
	}
	return v, nil
}

// IsValid returns true if the version is known.
func (v LanguageVersion) IsValid() bool {
	return v == LanguageLatest || slices.Contains(languageVersions, v)
}

// AtLeast reports whether v is other or a later version.
func (v LanguageVersion) AtLeast(other LanguageVersion) bool {
	return v.rank() >= other.rank()
}

func (v LanguageVersion) rank() int {
	if v == LanguageLatest || v == "" {
		return len(languageVersions)
	}
	return slices.Index(languageVersions, v)
}

// Features are the language behaviours that changed between versions.
type Features struct {
	AllowMinimizedBooleanTagHelperAttributes bool
	AllowHTMLCommentsInTagHelpers            bool
	AllowRazorInAllCodeBlocks                bool
	AllowConditionalDataDashAttributes       bool
}

// Features returns the feature flags of the version.
func (v LanguageVersion) Features() Features {
	return Features{
		AllowMinimizedBooleanTagHelperAttributes: v.AtLeast(Language2_1),
		AllowHTMLCommentsInTagHelpers:            v.AtLeast(Language2_1),
		AllowRazorInAllCodeBlocks:                v.AtLeast(Language3_0),
		AllowConditionalDataDashAttributes:       v.AtLeast(Language3_0),
	}
}
