package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gorazor/pkg/config"
)

func TestOutputFormat_IsValid(t *testing.T) {
	t.Parallel()

	for _, f := range config.OutputFormats() {
		assert.True(t, f.IsValid(), f)
	}
	assert.False(t, config.OutputFormat("sarif").IsValid())
	assert.False(t, config.OutputFormat("").IsValid())
}

func TestNewLineStyle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "\n", config.NewLineLF.Sequence())
	assert.Equal(t, "\r\n", config.NewLineCRLF.Sequence())
	assert.Equal(t, "\n", config.NewLineStyle("").Sequence())
	assert.False(t, config.NewLineStyle("cr").IsValid())
}

func TestLanguageVersion_Features(t *testing.T) {
	t.Parallel()

	tests := []struct {
		version config.LanguageVersion
		want    config.Features
	}{
		{config.Language1_0, config.Features{}},
		{config.Language2_0, config.Features{}},
		{config.Language2_1, config.Features{
			AllowMinimizedBooleanTagHelperAttributes: true,
			AllowHTMLCommentsInTagHelpers:            true,
		}},
		{config.Language3_0, config.Features{
			AllowMinimizedBooleanTagHelperAttributes: true,
			AllowHTMLCommentsInTagHelpers:            true,
			AllowRazorInAllCodeBlocks:                true,
			AllowConditionalDataDashAttributes:       true,
		}},
		{config.LanguageLatest, config.Language3_0.Features()},
	}

	for _, tt := range tests {
		t.Run(string(tt.version), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.version.Features())
		})
	}
}

func TestParseLanguageVersion(t *testing.T) {
	t.Parallel()

	v, err := config.ParseLanguageVersion("")
	assert.NoError(t, err)
	assert.Equal(t, config.LanguageLatest, v)

	v, err = config.ParseLanguageVersion("2.1")
	assert.NoError(t, err)
	assert.True(t, v.AtLeast(config.Language2_0))
	assert.False(t, v.AtLeast(config.Language3_0))

	_, err = config.ParseLanguageVersion("4.0")
	assert.Error(t, err)
}
