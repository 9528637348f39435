package directive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorazor/pkg/directive"
)

func TestNew_TokenOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tokens  []directive.TokenDescriptor
		wantErr bool
	}{
		{name: "no tokens"},
		{name: "required only", tokens: []directive.TokenDescriptor{{Kind: directive.TokenType}, {Kind: directive.TokenMember}}},
		{name: "trailing optional", tokens: []directive.TokenDescriptor{{Kind: directive.TokenType}, {Kind: directive.TokenString, Optional: true}}},
		{name: "all optional", tokens: []directive.TokenDescriptor{{Kind: directive.TokenType, Optional: true}, {Kind: directive.TokenString, Optional: true}}},
		{name: "required after optional", tokens: []directive.TokenDescriptor{{Kind: directive.TokenType, Optional: true}, {Kind: directive.TokenMember}}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			desc, err := directive.New("custom", directive.KindSingleLine, directive.WithTokens(tc.tokens...))
			if tc.wantErr {
				require.ErrorIs(t, err, directive.ErrInvalidTokenOrder)
				assert.Nil(t, desc)
				return
			}
			require.NoError(t, err)
			assert.Len(t, desc.Tokens(), len(tc.tokens))
		})
	}
}

func TestNew_InvalidKeyword(t *testing.T) {
	t.Parallel()

	for _, keyword := range []string{"", "two words", "a-b"} {
		_, err := directive.New(keyword, directive.KindSingleLine)
		require.ErrorIs(t, err, directive.ErrInvalidKeyword, keyword)
	}
}

func TestMustNew_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		directive.MustNew("bad", directive.KindSingleLine, directive.WithTokens(
			directive.TokenDescriptor{Kind: directive.TokenString, Optional: true},
			directive.TokenDescriptor{Kind: directive.TokenString},
		))
	})
}

func TestBuiltins(t *testing.T) {
	t.Parallel()

	keywords := make([]string, 0)
	for _, desc := range directive.Builtins() {
		keywords = append(keywords, desc.Keyword())
	}
	assert.Equal(t, []string{"addTagHelper", "removeTagHelper", "tagHelperPrefix", "inherits", "functions", "section", "namespace"}, keywords)

	assert.True(t, directive.Section.IsBlock())
	assert.True(t, directive.Functions.IsBlock())
	assert.False(t, directive.Inherits.IsBlock())
	assert.True(t, directive.Inherits.Usage().FileScoped())
	assert.False(t, directive.Section.Usage().FileScoped())
	assert.True(t, directive.IsTagHelperDirective("tagHelperPrefix"))
	assert.False(t, directive.IsTagHelperDirective("section"))
}

func TestTokens_ReturnsCopy(t *testing.T) {
	t.Parallel()

	tokens := directive.Inherits.Tokens()
	tokens[0].Name = "changed"
	assert.Equal(t, "TypeName", directive.Inherits.Tokens()[0].Name)
}
