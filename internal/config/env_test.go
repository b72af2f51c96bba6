package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-proj-abcdefghijklmnop")

	key, err := RequireAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "sk-proj-abcdefghijklmnop", key)
}

func TestRequireAPIKey_TrimsWhitespace(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "  sk-proj-abcdefghijklmnop\n")

	key, err := RequireAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "sk-proj-abcdefghijklmnop", key)
}

func TestRequireAPIKey_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"whitespace_only", "   "},
		{"wrong_prefix", "pk-abcdefghijklmnopqrst"},
		{"too_short", "sk-short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OPENAI_API_KEY", tt.key)
			_, err := RequireAPIKey()
			assert.Error(t, err)
		})
	}
}
