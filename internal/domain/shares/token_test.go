package shares

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken_Format(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 500; i++ {
		tok, err := GenerateToken()
		require.NoError(t, err)
		require.Len(t, tok, TokenLength)
		require.True(t, IsWellFormedToken(tok), tok)
		seen[tok] = struct{}{}
	}
	// 36^8 combinaciones: 500 tokens no deberían repetirse
	assert.Len(t, seen, 500)
}

func TestIsWellFormedToken(t *testing.T) {
	for tok, want := range map[string]bool{
		"ABCD1234":  true,
		"00000000":  true,
		"abcd1234":  false,
		"ABCD123":   false,
		"ABCD12345": false,
		"ABCD-123":  false,
		"":          false,
	} {
		assert.Equal(t, want, IsWellFormedToken(tok), tok)
	}
}
