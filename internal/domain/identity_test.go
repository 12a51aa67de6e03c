package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeIdentity(t *testing.T) {
	email, err := NormalizeIdentity("Ayo@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "ayo@example.com", email)

	email, err = NormalizeIdentity("  david@example.com")
	require.NoError(t, err)
	assert.Equal(t, "david@example.com", email)
}

func TestNormalizeIdentity_Rejects(t *testing.T) {
	for _, in := range []string{"", "   ", "not-an-email", "a@", "Jane Doe <jane@example.com>"} {
		_, err := NormalizeIdentity(in)
		require.Error(t, err, "input %q", in)
		assert.Equal(t, KindInvalidInput, KindOf(err))
	}
}
