package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmailNormalizes(t *testing.T) {
	email, err := NewEmail("  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email.String())
}

func TestNewEmailRejectsInvalid(t *testing.T) {
	for _, input := range []string{"", "not-an-email", "a b@example.com"} {
		_, err := NewEmail(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestEmailEquals(t *testing.T) {
	a, err := NewEmail("alice@example.com")
	require.NoError(t, err)
	b, err := NewEmail("ALICE@example.com")
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
	assert.False(t, a.IsZero())
	assert.True(t, Email{}.IsZero())
}
